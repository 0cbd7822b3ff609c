package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "BRAINGUARD_"
	envFile   = envPrefix + "CONFIG"
)

// Load builds a Config by layering, low to high:
//  1. defaults (New)
//  2. YAML file if BRAINGUARD_CONFIG is set
//  3. env vars with prefix BRAINGUARD_, "__" separating nested keys
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// BRAINGUARD_QUEUE_SIZE -> queue_size, BRAINGUARD_BACKEND__URL -> backend.url
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envFile {
			return ""
		}
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and combinations.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.QueueSize <= 0:
		return invalid("queue_size must be positive")
	case c.WorkerCount <= 0:
		return invalid("worker_count must be positive")
	case c.DedupeSize < 0:
		return invalid("dedupe_size must not be negative")
	case c.DefaultScoreWeight <= 0:
		return invalid("default_score_weight must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return invalid("unknown log_format %q", c.LogFormat)
	}
	for dt, w := range c.ScoreWeights {
		if w <= 0 {
			return invalid("score_weights.%s must be positive", dt)
		}
	}
	switch c.Backend.Resolved() {
	case BackendREST:
		if c.Backend.URL == "" {
			return invalid("backend.url is required for the rest backend")
		}
	case BackendSQLite:
		if c.Backend.SQLitePath == "" {
			return invalid("backend.sqlite_path must not be empty")
		}
	default:
		return invalid("unknown backend.kind %q", c.Backend.Kind)
	}
	if c.Backend.Timeout < 0 {
		return invalid("backend.timeout must not be negative")
	}
	for i, wh := range c.Webhooks {
		switch wh.Type {
		case "http", "slack":
		default:
			return invalid("webhooks[%d]: unknown type %q", i, wh.Type)
		}
		if wh.URL == "" {
			return invalid("webhooks[%d]: url is required", i)
		}
	}
	if c.Journal.File != "" && (c.Journal.MaxSizeMB < 0 || c.Journal.MaxBackups < 0) {
		return invalid("journal rotation limits must not be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
