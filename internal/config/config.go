// Package config defines service configuration and its defaults.
package config

import (
	"runtime"
	"time"
)

// Backend kinds.
const (
	BackendSQLite = "sqlite"
	BackendREST   = "rest"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize caps the remembered submission ids. Zero means unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	Backend Backend `koanf:"backend"`

	// RulesFile is a YAML alert rule set, watched for changes. Empty uses the built-in rules.
	RulesFile string `koanf:"rules_file"`

	// ScoreWeights maps data types to score weights.
	ScoreWeights map[string]float64 `koanf:"score_weights"`

	// DefaultScoreWeight is used for data types missing from ScoreWeights.
	DefaultScoreWeight float64 `koanf:"default_score_weight"`

	Webhooks []Webhook `koanf:"webhooks"`

	Journal Journal `koanf:"journal"`
}

// Backend selects the table store.
type Backend struct {
	// Kind is sqlite or rest. Empty picks rest when URL is set, sqlite otherwise.
	Kind       string        `koanf:"kind"`
	URL        string        `koanf:"url"`
	APIKey     string        `koanf:"api_key"`
	Timeout    time.Duration `koanf:"timeout"`
	SQLitePath string        `koanf:"sqlite_path"`
}

// Resolved returns the effective backend kind.
func (b Backend) Resolved() string {
	if b.Kind != "" {
		return b.Kind
	}
	if b.URL != "" {
		return BackendREST
	}
	return BackendSQLite
}

// Webhook is an alert delivery target.
type Webhook struct {
	Type string `koanf:"type"`
	URL  string `koanf:"url"`
}

// Journal configures the activity journal. An empty File disables it.
type Journal struct {
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":9080",
		QueueSize:   10_000,
		WorkerCount: runtime.NumCPU() * 2,
		DedupeSize:  50_000,
		Backend: Backend{
			Timeout:    10 * time.Second,
			SQLitePath: "brainguard.db",
		},
		ScoreWeights: map[string]float64{
			"speech_pattern": 1.0,
			"typing_speed":   1.0,
			"activity_level": 1.0,
		},
		DefaultScoreWeight: 1.0,
		Journal: Journal{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
