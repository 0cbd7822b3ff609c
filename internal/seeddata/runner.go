package seeddata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes a complete seeding run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("seed")
	log.Info(ctx, "starting brain guard seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("users", cfg.Users),
		logger.Int("readings", cfg.Readings),
		logger.String("shape", string(cfg.Shape)),
		logger.String("dataType", cfg.DataType),
		logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	readings := Generate(cfg, time.Now())
	stats.Generated = len(readings)

	submitReadings(ctx, cfg, client, readings, stats)
	if stats.Failed > 0 {
		log.Warn(ctx, "some readings were not accepted", logger.Int("failed", stats.Failed))
	}

	if cfg.Output != "" {
		if err := saveReadings(cfg.Output, readings); err != nil {
			log.Warn(ctx, "failed to save readings", logger.Error(err))
		}
	}

	results, err := awaitIngestion(ctx, cfg, client, usersOf(readings))
	if err != nil {
		return stats, fmt.Errorf("ingestion wait failed: %w", err)
	}
	err = verifyTrends(ctx, cfg, results, stats)

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, err
}

func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// saveReadings writes readings to filename as an indented JSON array.
func saveReadings(filename string, readings []Reading) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(readings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), filePermission)
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.Get().Named("seed").Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed),
		logger.Int("verified", stats.Verified),
		logger.Int("mismatched", stats.Mismatched),
		logger.Duration("duration", stats.Duration),
		logger.Float64("readingsPerSecond", perSecond))
}
