package seeddata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/types"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
)

// ErrTrendMismatch is returned when the server classifies a user differently
// from the generated shape.
var ErrTrendMismatch = errors.New("trend mismatch")

// expectedPoints is how many rows the stats endpoint reports once every
// reading of a user is stored.
func expectedPoints(cfg *Config) int {
	return min(cfg.Readings, repository.DefaultTypeLimit)
}

// awaitIngestion polls each user's stats until all readings are stored or
// cfg.Wait elapses.
func awaitIngestion(ctx context.Context, cfg *Config, client *HTTPClient, users []string) (map[string]types.MonitoringStats, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()

	want := expectedPoints(cfg)
	done := make(map[string]types.MonitoringStats, len(users))
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		for _, u := range users {
			if _, ok := done[u]; ok {
				continue
			}
			st, err := client.monitoringStats(ctx, u, cfg.DataType)
			if err == nil && st.DataPoints >= want {
				done[u] = st
			}
		}
		if len(done) == len(users) {
			return done, nil
		}
		select {
		case <-ctx.Done():
			return done, fmt.Errorf("%d of %d users ingested: %w", len(done), len(users), ctx.Err())
		case <-ticker.C:
		}
	}
}

// verifyTrends compares each user's reported trend with cfg.Shape.
func verifyTrends(ctx context.Context, cfg *Config, results map[string]types.MonitoringStats, stats *Stats) error {
	log := logger.Get().Named("seed")
	for user, st := range results {
		if st.Trend == cfg.Shape {
			stats.Verified++
			if cfg.Verbose {
				log.Info(ctx, "trend verified", logger.String("user_id", user),
					logger.String("trend", string(st.Trend)), logger.Int("average_score", st.AverageScore))
			}
			continue
		}
		stats.Mismatched++
		log.Warn(ctx, "trend mismatch", logger.String("user_id", user),
			logger.String("want", string(cfg.Shape)), logger.String("got", string(st.Trend)))
	}
	if stats.Mismatched > 0 {
		return fmt.Errorf("%w: %d of %d users", ErrTrendMismatch, stats.Mismatched, len(results))
	}
	return nil
}
