package repository

import (
	"context"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Monitoring reads and writes monitoring_data.
type Monitoring struct{ *core }

// ListByUser returns the user's latest readings, most recent first.
// limit <= 0 uses DefaultMonitoringLimit.
func (r *Monitoring) ListByUser(ctx context.Context, userID string, limit int) ([]model.MonitoringData, error) {
	q := From(model.TableMonitoring).
		Eq("user_id", userID).
		OrderBy("recorded_at", false).
		WithLimit(orDefault(limit, DefaultMonitoringLimit))
	return list[model.MonitoringData](ctx, r.core, q)
}

// ListByType returns the user's latest readings of one data type, most recent first.
// limit <= 0 uses DefaultTypeLimit.
func (r *Monitoring) ListByType(ctx context.Context, userID string, dt model.MonitoringDataType, limit int) ([]model.MonitoringData, error) {
	q := From(model.TableMonitoring).
		Eq("user_id", userID).
		Eq("data_type", dt).
		OrderBy("recorded_at", false).
		WithLimit(orDefault(limit, DefaultTypeLimit))
	return list[model.MonitoringData](ctx, r.core, q)
}

// Create inserts a reading.
func (r *Monitoring) Create(ctx context.Context, m model.MonitoringData) (model.MonitoringData, error) {
	var out model.MonitoringData
	if m.RecordedAt.IsZero() {
		m.RecordedAt = r.stamp()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.stamp()
	}
	err := r.insert(ctx, model.TableMonitoring, m, &out)
	return out, err
}

// AverageScore is the unrounded mean score of readings recorded in the last days.
// Returns 0 when there are none. days <= 0 uses DefaultAverageDays.
func (r *Monitoring) AverageScore(ctx context.Context, userID string, days int) (float64, error) {
	q := From(model.TableMonitoring).
		Select("score").
		Eq("user_id", userID).
		Gte("recorded_at", r.daysAgo(orDefault(days, DefaultAverageDays))).
		OrderBy("recorded_at", false)
	rows, err := list[struct {
		Score int `json:"score"`
	}](ctx, r.core, q)
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	sum := 0
	for _, row := range rows {
		sum += row.Score
	}
	return float64(sum) / float64(len(rows)), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
