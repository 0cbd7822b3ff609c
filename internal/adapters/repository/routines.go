package repository

import (
	"context"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Routines reads and writes daily_routines.
type Routines struct{ *core }

// ListByUser returns the user's routines, newest first. limit <= 0 uses DefaultRoutineLimit.
func (r *Routines) ListByUser(ctx context.Context, userID string, limit int) ([]model.DailyRoutine, error) {
	q := From(model.TableRoutines).
		Eq("user_id", userID).
		OrderBy("created_at", false).
		WithLimit(orDefault(limit, DefaultRoutineLimit))
	return list[model.DailyRoutine](ctx, r.core, q)
}

// ListByType returns the user's routines of one type, newest first.
func (r *Routines) ListByType(ctx context.Context, userID string, rt model.RoutineType) ([]model.DailyRoutine, error) {
	q := From(model.TableRoutines).
		Eq("user_id", userID).
		Eq("routine_type", rt).
		OrderBy("created_at", false)
	return list[model.DailyRoutine](ctx, r.core, q)
}

// ListToday returns routines created since 00:00 UTC today, earliest scheduled first.
func (r *Routines) ListToday(ctx context.Context, userID string) ([]model.DailyRoutine, error) {
	midnight := r.stamp().Truncate(24 * time.Hour)
	q := From(model.TableRoutines).
		Eq("user_id", userID).
		Gte("created_at", midnight).
		OrderBy("scheduled_time", true)
	return list[model.DailyRoutine](ctx, r.core, q)
}

// Create inserts a routine.
func (r *Routines) Create(ctx context.Context, rt model.DailyRoutine) (model.DailyRoutine, error) {
	var out model.DailyRoutine
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = r.stamp()
	}
	err := r.insert(ctx, model.TableRoutines, rt, &out)
	return out, err
}

// Update patches a routine.
func (r *Routines) Update(ctx context.Context, id string, patch map[string]any) (model.DailyRoutine, error) {
	var out model.DailyRoutine
	err := r.update(ctx, model.TableRoutines, id, patch, &out)
	return out, err
}

// MarkCompleted stamps completed_at.
func (r *Routines) MarkCompleted(ctx context.Context, id string) (model.DailyRoutine, error) {
	var out model.DailyRoutine
	err := r.update(ctx, model.TableRoutines, id, map[string]any{"completed_at": r.stamp()}, &out)
	return out, err
}

// Delete removes a routine.
func (r *Routines) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, model.TableRoutines, id)
}
