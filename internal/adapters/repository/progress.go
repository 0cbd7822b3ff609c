package repository

import (
	"context"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Progress reads and writes exercise_progress.
type Progress struct{ *core }

// Attempt is the score and completion time of one exercise attempt.
type Attempt struct {
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// ListByUser returns the user's attempts, most recent first. limit <= 0 uses DefaultProgressLimit.
func (r *Progress) ListByUser(ctx context.Context, userID string, limit int) ([]model.ExerciseProgress, error) {
	q := From(model.TableProgress).
		Eq("user_id", userID).
		OrderBy("completed_at", false).
		WithLimit(orDefault(limit, DefaultProgressLimit))
	return list[model.ExerciseProgress](ctx, r.core, q)
}

// Create records an attempt and stamps completed_at.
func (r *Progress) Create(ctx context.Context, p model.ExerciseProgress) (model.ExerciseProgress, error) {
	var out model.ExerciseProgress
	p.CompletedAt = r.stamp()
	err := r.insert(ctx, model.TableProgress, p, &out)
	return out, err
}

// Stats returns attempts completed in the last days, most recent first.
// days <= 0 uses DefaultProgressStatDays.
func (r *Progress) Stats(ctx context.Context, userID string, days int) ([]Attempt, error) {
	q := From(model.TableProgress).
		Select("score", "completed_at").
		Eq("user_id", userID).
		Gte("completed_at", r.daysAgo(orDefault(days, DefaultProgressStatDays))).
		OrderBy("completed_at", false)
	return list[Attempt](ctx, r.core, q)
}
