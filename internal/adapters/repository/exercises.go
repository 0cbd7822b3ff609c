package repository

import (
	"context"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Exercises reads the cognitive exercise catalogue.
type Exercises struct{ *core }

// List returns the catalogue, newest first.
func (r *Exercises) List(ctx context.Context) ([]model.CognitiveExercise, error) {
	return list[model.CognitiveExercise](ctx, r.core, From(model.TableExercises).OrderBy("created_at", false))
}

// ListByType returns exercises of one type, newest first.
func (r *Exercises) ListByType(ctx context.Context, et model.ExerciseType) ([]model.CognitiveExercise, error) {
	q := From(model.TableExercises).Eq("exercise_type", et).OrderBy("created_at", false)
	return list[model.CognitiveExercise](ctx, r.core, q)
}

// Get returns one exercise.
func (r *Exercises) Get(ctx context.Context, id string) (model.CognitiveExercise, error) {
	return getOne[model.CognitiveExercise](ctx, r.core, model.TableExercises, id)
}

// Create inserts an exercise into the catalogue.
func (r *Exercises) Create(ctx context.Context, e model.CognitiveExercise) (model.CognitiveExercise, error) {
	var out model.CognitiveExercise
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.stamp()
	}
	err := r.insert(ctx, model.TableExercises, e, &out)
	return out, err
}
