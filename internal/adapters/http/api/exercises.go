package api

import (
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// ExercisesHandler serves the exercise catalogue.
type ExercisesHandler struct {
	store ExerciseStore
}

// NewExercisesHandler creates an exercises handler.
func NewExercisesHandler(store ExerciseStore) *ExercisesHandler {
	return &ExercisesHandler{store: store}
}

// HandleList handles GET /exercises?type=.
func (h *ExercisesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_exercises"
	var (
		rows []model.CognitiveExercise
		err  error
	)
	if raw := r.URL.Query().Get("type"); raw != "" {
		et, perr := model.Parse[model.ExerciseType](raw)
		if perr != nil {
			fail(w, r, Wrap(op, perr))
			return
		}
		rows, err = h.store.ListByType(r.Context(), et)
	} else {
		rows, err = h.store.List(r.Context())
	}
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGet handles GET /exercises/{id}.
func (h *ExercisesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, Wrap("api.get_exercise", err))
		return
	}
	writeJSON(w, http.StatusOK, e)
}
