package api

import (
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/journal"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// ProgressHandler serves exercise attempts.
type ProgressHandler struct {
	store   ProgressStore
	journal Journal
}

// NewProgressHandler creates a progress handler.
func NewProgressHandler(store ProgressStore, j Journal) *ProgressHandler {
	return &ProgressHandler{store: store, journal: j}
}

// HandleList handles GET /progress/{user_id}. With days= it returns the
// score and completion time of each attempt in that window; otherwise the
// most recent attempts.
func (h *ProgressHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_progress"
	userID := r.PathValue("user_id")
	if r.URL.Query().Has("days") {
		days, err := intParam(r, "days", 0)
		if err != nil {
			fail(w, r, Wrap(op, err))
			return
		}
		attempts, err := h.store.Stats(r.Context(), userID, days)
		if err != nil {
			fail(w, r, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, attempts)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	rows, err := h.store.ListByUser(r.Context(), userID, limit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleCreate handles POST /progress.
func (h *ProgressHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_progress"
	var p model.ExerciseProgress
	if err := decode(r, &p); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if err := p.Validate(); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	p.ID = ""
	out, err := h.store.Create(r.Context(), p)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionCreate, model.TableProgress, out.ID, out.UserID)
	writeJSON(w, http.StatusCreated, out)
}
