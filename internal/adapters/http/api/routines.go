package api

import (
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/journal"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// RoutinesHandler serves /routines.
type RoutinesHandler struct {
	store   RoutineStore
	journal Journal
}

// NewRoutinesHandler creates a routines handler.
func NewRoutinesHandler(store RoutineStore, j Journal) *RoutinesHandler {
	return &RoutinesHandler{store: store, journal: j}
}

// HandleList handles GET /routines/{user_id}?type=&today=true&limit=.
func (h *RoutinesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_routines"
	userID := r.PathValue("user_id")
	ctx := r.Context()

	var (
		rows []model.DailyRoutine
		err  error
	)
	switch raw := r.URL.Query().Get("type"); {
	case boolParam(r, "today"):
		rows, err = h.store.ListToday(ctx, userID)
	case raw != "":
		rt, perr := model.Parse[model.RoutineType](raw)
		if perr != nil {
			fail(w, r, Wrap(op, perr))
			return
		}
		rows, err = h.store.ListByType(ctx, userID, rt)
	default:
		limit, perr := intParam(r, "limit", 0)
		if perr != nil {
			fail(w, r, Wrap(op, perr))
			return
		}
		rows, err = h.store.ListByUser(ctx, userID, limit)
	}
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleCreate handles POST /routines.
func (h *RoutinesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_routine"
	var rt model.DailyRoutine
	if err := decode(r, &rt); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if err := rt.Validate(); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	rt.ID, rt.CompletedAt = "", nil
	out, err := h.store.Create(r.Context(), rt)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionCreate, model.TableRoutines, out.ID, out.UserID)
	writeJSON(w, http.StatusCreated, out)
}

// HandleUpdate handles PATCH /routines/{id}.
func (h *RoutinesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_routine"
	var patch map[string]any
	if err := decode(r, &patch); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if err := routinePatch.check(patch); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	out, err := h.store.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionUpdate, model.TableRoutines, out.ID, out.UserID)
	writeJSON(w, http.StatusOK, out)
}

// HandleComplete handles POST /routines/{id}/complete.
func (h *RoutinesHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.MarkCompleted(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, Wrap("api.complete_routine", err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionUpdate, model.TableRoutines, out.ID, out.UserID)
	writeJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /routines/{id}.
func (h *RoutinesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		fail(w, r, Wrap("api.delete_routine", err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionDelete, model.TableRoutines, id, "")
	w.WriteHeader(http.StatusNoContent)
}
