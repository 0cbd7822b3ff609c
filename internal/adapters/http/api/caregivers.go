package api

import (
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/journal"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// CaregiversHandler serves caregiver assignments.
type CaregiversHandler struct {
	store   CaregiverStore
	journal Journal
}

// NewCaregiversHandler creates a caregivers handler.
func NewCaregiversHandler(store CaregiverStore, j Journal) *CaregiversHandler {
	return &CaregiversHandler{store: store, journal: j}
}

// HandleForSenior handles GET /caregivers/{senior_id}.
func (h *CaregiversHandler) HandleForSenior(w http.ResponseWriter, r *http.Request) {
	links, err := h.store.ListForSenior(r.Context(), r.PathValue("senior_id"))
	if err != nil {
		fail(w, r, Wrap("api.list_caregivers", err))
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// HandleForCaregiver handles GET /seniors/{caregiver_id}.
func (h *CaregiversHandler) HandleForCaregiver(w http.ResponseWriter, r *http.Request) {
	links, err := h.store.ListForCaregiver(r.Context(), r.PathValue("caregiver_id"))
	if err != nil {
		fail(w, r, Wrap("api.list_seniors", err))
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// HandleCreate handles POST /caregivers.
func (h *CaregiversHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_assignment"
	var a model.CaregiverAssignment
	if err := decode(r, &a); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if err := a.Validate(); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	a.ID = ""
	out, err := h.store.Create(r.Context(), a)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionCreate, model.TableAssignments, out.ID, out.SeniorID)
	writeJSON(w, http.StatusCreated, out)
}

// HandleDelete handles DELETE /caregivers/{id}.
func (h *CaregiversHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		fail(w, r, Wrap("api.delete_assignment", err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionDelete, model.TableAssignments, id, "")
	w.WriteHeader(http.StatusNoContent)
}
