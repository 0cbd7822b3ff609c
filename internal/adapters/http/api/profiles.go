package api

import (
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/journal"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// ProfilesHandler serves /profiles.
type ProfilesHandler struct {
	store   ProfileStore
	journal Journal
}

// NewProfilesHandler creates a profiles handler.
func NewProfilesHandler(store ProfileStore, j Journal) *ProfilesHandler {
	return &ProfilesHandler{store: store, journal: j}
}

// HandleList handles GET /profiles?role=.
func (h *ProfilesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_profiles"
	var (
		rows []model.Profile
		err  error
	)
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, perr := model.Parse[model.UserRole](raw)
		if perr != nil {
			fail(w, r, Wrap(op, perr))
			return
		}
		rows, err = h.store.ListByRole(r.Context(), role)
	} else {
		rows, err = h.store.List(r.Context())
	}
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGet handles GET /profiles/{id}.
func (h *ProfilesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, Wrap("api.get_profile", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleCreate handles POST /profiles.
func (h *ProfilesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_profile"
	var p model.Profile
	if err := decode(r, &p); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if err := p.Validate(); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	out, err := h.store.Create(r.Context(), p)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionCreate, model.TableProfiles, out.ID, out.ID)
	writeJSON(w, http.StatusCreated, out)
}

// HandleUpdate handles PATCH /profiles/{id}.
func (h *ProfilesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_profile"
	var patch map[string]any
	if err := decode(r, &patch); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if err := profilePatch.check(patch); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	id := r.PathValue("id")
	out, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionUpdate, model.TableProfiles, id, id)
	writeJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /profiles/{id}.
func (h *ProfilesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		fail(w, r, Wrap("api.delete_profile", err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionDelete, model.TableProfiles, id, id)
	w.WriteHeader(http.StatusNoContent)
}
