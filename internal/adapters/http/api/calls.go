package api

import (
	"errors"
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/calls"
)

type startCallRequest struct {
	UserID    string `json:"user_id"`
	ContactID string `json:"contact_id"`
}

// CallsHandler serves the mock video calls.
type CallsHandler struct {
	calls CallManager
}

// NewCallsHandler creates a calls handler.
func NewCallsHandler(m CallManager) *CallsHandler {
	return &CallsHandler{calls: m}
}

// HandleContacts handles GET /calls/contacts.
func (h *CallsHandler) HandleContacts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.calls.Contacts())
}

// HandleUpcoming handles GET /calls/upcoming.
func (h *CallsHandler) HandleUpcoming(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.calls.Upcoming())
}

// HandleStart handles POST /calls.
func (h *CallsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_call"
	var req startCallRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if req.UserID == "" || req.ContactID == "" {
		fail(w, r, WrapKind(op, ErrBadRequest, errors.New("user_id and contact_id are required")))
		return
	}
	s, err := h.calls.Start(req.UserID, req.ContactID)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// HandleMute handles POST /calls/{id}/mute.
func (h *CallsHandler) HandleMute(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "api.toggle_mute", h.calls.ToggleMute)
}

// HandleVideo handles POST /calls/{id}/video.
func (h *CallsHandler) HandleVideo(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "api.toggle_video", h.calls.ToggleVideo)
}

// HandleEnd handles DELETE /calls/{id}.
func (h *CallsHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "api.end_call", h.calls.End)
}

func (h *CallsHandler) respond(w http.ResponseWriter, r *http.Request, op string, fn func(string) (calls.Session, error)) {
	s, err := fn(r.PathValue("id"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, s)
}
