package api

import (
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/journal"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// AlertsHandler serves /alerts.
type AlertsHandler struct {
	store    AlertStore
	notifier Notifier
	journal  Journal
}

// NewAlertsHandler creates an alerts handler.
func NewAlertsHandler(store AlertStore, n Notifier, j Journal) *AlertsHandler {
	return &AlertsHandler{store: store, notifier: n, journal: j}
}

// HandleList handles GET /alerts/{user_id}?unread=true&limit=.
func (h *AlertsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_alerts"
	userID := r.PathValue("user_id")
	var (
		rows []model.Alert
		err  error
	)
	if boolParam(r, "unread") {
		rows, err = h.store.ListUnread(r.Context(), userID)
	} else {
		limit, perr := intParam(r, "limit", 0)
		if perr != nil {
			fail(w, r, Wrap(op, perr))
			return
		}
		rows, err = h.store.ListByUser(r.Context(), userID, limit)
	}
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleCreate handles POST /alerts. Stored alerts are published like rule alerts.
func (h *AlertsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_alert"
	var a model.Alert
	if err := decode(r, &a); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if err := a.Validate(); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	a.ID = ""
	a.IsRead, a.IsResolved, a.ResolvedAt = false, false, nil

	out, err := h.store.Create(r.Context(), a)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	metrics.RecordAlertRaised(string(out.AlertType), string(out.Severity))
	h.journal.Record(r.Context(), journal.ActionCreate, model.TableAlerts, out.ID, out.UserID)
	h.notifier.Publish(r.Context(), out)
	writeJSON(w, http.StatusCreated, out)
}

// HandleRead handles POST /alerts/{id}/read.
func (h *AlertsHandler) HandleRead(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.MarkRead(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, Wrap("api.read_alert", err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionUpdate, model.TableAlerts, out.ID, out.UserID)
	writeJSON(w, http.StatusOK, out)
}

// HandleResolve handles POST /alerts/{id}/resolve.
func (h *AlertsHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.MarkResolved(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, Wrap("api.resolve_alert", err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionUpdate, model.TableAlerts, out.ID, out.UserID)
	writeJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /alerts/{id}.
func (h *AlertsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		fail(w, r, Wrap("api.delete_alert", err))
		return
	}
	h.journal.Record(r.Context(), journal.ActionDelete, model.TableAlerts, id, "")
	w.WriteHeader(http.StatusNoContent)
}
