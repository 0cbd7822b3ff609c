package repository

import (
	"context"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Alerts reads and writes the alerts table.
type Alerts struct{ *core }

// ListByUser returns the user's alerts, newest first. limit <= 0 uses DefaultAlertLimit.
func (r *Alerts) ListByUser(ctx context.Context, userID string, limit int) ([]model.Alert, error) {
	q := From(model.TableAlerts).
		Eq("user_id", userID).
		OrderBy("created_at", false).
		WithLimit(orDefault(limit, DefaultAlertLimit))
	return list[model.Alert](ctx, r.core, q)
}

// ListUnread returns the user's unread alerts, newest first.
func (r *Alerts) ListUnread(ctx context.Context, userID string) ([]model.Alert, error) {
	q := From(model.TableAlerts).
		Eq("user_id", userID).
		Eq("is_read", false).
		OrderBy("created_at", false)
	return list[model.Alert](ctx, r.core, q)
}

// Create inserts an alert.
func (r *Alerts) Create(ctx context.Context, a model.Alert) (model.Alert, error) {
	var out model.Alert
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.stamp()
	}
	err := r.insert(ctx, model.TableAlerts, a, &out)
	return out, err
}

// MarkRead flags an alert as read.
func (r *Alerts) MarkRead(ctx context.Context, id string) (model.Alert, error) {
	var out model.Alert
	err := r.update(ctx, model.TableAlerts, id, map[string]any{"is_read": true}, &out)
	return out, err
}

// MarkResolved flags an alert as resolved and stamps resolved_at.
func (r *Alerts) MarkResolved(ctx context.Context, id string) (model.Alert, error) {
	var out model.Alert
	patch := map[string]any{"is_resolved": true, "resolved_at": r.stamp()}
	err := r.update(ctx, model.TableAlerts, id, patch, &out)
	return out, err
}

// Delete removes an alert.
func (r *Alerts) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, model.TableAlerts, id)
}
