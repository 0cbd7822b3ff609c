package repository

import (
	"context"
	"errors"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Caregivers reads and writes caregiver_assignments.
type Caregivers struct{ *core }

// Link is an assignment together with the profile on its other side.
// Profile is nil when that profile no longer exists.
type Link struct {
	model.CaregiverAssignment
	Profile *model.Profile `json:"profile"`
}

// ListForSenior returns the senior's caregivers, newest assignment first.
func (r *Caregivers) ListForSenior(ctx context.Context, seniorID string) ([]Link, error) {
	q := From(model.TableAssignments).Eq("senior_id", seniorID).OrderBy("created_at", false)
	return r.links(ctx, q, func(a model.CaregiverAssignment) string { return a.CaregiverID })
}

// ListForCaregiver returns the caregiver's seniors, newest assignment first.
func (r *Caregivers) ListForCaregiver(ctx context.Context, caregiverID string) ([]Link, error) {
	q := From(model.TableAssignments).Eq("caregiver_id", caregiverID).OrderBy("created_at", false)
	return r.links(ctx, q, func(a model.CaregiverAssignment) string { return a.SeniorID })
}

func (r *Caregivers) links(ctx context.Context, q Query, other func(model.CaregiverAssignment) string) ([]Link, error) {
	rows, err := list[model.CaregiverAssignment](ctx, r.core, q)
	if err != nil {
		return nil, err
	}
	out := make([]Link, 0, len(rows))
	for _, a := range rows {
		link := Link{CaregiverAssignment: a}
		p, err := getOne[model.Profile](ctx, r.core, model.TableProfiles, other(a))
		switch {
		case err == nil:
			link.Profile = &p
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
		out = append(out, link)
	}
	return out, nil
}

// Create inserts an assignment.
func (r *Caregivers) Create(ctx context.Context, a model.CaregiverAssignment) (model.CaregiverAssignment, error) {
	var out model.CaregiverAssignment
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.stamp()
	}
	err := r.insert(ctx, model.TableAssignments, a, &out)
	return out, err
}

// Delete removes an assignment.
func (r *Caregivers) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, model.TableAssignments, id)
}
