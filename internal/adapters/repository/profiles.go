package repository

import (
	"context"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// Profiles reads and writes the profiles table.
type Profiles struct{ *core }

// List returns every profile, newest first.
func (r *Profiles) List(ctx context.Context) ([]model.Profile, error) {
	return list[model.Profile](ctx, r.core, From(model.TableProfiles).OrderBy("created_at", false))
}

// Get returns one profile.
func (r *Profiles) Get(ctx context.Context, id string) (model.Profile, error) {
	return getOne[model.Profile](ctx, r.core, model.TableProfiles, id)
}

// ListByRole returns the profiles holding role, newest first.
func (r *Profiles) ListByRole(ctx context.Context, role model.UserRole) ([]model.Profile, error) {
	q := From(model.TableProfiles).Eq("role", role).OrderBy("created_at", false)
	return list[model.Profile](ctx, r.core, q)
}

// Create inserts a profile.
func (r *Profiles) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	var out model.Profile
	now := r.stamp()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	err := r.insert(ctx, model.TableProfiles, p, &out)
	return out, err
}

// Update patches a profile and stamps updated_at.
func (r *Profiles) Update(ctx context.Context, id string, patch map[string]any) (model.Profile, error) {
	var out model.Profile
	patch = withField(patch, "updated_at", r.stamp())
	err := r.update(ctx, model.TableProfiles, id, patch, &out)
	return out, err
}

// Delete removes a profile.
func (r *Profiles) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, model.TableProfiles, id)
}

// withField copies patch and sets key.
func withField(patch map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		out[k] = v
	}
	out[key] = value
	return out
}
