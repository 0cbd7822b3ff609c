package repository

import (
	"context"
	"time"
)

// Default list sizes and windows.
const (
	DefaultMonitoringLimit  = 50
	DefaultTypeLimit        = 30
	DefaultAlertLimit       = 50
	DefaultRoutineLimit     = 100
	DefaultProgressLimit    = 50
	DefaultAverageDays      = 7
	DefaultProgressStatDays = 30
)

type core struct {
	b   Backend
	now func() time.Time
}

func (c *core) stamp() time.Time { return c.now().UTC() }

// daysAgo returns the instant days*24h before now.
func (c *core) daysAgo(days int) time.Time {
	return c.stamp().Add(-time.Duration(days) * 24 * time.Hour)
}

func list[T any](ctx context.Context, c *core, q Query) ([]T, error) {
	var rows []T
	if err := c.b.Select(ctx, q, &rows); err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// getOne selects exactly one row by id.
func getOne[T any](ctx context.Context, c *core, table, id string) (T, error) {
	var zero T
	rows, err := list[T](ctx, c, From(table).Eq("id", id).WithLimit(1))
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return rows[0], nil
}

func (c *core) insert(ctx context.Context, table string, row any, dest any) error {
	m, err := RowMap(row)
	if err != nil {
		return err
	}
	return c.b.Insert(ctx, table, m, dest)
}

func (c *core) update(ctx context.Context, table, id string, patch map[string]any, dest any) error {
	return c.b.Update(ctx, From(table).Eq("id", id), patch, dest)
}

func (c *core) remove(ctx context.Context, table, id string) error {
	return c.b.Delete(ctx, From(table).Eq("id", id))
}

// Repositories groups the typed repositories sharing one backend.
type Repositories struct {
	Profiles   *Profiles
	Monitoring *Monitoring
	Alerts     *Alerts
	Routines   *Routines
	Exercises  *Exercises
	Progress   *Progress
	Caregivers *Caregivers

	backend Backend
}

// New builds the typed repositories over b.
func New(b Backend, opts ...Option) *Repositories {
	c := &core{b: b, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return &Repositories{
		Profiles:   &Profiles{c},
		Monitoring: &Monitoring{c},
		Alerts:     &Alerts{c},
		Routines:   &Routines{c},
		Exercises:  &Exercises{c},
		Progress:   &Progress{c},
		Caregivers: &Caregivers{c},
		backend:    b,
	}
}

// Backend returns the underlying table store.
func (r *Repositories) Backend() Backend { return r.backend }

// Close closes the backend.
func (r *Repositories) Close() error { return r.backend.Close() }

// nonNil guarantees list results encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
