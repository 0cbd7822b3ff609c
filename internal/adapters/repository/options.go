package repository

import "time"

// Option applies a configuration option to the Repositories.
type Option func(*core)

// WithClock replaces the time source used to stamp rows and compute windows.
func WithClock(now func() time.Time) Option {
	return func(c *core) {
		if now != nil {
			c.now = now
		}
	}
}
