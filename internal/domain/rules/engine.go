package rules

import (
	"context"
	"sync"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// Option configures the Engine.
type Option func(*Engine)

// WithClock replaces the time source used for cooldowns.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine evaluates the active rule set. Rules can be replaced at runtime.
type Engine struct {
	mu       sync.Mutex
	rules    []*Rule
	lastFire map[string]time.Time // key: rule|user|data_type
	now      func() time.Time
	logger   logger.Logger
}

// NewEngine creates an engine over rules.
func NewEngine(rules []*Rule, opts ...Option) *Engine {
	e := &Engine{
		lastFire: make(map[string]time.Time),
		now:      time.Now,
		logger:   logger.Get().Named("rules"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Replace(rules)
	return e
}

// Replace swaps the active rule set. Cooldowns of rules that keep their name survive.
func (e *Engine) Replace(rules []*Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = rules
	metrics.UpdateRulesLoaded(len(rules))
}

// Len returns the number of active rules.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rules)
}

// Firing is an alert raised by one rule. Evaluate starts the rule's
// cooldown; Release gives it back when the alert could not be stored.
type Firing struct {
	Rule  string
	Alert model.Alert

	key  string
	at   time.Time
	prev time.Time
}

// Evaluate returns the alerts to raise for ev. A rule that matched less than
// its cooldown ago for the same user and data type is suppressed.
func (e *Engine) Evaluate(ctx context.Context, ev Evaluation) []Firing {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var out []Firing
	for _, r := range e.rules {
		ok, err := r.Match(ev)
		if err != nil {
			e.logger.Warn(ctx, "rule evaluation failed", logger.String("rule", r.Name), logger.Error(err))
			continue
		}
		if !ok {
			continue
		}
		key := r.Name + "|" + ev.UserID + "|" + string(ev.DataType)
		last, fired := e.lastFire[key]
		if fired && now.Sub(last) < r.Cooldown {
			metrics.RecordAlertSuppressed(r.Name)
			continue
		}
		e.lastFire[key] = now
		a := r.Alert(ev)
		a.CreatedAt = now.UTC()
		out = append(out, Firing{Rule: r.Name, Alert: a, key: key, at: now, prev: last})
	}
	return out
}

// Release restores the cooldown f started, unless the rule fired again since.
func (e *Engine) Release(f Firing) { //nolint:gocritic // hugeParam: Firing is returned by value
	e.mu.Lock()
	defer e.mu.Unlock()
	if last, ok := e.lastFire[f.key]; !ok || !last.Equal(f.at) {
		return
	}
	if f.prev.IsZero() {
		delete(e.lastFire, f.key)
		return
	}
	e.lastFire[f.key] = f.prev
}
