// Package journal appends one JSON line per mutating API call to a rotating file.
package journal

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// Actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entry is one journal line.
type Entry struct {
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Table  string    `json:"table"`
	ID     string    `json:"id"`
	UserID string    `json:"user_id,omitempty"`
}

// Config selects the journal file and its rotation.
type Config struct {
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}

// Journal writes entries. A nil or disabled Journal drops them.
type Journal struct {
	mu  sync.Mutex
	out io.WriteCloser
	enc *json.Encoder
	now func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		if now != nil {
			j.now = now
		}
	}
}

// WithWriter writes to w instead of a rotating file.
func WithWriter(w io.WriteCloser) Option {
	return func(j *Journal) { j.out = w }
}

// New opens the journal. With no file and no writer it is disabled.
func New(cfg Config, opts ...Option) *Journal {
	j := &Journal{now: time.Now}
	if cfg.File != "" {
		j.out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.out != nil {
		j.enc = json.NewEncoder(j.out)
	}
	return j
}

// Enabled reports whether entries are written.
func (j *Journal) Enabled() bool { return j != nil && j.enc != nil }

// Record appends an entry. Write failures are logged and counted.
func (j *Journal) Record(ctx context.Context, action, table, id, userID string) {
	if !j.Enabled() {
		return
	}
	e := Entry{Time: j.now().UTC(), Action: action, Table: table, ID: id, UserID: userID}

	j.mu.Lock()
	err := j.enc.Encode(e)
	j.mu.Unlock()
	if err != nil {
		metrics.RecordJournalWrite("error")
		logger.Get().Named("journal").Error(ctx, "journal write failed", logger.Error(err))
		return
	}
	metrics.RecordJournalWrite("ok")
}

// Close flushes and closes the file.
func (j *Journal) Close() error {
	if !j.Enabled() {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.out.Close()
}
