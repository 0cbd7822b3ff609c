// Package sqlite implements the table store on an embedded SQLite database.
// Every table holds (id, doc) pairs where doc is the row's JSON; filters and
// ordering read columns with json_extract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

const backendName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Backend stores tables in SQLite.
type Backend struct {
	db     *sql.DB
	tables []string
	now    func() time.Time
}

// Option configures the Backend.
type Option func(*Backend)

// WithTables replaces the table allow-list.
func WithTables(tables ...string) Option {
	return func(b *Backend) {
		if len(tables) > 0 {
			b.tables = tables
		}
	}
}

// WithClock replaces the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// Open opens (creating if needed) the database at path and its tables.
func Open(ctx context.Context, path string, opts ...Option) (*Backend, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database shared and serializes writers.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db, tables: model.Tables, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	for _, t := range b.tables {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (id TEXT PRIMARY KEY, doc TEXT NOT NULL)`, t)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table %s: %w", t, err)
		}
	}
	return b, nil
}

// Name implements repository.Backend.
func (b *Backend) Name() string { return backendName }

// Close implements repository.Backend.
func (b *Backend) Close() error { return b.db.Close() }

func (b *Backend) checkTable(table string) error {
	if !slices.Contains(b.tables, table) {
		return fmt.Errorf("%w: unknown table %q", repository.ErrInvalidQuery, table)
	}
	return nil
}

func (b *Backend) check(q repository.Query) error {
	if err := q.Validate(); err != nil {
		return err
	}
	return b.checkTable(q.Table)
}

// Select implements repository.Backend.
func (b *Backend) Select(ctx context.Context, q repository.Query, dest any) error {
	if err := b.check(q); err != nil {
		return err
	}
	where, args := whereClause(q.Filters)
	stmt := fmt.Sprintf("SELECT %s FROM %q%s%s", projection(q.Columns), q.Table, where, orderClause(q.Order))
	if q.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	start := time.Now()
	docs, err := b.queryDocs(ctx, stmt, args...)
	record("select", start, err)
	if err != nil {
		return repository.BackendError("select", err)
	}
	return repository.DecodeAll(joinDocs(docs), dest)
}

// Insert implements repository.Backend. A missing id gets a UUID and a
// missing created_at gets the current time.
func (b *Backend) Insert(ctx context.Context, table string, row any, dest any) error {
	if err := b.checkTable(table); err != nil {
		return err
	}
	m, err := toDoc(row)
	if err != nil {
		return err
	}
	id, _ := m["id"].(string)
	if id == "" {
		id = uuid.NewString()
		m["id"] = id
	}
	if _, ok := m["created_at"]; !ok {
		m["created_at"] = b.now().UTC().Format(repository.TimeLayout)
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = b.db.ExecContext(ctx, fmt.Sprintf("INSERT INTO %q (id, doc) VALUES (?, ?)", table), id, string(doc))
	record("insert", start, err)
	if duplicateKey(err) {
		return fmt.Errorf("%w: %s %s", repository.ErrConflict, table, id)
	}
	if err != nil {
		return repository.BackendError("insert", err)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(doc, dest)
}

func duplicateKey(err error) bool {
	var se *driver.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// Update implements repository.Backend.
func (b *Backend) Update(ctx context.Context, q repository.Query, patch map[string]any, dest any) error {
	if err := b.check(q); err != nil {
		return err
	}
	p, err := toDoc(patch)
	if err != nil {
		return err
	}
	delete(p, "id")
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	where, args := whereClause(q.Filters)
	stmt := fmt.Sprintf("UPDATE %q SET doc = json_patch(doc, ?)%s RETURNING doc", q.Table, where)

	start := time.Now()
	docs, err := b.queryDocs(ctx, stmt, append([]any{string(raw)}, args...)...)
	record("update", start, err)
	if err != nil {
		return repository.BackendError("update", err)
	}
	return repository.DecodeFirst(joinDocs(docs), dest)
}

// Delete implements repository.Backend.
func (b *Backend) Delete(ctx context.Context, q repository.Query) error {
	if err := b.check(q); err != nil {
		return err
	}
	where, args := whereClause(q.Filters)

	start := time.Now()
	_, err := b.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %q%s", q.Table, where), args...)
	record("delete", start, err)
	if err != nil {
		return repository.BackendError("delete", err)
	}
	return nil
}

func (b *Backend) queryDocs(ctx context.Context, stmt string, args ...any) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func record(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordBackendRequest(backendName, op, status, float64(time.Since(start).Nanoseconds())/1e6)
}

var sqlOps = map[repository.Op]string{
	repository.OpEq:  "=",
	repository.OpNeq: "!=",
	repository.OpGt:  ">",
	repository.OpGte: ">=",
	repository.OpLt:  "<",
	repository.OpLte: "<=",
}

func extract(column string) string {
	return fmt.Sprintf("json_extract(doc, '$.%s')", column)
}

func whereClause(filters []repository.Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	parts := make([]string, len(filters))
	args := make([]any, len(filters))
	for i, f := range filters {
		parts[i] = fmt.Sprintf("%s %s ?", extract(f.Column), sqlOps[f.Op])
		args[i] = repository.BindValue(f.Value)
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// orderClause sorts NULLs the way PostgreSQL does: last ascending, first descending.
func orderClause(order []repository.Order) string {
	if len(order) == 0 {
		return ""
	}
	parts := make([]string, len(order))
	for i, o := range order {
		if o.Ascending {
			parts[i] = extract(o.Column) + " ASC NULLS LAST"
		} else {
			parts[i] = extract(o.Column) + " DESC NULLS FIRST"
		}
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func projection(columns []string) string {
	if len(columns) == 0 {
		return "doc"
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("'%s', %s", c, extract(c))
	}
	return "json_object(" + strings.Join(parts, ", ") + ")"
}

func joinDocs(docs []string) []byte {
	return []byte("[" + strings.Join(docs, ",") + "]")
}

// normalize rewrites RFC 3339 timestamps into repository.TimeLayout so that
// stored times compare and sort lexically.
func normalize(m map[string]any) map[string]any {
	for k, v := range m {
		s, ok := v.(string)
		if !ok || len(s) < len("2006-01-02T15:04:05Z") {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			m[k] = t.UTC().Format(repository.TimeLayout)
		}
	}
	return m
}

// toDoc converts a row or patch into JSON column values with normalized times.
func toDoc(v any) (map[string]any, error) {
	m, err := repository.RowMap(v)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return normalize(out), nil
}
