// Package repository is the table gateway: a small query model, the Backend
// contract implemented by the REST and SQLite stores, and typed repositories
// for every table.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Backend is a table store.
type Backend interface {
	// Select decodes the matching rows, as a JSON array, into dest.
	Select(ctx context.Context, q Query, dest any) error
	// Insert stores row in table and decodes the stored row into dest.
	Insert(ctx context.Context, table string, row any, dest any) error
	// Update applies patch to the rows matching q and decodes the first
	// updated row into dest. Returns ErrNotFound when nothing matched.
	Update(ctx context.Context, q Query, patch map[string]any, dest any) error
	// Delete removes the rows matching q.
	Delete(ctx context.Context, q Query) error
	// Name identifies the backend in logs and metrics.
	Name() string
	Close() error
}

var zeroTime = time.Time{}.Format(time.RFC3339Nano)

// RowMap converts a row struct into column values, dropping an empty id and
// zero timestamps so that the store can assign them.
func RowMap(row any) (map[string]any, error) {
	if m, ok := row.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	for k, v := range m {
		switch {
		case k == "id" && v == "":
			delete(m, k)
		case v == zeroTime:
			delete(m, k)
		}
	}
	return m, nil
}

// DecodeFirst decodes the first element of a JSON array into dest.
// Returns ErrNotFound for an empty array.
func DecodeFirst(data []byte, dest any) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}

// DecodeAll decodes a JSON array into dest.
func DecodeAll(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}
