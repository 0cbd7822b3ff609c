package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for table store errors.
var (
	ErrNotFound     = errors.New("row not found")
	ErrInvalidQuery = errors.New("invalid query")
	ErrBackend      = errors.New("backend failure")
	ErrConflict     = errors.New("row already exists")
)

// BackendError tags a transport or driver failure with the operation that hit it.
func BackendError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackend, op, err)
}
