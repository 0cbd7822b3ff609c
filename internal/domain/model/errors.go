package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for model validation.
var (
	ErrInvalidEnum  = errors.New("invalid enum value")
	ErrMissingField = errors.New("missing required field")
	ErrScoreRange   = errors.New("score out of range")
)

func wrapField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}

func wrapEnum(name, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidEnum, name, value)
}
