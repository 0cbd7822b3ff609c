package rules

import "errors"

// Sentinel kinds for rule errors.
var (
	ErrInvalidRule = errors.New("invalid alert rule")
	ErrCompile     = errors.New("rule expression does not compile")
)
