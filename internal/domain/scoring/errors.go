package scoring

import "errors"

// ErrInvalidMetric is returned for NaN or infinite raw metrics.
var ErrInvalidMetric = errors.New("invalid raw metric")
