package period

import "errors"

// Domain errors for period operations
var (
	// ErrInvalidCadence is returned for cadence values outside the known set.
	ErrInvalidCadence = errors.New("period.errors.invalid_cadence")

	// ErrNotGated is returned when a bucket key or reset time is requested
	// for the "none" cadence, which has no counting window.
	ErrNotGated = errors.New("period.errors.not_gated")
)
