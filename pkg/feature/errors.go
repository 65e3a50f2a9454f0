package feature

import "errors"

// Domain errors for feature registry operations
var (
	// ErrUnknownFeature indicates an id absent from the registry.
	// This is a caller/configuration bug, not a policy outcome.
	ErrUnknownFeature = errors.New("feature.errors.unknown_feature")

	// ErrInvalidDefinition indicates a definition with a missing id,
	// an invalid cadence, or an invalid lifecycle state.
	ErrInvalidDefinition = errors.New("feature.errors.invalid_definition")

	// ErrDuplicateFeature indicates two definitions sharing the same id.
	ErrDuplicateFeature = errors.New("feature.errors.duplicate_feature")
)
