package feature

import (
	"errors"
	"fmt"

	"github.com/gatekit/gatekit/pkg/period"
)

// ID is the stable identifier of a gated feature.
type ID string

// Lifecycle is the publication state of a feature.
type Lifecycle string

const (
	// LifecycleActive features appear in enumerations and evaluate normally.
	LifecycleActive Lifecycle = "active"
	// LifecycleDeprecated features evaluate but are excluded from enumerations.
	LifecycleDeprecated Lifecycle = "deprecated"
	// LifecycleHidden features evaluate but never surface in UI listings.
	LifecycleHidden Lifecycle = "hidden"
)

// IsValid reports whether the lifecycle is one of the known states.
func (l Lifecycle) IsValid() bool {
	switch l {
	case LifecycleActive, LifecycleDeprecated, LifecycleHidden:
		return true
	}
	return false
}

// Category groups features for admin and billing tooling.
type Category string

// Definition is the immutable metadata of a single feature.
type Definition struct {
	ID        ID             `json:"id"`
	Cadence   period.Cadence `json:"cadence"`
	Lifecycle Lifecycle      `json:"lifecycle"`
	Category  Category       `json:"category,omitempty"`
}

// Gated reports whether the feature is quota-gated at all.
func (d Definition) Gated() bool {
	return d.Cadence.Gated()
}

// Validate checks the definition fields for internal consistency.
func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.Join(ErrInvalidDefinition, errors.New("feature id cannot be empty"))
	}
	if !d.Cadence.IsValid() {
		return errors.Join(ErrInvalidDefinition,
			fmt.Errorf("feature %q has invalid cadence %q", d.ID, d.Cadence))
	}
	if !d.Lifecycle.IsValid() {
		return errors.Join(ErrInvalidDefinition,
			fmt.Errorf("feature %q has invalid lifecycle %q", d.ID, d.Lifecycle))
	}
	return nil
}
