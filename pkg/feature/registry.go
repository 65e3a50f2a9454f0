package feature

import (
	"errors"
	"fmt"
	"slices"
)

// Registry is an immutable catalog of feature definitions.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	defs map[ID]Definition
}

// NewRegistry builds a registry from the given definitions.
// Definitions are validated and copied; duplicate ids are rejected.
func NewRegistry(defs []Definition) (*Registry, error) {
	byID := make(map[ID]Definition, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byID[def.ID]; exists {
			return nil, errors.Join(ErrDuplicateFeature,
				fmt.Errorf("feature %q defined more than once", def.ID))
		}
		byID[def.ID] = def
	}

	return &Registry{defs: byID}, nil
}

// Get returns the definition for the given id.
// Resolves deprecated and hidden features too; only unknown ids fail.
func (r *Registry) Get(id ID) (Definition, error) {
	def, exists := r.defs[id]
	if !exists {
		return Definition{}, errors.Join(ErrUnknownFeature,
			fmt.Errorf("feature %q is not registered", id))
	}
	return def, nil
}

// Active returns all definitions in the active lifecycle state,
// sorted by id for deterministic enumeration.
func (r *Registry) Active() []Definition {
	active := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		if def.Lifecycle == LifecycleActive {
			active = append(active, def)
		}
	}

	slices.SortFunc(active, func(a, b Definition) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	return active
}

// Len returns the total number of registered features, regardless of lifecycle.
func (r *Registry) Len() int {
	return len(r.defs)
}
