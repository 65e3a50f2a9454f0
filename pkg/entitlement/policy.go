package entitlement

import (
	"errors"
	"fmt"
	"maps"

	"github.com/gatekit/gatekit/pkg/feature"
)

// PolicyTable holds the versioned per-feature, per-plan base limits.
// It is immutable after construction and safe for concurrent use. The
// version is stamped onto every Decision so callers can detect policy
// changes mid-session.
type PolicyTable struct {
	version int
	limits  map[feature.ID]map[Plan]int64
}

// NewPolicyTable builds a policy table from the given limits.
// The limits map is deep-copied; values must be non-negative or Unlimited.
func NewPolicyTable(version int, limits map[feature.ID]map[Plan]int64) (*PolicyTable, error) {
	if version < 1 {
		return nil, errors.Join(ErrInvalidPolicy,
			fmt.Errorf("policy version must be positive, got %d", version))
	}

	limitsCopy := make(map[feature.ID]map[Plan]int64, len(limits))
	for id, planLimits := range limits {
		for plan, limit := range planLimits {
			if !plan.IsValid() {
				return nil, errors.Join(ErrInvalidPolicy,
					fmt.Errorf("feature %q references unknown plan %q", id, plan))
			}
			if limit < Unlimited {
				return nil, errors.Join(ErrInvalidPolicy,
					fmt.Errorf("feature %q has invalid limit %d for plan %q", id, limit, plan))
			}
		}
		limitsCopy[id] = maps.Clone(planLimits)
	}

	return &PolicyTable{
		version: version,
		limits:  limitsCopy,
	}, nil
}

// Version returns the active policy revision number.
func (t *PolicyTable) Version() int {
	return t.version
}

// BaseLimit returns the plan's base limit for the feature.
// A missing entry resolves to zero: features without a configured
// allowance deny by default rather than admitting unbounded usage.
func (t *PolicyTable) BaseLimit(id feature.ID, plan Plan) int64 {
	return t.limits[id][plan]
}

// EffectiveLimit resolves the limit layers for one feature:
//
//  1. the plan's base limit from the table,
//  2. a per-user override, which fully replaces the base limit,
//  3. a tenant cap, which takes the minimum with the limit so far, or
//     becomes the limit outright when the earlier layers were unlimited.
//
// An override alone is never further restricted; only a tenant cap can
// tighten it. A cap of Unlimited imposes no restriction.
func (t *PolicyTable) EffectiveLimit(id feature.ID, plan Plan, overrides map[feature.ID]int64, tenant *TenantCaps) int64 {
	limit := t.BaseLimit(id, plan)

	if override, exists := overrides[id]; exists {
		limit = override
	}

	if tenant != nil {
		if ceiling, exists := tenant.Caps[id]; exists && ceiling != Unlimited {
			if limit == Unlimited || ceiling < limit {
				limit = ceiling
			}
		}
	}

	return limit
}
