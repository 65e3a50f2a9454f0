package entitlement

import (
	"time"

	"github.com/google/uuid"

	"github.com/gatekit/gatekit/pkg/feature"
)

// Limit constants
const (
	// Unlimited represents a limit with no ceiling (-1)
	Unlimited int64 = -1
)

// Reason explains a decision outcome.
type Reason string

const (
	ReasonOK           Reason = "ok"
	ReasonLimitReached Reason = "limit_reached"
)

// TenantCaps carries organization-wide per-feature ceilings. A cap applies
// after plan and override resolution, always taking the minimum with the
// limit resolved so far, or replacing an unlimited result outright.
type TenantCaps struct {
	ID   uuid.UUID            `json:"id"`
	Caps map[feature.ID]int64 `json:"caps"`
}

// EvalContext carries every input for a single evaluation. The caller
// assembles it fresh per call; the engine never mutates it and never reads
// any store or clock itself.
type EvalContext struct {
	UserID uuid.UUID
	Plan   Plan

	// Usage is a snapshot of per-feature counts for the current buckets,
	// taken by the caller before evaluating. Missing entries count as zero.
	Usage map[feature.ID]int64

	// Now is the evaluation instant, supplied explicitly so results are
	// deterministic and testable with frozen time.
	Now time.Time

	// Overrides are per-user admin exceptions that replace the plan's
	// base limit for a feature. Unlimited (-1) is a valid override.
	Overrides map[feature.ID]int64

	// Tenant, when present, applies organization-wide ceilings.
	Tenant *TenantCaps
}

// Decision is the engine's output for one evaluation.
//
// Remaining is Unlimited (-1) iff the action is allowed and no cap
// constrains the feature. Reason is ReasonLimitReached iff Allow is false,
// and in that case ResetAt is always set. ResetAt is never set for an
// allowed decision against an unlimited effective limit.
type Decision struct {
	Allow         bool       `json:"allow"`
	Remaining     int64      `json:"remaining"`
	Reason        Reason     `json:"reason"`
	ResetAt       *time.Time `json:"reset_at,omitempty"`
	PolicyVersion int        `json:"policy_version"`
}
