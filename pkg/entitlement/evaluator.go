package entitlement

import (
	"time"

	"github.com/gatekit/gatekit/pkg/feature"
	"github.com/gatekit/gatekit/pkg/period"
)

// Evaluator decides whether a gated action is allowed for a user right
// now. It is stateless: every call is a pure function of its arguments
// plus the injected registry and policy table, so a single instance can
// be shared across any number of goroutines.
type Evaluator struct {
	registry *feature.Registry
	policy   *PolicyTable
}

// NewEvaluator creates an Evaluator over the given registry and policy table.
func NewEvaluator(registry *feature.Registry, policy *PolicyTable) (*Evaluator, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if policy == nil {
		return nil, ErrNilPolicy
	}

	return &Evaluator{
		registry: registry,
		policy:   policy,
	}, nil
}

// Evaluate produces a Decision for one feature against the supplied
// context. Unknown feature ids, unknown plans, and a zero Now are caller
// bugs and surface as errors, never as Decisions. A denied decision is a
// normal, successful return value.
//
// Evaluate never mutates the context and performs no I/O. Incrementing
// the usage counter after an allowed decision is the caller's job, ideally
// through an atomic increment-if-below store primitive so two concurrent
// calls cannot both consume the last remaining slot.
func (e *Evaluator) Evaluate(id feature.ID, ec EvalContext) (Decision, error) {
	def, err := e.registry.Get(id)
	if err != nil {
		return Decision{}, err
	}

	if !ec.Plan.IsValid() {
		return Decision{}, ErrUnknownPlan
	}
	if ec.Now.IsZero() {
		return Decision{}, ErrMissingTimestamp
	}

	version := e.policy.Version()

	if !def.Gated() {
		return Decision{
			Allow:         true,
			Remaining:     Unlimited,
			Reason:        ReasonOK,
			PolicyVersion: version,
		}, nil
	}

	limit := e.policy.EffectiveLimit(id, ec.Plan, ec.Overrides, ec.Tenant)
	if limit == Unlimited {
		return Decision{
			Allow:         true,
			Remaining:     Unlimited,
			Reason:        ReasonOK,
			PolicyVersion: version,
		}, nil
	}

	used := ec.Usage[id]
	remaining := max(limit-used, 0)

	if used < limit {
		return Decision{
			Allow:         true,
			Remaining:     remaining,
			Reason:        ReasonOK,
			PolicyVersion: version,
		}, nil
	}

	resetAt, err := period.ResetAt(def.Cadence, ec.Now)
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		Allow:         false,
		Remaining:     0,
		Reason:        ReasonLimitReached,
		ResetAt:       &resetAt,
		PolicyVersion: version,
	}, nil
}

// Feature exposes feature metadata for UI and admin tooling.
func (e *Evaluator) Feature(id feature.ID) (feature.Definition, error) {
	return e.registry.Get(id)
}

// BucketKey returns the usage-counter bucket key the Evaluator would use
// for the feature at the given instant. Exposed so usage-increment code
// can namespace counters identically without re-running a full decision.
func (e *Evaluator) BucketKey(id feature.ID, now time.Time) (string, error) {
	def, err := e.registry.Get(id)
	if err != nil {
		return "", err
	}
	return period.Key(def.Cadence, now)
}

// ResetAt returns when the feature's current quota window resets.
func (e *Evaluator) ResetAt(id feature.ID, now time.Time) (time.Time, error) {
	def, err := e.registry.Get(id)
	if err != nil {
		return time.Time{}, err
	}
	return period.ResetAt(def.Cadence, now)
}

// PolicyVersion returns the revision of the injected policy table.
func (e *Evaluator) PolicyVersion() int {
	return e.policy.Version()
}
