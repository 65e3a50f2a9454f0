// Package entitlement implements plan-based quota evaluation for gated
// features. Given a user's plan, a usage snapshot, the current UTC instant,
// and optional admin overrides and organization caps, the Evaluator
// deterministically decides whether an action is allowed right now, how
// many uses remain, and when the quota window resets.
//
// The engine is a pure function of its inputs: it performs no I/O, reads
// no clocks, and holds no per-user state between calls. Feature metadata
// and the versioned policy table are injected at construction and treated
// as immutable, so a single Evaluator can serve any number of concurrent
// requests without coordination.
//
// Limit resolution is layered. The plan's base limit comes from the
// PolicyTable; a per-user override fully replaces it; an organization
// (tenant) cap is then applied on top, taking the minimum with whatever
// the earlier layers produced, or replacing an unlimited result outright.
//
// Key concepts:
//
//   - Plan: subscription tier driving base limits (guest through premium)
//   - PolicyTable: versioned per-feature, per-plan base limits
//   - EvalContext: the caller-assembled inputs for one evaluation
//   - Decision: allow/deny, remaining count, reason, and reset instant
//
// Basic usage:
//
//	registry, policy, err := entitlement.Build(doc)
//	if err != nil {
//	    // invalid policy document
//	}
//	eval, err := entitlement.NewEvaluator(registry, policy)
//
//	decision, err := eval.Evaluate("practice_session", entitlement.EvalContext{
//	    UserID: userID,
//	    Plan:   entitlement.PlanFree,
//	    Usage:  map[feature.ID]int64{"practice_session": 2},
//	    Now:    time.Now().UTC(),
//	})
//	if err != nil {
//	    // unknown feature or malformed context: a caller bug, not a policy outcome
//	}
//	if !decision.Allow {
//	    // quota exhausted until decision.ResetAt
//	}
//
// A denied decision is a normal, successful return value. Incrementing the
// usage counter after an allowed decision is the caller's responsibility;
// see the usage package for a store honoring the atomic
// increment-if-below contract that keeps concurrent callers from
// over-admitting.
package entitlement
