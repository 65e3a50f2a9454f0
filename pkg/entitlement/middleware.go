package entitlement

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gatekit/gatekit/pkg/feature"
)

// EvalContextFunc assembles the evaluation context for an incoming
// request, typically from session data and a usage-store snapshot. When a
// Reserver is configured the Usage map may be left empty: the store
// becomes the authority on counts.
type EvalContextFunc func(r *http.Request) (EvalContext, error)

// Reserver atomically claims one unit of quota in an external usage
// store. Implementations must only increment while the counter is below
// the limit, closing the check-then-act window between two concurrent
// requests that both saw an allowed decision.
type Reserver interface {
	IncrementIfBelow(ctx context.Context, key string, limit int64, expireAt time.Time) (allowed bool, current int64, err error)
}

// UsageKey builds the store key for a user's feature counter in a bucket.
// The middleware and the usage-increment code must agree on this shape.
func UsageKey(userID uuid.UUID, id feature.ID, bucketKey string) string {
	return fmt.Sprintf("%s:%s:%s", userID, id, bucketKey)
}

// MiddlewareOption configures middleware behavior.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	reserver Reserver
	onDenied func(w http.ResponseWriter, r *http.Request, decision Decision)
	skipFunc func(r *http.Request) bool
}

// WithReserver reconciles allowed decisions with an atomic usage store,
// denying requests that lose the race for the last remaining slot.
func WithReserver(reserver Reserver) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.reserver = reserver
	}
}

// WithOnDenied sets a custom handler for denied decisions.
func WithOnDenied(fn func(w http.ResponseWriter, r *http.Request, decision Decision)) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.onDenied = fn
	}
}

// WithSkipFunc sets a function to determine if gating should be skipped.
func WithSkipFunc(fn func(r *http.Request) bool) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipFunc = fn
	}
}

// Middleware creates HTTP middleware gating requests on one feature's
// quota. Implements "fail open" policy - requests pass through when the
// context cannot be assembled or the store errors, so quota enforcement
// never becomes an outage.
//
// On every gated response it sets X-Quota-Remaining (-1 for unlimited)
// and X-Quota-Policy-Version; denied requests additionally get
// X-Quota-Reset, Retry-After, and a 429 status.
func Middleware(eval *Evaluator, id feature.ID, ctxFunc EvalContextFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	if eval == nil {
		panic("entitlement.Middleware: evaluator is required")
	}
	if ctxFunc == nil {
		panic("entitlement.Middleware: ctxFunc is required")
	}

	config := &middlewareConfig{
		onDenied: func(w http.ResponseWriter, r *http.Request, decision Decision) {
			if decision.ResetAt != nil {
				retryAfter := time.Until(*decision.ResetAt).Seconds()
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
			}
			http.Error(w, "Quota Exceeded", http.StatusTooManyRequests)
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.skipFunc != nil && config.skipFunc(r) {
				next.ServeHTTP(w, r)
				return
			}

			ec, err := ctxFunc(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if ec.Now.IsZero() {
				ec.Now = time.Now().UTC()
			}

			decision, err := eval.Evaluate(id, ec)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-Quota-Remaining", strconv.FormatInt(decision.Remaining, 10))
			w.Header().Set("X-Quota-Policy-Version", strconv.Itoa(decision.PolicyVersion))

			if !decision.Allow {
				setResetHeader(w, decision)
				config.onDenied(w, r, decision)
				return
			}

			if config.reserver != nil && decision.Remaining != Unlimited {
				decision, err = reserve(r.Context(), eval, id, ec, decision, config.reserver)
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}

				w.Header().Set("X-Quota-Remaining", strconv.FormatInt(decision.Remaining, 10))
				if !decision.Allow {
					setResetHeader(w, decision)
					config.onDenied(w, r, decision)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// reserve claims one slot in the usage store and rewrites the decision
// with the store's authoritative count.
func reserve(ctx context.Context, eval *Evaluator, id feature.ID, ec EvalContext, decision Decision, reserver Reserver) (Decision, error) {
	bucketKey, err := eval.BucketKey(id, ec.Now)
	if err != nil {
		return Decision{}, err
	}
	resetAt, err := eval.ResetAt(id, ec.Now)
	if err != nil {
		return Decision{}, err
	}

	limit := eval.policy.EffectiveLimit(id, ec.Plan, ec.Overrides, ec.Tenant)

	allowed, current, err := reserver.IncrementIfBelow(ctx, UsageKey(ec.UserID, id, bucketKey), limit, resetAt)
	if err != nil {
		return Decision{}, err
	}

	if !allowed {
		decision.Allow = false
		decision.Remaining = 0
		decision.Reason = ReasonLimitReached
		decision.ResetAt = &resetAt
		return decision, nil
	}

	decision.Remaining = max(limit-current, 0)
	return decision, nil
}

func setResetHeader(w http.ResponseWriter, decision Decision) {
	if decision.ResetAt != nil {
		w.Header().Set("X-Quota-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	}
}
