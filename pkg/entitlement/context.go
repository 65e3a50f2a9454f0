package entitlement

import "context"

// Plan context management
type planCtxKey struct{}

// SetPlanToContext stores the resolved plan in the context for downstream
// access, typically done by an authentication or billing middleware.
func SetPlanToContext(ctx context.Context, plan Plan) context.Context {
	return context.WithValue(ctx, planCtxKey{}, plan)
}

// GetPlanFromContext retrieves the plan from the context, if present.
func GetPlanFromContext(ctx context.Context) (Plan, bool) {
	plan, ok := ctx.Value(planCtxKey{}).(Plan)
	return plan, ok
}

// PlanFromContext returns the plan from the context or an error when an
// upstream layer never resolved one.
func PlanFromContext(ctx context.Context) (Plan, error) {
	plan, ok := GetPlanFromContext(ctx)
	if !ok {
		return "", ErrPlanNotInContext
	}
	return plan, nil
}
