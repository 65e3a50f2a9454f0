package entitlement

import "errors"

// Domain errors for entitlement operations
var (
	// Evaluation errors (caller/config bugs, never policy outcomes)
	ErrUnknownPlan      = errors.New("entitlement.errors.unknown_plan")
	ErrMissingTimestamp = errors.New("entitlement.errors.missing_timestamp")

	// Construction errors
	ErrNilRegistry   = errors.New("entitlement.errors.nil_registry")
	ErrNilPolicy     = errors.New("entitlement.errors.nil_policy")
	ErrInvalidPolicy = errors.New("entitlement.errors.invalid_policy_configuration")

	// Context errors
	ErrPlanNotInContext = errors.New("entitlement.errors.plan_not_in_context")

	// Source errors
	ErrFailedToLoadPolicy = errors.New("entitlement.errors.failed_to_load_policy")
)
