package entitlement

// Plan is a user's subscription tier, the primary driver of base limits.
type Plan string

// Known plans, ordered by entitlement.
const (
	PlanGuest          Plan = "guest"
	PlanFree           Plan = "free"
	PlanPremiumMonthly Plan = "premium_monthly"
	PlanPremiumYearly  Plan = "premium_yearly"
)

// IsValid reports whether the plan is one of the known tiers.
func (p Plan) IsValid() bool {
	switch p {
	case PlanGuest, PlanFree, PlanPremiumMonthly, PlanPremiumYearly:
		return true
	}
	return false
}

// Premium reports whether the plan is a paid tier. Both billing intervals
// carry identical entitlements.
func (p Plan) Premium() bool {
	return p == PlanPremiumMonthly || p == PlanPremiumYearly
}

// Rank orders plans by entitlement, not by price or billing interval.
// Monthly and yearly premium rank equally.
func (p Plan) Rank() int {
	switch p {
	case PlanGuest:
		return 0
	case PlanFree:
		return 1
	case PlanPremiumMonthly, PlanPremiumYearly:
		return 2
	}
	return -1
}

// AtLeast reports whether p grants at least the entitlement level of other.
func (p Plan) AtLeast(other Plan) bool {
	return p.Rank() >= other.Rank()
}
