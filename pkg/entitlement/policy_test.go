package entitlement_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatekit/gatekit/pkg/entitlement"
	"github.com/gatekit/gatekit/pkg/feature"
)

func testPolicyLimits() map[feature.ID]map[entitlement.Plan]int64 {
	return map[feature.ID]map[entitlement.Plan]int64{
		"practice_session": {
			entitlement.PlanGuest:          3,
			entitlement.PlanFree:           10,
			entitlement.PlanPremiumMonthly: entitlement.Unlimited,
			entitlement.PlanPremiumYearly:  entitlement.Unlimited,
		},
		"deck_export": {
			entitlement.PlanFree:           2,
			entitlement.PlanPremiumMonthly: entitlement.Unlimited,
			entitlement.PlanPremiumYearly:  entitlement.Unlimited,
		},
	}
}

func TestNewPolicyTable(t *testing.T) {
	t.Parallel()

	t.Run("valid table", func(t *testing.T) {
		t.Parallel()

		table, err := entitlement.NewPolicyTable(3, testPolicyLimits())

		require.NoError(t, err)
		assert.Equal(t, 3, table.Version())
	})

	t.Run("zero version", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.NewPolicyTable(0, testPolicyLimits())

		assert.ErrorIs(t, err, entitlement.ErrInvalidPolicy)
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.NewPolicyTable(1, map[feature.ID]map[entitlement.Plan]int64{
			"practice_session": {entitlement.Plan("enterprise"): 100},
		})

		assert.ErrorIs(t, err, entitlement.ErrInvalidPolicy)
	})

	t.Run("limit below unlimited sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.NewPolicyTable(1, map[feature.ID]map[entitlement.Plan]int64{
			"practice_session": {entitlement.PlanFree: -2},
		})

		assert.ErrorIs(t, err, entitlement.ErrInvalidPolicy)
	})

	t.Run("input map is copied", func(t *testing.T) {
		t.Parallel()

		limits := testPolicyLimits()
		table, err := entitlement.NewPolicyTable(1, limits)
		require.NoError(t, err)

		limits["practice_session"][entitlement.PlanGuest] = 999

		assert.Equal(t, int64(3), table.BaseLimit("practice_session", entitlement.PlanGuest))
	})
}

func TestPolicyTable_BaseLimit(t *testing.T) {
	t.Parallel()

	table, err := entitlement.NewPolicyTable(1, testPolicyLimits())
	require.NoError(t, err)

	assert.Equal(t, int64(3), table.BaseLimit("practice_session", entitlement.PlanGuest))
	assert.Equal(t, entitlement.Unlimited, table.BaseLimit("practice_session", entitlement.PlanPremiumYearly))

	// Missing entries deny by default.
	assert.Equal(t, int64(0), table.BaseLimit("deck_export", entitlement.PlanGuest))
	assert.Equal(t, int64(0), table.BaseLimit("unknown_feature", entitlement.PlanFree))
}

func TestPolicyTable_EffectiveLimit(t *testing.T) {
	t.Parallel()

	table, err := entitlement.NewPolicyTable(1, testPolicyLimits())
	require.NoError(t, err)

	tenantID := uuid.New()

	tests := []struct {
		name      string
		featureID feature.ID
		plan      entitlement.Plan
		overrides map[feature.ID]int64
		tenant    *entitlement.TenantCaps
		want      int64
	}{
		{
			name:      "base limit only",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			want:      3,
		},
		{
			name:      "premium base is unlimited",
			featureID: "practice_session",
			plan:      entitlement.PlanPremiumMonthly,
			want:      entitlement.Unlimited,
		},
		{
			name:      "override replaces base limit",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			overrides: map[feature.ID]int64{"practice_session": 50},
			want:      50,
		},
		{
			name:      "override can lower the base limit",
			featureID: "practice_session",
			plan:      entitlement.PlanFree,
			overrides: map[feature.ID]int64{"practice_session": 1},
			want:      1,
		},
		{
			name:      "unlimited override replaces numeric base",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			overrides: map[feature.ID]int64{"practice_session": entitlement.Unlimited},
			want:      entitlement.Unlimited,
		},
		{
			name:      "override for another feature is ignored",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			overrides: map[feature.ID]int64{"deck_export": 50},
			want:      3,
		},
		{
			name:      "tenant cap tightens numeric limit",
			featureID: "practice_session",
			plan:      entitlement.PlanFree,
			tenant: &entitlement.TenantCaps{
				ID:   tenantID,
				Caps: map[feature.ID]int64{"practice_session": 5},
			},
			want: 5,
		},
		{
			name:      "tenant cap above limit does not loosen it",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			tenant: &entitlement.TenantCaps{
				ID:   tenantID,
				Caps: map[feature.ID]int64{"practice_session": 100},
			},
			want: 3,
		},
		{
			name:      "tenant cap restricts unlimited plan",
			featureID: "practice_session",
			plan:      entitlement.PlanPremiumYearly,
			tenant: &entitlement.TenantCaps{
				ID:   tenantID,
				Caps: map[feature.ID]int64{"practice_session": 20},
			},
			want: 20,
		},
		{
			name:      "tenant cap restricts unlimited override",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			overrides: map[feature.ID]int64{"practice_session": entitlement.Unlimited},
			tenant: &entitlement.TenantCaps{
				ID:   tenantID,
				Caps: map[feature.ID]int64{"practice_session": 7},
			},
			want: 7,
		},
		{
			name:      "tenant cap applies after override",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			overrides: map[feature.ID]int64{"practice_session": 50},
			tenant: &entitlement.TenantCaps{
				ID:   tenantID,
				Caps: map[feature.ID]int64{"practice_session": 10},
			},
			want: 10,
		},
		{
			name:      "unlimited tenant cap imposes no restriction",
			featureID: "practice_session",
			plan:      entitlement.PlanGuest,
			tenant: &entitlement.TenantCaps{
				ID:   tenantID,
				Caps: map[feature.ID]int64{"practice_session": entitlement.Unlimited},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := table.EffectiveLimit(tt.featureID, tt.plan, tt.overrides, tt.tenant)

			assert.Equal(t, tt.want, got)
		})
	}
}
