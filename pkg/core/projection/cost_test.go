package projection_test

import (
	"math"
	"testing"

	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/projection"

	"github.com/stretchr/testify/assert"
)

func TestOpexValue_MixedStructure(t *testing.T) {
	item := assumption.OpexItem{
		Name:     "Sales team",
		Category: assumption.OpexSalesMarketing,
		CostStructure: &assumption.CostStructure{
			FixedComponent:      5000,
			VariableRevenueRate: 0.10,
			VariableVolumeRate:  20,
		},
	}

	assert.Equal(t, 25000.0, projection.OpexValue(item, 100000, 500))
}

func TestOpexValue_LegacyIsConstant(t *testing.T) {
	item := assumption.OpexItem{Name: "Office", Value: f(1234.5)}

	assert.Equal(t, 1234.5, projection.OpexValue(item, 0, 0))
	assert.Equal(t, 1234.5, projection.OpexValue(item, 1e6, 1e4))
}

func TestOpex_Categories(t *testing.T) {
	items := []assumption.OpexItem{
		{Name: "Marketing", Value: f(100)},
		{Name: "R&D salaries", Value: f(200)},
		{Name: "General admin", Value: f(300)},
		{Name: "Misc", Value: f(999)},
		{Name: "Ads", Category: assumption.OpexSalesMarketing, Value: f(50)},
	}

	got := projection.Opex(items, 0, 0)
	assert.Equal(t, projection.OpexBreakdown{SalesMarketing: 150, RD: 200, GA: 300}, got)
	assert.Equal(t, 650.0, got.Total())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.0, projection.Round(2.5))
	assert.Equal(t, -3.0, projection.Round(-2.5))
	assert.Equal(t, 2.0, projection.Round(2.4999))
	assert.Equal(t, 0.0, projection.Round(math.NaN()))
}

func TestCapexValue(t *testing.T) {
	items := []assumption.CapexItem{
		{Name: "servers", Series: []assumption.PeriodValue{{Period: 1, Value: 1000}, {Period: 3, Value: 500}, {Period: 3, Value: 250}}},
		{Name: "tooling", Pattern: &assumption.CapexPattern{BaseValue: 100, GrowthRate: f(10)}},
		{Name: "fitout", Pattern: &assumption.CapexPattern{BaseValue: 40}},
	}

	assert.Equal(t, 1140.0, projection.CapexValue(items, 0))
	assert.Equal(t, 150.0, projection.CapexValue(items, 1))
	assert.Equal(t, 910.0, projection.CapexValue(items, 2))
}

func TestCapexValue_PatternRamp(t *testing.T) {
	items := []assumption.CapexItem{{
		Name:                   "rollout",
		Pattern:                &assumption.CapexPattern{BaseValue: 1000},
		ImplementationTimeline: &assumption.ImplementationTimeline{StartMonth: 3, RampUpMonths: 2, FullImplementationMonth: 6},
	}}

	assert.Equal(t, 0.0, projection.CapexValue(items, 0))
	assert.Equal(t, 500.0, projection.CapexValue(items, 2))
	assert.Equal(t, 1000.0, projection.CapexValue(items, 3))
}

func TestRampFactor(t *testing.T) {
	tl := &assumption.ImplementationTimeline{StartMonth: 3, RampUpMonths: 4, FullImplementationMonth: 6}

	tests := []struct {
		month int
		want  float64
	}{
		{0, 0},
		{1, 0},
		{2, 0.25},
		{3, 0.5},
		{4, 0.75},
		{5, 1}, // full implementation month wins
		{30, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, projection.RampFactor(tt.month, tl), 1e-12, "month %d", tt.month)
	}

	assert.Equal(t, 1.0, projection.RampFactor(0, nil))
	assert.Equal(t, 1.0, projection.RampFactor(4, &assumption.ImplementationTimeline{StartMonth: 2}))
}

func TestRampFactor_MissingStartMonth(t *testing.T) {
	// {"ramp_up_months":4,"full_implementation_month":6} decodes with start_month 0.
	tl := &assumption.ImplementationTimeline{RampUpMonths: 4, FullImplementationMonth: 6}

	assert.InDelta(t, 0.5, projection.RampFactor(0, tl), 1e-12)
	assert.InDelta(t, 0.75, projection.RampFactor(1, tl), 1e-12)
	assert.Equal(t, 1.0, projection.RampFactor(2, tl))
	assert.Equal(t, 1.0, projection.RampFactor(5, tl))

	// Without a ramp length the item is fully on from the first month.
	assert.Equal(t, 1.0, projection.RampFactor(0, &assumption.ImplementationTimeline{}))
}

func TestEfficiencyGainValue(t *testing.T) {
	hours := assumption.EfficiencyGain{Metric: "hours", BaselineValue: 40, ImprovedValue: 8, ValuePerUnit: 50}
	detections := assumption.EfficiencyGain{Metric: "detections", BaselineValue: 4, ImprovedValue: 12, ValuePerUnit: 500}

	assert.Equal(t, 1600.0, projection.EfficiencyGainValue(hours))
	assert.Equal(t, 4000.0, projection.EfficiencyGainValue(detections))

	cs := &assumption.CostSavings{EfficiencyGains: []assumption.EfficiencyGain{hours, detections}}
	assert.Equal(t, 5600.0, projection.EfficiencyGainsAmount(cs, 0))
}

func TestSavings(t *testing.T) {
	a := &assumption.BusinessAssumptions{
		BusinessModel: assumption.ModelCostSavings,
		CostSavings: &assumption.CostSavings{
			BaselineCosts: []assumption.BaselineCost{{
				ID:                     "ops",
				CurrentMonthlyCost:     10000,
				SavingsPotentialPct:    20,
				ImplementationTimeline: &assumption.ImplementationTimeline{StartMonth: 1, RampUpMonths: 2, FullImplementationMonth: 3},
			}},
			EfficiencyGains: []assumption.EfficiencyGain{{BaselineValue: 40, ImprovedValue: 8, ValuePerUnit: 50}},
		},
	}

	first := projection.Savings(a, 0)
	assert.Equal(t, 10000.0, first.BaselineCosts)
	assert.Equal(t, 1000.0, first.CostSavings)
	assert.Equal(t, 1600.0, first.EfficiencyGains)
	assert.Equal(t, 2600.0, first.TotalBenefits)

	assert.Equal(t, 3600.0, projection.Savings(a, 1).TotalBenefits)

	a.BusinessModel = assumption.ModelRecurring
	assert.Equal(t, 0.0, projection.BaselineCosts(a))
}
