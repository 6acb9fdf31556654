package projection

import (
	"math"

	"business_planner/pkg/core/assumption"
)

// BaselineCosts is the current monthly cost of all baseline items. It is 0 for
// any model other than cost savings.
func BaselineCosts(a *assumption.BusinessAssumptions) float64 {
	if a == nil || a.BusinessModel != assumption.ModelCostSavings || a.CostSavings == nil {
		return 0
	}
	total := 0.0
	for _, b := range a.CostSavings.BaselineCosts {
		total += b.CurrentMonthlyCost
	}
	return total
}

// CostSavingsAmount is the ramped monthly saving across baseline items.
func CostSavingsAmount(cs *assumption.CostSavings, month int) float64 {
	if cs == nil {
		return 0
	}
	total := 0.0
	for _, b := range cs.BaselineCosts {
		total += b.CurrentMonthlyCost * (b.SavingsPotentialPct / 100) * RampFactor(month, b.ImplementationTimeline)
	}
	return total
}

// EfficiencyGainsAmount is the ramped monthly value of efficiency gains. A metric
// moving in either direction counts as a benefit.
func EfficiencyGainsAmount(cs *assumption.CostSavings, month int) float64 {
	if cs == nil {
		return 0
	}
	total := 0.0
	for _, g := range cs.EfficiencyGains {
		total += EfficiencyGainValue(g) * RampFactor(month, g.ImplementationTimeline)
	}
	return total
}

// EfficiencyGainValue is the fully implemented monthly value of one gain.
func EfficiencyGainValue(g assumption.EfficiencyGain) float64 {
	return math.Abs(g.BaselineValue-g.ImprovedValue) * g.ValuePerUnit
}

// Savings returns the month's benefit breakdown for a cost savings document.
func Savings(a *assumption.BusinessAssumptions, month int) SavingsBreakdown {
	var cs *assumption.CostSavings
	if a != nil {
		cs = a.CostSavings
	}
	savings := CostSavingsAmount(cs, month)
	gains := EfficiencyGainsAmount(cs, month)
	return SavingsBreakdown{
		BaselineCosts:   BaselineCosts(a),
		CostSavings:     savings,
		EfficiencyGains: gains,
		TotalBenefits:   savings + gains,
	}
}
