// Package valuation computes summary metrics over projected monthly cash flows.
package valuation

// NPV discounts monthly cash flows at an annual rate. Flows are booked at the end
// of their month, so month 1 is discounted once: Σ cf[i] / (1+r/12)^(i+1).
// Empty input, or a rate at or below -100% a month, yields 0.
func NPV(flows []float64, annualRate float64) float64 {
	monthly := annualRate / 12
	if len(flows) == 0 || 1+monthly <= 0 {
		return 0
	}
	return npvMonthly(flows, monthly) / (1 + monthly)
}

// npvMonthly: Σ cf[i] / (1+r)^i, accumulated through a cumulative discount factor.
// It has the same roots as NPV and is what the IRR solver works on.
func npvMonthly(flows []float64, r float64) float64 {
	pv := 0.0
	factor := 1.0
	for i, cf := range flows {
		if i > 0 {
			factor /= 1 + r
		}
		pv += cf * factor
	}
	return pv
}

// npvDerivative is d(NPV)/dr at a monthly rate.
func npvDerivative(flows []float64, r float64) float64 {
	d := 0.0
	factor := 1 / (1 + r)
	for i, cf := range flows {
		if i > 0 {
			d -= float64(i) * cf * factor
		}
		factor /= 1 + r
	}
	return d
}

// =============================================================================
// MILESTONES
// =============================================================================

// BreakEvenMonth is the first 1-based month whose own cash flow is non-negative,
// 0 if no month is.
func BreakEvenMonth(flows []float64) int {
	for i, cf := range flows {
		if cf >= 0 {
			return i + 1
		}
	}
	return 0
}

// PaybackPeriod is the first 1-based month at which the running sum of the
// flows is non-negative, 0 if it never is.
func PaybackPeriod(flows []float64) int {
	cumulative := 0.0
	for i, cf := range flows {
		cumulative += cf
		if cumulative >= 0 {
			return i + 1
		}
	}
	return 0
}
