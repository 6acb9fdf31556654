package projection

import (
	"math"

	"business_planner/pkg/core/assumption"
)

// RampFactor is the fraction (0..1) of a phased initiative realized at a
// 0-indexed month. A nil timeline means fully implemented from the start. A
// present timeline always ramps, even when start_month is left at 0.
func RampFactor(month int, tl *assumption.ImplementationTimeline) float64 {
	if tl == nil {
		return 1
	}
	period := month + 1
	if period < tl.StartMonth {
		return 0
	}
	if tl.FullImplementationMonth > 0 && period >= tl.FullImplementationMonth {
		return 1
	}
	if tl.RampUpMonths <= 0 {
		return 1
	}
	return math.Min(1, float64(period-tl.StartMonth+1)/float64(tl.RampUpMonths))
}
