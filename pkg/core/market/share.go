package market

import (
	"math"

	"business_planner/pkg/core/assumption"
)

const (
	exponentialSteepness = 3.0
	sCurveSteepness      = 10.0
)

// ShareAt returns the market share (percent) after yearsElapsed years. The value
// moves from the current to the target position along the strategy's curve and
// stays at the target once the timeframe has passed.
func ShareAt(ms assumption.MarketShare, yearsElapsed float64) float64 {
	current, target := ms.CurrentPosition, ms.TargetPosition
	if yearsElapsed <= 0 {
		return current
	}
	if ms.TargetTimeframe.Years <= 0 {
		return target
	}
	progress := yearsElapsed / ms.TargetTimeframe.Years
	if progress >= 1 {
		return target
	}

	share := current + (target-current)*Progression(ms.PenetrationStrategy, progress)
	return clampBetween(share, current, target)
}

// Progression maps elapsed progress (0..1) to the fraction of the share gap
// closed. Every curve starts at 0 and ends at 1; unknown strategies are linear.
func Progression(s assumption.PenetrationStrategy, progress float64) float64 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	switch s {
	case assumption.PenetrationExponential:
		// front-loaded: steep early, flattening toward the target
		return (1 - math.Exp(-exponentialSteepness*progress)) / (1 - math.Exp(-exponentialSteepness))
	case assumption.PenetrationSCurve:
		lo := logistic(0)
		hi := logistic(1)
		return (logistic(progress) - lo) / (hi - lo)
	}
	return progress
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-sCurveSteepness*(x-0.5)))
}

func clampBetween(v, a, b float64) float64 {
	lo, hi := math.Min(a, b), math.Max(a, b)
	return math.Max(lo, math.Min(hi, v))
}
