package projection

import (
	"business_planner/pkg/core/assumption"
)

// Adjustments is the generic form of pricing and volume adjustments.
type Adjustments struct {
	Factors   []assumption.YearlyFactor
	Overrides []assumption.PeriodValue
}

// PricingAdjustments converts the pricing document form.
func PricingAdjustments(p assumption.Pricing) Adjustments {
	var adj Adjustments
	if p.YearlyAdjustments == nil {
		return adj
	}
	adj.Factors = p.YearlyAdjustments.PricingFactors
	for _, o := range p.YearlyAdjustments.PriceOverrides {
		adj.Overrides = append(adj.Overrides, assumption.PeriodValue{Period: o.Period, Value: o.Price})
	}
	return adj
}

// VolumeAdjustments converts the segment volume document form.
func VolumeAdjustments(v assumption.Volume) Adjustments {
	var adj Adjustments
	if v.YearlyAdjustments == nil {
		return adj
	}
	adj.Factors = v.YearlyAdjustments.VolumeFactors
	for _, o := range v.YearlyAdjustments.VolumeOverrides {
		adj.Overrides = append(adj.Overrides, assumption.PeriodValue{Period: o.Period, Value: o.Volume})
	}
	return adj
}

// Resolve applies override precedence at a 0-indexed month:
// period override > yearly factor > base value.
func Resolve(base func(month int) float64, month int, adj Adjustments, baseSource Source) ValuePoint {
	period := month + 1
	for _, o := range adj.Overrides {
		if o.Period == period {
			return ValuePoint{Value: o.Value, Source: SourceOverride}
		}
	}

	year := month/12 + 1
	for _, f := range adj.Factors {
		if f.Year == year {
			return ValuePoint{Value: base(month) * f.Factor, Source: SourceYearly}
		}
	}

	return ValuePoint{Value: base(month), Source: baseSource}
}

// ResolvePrice returns the unit price for a 0-indexed month.
func ResolvePrice(p assumption.Pricing, month int) ValuePoint {
	basePrice := orZero(p.AvgUnitPrice)
	return Resolve(func(int) float64 { return basePrice }, month, PricingAdjustments(p), SourceBase)
}

// ResolveVolume returns a segment's volume for a 0-indexed month. The value is
// not clamped; aggregation clamps it.
func ResolveVolume(seg assumption.Segment, month int, d Defaults) ValuePoint {
	pattern := PatternFor(seg.Volume, d)
	base := func(m int) float64 { return PatternValue(pattern, m, d) }
	return Resolve(base, month, VolumeAdjustments(seg.Volume), SourcePattern)
}

// PricingTrajectory returns the tagged price for each of the first periods months.
func PricingTrajectory(p assumption.Pricing, periods int) []TrajectoryPoint {
	return trajectory(periods, func(m int) ValuePoint { return ResolvePrice(p, m) })
}

// VolumeTrajectory returns the tagged volume for each of the first periods months.
func VolumeTrajectory(seg assumption.Segment, periods int, d Defaults) []TrajectoryPoint {
	return trajectory(periods, func(m int) ValuePoint { return ResolveVolume(seg, m, d) })
}

func trajectory(periods int, resolve func(month int) ValuePoint) []TrajectoryPoint {
	if periods <= 0 {
		return []TrajectoryPoint{}
	}
	out := make([]TrajectoryPoint, periods)
	for m := 0; m < periods; m++ {
		vp := resolve(m)
		out[m] = TrajectoryPoint{Period: m + 1, Value: vp.Value, Source: vp.Source}
	}
	return out
}
