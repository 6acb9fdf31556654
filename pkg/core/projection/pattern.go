// Package projection turns business assumptions into month-by-month rows.
// Every function here is pure: the same document and month index always give
// the same value, and missing inputs resolve to neutral defaults.
package projection

import (
	"math"

	"business_planner/pkg/core/assumption"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// Defaults back-fills segment parameters from the document's growth_settings.
// It is built once per document and passed to the resolvers explicitly.
type Defaults struct {
	PatternType assumption.PatternType

	GeomStart         float64
	GeomMonthlyGrowth float64

	LinearStart           float64
	LinearMonthlyIncrease float64

	SeasonalBaseYearTotal float64
	SeasonalIndex         []float64
	SeasonalYoYGrowth     float64
}

// DefaultsFrom extracts the defaults from growth settings. nil yields zero defaults.
func DefaultsFrom(gs *assumption.GrowthSettings) Defaults {
	var d Defaults
	if gs == nil {
		return d
	}
	d.PatternType = gs.DefaultPatternType
	if gs.Geom != nil {
		d.GeomStart = orZero(gs.Geom.Start)
		d.GeomMonthlyGrowth = orZero(gs.Geom.MonthlyGrowth)
	}
	if gs.Linear != nil {
		d.LinearStart = orZero(gs.Linear.Start)
		d.LinearMonthlyIncrease = orZero(gs.Linear.MonthlyFlatIncrease)
	}
	if gs.Seasonal != nil {
		d.SeasonalBaseYearTotal = orZero(gs.Seasonal.BaseYearTotal)
		d.SeasonalIndex = gs.Seasonal.SeasonalityIndex12
		d.SeasonalYoYGrowth = orZero(gs.Seasonal.YoYGrowth)
	}
	return d
}

func orZero(v *float64) float64 {
	return orDefault(v, 0)
}

func orDefault(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// =============================================================================
// GROWTH PATTERNS
// =============================================================================

// PatternFor returns the segment's declared pattern, or the one inferred from the
// defaults when the segment has none. It may return nil.
func PatternFor(vol assumption.Volume, d Defaults) assumption.VolumePattern {
	if vol.Pattern != nil {
		return vol.Pattern
	}
	return assumption.NewVolumePattern(d.PatternType, vol.Params)
}

// PatternValue evaluates a growth pattern at a 0-indexed month.
func PatternValue(p assumption.VolumePattern, month int, d Defaults) float64 {
	if month < 0 {
		month = 0
	}
	switch v := p.(type) {
	case assumption.GeometricGrowth:
		return GeometricValue(orDefault(v.Base, d.GeomStart), orDefault(v.MonthlyGrowthRate, d.GeomMonthlyGrowth), month)
	case assumption.LinearGrowth:
		return LinearValue(orDefault(v.Base, d.LinearStart), orDefault(v.MonthlyFlatIncrease, d.LinearMonthlyIncrease), month)
	case assumption.SeasonalGrowth:
		index := v.SeasonalityIndex
		if len(index) == 0 {
			index = d.SeasonalIndex
		}
		return SeasonalValue(orDefault(v.BaseYearTotal, d.SeasonalBaseYearTotal), index, orDefault(v.YoYGrowth, d.SeasonalYoYGrowth), month)
	case assumption.TimeSeries:
		return TimeSeriesValue(v.Series, month)
	}
	return 0
}

// GeometricValue: v0 * (1+rate)^m
func GeometricValue(v0, rate float64, month int) float64 {
	return v0 * math.Pow(1+rate, float64(month))
}

// LinearValue: v0 + rate*m
func LinearValue(v0, rate float64, month int) float64 {
	return v0 + rate*float64(month)
}

// TimeSeriesValue holds the last known value beyond the end of the series.
func TimeSeriesValue(series []assumption.PeriodValue, month int) float64 {
	if len(series) == 0 {
		return 0
	}
	if month >= len(series) {
		month = len(series) - 1
	}
	return series[month].Value
}

// SeasonalValue spreads a yearly total over a mean-normalized index and
// compounds it once per completed year.
func SeasonalValue(baseYearTotal float64, index []float64, yoyGrowth float64, month int) float64 {
	norm := NormalizeSeasonality(index)
	years := month / 12
	return (baseYearTotal / 12) * norm[month%12] * math.Pow(1+yoyGrowth, float64(years))
}

// NormalizeSeasonality rescales a 12 entry index so its mean is 1. Anything
// that is not a usable 12 entry index becomes a flat index of ones.
func NormalizeSeasonality(index []float64) []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = 1
	}
	if len(index) != 12 {
		return out
	}

	sum := 0.0
	for _, v := range index {
		sum += v
	}
	mean := sum / 12
	if mean <= 0 || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return out
	}
	for i, v := range index {
		out[i] = v / mean
	}
	return out
}

// =============================================================================
// SEGMENT PATTERNS (what-if slider variant)
// =============================================================================

// SegmentPatternValue evaluates the simplified slider pattern at a 0-indexed month.
func SegmentPatternValue(p assumption.SegmentPattern, month int) float64 {
	switch p.PatternType {
	case assumption.SegmentPatternSeasonal:
		return SeasonalSegmentValue(p, month)
	case assumption.SegmentPatternGeometric:
		return GeometricSegmentValue(p, month)
	}
	return orZero(p.BaseValue)
}

// SeasonalSegmentValue: base * pattern[m mod 12], no normalization.
func SeasonalSegmentValue(p assumption.SegmentPattern, month int) float64 {
	if p.BaseValue == nil {
		return 0
	}
	if len(p.Pattern) == 0 {
		return *p.BaseValue
	}
	if month < 0 {
		month = 0
	}
	return *p.BaseValue * p.Pattern[(month%12)%len(p.Pattern)]
}

// GeometricSegmentValue: base * (1+growth)^m
func GeometricSegmentValue(p assumption.SegmentPattern, month int) float64 {
	if p.BaseValue == nil {
		return 0
	}
	if month < 0 {
		month = 0
	}
	return GeometricValue(*p.BaseValue, p.GrowthRate, month)
}
