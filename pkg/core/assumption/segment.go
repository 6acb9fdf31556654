package assumption

import (
	"encoding/json"
)

// =============================================================================
// GROWTH PATTERN (closed tagged variant)
// =============================================================================

// PatternType is the wire tag of a volume growth pattern.
type PatternType string

const (
	PatternGeometric  PatternType = "geom_growth"
	PatternLinear     PatternType = "linear_growth"
	PatternSeasonal   PatternType = "seasonal_growth"
	PatternTimeSeries PatternType = "time_series"
)

// VolumePattern is implemented only by the four pattern structs in this file.
// Resolvers dispatch with a type switch over the concrete types.
type VolumePattern interface {
	Type() PatternType
	isVolumePattern()
}

// GeometricGrowth: v(m) = base * (1+rate)^m
type GeometricGrowth struct {
	Base              *float64
	MonthlyGrowthRate *float64
}

// LinearGrowth: v(m) = base + increase*m
type LinearGrowth struct {
	Base                *float64
	MonthlyFlatIncrease *float64
}

// SeasonalGrowth spreads a yearly total over a mean-normalized 12 month index.
type SeasonalGrowth struct {
	BaseYearTotal    *float64
	SeasonalityIndex []float64
	YoYGrowth        *float64
}

// TimeSeries holds explicit values and repeats the last one past its end.
type TimeSeries struct {
	Series []PeriodValue
}

func (GeometricGrowth) Type() PatternType { return PatternGeometric }
func (LinearGrowth) Type() PatternType    { return PatternLinear }
func (SeasonalGrowth) Type() PatternType  { return PatternSeasonal }
func (TimeSeries) Type() PatternType      { return PatternTimeSeries }

func (GeometricGrowth) isVolumePattern() {}
func (LinearGrowth) isVolumePattern()    {}
func (SeasonalGrowth) isVolumePattern()  {}
func (TimeSeries) isVolumePattern()      {}

// VolumeParams is the flat parameter bag as it appears on the wire. It is kept on
// the Volume so a pattern inferred from the global defaults can still use the
// parameters the segment did declare.
type VolumeParams struct {
	BaseValue           *float64      `json:"base_value,omitempty"`
	Series              []PeriodValue `json:"series,omitempty"`
	MonthlyGrowthRate   *float64      `json:"monthly_growth_rate,omitempty"`
	MonthlyFlatIncrease *float64      `json:"monthly_flat_increase,omitempty"`
	BaseYearTotal       *float64      `json:"base_year_total,omitempty"`
	SeasonalityIndex12  []float64     `json:"seasonality_index_12,omitempty"`
	YoYGrowth           *float64      `json:"yoy_growth,omitempty"`
}

// Base returns base_value, falling back to the first series entry.
func (p VolumeParams) Base() *float64 {
	if p.BaseValue != nil {
		return p.BaseValue
	}
	if len(p.Series) > 0 {
		v := p.Series[0].Value
		return &v
	}
	return nil
}

// NewVolumePattern builds the variant for a tag. Unknown tags return nil.
func NewVolumePattern(t PatternType, p VolumeParams) VolumePattern {
	switch t {
	case PatternGeometric:
		return GeometricGrowth{Base: p.Base(), MonthlyGrowthRate: p.MonthlyGrowthRate}
	case PatternLinear:
		return LinearGrowth{Base: p.Base(), MonthlyFlatIncrease: p.MonthlyFlatIncrease}
	case PatternSeasonal:
		return SeasonalGrowth{BaseYearTotal: p.BaseYearTotal, SeasonalityIndex: p.SeasonalityIndex12, YoYGrowth: p.YoYGrowth}
	case PatternTimeSeries:
		return TimeSeries{Series: p.Series}
	}
	return nil
}

// =============================================================================
// SEGMENT
// =============================================================================

type Segment struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Volume Volume `json:"volume"`
}

// Volume carries the segment's pattern. Pattern is nil when the document omits
// pattern_type (or uses an unknown one); the engine then infers it from
// GrowthSettings.DefaultPatternType.
type Volume struct {
	Pattern           VolumePattern
	DeclaredType      PatternType
	Params            VolumeParams
	YearlyAdjustments *VolumeAdjustments
}

type VolumeAdjustments struct {
	VolumeFactors   []YearlyFactor   `json:"volume_factors,omitempty"`
	VolumeOverrides []VolumeOverride `json:"volume_overrides,omitempty"`
}

type volumeWire struct {
	PatternType PatternType `json:"pattern_type,omitempty"`
	VolumeParams
	YearlyAdjustments *VolumeAdjustments `json:"yearly_adjustments,omitempty"`
}

func (v *Volume) UnmarshalJSON(data []byte) error {
	var w volumeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.DeclaredType = w.PatternType
	v.Params = w.VolumeParams
	v.YearlyAdjustments = w.YearlyAdjustments
	v.Pattern = NewVolumePattern(w.PatternType, w.VolumeParams)
	return nil
}

func (v Volume) MarshalJSON() ([]byte, error) {
	w := volumeWire{
		PatternType:       v.DeclaredType,
		VolumeParams:      v.Params,
		YearlyAdjustments: v.YearlyAdjustments,
	}
	if v.Pattern != nil {
		w.PatternType = v.Pattern.Type()
	}
	return json.Marshal(w)
}

// =============================================================================
// SEGMENT PATTERN (simplified variant driven by sensitivity sliders)
// =============================================================================

type SegmentPatternType string

const (
	SegmentPatternSeasonal  SegmentPatternType = "seasonal"
	SegmentPatternGeometric SegmentPatternType = "geometric"
)

// SegmentPattern is the reduced form used by what-if tooling. Unlike
// SeasonalGrowth its pattern is applied as-is, without normalization.
type SegmentPattern struct {
	PatternType SegmentPatternType `json:"pattern_type"`
	BaseValue   *float64           `json:"base_value,omitempty"`
	Pattern     []float64          `json:"pattern,omitempty"`
	GrowthRate  float64            `json:"growth_rate"`
}
