package assumption

// =============================================================================
// MARKET ASSUMPTIONS
// Percentages and shares are expressed in percent (0-100).
// =============================================================================

type MarketAssumptions struct {
	MarketSizing         MarketSizing         `json:"market_sizing"`
	MarketShare          MarketShare          `json:"market_share"`
	CompetitiveLandscape CompetitiveLandscape `json:"competitive_landscape"`
}

type MarketSizing struct {
	TotalAddressableMarket       TotalAddressableMarket `json:"total_addressable_market"`
	ServiceableAddressableMarket PercentageOf           `json:"serviceable_addressable_market"`
	ServiceableObtainableMarket  PercentageOf           `json:"serviceable_obtainable_market"`
}

type TotalAddressableMarket struct {
	BaseValue  float64 `json:"base_value"`
	GrowthRate float64 `json:"growth_rate"` // Annual, decimal
	BaseYear   int     `json:"base_year"`
	Currency   string  `json:"currency,omitempty"`
}

// PercentageOf carries either percentage_of_tam (SAM) or percentage_of_sam (SOM).
type PercentageOf struct {
	PercentageOfTAM *float64 `json:"percentage_of_tam,omitempty"`
	PercentageOfSAM *float64 `json:"percentage_of_sam,omitempty"`
}

// Percent returns whichever percentage is set, 0 otherwise.
func (p PercentageOf) Percent() float64 {
	if p.PercentageOfTAM != nil {
		return *p.PercentageOfTAM
	}
	if p.PercentageOfSAM != nil {
		return *p.PercentageOfSAM
	}
	return 0
}

// PenetrationStrategy selects the market share progression curve.
type PenetrationStrategy string

const (
	PenetrationLinear      PenetrationStrategy = "linear"
	PenetrationExponential PenetrationStrategy = "exponential"
	PenetrationSCurve      PenetrationStrategy = "s_curve"
)

type MarketShare struct {
	CurrentPosition     float64             `json:"current_position"`
	TargetPosition      float64             `json:"target_position"`
	TargetTimeframe     TargetTimeframe     `json:"target_timeframe"`
	PenetrationStrategy PenetrationStrategy `json:"penetration_strategy,omitempty"`
}

type TargetTimeframe struct {
	Years float64 `json:"years"`
}

type Competitor struct {
	Name        string  `json:"name"`
	MarketShare float64 `json:"market_share"`
}

type CompetitiveLandscape struct {
	Competitors     []Competitor `json:"competitors,omitempty"`
	MarketStructure string       `json:"market_structure,omitempty"` // fragmented, consolidated, ...
	BarriersToEntry string       `json:"barriers_to_entry,omitempty"` // low, medium, high
}
