package market

import (
	"math"
	"strings"

	"business_planner/pkg/core/assumption"
)

// Score weights, summing to 100.
const (
	WeightMarketSize          = 30.0
	WeightMarketGrowth        = 25.0
	WeightCompetitivePosition = 25.0
	WeightEntryBarriers       = 20.0
)

// ScoreBreakdown holds the weighted points of each factor.
type ScoreBreakdown struct {
	MarketSize          float64 `json:"marketSize"`
	MarketGrowth        float64 `json:"marketGrowth"`
	CompetitivePosition float64 `json:"competitivePosition"`
	EntryBarriers       float64 `json:"entryBarriers"`
}

// OpportunityScore is a 0-100 attractiveness rating.
type OpportunityScore struct {
	Score          float64        `json:"score"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
	Interpretation string         `json:"interpretation"`
}

// Score rates the market opportunity described by the document.
func Score(m *assumption.MarketAssumptions) OpportunityScore {
	if m == nil {
		return OpportunityScore{Interpretation: Interpret(0)}
	}
	b := ScoreBreakdown{
		MarketSize:          WeightMarketSize * sizeFactor(m.MarketSizing),
		MarketGrowth:        WeightMarketGrowth * growthFactor(m.MarketSizing.TotalAddressableMarket.GrowthRate),
		CompetitivePosition: WeightCompetitivePosition * competitiveFactor(m),
		EntryBarriers:       WeightEntryBarriers * barrierFactor(m.CompetitiveLandscape.BarriersToEntry),
	}
	total := b.MarketSize + b.MarketGrowth + b.CompetitivePosition + b.EntryBarriers
	total = math.Round(math.Max(0, math.Min(100, total))*10) / 10
	return OpportunityScore{Score: total, Breakdown: b, Interpretation: Interpret(total)}
}

// Interpret buckets a score.
func Interpret(score float64) string {
	switch {
	case score >= 75:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	}
	return "Challenging"
}

// sizeFactor rates the obtainable market at the base year, falling back to the
// TAM when no SAM or SOM percentages are given.
func sizeFactor(ms assumption.MarketSizing) float64 {
	size := SizeAt(ms, ms.TotalAddressableMarket.BaseYear)
	v := size.SOM
	if v <= 0 {
		v = size.TAM
	}
	switch {
	case v <= 0:
		return 0
	case v >= 1e9:
		return 1
	case v >= 1e8:
		return 0.8
	case v >= 1e7:
		return 0.6
	case v >= 1e6:
		return 0.4
	}
	return 0.2
}

func growthFactor(rate float64) float64 {
	switch {
	case rate >= 0.20:
		return 1
	case rate >= 0.10:
		return 0.8
	case rate >= 0.05:
		return 0.6
	case rate >= 0:
		return 0.4
	}
	return 0.1
}

// competitiveFactor blends market fragmentation with the position reached at
// the target share.
func competitiveFactor(m *assumption.MarketAssumptions) float64 {
	comps := m.CompetitiveLandscape.Competitors
	fragmentation := 1 - math.Min(1, HHI(m.MarketShare.TargetPosition, comps))

	var position float64
	switch CompetitivePosition(m.MarketShare.TargetPosition, comps) {
	case PositionLeader:
		position = 1
	case PositionChallenger:
		position = 0.75
	case PositionFollower:
		position = 0.5
	default:
		position = 0.3
	}
	return (fragmentation + position) / 2
}

func barrierFactor(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return 0.9
	case "medium", "moderate":
		return 0.6
	case "high":
		return 0.3
	}
	return 0.5
}
