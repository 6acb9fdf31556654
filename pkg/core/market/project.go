package market

import (
	"math"

	"business_planner/pkg/core/assumption"
)

// PeriodRecord is one projected month of the market view.
type PeriodRecord struct {
	Period              int     `json:"period"` // 1-indexed month
	Year                int     `json:"year"`
	TAM                 float64 `json:"tam"`
	SAM                 float64 `json:"sam"`
	SOM                 float64 `json:"som"`
	MarketShare         float64 `json:"marketShare"`       // Percent of SAM
	MarketBasedVolume   float64 `json:"marketBasedVolume"` // Units per month
	CompetitivePosition string  `json:"competitivePosition"`
}

// Project builds a record for each of the first months months. Market sizes are
// annual values of the calendar year the month falls in; the share progresses
// monthly. The volume is the month's captured revenue (share of SAM, never more
// than SOM) divided by the unit price, 0 without a price.
func Project(m *assumption.MarketAssumptions, months int, avgUnitPrice float64) []PeriodRecord {
	if m == nil || months <= 0 {
		return []PeriodRecord{}
	}
	comps := m.CompetitiveLandscape.Competitors
	baseYear := m.MarketSizing.TotalAddressableMarket.BaseYear

	out := make([]PeriodRecord, months)
	for i := 0; i < months; i++ {
		size := SizeAt(m.MarketSizing, baseYear+i/12)
		share := ShareAt(m.MarketShare, float64(i)/12)

		captured := math.Min(size.SAM*pct(share), size.SOM) / 12
		volume := 0.0
		if avgUnitPrice > 0 {
			volume = captured / avgUnitPrice
		}

		out[i] = PeriodRecord{
			Period:              i + 1,
			Year:                size.Year,
			TAM:                 size.TAM,
			SAM:                 size.SAM,
			SOM:                 size.SOM,
			MarketShare:         share,
			MarketBasedVolume:   volume,
			CompetitivePosition: CompetitivePosition(share, comps),
		}
	}
	return out
}

// AlignmentScore is the percent agreement (0-100) of a business volume with the
// market-based volume. A zero market baseline scores 0.
func AlignmentScore(businessVolume, marketVolume float64) float64 {
	if marketVolume == 0 || math.IsNaN(marketVolume) || math.IsNaN(businessVolume) {
		return 0
	}
	diff := math.Abs(businessVolume-marketVolume) / math.Abs(marketVolume)
	return math.Max(0, math.Min(100, 100*(1-diff)))
}
