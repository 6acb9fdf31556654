// Package market sizes a market top-down (TAM, SAM, SOM), progresses a share
// target over time and scores the opportunity.
package market

import (
	"math"

	"business_planner/pkg/core/assumption"
)

// Sizing is the nested market size for one year.
type Sizing struct {
	Year int     `json:"year"`
	TAM  float64 `json:"tam"`
	SAM  float64 `json:"sam"`
	SOM  float64 `json:"som"`
}

// TAM compounds the base value to a calendar year. Years before the base year
// discount it. A document without base_year treats year as an offset from the base.
func TAM(t assumption.TotalAddressableMarket, year int) float64 {
	return TAMAfter(t, float64(year-t.BaseYear))
}

// TAMAfter compounds the base value over a (possibly fractional or negative) number of years.
func TAMAfter(t assumption.TotalAddressableMarket, years float64) float64 {
	if t.BaseValue <= 0 || t.GrowthRate <= -1 {
		return 0
	}
	return t.BaseValue * math.Pow(1+t.GrowthRate, years)
}

// SAM is the serviceable part of a TAM value.
func SAM(ms assumption.MarketSizing, tam float64) float64 {
	return tam * pct(ms.ServiceableAddressableMarket.Percent())
}

// SOM is the obtainable part of a SAM value.
func SOM(ms assumption.MarketSizing, sam float64) float64 {
	return sam * pct(ms.ServiceableObtainableMarket.Percent())
}

// SizeAt returns TAM, SAM and SOM for a calendar year.
func SizeAt(ms assumption.MarketSizing, year int) Sizing {
	tam := TAM(ms.TotalAddressableMarket, year)
	sam := SAM(ms, tam)
	return Sizing{Year: year, TAM: tam, SAM: sam, SOM: SOM(ms, sam)}
}

// pct converts a 0-100 percentage to a fraction.
func pct(v float64) float64 {
	return v / 100
}
