package projection

import (
	"math"

	"business_planner/pkg/core/assumption"

	"github.com/shopspring/decimal"
)

// Round rounds a currency amount to the nearest whole unit, halves away from zero.
// NaN resolves to 0 and infinities are returned unchanged.
func Round(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(0).InexactFloat64()
}

// OpexValue is the unsigned monthly cost of one item.
// Legacy items are a flat value regardless of revenue and volume.
func OpexValue(item assumption.OpexItem, revenue, volume float64) float64 {
	if cs := item.CostStructure; cs != nil {
		return Round(cs.FixedComponent + revenue*cs.VariableRevenueRate + volume*cs.VariableVolumeRate)
	}
	return orZero(item.Value)
}

// Opex returns the unsigned monthly cost per canonical category. Items that map
// to no category are ignored.
func Opex(items []assumption.OpexItem, revenue, volume float64) OpexBreakdown {
	var out OpexBreakdown
	for _, item := range items {
		v := OpexValue(item, revenue, volume)
		switch item.ResolvedCategory() {
		case assumption.OpexSalesMarketing:
			out.SalesMarketing += v
		case assumption.OpexRD:
			out.RD += v
		case assumption.OpexGA:
			out.GA += v
		}
	}
	return out
}

// CapexValue is the unsigned capital expenditure of all items at a 0-indexed month.
func CapexValue(items []assumption.CapexItem, month int) float64 {
	total := 0.0
	for _, item := range items {
		total += capexItemValue(item, month)
	}
	return total
}

func capexItemValue(item assumption.CapexItem, month int) float64 {
	if len(item.Series) > 0 {
		sum := 0.0
		for _, e := range item.Series {
			if e.Period == month+1 {
				sum += e.Value
			}
		}
		return sum
	}
	if item.Pattern == nil {
		return 0
	}
	v := LinearValue(item.Pattern.BaseValue, orZero(item.Pattern.GrowthRate), month)
	return v * RampFactor(month, item.ImplementationTimeline)
}
