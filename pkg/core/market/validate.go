package market

import (
	"business_planner/pkg/core/assumption"
)

// optimisticTarget is the target share (percent) above which a plan is flagged.
const optimisticTarget = 50.0

// Validate checks a market document. Out-of-range percentages are errors;
// optimistic or inconsistent shares are warnings.
func Validate(m *assumption.MarketAssumptions) *assumption.ValidationResult {
	r := assumption.NewValidationResult()
	if m == nil {
		r.AddError("market assumptions are missing")
		return r
	}

	tam := m.MarketSizing.TotalAddressableMarket
	if tam.BaseValue <= 0 {
		r.AddError("total_addressable_market.base_value is missing or zero")
	}
	if tam.GrowthRate <= -1 {
		r.AddError("total_addressable_market.growth_rate %.2f is at or below -100%%", tam.GrowthRate)
	} else if tam.GrowthRate < 0 {
		r.AddWarning("total_addressable_market.growth_rate is negative: the market is shrinking")
	}

	checkPercent(r, "serviceable_addressable_market.percentage_of_tam", m.MarketSizing.ServiceableAddressableMarket)
	checkPercent(r, "serviceable_obtainable_market.percentage_of_sam", m.MarketSizing.ServiceableObtainableMarket)

	share := m.MarketShare
	if share.CurrentPosition < 0 || share.CurrentPosition > 100 {
		r.AddError("market_share.current_position %.2f is outside [0,100]", share.CurrentPosition)
	}
	if share.TargetPosition < 0 || share.TargetPosition > 100 {
		r.AddError("market_share.target_position %.2f is outside [0,100]", share.TargetPosition)
	} else if share.TargetPosition > optimisticTarget {
		r.AddWarning("market_share.target_position %.1f%% is above %.0f%%, which is very optimistic", share.TargetPosition, optimisticTarget)
	}

	comps := m.CompetitiveLandscape.Competitors
	if combined := CombinedShare(share.CurrentPosition, comps); combined > 100 {
		r.AddWarning("own and competitor market shares sum to %.1f%%, above 100%%", combined)
	}
	for _, c := range comps {
		if c.MarketShare < 0 || c.MarketShare > 100 {
			r.AddError("competitor %q market_share %.2f is outside [0,100]", c.Name, c.MarketShare)
		}
	}
	return r
}

func checkPercent(r *assumption.ValidationResult, field string, p assumption.PercentageOf) {
	v := p.Percent()
	if v < 0 || v > 100 {
		r.AddError("%s %.2f is outside [0,100]", field, v)
	}
}
