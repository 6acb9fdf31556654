package assumption

import "fmt"

// ValidationResult separates hard errors from soft warnings. Validation never
// fails with an error value; callers decide what to do with the findings.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

func (r *ValidationResult) AddError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *ValidationResult) AddWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a business document for values the engine would silently
// neutralize. maxPeriods is the computation horizon of the engine.
func Validate(a *BusinessAssumptions, maxPeriods int) *ValidationResult {
	res := NewValidationResult()
	if a == nil {
		res.AddError("business assumptions are missing")
		return res
	}

	if !a.BusinessModel.Known() {
		res.AddError("unknown business model %q (expected recurring, unit_sales or cost_savings)", a.BusinessModel)
	}
	if a.Periods <= 0 {
		res.AddError("periods must be positive, got %d", a.Periods)
	} else if maxPeriods > 0 && a.Periods > maxPeriods {
		res.AddWarning("periods %d exceeds the %d month horizon; projection is capped", a.Periods, maxPeriods)
	}
	if a.Financial.DiscountRate < 0 {
		res.AddWarning("negative discount rate %.4f", a.Financial.DiscountRate)
	}
	if a.Financial.ChurnRate < 0 || a.Financial.ChurnRate > 1 {
		res.AddError("churn rate %.4f outside [0,1]", a.Financial.ChurnRate)
	}

	if a.BusinessModel != ModelCostSavings {
		if a.Pricing.AvgUnitPrice == nil {
			res.AddWarning("pricing.avg_unit_price is missing; price resolves to 0")
		}
		hasDefault := a.GrowthSettings != nil && NewVolumePattern(a.GrowthSettings.DefaultPatternType, VolumeParams{}) != nil
		for _, seg := range a.Segments {
			if seg.Volume.Pattern == nil && !hasDefault {
				res.AddWarning("segment %q has no usable pattern_type and no default; volume resolves to 0", seg.ID)
			}
		}
	}

	for _, item := range a.Opex {
		if item.ResolvedCategory() == OpexUnknown {
			res.AddWarning("opex item %q does not map to Sales & Marketing, R&D or G&A and is ignored", item.Name)
		}
	}

	if a.CostSavings != nil {
		for _, bc := range a.CostSavings.BaselineCosts {
			if bc.SavingsPotentialPct < 0 || bc.SavingsPotentialPct > 100 {
				res.AddError("baseline cost %q savings_potential_pct %.2f outside [0,100]", bc.ID, bc.SavingsPotentialPct)
			}
		}
	}

	return res
}
