package validate

import (
	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/valuation"
)

// DocumentReport combines the findings on a business document with the
// linkage checks of its projection.
type DocumentReport struct {
	*assumption.ValidationResult
	Linkage *LinkageReport `json:"linkage,omitempty"`
}

// Document validates a business document and, when it has no errors,
// projects it and checks the rows. A broken linkage is reported as an error.
func Document(e *projection.Engine, a *assumption.BusinessAssumptions, opts valuation.IRROptions) DocumentReport {
	rep := DocumentReport{ValidationResult: assumption.Validate(a, e.Config().MaxPeriods)}
	if !rep.IsValid {
		return rep
	}

	m := valuation.Evaluate(e, a, opts)
	rep.Linkage = ValidateMetrics(m, a.Financial.InitialInvestment, DefaultTolerance)
	for _, failed := range rep.Linkage.FailedChecks {
		rep.AddError("projection does not link: %s", failed)
	}
	return rep
}
