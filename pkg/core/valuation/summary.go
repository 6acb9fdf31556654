package valuation

import (
	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/projection"
)

// CalculatedMetrics is the rollup shown next to the monthly table.
type CalculatedMetrics struct {
	TotalRevenue            float64                 `json:"totalRevenue"`
	NetProfit               float64                 `json:"netProfit"`
	NPV                     float64                 `json:"npv"`
	IRR                     float64                 `json:"irr"`                 // Annualized, or an IRR* sentinel
	IRRStatus               string                  `json:"irrStatus,omitempty"` // Set when IRR is a sentinel
	PaybackPeriod           int                     `json:"paybackPeriod"`       // 1-based month, 0 if never
	TotalInvestmentRequired float64                 `json:"totalInvestmentRequired"`
	BreakEvenMonth          int                     `json:"breakEvenMonth"` // 1-based month, 0 if never
	MonthlyData             []projection.MonthlyRow `json:"monthlyData"`
}

// CashFlows returns the rows' net cash flows with the initial investment taken
// out of the first month.
func CashFlows(rows []projection.MonthlyRow, initialInvestment float64) []float64 {
	flows := make([]float64, len(rows))
	for i, r := range rows {
		flows[i] = r.NetCashFlow
	}
	if len(flows) > 0 {
		flows[0] -= initialInvestment
	}
	return flows
}

// CalculateMetrics rolls projected rows up into summary metrics.
func CalculateMetrics(rows []projection.MonthlyRow, fin assumption.Financial, opts IRROptions) CalculatedMetrics {
	if rows == nil {
		rows = []projection.MonthlyRow{}
	}
	flows := CashFlows(rows, fin.InitialInvestment)

	m := CalculatedMetrics{
		NPV:            NPV(flows, fin.DiscountRate),
		IRR:            IRRWithOptions(flows, opts),
		PaybackPeriod:  PaybackPeriod(flows),
		BreakEvenMonth: BreakEvenMonth(CashFlows(rows, 0)),
		MonthlyData:    rows,
	}
	m.IRRStatus = IRRErrorMessage(m.IRR)

	lowest := 0.0
	for _, r := range rows {
		m.TotalRevenue += r.Revenue
		m.NetProfit += r.NetCashFlow
		if r.CumulativeCashFlow < lowest {
			lowest = r.CumulativeCashFlow
		}
	}
	if lowest < 0 {
		m.TotalInvestmentRequired = -lowest
	}
	return m
}

// Evaluate projects a document and computes its metrics in one step.
func Evaluate(e *projection.Engine, a *assumption.BusinessAssumptions, opts IRROptions) CalculatedMetrics {
	if a == nil {
		return CalculateMetrics(nil, assumption.Financial{}, opts)
	}
	return CalculateMetrics(e.MonthlyData(a), a.Financial, opts)
}
