package validate

import (
	"math"

	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/valuation"
)

// DefaultTolerance absorbs cent rounding of COGS.
const DefaultTolerance = 0.01

// outlierThresholdPct is the month-over-month revenue move worth a warning.
const outlierThresholdPct = 50.0

// =============================================================================
// ROW LINKAGE VALIDATION
// =============================================================================

// LinkageReport contains all row and rollup validation results
type LinkageReport struct {
	Months       int            `json:"months"`
	GrossProfit  *LinkCheck     `json:"gross_profit"`  // Revenue + COGS → Gross profit
	Opex         *LinkCheck     `json:"opex"`          // S&M + R&D + G&A → Total OPEX
	NetCashFlow  *LinkCheck     `json:"net_cash_flow"` // Gross profit + OPEX + CAPEX → Net
	Cumulative   *LinkCheck     `json:"cumulative"`    // Prior cumulative + Net → Cumulative
	Totals       *TotalsLink    `json:"totals,omitempty"`
	Outliers     []OutlierCheck `json:"outliers,omitempty"` // Warnings only
	AllPassed    bool           `json:"all_passed"`
	FailedChecks []string       `json:"failed_checks,omitempty"`
}

// LinkCheck is one identity checked in every month.
type LinkCheck struct {
	MaxDifference float64 `json:"max_difference"`
	WorstMonth    int     `json:"worst_month"` // 1-based, 0 when no month differs
	IsLinked      bool    `json:"is_linked"`
	Tolerance     float64 `json:"tolerance"`
}

// TotalsLink validates the metrics against sums over their own rows.
type TotalsLink struct {
	RevenueMetric    float64 `json:"revenue_metric"`
	RevenueRows      float64 `json:"revenue_rows"`
	NetProfitMetric  float64 `json:"net_profit_metric"`
	NetProfitRows    float64 `json:"net_profit_rows"`
	InvestmentMetric float64 `json:"investment_metric"`
	InvestmentRows   float64 `json:"investment_rows"` // Deepest cumulative position
	IsLinked         bool    `json:"is_linked"`
	Tolerance        float64 `json:"tolerance"`
}

// =============================================================================
// LINKAGE VALIDATION FUNCTIONS
// =============================================================================

// ValidateRows checks the accounting identities of every row. The cumulative
// chain starts at minus the initial investment.
func ValidateRows(rows []projection.MonthlyRow, initialInvestment, tolerance float64) *LinkageReport {
	report := &LinkageReport{
		Months:    len(rows),
		AllPassed: true,
	}

	report.GrossProfit = checkEach(rows, tolerance, func(i int, r projection.MonthlyRow) float64 {
		return r.Revenue + r.COGS - r.GrossProfit
	})
	report.fail(report.GrossProfit, "Revenue + COGS → Gross profit")

	report.Opex = checkEach(rows, tolerance, func(i int, r projection.MonthlyRow) float64 {
		return r.SalesMarketing + r.RD + r.GA - r.TotalOpex
	})
	report.fail(report.Opex, "S&M + R&D + G&A → Total OPEX")

	report.NetCashFlow = checkEach(rows, tolerance, func(i int, r projection.MonthlyRow) float64 {
		return r.GrossProfit + r.TotalOpex + r.Capex - r.NetCashFlow
	})
	report.fail(report.NetCashFlow, "Gross profit + OPEX + CAPEX → Net cash flow")

	report.Cumulative = checkEach(rows, tolerance, func(i int, r projection.MonthlyRow) float64 {
		prior := -initialInvestment
		if i > 0 {
			prior = rows[i-1].CumulativeCashFlow
		}
		return prior + r.NetCashFlow - r.CumulativeCashFlow
	})
	report.fail(report.Cumulative, "Prior cumulative + Net cash flow → Cumulative")

	report.Outliers = MonthlyOutliers(rows, Revenue, "Revenue", outlierThresholdPct)
	return report
}

// ValidateMetrics runs ValidateRows over the metrics' rows and also checks the
// rolled-up totals against them.
func ValidateMetrics(m valuation.CalculatedMetrics, initialInvestment, tolerance float64) *LinkageReport {
	report := ValidateRows(m.MonthlyData, initialInvestment, tolerance)

	t := &TotalsLink{
		RevenueMetric:    m.TotalRevenue,
		NetProfitMetric:  m.NetProfit,
		InvestmentMetric: m.TotalInvestmentRequired,
		Tolerance:        tolerance,
	}
	lowest := 0.0
	for _, r := range m.MonthlyData {
		t.RevenueRows += r.Revenue
		t.NetProfitRows += r.NetCashFlow
		lowest = math.Min(lowest, r.CumulativeCashFlow)
	}
	t.InvestmentRows = -lowest
	if lowest == 0 {
		t.InvestmentRows = 0
	}

	// Sums of many rounded rows drift; allow a cent per row
	sumTolerance := tolerance * math.Max(1, float64(len(m.MonthlyData)))
	t.IsLinked = math.Abs(t.RevenueMetric-t.RevenueRows) <= sumTolerance &&
		math.Abs(t.NetProfitMetric-t.NetProfitRows) <= sumTolerance &&
		math.Abs(t.InvestmentMetric-t.InvestmentRows) <= tolerance
	report.Totals = t
	if !t.IsLinked {
		report.AllPassed = false
		report.FailedChecks = append(report.FailedChecks, "Metrics → Row totals")
	}
	return report
}

func (r *LinkageReport) fail(c *LinkCheck, name string) {
	if !c.IsLinked {
		r.AllPassed = false
		r.FailedChecks = append(r.FailedChecks, name)
	}
}

// checkEach records the largest absolute difference over all rows.
func checkEach(rows []projection.MonthlyRow, tolerance float64, diff func(i int, r projection.MonthlyRow) float64) *LinkCheck {
	c := &LinkCheck{Tolerance: tolerance}
	for i, r := range rows {
		d := math.Abs(diff(i, r))
		if d > c.MaxDifference {
			c.MaxDifference = d
			c.WorstMonth = r.Month
		}
	}
	c.IsLinked = c.MaxDifference <= tolerance
	return c
}
