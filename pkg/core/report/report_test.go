package report_test

import (
	"strings"
	"testing"

	"business_planner/pkg/core/market"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/report"
	"business_planner/pkg/core/sensitivity"
	"business_planner/pkg/core/valuation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetrics() valuation.CalculatedMetrics {
	return valuation.CalculatedMetrics{
		TotalRevenue:            1234567,
		NetProfit:               -2500,
		NPV:                     755.09,
		IRR:                     valuation.IRRAllPositive,
		PaybackPeriod:           0,
		BreakEvenMonth:          3,
		TotalInvestmentRequired: 1300,
		MonthlyData: []projection.MonthlyRow{
			{Month: 1, Revenue: 1000, COGS: -300, GrossProfit: 700, NetCashFlow: 700, CumulativeCashFlow: 700},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := report.BuildMarkdown(report.Input{Title: "Pilot | EU", Currency: "EUR", Metrics: sampleMetrics()})

	assert.True(t, strings.HasPrefix(md, "# Pilot / EU\n"))
	assert.Contains(t, md, "| Total revenue | 1,234,567 EUR |")
	assert.Contains(t, md, "| Net profit | -2,500 EUR |")
	assert.Contains(t, md, "| NPV | 755 EUR |")
	assert.Contains(t, md, "n/a (all cash flows are positive")
	assert.Contains(t, md, "| Break-even month | month 3 |")
	assert.Contains(t, md, "| Payback period | not reached |")
	assert.Contains(t, md, "| 1 | 1,000 | -300 | 700 |")
	assert.NotContains(t, md, "## Sensitivity")
}

func TestBuildMarkdown_OptionalSections(t *testing.T) {
	score := &market.OpportunityScore{Score: 76, Interpretation: "Excellent"}
	records := []market.PeriodRecord{
		{Period: 1, Year: 2024, TAM: 2.5e9, MarketShare: 5, CompetitivePosition: market.PositionFollower},
		{Period: 2, Year: 2024, TAM: 2.5e9, MarketShare: 5.2},
		{Period: 13, Year: 2025, TAM: 2.8e9, MarketShare: 7, CompetitivePosition: market.PositionFollower},
	}
	tornado := []sensitivity.Impact{{
		Driver:   sensitivity.Driver{Path: "pricing.avg_unit_price", Range: [3]float64{40, 50, 60}, Rationale: "Average unit price"},
		NPVLow:   -100,
		NPVHigh:  900,
		NPVSwing: 1000,
	}}

	md := report.BuildMarkdown(report.Input{Metrics: sampleMetrics(), Score: score, Market: records, Tornado: tornado})

	assert.Contains(t, md, "Score **76.0 / 100** (Excellent)")
	assert.Contains(t, md, "| 2024 | 2,500,000,000 |")
	assert.Contains(t, md, "| 2025 | 2,800,000,000 |")
	assert.Equal(t, 1, strings.Count(md, "| 2024 |"))
	assert.Contains(t, md, "| Average unit price | 40 to 60 | -100 | 900 | 1,000 |")
}

func TestRenderHTML(t *testing.T) {
	md := report.BuildMarkdown(report.Input{Title: "Plan", Metrics: sampleMetrics()})

	html, err := report.RenderHTML(md)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Plan</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>Total revenue</td>")
}

func TestBuildMarkdown_YearlyGrowth(t *testing.T) {
	rows := make([]projection.MonthlyRow, 24)
	for i := range rows {
		rev := 100.0
		if i >= 12 {
			rev = 150
		}
		rows[i] = projection.MonthlyRow{Month: i + 1, Revenue: rev, NetCashFlow: 10}
	}
	md := report.BuildMarkdown(report.Input{Metrics: valuation.CalculatedMetrics{MonthlyData: rows}})

	assert.Contains(t, md, "## Yearly growth")
	assert.Contains(t, md, "| 1 | 1,200 | | 120 |")
	assert.Contains(t, md, "| 2 | 1,800 | +50.0% | 120 |")
	assert.Contains(t, md, "Revenue CAGR over 1 years: **+50.0%**")
	assert.Contains(t, md, "## Margins by year")
	assert.Contains(t, md, "| 2 | 0.0% | 0.0% | 0.0% | 0.0% | 0.0% | 6.7% |")

	short := report.BuildMarkdown(report.Input{Metrics: valuation.CalculatedMetrics{MonthlyData: rows[:18]}})
	assert.NotContains(t, short, "Yearly growth")
}
