// Package report renders projection results as a markdown summary and HTML.
package report

import (
	"fmt"
	"math"
	"strings"

	"business_planner/pkg/core/market"
	"business_planner/pkg/core/sensitivity"
	"business_planner/pkg/core/utils"
	"business_planner/pkg/core/validate"
	"business_planner/pkg/core/valuation"
)

// Input is everything a report can show. Only Metrics is required.
type Input struct {
	Title    string
	Currency string
	Metrics  valuation.CalculatedMetrics
	Market   []market.PeriodRecord
	Score    *market.OpportunityScore
	Tornado  []sensitivity.Impact
}

// BuildMarkdown writes the summary, the monthly table and any optional sections.
func BuildMarkdown(in Input) string {
	var b strings.Builder
	title := in.Title
	if title == "" {
		title = "Business Plan"
	}
	cur := in.Currency
	m := in.Metrics

	fmt.Fprintf(&b, "# %s\n\n", sanitize(title))

	// =========================================================================
	// Summary
	// =========================================================================
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total revenue | %s |\n", money(m.TotalRevenue, cur))
	fmt.Fprintf(&b, "| Net profit | %s |\n", money(m.NetProfit, cur))
	fmt.Fprintf(&b, "| NPV | %s |\n", money(m.NPV, cur))
	fmt.Fprintf(&b, "| IRR | %s |\n", irr(m.IRR))
	fmt.Fprintf(&b, "| Break-even month | %s |\n", month(m.BreakEvenMonth))
	fmt.Fprintf(&b, "| Payback period | %s |\n", month(m.PaybackPeriod))
	fmt.Fprintf(&b, "| Investment required | %s |\n\n", money(m.TotalInvestmentRequired, cur))

	// =========================================================================
	// Yearly growth
	// =========================================================================
	if yoy := validate.YearOverYear(m.MonthlyData, validate.Revenue, "Revenue"); len(yoy) > 0 {
		net := validate.YearTotals(m.MonthlyData, validate.NetCashFlow)
		fmt.Fprintf(&b, "## Yearly growth\n\n")
		fmt.Fprintf(&b, "| Year | Revenue | Growth | Net cash flow |\n|---:|---:|---:|---:|\n")
		fmt.Fprintf(&b, "| 1 | %s | | %s |\n", money(yoy[0].PriorValue, cur), money(net[1], cur))
		for _, y := range yoy {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				y.CurrentYear, money(y.CurrentValue, cur), growth(y.ChangePct), money(net[y.CurrentYear], cur))
		}
		b.WriteString("\n")
		if c := validate.RevenueCAGR(m.MonthlyData); c != nil {
			fmt.Fprintf(&b, "Revenue CAGR over %d years: **%s**\n\n", c.Years, growth(c.CAGR))
		}
	}
	if margins := validate.CommonSizeByYear(m.MonthlyData); len(margins) > 1 {
		fmt.Fprintf(&b, "## Margins by year\n\n")
		fmt.Fprintf(&b, "| Year | Gross margin | S&M | R&D | G&A | CAPEX | Net margin |\n|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, c := range margins {
			fmt.Fprintf(&b, "| %d | %.1f%% | %.1f%% | %.1f%% | %.1f%% | %.1f%% | %.1f%% |\n",
				c.Year, c.GrossMargin, c.SalesMarketingPct, c.RDPercent, c.GAPercent, c.CapexPercent, c.NetMargin)
		}
		b.WriteString("\n")
	}

	// =========================================================================
	// Monthly projection
	// =========================================================================
	if len(m.MonthlyData) > 0 {
		fmt.Fprintf(&b, "## Monthly projection\n\n")
		fmt.Fprintf(&b, "| Month | Revenue | COGS | Gross profit | OPEX | CAPEX | Net cash flow | Cumulative |\n")
		fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, r := range m.MonthlyData {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
				r.Month, amount(r.Revenue), amount(r.COGS), amount(r.GrossProfit),
				amount(r.TotalOpex), amount(r.Capex), amount(r.NetCashFlow), amount(r.CumulativeCashFlow))
		}
		b.WriteString("\n")
	}

	// =========================================================================
	// Market
	// =========================================================================
	if in.Score != nil {
		s := in.Score
		fmt.Fprintf(&b, "## Market opportunity\n\n")
		fmt.Fprintf(&b, "Score **%.1f / 100** (%s)\n\n", s.Score, s.Interpretation)
		fmt.Fprintf(&b, "| Factor | Points |\n|---|---:|\n")
		fmt.Fprintf(&b, "| Market size | %.1f |\n", s.Breakdown.MarketSize)
		fmt.Fprintf(&b, "| Market growth | %.1f |\n", s.Breakdown.MarketGrowth)
		fmt.Fprintf(&b, "| Competitive position | %.1f |\n", s.Breakdown.CompetitivePosition)
		fmt.Fprintf(&b, "| Entry barriers | %.1f |\n\n", s.Breakdown.EntryBarriers)
	}
	if len(in.Market) > 0 {
		fmt.Fprintf(&b, "## Market sizing by year\n\n")
		fmt.Fprintf(&b, "| Year | TAM | SAM | SOM | Share | Position |\n|---:|---:|---:|---:|---:|---|\n")
		for _, r := range in.Market {
			// one line per year, taken from its first month
			if (r.Period-1)%12 != 0 {
				continue
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %.1f%% | %s |\n",
				r.Year, money(r.TAM, cur), money(r.SAM, cur), money(r.SOM, cur), r.MarketShare, r.CompetitivePosition)
		}
		b.WriteString("\n")
	}

	// =========================================================================
	// Sensitivity
	// =========================================================================
	if len(in.Tornado) > 0 {
		fmt.Fprintf(&b, "## Sensitivity\n\n")
		fmt.Fprintf(&b, "| Driver | Range | NPV low | NPV high | Swing |\n|---|---|---:|---:|---:|\n")
		for _, t := range in.Tornado {
			label := t.Driver.Path
			if t.Driver.Rationale != "" {
				label = t.Driver.Rationale
			}
			fmt.Fprintf(&b, "| %s | %s to %s | %s | %s | %s |\n",
				sanitize(label), amount(t.Driver.Min()), amount(t.Driver.Max()),
				amount(t.NPVLow), amount(t.NPVHigh), amount(t.NPVSwing))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML converts report markdown to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	html, err := utils.RenderMarkdown(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return html, nil
}

// =============================================================================
// Formatting
// =============================================================================

func money(v float64, currency string) string {
	if currency == "" {
		return amount(v)
	}
	return amount(v) + " " + currency
}

// amount formats a value rounded to whole units with thousands separators.
func amount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var out strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(d)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}

func irr(v float64) string {
	if valuation.IsIRRError(v) {
		return "n/a (" + valuation.IRRErrorMessage(v) + ")"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

func growth(pct float64) string {
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", pct)
}

func month(m int) string {
	if m <= 0 {
		return "not reached"
	}
	return fmt.Sprintf("month %d", m)
}

// sanitize keeps user text from breaking table rows.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	return strings.ReplaceAll(s, "\n", " ")
}
