// Package validate cross-checks projected rows against each other and against
// the metrics rolled up from them, and derives the growth figures reported
// alongside them.
package validate

import (
	"fmt"
	"math"
	"sort"

	"business_planner/pkg/core/projection"
)

// Field selects the row value to aggregate.
type Field func(projection.MonthlyRow) float64

func Revenue(r projection.MonthlyRow) float64     { return r.Revenue }
func NetCashFlow(r projection.MonthlyRow) float64 { return r.NetCashFlow }

// =============================================================================
// YEAR TOTALS
// =============================================================================

// YearTotals sums a field per plan year: months 1-12 are year 1. The last year
// may be partial.
func YearTotals(rows []projection.MonthlyRow, field Field) map[int]float64 {
	out := make(map[int]float64)
	for _, r := range rows {
		out[(r.Month-1)/12+1] += field(r)
	}
	return out
}

// =============================================================================
// YEAR-OVER-YEAR (YoY) CALCULATIONS
// =============================================================================

// YoYResult holds the result of a YoY calculation.
type YoYResult struct {
	CurrentYear  int     `json:"currentYear"`
	PriorYear    int     `json:"priorYear"`
	CurrentValue float64 `json:"currentValue"`
	PriorValue   float64 `json:"priorValue"`
	ChangeAbs    float64 `json:"changeAbs"`
	ChangePct    float64 `json:"changePct"` // Infinite when growing from zero
	Label        string  `json:"label"`
}

// CalculateYoY calculates year-over-year change between two values.
// Returns percentage change: (current - prior) / |prior| * 100
func CalculateYoY(current, prior float64) float64 {
	if prior == 0 {
		if current == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return (current - prior) / math.Abs(prior) * 100
}

// YoYFromMap calculates YoY change from a year->value map.
func YoYFromMap(years map[int]float64, currentYear, priorYear int, label string) (*YoYResult, error) {
	current, okCur := years[currentYear]
	prior, okPri := years[priorYear]

	if !okCur {
		return nil, fmt.Errorf("missing data for year %d", currentYear)
	}
	if !okPri {
		return nil, fmt.Errorf("missing data for year %d", priorYear)
	}

	return &YoYResult{
		CurrentYear:  currentYear,
		PriorYear:    priorYear,
		CurrentValue: current,
		PriorValue:   prior,
		ChangeAbs:    current - prior,
		ChangePct:    CalculateYoY(current, prior),
		Label:        label,
	}, nil
}

// YearOverYear compares each complete plan year with the one before it.
func YearOverYear(rows []projection.MonthlyRow, field Field, label string) []YoYResult {
	complete := len(rows) / 12
	totals := YearTotals(rows, field)

	var out []YoYResult
	for year := 2; year <= complete; year++ {
		res, err := YoYFromMap(totals, year, year-1, label)
		if err != nil {
			continue
		}
		out = append(out, *res)
	}
	return out
}

// =============================================================================
// CAGR (Compound Annual Growth Rate)
// =============================================================================

// CAGRResult holds the result of a CAGR calculation.
type CAGRResult struct {
	StartYear  int     `json:"startYear"`
	EndYear    int     `json:"endYear"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Years      int     `json:"years"`
	CAGR       float64 `json:"cagr"` // As percentage
}

// CalculateCAGR calculates compound annual growth rate.
// CAGR = ((EndValue / StartValue) ^ (1/years)) - 1
func CalculateCAGR(startValue, endValue float64, years int) float64 {
	if startValue <= 0 || endValue < 0 || years <= 0 {
		return 0
	}
	return (math.Pow(endValue/startValue, 1.0/float64(years)) - 1) * 100
}

// CAGRFromMap calculates CAGR from a year->value map.
func CAGRFromMap(years map[int]float64, startYear, endYear int, label string) (*CAGRResult, error) {
	start, okStart := years[startYear]
	end, okEnd := years[endYear]

	if !okStart {
		return nil, fmt.Errorf("missing start year %d", startYear)
	}
	if !okEnd {
		return nil, fmt.Errorf("missing end year %d", endYear)
	}

	numYears := endYear - startYear
	if numYears <= 0 {
		return nil, fmt.Errorf("end year must be after start year")
	}

	return &CAGRResult{
		StartYear:  startYear,
		EndYear:    endYear,
		StartValue: start,
		EndValue:   end,
		Years:      numYears,
		CAGR:       CalculateCAGR(start, end, numYears),
	}, nil
}

// RevenueCAGR is the CAGR of revenue from the first to the last complete year,
// nil with fewer than two complete years.
func RevenueCAGR(rows []projection.MonthlyRow) *CAGRResult {
	complete := len(rows) / 12
	if complete < 2 {
		return nil
	}
	res, err := CAGRFromMap(YearTotals(rows, Revenue), 1, complete, "Revenue")
	if err != nil {
		return nil
	}
	return res
}

// =============================================================================
// OUTLIER DETECTION
// =============================================================================

// OutlierCheck identifies a suspicious month-over-month move.
type OutlierCheck struct {
	Item       string  `json:"item"`
	Month      int     `json:"month"`
	Value      float64 `json:"value"`
	PriorValue float64 `json:"priorValue"`
	ChangePct  float64 `json:"changePct"`
	IsOutlier  bool    `json:"isOutlier"`
	Reason     string  `json:"reason,omitempty"`
	Threshold  float64 `json:"threshold"`
}

// CheckForOutlier identifies if a value change is suspicious. Growth from zero
// is a launch, not an outlier.
func CheckForOutlier(item string, current, prior, thresholdPct float64) *OutlierCheck {
	check := &OutlierCheck{
		Item:       item,
		Value:      current,
		PriorValue: prior,
		Threshold:  thresholdPct,
	}
	if prior == 0 {
		return check
	}
	check.ChangePct = CalculateYoY(current, prior)

	// A drop to zero usually means a series or override ran out
	if current == 0 && prior > 0 {
		check.IsOutlier = true
		check.Reason = "value dropped to zero"
		return check
	}

	if math.Abs(check.ChangePct) > thresholdPct {
		check.IsOutlier = true
		check.Reason = fmt.Sprintf("change of %.1f%% exceeds threshold of %.1f%%", check.ChangePct, thresholdPct)
	}
	return check
}

// MonthlyOutliers flags months whose field moved more than thresholdPct from
// the previous month, largest move first.
func MonthlyOutliers(rows []projection.MonthlyRow, field Field, item string, thresholdPct float64) []OutlierCheck {
	var out []OutlierCheck
	for i := 1; i < len(rows); i++ {
		c := CheckForOutlier(item, field(rows[i]), field(rows[i-1]), thresholdPct)
		if c.IsOutlier {
			c.Month = rows[i].Month
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].ChangePct) > math.Abs(out[j].ChangePct) })
	return out
}
