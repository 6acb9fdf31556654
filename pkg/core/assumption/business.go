// Package assumption defines the declarative assumption documents consumed by the
// projection engine and the market sizing engine.
// Documents arrive as JSON (possibly hand-edited), HJSON or YAML and are decoded into
// the types below. Every numeric field is optional; the engine resolves missing values
// to neutral defaults instead of failing.
package assumption

import (
	"strings"
)

// =============================================================================
// BUSINESS MODEL
// =============================================================================

// BusinessModel selects the branch of the monthly data generator.
type BusinessModel string

const (
	ModelRecurring   BusinessModel = "recurring"
	ModelUnitSales   BusinessModel = "unit_sales"
	ModelCostSavings BusinessModel = "cost_savings"
)

// Known reports whether the model is one of the supported branches.
func (m BusinessModel) Known() bool {
	switch m {
	case ModelRecurring, ModelUnitSales, ModelCostSavings:
		return true
	}
	return false
}

// =============================================================================
// BUSINESS ASSUMPTIONS (root document)
// =============================================================================

// BusinessAssumptions is the root business document.
type BusinessAssumptions struct {
	Periods       int           `json:"periods"`  // Months; capped by the engine config
	Currency      string        `json:"currency"` // Informational only
	BusinessModel BusinessModel `json:"business_model"`

	Pricing        Pricing         `json:"pricing"`
	Segments       []Segment       `json:"segments"`
	GrowthSettings *GrowthSettings `json:"growth_settings,omitempty"`

	Opex        []OpexItem   `json:"opex"`
	Capex       []CapexItem  `json:"capex"`
	CostSavings *CostSavings `json:"cost_savings,omitempty"`

	Financial Financial `json:"financial"`
}

// Financial holds the discounting and funding inputs.
type Financial struct {
	DiscountRate      float64 `json:"discount_rate"`      // Annual, decimal (0.12 = 12%)
	InitialInvestment float64 `json:"initial_investment"` // Cash out before month 1
	ChurnRate         float64 `json:"churn_rate"`         // Monthly, recurring model only
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// PeriodValue is one entry of an explicit series. Period is 1-indexed.
type PeriodValue struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// YearlyFactor multiplies the base value for every month of a 1-indexed year.
type YearlyFactor struct {
	Year   int     `json:"year"`
	Factor float64 `json:"factor"`
}

// PriceOverride replaces the price for a single 1-indexed period.
type PriceOverride struct {
	Period int     `json:"period"`
	Price  float64 `json:"price"`
}

// VolumeOverride replaces the volume for a single 1-indexed period.
type VolumeOverride struct {
	Period int     `json:"period"`
	Volume float64 `json:"volume"`
}

// =============================================================================
// PRICING
// =============================================================================

// Pricing is the average unit price plus optional adjustments.
type Pricing struct {
	AvgUnitPrice      *float64            `json:"avg_unit_price,omitempty"`
	YearlyAdjustments *PricingAdjustments `json:"yearly_adjustments,omitempty"`
}

type PricingAdjustments struct {
	PricingFactors []YearlyFactor  `json:"pricing_factors,omitempty"`
	PriceOverrides []PriceOverride `json:"price_overrides,omitempty"`
}

// =============================================================================
// GLOBAL GROWTH DEFAULTS
// =============================================================================

// GrowthSettings supplies defaults for segments that omit their pattern type or
// some of its parameters.
type GrowthSettings struct {
	DefaultPatternType PatternType       `json:"default_pattern_type,omitempty"`
	Geom               *GeomSettings     `json:"geom_growth,omitempty"`
	Linear             *LinearSettings   `json:"linear_growth,omitempty"`
	Seasonal           *SeasonalSettings `json:"seasonal_growth,omitempty"`
}

type GeomSettings struct {
	Start         *float64 `json:"start,omitempty"`
	MonthlyGrowth *float64 `json:"monthly_growth,omitempty"`
}

type LinearSettings struct {
	Start               *float64 `json:"start,omitempty"`
	MonthlyFlatIncrease *float64 `json:"monthly_flat_increase,omitempty"`
}

type SeasonalSettings struct {
	BaseYearTotal      *float64  `json:"base_year_total,omitempty"`
	SeasonalityIndex12 []float64 `json:"seasonality_index_12,omitempty"`
	YoYGrowth          *float64  `json:"yoy_growth,omitempty"`
}

// =============================================================================
// COSTS
// =============================================================================

// OpexCategory is one of the three canonical operating expense buckets.
type OpexCategory string

const (
	OpexSalesMarketing OpexCategory = "sales_marketing"
	OpexRD             OpexCategory = "rd"
	OpexGA             OpexCategory = "ga"
	OpexUnknown        OpexCategory = ""
)

// OpexItem is either a legacy flat monthly value or a cost structure.
type OpexItem struct {
	Name          string         `json:"name"`
	Category      OpexCategory   `json:"category,omitempty"`
	Value         *float64       `json:"value,omitempty"` // Legacy flat monthly cost
	CostStructure *CostStructure `json:"cost_structure,omitempty"`
}

// CostStructure splits a cost into fixed and volume/revenue-proportional parts.
type CostStructure struct {
	FixedComponent      float64 `json:"fixed_component"`
	VariableRevenueRate float64 `json:"variable_revenue_rate"` // Share of revenue (0.10 = 10%)
	VariableVolumeRate  float64 `json:"variable_volume_rate"`  // Currency per unit of volume
}

// ResolvedCategory returns the declared category, or one inferred from the item name.
func (o OpexItem) ResolvedCategory() OpexCategory {
	switch o.Category {
	case OpexSalesMarketing, OpexRD, OpexGA:
		return o.Category
	}
	name := strings.ToLower(o.Name)
	switch {
	case strings.Contains(name, "sales"), strings.Contains(name, "marketing"), strings.Contains(name, "s&m"):
		return OpexSalesMarketing
	case strings.Contains(name, "r&d"), strings.Contains(name, "research"), strings.Contains(name, "development"):
		return OpexRD
	case strings.Contains(name, "g&a"), strings.Contains(name, "general"), strings.Contains(name, "admin"):
		return OpexGA
	}
	return OpexUnknown
}

// CapexItem is a time-series item when Series is non-empty, a pattern item otherwise.
type CapexItem struct {
	Name                   string                  `json:"name"`
	Series                 []PeriodValue           `json:"series,omitempty"`
	Pattern                *CapexPattern           `json:"pattern,omitempty"`
	ImplementationTimeline *ImplementationTimeline `json:"implementation_timeline,omitempty"`
}

// CapexPattern is evaluated as a linear growth pattern.
type CapexPattern struct {
	BaseValue  float64  `json:"base_value"`
	GrowthRate *float64 `json:"growth_rate,omitempty"` // Flat increase per month
}

// =============================================================================
// COST SAVINGS
// =============================================================================

// ImplementationTimeline describes a phased rollout. Months are 1-indexed.
type ImplementationTimeline struct {
	StartMonth              int `json:"start_month"`
	RampUpMonths            int `json:"ramp_up_months"`
	FullImplementationMonth int `json:"full_implementation_month"`
}

type CostSavings struct {
	BaselineCosts   []BaselineCost   `json:"baseline_costs,omitempty"`
	EfficiencyGains []EfficiencyGain `json:"efficiency_gains,omitempty"`
}

// BaselineCost is a current monthly cost with a savings potential in percent.
type BaselineCost struct {
	ID                     string                  `json:"id"`
	Label                  string                  `json:"label"`
	CurrentMonthlyCost     float64                 `json:"current_monthly_cost"`
	SavingsPotentialPct    float64                 `json:"savings_potential_pct"` // 0-100
	ImplementationTimeline *ImplementationTimeline `json:"implementation_timeline,omitempty"`
}

// EfficiencyGain values the change of a metric (hours, detections, ...) per month.
type EfficiencyGain struct {
	ID                     string                  `json:"id"`
	Label                  string                  `json:"label"`
	Metric                 string                  `json:"metric"`
	BaselineValue          float64                 `json:"baseline_value"`
	ImprovedValue          float64                 `json:"improved_value"`
	ValuePerUnit           float64                 `json:"value_per_unit"`
	ImplementationTimeline *ImplementationTimeline `json:"implementation_timeline,omitempty"`
}
