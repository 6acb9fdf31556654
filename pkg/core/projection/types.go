package projection

// Source tags where a resolved value came from. It is part of the trajectory
// output consumed by the evidence trail, not a debugging aid.
type Source string

const (
	SourceOverride Source = "override" // Absolute per-period value
	SourceYearly   Source = "yearly"   // Base value times the year's factor
	SourceBase     Source = "base"     // Unmodified base price
	SourcePattern  Source = "pattern"  // Unmodified growth pattern volume
)

// ValuePoint is a resolved value with its provenance.
type ValuePoint struct {
	Value  float64 `json:"value"`
	Source Source  `json:"source"`
}

// TrajectoryPoint is one month of a pricing or volume trajectory. Period is 1-indexed.
type TrajectoryPoint struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
	Source Source  `json:"source"`
}

// MonthlyRow is one projected month. Costs are stored as negative numbers.
type MonthlyRow struct {
	Month int `json:"month"` // 1-indexed

	Revenue     float64 `json:"revenue"`
	COGS        float64 `json:"cogs"`
	GrossProfit float64 `json:"grossProfit"`

	SalesMarketing float64 `json:"salesMarketing"`
	RD             float64 `json:"rd"`
	GA             float64 `json:"ga"`
	TotalOpex      float64 `json:"totalOpex"`
	Capex          float64 `json:"capex"`

	NetCashFlow        float64 `json:"netCashFlow"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow"`

	// Revenue drivers. The cost savings model reports 0 customers, volume 1, price 0.
	NewCustomers      float64 `json:"newCustomers"`
	ExistingCustomers float64 `json:"existingCustomers"`
	SalesVolume       float64 `json:"salesVolume"`
	UnitPrice         float64 `json:"unitPrice"`

	// Set only for the cost savings model; flattened into the row's JSON.
	*SavingsBreakdown
}

// SavingsBreakdown holds the cost savings model's benefit components for a month.
type SavingsBreakdown struct {
	BaselineCosts   float64 `json:"baselineCosts"`
	CostSavings     float64 `json:"costSavings"`
	EfficiencyGains float64 `json:"efficiencyGains"`
	TotalBenefits   float64 `json:"totalBenefits"`
}

// OpexBreakdown is the unsigned monthly cost of each canonical category.
type OpexBreakdown struct {
	SalesMarketing float64 `json:"salesMarketing"`
	RD             float64 `json:"rd"`
	GA             float64 `json:"ga"`
}

// Total returns the unsigned sum of the three categories.
func (o OpexBreakdown) Total() float64 {
	return o.SalesMarketing + o.RD + o.GA
}
