package projection

import (
	"log/slog"

	"business_planner/pkg/core/assumption"
)

// Engine generates monthly rows from a business document. It holds only its
// configuration, so one Engine may be shared across goroutines.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the debug logger. Logging never affects results.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg.normalized(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the normalized configuration in use.
func (e *Engine) Config() Config {
	return e.cfg
}

// =============================================================================
// MONTHLY DATA
// =============================================================================

// carry is the state threaded from one month to the next.
type carry struct {
	existingCustomers float64
	newCustomers      float64
	cumulative        float64
}

// MonthlyData projects the document over min(periods, MaxPeriods) months.
// Missing inputs resolve to zeros; the series always has the capped length.
func (e *Engine) MonthlyData(a *assumption.BusinessAssumptions) []MonthlyRow {
	if a == nil {
		return []MonthlyRow{}
	}
	horizon := e.cfg.Horizon(a.Periods)
	d := DefaultsFrom(a.GrowthSettings)

	rows := make([]MonthlyRow, 0, horizon)
	state := carry{cumulative: -a.Financial.InitialInvestment}
	for m := 0; m < horizon; m++ {
		var row MonthlyRow
		row, state = e.nextRow(a, d, m, state)
		rows = append(rows, row)
	}

	e.logger.Debug("monthly data generated",
		"business_model", string(a.BusinessModel),
		"declared_periods", a.Periods,
		"months", horizon,
		"segments", len(a.Segments))
	return rows
}

// nextRow builds month m from the previous month's carried state.
func (e *Engine) nextRow(a *assumption.BusinessAssumptions, d Defaults, m int, prev carry) (MonthlyRow, carry) {
	row := MonthlyRow{Month: m + 1}
	next := prev

	switch a.BusinessModel {
	case assumption.ModelCostSavings:
		s := Savings(a, m)
		row.SavingsBreakdown = &s
		row.Revenue = s.TotalBenefits
		row.SalesVolume = 1

	case assumption.ModelRecurring:
		newCustomers := TotalVolume(a.Segments, m, d)
		existing := 0.0
		if m > 0 {
			existing = (prev.existingCustomers + prev.newCustomers) * (1 - clampUnit(a.Financial.ChurnRate))
		}
		price := ResolvePrice(a.Pricing, m).Value
		row.NewCustomers = newCustomers
		row.ExistingCustomers = existing
		row.SalesVolume = existing + newCustomers
		row.UnitPrice = price
		row.Revenue = row.SalesVolume * price
		next.existingCustomers = existing
		next.newCustomers = newCustomers

	default:
		// unit_sales, and the fallback for an unknown model
		volume := TotalVolume(a.Segments, m, d)
		price := ResolvePrice(a.Pricing, m).Value
		row.NewCustomers = volume
		row.SalesVolume = volume
		row.UnitPrice = price
		row.Revenue = volume * price
	}

	row.COGS = outflow(Round(row.Revenue * e.cfg.COGSRatio))
	row.GrossProfit = row.Revenue + row.COGS

	opex := Opex(a.Opex, row.Revenue, row.SalesVolume)
	row.SalesMarketing = outflow(opex.SalesMarketing)
	row.RD = outflow(opex.RD)
	row.GA = outflow(opex.GA)
	row.TotalOpex = outflow(opex.Total())
	row.Capex = outflow(CapexValue(a.Capex, m))

	row.NetCashFlow = row.GrossProfit + row.TotalOpex + row.Capex
	next.cumulative = prev.cumulative + row.NetCashFlow
	row.CumulativeCashFlow = next.cumulative

	return row, next
}

// outflow negates a cost without producing -0.
func outflow(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// =============================================================================
// TRAJECTORIES
// =============================================================================

// PricingTrajectory returns the tagged unit price for each month of the capped horizon.
func (e *Engine) PricingTrajectory(p assumption.Pricing, periods int) []TrajectoryPoint {
	return PricingTrajectory(p, e.cfg.Horizon(periods))
}

// VolumeTrajectory returns the tagged volume of one segment for each month of the capped horizon.
func (e *Engine) VolumeTrajectory(seg assumption.Segment, periods int, d Defaults) []TrajectoryPoint {
	return VolumeTrajectory(seg, e.cfg.Horizon(periods), d)
}
