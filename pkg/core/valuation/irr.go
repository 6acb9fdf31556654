package valuation

import (
	"fmt"
	"math"
	"strconv"

	"business_planner/pkg/core/projection"
)

// =============================================================================
// IRR SENTINELS
// Valid annualized rates are always greater than -1, so every value at or below
// irrSentinelCeiling is a classified failure, never a rate.
// =============================================================================

const (
	IRRNoData        = -999.0 // No cash flows
	IRRAllSame       = -998.0 // Every cash flow is identical
	IRRAllPositive   = -997.0 // No outflow to recover
	IRRAllNegative   = -996.0 // No inflow at all
	IRRNoConvergence = -995.0 // Solver exhausted its iteration budget
	IRRExtremeRate   = -994.0 // Root outside the supported range

	irrSentinelCeiling = -990.0
)

var irrMessages = map[float64]string{
	IRRNoData:        "no cash flow data",
	IRRAllSame:       "all cash flows are identical",
	IRRAllPositive:   "all cash flows are positive, there is no investment to recover",
	IRRAllNegative:   "all cash flows are negative, the investment is never recovered",
	IRRNoConvergence: "IRR calculation did not converge",
	IRRExtremeRate:   "IRR is outside the supported range",
}

// IsIRRError reports whether an IRR result is a sentinel rather than a rate.
func IsIRRError(v float64) bool {
	return v <= irrSentinelCeiling || math.IsNaN(v)
}

// IRRErrorMessage describes a sentinel. Valid rates return "".
func IRRErrorMessage(v float64) string {
	if !IsIRRError(v) {
		return ""
	}
	if msg, ok := irrMessages[v]; ok {
		return msg
	}
	return "unknown IRR error"
}

// =============================================================================
// SOLVER
// =============================================================================

const (
	DefaultIRRNewtonIterations    = 100
	DefaultIRRBisectionIterations = 200
	DefaultIRRTolerance           = 1e-7

	// Monthly rate bracket searched by the solver.
	minMonthlyRate = -0.99
	maxMonthlyRate = 10.0

	// Annualized results above this are reported as IRRExtremeRate.
	maxAnnualRate = 1000.0
)

// IRROptions bounds the root finder. Zero fields take the defaults.
type IRROptions struct {
	NewtonIterations    int     `json:"newton_iterations" yaml:"newton_iterations"`
	BisectionIterations int     `json:"bisection_iterations" yaml:"bisection_iterations"`
	Tolerance           float64 `json:"tolerance" yaml:"tolerance"`
}

// DefaultIRROptions returns the default iteration budget and tolerance.
func DefaultIRROptions() IRROptions {
	return IRROptions{
		NewtonIterations:    DefaultIRRNewtonIterations,
		BisectionIterations: DefaultIRRBisectionIterations,
		Tolerance:           DefaultIRRTolerance,
	}
}

// Fingerprint names the solver settings. Zero fields print as their defaults.
func (o IRROptions) Fingerprint() string {
	o = o.normalized()
	return fmt.Sprintf("irr_newton=%d irr_bisection=%d irr_tolerance=%s",
		o.NewtonIterations, o.BisectionIterations, strconv.FormatFloat(o.Tolerance, 'g', -1, 64))
}

// EngineScope fingerprints everything a cached projection or metric depends on
// besides its document.
func EngineScope(cfg projection.Config, opts IRROptions) string {
	return cfg.Fingerprint() + " " + opts.Fingerprint()
}

func (o IRROptions) normalized() IRROptions {
	d := DefaultIRROptions()
	if o.NewtonIterations <= 0 {
		o.NewtonIterations = d.NewtonIterations
	}
	if o.BisectionIterations <= 0 {
		o.BisectionIterations = d.BisectionIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	return o
}

// IRR returns the annualized internal rate of return of monthly cash flows, or
// one of the IRR* sentinels. It never returns NaN.
func IRR(flows []float64) float64 {
	return IRRWithOptions(flows, DefaultIRROptions())
}

// IRRWithOptions is IRR with an explicit iteration budget.
func IRRWithOptions(flows []float64, opts IRROptions) float64 {
	if code, ok := classifyFlows(flows); !ok {
		return code
	}
	opts = opts.normalized()

	monthly, ok := newton(flows, opts)
	if !ok {
		var code float64
		monthly, code = bisect(flows, opts)
		if code != 0 {
			return code
		}
	}
	return annualize(monthly)
}

// classifyFlows rejects flows that cannot have a root.
func classifyFlows(flows []float64) (float64, bool) {
	if len(flows) == 0 {
		return IRRNoData, false
	}

	same := true
	hasPositive, hasNegative := false, false
	for _, cf := range flows {
		if math.IsNaN(cf) || math.IsInf(cf, 0) {
			return IRRExtremeRate, false
		}
		if cf != flows[0] {
			same = false
		}
		if cf > 0 {
			hasPositive = true
		}
		if cf < 0 {
			hasNegative = true
		}
	}

	switch {
	case same:
		return IRRAllSame, false
	case !hasNegative:
		return IRRAllPositive, false
	case !hasPositive:
		return IRRAllNegative, false
	}
	return 0, true
}

// newton runs Newton-Raphson from a 1% monthly guess. It gives up as soon as the
// iterate leaves the bracket or the slope vanishes.
func newton(flows []float64, opts IRROptions) (float64, bool) {
	r := 0.01
	for i := 0; i < opts.NewtonIterations; i++ {
		v := npvMonthly(flows, r)
		d := npvDerivative(flows, r)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, false
		}
		next := r - v/d
		if next <= minMonthlyRate || next > maxMonthlyRate || math.IsNaN(next) {
			return 0, false
		}
		if math.Abs(next-r) < opts.Tolerance {
			return next, true
		}
		r = next
	}
	return 0, false
}

// bracketGrid are the monthly rates scanned for a sign change before bisecting.
var bracketGrid = []float64{
	minMonthlyRate, -0.9, -0.75, -0.5, -0.25, -0.1, -0.05, -0.02, -0.01, 0,
	0.005, 0.01, 0.02, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, maxMonthlyRate,
}

// bisect finds the lowest bracketed root. A non-zero code means failure.
func bisect(flows []float64, opts IRROptions) (float64, float64) {
	lo, hi := 0.0, 0.0
	found := false
	prev := npvMonthly(flows, bracketGrid[0])
	if prev == 0 {
		return bracketGrid[0], 0
	}
	for i := 1; i < len(bracketGrid); i++ {
		cur := npvMonthly(flows, bracketGrid[i])
		if cur == 0 {
			return bracketGrid[i], 0
		}
		if math.Signbit(prev) != math.Signbit(cur) {
			lo, hi = bracketGrid[i-1], bracketGrid[i]
			found = true
			break
		}
		prev = cur
	}
	if !found {
		return 0, IRRExtremeRate
	}

	fLo := npvMonthly(flows, lo)
	for i := 0; i < opts.BisectionIterations; i++ {
		mid := (lo + hi) / 2
		fMid := npvMonthly(flows, mid)
		if fMid == 0 || (hi-lo)/2 < opts.Tolerance {
			return mid, 0
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return 0, IRRNoConvergence
}

func annualize(monthly float64) float64 {
	annual := math.Pow(1+monthly, 12) - 1
	if math.IsNaN(annual) || math.IsInf(annual, 0) || annual > maxAnnualRate {
		return IRRExtremeRate
	}
	return annual
}
