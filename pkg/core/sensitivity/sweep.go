package sensitivity

import (
	"fmt"
	"math"
	"sort"

	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/valuation"
)

// Point is the outcome of one substituted value.
type Point struct {
	Value          float64 `json:"value"`
	NPV            float64 `json:"npv"`
	IRR            float64 `json:"irr"`
	TotalRevenue   float64 `json:"totalRevenue"`
	PaybackPeriod  int     `json:"paybackPeriod"`
	BreakEvenMonth int     `json:"breakEvenMonth"`
}

// Impact is one tornado bar: NPV at the driver's min and max.
type Impact struct {
	Driver   Driver  `json:"driver"`
	NPVLow   float64 `json:"npvLow"`
	NPVBase  float64 `json:"npvBase"`
	NPVHigh  float64 `json:"npvHigh"`
	NPVSwing float64 `json:"npvSwing"`
	Summary  string  `json:"summary"`
}

// Runner evaluates documents with a fixed engine and IRR budget.
type Runner struct {
	engine *projection.Engine
	irr    valuation.IRROptions
}

func NewRunner(engine *projection.Engine, irr valuation.IRROptions) *Runner {
	return &Runner{engine: engine, irr: irr}
}

// Evaluate runs the engine on doc with value written at path.
func (r *Runner) Evaluate(doc []byte, path string, value float64) (Point, error) {
	edited, err := Apply(doc, path, value)
	if err != nil {
		return Point{}, err
	}
	parsed, err := assumption.ParseBusiness(edited)
	if err != nil {
		return Point{}, fmt.Errorf("failed to re-read document after setting %s: %w", path, err)
	}
	m := valuation.Evaluate(r.engine, parsed.Doc, r.irr)
	return Point{
		Value:          value,
		NPV:            m.NPV,
		IRR:            m.IRR,
		TotalRevenue:   m.TotalRevenue,
		PaybackPeriod:  m.PaybackPeriod,
		BreakEvenMonth: m.BreakEvenMonth,
	}, nil
}

// Sweep evaluates steps evenly spaced values from the driver's min to max. With
// fewer than 3 steps it evaluates min, mid and max.
func (r *Runner) Sweep(doc []byte, d Driver, steps int) ([]Point, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	values := SweepValues(d, steps)
	out := make([]Point, 0, len(values))
	for _, v := range values {
		p, err := r.Evaluate(doc, d.Path, v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SweepValues lists the values a sweep visits.
func SweepValues(d Driver, steps int) []float64 {
	if steps < 3 {
		return []float64{d.Min(), d.Mid(), d.Max()}
	}
	out := make([]float64, steps)
	width := d.Max() - d.Min()
	for i := range out {
		out[i] = d.Min() + width*float64(i)/float64(steps-1)
	}
	return out
}

// Tornado evaluates every driver at min, mid and max and ranks them by NPV
// swing, largest first.
func (r *Runner) Tornado(doc []byte, drivers []Driver) ([]Impact, error) {
	out := make([]Impact, 0, len(drivers))
	for _, d := range drivers {
		points, err := r.Sweep(doc, d, 0)
		if err != nil {
			return nil, err
		}
		low, base, high := points[0], points[1], points[2]
		swing := math.Abs(high.NPV - low.NPV)

		direction := "increases"
		if high.NPV < low.NPV {
			direction = "decreases"
		}
		out = append(out, Impact{
			Driver:   d,
			NPVLow:   low.NPV,
			NPVBase:  base.NPV,
			NPVHigh:  high.NPV,
			NPVSwing: swing,
			Summary:  fmt.Sprintf("Higher %s %s NPV by %.0f", d.Path, direction, swing),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NPVSwing > out[j].NPVSwing })
	return out, nil
}
