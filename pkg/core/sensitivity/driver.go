// Package sensitivity re-runs the engine with one assumption replaced at a time.
// Drivers address assumptions by JSON path (gjson syntax, e.g.
// "segments.0.volume.base_value"), so any numeric field can be explored without
// the engine knowing about it.
package sensitivity

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrInvalidPath is returned for an empty or malformed driver path.
	ErrInvalidPath = errors.New("invalid driver path")
	// ErrNotNumeric is returned when the addressed value exists but is not a number.
	ErrNotNumeric = errors.New("driver path does not address a number")
)

// Driver is one what-if variable: a JSON path and the values it can take.
type Driver struct {
	Path      string     `json:"path"`
	Range     [3]float64 `json:"range"` // min, mid, max
	Rationale string     `json:"rationale,omitempty"`
}

func (d Driver) Min() float64 { return d.Range[0] }
func (d Driver) Mid() float64 { return d.Range[1] }
func (d Driver) Max() float64 { return d.Range[2] }

// Validate checks that the driver has a usable path and an ordered range.
func (d Driver) Validate() error {
	if d.Path == "" {
		return ErrInvalidPath
	}
	if d.Range[0] > d.Range[1] || d.Range[1] > d.Range[2] {
		return fmt.Errorf("driver %s: range must be ordered min <= mid <= max", d.Path)
	}
	return nil
}

// Apply returns a copy of doc with an absolute value written at path. Missing
// intermediate objects are created.
func Apply(doc []byte, path string, value float64) ([]byte, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	out, err := sjson.SetBytes(doc, path, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, path, err)
	}
	return out, nil
}

// Current reads the number at path. ok is false when the path is absent.
func Current(doc []byte, path string) (float64, bool, error) {
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return 0, false, nil
	}
	if res.Type != gjson.Number {
		return 0, true, fmt.Errorf("%w: %s is %s", ErrNotNumeric, path, res.Type)
	}
	return res.Float(), true, nil
}

// Around builds a driver spanning ±spread (a fraction) around the value at path.
func Around(doc []byte, path string, spread float64, rationale string) (Driver, error) {
	v, ok, err := Current(doc, path)
	if err != nil {
		return Driver{}, err
	}
	if !ok {
		return Driver{}, fmt.Errorf("%w: %s not found", ErrInvalidPath, path)
	}
	lo, hi := v*(1-spread), v*(1+spread)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Driver{Path: path, Range: [3]float64{lo, v, hi}, Rationale: rationale}, nil
}

// DefaultDrivers proposes drivers for the numeric inputs that usually move the
// result most: price, the first value of each segment, fixed opex, savings
// potential and the discount rate. Paths that do not exist are skipped.
func DefaultDrivers(doc []byte, spread float64) []Driver {
	candidates := []struct{ path, rationale string }{
		{"pricing.avg_unit_price", "Average unit price"},
		{"financial.discount_rate", "Cost of capital"},
		{"financial.churn_rate", "Monthly customer churn"},
		{"financial.initial_investment", "Upfront investment"},
	}

	gjson.GetBytes(doc, "segments").ForEach(func(key, seg gjson.Result) bool {
		label := seg.Get("label").String()
		if label == "" {
			label = seg.Get("id").String()
		}
		for _, field := range []string{"base_value", "monthly_growth_rate", "monthly_flat_increase", "base_year_total"} {
			candidates = append(candidates, struct{ path, rationale string }{
				fmt.Sprintf("segments.%d.volume.%s", key.Int(), field),
				fmt.Sprintf("%s volume %s", label, field),
			})
		}
		return true
	})
	gjson.GetBytes(doc, "opex").ForEach(func(key, item gjson.Result) bool {
		candidates = append(candidates, struct{ path, rationale string }{
			fmt.Sprintf("opex.%d.cost_structure.fixed_component", key.Int()),
			item.Get("name").String() + " fixed cost",
		})
		return true
	})
	gjson.GetBytes(doc, "cost_savings.baseline_costs").ForEach(func(key, item gjson.Result) bool {
		candidates = append(candidates, struct{ path, rationale string }{
			fmt.Sprintf("cost_savings.baseline_costs.%d.savings_potential_pct", key.Int()),
			item.Get("label").String() + " savings potential",
		})
		return true
	})

	var out []Driver
	for _, c := range candidates {
		v, ok, err := Current(doc, c.path)
		if !ok || err != nil || v == 0 {
			continue
		}
		d, err := Around(doc, c.path, spread, c.rationale)
		if err == nil {
			out = append(out, d)
		}
	}
	return out
}
