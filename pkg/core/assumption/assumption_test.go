package assumption_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

// =============================================================================
// VOLUME PATTERN VARIANT
// =============================================================================

func TestVolume_RoundTrip(t *testing.T) {
	in := `{"pattern_type":"geom_growth","base_value":100,"monthly_growth_rate":0.05,
	  "yearly_adjustments":{"volume_factors":[{"year":2,"factor":1.1}],"volume_overrides":[{"period":3,"volume":7}]}}`

	var v assumption.Volume
	require.NoError(t, json.Unmarshal([]byte(in), &v))

	geo, ok := v.Pattern.(assumption.GeometricGrowth)
	require.True(t, ok, "got %T", v.Pattern)
	require.NotNil(t, geo.Base)
	assert.Equal(t, 100.0, *geo.Base)
	assert.Equal(t, 0.05, *geo.MonthlyGrowthRate)
	require.NotNil(t, v.YearlyAdjustments)
	assert.Equal(t, 7.0, v.YearlyAdjustments.VolumeOverrides[0].Volume)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestVolume_EachTag(t *testing.T) {
	tests := []struct {
		doc  string
		want assumption.PatternType
	}{
		{`{"pattern_type":"geom_growth","base_value":1}`, assumption.PatternGeometric},
		{`{"pattern_type":"linear_growth","base_value":1,"monthly_flat_increase":2}`, assumption.PatternLinear},
		{`{"pattern_type":"seasonal_growth","base_year_total":1200,"seasonality_index_12":[1,1,1,1,1,1,1,1,1,1,1,1]}`, assumption.PatternSeasonal},
		{`{"pattern_type":"time_series","series":[{"period":1,"value":5}]}`, assumption.PatternTimeSeries},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			var v assumption.Volume
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &v))
			require.NotNil(t, v.Pattern)
			assert.Equal(t, tt.want, v.Pattern.Type())
		})
	}
}

func TestVolume_UnknownOrMissingTag(t *testing.T) {
	var unknown assumption.Volume
	require.NoError(t, json.Unmarshal([]byte(`{"pattern_type":"zigzag","base_value":5}`), &unknown))
	assert.Nil(t, unknown.Pattern)
	assert.Equal(t, assumption.PatternType("zigzag"), unknown.DeclaredType)

	// The declared tag survives a round trip even though it resolves to nothing.
	out, err := json.Marshal(unknown)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pattern_type":"zigzag","base_value":5}`, string(out))

	var missing assumption.Volume
	require.NoError(t, json.Unmarshal([]byte(`{"base_value":5}`), &missing))
	assert.Nil(t, missing.Pattern)

	// The pattern is inferred from growth_settings, keeping the segment's own base.
	gs := &assumption.GrowthSettings{
		DefaultPatternType: assumption.PatternLinear,
		Linear:             &assumption.LinearSettings{Start: f(1), MonthlyFlatIncrease: f(2)},
	}
	d := projection.DefaultsFrom(gs)
	p := projection.PatternFor(missing, d)
	lin, ok := p.(assumption.LinearGrowth)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, 5.0, *lin.Base)
	assert.Nil(t, lin.MonthlyFlatIncrease)
	assert.Equal(t, 11.0, projection.PatternValue(p, 3, d))

	assert.Nil(t, projection.PatternFor(missing, projection.DefaultsFrom(nil)))
}

func TestVolumeParams_BaseFallsBackToSeries(t *testing.T) {
	p := assumption.VolumeParams{Series: []assumption.PeriodValue{{Period: 1, Value: 40}}}
	require.NotNil(t, p.Base())
	assert.Equal(t, 40.0, *p.Base())

	assert.Nil(t, assumption.VolumeParams{}.Base())
	assert.Nil(t, assumption.NewVolumePattern("", p))
}

// =============================================================================
// LOADING
// =============================================================================

func TestParseBusiness_RepairedInput(t *testing.T) {
	p, err := assumption.ParseBusiness([]byte(`{"periods": 12, "business_model": "unit_sales",}`))
	require.NoError(t, err)
	assert.Equal(t, 12, p.Doc.Periods)
	assert.Equal(t, assumption.ModelUnitSales, p.Doc.BusinessModel)
	assert.True(t, json.Valid(p.JSON), "normalized JSON: %s", p.JSON)

	_, err = assumption.ParseBusiness([]byte("  \n"))
	assert.ErrorIs(t, err, assumption.ErrEmptyDocument)
}

func TestLoadBusinessFile_Formats(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	hj := write("plan.hjson", `{
  # twelve months of unit sales
  periods: 12
  business_model: unit_sales
  pricing: {
    avg_unit_price: 25
  }
}`)
	p, err := assumption.LoadBusinessFile(hj)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Doc.Periods)
	assert.Equal(t, assumption.ModelUnitSales, p.Doc.BusinessModel)
	require.NotNil(t, p.Doc.Pricing.AvgUnitPrice)
	assert.Equal(t, 25.0, *p.Doc.Pricing.AvgUnitPrice)
	assert.True(t, json.Valid(p.JSON))
	assert.NotContains(t, string(p.JSON), "#")

	yml := write("plan.yaml", "periods: 6\nbusiness_model: recurring\nsegments:\n  - id: smb\n    volume:\n      pattern_type: linear_growth\n      base_value: 3\n")
	p, err = assumption.LoadBusinessFile(yml)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Doc.Periods)
	require.Len(t, p.Doc.Segments, 1)
	assert.Equal(t, assumption.PatternLinear, p.Doc.Segments[0].Volume.Pattern.Type())

	_, err = assumption.LoadBusinessFile(write("plan.toml", "periods = 6"))
	assert.ErrorIs(t, err, assumption.ErrUnsupportedFormat)

	_, err = assumption.LoadBusinessFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// =============================================================================
// VALIDATION
// =============================================================================

func validDoc() *assumption.BusinessAssumptions {
	var v assumption.Volume
	if err := json.Unmarshal([]byte(`{"pattern_type":"linear_growth","base_value":10}`), &v); err != nil {
		panic(err)
	}
	return &assumption.BusinessAssumptions{
		Periods:       12,
		BusinessModel: assumption.ModelUnitSales,
		Pricing:       assumption.Pricing{AvgUnitPrice: f(10)},
		Segments:      []assumption.Segment{{ID: "core", Volume: v}},
		Opex:          []assumption.OpexItem{{Name: "Rent", Category: assumption.OpexGA, Value: f(100)}},
		Financial:     assumption.Financial{DiscountRate: 0.1},
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *assumption.BusinessAssumptions)
		error   string
		warning string
	}{
		{name: "valid document", mutate: func(a *assumption.BusinessAssumptions) {}},
		{
			name:   "unknown business model",
			mutate: func(a *assumption.BusinessAssumptions) { a.BusinessModel = "barter" },
			error:  `unknown business model "barter"`,
		},
		{
			name:   "zero periods",
			mutate: func(a *assumption.BusinessAssumptions) { a.Periods = 0 },
			error:  "periods must be positive, got 0",
		},
		{
			name:   "negative periods",
			mutate: func(a *assumption.BusinessAssumptions) { a.Periods = -3 },
			error:  "periods must be positive, got -3",
		},
		{
			name:    "periods beyond horizon",
			mutate:  func(a *assumption.BusinessAssumptions) { a.Periods = 120 },
			warning: "periods 120 exceeds the 60 month horizon",
		},
		{
			name:    "negative discount rate",
			mutate:  func(a *assumption.BusinessAssumptions) { a.Financial.DiscountRate = -0.05 },
			warning: "negative discount rate",
		},
		{
			name:   "churn above one",
			mutate: func(a *assumption.BusinessAssumptions) { a.Financial.ChurnRate = 1.5 },
			error:  "churn rate 1.5000 outside [0,1]",
		},
		{
			name:   "negative churn",
			mutate: func(a *assumption.BusinessAssumptions) { a.Financial.ChurnRate = -0.1 },
			error:  "churn rate -0.1000 outside [0,1]",
		},
		{
			name:    "missing price",
			mutate:  func(a *assumption.BusinessAssumptions) { a.Pricing.AvgUnitPrice = nil },
			warning: "pricing.avg_unit_price is missing",
		},
		{
			name:    "segment without pattern or default",
			mutate:  func(a *assumption.BusinessAssumptions) { a.Segments[0].Volume = assumption.Volume{} },
			warning: `segment "core" has no usable pattern_type and no default`,
		},
		{
			name:    "unmapped opex item",
			mutate:  func(a *assumption.BusinessAssumptions) { a.Opex[0] = assumption.OpexItem{Name: "Misc", Value: f(5)} },
			warning: `opex item "Misc" does not map`,
		},
		{
			name: "savings above one hundred percent",
			mutate: func(a *assumption.BusinessAssumptions) {
				a.BusinessModel = assumption.ModelCostSavings
				a.CostSavings = &assumption.CostSavings{BaselineCosts: []assumption.BaselineCost{
					{ID: "ops", CurrentMonthlyCost: 1000, SavingsPotentialPct: 120},
				}}
			},
			error: `baseline cost "ops" savings_potential_pct 120.00 outside [0,100]`,
		},
		{
			name: "negative savings",
			mutate: func(a *assumption.BusinessAssumptions) {
				a.BusinessModel = assumption.ModelCostSavings
				a.CostSavings = &assumption.CostSavings{BaselineCosts: []assumption.BaselineCost{
					{ID: "ops", CurrentMonthlyCost: 1000, SavingsPotentialPct: -1},
				}}
			},
			error: "outside [0,100]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validDoc()
			tt.mutate(a)
			res := assumption.Validate(a, projection.DefaultMaxPeriods)

			if tt.error == "" {
				assert.True(t, res.IsValid, "errors: %v", res.Errors)
				assert.Empty(t, res.Errors)
			} else {
				assert.False(t, res.IsValid)
				require.Len(t, res.Errors, 1, "errors: %v", res.Errors)
				assert.Contains(t, res.Errors[0], tt.error)
			}

			if tt.warning == "" {
				assert.Empty(t, res.Warnings)
			} else {
				require.Len(t, res.Warnings, 1, "warnings: %v", res.Warnings)
				assert.Contains(t, res.Warnings[0], tt.warning)
			}
		})
	}
}

func TestValidate_DefaultPatternSilencesSegmentWarning(t *testing.T) {
	a := validDoc()
	a.Segments[0].Volume = assumption.Volume{}
	a.GrowthSettings = &assumption.GrowthSettings{DefaultPatternType: assumption.PatternGeometric}

	res := assumption.Validate(a, projection.DefaultMaxPeriods)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Warnings)
}

func TestValidate_NilAndUncappedHorizon(t *testing.T) {
	res := assumption.Validate(nil, projection.DefaultMaxPeriods)
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"business assumptions are missing"}, res.Errors)

	// A non-positive horizon disables the cap warning.
	a := validDoc()
	a.Periods = 500
	assert.Empty(t, assumption.Validate(a, 0).Warnings)
}

func TestValidationResult_JSON(t *testing.T) {
	res := assumption.NewValidationResult()
	res.AddWarning("segment %q is small", "smb")

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isValid":true,"errors":[],"warnings":["segment \"smb\" is small"]}`, string(out))
}
