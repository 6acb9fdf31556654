package projection_test

import (
	"testing"

	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dynamicPricing() assumption.Pricing {
	return assumption.Pricing{
		AvgUnitPrice: f(100),
		YearlyAdjustments: &assumption.PricingAdjustments{
			PricingFactors: []assumption.YearlyFactor{{Year: 2, Factor: 1.05}},
			PriceOverrides: []assumption.PriceOverride{{Period: 13, Price: 120}},
		},
	}
}

func TestResolvePrice_Precedence(t *testing.T) {
	p := dynamicPricing()

	tests := []struct {
		month  int
		value  float64
		source projection.Source
	}{
		{11, 100, projection.SourceBase},
		{12, 120, projection.SourceOverride},
		{13, 105, projection.SourceYearly},
		{24, 100, projection.SourceBase},
	}

	for _, tt := range tests {
		got := projection.ResolvePrice(p, tt.month)
		assert.InDelta(t, tt.value, got.Value, 1e-9, "month %d", tt.month)
		assert.Equal(t, tt.source, got.Source, "month %d", tt.month)
	}
}

func TestResolvePrice_MissingPrice(t *testing.T) {
	got := projection.ResolvePrice(assumption.Pricing{}, 5)
	assert.Equal(t, projection.ValuePoint{Value: 0, Source: projection.SourceBase}, got)
}

func TestResolveVolume_Precedence(t *testing.T) {
	seg := assumption.Segment{
		ID: "smb",
		Volume: assumption.Volume{
			Pattern: assumption.LinearGrowth{Base: f(10), MonthlyFlatIncrease: f(1)},
			YearlyAdjustments: &assumption.VolumeAdjustments{
				VolumeFactors:   []assumption.YearlyFactor{{Year: 1, Factor: 2}},
				VolumeOverrides: []assumption.VolumeOverride{{Period: 3, Volume: 99}},
			},
		},
	}
	d := projection.DefaultsFrom(nil)

	assert.Equal(t, projection.ValuePoint{Value: 20, Source: projection.SourceYearly}, projection.ResolveVolume(seg, 0, d))
	assert.Equal(t, projection.ValuePoint{Value: 99, Source: projection.SourceOverride}, projection.ResolveVolume(seg, 2, d))
	assert.Equal(t, projection.ValuePoint{Value: 22, Source: projection.SourcePattern}, projection.ResolveVolume(seg, 12, d))
}

func TestPricingTrajectory(t *testing.T) {
	traj := projection.PricingTrajectory(dynamicPricing(), 15)

	require.Len(t, traj, 15)
	assert.Equal(t, 1, traj[0].Period)
	assert.Equal(t, projection.TrajectoryPoint{Period: 13, Value: 120, Source: projection.SourceOverride}, traj[12])
	assert.Equal(t, projection.SourceYearly, traj[13].Source)
	assert.Empty(t, projection.PricingTrajectory(dynamicPricing(), 0))
}

func TestEngineTrajectory_CappedAtHorizon(t *testing.T) {
	e := projection.NewEngine(projection.DefaultConfig())
	seg := assumption.Segment{ID: "a", Volume: assumption.Volume{Pattern: assumption.GeometricGrowth{Base: f(1)}}}

	assert.Len(t, e.PricingTrajectory(dynamicPricing(), 120), 60)
	assert.Len(t, e.VolumeTrajectory(seg, 120, projection.Defaults{}), 60)
}

func TestTotalVolume(t *testing.T) {
	d := projection.DefaultsFrom(nil)
	segments := []assumption.Segment{
		{ID: "a", Volume: assumption.Volume{Pattern: assumption.LinearGrowth{Base: f(100), MonthlyFlatIncrease: f(10)}}},
		{ID: "b", Volume: assumption.Volume{Pattern: assumption.LinearGrowth{Base: f(5), MonthlyFlatIncrease: f(-10)}}},
	}

	assert.Equal(t, 105.0, projection.TotalVolume(segments, 0, d))
	// segment b is negative from month 1 and clamps to 0
	assert.Equal(t, 110.0, projection.TotalVolume(segments, 1, d))
	assert.Equal(t, 0.0, projection.TotalVolume(nil, 3, d))
}
