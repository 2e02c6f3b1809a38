package montecarlo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

func seed(v int64) *int64 { return &v }

func TestSimulate_PercentileOrderingHolds(t *testing.T) {
	svc := NewService(4)
	result, err := svc.Simulate(context.Background(), Input{
		StartingValue:     500000,
		ExpectedReturnPct: 8,
		VolatilityPct:     15,
		HorizonYears:      20,
		Simulations:       2000,
		Seed:              seed(42),
	})

	require.NoError(t, err)
	require.Len(t, result.Years, 20)

	for y := 0; y < 20; y++ {
		assert.Equal(t, y+1, result.Years[y])
		assert.LessOrEqual(t, result.P10[y], result.P25[y])
		assert.LessOrEqual(t, result.P25[y], result.P50[y])
		assert.LessOrEqual(t, result.P50[y], result.P75[y])
		assert.LessOrEqual(t, result.P75[y], result.P90[y])
	}
}

func TestSimulate_SameSeedIsBitIdentical(t *testing.T) {
	in := Input{
		StartingValue:     100000,
		ExpectedReturnPct: 10,
		VolatilityPct:     18,
		HorizonYears:      15,
		Simulations:       1000,
		Seed:              seed(7),
	}

	first, err := NewService(1).Simulate(context.Background(), in)
	require.NoError(t, err)
	// Different worker count must not change the outcome
	second, err := NewService(8).Simulate(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulate_ZeroVolatilityIsDegenerate(t *testing.T) {
	result, err := NewService(2).Simulate(context.Background(), Input{
		StartingValue:     1000000,
		ExpectedReturnPct: 0,
		VolatilityPct:     0,
		HorizonYears:      5,
		Simulations:       100,
		Seed:              seed(1),
	})

	require.NoError(t, err)
	for y := 0; y < 5; y++ {
		assert.Equal(t, 1000000.0, result.P10[y])
		assert.Equal(t, 1000000.0, result.P25[y])
		assert.Equal(t, 1000000.0, result.P50[y])
		assert.Equal(t, 1000000.0, result.P75[y])
		assert.Equal(t, 1000000.0, result.P90[y])
	}
	assert.Equal(t, 1000000.0, result.FinalValues["p50"])
}

func TestSimulate_FinalValuesMirrorLastYear(t *testing.T) {
	result, err := NewService(2).Simulate(context.Background(), Input{
		StartingValue:     250000,
		ExpectedReturnPct: 7,
		VolatilityPct:     12,
		HorizonYears:      10,
		Simulations:       500,
		Seed:              seed(99),
	})

	require.NoError(t, err)
	last := len(result.Years) - 1
	assert.Equal(t, result.P10[last], result.FinalValues["p10"])
	assert.Equal(t, result.P25[last], result.FinalValues["p25"])
	assert.Equal(t, result.P50[last], result.FinalValues["p50"])
	assert.Equal(t, result.P75[last], result.FinalValues["p75"])
	assert.Equal(t, result.P90[last], result.FinalValues["p90"])
}

func TestSimulate_ValuesNeverGoNegative(t *testing.T) {
	// Extreme volatility exercises the 1+r >= 0 clamp
	result, err := NewService(4).Simulate(context.Background(), Input{
		StartingValue:     10000,
		ExpectedReturnPct: -50,
		VolatilityPct:     200,
		HorizonYears:      10,
		Simulations:       2000,
		Seed:              seed(3),
	})

	require.NoError(t, err)
	for y := range result.Years {
		assert.GreaterOrEqual(t, result.P10[y], 0.0)
	}
}

func TestSimulate_InputValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"too few simulations", Input{StartingValue: 1, HorizonYears: 5, Simulations: 99}, "simulations"},
		{"zero horizon", Input{StartingValue: 1, HorizonYears: 0, Simulations: 500}, "horizon_years"},
		{"excessive horizon", Input{StartingValue: 1, HorizonYears: 51, Simulations: 500}, "horizon_years"},
		{"negative starting value", Input{StartingValue: -1, HorizonYears: 5, Simulations: 500}, "starting_value"},
		{"negative volatility", Input{StartingValue: 1, VolatilityPct: -5, HorizonYears: 5, Simulations: 500}, "volatility_pct"},
	}

	svc := NewService(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Simulate(context.Background(), tt.in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSimulate_CancelledContextReturnsNoResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewService(4).Simulate(ctx, Input{
		StartingValue:     100000,
		ExpectedReturnPct: 8,
		VolatilityPct:     15,
		HorizonYears:      50,
		Simulations:       5000,
		Seed:              seed(11),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result, "cancelled simulations must not return partial results")
}
