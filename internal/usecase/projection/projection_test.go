package projection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

func TestProject_TenPercentOneYear(t *testing.T) {
	// 100000 at 10%/yr with no contributions grows to ~110000 after one
	// year of monthly compounding at the equivalent monthly rate
	points, err := Project(Request{
		Category:            domain.CategoryEquities,
		CurrentValue:        100000,
		AnnualGrowthRatePct: 10,
		HorizonYears:        1,
	})

	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1, points[0].Year)
	assert.InDelta(t, 110000, points[0].TotalValue, 1)
	assert.Zero(t, points[0].ContributionValue)
}

func TestProject_ZeroGrowthZeroContributionsIsConstant(t *testing.T) {
	points, err := Project(Request{
		CurrentValue: 50000,
		HorizonYears: 10,
	})

	require.NoError(t, err)
	require.Len(t, points, 10)
	for i, p := range points {
		assert.Equal(t, i+1, p.Year)
		assert.Equal(t, 50000.0, p.TotalValue)
	}
}

func TestProject_ZeroGrowthContributionsSumSimply(t *testing.T) {
	points, err := Project(Request{
		CurrentValue:        1000,
		MonthlyContribution: 100,
		HorizonYears:        3,
	})

	require.NoError(t, err)
	// No compounding factor: each year adds exactly 12 deposits
	assert.InDelta(t, 1000+1200, points[0].TotalValue, 1e-9)
	assert.InDelta(t, 1000+2400, points[1].TotalValue, 1e-9)
	assert.InDelta(t, 1000+3600, points[2].TotalValue, 1e-9)
	assert.InDelta(t, 3600, points[2].ContributionValue, 1e-9)
}

func TestProject_ReturnsExactlyHorizonPointsInOrder(t *testing.T) {
	for _, horizon := range []int{1, 7, 50} {
		points, err := Project(Request{CurrentValue: 1, HorizonYears: horizon})
		require.NoError(t, err)
		require.Len(t, points, horizon)
		for i, p := range points {
			assert.Equal(t, i+1, p.Year)
		}
	}
}

func TestProject_NegativeGrowthDeclinesWithoutFlooring(t *testing.T) {
	points, err := Project(Request{
		CurrentValue:        10000,
		AnnualGrowthRatePct: -20,
		HorizonYears:        5,
	})

	require.NoError(t, err)
	previous := 10000.0
	for _, p := range points {
		assert.Less(t, p.TotalValue, previous, "value must decline year over year")
		assert.Greater(t, p.TotalValue, 0.0, "non-negative inputs keep values above zero")
		previous = p.TotalValue
	}
	assert.InDelta(t, 10000*0.8*0.8*0.8*0.8*0.8, points[4].TotalValue, 1)
}

func TestProject_StepUpInflatesContributions(t *testing.T) {
	flat, err := Project(Request{MonthlyContribution: 100, HorizonYears: 5})
	require.NoError(t, err)

	stepped, err := Project(Request{MonthlyContribution: 100, AnnualStepUpPct: 10, HorizonYears: 5})
	require.NoError(t, err)

	// Year 1 deposits are identical; the step-up only kicks in from year 2
	assert.InDelta(t, flat[0].ContributionValue, stepped[0].ContributionValue, 1e-9)
	assert.Greater(t, stepped[4].ContributionValue, flat[4].ContributionValue)

	// Zero growth: year-2 deposits are 100*1.1 per month
	assert.InDelta(t, 1200+1320, stepped[1].ContributionValue, 1e-6)
}

func TestProject_LumpsumCompoundsFullYear(t *testing.T) {
	points, err := Project(Request{
		AnnualGrowthRatePct: 10,
		AnnualLumpsum:       1000,
		HorizonYears:        2,
	})

	require.NoError(t, err)
	assert.InDelta(t, 1100, points[0].TotalValue, 0.01)
	assert.InDelta(t, (1100+1000)*1.1, points[1].TotalValue, 0.05)
}

func TestProject_GrowthBelowTotalLossRejected(t *testing.T) {
	// Below -100% the monthly-rate root is undefined and the trajectory
	// would be all NaN; the request must fail validation instead
	_, err := Project(Request{
		CurrentValue:        10000,
		AnnualGrowthRatePct: -150,
		HorizonYears:        3,
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "annual_growth_rate_pct", verr.Field)

	// Exactly -100% is the boundary: a full loss collapses the trajectory
	// to zero rather than erroring
	points, err := Project(Request{
		CurrentValue:        10000,
		AnnualGrowthRatePct: -100,
		HorizonYears:        2,
	})
	require.NoError(t, err)
	assert.Zero(t, points[0].TotalValue)
	assert.Zero(t, points[1].TotalValue)
}

func TestProject_InvalidHorizonRejected(t *testing.T) {
	for _, horizon := range []int{0, -3, 51} {
		_, err := Project(Request{CurrentValue: 1, HorizonYears: horizon})
		require.Error(t, err)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "horizon_years", verr.Field)
	}
}

func TestProject_NegativeInputsRejected(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"negative current value", Request{CurrentValue: -1, HorizonYears: 1}, "current_value"},
		{"negative lumpsum", Request{AnnualLumpsum: -1, HorizonYears: 1}, "annual_lumpsum"},
		{"negative contribution", Request{MonthlyContribution: -1, HorizonYears: 1}, "monthly_contribution"},
		{"negative step-up", Request{AnnualStepUpPct: -1, HorizonYears: 1}, "step_up_pct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(tt.req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAggregate_SumsAcrossCategories(t *testing.T) {
	equities, err := Project(Request{CurrentValue: 1000, AnnualGrowthRatePct: 10, HorizonYears: 3})
	require.NoError(t, err)
	bonds, err := Project(Request{CurrentValue: 500, HorizonYears: 3})
	require.NoError(t, err)

	merged, err := Aggregate([][]Point{equities, bonds}, 3)
	require.NoError(t, err)
	require.Len(t, merged, 3)

	for i := range merged {
		assert.Equal(t, i+1, merged[i].Year)
		assert.InDelta(t, equities[i].TotalValue+bonds[i].TotalValue, merged[i].TotalValue, 1e-9)
	}
}

func TestAggregate_MismatchedHorizonsFail(t *testing.T) {
	short, err := Project(Request{CurrentValue: 1000, HorizonYears: 2})
	require.NoError(t, err)
	long, err := Project(Request{CurrentValue: 1000, HorizonYears: 3})
	require.NoError(t, err)

	_, err = Aggregate([][]Point{short, long}, 3)
	var cerr *domain.ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

func TestBuildRequests_SumsSchedulesPerCategory(t *testing.T) {
	snap := &domain.Snapshot{Holdings: []*domain.Holding{
		holdingWithSchedule(domain.CategoryEquities, 1000, 100, 10, true),
		holdingWithSchedule(domain.CategoryEquities, 2000, 200, 20, true),
		holdingWithSchedule(domain.CategoryEquities, 500, 999, 99, false), // inactive, no contributions
		holdingWithSchedule(domain.CategoryCryptoAssets, 300, 0, 0, false),
	}}

	assumptions := map[domain.Category]GrowthAssumption{
		domain.CategoryEquities: {AnnualGrowthRatePct: 12},
	}

	requests := BuildRequests(snap, assumptions, 10)
	require.Len(t, requests, 2)

	eq := requests[0]
	assert.Equal(t, domain.CategoryEquities, eq.Category)
	assert.InDelta(t, 3500, eq.CurrentValue, 1e-9)
	assert.InDelta(t, 300, eq.MonthlyContribution, 1e-9)
	assert.InDelta(t, 15, eq.AnnualStepUpPct, 1e-9, "step-up is averaged over contributing holdings")
	assert.Equal(t, 12.0, eq.AnnualGrowthRatePct)

	crypto := requests[1]
	assert.Equal(t, domain.CategoryCryptoAssets, crypto.Category)
	assert.Zero(t, crypto.MonthlyContribution)
}

func holdingWithSchedule(category domain.Category, value float64, monthly float64, stepUp float64, active bool) *domain.Holding {
	h := &domain.Holding{
		ID:           uuid.New(),
		Name:         string(category) + " holding",
		Category:     category,
		CostBasis:    decimal.NewFromFloat(value),
		CurrentValue: decimal.NewFromFloat(value),
	}
	if monthly > 0 || active {
		h.Schedule = &domain.ContributionSchedule{
			Amount:          decimal.NewFromFloat(monthly),
			AnnualStepUpPct: stepUp,
			Active:          active,
		}
	}
	return h
}
