package projection

import (
	"math"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

const (
	// MinHorizonYears and MaxHorizonYears bound every projection request
	MinHorizonYears = 1
	MaxHorizonYears = 50

	monthsPerYear = 12
)

// Request holds the projection parameters for a single holding category,
// built by summing the schedules of all active holdings in that category
type Request struct {
	Category            domain.Category
	CurrentValue        float64
	AnnualGrowthRatePct float64
	AnnualLumpsum       float64
	MonthlyContribution float64
	AnnualStepUpPct     float64
	HorizonYears        int
}

// Point is one year of a projected trajectory. TotalValue is always the
// sum of ContributionValue and LumpsumValue; ContributionValue is the
// compounded cumulative value of periodic contributions to date and
// LumpsumValue carries the initial corpus plus annual lump-sums
type Point struct {
	Year              int
	TotalValue        float64
	ContributionValue float64
	LumpsumValue      float64
}

// Project computes the year-by-year value trajectory for one category.
// The annual growth rate converts to an equivalent monthly rate; the
// corpus compounds monthly, the annual lump-sum is added at year start,
// and the periodic contribution (inflated by the step-up once per year)
// is deposited at the start of each month
func Project(req Request) ([]Point, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	monthlyRate := monthlyRateFromAnnual(req.AnnualGrowthRatePct)
	yearFactor := math.Pow(1+monthlyRate, monthsPerYear)

	points := make([]Point, 0, req.HorizonYears)
	corpus := req.CurrentValue
	contributions := 0.0

	for year := 1; year <= req.HorizonYears; year++ {
		// Lump-sum lands at year start and compounds for the full year,
		// together with the corpus carried from the previous year
		corpus = (corpus + req.AnnualLumpsum) * yearFactor

		// Contributions carried from previous years keep compounding;
		// this year's deposits are stepped up once per elapsed year
		monthly := req.MonthlyContribution * math.Pow(1+req.AnnualStepUpPct/100, float64(year-1))
		contributions = contributions*yearFactor + depositYearValue(monthly, monthlyRate)

		points = append(points, Point{
			Year:              year,
			TotalValue:        corpus + contributions,
			ContributionValue: contributions,
			LumpsumValue:      corpus,
		})
	}

	return points, nil
}

func (r Request) validate() error {
	if r.HorizonYears < MinHorizonYears || r.HorizonYears > MaxHorizonYears {
		return domain.NewValidationError("horizon_years", "must be between %d and %d, got %d", MinHorizonYears, MaxHorizonYears, r.HorizonYears)
	}
	if r.AnnualGrowthRatePct < -100 {
		return domain.NewValidationError("annual_growth_rate_pct", "cannot be below -100, got %g", r.AnnualGrowthRatePct)
	}
	if r.CurrentValue < 0 {
		return domain.NewValidationError("current_value", "cannot be negative")
	}
	if r.AnnualLumpsum < 0 {
		return domain.NewValidationError("annual_lumpsum", "cannot be negative")
	}
	if r.MonthlyContribution < 0 {
		return domain.NewValidationError("monthly_contribution", "cannot be negative")
	}
	if r.AnnualStepUpPct < 0 {
		return domain.NewValidationError("step_up_pct", "cannot be negative")
	}
	return nil
}

// monthlyRateFromAnnual converts an annual percentage growth rate to the
// equivalent monthly compounding rate. Negative rates down to -100 are
// permitted; values must never be floored at zero on the way down. Below
// -100 the root is undefined, so validate rejects those rates first
func monthlyRateFromAnnual(annualPct float64) float64 {
	if annualPct == 0 {
		return 0
	}
	return math.Pow(1+annualPct/100, 1.0/monthsPerYear) - 1
}

// depositYearValue is the shared monthly-compounding primitive: the end-of-year
// value of twelve equal deposits made at the start of each month, each
// compounding for the months remaining in the year. With a zero rate it
// degrades to simple summation
func depositYearValue(monthlyDeposit, monthlyRate float64) float64 {
	if monthlyDeposit == 0 {
		return 0
	}
	if monthlyRate == 0 {
		return monthlyDeposit * monthsPerYear
	}
	growth := math.Pow(1+monthlyRate, monthsPerYear)
	return monthlyDeposit * (growth - 1) / monthlyRate * (1 + monthlyRate)
}
