package projection

import (
	"github.com/codingisforpros/wealthtracker/internal/domain"
)

// Aggregate merges per-category trajectories into total net worth per
// year by summing same-year values. Every input sequence must cover the
// same horizon; a mismatch is a configuration problem on the caller side
func Aggregate(perCategory [][]Point, horizonYears int) ([]Point, error) {
	if horizonYears < MinHorizonYears || horizonYears > MaxHorizonYears {
		return nil, domain.NewValidationError("horizon_years", "must be between %d and %d, got %d", MinHorizonYears, MaxHorizonYears, horizonYears)
	}

	merged := make([]Point, horizonYears)
	for i := range merged {
		merged[i].Year = i + 1
	}

	for _, series := range perCategory {
		if len(series) != horizonYears {
			return nil, domain.NewConfigurationError("projection", "category series has %d points, expected horizon %d", len(series), horizonYears)
		}
		for i, p := range series {
			if p.Year != i+1 {
				return nil, domain.NewConfigurationError("projection", "category series year %d at index %d is out of order", p.Year, i)
			}
			merged[i].TotalValue += p.TotalValue
			merged[i].ContributionValue += p.ContributionValue
			merged[i].LumpsumValue += p.LumpsumValue
		}
	}

	return merged, nil
}

// GrowthAssumption carries the per-category rate assumptions used when
// building projection requests straight from a snapshot
type GrowthAssumption struct {
	AnnualGrowthRatePct float64
	AnnualLumpsum       float64
}

// BuildRequests derives one projection request per category present in the
// snapshot: current values and active monthly contributions are summed,
// step-up percentages are averaged across the contributing holdings
func BuildRequests(snapshot *domain.Snapshot, assumptions map[domain.Category]GrowthAssumption, horizonYears int) []Request {
	byCategory := make(map[domain.Category]*Request)
	stepUpCount := make(map[domain.Category]int)

	for _, h := range snapshot.Holdings {
		req, ok := byCategory[h.Category]
		if !ok {
			req = &Request{Category: h.Category, HorizonYears: horizonYears}
			if a, found := assumptions[h.Category]; found {
				req.AnnualGrowthRatePct = a.AnnualGrowthRatePct
				req.AnnualLumpsum = a.AnnualLumpsum
			}
			byCategory[h.Category] = req
		}

		req.CurrentValue += h.CurrentValue.InexactFloat64()
		if h.ContributesPeriodically() {
			req.MonthlyContribution += h.Schedule.Amount.InexactFloat64()
			req.AnnualStepUpPct += h.Schedule.AnnualStepUpPct
			stepUpCount[h.Category]++
		}
	}

	requests := make([]Request, 0, len(byCategory))
	for _, category := range domain.Categories() {
		req, ok := byCategory[category]
		if !ok {
			continue
		}
		if n := stepUpCount[category]; n > 0 {
			req.AnnualStepUpPct /= float64(n)
		}
		requests = append(requests, *req)
	}
	return requests
}
