package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

// recentHoldingLimit caps how many recently added holdings the summary
// carries
const recentHoldingLimit = 5

// Summary is the at-a-glance portfolio overview: totals, overall
// gain/loss, current-value allocation by category and the most recently
// added holdings
type Summary struct {
	TotalNetWorth  decimal.Decimal
	TotalInvested  decimal.Decimal
	TotalGainLoss  decimal.Decimal
	GainLossPct    float64
	Allocation     map[domain.Category]decimal.Decimal
	RecentHoldings []*domain.Holding
}

// Summarize computes the dashboard summary from a snapshot. An empty
// snapshot yields a zero summary, not an error
func Summarize(snapshot *domain.Snapshot) *Summary {
	summary := &Summary{
		TotalNetWorth:  decimal.Zero,
		TotalInvested:  decimal.Zero,
		TotalGainLoss:  decimal.Zero,
		Allocation:     make(map[domain.Category]decimal.Decimal),
		RecentHoldings: []*domain.Holding{},
	}

	if len(snapshot.Holdings) == 0 {
		return summary
	}

	summary.TotalNetWorth = snapshot.TotalCurrentValue()
	summary.TotalInvested = snapshot.TotalCostBasis()
	summary.TotalGainLoss = summary.TotalNetWorth.Sub(summary.TotalInvested)
	if summary.TotalInvested.IsPositive() {
		summary.GainLossPct = summary.TotalGainLoss.
			Div(summary.TotalInvested).
			Mul(decimal.NewFromInt(100)).
			InexactFloat64()
	}
	summary.Allocation = snapshot.ValueByCategory()

	recent := make([]*domain.Holding, len(snapshot.Holdings))
	copy(recent, snapshot.Holdings)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentHoldingLimit {
		recent = recent[:recentHoldingLimit]
	}
	summary.RecentHoldings = recent

	return summary
}
