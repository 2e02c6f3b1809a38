package attribution

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

// DefaultTopK is the number of best performers reported when the caller
// does not override it
const DefaultTopK = 5

// HoldingReturn pairs a holding with its realized return percentage
type HoldingReturn struct {
	Name      string
	ReturnPct float64
}

// SectorStat describes one category's share of the portfolio and its
// average holding return. AverageReturnPct is the unweighted mean across
// the category's holdings (count-weighted, not value-weighted): a small
// position counts as much as a large one, which differs from the
// portfolio-weighted sector return
type SectorStat struct {
	AllocationPct    float64
	AverageReturnPct float64
	HoldingCount     int
}

// Result is the attribution of gains across holdings and categories
type Result struct {
	BestPerformers []HoldingReturn
	SectorAnalysis map[domain.Category]SectorStat
}

// Analyze ranks holdings by return percentage and aggregates allocation
// and average return per category. Holdings with a non-positive cost
// basis have an undefined return: they are excluded from ranking and
// sector averages but still count toward allocation
func Analyze(snapshot *domain.Snapshot, topK int) *Result {
	if topK <= 0 {
		topK = DefaultTopK
	}

	totalValue := snapshot.TotalCurrentValue().InexactFloat64()

	type sectorAccum struct {
		value     float64
		returnSum float64
		returns   int
		holdings  int
	}
	sectors := make(map[domain.Category]*sectorAccum)

	ranked := make([]HoldingReturn, 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		accum, ok := sectors[h.Category]
		if !ok {
			accum = &sectorAccum{}
			sectors[h.Category] = accum
		}
		accum.value += h.CurrentValue.InexactFloat64()
		accum.holdings++

		if h.CostBasis.LessThanOrEqual(decimal.Zero) {
			continue
		}
		returnPct := h.GainLoss().InexactFloat64() / h.CostBasis.InexactFloat64() * 100
		ranked = append(ranked, HoldingReturn{Name: h.Name, ReturnPct: returnPct})
		accum.returnSum += returnPct
		accum.returns++
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ReturnPct > ranked[j].ReturnPct
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	analysis := make(map[domain.Category]SectorStat, len(sectors))
	for category, accum := range sectors {
		stat := SectorStat{HoldingCount: accum.holdings}
		if totalValue > 0 {
			stat.AllocationPct = accum.value / totalValue * 100
		}
		if accum.returns > 0 {
			stat.AverageReturnPct = accum.returnSum / float64(accum.returns)
		}
		analysis[category] = stat
	}

	return &Result{
		BestPerformers: ranked,
		SectorAnalysis: analysis,
	}
}
