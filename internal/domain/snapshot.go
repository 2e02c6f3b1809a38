package domain

import "github.com/shopspring/decimal"

// Snapshot is a point-in-time view of all tracked holdings, as supplied by
// the holdings store. The analytics engine only ever reads a snapshot;
// holding lifecycle operations happen elsewhere
type Snapshot struct {
	Holdings []*Holding
}

// TotalCurrentValue sums the current value of every holding
func (s *Snapshot) TotalCurrentValue() decimal.Decimal {
	total := decimal.Zero
	for _, h := range s.Holdings {
		total = total.Add(h.CurrentValue)
	}
	return total
}

// TotalCostBasis sums the cost basis of every holding
func (s *Snapshot) TotalCostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, h := range s.Holdings {
		total = total.Add(h.CostBasis)
	}
	return total
}

// ValueByCategory groups current value by holding category
func (s *Snapshot) ValueByCategory() map[Category]decimal.Decimal {
	values := make(map[Category]decimal.Decimal)
	for _, h := range s.Holdings {
		values[h.Category] = values[h.Category].Add(h.CurrentValue)
	}
	return values
}
