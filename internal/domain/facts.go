package domain

import "github.com/shopspring/decimal"

// FinancialFacts carries externally supplied financial figures that the
// health scorer needs beyond the holding snapshot itself. Every field is
// optional; a category whose facts are absent scores with a conservative
// default instead of failing the request
type FinancialFacts struct {
	MonthlyIncome       *decimal.Decimal
	MonthlyExpenses     *decimal.Decimal
	MonthlyDebtPayments *decimal.Decimal
	EmergencyFund       *decimal.Decimal
}

// Money is a convenience constructor for optional fact fields
func Money(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
