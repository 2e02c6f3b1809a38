package health

import (
	"math"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

// linearScore maps a metric onto 0-200 between a floor and a ceiling.
// Values at or below lo score 0, values at or above hi score 200
func linearScore(metric, lo, hi float64) int {
	if hi == lo {
		return 0
	}
	return int(math.Round((metric - lo) / (hi - lo) * MaxCategoryScore))
}

// diversificationEvaluator scores how spread out the portfolio is.
// Metric: 1 - largest single-category allocation share. A portfolio with
// no single category above 25% scores the full 200.
// Conservative default: an empty snapshot scores 0
type diversificationEvaluator struct{}

func (e *diversificationEvaluator) Name() string { return "diversification" }

func (e *diversificationEvaluator) Recommendation() string {
	return "Diversification: too much of your net worth sits in a single category; spread new investments across more asset classes"
}

func (e *diversificationEvaluator) Evaluate(snapshot *domain.Snapshot, _ domain.FinancialFacts) int {
	total := snapshot.TotalCurrentValue()
	if total.IsZero() {
		return 0
	}

	maxShare := 0.0
	for _, value := range snapshot.ValueByCategory() {
		share := value.InexactFloat64() / total.InexactFloat64()
		if share > maxShare {
			maxShare = share
		}
	}

	return linearScore(1-maxShare, 0, 0.75)
}

// liquidityEvaluator scores emergency-fund coverage in months of
// expenses. Six months of coverage scores the full 200.
// Conservative default: missing fund or expense facts score 40
// (assume a thin emergency fund rather than a healthy one)
type liquidityEvaluator struct{}

func (e *liquidityEvaluator) Name() string { return "liquidity" }

func (e *liquidityEvaluator) Recommendation() string {
	return "Liquidity: build your emergency fund toward six months of expenses before adding to illiquid holdings"
}

func (e *liquidityEvaluator) Evaluate(_ *domain.Snapshot, facts domain.FinancialFacts) int {
	if facts.EmergencyFund == nil || facts.MonthlyExpenses == nil || facts.MonthlyExpenses.IsZero() {
		return 40
	}

	months := facts.EmergencyFund.InexactFloat64() / facts.MonthlyExpenses.InexactFloat64()
	return linearScore(months, 0, 6)
}

// debtBurdenEvaluator scores the debt-to-income ratio. Zero debt scores
// 200; a ratio at or above 50% of income scores 0.
// Conservative default: missing income or debt facts score 100 (neither
// reward nor punish what we cannot see)
type debtBurdenEvaluator struct{}

func (e *debtBurdenEvaluator) Name() string { return "debt_burden" }

func (e *debtBurdenEvaluator) Recommendation() string {
	return "Debt burden: debt payments are eating a large share of income; prioritise paying down high-interest balances"
}

func (e *debtBurdenEvaluator) Evaluate(_ *domain.Snapshot, facts domain.FinancialFacts) int {
	if facts.MonthlyIncome == nil || facts.MonthlyIncome.IsZero() || facts.MonthlyDebtPayments == nil {
		return 100
	}

	ratio := facts.MonthlyDebtPayments.InexactFloat64() / facts.MonthlyIncome.InexactFloat64()
	return linearScore(0.5-ratio, 0, 0.5)
}

// savingsRateEvaluator scores the share of income saved each month.
// Saving 30% or more of income scores the full 200.
// Conservative default: missing income or expense facts score 60
type savingsRateEvaluator struct{}

func (e *savingsRateEvaluator) Name() string { return "savings_rate" }

func (e *savingsRateEvaluator) Recommendation() string {
	return "Savings rate: little of your income is being saved; automate a monthly transfer into investments"
}

func (e *savingsRateEvaluator) Evaluate(_ *domain.Snapshot, facts domain.FinancialFacts) int {
	if facts.MonthlyIncome == nil || facts.MonthlyIncome.IsZero() || facts.MonthlyExpenses == nil {
		return 60
	}

	income := facts.MonthlyIncome.InexactFloat64()
	rate := (income - facts.MonthlyExpenses.InexactFloat64()) / income
	return linearScore(rate, 0, 0.3)
}

// growthTrajectoryEvaluator scores the portfolio's overall unrealized
// return. Break-even scores 100; a 20% gain scores 200, a 20% loss 0.
// Conservative default: an empty portfolio scores 80
type growthTrajectoryEvaluator struct{}

func (e *growthTrajectoryEvaluator) Name() string { return "growth_trajectory" }

func (e *growthTrajectoryEvaluator) Recommendation() string {
	return "Growth trajectory: the portfolio is underwater relative to what was paid in; review underperforming holdings"
}

func (e *growthTrajectoryEvaluator) Evaluate(snapshot *domain.Snapshot, _ domain.FinancialFacts) int {
	basis := snapshot.TotalCostBasis()
	if basis.IsZero() {
		return 80
	}

	gainPct := snapshot.TotalCurrentValue().Sub(basis).InexactFloat64() / basis.InexactFloat64() * 100
	return linearScore(gainPct, -20, 20)
}
