package health

import (
	"github.com/codingisforpros/wealthtracker/internal/domain"
)

const (
	// MaxCategoryScore bounds each rubric category; the overall score is
	// the exact sum across the five categories, so it is bounded by 1000
	MaxCategoryScore = 200

	// DefaultNeedsImprovementCutoff and DefaultStrongCutoff are the rubric
	// thresholds used when no override is configured
	DefaultNeedsImprovementCutoff = 100
	DefaultStrongCutoff           = 160
)

// Score is the composite financial-health result: an overall 0-1000
// score, the exhaustive per-category breakdown that sums to it, and the
// human-readable explanations derived from the rubric cutoffs
type Score struct {
	Overall         int
	CategoryScores  map[string]int
	Recommendations []string
	Strengths       []string
}

// Evaluator scores one rubric category on 0-200 from the snapshot and
// financial facts. Recommendation is the templated advice attached when
// the category lands below the needs-improvement cutoff
type Evaluator interface {
	Name() string
	Evaluate(snapshot *domain.Snapshot, facts domain.FinancialFacts) int
	Recommendation() string
}

// Scorer evaluates the fixed, exhaustive set of rubric categories in a
// fixed order
type Scorer struct {
	evaluators             []Evaluator
	needsImprovementCutoff int
	strongCutoff           int
}

// NewScorer creates a scorer with the standard five evaluators
// (diversification, liquidity, debt burden, savings rate, growth
// trajectory) and the given rubric cutoffs
func NewScorer(needsImprovementCutoff, strongCutoff int) *Scorer {
	if needsImprovementCutoff <= 0 {
		needsImprovementCutoff = DefaultNeedsImprovementCutoff
	}
	if strongCutoff <= 0 {
		strongCutoff = DefaultStrongCutoff
	}
	return &Scorer{
		evaluators: []Evaluator{
			&diversificationEvaluator{},
			&liquidityEvaluator{},
			&debtBurdenEvaluator{},
			&savingsRateEvaluator{},
			&growthTrajectoryEvaluator{},
		},
		needsImprovementCutoff: needsImprovementCutoff,
		strongCutoff:           strongCutoff,
	}
}

// Score runs every evaluator and assembles the composite result.
// Categories whose facts are absent fall back to their documented
// conservative defaults instead of failing the whole request
func (s *Scorer) Score(snapshot *domain.Snapshot, facts domain.FinancialFacts) *Score {
	result := &Score{
		CategoryScores:  make(map[string]int, len(s.evaluators)),
		Recommendations: []string{},
		Strengths:       []string{},
	}

	for _, evaluator := range s.evaluators {
		score := clampScore(evaluator.Evaluate(snapshot, facts))
		result.CategoryScores[evaluator.Name()] = score
		result.Overall += score

		if score < s.needsImprovementCutoff {
			result.Recommendations = append(result.Recommendations, evaluator.Recommendation())
		} else if score >= s.strongCutoff {
			result.Strengths = append(result.Strengths, evaluator.Name())
		}
	}

	return result
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxCategoryScore {
		return MaxCategoryScore
	}
	return score
}
