package tax

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

// Config supplies the tax model parameters: the holding-period threshold
// per category that separates long-term from short-term gains, the rate
// per classification, and the exemption applied to the long-term
// aggregate before taxing. This is a configurable approximation, not a
// compliance engine
type Config struct {
	HoldingPeriodDays map[domain.Category]int
	LongTermRatePct   decimal.Decimal
	ShortTermRatePct  decimal.Decimal
	LongTermExemption decimal.Decimal
}

// GainBreakdown splits the current period's aggregate gain by
// classification. Figures are signed; losses stay negative
type GainBreakdown struct {
	LongTermGains  decimal.Decimal
	ShortTermGains decimal.Decimal
}

// Opportunity is one heuristic tax-saving suggestion. PotentialSaving is
// nil when the saving cannot be quantified
type Opportunity struct {
	Description     string
	PotentialSaving *decimal.Decimal
}

// Estimate is the computed tax position for a snapshot
type Estimate struct {
	TotalTaxLiability   decimal.Decimal
	EffectiveTaxRatePct float64
	LongTermLiability   decimal.Decimal
	ShortTermLiability  decimal.Decimal
	GainBreakdown       GainBreakdown
	Opportunities       []Opportunity
}

// effectiveRateEpsilon guards the effective-rate division when the net
// gain is zero or negative
var effectiveRateEpsilon = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Estimator classifies each holding's gain by holding-period rule and
// applies the configured rate tables
type Estimator struct {
	cfg Config
}

// NewEstimator creates an estimator for the given tax configuration
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate classifies every holding's unrealized gain as long-term or
// short-term at the valuation date, aggregates by classification, applies
// the long-term exemption before taxing, and proposes harvesting-style
// savings. Net losses produce zero tax, never negative
func (e *Estimator) Estimate(snapshot *domain.Snapshot, valuationDate time.Time) (*Estimate, error) {
	if valuationDate.IsZero() {
		return nil, domain.NewValidationError("valuation_date", "is required")
	}

	longTermGain := decimal.Zero
	shortTermGain := decimal.Zero
	opportunities := []Opportunity{}

	for _, h := range snapshot.Holdings {
		if h.CostBasis.LessThanOrEqual(decimal.Zero) {
			return nil, domain.NewValidationError("cost_basis", "holding %q has non-positive cost basis, gain is undefined", h.Name)
		}

		thresholdDays, ok := e.cfg.HoldingPeriodDays[h.Category]
		if !ok {
			return nil, domain.NewConfigurationError("tax", "no holding-period threshold configured for category %s", h.Category)
		}

		gain := h.GainLoss()
		longTerm := heldDays(h.AcquisitionDate, valuationDate) >= thresholdDays

		rate := e.cfg.ShortTermRatePct
		if longTerm {
			longTermGain = longTermGain.Add(gain)
			rate = e.cfg.LongTermRatePct
		} else {
			shortTermGain = shortTermGain.Add(gain)
		}

		if gain.IsNegative() {
			saving := gain.Abs().Mul(rate).Div(hundred)
			opportunities = append(opportunities, Opportunity{
				Description:     "Harvest the loss on " + h.Name + " to offset taxable gains",
				PotentialSaving: &saving,
			})
		}
	}

	longTermTax := decimal.Zero
	if taxable := longTermGain.Sub(e.cfg.LongTermExemption); taxable.IsPositive() {
		longTermTax = taxable.Mul(e.cfg.LongTermRatePct).Div(hundred)
	}

	shortTermTax := decimal.Zero
	if shortTermGain.IsPositive() {
		shortTermTax = shortTermGain.Mul(e.cfg.ShortTermRatePct).Div(hundred)
	}

	if longTermGain.IsPositive() && longTermGain.LessThan(e.cfg.LongTermExemption) {
		headroom := e.cfg.LongTermExemption.Sub(longTermGain)
		saving := headroom.Mul(e.cfg.LongTermRatePct).Div(hundred)
		opportunities = append(opportunities, Opportunity{
			Description:     "Long-term gains are " + headroom.StringFixed(2) + " below the exemption; there is room to realize gains tax-free",
			PotentialSaving: &saving,
		})
	}

	totalTax := longTermTax.Add(shortTermTax)
	totalGain := longTermGain.Add(shortTermGain)

	denominator := totalGain
	if denominator.LessThan(effectiveRateEpsilon) {
		denominator = effectiveRateEpsilon
	}
	effectiveRate := totalTax.Div(denominator).Mul(hundred).InexactFloat64()

	return &Estimate{
		TotalTaxLiability:   totalTax,
		EffectiveTaxRatePct: effectiveRate,
		LongTermLiability:   longTermTax,
		ShortTermLiability:  shortTermTax,
		GainBreakdown: GainBreakdown{
			LongTermGains:  longTermGain,
			ShortTermGains: shortTermGain,
		},
		Opportunities: opportunities,
	}, nil
}

func heldDays(acquired, valuation time.Time) int {
	return int(valuation.Sub(acquired).Hours() / 24)
}
