package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/codingisforpros/wealthtracker/internal/domain"
	"github.com/codingisforpros/wealthtracker/internal/usecase/attribution"
	"github.com/codingisforpros/wealthtracker/internal/usecase/dashboard"
	"github.com/codingisforpros/wealthtracker/internal/usecase/health"
	"github.com/codingisforpros/wealthtracker/internal/usecase/montecarlo"
	"github.com/codingisforpros/wealthtracker/internal/usecase/projection"
	"github.com/codingisforpros/wealthtracker/internal/usecase/tax"
)

type projectionRequestDTO struct {
	Category            string  `json:"category"`
	CurrentValue        float64 `json:"current_value"`
	AnnualGrowthRatePct float64 `json:"annual_growth_rate_pct"`
	AnnualLumpsum       float64 `json:"annual_lumpsum"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	StepUpPct           float64 `json:"step_up_pct"`
}

type projectionsRequest struct {
	HorizonYears int                    `json:"horizon_years"`
	Requests     []projectionRequestDTO `json:"requests"`
}

type projectionPointDTO struct {
	Year              int     `json:"year"`
	TotalValue        float64 `json:"total_value"`
	ContributionValue float64 `json:"contribution_value"`
	LumpsumValue      float64 `json:"lumpsum_value"`
}

type projectionsResponse struct {
	Points []projectionPointDTO `json:"points"`
}

func toProjectionPoints(points []projection.Point) []projectionPointDTO {
	out := make([]projectionPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, projectionPointDTO{
			Year:              p.Year,
			TotalValue:        p.TotalValue,
			ContributionValue: p.ContributionValue,
			LumpsumValue:      p.LumpsumValue,
		})
	}
	return out
}

type simulationRequest struct {
	StartingValue     float64 `json:"starting_value"`
	ExpectedReturnPct float64 `json:"expected_return_pct"`
	VolatilityPct     float64 `json:"volatility_pct"`
	HorizonYears      int     `json:"horizon_years"`
	Simulations       int     `json:"simulations"`
	Seed              *int64  `json:"seed,omitempty"`
}

type simulationResponse struct {
	Years       []int              `json:"years"`
	P10         []float64          `json:"p10"`
	P25         []float64          `json:"p25"`
	P50         []float64          `json:"p50"`
	P75         []float64          `json:"p75"`
	P90         []float64          `json:"p90"`
	FinalValues map[string]float64 `json:"final_values"`
}

func toSimulationResponse(result *montecarlo.Result) simulationResponse {
	return simulationResponse{
		Years:       result.Years,
		P10:         result.P10,
		P25:         result.P25,
		P50:         result.P50,
		P75:         result.P75,
		P90:         result.P90,
		FinalValues: result.FinalValues,
	}
}

type healthScoreRequest struct {
	MonthlyIncome       *float64 `json:"monthly_income,omitempty"`
	MonthlyExpenses     *float64 `json:"monthly_expenses,omitempty"`
	MonthlyDebtPayments *float64 `json:"monthly_debt_payments,omitempty"`
	EmergencyFund       *float64 `json:"emergency_fund,omitempty"`
}

func (r healthScoreRequest) toFacts() domain.FinancialFacts {
	facts := domain.FinancialFacts{}
	if r.MonthlyIncome != nil {
		facts.MonthlyIncome = domain.Money(*r.MonthlyIncome)
	}
	if r.MonthlyExpenses != nil {
		facts.MonthlyExpenses = domain.Money(*r.MonthlyExpenses)
	}
	if r.MonthlyDebtPayments != nil {
		facts.MonthlyDebtPayments = domain.Money(*r.MonthlyDebtPayments)
	}
	if r.EmergencyFund != nil {
		facts.EmergencyFund = domain.Money(*r.EmergencyFund)
	}
	return facts
}

type healthScoreResponse struct {
	OverallScore    int            `json:"overall_score"`
	CategoryScores  map[string]int `json:"category_scores"`
	Recommendations []string       `json:"recommendations"`
	Strengths       []string       `json:"strengths"`
}

func toHealthScoreResponse(score *health.Score) healthScoreResponse {
	return healthScoreResponse{
		OverallScore:    score.Overall,
		CategoryScores:  score.CategoryScores,
		Recommendations: score.Recommendations,
		Strengths:       score.Strengths,
	}
}

type holdingReturnDTO struct {
	Name      string  `json:"name"`
	ReturnPct float64 `json:"return_pct"`
}

type sectorStatDTO struct {
	AllocationPct    float64 `json:"allocation_pct"`
	AverageReturnPct float64 `json:"average_return_pct"`
	HoldingCount     int     `json:"holding_count"`
}

type attributionResponse struct {
	BestPerformers []holdingReturnDTO       `json:"best_performers"`
	SectorAnalysis map[string]sectorStatDTO `json:"sector_analysis"`
}

func toAttributionResponse(result *attribution.Result) attributionResponse {
	performers := make([]holdingReturnDTO, 0, len(result.BestPerformers))
	for _, p := range result.BestPerformers {
		performers = append(performers, holdingReturnDTO{Name: p.Name, ReturnPct: p.ReturnPct})
	}

	sectors := make(map[string]sectorStatDTO, len(result.SectorAnalysis))
	for category, stat := range result.SectorAnalysis {
		sectors[string(category)] = sectorStatDTO{
			AllocationPct:    stat.AllocationPct,
			AverageReturnPct: stat.AverageReturnPct,
			HoldingCount:     stat.HoldingCount,
		}
	}

	return attributionResponse{BestPerformers: performers, SectorAnalysis: sectors}
}

type taxEstimateRequest struct {
	ValuationDate string `json:"valuation_date,omitempty"` // RFC 3339 date, defaults to today
}

type taxOpportunityDTO struct {
	Description     string `json:"description"`
	PotentialSaving string `json:"potential_saving,omitempty"`
}

type taxEstimateResponse struct {
	TotalTaxLiability   string              `json:"total_tax_liability"`
	EffectiveTaxRatePct float64             `json:"effective_tax_rate_pct"`
	LongTermLiability   string              `json:"long_term_liability"`
	ShortTermLiability  string              `json:"short_term_liability"`
	LongTermGains       string              `json:"long_term_gains"`
	ShortTermGains      string              `json:"short_term_gains"`
	Opportunities       []taxOpportunityDTO `json:"opportunities"`
}

func toTaxEstimateResponse(est *tax.Estimate) taxEstimateResponse {
	opportunities := make([]taxOpportunityDTO, 0, len(est.Opportunities))
	for _, opp := range est.Opportunities {
		dto := taxOpportunityDTO{Description: opp.Description}
		if opp.PotentialSaving != nil {
			dto.PotentialSaving = opp.PotentialSaving.StringFixed(2)
		}
		opportunities = append(opportunities, dto)
	}

	return taxEstimateResponse{
		TotalTaxLiability:   est.TotalTaxLiability.StringFixed(2),
		EffectiveTaxRatePct: est.EffectiveTaxRatePct,
		LongTermLiability:   est.LongTermLiability.StringFixed(2),
		ShortTermLiability:  est.ShortTermLiability.StringFixed(2),
		LongTermGains:       est.GainBreakdown.LongTermGains.StringFixed(2),
		ShortTermGains:      est.GainBreakdown.ShortTermGains.StringFixed(2),
		Opportunities:       opportunities,
	}
}

type contributionScheduleDTO struct {
	Amount          string  `json:"amount"`
	StartDate       string  `json:"start_date,omitempty"`
	AnnualStepUpPct float64 `json:"annual_step_up_pct"`
	Active          bool    `json:"active"`
}

type createHoldingRequest struct {
	Name            string                   `json:"name"`
	Category        string                   `json:"category"`
	CostBasis       string                   `json:"cost_basis"`
	CurrentValue    string                   `json:"current_value"`
	AcquisitionDate string                   `json:"acquisition_date"`
	Schedule        *contributionScheduleDTO `json:"schedule,omitempty"`
	Metadata        map[string]any           `json:"metadata,omitempty"`
}

type holdingDTO struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Category        string                   `json:"category"`
	CostBasis       string                   `json:"cost_basis"`
	CurrentValue    string                   `json:"current_value"`
	AcquisitionDate string                   `json:"acquisition_date"`
	Schedule        *contributionScheduleDTO `json:"schedule,omitempty"`
	Metadata        map[string]any           `json:"metadata,omitempty"`
	CreatedAt       string                   `json:"created_at"`
	UpdatedAt       string                   `json:"updated_at"`
}

func toHoldingDTO(h *domain.Holding) holdingDTO {
	dto := holdingDTO{
		ID:              h.ID.String(),
		Name:            h.Name,
		Category:        string(h.Category),
		CostBasis:       h.CostBasis.String(),
		CurrentValue:    h.CurrentValue.String(),
		AcquisitionDate: h.AcquisitionDate.Format(time.RFC3339),
		Metadata:        h.Metadata,
		CreatedAt:       h.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       h.UpdatedAt.Format(time.RFC3339),
	}
	if h.Schedule != nil {
		dto.Schedule = &contributionScheduleDTO{
			Amount:          h.Schedule.Amount.String(),
			AnnualStepUpPct: h.Schedule.AnnualStepUpPct,
			Active:          h.Schedule.Active,
		}
		if !h.Schedule.StartDate.IsZero() {
			dto.Schedule.StartDate = h.Schedule.StartDate.Format(time.RFC3339)
		}
	}
	return dto
}

type updateHoldingValueRequest struct {
	CurrentValue string         `json:"current_value"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type dashboardResponse struct {
	TotalNetWorth  string             `json:"total_net_worth"`
	TotalInvested  string             `json:"total_invested"`
	TotalGainLoss  string             `json:"total_gain_loss"`
	GainLossPct    float64            `json:"gain_loss_pct"`
	Allocation     map[string]string  `json:"allocation"`
	RecentHoldings []holdingDTO       `json:"recent_holdings"`
}

func toDashboardResponse(summary *dashboard.Summary) dashboardResponse {
	allocation := make(map[string]string, len(summary.Allocation))
	for category, value := range summary.Allocation {
		allocation[string(category)] = value.StringFixed(2)
	}

	recent := make([]holdingDTO, 0, len(summary.RecentHoldings))
	for _, h := range summary.RecentHoldings {
		recent = append(recent, toHoldingDTO(h))
	}

	return dashboardResponse{
		TotalNetWorth:  summary.TotalNetWorth.StringFixed(2),
		TotalInvested:  summary.TotalInvested.StringFixed(2),
		TotalGainLoss:  summary.TotalGainLoss.StringFixed(2),
		GainLossPct:    summary.GainLossPct,
		Allocation:     allocation,
		RecentHoldings: recent,
	}
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, "invalid decimal %q", raw)
	}
	return value, nil
}
