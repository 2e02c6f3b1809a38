package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/codingisforpros/wealthtracker/internal/domain"
	"github.com/codingisforpros/wealthtracker/internal/usecase/attribution"
	"github.com/codingisforpros/wealthtracker/internal/usecase/dashboard"
	"github.com/codingisforpros/wealthtracker/internal/usecase/montecarlo"
	"github.com/codingisforpros/wealthtracker/internal/usecase/projection"
)

// handleProjections answers a projection request. When the body carries
// explicit per-category requests those are projected and aggregated;
// with no requests the snapshot is resolved from the store and the
// configured growth assumptions apply
func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	var req projectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	requests := make([]projection.Request, 0, len(req.Requests))
	for _, dto := range req.Requests {
		requests = append(requests, projection.Request{
			Category:            domain.Category(dto.Category),
			CurrentValue:        dto.CurrentValue,
			AnnualGrowthRatePct: dto.AnnualGrowthRatePct,
			AnnualLumpsum:       dto.AnnualLumpsum,
			MonthlyContribution: dto.MonthlyContribution,
			AnnualStepUpPct:     dto.StepUpPct,
			HorizonYears:        req.HorizonYears,
		})
	}

	if len(requests) == 0 {
		snap, err := s.snapshot(r)
		if err != nil {
			s.mapError(w, err)
			return
		}
		requests = projection.BuildRequests(snap, s.cfg.GrowthAssumptions(), req.HorizonYears)
	}

	perCategory := make([][]projection.Point, 0, len(requests))
	for _, pr := range requests {
		points, err := projection.Project(pr)
		if err != nil {
			s.mapError(w, err)
			return
		}
		perCategory = append(perCategory, points)
	}

	merged, err := projection.Aggregate(perCategory, req.HorizonYears)
	if err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, projectionsResponse{Points: toProjectionPoints(merged)})
}

func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.simulator.Simulate(r.Context(), montecarlo.Input{
		StartingValue:     req.StartingValue,
		ExpectedReturnPct: req.ExpectedReturnPct,
		VolatilityPct:     req.VolatilityPct,
		HorizonYears:      req.HorizonYears,
		Simulations:       req.Simulations,
		Seed:              req.Seed,
	})
	if err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toSimulationResponse(result))
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	var req healthScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	snap, err := s.snapshot(r)
	if err != nil {
		s.mapError(w, err)
		return
	}

	score := s.scorer.Score(snap, req.toFacts())
	s.writeJSON(w, http.StatusOK, toHealthScoreResponse(score))
}

func (s *Server) handleAttribution(w http.ResponseWriter, r *http.Request) {
	topK := s.cfg.Engine.AttributionTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "top_k must be a positive integer")
			return
		}
		topK = parsed
	}

	snap, err := s.snapshot(r)
	if err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toAttributionResponse(attribution.Analyze(snap, topK)))
}

func (s *Server) handleTaxEstimate(w http.ResponseWriter, r *http.Request) {
	var req taxEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	valuationDate := time.Now().UTC()
	if req.ValuationDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ValuationDate)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "valuation_date must be YYYY-MM-DD")
			return
		}
		valuationDate = parsed
	}

	snap, err := s.snapshot(r)
	if err != nil {
		s.mapError(w, err)
		return
	}

	est, err := s.taxEstimator.Estimate(snap, valuationDate)
	if err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaxEstimateResponse(est))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toDashboardResponse(dashboard.Summarize(snap)))
}

func (s *Server) handleCreateHolding(w http.ResponseWriter, r *http.Request) {
	var req createHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	costBasis, err := parseMoney("cost_basis", req.CostBasis)
	if err != nil {
		s.mapError(w, err)
		return
	}
	currentValue, err := parseMoney("current_value", req.CurrentValue)
	if err != nil {
		s.mapError(w, err)
		return
	}
	acquired, err := time.Parse("2006-01-02", req.AcquisitionDate)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "acquisition_date must be YYYY-MM-DD")
		return
	}

	now := time.Now().UTC()
	holding := &domain.Holding{
		ID:              uuid.New(),
		Name:            req.Name,
		Category:        domain.Category(req.Category),
		CostBasis:       costBasis,
		CurrentValue:    currentValue,
		AcquisitionDate: acquired,
		Metadata:        req.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.Schedule != nil {
		amount, err := parseMoney("schedule.amount", req.Schedule.Amount)
		if err != nil {
			s.mapError(w, err)
			return
		}
		schedule := &domain.ContributionSchedule{
			Amount:          amount,
			AnnualStepUpPct: req.Schedule.AnnualStepUpPct,
			Active:          req.Schedule.Active,
		}
		if req.Schedule.StartDate != "" {
			start, err := time.Parse("2006-01-02", req.Schedule.StartDate)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, "schedule.start_date must be YYYY-MM-DD")
				return
			}
			schedule.StartDate = start
		}
		holding.Schedule = schedule
	}

	if err := holding.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.holdings.Create(r.Context(), holding); err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toHoldingDTO(holding))
}

func (s *Server) handleListHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.holdings.List(r.Context())
	if err != nil {
		s.mapError(w, err)
		return
	}

	dtos := make([]holdingDTO, 0, len(holdings))
	for _, h := range holdings {
		dtos = append(dtos, toHoldingDTO(h))
	}
	s.writeJSON(w, http.StatusOK, map[string][]holdingDTO{"holdings": dtos})
}

func (s *Server) handleUpdateHoldingValue(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid holding id")
		return
	}

	var req updateHoldingValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	value, err := parseMoney("current_value", req.CurrentValue)
	if err != nil {
		s.mapError(w, err)
		return
	}

	holding, err := s.holdings.UpdateValue(r.Context(), id, value, req.Metadata)
	if err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toHoldingDTO(holding))
}

func (s *Server) handleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid holding id")
		return
	}

	if err := s.holdings.Delete(r.Context(), id); err != nil {
		s.mapError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "holding deleted"})
}
