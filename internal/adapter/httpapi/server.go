package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtracker/internal/config"
	"github.com/codingisforpros/wealthtracker/internal/domain"
	"github.com/codingisforpros/wealthtracker/internal/usecase/health"
	"github.com/codingisforpros/wealthtracker/internal/usecase/montecarlo"
	"github.com/codingisforpros/wealthtracker/internal/usecase/tax"
)

// Server is the JSON API adapter in front of the analytics engine and
// the holdings store
type Server struct {
	router       *mux.Router
	log          zerolog.Logger
	cfg          *config.Config
	holdings     domain.HoldingRepository
	simulator    *montecarlo.Service
	scorer       *health.Scorer
	taxEstimator *tax.Estimator
}

// NewServer wires the engine services behind the HTTP routes
func NewServer(cfg *config.Config, holdings domain.HoldingRepository, log zerolog.Logger) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		log:          log,
		cfg:          cfg,
		holdings:     holdings,
		simulator:    montecarlo.NewService(cfg.Engine.MonteCarloWorkers),
		scorer:       health.NewScorer(cfg.Health.NeedsImprovementCutoff, cfg.Health.StrongCutoff),
		taxEstimator: tax.NewEstimator(cfg.TaxEstimatorConfig()),
	}
	s.setupRoutes()
	return s
}

// Handler returns the root http.Handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleLiveness).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authMiddleware)
	api.Use(jsonContentTypeMiddleware)

	// Analytics engine
	api.HandleFunc("/projections", s.handleProjections).Methods(http.MethodPost)
	api.HandleFunc("/simulations", s.handleSimulations).Methods(http.MethodPost)
	api.HandleFunc("/health-score", s.handleHealthScore).Methods(http.MethodPost)
	api.HandleFunc("/attribution", s.handleAttribution).Methods(http.MethodGet)
	api.HandleFunc("/tax-estimate", s.handleTaxEstimate).Methods(http.MethodPost)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)

	// Holdings store plumbing
	api.HandleFunc("/holdings", s.handleCreateHolding).Methods(http.MethodPost)
	api.HandleFunc("/holdings", s.handleListHoldings).Methods(http.MethodGet)
	api.HandleFunc("/holdings/{id}/value", s.handleUpdateHoldingValue).Methods(http.MethodPut)
	api.HandleFunc("/holdings/{id}", s.handleDeleteHolding).Methods(http.MethodDelete)
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// snapshot resolves the current holding snapshot from the store
func (s *Server) snapshot(r *http.Request) (*domain.Snapshot, error) {
	holdings, err := s.holdings.List(r.Context())
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{Holdings: holdings}, nil
}
