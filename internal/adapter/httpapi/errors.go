package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Int("status", status).Msg("failed to encode response body")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// mapError converts domain errors to HTTP status codes. Validation
// problems are the caller's to fix (400), configuration mismatches are
// 422, unknown holdings are 404 and anything else is a 500
func (s *Server) mapError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, http.StatusBadRequest, verr.Error())
		return
	}

	var cerr *domain.ConfigurationError
	if errors.As(err, &cerr) {
		s.writeError(w, http.StatusUnprocessableEntity, cerr.Error())
		return
	}

	var nferr *domain.ErrHoldingNotFound
	if errors.As(err, &nferr) {
		s.writeError(w, http.StatusNotFound, nferr.Error())
		return
	}

	s.log.Error().Err(err).Msg("request failed")
	s.writeError(w, http.StatusInternalServerError, err.Error())
}
