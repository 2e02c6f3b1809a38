package httpapi

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtracker/internal/adapter/repository/memory"
	"github.com/codingisforpros/wealthtracker/internal/config"
)

const testToken = "test-token"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.Token = testToken

	server := NewServer(cfg, memory.NewHoldingRepository(), zerolog.Nop())
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func createHolding(t *testing.T, ts *httptest.Server, name, category string, basis, value string) string {
	t.Helper()

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/holdings", map[string]any{
		"name":             name,
		"category":         category,
		"cost_basis":       basis,
		"current_value":    value,
		"acquisition_date": "2023-01-15",
	}, testToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	return body["id"].(string)
}

func TestAPI_RejectsMissingAndInvalidTokens(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doRequest(t, ts, http.MethodGet, "/api/v1/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodGet, "/api/v1/dashboard", nil, "wrong-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LivenessNeedsNoToken(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_HoldingLifecycleAndDashboard(t *testing.T) {
	ts := newTestServer(t)

	id := createHolding(t, ts, "Index Fund", "equities", "10000", "12000")
	createHolding(t, ts, "Apartment", "real_estate", "200000", "230000")

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/dashboard", nil, testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "242000.00", body["total_net_worth"])
	assert.Equal(t, "210000.00", body["total_invested"])
	assert.Equal(t, "32000.00", body["total_gain_loss"])

	// Refresh the fund's valuation
	resp, body = doRequest(t, ts, http.MethodPut, "/api/v1/holdings/"+id+"/value", map[string]any{
		"current_value": "13000",
	}, testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "13000", body["current_value"])

	// Delete and verify it is gone
	resp, _ = doRequest(t, ts, http.MethodDelete, "/api/v1/holdings/"+id, nil, testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodDelete, "/api/v1/holdings/"+id, nil, testToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ProjectionsWithExplicitRequests(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/projections", map[string]any{
		"horizon_years": 3,
		"requests": []map[string]any{
			{"category": "equities", "current_value": 100000, "annual_growth_rate_pct": 10},
			{"category": "fixed_income", "current_value": 50000, "annual_growth_rate_pct": 0},
		},
	}, testToken)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	points := body["points"].([]any)
	require.Len(t, points, 3)

	first := points[0].(map[string]any)
	assert.Equal(t, 1.0, first["year"])
	assert.InDelta(t, 160000, first["total_value"].(float64), 10)
}

func TestAPI_ProjectionValidationErrorIs400(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/projections", map[string]any{
		"horizon_years": 0,
		"requests": []map[string]any{
			{"category": "equities", "current_value": 1000},
		},
	}, testToken)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "horizon_years")
}

func TestAPI_SimulationIsReproducibleWithSeed(t *testing.T) {
	ts := newTestServer(t)

	request := map[string]any{
		"starting_value":      100000,
		"expected_return_pct": 8,
		"volatility_pct":      15,
		"horizon_years":       10,
		"simulations":         500,
		"seed":                42,
	}

	resp, first := doRequest(t, ts, http.MethodPost, "/api/v1/simulations", request, testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, second := doRequest(t, ts, http.MethodPost, "/api/v1/simulations", request, testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, first, second)

	p10 := first["p10"].([]any)
	p90 := first["p90"].([]any)
	require.Len(t, p10, 10)
	for i := range p10 {
		assert.LessOrEqual(t, p10[i].(float64), p90[i].(float64))
	}
}

func TestAPI_HealthScoreUsesStoreSnapshot(t *testing.T) {
	ts := newTestServer(t)
	createHolding(t, ts, "Index Fund", "equities", "10000", "12000")

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/health-score", map[string]any{
		"monthly_income":   8000,
		"monthly_expenses": 4500,
		"emergency_fund":   30000,
	}, testToken)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	overall := body["overall_score"].(float64)
	assert.GreaterOrEqual(t, overall, 0.0)
	assert.LessOrEqual(t, overall, 1000.0)
	assert.Len(t, body["category_scores"].(map[string]any), 5)
}

func TestAPI_AttributionRanksHoldings(t *testing.T) {
	ts := newTestServer(t)
	createHolding(t, ts, "Winner", "equities", "100", "150")
	createHolding(t, ts, "Loser", "equities", "200", "150")

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/attribution", nil, testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	performers := body["best_performers"].([]any)
	require.Len(t, performers, 2)
	assert.Equal(t, "Winner", performers[0].(map[string]any)["name"])
}

func TestWriteJSON_EncodeFailureIsLogged(t *testing.T) {
	var logged bytes.Buffer
	server := NewServer(config.Default(), memory.NewHoldingRepository(), zerolog.New(&logged))

	rec := httptest.NewRecorder()
	server.writeJSON(rec, http.StatusOK, map[string]float64{"value": math.NaN()})

	assert.Contains(t, logged.String(), "failed to encode response body")
}

func TestAPI_GrowthRateBelowTotalLossIs400(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/projections", map[string]any{
		"horizon_years": 3,
		"requests": []map[string]any{
			{"category": "equities", "current_value": 10000, "annual_growth_rate_pct": -150},
		},
	}, testToken)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "annual_growth_rate_pct")
}

func TestAPI_TaxEstimate(t *testing.T) {
	ts := newTestServer(t)
	createHolding(t, ts, "Old Winner", "equities", "10000", "18000")

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/tax-estimate", map[string]any{
		"valuation_date": "2026-06-30",
	}, testToken)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Acquired 2023-01-15, so the 8000 gain is long-term: (8000-1000)*12.5%
	assert.Equal(t, "875.00", body["total_tax_liability"])
	assert.Equal(t, "8000.00", body["long_term_gains"])
}
