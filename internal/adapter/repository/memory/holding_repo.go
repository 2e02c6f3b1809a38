package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

// HoldingRepository is an in-memory domain.HoldingRepository used by
// tests and database-less runs
type HoldingRepository struct {
	mu       sync.RWMutex
	holdings map[uuid.UUID]*domain.Holding
}

// NewHoldingRepository creates an empty in-memory holding repository
func NewHoldingRepository() *HoldingRepository {
	return &HoldingRepository{holdings: make(map[uuid.UUID]*domain.Holding)}
}

// Create creates a new holding
func (r *HoldingRepository) Create(_ context.Context, holding *domain.Holding) error {
	if err := holding.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *holding
	r.holdings[holding.ID] = &stored
	return nil
}

// GetByID retrieves a holding by its ID
func (r *HoldingRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holding, ok := r.holdings[id]
	if !ok {
		return nil, &domain.ErrHoldingNotFound{ID: id}
	}
	copied := *holding
	return &copied, nil
}

// List retrieves all holdings, most recently created first
func (r *HoldingRepository) List(_ context.Context) ([]*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holdings := make([]*domain.Holding, 0, len(r.holdings))
	for _, h := range r.holdings {
		copied := *h
		holdings = append(holdings, &copied)
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].CreatedAt.After(holdings[j].CreatedAt)
	})
	return holdings, nil
}

// UpdateValue refreshes the current value of a holding and optionally
// replaces its metadata
func (r *HoldingRepository) UpdateValue(_ context.Context, id uuid.UUID, value decimal.Decimal, metadata map[string]any) (*domain.Holding, error) {
	if value.IsNegative() {
		return nil, domain.NewValidationError("current_value", "cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	holding, ok := r.holdings[id]
	if !ok {
		return nil, &domain.ErrHoldingNotFound{ID: id}
	}

	holding.CurrentValue = value
	if metadata != nil {
		holding.Metadata = metadata
	}
	holding.UpdatedAt = time.Now().UTC()

	copied := *holding
	return &copied, nil
}

// Delete removes a holding by its ID
func (r *HoldingRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holdings[id]; !ok {
		return &domain.ErrHoldingNotFound{ID: id}
	}
	delete(r.holdings, id)
	return nil
}
