package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingRepository defines the interface for holding persistence operations.
// The analytics engine itself never touches storage; the API layer uses
// this to resolve the snapshot passed into each computation
type HoldingRepository interface {
	// Create creates a new holding
	Create(ctx context.Context, holding *Holding) error

	// GetByID retrieves a holding by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)

	// List retrieves all holdings, most recently created first
	List(ctx context.Context) ([]*Holding, error)

	// UpdateValue refreshes the current value of a holding and optionally
	// replaces its metadata (nil metadata leaves it untouched)
	UpdateValue(ctx context.Context, id uuid.UUID, value decimal.Decimal, metadata map[string]any) (*Holding, error)

	// Delete removes a holding by its ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrHoldingNotFound is returned by repositories when a holding ID does
// not exist
type ErrHoldingNotFound struct {
	ID uuid.UUID
}

func (e *ErrHoldingNotFound) Error() string {
	return "holding " + e.ID.String() + " not found"
}
