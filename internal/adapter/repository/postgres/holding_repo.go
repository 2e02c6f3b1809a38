package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codingisforpros/wealthtracker/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

const holdingColumns = `
	id, name, category, cost_basis, current_value, acquisition_date,
	contribution_amount, contribution_start_date, contribution_step_up_pct, contribution_active,
	metadata, created_at, updated_at
`

// Create creates a new holding
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	if err := holding.Validate(); err != nil {
		return err
	}

	metadata, err := marshalMetadata(holding.Metadata)
	if err != nil {
		return err
	}

	var contribAmount, contribStepUp sql.NullString
	var contribStart sql.NullTime
	var contribActive sql.NullBool
	if holding.Schedule != nil {
		contribAmount = sql.NullString{String: holding.Schedule.Amount.String(), Valid: true}
		contribStepUp = sql.NullString{String: decimal.NewFromFloat(holding.Schedule.AnnualStepUpPct).String(), Valid: true}
		contribStart = sql.NullTime{Time: holding.Schedule.StartDate, Valid: !holding.Schedule.StartDate.IsZero()}
		contribActive = sql.NullBool{Bool: holding.Schedule.Active, Valid: true}
	}

	query := `
		INSERT INTO holdings (` + holdingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		holding.ID,
		holding.Name,
		string(holding.Category),
		holding.CostBasis.String(),
		holding.CurrentValue.String(),
		holding.AcquisitionDate,
		contribAmount,
		contribStart,
		contribStepUp,
		contribActive,
		metadata,
		holding.CreatedAt,
		holding.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	return nil
}

// GetByID retrieves a holding by its ID
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE id = $1`

	holding, err := scanHolding(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrHoldingNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	return holding, nil
}

// List retrieves all holdings, most recently created first
func (r *holdingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// UpdateValue refreshes the current value of a holding and optionally
// replaces its metadata
func (r *holdingRepository) UpdateValue(ctx context.Context, id uuid.UUID, value decimal.Decimal, metadata map[string]any) (*domain.Holding, error) {
	if value.IsNegative() {
		return nil, domain.NewValidationError("current_value", "cannot be negative")
	}

	var err error
	if metadata != nil {
		var encoded []byte
		encoded, err = marshalMetadata(metadata)
		if err != nil {
			return nil, err
		}
		_, err = r.db.ExecContext(ctx,
			`UPDATE holdings SET current_value = $1, metadata = $2, updated_at = $3 WHERE id = $4`,
			value.String(), encoded, time.Now().UTC(), id)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE holdings SET current_value = $1, updated_at = $2 WHERE id = $3`,
			value.String(), time.Now().UTC(), id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update holding value: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a holding by its ID
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return &domain.ErrHoldingNotFound{ID: id}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (*domain.Holding, error) {
	var holding domain.Holding
	var category string
	var costBasisStr, currentValueStr string
	var contribAmount, contribStepUp sql.NullString
	var contribStart sql.NullTime
	var contribActive sql.NullBool
	var metadata []byte

	err := row.Scan(
		&holding.ID,
		&holding.Name,
		&category,
		&costBasisStr,
		&currentValueStr,
		&holding.AcquisitionDate,
		&contribAmount,
		&contribStart,
		&contribStepUp,
		&contribActive,
		&metadata,
		&holding.CreatedAt,
		&holding.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	holding.Category = domain.Category(category)

	holding.CostBasis, err = decimal.NewFromString(costBasisStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cost_basis: %w", err)
	}
	holding.CurrentValue, err = decimal.NewFromString(currentValueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_value: %w", err)
	}

	if contribAmount.Valid {
		amount, err := decimal.NewFromString(contribAmount.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse contribution_amount: %w", err)
		}
		schedule := &domain.ContributionSchedule{
			Amount: amount,
			Active: contribActive.Valid && contribActive.Bool,
		}
		if contribStart.Valid {
			schedule.StartDate = contribStart.Time
		}
		if contribStepUp.Valid {
			stepUp, err := decimal.NewFromString(contribStepUp.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse contribution_step_up_pct: %w", err)
			}
			schedule.AnnualStepUpPct = stepUp.InexactFloat64()
		}
		holding.Schedule = schedule
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &holding.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
	}

	return &holding, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return encoded, nil
}
