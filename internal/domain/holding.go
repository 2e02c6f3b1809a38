package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category represents the asset class of a holding
type Category string

const (
	CategoryEquities       Category = "equities"
	CategoryPooledFunds    Category = "pooled_funds"
	CategoryCryptoAssets   Category = "crypto_assets"
	CategoryRealEstate     Category = "real_estate"
	CategoryFixedIncome    Category = "fixed_income"
	CategoryPreciousMetals Category = "precious_metals"
	CategoryOther          Category = "other"
)

// Categories returns the fixed, exhaustive set of holding categories
// in their canonical order
func Categories() []Category {
	return []Category{
		CategoryEquities,
		CategoryPooledFunds,
		CategoryCryptoAssets,
		CategoryRealEstate,
		CategoryFixedIncome,
		CategoryPreciousMetals,
		CategoryOther,
	}
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ContributionSchedule represents an optional systematic periodic
// contribution (SIP) attached to a holding. Amount is the monthly deposit;
// AnnualStepUpPct inflates it once per year
type ContributionSchedule struct {
	Amount          decimal.Decimal
	StartDate       time.Time
	AnnualStepUpPct float64
	Active          bool
}

// Holding represents a single tracked financial holding in the domain layer.
// CostBasis and AcquisitionDate are immutable after creation; CurrentValue
// and Metadata are refreshed externally
type Holding struct {
	ID              uuid.UUID
	Name            string
	Category        Category
	CostBasis       decimal.Decimal
	CurrentValue    decimal.Decimal
	AcquisitionDate time.Time
	Schedule        *ContributionSchedule // nil means no systematic contributions
	Metadata        map[string]any        // category-specific attributes, never interpreted here
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate ensures the holding adheres to domain rules
// Returns an error if validation fails
func (h *Holding) Validate() error {
	if h.Name == "" {
		return errors.New("holding name cannot be empty")
	}
	if !h.Category.IsValid() {
		return errors.New("holding category " + string(h.Category) + " is not a known category")
	}
	if h.CostBasis.LessThanOrEqual(decimal.Zero) {
		return errors.New("holding cost basis must be positive")
	}
	if h.CurrentValue.IsNegative() {
		return errors.New("holding current value cannot be negative")
	}
	if h.AcquisitionDate.IsZero() {
		return errors.New("holding acquisition date is required")
	}
	if h.Schedule != nil {
		if h.Schedule.Amount.IsNegative() {
			return errors.New("contribution amount cannot be negative")
		}
		if h.Schedule.AnnualStepUpPct < 0 {
			return errors.New("contribution step-up percentage cannot be negative")
		}
	}
	return nil
}

// ContributesPeriodically reports whether the holding has an active
// contribution schedule. A holding with an inactive or absent schedule
// has zero projected future contributions
func (h *Holding) ContributesPeriodically() bool {
	return h.Schedule != nil && h.Schedule.Active
}

// GainLoss returns the signed unrealized gain of the holding
func (h *Holding) GainLoss() decimal.Decimal {
	return h.CurrentValue.Sub(h.CostBasis)
}
