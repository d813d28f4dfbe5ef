// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/period"
)

// Budget represents a per-category spending limit for an account. Amount is
// the running expense total accumulated inside the current period window;
// it resets to zero when the window rolls over.
//
// Invariant: PeriodStartDate is always the canonical period start as of the
// last reset, and Amount only ever accumulates expense deltas dated inside
// [PeriodStartDate, period end). Lookups assume at most one budget per
// (AccountID, CategoryID) pair.
type Budget struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	CategoryID      uuid.UUID
	LimitAmount     decimal.Decimal
	Amount          decimal.Decimal
	Period          period.Type
	PeriodStartDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time // Soft-delete support
}

// NewBudget creates a new Budget entity with a zero running amount and the
// period window anchored at the canonical start of the creation instant.
func NewBudget(accountID, categoryID uuid.UUID, limitAmount decimal.Decimal, p period.Type, now time.Time) *Budget {
	return &Budget{
		ID:              uuid.New(),
		AccountID:       accountID,
		CategoryID:      categoryID,
		LimitAmount:     limitAmount,
		Amount:          decimal.Zero,
		Period:          p,
		PeriodStartDate: period.Start(p, now),
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
}

// PeriodEnd returns the last instant of the budget's current window.
func (b *Budget) PeriodEnd() time.Time {
	return period.End(b.Period, b.PeriodStartDate)
}

// BudgetWithCategory represents a budget with its associated category.
type BudgetWithCategory struct {
	Budget   *Budget
	Category *Category
}
