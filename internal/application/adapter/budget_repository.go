// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// Create creates a new budget in the database.
	Create(ctx context.Context, budget *entity.Budget) error

	// FindByID retrieves a budget by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindByAccountID retrieves all budgets for a given account.
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entity.Budget, error)

	// FindByAccountAndCategory retrieves the budget for an (account, category)
	// pair. Returns (nil, nil) when no budget exists: a category without a
	// budget is a valid steady state, not an error.
	FindByAccountAndCategory(ctx context.Context, accountID, categoryID uuid.UUID) (*entity.Budget, error)

	// ExistsByAccountAndCategory checks if a budget exists for the given account and category.
	ExistsByAccountAndCategory(ctx context.Context, accountID, categoryID uuid.UUID) (bool, error)

	// Update saves the budget's mutable fields (amount, period start, limit).
	Update(ctx context.Context, budget *entity.Budget) error

	// ApplyDelta atomically increments the budget's running amount in a single
	// SQL statement. This is the hardened alternative to the read-modify-write
	// Update path: two coordinators racing on the same budget cannot lose an
	// increment.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// Delete removes a budget from the database (soft delete).
	Delete(ctx context.Context, id uuid.UUID) error
}
