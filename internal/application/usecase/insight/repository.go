// Package insight implements the rule engine that turns a user's transaction
// and budget history into alert records. Rules are independent evaluators
// registered on the engine in a fixed order.
package insight

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// CategorySpending is a per-category expense aggregate.
type CategorySpending struct {
	CategoryID   uuid.UUID
	CategoryName string
	Amount       decimal.Decimal
}

// Repository defines the read queries the insight rules need. Aggregations
// run in the database; rules only see the summed figures.
type Repository interface {
	// FindBudgetsByUser retrieves all budgets across the user's accounts,
	// with their categories.
	FindBudgetsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.BudgetWithCategory, error)

	// SumExpenses sums expense amounts for an (account, category) pair
	// within [start, end].
	SumExpenses(ctx context.Context, accountID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error)

	// SumByType sums transaction amounts of one type across all the user's
	// accounts within [start, end].
	SumByType(ctx context.Context, userID uuid.UUID, transactionType entity.TransactionType, start, end time.Time) (decimal.Decimal, error)

	// SumExpensesByCategory sums expenses per category across all the user's
	// accounts within [start, end].
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CategorySpending, error)

	// CountRecurring counts recurring transaction groups for the user
	// (same description and amount appearing repeatedly).
	CountRecurring(ctx context.Context, userID uuid.UUID) (int, error)
}

// monthBounds returns the first and last instant of the calendar month
// `offset` months before now's month (offset 0 = current month).
func monthBounds(now time.Time, offset int) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	first = first.AddDate(0, -offset, 0)
	last := first.AddDate(0, 1, 0).Add(-time.Millisecond)
	return first, last
}
