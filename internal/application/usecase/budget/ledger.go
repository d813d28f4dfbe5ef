// Package budget contains budget-related use cases, including the period
// ledger that tracks running spend per budget window.
package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/domain/period"
)

// Ledger owns the running spend amount of each budget. It has exactly two
// operations: rolling a budget into a new period window and applying a signed
// transaction delta.
type Ledger struct {
	budgetRepo adapter.BudgetRepository
	clock      adapter.Clock
	// atomic selects the hardened write path: the delta is applied as a single
	// SQL increment instead of read-modify-write, so concurrent transaction
	// writes on the same budget cannot lose updates. The default (false)
	// preserves the historical racy behavior.
	atomic bool
}

// NewLedger creates a new Ledger instance using the compatible
// read-modify-write persistence path.
func NewLedger(budgetRepo adapter.BudgetRepository, clock adapter.Clock) *Ledger {
	return &Ledger{
		budgetRepo: budgetRepo,
		clock:      clock,
	}
}

// NewAtomicLedger creates a Ledger that applies deltas with a single atomic
// SQL increment.
func NewAtomicLedger(budgetRepo adapter.BudgetRepository, clock adapter.Clock) *Ledger {
	return &Ledger{
		budgetRepo: budgetRepo,
		clock:      clock,
		atomic:     true,
	}
}

// ResetIfNeeded rolls the budget into a new period window when the current
// instant has left the window anchored at PeriodStartDate: the running amount
// is zeroed and the anchor advances to the canonical start of the new window.
// Calling it again with the same clock reading is a no-op.
func (l *Ledger) ResetIfNeeded(ctx context.Context, budget *entity.Budget) (*entity.Budget, error) {
	now := l.clock.Now()

	if !period.ShouldReset(budget.Period, budget.PeriodStartDate, now) {
		return budget, nil
	}

	budget.Amount = decimal.Zero
	budget.PeriodStartDate = period.Start(budget.Period, now)
	budget.UpdatedAt = now.UTC()

	if err := l.budgetRepo.Update(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to persist budget reset: %w", err)
	}

	return budget, nil
}

// AdjustAmount applies a signed transaction delta to the budget tracking the
// given (account, category) pair.
//
// Invariant: budgets track expenses only. Income-type deltas never change the
// running amount; the budget is still reset-checked so reads stay canonical.
// A missing budget is a silent no-op, not an error: a transaction may well
// live in a category nobody budgets for.
//
// Returns the budget after adjustment, or nil when no budget exists.
func (l *Ledger) AdjustAmount(
	ctx context.Context,
	accountID, categoryID uuid.UUID,
	amount decimal.Decimal,
	transactionType entity.TransactionType,
) (*entity.Budget, error) {
	budget, err := l.budgetRepo.FindByAccountAndCategory(ctx, accountID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up budget: %w", err)
	}
	if budget == nil {
		return nil, nil
	}

	budget, err = l.ResetIfNeeded(ctx, budget)
	if err != nil {
		return nil, err
	}

	if transactionType != entity.TransactionTypeExpense {
		return budget, nil
	}

	if l.atomic {
		if err := l.budgetRepo.ApplyDelta(ctx, budget.ID, amount); err != nil {
			return nil, fmt.Errorf("failed to apply budget delta: %w", err)
		}
		budget.Amount = budget.Amount.Add(amount)
		return budget, nil
	}

	budget.Amount = budget.Amount.Add(amount)
	budget.UpdatedAt = l.clock.Now().UTC()
	if err := l.budgetRepo.Update(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to persist budget adjustment: %w", err)
	}

	return budget, nil
}
