// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// ListBudgetsInput represents the input for listing budgets.
type ListBudgetsInput struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
}

// BudgetOutput represents a budget with its category and projected status.
type BudgetOutput struct {
	Budget   *entity.Budget
	Category *entity.Category
	Status   *Status
}

// ListBudgetsOutput represents the output of listing budgets.
type ListBudgetsOutput struct {
	Budgets []*BudgetOutput
}

// ListBudgetsUseCase handles budget listing logic.
type ListBudgetsUseCase struct {
	budgetRepo   adapter.BudgetRepository
	accountRepo  adapter.AccountRepository
	categoryRepo adapter.CategoryRepository
	ledger       *Ledger
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(
	budgetRepo adapter.BudgetRepository,
	accountRepo adapter.AccountRepository,
	categoryRepo adapter.CategoryRepository,
	ledger *Ledger,
) *ListBudgetsUseCase {
	return &ListBudgetsUseCase{
		budgetRepo:   budgetRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		ledger:       ledger,
	}
}

// Execute lists the account's budgets. Each budget is rolled into the current
// period window before its status is projected, so a stale row read after a
// rollover never reports the previous window's spend.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, input ListBudgetsInput) (*ListBudgetsOutput, error) {
	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetAccountNotFound,
			"account not found",
			domainerror.ErrBudgetAccountNotFound,
		)
	}
	if account.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"account does not belong to user",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	budgets, err := uc.budgetRepo.FindByAccountID(ctx, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	outputs := make([]*BudgetOutput, 0, len(budgets))
	for _, b := range budgets {
		b, err = uc.ledger.ResetIfNeeded(ctx, b)
		if err != nil {
			return nil, err
		}

		output := &BudgetOutput{
			Budget: b,
			Status: ProjectStatus(b),
		}

		if category, err := uc.categoryRepo.FindByID(ctx, b.CategoryID); err == nil {
			output.Category = category
		}

		outputs = append(outputs, output)
	}

	return &ListBudgetsOutput{Budgets: outputs}, nil
}
