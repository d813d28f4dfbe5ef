// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// GetBudgetInput represents the input for retrieving a single budget.
type GetBudgetInput struct {
	UserID   uuid.UUID
	BudgetID uuid.UUID
}

// GetBudgetOutput represents the output of retrieving a single budget.
type GetBudgetOutput struct {
	Budget *BudgetOutput
}

// GetBudgetUseCase handles single-budget retrieval logic.
type GetBudgetUseCase struct {
	budgetRepo   adapter.BudgetRepository
	accountRepo  adapter.AccountRepository
	categoryRepo adapter.CategoryRepository
	ledger       *Ledger
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	accountRepo adapter.AccountRepository,
	categoryRepo adapter.CategoryRepository,
	ledger *Ledger,
) *GetBudgetUseCase {
	return &GetBudgetUseCase{
		budgetRepo:   budgetRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		ledger:       ledger,
	}
}

// Execute retrieves a budget with its current-window status.
func (uc *GetBudgetUseCase) Execute(ctx context.Context, input GetBudgetInput) (*GetBudgetOutput, error) {
	budget, err := uc.budgetRepo.FindByID(ctx, input.BudgetID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetNotFound,
				"budget not found",
				domainerror.ErrBudgetNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}

	// Ownership check goes through the owning account.
	account, err := uc.accountRepo.FindByID(ctx, budget.AccountID)
	if err != nil || account.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"not authorized to access this budget",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	budget, err = uc.ledger.ResetIfNeeded(ctx, budget)
	if err != nil {
		return nil, err
	}

	output := &BudgetOutput{
		Budget: budget,
		Status: ProjectStatus(budget),
	}

	if category, err := uc.categoryRepo.FindByID(ctx, budget.CategoryID); err == nil {
		output.Category = category
	}

	return &GetBudgetOutput{Budget: output}, nil
}
