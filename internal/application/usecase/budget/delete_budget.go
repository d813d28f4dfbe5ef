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

// DeleteBudgetInput represents the input for budget deletion.
type DeleteBudgetInput struct {
	UserID   uuid.UUID
	BudgetID uuid.UUID
}

// DeleteBudgetOutput represents the output of budget deletion.
type DeleteBudgetOutput struct {
	Success bool
}

// DeleteBudgetUseCase handles budget deletion logic.
type DeleteBudgetUseCase struct {
	budgetRepo  adapter.BudgetRepository
	accountRepo adapter.AccountRepository
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	accountRepo adapter.AccountRepository,
) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{
		budgetRepo:  budgetRepo,
		accountRepo: accountRepo,
	}
}

// Execute performs the budget deletion.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) (*DeleteBudgetOutput, error) {
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

	account, err := uc.accountRepo.FindByID(ctx, budget.AccountID)
	if err != nil || account.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"not authorized to delete this budget",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	if err := uc.budgetRepo.Delete(ctx, input.BudgetID); err != nil {
		return nil, fmt.Errorf("failed to delete budget: %w", err)
	}

	return &DeleteBudgetOutput{Success: true}, nil
}
