// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
	"github.com/budgetwise/backend/internal/domain/period"
)

// UpdateBudgetInput represents the input for budget update.
type UpdateBudgetInput struct {
	UserID      uuid.UUID
	BudgetID    uuid.UUID
	LimitAmount *decimal.Decimal
	Period      *string
}

// UpdateBudgetOutput represents the output of budget update.
type UpdateBudgetOutput struct {
	Budget *entity.Budget
}

// UpdateBudgetUseCase handles budget update logic.
type UpdateBudgetUseCase struct {
	budgetRepo  adapter.BudgetRepository
	accountRepo adapter.AccountRepository
	clock       adapter.Clock
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	accountRepo adapter.AccountRepository,
	clock adapter.Clock,
) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		budgetRepo:  budgetRepo,
		accountRepo: accountRepo,
		clock:       clock,
	}
}

// Execute performs the budget update. Changing the period re-anchors the
// window at the canonical start of the new period and zeroes the running
// amount; changing only the limit keeps the accumulated spend.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
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
			"not authorized to modify this budget",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	if input.LimitAmount != nil {
		if input.LimitAmount.IsNegative() {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidLimitAmount,
				"limit amount must not be negative",
				domainerror.ErrInvalidLimitAmount,
			)
		}
		budget.LimitAmount = *input.LimitAmount
	}

	if input.Period != nil {
		periodType, err := period.Parse(*input.Period)
		if err != nil {
			return nil, err
		}
		if periodType != budget.Period {
			budget.Period = periodType
			budget.Amount = decimal.Zero
			budget.PeriodStartDate = period.Start(periodType, uc.clock.Now())
		}
	}

	budget.UpdatedAt = uc.clock.Now().UTC()

	if err := uc.budgetRepo.Update(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return &UpdateBudgetOutput{Budget: budget}, nil
}
