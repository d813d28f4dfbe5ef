// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
	"github.com/budgetwise/backend/internal/domain/period"
)

// CreateBudgetInput represents the input for budget creation.
type CreateBudgetInput struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	LimitAmount decimal.Decimal
	Period      string
}

// CreateBudgetOutput represents the output of budget creation.
type CreateBudgetOutput struct {
	Budget *entity.Budget
}

// CreateBudgetUseCase handles budget creation logic.
type CreateBudgetUseCase struct {
	budgetRepo   adapter.BudgetRepository
	accountRepo  adapter.AccountRepository
	categoryRepo adapter.CategoryRepository
	clock        adapter.Clock
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	accountRepo adapter.AccountRepository,
	categoryRepo adapter.CategoryRepository,
	clock adapter.Clock,
) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{
		budgetRepo:   budgetRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
	}
}

// Execute performs the budget creation.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*CreateBudgetOutput, error) {
	// Stored budgets keep lenient period semantics, but new ones are
	// validated strictly.
	periodType, err := period.Parse(input.Period)
	if err != nil {
		return nil, err
	}

	if input.LimitAmount.IsNegative() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidLimitAmount,
			"limit amount must not be negative",
			domainerror.ErrInvalidLimitAmount,
		)
	}

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

	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetCategoryNotFound,
			"category not found",
			domainerror.ErrBudgetCategoryNotFound,
		)
	}
	if category.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"category does not belong to user",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	// Ledger lookups assume at most one budget per (account, category).
	exists, err := uc.budgetRepo.ExistsByAccountAndCategory(ctx, input.AccountID, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check budget existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetAlreadyExists,
			"budget already exists for this category",
			domainerror.ErrBudgetAlreadyExists,
		)
	}

	budget := entity.NewBudget(input.AccountID, input.CategoryID, input.LimitAmount, periodType, uc.clock.Now())

	if err := uc.budgetRepo.Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return &CreateBudgetOutput{Budget: budget}, nil
}
