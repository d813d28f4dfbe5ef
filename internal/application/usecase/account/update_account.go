package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// UpdateAccountInput represents the input for account update.
type UpdateAccountInput struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Name      string
	Type      entity.AccountType
	Currency  string
}

// UpdateAccountOutput represents the output of account update.
type UpdateAccountOutput struct {
	Account *entity.Account
}

// UpdateAccountUseCase handles account update logic.
type UpdateAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewUpdateAccountUseCase creates a new UpdateAccountUseCase instance.
func NewUpdateAccountUseCase(accountRepo adapter.AccountRepository) *UpdateAccountUseCase {
	return &UpdateAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute performs the account update.
func (uc *UpdateAccountUseCase) Execute(ctx context.Context, input UpdateAccountInput) (*UpdateAccountOutput, error) {
	if input.Name == "" || len(input.Name) > MaxAccountNameLength {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeMissingAccountFields,
			fmt.Sprintf("account name is required and must not exceed %d characters", MaxAccountNameLength),
			domainerror.ErrAccountNotFound,
		)
	}

	if !isValidAccountType(input.Type) {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeInvalidAccountType,
			"account type must be 'checking', 'savings', 'credit' or 'cash'",
			domainerror.ErrInvalidAccountType,
		)
	}

	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}

	if account.UserID != input.UserID {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeUnauthorizedAccountAccess,
			"not authorized to modify this account",
			domainerror.ErrUnauthorizedAccountAccess,
		)
	}

	account.Name = input.Name
	account.Type = input.Type
	if input.Currency != "" {
		account.Currency = input.Currency
	}
	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &UpdateAccountOutput{
		Account: account,
	}, nil
}
