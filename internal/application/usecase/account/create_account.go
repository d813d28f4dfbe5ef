// Package account contains account-related use cases. Accounts are the
// ownership root: transactions and budgets hang off an account, and an
// account belongs to exactly one user.
package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// MaxAccountNameLength is the maximum allowed length for account names.
const MaxAccountNameLength = 100

// CreateAccountInput represents the input for account creation.
type CreateAccountInput struct {
	UserID   uuid.UUID
	Name     string
	Type     entity.AccountType
	Currency string // Optional, defaults to DefaultCurrency
}

// CreateAccountOutput represents the output of account creation.
type CreateAccountOutput struct {
	Account *entity.Account
}

// CreateAccountUseCase handles account creation logic.
type CreateAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewCreateAccountUseCase creates a new CreateAccountUseCase instance.
func NewCreateAccountUseCase(accountRepo adapter.AccountRepository) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute performs the account creation.
func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*CreateAccountOutput, error) {
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

	currency := input.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}

	account := entity.NewAccount(input.UserID, input.Name, input.Type, currency)

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &CreateAccountOutput{
		Account: account,
	}, nil
}

// isValidAccountType validates the account type.
func isValidAccountType(accountType entity.AccountType) bool {
	switch accountType {
	case entity.AccountTypeChecking, entity.AccountTypeSavings, entity.AccountTypeCredit, entity.AccountTypeCash:
		return true
	default:
		return false
	}
}
