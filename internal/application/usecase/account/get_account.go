package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// GetAccountInput represents the input for fetching a single account.
type GetAccountInput struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
}

// GetAccountOutput represents the output of fetching an account.
type GetAccountOutput struct {
	Account *entity.Account
}

// GetAccountUseCase handles single account retrieval.
type GetAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewGetAccountUseCase creates a new GetAccountUseCase instance.
func NewGetAccountUseCase(accountRepo adapter.AccountRepository) *GetAccountUseCase {
	return &GetAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute fetches an account owned by the user.
func (uc *GetAccountUseCase) Execute(ctx context.Context, input GetAccountInput) (*GetAccountOutput, error) {
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
			"not authorized to access this account",
			domainerror.ErrUnauthorizedAccountAccess,
		)
	}

	return &GetAccountOutput{
		Account: account,
	}, nil
}
