package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// GetTransactionInput represents the input for fetching a single transaction.
type GetTransactionInput struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
}

// GetTransactionUseCase handles single transaction retrieval.
type GetTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	accountRepo     adapter.AccountRepository
	categoryRepo    adapter.CategoryRepository
}

// NewGetTransactionUseCase creates a new GetTransactionUseCase instance.
func NewGetTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	accountRepo adapter.AccountRepository,
	categoryRepo adapter.CategoryRepository,
) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute fetches a transaction owned by the user.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, input GetTransactionInput) (*TransactionOutput, error) {
	transaction, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}

	account, err := uc.accountRepo.FindByID(ctx, transaction.AccountID)
	if err != nil || account.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to view this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	category, err := uc.categoryRepo.FindByID(ctx, transaction.CategoryID)
	if err != nil {
		category = nil
	}

	return toTransactionOutput(transaction, category), nil
}
