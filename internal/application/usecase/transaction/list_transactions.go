package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 100
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID     uuid.UUID
	Filter     adapter.TransactionFilter
	Pagination adapter.TransactionPagination
}

// ListTransactionsOutput represents the paginated output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Totals       *entity.TransactionTotals
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// ListTransactionsUseCase handles transaction listing logic.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	accountRepo     adapter.AccountRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	accountRepo adapter.AccountRepository,
) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// Execute lists transactions for one of the user's accounts, with filters,
// pagination and aggregate totals over the full filtered set.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	account, err := uc.accountRepo.FindByID(ctx, input.Filter.AccountID)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFoundForTransaction,
		)
	}
	if account.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"account does not belong to user",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	pagination := input.Pagination
	if pagination.Page < 1 {
		pagination.Page = defaultPage
	}
	if pagination.Limit < 1 {
		pagination.Limit = defaultLimit
	}
	if pagination.Limit > maxLimit {
		pagination.Limit = maxLimit
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, input.Filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals, err := uc.transactionRepo.GetTotals(ctx, input.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate transaction totals: %w", err)
	}

	outputs := make([]*TransactionOutput, 0, len(result.Transactions))
	for _, tc := range result.Transactions {
		outputs = append(outputs, toTransactionOutput(tc.Transaction, tc.Category))
	}

	return &ListTransactionsOutput{
		Transactions: outputs,
		Totals:       totals,
		Total:        result.Total,
		Page:         result.Page,
		Limit:        result.Limit,
		TotalPages:   result.TotalPages,
	}, nil
}
