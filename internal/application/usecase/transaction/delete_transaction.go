package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/application/usecase/budget"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
}

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	accountRepo     adapter.AccountRepository
	ledger          *budget.Ledger
	insightCache    adapter.InsightCache
	// adjustOnDelete reverses the deleted transaction out of its budget.
	// Off by default: historically deletes left the running amount as-is
	// until the next period reset, and existing deployments depend on that.
	adjustOnDelete bool
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	accountRepo adapter.AccountRepository,
	ledger *budget.Ledger,
	insightCache adapter.InsightCache,
	adjustOnDelete bool,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		ledger:          ledger,
		insightCache:    insightCache,
		adjustOnDelete:  adjustOnDelete,
	}
}

// Execute soft-deletes a transaction owned by the user.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) error {
	existing, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}

	account, err := uc.accountRepo.FindByID(ctx, existing.AccountID)
	if err != nil || account.UserID != input.UserID {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	if err := uc.transactionRepo.Delete(ctx, input.TransactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if uc.adjustOnDelete {
		_, err = uc.ledger.AdjustAmount(ctx, existing.AccountID, existing.CategoryID, existing.Amount.Neg(), existing.Type)
		if err != nil {
			return err
		}
	}

	invalidateInsights(ctx, uc.insightCache, input.UserID)

	return nil
}
