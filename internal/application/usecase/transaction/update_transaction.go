package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/application/usecase/budget"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// UpdateTransactionInput represents the input for transaction update. All
// fields are replaced, not patched.
type UpdateTransactionInput struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.UUID
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	Type          entity.TransactionType
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction  *TransactionOutput
	BudgetStatus *budget.Status
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	accountRepo     adapter.AccountRepository
	categoryRepo    adapter.CategoryRepository
	ledger          *budget.Ledger
	insightCache    adapter.InsightCache
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	accountRepo adapter.AccountRepository,
	categoryRepo adapter.CategoryRepository,
	ledger *budget.Ledger,
	insightCache adapter.InsightCache,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		ledger:          ledger,
		insightCache:    insightCache,
	}
}

// Execute updates a transaction. The old values are first reversed out of
// whichever budget they were counted against, then the new values are applied
// to the budget of the (possibly different) new account/category pair. When
// the pair is unchanged both adjustments hit the same budget and the net
// effect is the amount difference.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	if len(input.Description) > MaxDescriptionLength {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	if !isValidTransactionType(input.Type) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if !input.Amount.IsPositive() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"transaction amount must be positive",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	existing, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}

	currentAccount, err := uc.accountRepo.FindByID(ctx, existing.AccountID)
	if err != nil || currentAccount.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	if input.AccountID != existing.AccountID {
		newAccount, err := uc.accountRepo.FindByID(ctx, input.AccountID)
		if err != nil {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTxnAccountNotFound,
				"account not found",
				domainerror.ErrAccountNotFoundForTransaction,
			)
		}
		if newAccount.UserID != input.UserID {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeNotAuthorizedTransaction,
				"account does not belong to user",
				domainerror.ErrNotAuthorizedToModifyTransaction,
			)
		}
	}

	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFoundForTransaction,
		)
	}
	if category.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"category does not belong to user",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	// Reverse the old effect before touching the record, so the previous
	// budget never counts a transaction that no longer points at it.
	_, err = uc.ledger.AdjustAmount(ctx, existing.AccountID, existing.CategoryID, existing.Amount.Neg(), existing.Type)
	if err != nil {
		return nil, err
	}

	existing.AccountID = input.AccountID
	existing.CategoryID = input.CategoryID
	existing.Date = input.Date
	existing.Description = input.Description
	existing.Amount = input.Amount
	existing.Type = input.Type
	existing.UpdatedAt = time.Now().UTC()

	if err := uc.transactionRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	adjusted, err := uc.ledger.AdjustAmount(ctx, input.AccountID, input.CategoryID, input.Amount, input.Type)
	if err != nil {
		return nil, err
	}

	invalidateInsights(ctx, uc.insightCache, input.UserID)

	return &UpdateTransactionOutput{
		Transaction:  toTransactionOutput(existing, category),
		BudgetStatus: budgetStatusFor(adjusted),
	}, nil
}
