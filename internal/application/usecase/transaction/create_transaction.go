// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/application/usecase/budget"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        entity.TransactionType
}

// CreateTransactionOutput represents the output of transaction creation.
// BudgetStatus is nil when the category has no budget or the budget has no
// meaningful limit.
type CreateTransactionOutput struct {
	Transaction  *TransactionOutput
	BudgetStatus *budget.Status
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	accountRepo     adapter.AccountRepository
	categoryRepo    adapter.CategoryRepository
	userRepo        adapter.UserRepository
	ledger          *budget.Ledger
	insightCache    adapter.InsightCache
	emailService    adapter.EmailService
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
// insightCache and emailService may be nil when those integrations are disabled.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	accountRepo adapter.AccountRepository,
	categoryRepo adapter.CategoryRepository,
	userRepo adapter.UserRepository,
	ledger *budget.Ledger,
	insightCache adapter.InsightCache,
	emailService adapter.EmailService,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		userRepo:        userRepo,
		ledger:          ledger,
		insightCache:    insightCache,
		emailService:    emailService,
	}
}

// Execute performs the transaction creation and applies its effect to the
// budget ledger.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
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

	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
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

	transaction := entity.NewTransaction(
		input.AccountID,
		input.CategoryID,
		input.Date,
		input.Description,
		input.Amount,
		input.Type,
	)

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	adjusted, err := uc.ledger.AdjustAmount(ctx, input.AccountID, input.CategoryID, input.Amount, input.Type)
	if err != nil {
		return nil, err
	}

	status := budgetStatusFor(adjusted)

	uc.maybeQueueBudgetAlert(ctx, input.UserID, account, category, adjusted, status, input.Amount, input.Type)
	invalidateInsights(ctx, uc.insightCache, input.UserID)

	return &CreateTransactionOutput{
		Transaction:  toTransactionOutput(transaction, category),
		BudgetStatus: status,
	}, nil
}

// maybeQueueBudgetAlert queues an alert email when this expense pushed the
// budget over its limit. Failures are logged and never fail the transaction.
func (uc *CreateTransactionUseCase) maybeQueueBudgetAlert(
	ctx context.Context,
	userID uuid.UUID,
	account *entity.Account,
	category *entity.Category,
	adjusted *entity.Budget,
	status *budget.Status,
	amount decimal.Decimal,
	transactionType entity.TransactionType,
) {
	if uc.emailService == nil || status == nil || status.Status != budget.StatusExceeded {
		return
	}
	if transactionType != entity.TransactionTypeExpense {
		return
	}

	// Only the write that crosses the limit triggers an alert; further
	// spending on an already-exceeded budget stays quiet.
	spentBefore := adjusted.Amount.Sub(amount)
	if spentBefore.GreaterThanOrEqual(adjusted.LimitAmount) {
		return
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil || !user.BudgetAlerts {
		return
	}

	err = uc.emailService.QueueBudgetAlertEmail(ctx, adapter.QueueBudgetAlertInput{
		UserEmail:    user.Email,
		UserName:     user.Name,
		CategoryName: category.Name,
		AccountName:  account.Name,
		Spent:        status.Spent.StringFixed(2),
		Limit:        status.Limit.StringFixed(2),
		Percentage:   fmt.Sprintf("%.1f", status.Percentage),
		PeriodEnd:    status.PeriodEnd.Format("2006-01-02"),
	})
	if err != nil {
		slog.Warn("Failed to queue budget alert email",
			"userID", userID,
			"budgetID", adjusted.ID,
			"error", err,
		)
	}
}

// invalidateInsights drops the cached insight results after a write. Cache
// errors are non-fatal.
func invalidateInsights(ctx context.Context, cache adapter.InsightCache, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID); err != nil {
		slog.Debug("Failed to invalidate insight cache", "userID", userID, "error", err)
	}
}
