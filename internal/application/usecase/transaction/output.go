// Package transaction contains transaction-related use cases. Transaction
// writes coordinate with the budget ledger: every create or update applies
// its net effect to the matching budget and reports the resulting status.
package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/usecase/budget"
	"github.com/budgetwise/backend/internal/domain/entity"
)

const (
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 255
)

// CategoryOutput represents category data included with a transaction.
type CategoryOutput struct {
	ID    uuid.UUID
	Name  string
	Color string
	Icon  string
	Type  entity.CategoryType
}

// TransactionOutput represents a transaction in use case outputs.
type TransactionOutput struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        entity.TransactionType
	Category    *CategoryOutput
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func toTransactionOutput(t *entity.Transaction, category *entity.Category) *TransactionOutput {
	output := &TransactionOutput{
		ID:          t.ID,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if category != nil {
		output.Category = &CategoryOutput{
			ID:    category.ID,
			Name:  category.Name,
			Color: category.Color,
			Icon:  category.Icon,
			Type:  category.Type,
		}
	}
	return output
}

// isValidTransactionType validates the transaction type.
func isValidTransactionType(transactionType entity.TransactionType) bool {
	return transactionType == entity.TransactionTypeExpense || transactionType == entity.TransactionTypeIncome
}

// budgetStatusFor projects a status from a ledger row returned by
// AdjustAmount. Nil when no budget exists or its limit is zero.
func budgetStatusFor(b *entity.Budget) *budget.Status {
	if b == nil {
		return nil
	}
	return budget.ProjectStatus(b)
}
