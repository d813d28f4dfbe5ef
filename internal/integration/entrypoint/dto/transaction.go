// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/budgetwise/backend/internal/application/usecase/transaction"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	AccountID   string  `json:"account_id" binding:"required,uuid"`
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description" binding:"required,min=1,max=255"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Type        string  `json:"type" binding:"required,oneof=expense income"`
}

// UpdateTransactionRequest represents the request body for transaction update.
// Updates replace the full transaction.
type UpdateTransactionRequest struct {
	AccountID   string  `json:"account_id" binding:"required,uuid"`
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description" binding:"required,min=1,max=255"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Type        string  `json:"type" binding:"required,oneof=expense income"`
}

// TransactionCategoryResponse represents category information in transaction responses.
type TransactionCategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Type  string `json:"type"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string                       `json:"id"`
	AccountID   string                       `json:"account_id"`
	CategoryID  string                       `json:"category_id"`
	Date        string                       `json:"date"`
	Description string                       `json:"description"`
	Amount      string                       `json:"amount"`
	Type        string                       `json:"type"`
	Category    *TransactionCategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// TransactionWriteResponse represents the response for transaction writes.
// BudgetStatus is present when the write touched a configured budget.
type TransactionWriteResponse struct {
	Transaction  TransactionResponse   `json:"transaction"`
	BudgetStatus *BudgetStatusResponse `json:"budget_status,omitempty"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionTotalsResponse represents aggregated totals in API responses.
type TransactionTotalsResponse struct {
	IncomeTotal  string `json:"income_total"`
	ExpenseTotal string `json:"expense_total"`
	NetTotal     string `json:"net_total"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse         `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
	Totals       TransactionTotalsResponse     `json:"totals"`
}

// ToTransactionResponse converts a TransactionOutput to a TransactionResponse DTO.
func ToTransactionResponse(txn *transaction.TransactionOutput) TransactionResponse {
	response := TransactionResponse{
		ID:          txn.ID.String(),
		AccountID:   txn.AccountID.String(),
		CategoryID:  txn.CategoryID.String(),
		Date:        txn.Date.Format("2006-01-02"),
		Description: txn.Description,
		Amount:      txn.Amount.String(),
		Type:        string(txn.Type),
		CreatedAt:   txn.CreatedAt,
		UpdatedAt:   txn.UpdatedAt,
	}

	if txn.Category != nil {
		response.Category = &TransactionCategoryResponse{
			ID:    txn.Category.ID.String(),
			Name:  txn.Category.Name,
			Color: txn.Category.Color,
			Icon:  txn.Category.Icon,
			Type:  string(txn.Category.Type),
		}
	}

	return response
}

// ToTransactionListResponse converts a ListTransactionsOutput to TransactionListResponse.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i, txn := range output.Transactions {
		transactions[i] = ToTransactionResponse(txn)
	}

	return TransactionListResponse{
		Transactions: transactions,
		Pagination: TransactionPaginationResponse{
			Page:       output.Page,
			Limit:      output.Limit,
			Total:      output.Total,
			TotalPages: output.TotalPages,
		},
		Totals: TransactionTotalsResponse{
			IncomeTotal:  output.Totals.IncomeTotal.String(),
			ExpenseTotal: output.Totals.ExpenseTotal.String(),
			NetTotal:     output.Totals.NetTotal.String(),
		},
	}
}
