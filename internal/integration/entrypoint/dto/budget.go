// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/budgetwise/backend/internal/application/usecase/budget"
	"github.com/budgetwise/backend/internal/domain/entity"
)

// CreateBudgetRequest represents the request body for budget creation.
type CreateBudgetRequest struct {
	AccountID   string  `json:"account_id" binding:"required,uuid"`
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	LimitAmount float64 `json:"limit_amount" binding:"required,gt=0"`
	Period      string  `json:"period" binding:"required,oneof=weekly monthly yearly"`
}

// UpdateBudgetRequest represents the request body for budget update.
// Omitted fields keep their current values.
type UpdateBudgetRequest struct {
	LimitAmount *float64 `json:"limit_amount,omitempty" binding:"omitempty,gt=0"`
	Period      *string  `json:"period,omitempty" binding:"omitempty,oneof=weekly monthly yearly"`
}

// BudgetStatusResponse represents a projected budget status in API responses.
type BudgetStatusResponse struct {
	Spent      string    `json:"spent"`
	Limit      string    `json:"limit"`
	Remaining  string    `json:"remaining"`
	Percentage float64   `json:"percentage"`
	Status     string    `json:"status"`
	Warning    *string   `json:"warning,omitempty"`
	PeriodEnd  time.Time `json:"period_end"`
}

// BudgetCategoryResponse represents category information in budget responses.
type BudgetCategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID              string                  `json:"id"`
	AccountID       string                  `json:"account_id"`
	CategoryID      string                  `json:"category_id"`
	LimitAmount     string                  `json:"limit_amount"`
	Amount          string                  `json:"amount"`
	Period          string                  `json:"period"`
	PeriodStartDate string                  `json:"period_start_date"`
	Category        *BudgetCategoryResponse `json:"category,omitempty"`
	Status          *BudgetStatusResponse   `json:"status,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// BudgetListResponse represents the response for listing budgets.
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ToBudgetStatusResponse converts a projected status to its DTO. Nil in, nil out.
func ToBudgetStatusResponse(status *budget.Status) *BudgetStatusResponse {
	if status == nil {
		return nil
	}
	return &BudgetStatusResponse{
		Spent:      status.Spent.String(),
		Limit:      status.Limit.String(),
		Remaining:  status.Remaining.String(),
		Percentage: status.Percentage,
		Status:     string(status.Status),
		Warning:    status.Warning,
		PeriodEnd:  status.PeriodEnd,
	}
}

// ToBudgetResponse converts a domain Budget entity to a BudgetResponse DTO.
func ToBudgetResponse(b *entity.Budget, category *entity.Category, status *budget.Status) BudgetResponse {
	response := BudgetResponse{
		ID:              b.ID.String(),
		AccountID:       b.AccountID.String(),
		CategoryID:      b.CategoryID.String(),
		LimitAmount:     b.LimitAmount.String(),
		Amount:          b.Amount.String(),
		Period:          string(b.Period),
		PeriodStartDate: b.PeriodStartDate.Format("2006-01-02"),
		Status:          ToBudgetStatusResponse(status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if category != nil {
		response.Category = &BudgetCategoryResponse{
			ID:    category.ID.String(),
			Name:  category.Name,
			Color: category.Color,
			Icon:  category.Icon,
		}
	}

	return response
}

// ToBudgetListResponse converts budget outputs to a BudgetListResponse.
func ToBudgetListResponse(outputs []*budget.BudgetOutput) BudgetListResponse {
	budgets := make([]BudgetResponse, len(outputs))
	for i, out := range outputs {
		budgets[i] = ToBudgetResponse(out.Budget, out.Category, out.Status)
	}
	return BudgetListResponse{Budgets: budgets}
}
