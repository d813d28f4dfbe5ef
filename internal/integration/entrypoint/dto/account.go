// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// CreateAccountRequest represents the request body for account creation.
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Type     string `json:"type" binding:"required,oneof=checking savings credit cash"`
	Currency string `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// UpdateAccountRequest represents the request body for account update.
type UpdateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Type     string `json:"type" binding:"required,oneof=checking savings credit cash"`
	Currency string `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountListResponse represents the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain Account entity to an AccountResponse DTO.
func ToAccountResponse(acc *entity.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID.String(),
		Name:      acc.Name,
		Type:      string(acc.Type),
		Currency:  acc.Currency,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

// ToAccountListResponse converts a list of accounts to an AccountListResponse.
func ToAccountListResponse(accounts []*entity.Account) AccountListResponse {
	out := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		out[i] = ToAccountResponse(acc)
	}
	return AccountListResponse{Accounts: out}
}
