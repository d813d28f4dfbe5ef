// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description,omitempty" binding:"omitempty,max=500"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty" binding:"omitempty,max=50"`
	Type        string `json:"type" binding:"required,oneof=expense income"`
}

// UpdateCategoryRequest represents the request body for category update.
// Empty fields keep their current values.
type UpdateCategoryRequest struct {
	Name        string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	Description string `json:"description,omitempty" binding:"omitempty,max=500"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty" binding:"omitempty,max=50"`
	Type        string `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          cat.ID.String(),
		Name:        cat.Name,
		Description: cat.Description,
		Color:       cat.Color,
		Icon:        cat.Icon,
		Type:        string(cat.Type),
		CreatedAt:   cat.CreatedAt,
		UpdatedAt:   cat.UpdatedAt,
	}
}

// ToCategoryListResponse converts a list of categories to a CategoryListResponse.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	out := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = ToCategoryResponse(cat)
	}
	return CategoryListResponse{Categories: out}
}
