// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the type of category (expense or income).
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// Category represents a transaction category in the BudgetWise system.
// Categories carry no behavior of their own; they are referenced by
// transactions and budgets.
type Category struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Color       string
	Icon        string
	Type        CategoryType
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewCategory creates a new Category entity.
// Note: defaulting logic for color and icon should be applied in the
// application layer (use case) before calling this constructor.
func NewCategory(userID uuid.UUID, name, description, color, icon string, categoryType CategoryType) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Color:       color,
		Icon:        icon,
		Type:        categoryType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
