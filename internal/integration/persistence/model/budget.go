package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/domain/period"
)

// BudgetModel represents the budgets table in the database. One budget per
// (account, category) pair is assumed by lookups.
type BudgetModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_account_category"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_account_category"`
	LimitAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Period          string          `gorm:"type:varchar(10);not null"`
	PeriodStartDate time.Time       `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Account  *AccountModel  `gorm:"foreignKey:AccountID;references:ID"`
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Budget{
		ID:              m.ID,
		AccountID:       m.AccountID,
		CategoryID:      m.CategoryID,
		LimitAmount:     m.LimitAmount,
		Amount:          m.Amount,
		Period:          period.Type(m.Period),
		PeriodStartDate: m.PeriodStartDate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}

// ToEntityWithCategory converts a BudgetModel with its Category to a
// BudgetWithCategory entity.
func (m *BudgetModel) ToEntityWithCategory() *entity.BudgetWithCategory {
	result := &entity.BudgetWithCategory{
		Budget: m.ToEntity(),
	}

	if m.Category != nil {
		result.Category = m.Category.ToEntity()
	}

	return result
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(budget *entity.Budget) *BudgetModel {
	var deletedAt gorm.DeletedAt
	if budget.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *budget.DeletedAt, Valid: true}
	}

	return &BudgetModel{
		ID:              budget.ID,
		AccountID:       budget.AccountID,
		CategoryID:      budget.CategoryID,
		LimitAmount:     budget.LimitAmount,
		Amount:          budget.Amount,
		Period:          string(budget.Period),
		PeriodStartDate: budget.PeriodStartDate,
		CreatedAt:       budget.CreatedAt,
		UpdatedAt:       budget.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}
