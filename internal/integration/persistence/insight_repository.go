package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budgetwise/backend/internal/application/usecase/insight"
	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/integration/persistence/model"
)

// recurringWindowDays bounds how far back the recurring-charge heuristic
// looks, and recurringMinOccurrences is how many identical charges qualify.
const (
	recurringWindowDays     = 90
	recurringMinOccurrences = 3
)

// insightRepository implements the insight.Repository interface. All sums run
// in the database; transactions are joined through accounts to scope them to
// a user.
type insightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new insight repository instance.
func NewInsightRepository(db *gorm.DB) insight.Repository {
	return &insightRepository{
		db: db,
	}
}

// FindBudgetsByUser retrieves all budgets across the user's accounts, with
// their categories preloaded.
func (r *insightRepository) FindBudgetsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.BudgetWithCategory, error) {
	var budgetModels []model.BudgetModel
	result := r.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = budgets.account_id").
		Where("accounts.user_id = ? AND accounts.deleted_at IS NULL", userID).
		Preload("Category").
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}

	budgets := make([]*entity.BudgetWithCategory, len(budgetModels))
	for i, bm := range budgetModels {
		budgets[i] = bm.ToEntityWithCategory()
	}
	return budgets, nil
}

// SumExpenses sums expense amounts for an (account, category) pair within
// [start, end].
func (r *insightRepository) SumExpenses(ctx context.Context, accountID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("account_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
			accountID, categoryID, string(entity.TransactionTypeExpense), start, end).
		Select("COALESCE(SUM(amount), 0) as total").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumByType sums transaction amounts of one type across all the user's
// accounts within [start, end].
func (r *insightRepository) SumByType(ctx context.Context, userID uuid.UUID, transactionType entity.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ? AND accounts.deleted_at IS NULL", userID).
		Where("transactions.type = ? AND transactions.date >= ? AND transactions.date <= ?",
			string(transactionType), start, end).
		Select("COALESCE(SUM(transactions.amount), 0) as total").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumExpensesByCategory sums expenses per category across all the user's
// accounts within [start, end].
func (r *insightRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]insight.CategorySpending, error) {
	var rows []struct {
		CategoryID   uuid.UUID       `gorm:"column:category_id"`
		CategoryName string          `gorm:"column:category_name"`
		Total        decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("accounts.user_id = ? AND accounts.deleted_at IS NULL", userID).
		Where("transactions.type = ? AND transactions.date >= ? AND transactions.date <= ?",
			string(entity.TransactionTypeExpense), start, end).
		Select("transactions.category_id, categories.name as category_name, SUM(transactions.amount) as total").
		Group("transactions.category_id, categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	spending := make([]insight.CategorySpending, len(rows))
	for i, row := range rows {
		spending[i] = insight.CategorySpending{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Amount:       row.Total,
		}
	}
	return spending, nil
}

// CountRecurring counts groups of transactions with identical description and
// amount repeating at least recurringMinOccurrences times in the trailing
// window.
func (r *insightRepository) CountRecurring(ctx context.Context, userID uuid.UUID) (int, error) {
	since := time.Now().UTC().AddDate(0, 0, -recurringWindowDays)

	var count int64
	err := r.db.WithContext(ctx).
		Table("(?) as recurring",
			r.db.Model(&model.TransactionModel{}).
				Joins("JOIN accounts ON accounts.id = transactions.account_id").
				Where("accounts.user_id = ? AND accounts.deleted_at IS NULL", userID).
				Where("transactions.type = ? AND transactions.date >= ?",
					string(entity.TransactionTypeExpense), since).
				Select("transactions.description, transactions.amount").
				Group("transactions.description, transactions.amount").
				Having("COUNT(*) >= ?", recurringMinOccurrences),
		).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
