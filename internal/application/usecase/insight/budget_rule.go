package insight

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
)

// BudgetRule flags budgets that are exceeded or close to their limit.
type BudgetRule struct {
	repo  Repository
	clock adapter.Clock
}

// NewBudgetRule creates a new BudgetRule instance.
func NewBudgetRule(repo Repository, clock adapter.Clock) *BudgetRule {
	return &BudgetRule{repo: repo, clock: clock}
}

func (r *BudgetRule) Name() string { return "Budget Monitoring" }

func (r *BudgetRule) Description() string {
	return "Alerts when category budgets are exceeded or approaching their limit"
}

// Run checks every budget's spend within its current period window against
// its limit. Thresholds: 100% danger, 90% warning, 70% info.
func (r *BudgetRule) Run(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, error) {
	budgets, err := r.repo.FindBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	now := r.clock.Now()
	results := make([]entity.RuleResult, 0)

	for _, bc := range budgets {
		b := bc.Budget
		if b.LimitAmount.IsZero() {
			continue
		}

		spent, err := r.repo.SumExpenses(ctx, b.AccountID, b.CategoryID, b.PeriodStartDate, now)
		if err != nil {
			return nil, fmt.Errorf("failed to sum category spend: %w", err)
		}

		percentage, _ := spent.Div(b.LimitAmount).Mul(decimal.NewFromInt(100)).Float64()

		categoryName := ""
		if bc.Category != nil {
			categoryName = bc.Category.Name
		}

		data := map[string]any{
			"spent":      spent.StringFixed(2),
			"limit":      b.LimitAmount.StringFixed(2),
			"percentage": percentage,
		}

		switch {
		case percentage >= 100:
			data["overspent"] = spent.Sub(b.LimitAmount).StringFixed(2)
			results = append(results, entity.RuleResult{
				Type:     entity.RuleResultDanger,
				Category: categoryName,
				Message: fmt.Sprintf("You've exceeded your %s budget: spent %s of %s (%.1f%%)",
					categoryName, spent.StringFixed(2), b.LimitAmount.StringFixed(2), percentage),
				Data:   data,
				Action: "review_budget",
			})
		case percentage >= 90:
			data["remaining"] = b.LimitAmount.Sub(spent).StringFixed(2)
			results = append(results, entity.RuleResult{
				Type:     entity.RuleResultWarning,
				Category: categoryName,
				Message: fmt.Sprintf("Your %s budget is almost used up: %s of %s spent (%.1f%%)",
					categoryName, spent.StringFixed(2), b.LimitAmount.StringFixed(2), percentage),
				Data:   data,
				Action: "review_budget",
			})
		case percentage >= 70:
			data["remaining"] = b.LimitAmount.Sub(spent).StringFixed(2)
			results = append(results, entity.RuleResult{
				Type:     entity.RuleResultInfo,
				Category: categoryName,
				Message: fmt.Sprintf("You've used %.1f%% of your %s budget, %s remaining",
					percentage, categoryName, b.LimitAmount.Sub(spent).StringFixed(2)),
				Data: data,
			})
		}
	}

	return results, nil
}
