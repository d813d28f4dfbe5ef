package insight

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
)

// IncomeRule looks for income problems over the trailing three calendar
// months: sustained deficits, sharp income drops, and months with expenses
// but no recorded income.
type IncomeRule struct {
	repo  Repository
	clock adapter.Clock
}

// NewIncomeRule creates a new IncomeRule instance.
func NewIncomeRule(repo Repository, clock adapter.Clock) *IncomeRule {
	return &IncomeRule{repo: repo, clock: clock}
}

func (r *IncomeRule) Name() string { return "Income Analysis" }

func (r *IncomeRule) Description() string {
	return "Detects sustained deficits, income drops and months without income"
}

type monthlySummary struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

// Run evaluates the three checks independently; all of them can fire at once.
func (r *IncomeRule) Run(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, error) {
	now := r.clock.Now()

	// months[0] is the current month, months[1] and months[2] the two prior.
	var months [3]monthlySummary
	for i := range months {
		start, end := monthBounds(now, i)

		income, err := r.repo.SumByType(ctx, userID, entity.TransactionTypeIncome, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to sum income: %w", err)
		}
		expense, err := r.repo.SumByType(ctx, userID, entity.TransactionTypeExpense, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to sum expenses: %w", err)
		}
		months[i] = monthlySummary{income: income, expense: expense}
	}

	results := make([]entity.RuleResult, 0)

	// Sustained deficit: every one of the three months spent more than it
	// earned. Guarded on current-month income so a user who never records
	// income doesn't get a deficit alert on top of the no-income one.
	allDeficit := true
	totalDeficit := decimal.Zero
	for _, m := range months {
		if m.expense.LessThanOrEqual(m.income) {
			allDeficit = false
			break
		}
		totalDeficit = totalDeficit.Add(m.expense.Sub(m.income))
	}
	if allDeficit && months[0].income.IsPositive() {
		results = append(results, entity.RuleResult{
			Type:    entity.RuleResultDanger,
			Message: fmt.Sprintf("You've spent more than you earned for 3 months in a row, a total deficit of %s", totalDeficit.StringFixed(2)),
			Data: map[string]any{
				"totalDeficit": totalDeficit.StringFixed(2),
				"months":       3,
			},
			Action: "review_spending",
		})
	}

	// Sharp drop vs the previous month.
	if months[1].income.IsPositive() {
		decrease := months[1].income.Sub(months[0].income).
			Div(months[1].income).
			Mul(decimal.NewFromInt(100))
		if pct, _ := decrease.Float64(); pct > 30 {
			results = append(results, entity.RuleResult{
				Type:    entity.RuleResultWarning,
				Message: fmt.Sprintf("Your income dropped %.1f%% compared to last month", pct),
				Data: map[string]any{
					"currentIncome":  months[0].income.StringFixed(2),
					"previousIncome": months[1].income.StringFixed(2),
					"decrease":       pct,
				},
			})
		}
	}

	// Expenses with no recorded income this month.
	if months[0].income.IsZero() && months[0].expense.IsPositive() {
		results = append(results, entity.RuleResult{
			Type:    entity.RuleResultWarning,
			Message: "No income recorded this month but expenses exist",
			Data: map[string]any{
				"expense": months[0].expense.StringFixed(2),
			},
			Action: "record_income",
		})
	}

	return results, nil
}
