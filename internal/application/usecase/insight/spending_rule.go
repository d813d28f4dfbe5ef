package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
)

// SpendingRule compares the current month-to-date spend against the full
// previous month, overall and per category, and surfaces recurring charges.
type SpendingRule struct {
	repo  Repository
	clock adapter.Clock
}

// NewSpendingRule creates a new SpendingRule instance.
func NewSpendingRule(repo Repository, clock adapter.Clock) *SpendingRule {
	return &SpendingRule{repo: repo, clock: clock}
}

func (r *SpendingRule) Name() string { return "Spending Patterns" }

func (r *SpendingRule) Description() string {
	return "Compares current spending against last month, overall and per category"
}

func (r *SpendingRule) Run(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, error) {
	now := r.clock.Now()
	monthStart, _ := monthBounds(now, 0)
	prevStart, prevEnd := monthBounds(now, 1)

	current, err := r.repo.SumByType(ctx, userID, entity.TransactionTypeExpense, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum current month spend: %w", err)
	}
	previous, err := r.repo.SumByType(ctx, userID, entity.TransactionTypeExpense, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum previous month spend: %w", err)
	}

	results := make([]entity.RuleResult, 0)

	if previous.IsPositive() {
		change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
		pct, _ := change.Float64()

		if pct > 30 {
			results = append(results, entity.RuleResult{
				Type:    entity.RuleResultWarning,
				Message: fmt.Sprintf("Your spending is up %.1f%% compared to last month", pct),
				Data: map[string]any{
					"currentSpend":  current.StringFixed(2),
					"previousSpend": previous.StringFixed(2),
					"increase":      pct,
				},
				Action: "review_spending",
			})
		} else if pct < -20 {
			saved := previous.Sub(current)
			results = append(results, entity.RuleResult{
				Type:    entity.RuleResultSuccess,
				Message: fmt.Sprintf("Nice work, you saved %s compared to last month", saved.StringFixed(2)),
				Data: map[string]any{
					"currentSpend":  current.StringFixed(2),
					"previousSpend": previous.StringFixed(2),
					"saved":         saved.StringFixed(2),
				},
			})
		}
	}

	categoryResults, err := r.compareCategories(ctx, userID, monthStart, now, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	results = append(results, categoryResults...)

	recurring, err := r.repo.CountRecurring(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count recurring transactions: %w", err)
	}
	if recurring > 0 {
		results = append(results, entity.RuleResult{
			Type:    entity.RuleResultInfo,
			Message: fmt.Sprintf("You have %d recurring charges, review them to make sure they're all still needed", recurring),
			Data: map[string]any{
				"count": recurring,
			},
			Action: "review_recurring",
		})
	}

	return results, nil
}

// compareCategories flags categories whose month-to-date spend grew more
// than 40% over the previous month. Only categories with spend in both
// months are compared.
func (r *SpendingRule) compareCategories(
	ctx context.Context,
	userID uuid.UUID,
	currentStart, currentEnd, prevStart, prevEnd time.Time,
) ([]entity.RuleResult, error) {
	currentByCategory, err := r.repo.SumExpensesByCategory(ctx, userID, currentStart, currentEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum current month by category: %w", err)
	}
	previousByCategory, err := r.repo.SumExpensesByCategory(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum previous month by category: %w", err)
	}

	previousAmounts := make(map[uuid.UUID]decimal.Decimal, len(previousByCategory))
	for _, cs := range previousByCategory {
		previousAmounts[cs.CategoryID] = cs.Amount
	}

	results := make([]entity.RuleResult, 0)
	for _, cs := range currentByCategory {
		prev, ok := previousAmounts[cs.CategoryID]
		if !ok || !prev.IsPositive() || !cs.Amount.IsPositive() {
			continue
		}
		change := cs.Amount.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
		if pct, _ := change.Float64(); pct > 40 {
			results = append(results, entity.RuleResult{
				Type:     entity.RuleResultInfo,
				Category: cs.CategoryName,
				Message: fmt.Sprintf("Spending on %s is up %.1f%% compared to last month",
					cs.CategoryName, pct),
				Data: map[string]any{
					"currentSpend":  cs.Amount.StringFixed(2),
					"previousSpend": prev.StringFixed(2),
					"increase":      pct,
				},
			})
		}
	}

	return results, nil
}
