package insight

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
)

// HealthRule computes a composite financial health score out of 100 from
// four weighted sub-scores: expense/income ratio (30), budget adherence (25),
// savings rate (25) and spending consistency (20). It registers last so the
// score reflects the same data the other rules already reported on.
type HealthRule struct {
	repo  Repository
	clock adapter.Clock
}

// NewHealthRule creates a new HealthRule instance.
func NewHealthRule(repo Repository, clock adapter.Clock) *HealthRule {
	return &HealthRule{repo: repo, clock: clock}
}

func (r *HealthRule) Name() string { return "Financial Health" }

func (r *HealthRule) Description() string {
	return "Scores overall financial health from spending, budgets, savings and consistency"
}

// Run never returns an error: when the underlying data cannot be read it
// emits a single meta alert instead, so the other rules' output survives.
func (r *HealthRule) Run(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, error) {
	results, err := r.evaluate(ctx, userID)
	if err != nil {
		return []entity.RuleResult{{
			Type:    entity.RuleResultMeta,
			Message: "Not enough data to compute your financial health score yet",
		}}, nil
	}
	return results, nil
}

func (r *HealthRule) evaluate(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, error) {
	now := r.clock.Now()
	monthStart, _ := monthBounds(now, 0)

	income, err := r.repo.SumByType(ctx, userID, entity.TransactionTypeIncome, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}
	expense, err := r.repo.SumByType(ctx, userID, entity.TransactionTypeExpense, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	ratio := expenseIncomeRatio(income, expense)
	ratioScore := scoreExpenseRatio(ratio)

	overruns, budgetScore, err := r.scoreBudgetAdherence(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	savingsRate := 0.0
	if income.IsPositive() {
		savingsRate, _ = income.Sub(expense).Div(income).Mul(decimal.NewFromInt(100)).Float64()
	}
	savingsScore := scoreSavingsRate(savingsRate)

	consistencyScore, err := r.scoreConsistency(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	total := ratioScore + budgetScore + savingsScore + consistencyScore

	results := []entity.RuleResult{scoreResult(total, map[string]any{
		"score":            total,
		"ratioScore":       ratioScore,
		"budgetScore":      budgetScore,
		"savingsScore":     savingsScore,
		"consistencyScore": consistencyScore,
	})}

	if ratio > 90 {
		message := fmt.Sprintf("You're spending %.1f%% of your income this month", ratio)
		if ratio == noIncomeRatio {
			message = "You're spending with no recorded income this month"
		}
		results = append(results, entity.RuleResult{
			Type:    entity.RuleResultDanger,
			Message: message,
			Data: map[string]any{
				"ratio": ratio,
			},
			Action: "review_spending",
		})
	}
	if overruns >= 3 {
		results = append(results, entity.RuleResult{
			Type:    entity.RuleResultWarning,
			Message: fmt.Sprintf("%d of your budgets are over their limit", overruns),
			Data: map[string]any{
				"overruns": overruns,
			},
			Action: "review_budget",
		})
	}
	if savingsRate < 10 && income.IsPositive() {
		results = append(results, entity.RuleResult{
			Type:    entity.RuleResultInfo,
			Message: fmt.Sprintf("Your savings rate is %.1f%% this month, try to put aside at least 10%%", savingsRate),
			Data: map[string]any{
				"savingsRate": savingsRate,
			},
		})
	}

	return results, nil
}

// noIncomeRatio stands in for expense/income when there is no income at all.
// Finite so it survives JSON encoding, large enough to land in every
// worst-case band.
const noIncomeRatio = 999.0

// expenseIncomeRatio returns expense as a percentage of income. With no
// income, any spend at all counts as fully over.
func expenseIncomeRatio(income, expense decimal.Decimal) float64 {
	if income.IsPositive() {
		ratio, _ := expense.Div(income).Mul(decimal.NewFromInt(100)).Float64()
		return ratio
	}
	if expense.IsPositive() {
		return noIncomeRatio
	}
	return 0
}

func scoreExpenseRatio(ratio float64) int {
	switch {
	case ratio <= 50:
		return 30
	case ratio <= 70:
		return 25
	case ratio <= 90:
		return 15
	case ratio <= 100:
		return 5
	default:
		return 0
	}
}

// scoreBudgetAdherence scores the fraction of budgets not over their limit
// within their current period window. Returns the overrun count and the
// sub-score. Users with no budgets get a flat 10.
func (r *HealthRule) scoreBudgetAdherence(ctx context.Context, userID uuid.UUID, now time.Time) (int, int, error) {
	budgets, err := r.repo.FindBudgetsByUser(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load budgets: %w", err)
	}
	if len(budgets) == 0 {
		return 0, 10, nil
	}

	overruns := 0
	for _, bc := range budgets {
		b := bc.Budget
		if b.LimitAmount.IsZero() {
			continue
		}
		spent, err := r.repo.SumExpenses(ctx, b.AccountID, b.CategoryID, b.PeriodStartDate, now)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to sum budget spend: %w", err)
		}
		if spent.GreaterThan(b.LimitAmount) {
			overruns++
		}
	}

	adherence := float64(len(budgets)-overruns) / float64(len(budgets)) * 100

	switch {
	case adherence >= 90:
		return overruns, 25, nil
	case adherence >= 75:
		return overruns, 20, nil
	case adherence >= 50:
		return overruns, 15, nil
	case adherence >= 25:
		return overruns, 10, nil
	default:
		return overruns, 5, nil
	}
}

// scoreConsistency scores the coefficient of variation of monthly spend over
// the trailing three months. Fewer than two months with any spend scores a
// flat 15.
func (r *HealthRule) scoreConsistency(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	var spends []float64
	for i := 0; i < 3; i++ {
		start, end := monthBounds(now, i)
		spend, err := r.repo.SumByType(ctx, userID, entity.TransactionTypeExpense, start, end)
		if err != nil {
			return 0, fmt.Errorf("failed to sum monthly spend: %w", err)
		}
		if spend.IsPositive() {
			value, _ := spend.Float64()
			spends = append(spends, value)
		}
	}

	if len(spends) < 2 {
		return 15, nil
	}

	mean := 0.0
	for _, s := range spends {
		mean += s
	}
	mean /= float64(len(spends))

	variance := 0.0
	for _, s := range spends {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(spends))

	cov := math.Sqrt(variance) / mean * 100

	switch {
	case cov <= 15:
		return 20, nil
	case cov <= 30:
		return 15, nil
	case cov <= 50:
		return 10, nil
	default:
		return 5, nil
	}
}

func scoreSavingsRate(rate float64) int {
	switch {
	case rate >= 30:
		return 25
	case rate >= 20:
		return 20
	case rate >= 10:
		return 15
	case rate >= 5:
		return 10
	case rate > 0:
		return 5
	default:
		return 0
	}
}

func scoreResult(total int, data map[string]any) entity.RuleResult {
	switch {
	case total >= 80:
		return entity.RuleResult{
			Type:    entity.RuleResultSuccess,
			Message: fmt.Sprintf("Excellent financial health: %d/100", total),
			Data:    data,
		}
	case total >= 60:
		return entity.RuleResult{
			Type:    entity.RuleResultSuccess,
			Message: fmt.Sprintf("Good financial health: %d/100", total),
			Data:    data,
		}
	case total >= 40:
		return entity.RuleResult{
			Type:    entity.RuleResultWarning,
			Message: fmt.Sprintf("Average financial health: %d/100", total),
			Data:    data,
		}
	default:
		return entity.RuleResult{
			Type:    entity.RuleResultDanger,
			Message: fmt.Sprintf("Your financial health needs attention: %d/100", total),
			Data:    data,
		}
	}
}
