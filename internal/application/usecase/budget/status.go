// Package budget contains budget-related use cases.
package budget

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// StatusLevel classifies how far into its limit a budget is.
type StatusLevel string

const (
	StatusSafe     StatusLevel = "safe"
	StatusWarning  StatusLevel = "warning"
	StatusExceeded StatusLevel = "exceeded"
)

// Thresholds (percent of limit) for status classification. Comparisons use
// the unrounded percentage.
const (
	warningThreshold  = 80.0
	exceededThreshold = 100.0
)

// Status is a read-only projection of a budget's position within its current
// period. Deriving it never mutates the ledger row.
type Status struct {
	Spent      decimal.Decimal
	Limit      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage float64
	Status     StatusLevel
	Warning    *string
	PeriodEnd  time.Time
}

// ProjectStatus derives the status for a budget whose window is already
// current (callers run ResetIfNeeded first). A zero limit means the budget is
// not meaningfully configured and yields no status at all.
func ProjectStatus(budget *entity.Budget) *Status {
	if budget == nil || budget.LimitAmount.IsZero() {
		return nil
	}

	spent := budget.Amount
	limit := budget.LimitAmount
	percentage := spent.InexactFloat64() / limit.InexactFloat64() * 100

	remaining := limit.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	status := &Status{
		Spent:      spent,
		Limit:      limit,
		Remaining:  remaining,
		Percentage: math.Round(percentage*100) / 100,
		PeriodEnd:  budget.PeriodEnd(),
	}

	switch {
	case percentage >= exceededThreshold:
		status.Status = StatusExceeded
		msg := fmt.Sprintf(
			"Budget exceeded: spent %s of %s (%.1f%%)",
			spent.StringFixed(2), limit.StringFixed(2), percentage,
		)
		status.Warning = &msg
	case percentage >= warningThreshold:
		status.Status = StatusWarning
		msg := fmt.Sprintf(
			"Approaching budget limit: spent %s of %s (%.1f%%), %s remaining",
			spent.StringFixed(2), limit.StringFixed(2), percentage, remaining.StringFixed(2),
		)
		status.Warning = &msg
	default:
		status.Status = StatusSafe
	}

	return status
}
