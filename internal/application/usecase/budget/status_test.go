package budget

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/domain/period"
)

func statusBudget(spent, limit int64) *entity.Budget {
	b := newTestBudget(period.TypeMonthly, limit, time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))
	b.Amount = decimal.NewFromInt(spent)
	return b
}

func TestProjectStatus(t *testing.T) {
	t.Run("zero limit yields no status", func(t *testing.T) {
		if got := ProjectStatus(statusBudget(500, 0)); got != nil {
			t.Errorf("expected nil status for zero limit, got %+v", got)
		}
	})

	t.Run("nil budget yields no status", func(t *testing.T) {
		if got := ProjectStatus(nil); got != nil {
			t.Errorf("expected nil status for nil budget, got %+v", got)
		}
	})

	t.Run("below warning threshold is safe with no message", func(t *testing.T) {
		got := ProjectStatus(statusBudget(790, 1000))
		if got.Status != StatusSafe {
			t.Errorf("status = %s, want safe", got.Status)
		}
		if got.Warning != nil {
			t.Errorf("expected no warning, got %q", *got.Warning)
		}
		if got.Percentage != 79 {
			t.Errorf("percentage = %v, want 79", got.Percentage)
		}
	})

	t.Run("warning message includes the remaining amount", func(t *testing.T) {
		got := ProjectStatus(statusBudget(950000, 1000000))
		if got.Status != StatusWarning {
			t.Errorf("status = %s, want warning", got.Status)
		}
		if got.Percentage != 95 {
			t.Errorf("percentage = %v, want 95", got.Percentage)
		}
		if got.Warning == nil || !strings.Contains(*got.Warning, "50000.00 remaining") {
			t.Errorf("warning message missing remaining amount: %v", got.Warning)
		}
	})

	t.Run("exceeded at and above the limit", func(t *testing.T) {
		got := ProjectStatus(statusBudget(1050000, 1000000))
		if got.Status != StatusExceeded {
			t.Errorf("status = %s, want exceeded", got.Status)
		}
		if got.Percentage != 105 {
			t.Errorf("percentage = %v, want 105", got.Percentage)
		}
		if got.Warning == nil || !strings.Contains(*got.Warning, "105.0%") {
			t.Errorf("warning message missing one-decimal percentage: %v", got.Warning)
		}
		if !got.Remaining.IsZero() {
			t.Errorf("remaining = %s, want 0 (never negative)", got.Remaining)
		}
	})

	t.Run("exactly the limit is exceeded", func(t *testing.T) {
		got := ProjectStatus(statusBudget(1000, 1000))
		if got.Status != StatusExceeded {
			t.Errorf("status = %s, want exceeded at 100%%", got.Status)
		}
	})

	t.Run("percentage is rounded to two decimals in the output", func(t *testing.T) {
		b := statusBudget(0, 3)
		b.Amount = decimal.NewFromInt(1)
		got := ProjectStatus(b)
		if got.Percentage != 33.33 {
			t.Errorf("percentage = %v, want 33.33", got.Percentage)
		}
	})

	t.Run("period end comes from the budget window", func(t *testing.T) {
		b := statusBudget(100, 1000)
		got := ProjectStatus(b)
		want := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
		if !got.PeriodEnd.Equal(want) {
			t.Errorf("period end = %v, want %v", got.PeriodEnd, want)
		}
	})
}

func TestProjectStatusMonotonic(t *testing.T) {
	// Increasing spend with a fixed limit never decreases the percentage and
	// never moves the status backwards along safe -> warning -> exceeded.
	rank := map[StatusLevel]int{StatusSafe: 0, StatusWarning: 1, StatusExceeded: 2}

	lastPct := -1.0
	lastRank := -1
	for spent := int64(0); spent <= 1500; spent += 50 {
		got := ProjectStatus(statusBudget(spent, 1000))
		if got.Percentage < lastPct {
			t.Fatalf("percentage decreased from %v to %v at spent=%d", lastPct, got.Percentage, spent)
		}
		if rank[got.Status] < lastRank {
			t.Fatalf("status moved backwards to %s at spent=%d", got.Status, spent)
		}
		lastPct = got.Percentage
		lastRank = rank[got.Status]
	}
}
