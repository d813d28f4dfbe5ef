package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
	"github.com/budgetwise/backend/internal/domain/period"
)

// fakeClock returns a fixed instant that tests can move.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

// fakeBudgetRepo is an in-memory BudgetRepository.
type fakeBudgetRepo struct {
	budgets    map[uuid.UUID]*entity.Budget
	updates    int
	deltaCalls int
}

func newFakeBudgetRepo(budgets ...*entity.Budget) *fakeBudgetRepo {
	repo := &fakeBudgetRepo{budgets: make(map[uuid.UUID]*entity.Budget)}
	for _, b := range budgets {
		repo.budgets[b.ID] = b
	}
	return repo
}

func (r *fakeBudgetRepo) Create(_ context.Context, b *entity.Budget) error {
	r.budgets[b.ID] = b
	return nil
}

func (r *fakeBudgetRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Budget, error) {
	b, ok := r.budgets[id]
	if !ok {
		return nil, domainerror.ErrBudgetNotFound
	}
	return b, nil
}

func (r *fakeBudgetRepo) FindByAccountID(_ context.Context, accountID uuid.UUID) ([]*entity.Budget, error) {
	var out []*entity.Budget
	for _, b := range r.budgets {
		if b.AccountID == accountID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBudgetRepo) FindByAccountAndCategory(_ context.Context, accountID, categoryID uuid.UUID) (*entity.Budget, error) {
	for _, b := range r.budgets {
		if b.AccountID == accountID && b.CategoryID == categoryID {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBudgetRepo) ExistsByAccountAndCategory(ctx context.Context, accountID, categoryID uuid.UUID) (bool, error) {
	b, _ := r.FindByAccountAndCategory(ctx, accountID, categoryID)
	return b != nil, nil
}

func (r *fakeBudgetRepo) Update(_ context.Context, b *entity.Budget) error {
	r.updates++
	r.budgets[b.ID] = b
	return nil
}

func (r *fakeBudgetRepo) ApplyDelta(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	r.deltaCalls++
	b, ok := r.budgets[id]
	if !ok {
		return domainerror.ErrBudgetNotFound
	}
	b.Amount = b.Amount.Add(delta)
	return nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.budgets, id)
	return nil
}

func newTestBudget(p period.Type, limit int64, now time.Time) *entity.Budget {
	return entity.NewBudget(uuid.New(), uuid.New(), decimal.NewFromInt(limit), p, now)
}

func TestLedgerResetIfNeeded(t *testing.T) {
	ctx := context.Background()

	t.Run("no reset inside the window", func(t *testing.T) {
		created := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
		b := newTestBudget(period.TypeMonthly, 1000, created)
		b.Amount = decimal.NewFromInt(250)

		clock := &fakeClock{now: time.Date(2024, time.March, 28, 23, 0, 0, 0, time.UTC)}
		repo := newFakeBudgetRepo(b)
		ledger := NewLedger(repo, clock)

		got, err := ledger.ResetIfNeeded(ctx, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(250)) {
			t.Errorf("amount changed without a rollover: %s", got.Amount)
		}
		if repo.updates != 0 {
			t.Errorf("expected no persistence call, got %d", repo.updates)
		}
	})

	t.Run("reset zeroes amount and advances the window", func(t *testing.T) {
		created := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
		b := newTestBudget(period.TypeMonthly, 1000, created)
		b.Amount = decimal.NewFromInt(250)

		clock := &fakeClock{now: time.Date(2024, time.April, 2, 8, 0, 0, 0, time.UTC)}
		repo := newFakeBudgetRepo(b)
		ledger := NewLedger(repo, clock)

		got, err := ledger.ResetIfNeeded(ctx, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.IsZero() {
			t.Errorf("expected zero amount after reset, got %s", got.Amount)
		}
		wantStart := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		if !got.PeriodStartDate.Equal(wantStart) {
			t.Errorf("period start = %v, want %v", got.PeriodStartDate, wantStart)
		}
		if repo.updates != 1 {
			t.Errorf("expected exactly one persistence call, got %d", repo.updates)
		}
	})

	t.Run("reset is idempotent for the same instant", func(t *testing.T) {
		created := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
		b := newTestBudget(period.TypeMonthly, 1000, created)
		b.Amount = decimal.NewFromInt(250)

		clock := &fakeClock{now: time.Date(2024, time.April, 2, 8, 0, 0, 0, time.UTC)}
		repo := newFakeBudgetRepo(b)
		ledger := NewLedger(repo, clock)

		first, err := ledger.ResetIfNeeded(ctx, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := ledger.ResetIfNeeded(ctx, first)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !second.PeriodStartDate.Equal(first.PeriodStartDate) || !second.Amount.IsZero() {
			t.Error("second reset with the same clock reading changed the budget")
		}
		if repo.updates != 1 {
			t.Errorf("expected one persistence call, got %d", repo.updates)
		}
	})

	t.Run("weekly reset triggers at exactly seven elapsed days", func(t *testing.T) {
		// Budget anchored on a Monday: rollover is elapsed-time based, so it
		// happens 7*24h later, not at the next calendar Sunday.
		start := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
		b := newTestBudget(period.TypeWeekly, 500, start)
		b.PeriodStartDate = start
		b.Amount = decimal.NewFromInt(100)

		repo := newFakeBudgetRepo(b)
		clock := &fakeClock{now: start.Add(7*24*time.Hour - time.Millisecond)}
		ledger := NewLedger(repo, clock)

		got, err := ledger.ResetIfNeeded(ctx, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Amount.IsZero() {
			t.Error("reset fired one millisecond before a full week")
		}

		clock.now = start.Add(7 * 24 * time.Hour)
		got, err = ledger.ResetIfNeeded(ctx, got)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.IsZero() {
			t.Error("reset did not fire at exactly 7*24h")
		}
	})
}

func TestLedgerAdjustAmount(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	t.Run("missing budget is a silent no-op", func(t *testing.T) {
		repo := newFakeBudgetRepo()
		ledger := NewLedger(repo, &fakeClock{now: now})

		got, err := ledger.AdjustAmount(ctx, uuid.New(), uuid.New(), decimal.NewFromInt(10), entity.TransactionTypeExpense)
		if err != nil {
			t.Fatalf("expected silent no-op, got error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil budget, got %+v", got)
		}
	})

	t.Run("expense delta accumulates", func(t *testing.T) {
		b := newTestBudget(period.TypeMonthly, 1000, now)
		repo := newFakeBudgetRepo(b)
		ledger := NewLedger(repo, &fakeClock{now: now})

		got, err := ledger.AdjustAmount(ctx, b.AccountID, b.CategoryID, decimal.NewFromInt(75), entity.TransactionTypeExpense)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(75)) {
			t.Errorf("amount = %s, want 75", got.Amount)
		}
	})

	t.Run("plus then minus round-trips to the original amount", func(t *testing.T) {
		b := newTestBudget(period.TypeMonthly, 1000, now)
		b.Amount = decimal.NewFromInt(200)
		repo := newFakeBudgetRepo(b)
		ledger := NewLedger(repo, &fakeClock{now: now})

		if _, err := ledger.AdjustAmount(ctx, b.AccountID, b.CategoryID, decimal.NewFromInt(130), entity.TransactionTypeExpense); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := ledger.AdjustAmount(ctx, b.AccountID, b.CategoryID, decimal.NewFromInt(-130), entity.TransactionTypeExpense)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(200)) {
			t.Errorf("amount = %s, want 200 after round-trip", got.Amount)
		}
	})

	t.Run("income never changes the running amount", func(t *testing.T) {
		b := newTestBudget(period.TypeMonthly, 1000, now)
		b.Amount = decimal.NewFromInt(400)
		repo := newFakeBudgetRepo(b)
		ledger := NewLedger(repo, &fakeClock{now: now})

		got, err := ledger.AdjustAmount(ctx, b.AccountID, b.CategoryID, decimal.NewFromInt(999), entity.TransactionTypeIncome)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(400)) {
			t.Errorf("income adjusted the ledger: amount = %s, want 400", got.Amount)
		}
	})

	t.Run("rollover happens before the delta is applied", func(t *testing.T) {
		created := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
		b := newTestBudget(period.TypeDaily, 100, created)
		b.Amount = decimal.NewFromInt(90)

		nextDay := time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC)
		repo := newFakeBudgetRepo(b)
		ledger := NewLedger(repo, &fakeClock{now: nextDay})

		got, err := ledger.AdjustAmount(ctx, b.AccountID, b.CategoryID, decimal.NewFromInt(30), entity.TransactionTypeExpense)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(30)) {
			t.Errorf("amount = %s, want 30 (yesterday's spend must not carry over)", got.Amount)
		}
		wantStart := time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)
		if !got.PeriodStartDate.Equal(wantStart) {
			t.Errorf("period start = %v, want %v", got.PeriodStartDate, wantStart)
		}
	})

	t.Run("atomic mode applies the delta through a single increment", func(t *testing.T) {
		b := newTestBudget(period.TypeMonthly, 1000, now)
		repo := newFakeBudgetRepo(b)
		ledger := NewAtomicLedger(repo, &fakeClock{now: now})

		got, err := ledger.AdjustAmount(ctx, b.AccountID, b.CategoryID, decimal.NewFromInt(60), entity.TransactionTypeExpense)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.deltaCalls != 1 {
			t.Errorf("expected one ApplyDelta call, got %d", repo.deltaCalls)
		}
		if !got.Amount.Equal(decimal.NewFromInt(60)) {
			t.Errorf("amount = %s, want 60", got.Amount)
		}
	})
}
