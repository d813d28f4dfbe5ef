package insight

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// fakeInsightRepo backs the rules with canned aggregates. Monthly sums are
// keyed by the month of the query's start instant.
type fakeInsightRepo struct {
	budgets []*entity.BudgetWithCategory
	// spentByPair maps "accountID/categoryID" to the expense sum returned
	// for that budget's window.
	spentByPair map[string]decimal.Decimal
	// incomeByMonth / expenseByMonth map "YYYY-MM" to the sum for that month.
	incomeByMonth  map[string]decimal.Decimal
	expenseByMonth map[string]decimal.Decimal
	// categoriesByMonth maps "YYYY-MM" to per-category expense aggregates.
	categoriesByMonth map[string][]CategorySpending
	recurring         int

	failAll bool
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{
		spentByPair:       make(map[string]decimal.Decimal),
		incomeByMonth:     make(map[string]decimal.Decimal),
		expenseByMonth:    make(map[string]decimal.Decimal),
		categoriesByMonth: make(map[string][]CategorySpending),
	}
}

func pairKey(accountID, categoryID uuid.UUID) string {
	return accountID.String() + "/" + categoryID.String()
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func (r *fakeInsightRepo) FindBudgetsByUser(_ context.Context, _ uuid.UUID) ([]*entity.BudgetWithCategory, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	return r.budgets, nil
}

func (r *fakeInsightRepo) SumExpenses(_ context.Context, accountID, categoryID uuid.UUID, _, _ time.Time) (decimal.Decimal, error) {
	if r.failAll {
		return decimal.Zero, errors.New("db down")
	}
	if sum, ok := r.spentByPair[pairKey(accountID, categoryID)]; ok {
		return sum, nil
	}
	return decimal.Zero, nil
}

func (r *fakeInsightRepo) SumByType(_ context.Context, _ uuid.UUID, transactionType entity.TransactionType, start, _ time.Time) (decimal.Decimal, error) {
	if r.failAll {
		return decimal.Zero, errors.New("db down")
	}
	var sums map[string]decimal.Decimal
	if transactionType == entity.TransactionTypeIncome {
		sums = r.incomeByMonth
	} else {
		sums = r.expenseByMonth
	}
	if sum, ok := sums[monthKey(start)]; ok {
		return sum, nil
	}
	return decimal.Zero, nil
}

func (r *fakeInsightRepo) SumExpensesByCategory(_ context.Context, _ uuid.UUID, start, _ time.Time) ([]CategorySpending, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	return r.categoriesByMonth[monthKey(start)], nil
}

func (r *fakeInsightRepo) CountRecurring(_ context.Context, _ uuid.UUID) (int, error) {
	if r.failAll {
		return 0, errors.New("db down")
	}
	return r.recurring, nil
}

type fakeCache struct {
	stored map[uuid.UUID][]entity.RuleResult
	gets   int
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[uuid.UUID][]entity.RuleResult)}
}

func (c *fakeCache) GetResults(_ context.Context, userID uuid.UUID) ([]entity.RuleResult, bool, error) {
	c.gets++
	results, ok := c.stored[userID]
	return results, ok, nil
}

func (c *fakeCache) SetResults(_ context.Context, userID uuid.UUID, results []entity.RuleResult) error {
	c.sets++
	c.stored[userID] = results
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	delete(c.stored, userID)
	return nil
}

// stubRule is a minimal rule for engine-level tests.
type stubRule struct {
	name    string
	results []entity.RuleResult
	err     error
	runs    int
}

func (s *stubRule) Name() string        { return s.name }
func (s *stubRule) Description() string { return "stub" }

func (s *stubRule) Run(_ context.Context, _ uuid.UUID) ([]entity.RuleResult, error) {
	s.runs++
	return s.results, s.err
}

func testClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
}

func TestEngineRunAllConcatenatesInOrder(t *testing.T) {
	first := &stubRule{name: "First", results: []entity.RuleResult{{Type: entity.RuleResultInfo, Message: "a"}}}
	second := &stubRule{name: "Second", results: []entity.RuleResult{{Type: entity.RuleResultInfo, Message: "b"}}}
	engine := NewEngine(nil, first, second)

	results, err := engine.RunAll(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Message != "a" || results[1].Message != "b" {
		t.Errorf("results out of order: %v", results)
	}
}

func TestEngineRunAllSkipsFailingRule(t *testing.T) {
	failing := &stubRule{name: "Broken", err: errors.New("boom")}
	healthy := &stubRule{name: "Healthy", results: []entity.RuleResult{{Type: entity.RuleResultInfo, Message: "ok"}}}
	engine := NewEngine(nil, failing, healthy)

	results, err := engine.RunAll(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != 1 || results[0].Message != "ok" {
		t.Errorf("results = %v, want only the healthy rule's output", results)
	}
	if healthy.runs != 1 {
		t.Errorf("healthy rule runs = %d, want 1", healthy.runs)
	}
}

func TestEngineRunAllUsesCache(t *testing.T) {
	rule := &stubRule{name: "Counted", results: []entity.RuleResult{{Type: entity.RuleResultInfo, Message: "x"}}}
	cache := newFakeCache()
	engine := NewEngine(cache, rule)
	userID := uuid.New()

	if _, err := engine.RunAll(context.Background(), userID); err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if _, err := engine.RunAll(context.Background(), userID); err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if rule.runs != 1 {
		t.Errorf("rule runs = %d, want 1 (second call served from cache)", rule.runs)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
}

func TestEngineRunRuleCaseInsensitive(t *testing.T) {
	repo := newFakeInsightRepo()
	engine := NewEngine(nil,
		NewBudgetRule(repo, testClock()),
		NewIncomeRule(repo, testClock()),
	)

	results, err := engine.RunRule(context.Background(), "BUDGET MONITORING", uuid.New())
	if err != nil {
		t.Fatalf("RunRule() error = %v", err)
	}
	if results == nil {
		t.Error("expected empty slice, not nil")
	}
}

func TestEngineRunRuleNotFound(t *testing.T) {
	engine := NewEngine(nil, &stubRule{name: "Only"})

	_, err := engine.RunRule(context.Background(), "nonexistent", uuid.New())
	var insErr *domainerror.InsightError
	if !errors.As(err, &insErr) {
		t.Fatalf("RunRule() error = %v, want InsightError", err)
	}
	if insErr.Code != domainerror.ErrCodeRuleNotFound {
		t.Errorf("code = %s, want %s", insErr.Code, domainerror.ErrCodeRuleNotFound)
	}
	if !errors.Is(err, domainerror.ErrRuleNotFound) {
		t.Error("error should unwrap to ErrRuleNotFound")
	}
}

func TestEngineListRulesDoesNotExecute(t *testing.T) {
	first := &stubRule{name: "First"}
	second := &stubRule{name: "Second"}
	engine := NewEngine(nil, first, second)

	infos := engine.ListRules()
	if len(infos) != 2 {
		t.Fatalf("infos = %d, want 2", len(infos))
	}
	if infos[0].Name != "First" || infos[1].Name != "Second" {
		t.Errorf("infos = %v", infos)
	}
	if first.runs != 0 || second.runs != 0 {
		t.Error("ListRules must not execute rules")
	}
}

func TestDefaultRuleNames(t *testing.T) {
	repo := newFakeInsightRepo()
	clock := testClock()
	rules := []Rule{
		NewBudgetRule(repo, clock),
		NewIncomeRule(repo, clock),
		NewSpendingRule(repo, clock),
		NewHealthRule(repo, clock),
	}
	want := []string{"Budget Monitoring", "Income Analysis", "Spending Patterns", "Financial Health"}
	for i, rule := range rules {
		if rule.Name() != want[i] {
			t.Errorf("rule %d name = %q, want %q", i, rule.Name(), want[i])
		}
		if rule.Description() == "" {
			t.Errorf("rule %q has empty description", rule.Name())
		}
	}
}

func ExampleEngine_ListRules() {
	repo := newFakeInsightRepo()
	clock := testClock()
	engine := NewEngine(nil,
		NewBudgetRule(repo, clock),
		NewIncomeRule(repo, clock),
		NewSpendingRule(repo, clock),
		NewHealthRule(repo, clock),
	)
	for _, info := range engine.ListRules() {
		fmt.Println(info.Name)
	}
	// Output:
	// Budget Monitoring
	// Income Analysis
	// Spending Patterns
	// Financial Health
}
