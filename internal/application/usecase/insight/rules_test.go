package insight

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/domain/period"
)

func addBudgetFixture(repo *fakeInsightRepo, clock *fakeClock, name string, limit, spent int64) *entity.Budget {
	accountID := uuid.New()
	categoryID := uuid.New()
	b := &entity.Budget{
		ID:              uuid.New(),
		AccountID:       accountID,
		CategoryID:      categoryID,
		LimitAmount:     decimal.NewFromInt(limit),
		Amount:          decimal.NewFromInt(spent),
		Period:          period.TypeMonthly,
		PeriodStartDate: period.Start(period.TypeMonthly, clock.now),
	}
	repo.budgets = append(repo.budgets, &entity.BudgetWithCategory{
		Budget:   b,
		Category: &entity.Category{ID: categoryID, Name: name},
	})
	repo.spentByPair[pairKey(accountID, categoryID)] = decimal.NewFromInt(spent)
	return b
}

func resultTypes(results []entity.RuleResult) []entity.RuleResultType {
	types := make([]entity.RuleResultType, 0, len(results))
	for _, r := range results {
		types = append(types, r.Type)
	}
	return types
}

func hasType(results []entity.RuleResult, t entity.RuleResultType) bool {
	for _, r := range results {
		if r.Type == t {
			return true
		}
	}
	return false
}

func TestBudgetRuleThresholds(t *testing.T) {
	tests := []struct {
		name     string
		limit    int64
		spent    int64
		wantType entity.RuleResultType
		wantNone bool
	}{
		{name: "exceeded", limit: 1000, spent: 1000, wantType: entity.RuleResultDanger},
		{name: "overspent", limit: 1000, spent: 1300, wantType: entity.RuleResultDanger},
		{name: "almost used up", limit: 1000, spent: 950, wantType: entity.RuleResultWarning},
		{name: "at ninety", limit: 1000, spent: 900, wantType: entity.RuleResultWarning},
		{name: "seventy percent", limit: 1000, spent: 700, wantType: entity.RuleResultInfo},
		{name: "under seventy", limit: 1000, spent: 699, wantNone: true},
		{name: "zero limit skipped", limit: 0, spent: 500, wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := testClock()
			repo := newFakeInsightRepo()
			addBudgetFixture(repo, clock, "Groceries", tt.limit, tt.spent)
			rule := NewBudgetRule(repo, clock)

			results, err := rule.Run(context.Background(), uuid.New())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if tt.wantNone {
				if len(results) != 0 {
					t.Fatalf("results = %v, want none", results)
				}
				return
			}
			if len(results) != 1 {
				t.Fatalf("results = %d, want 1", len(results))
			}
			if results[0].Type != tt.wantType {
				t.Errorf("type = %s, want %s", results[0].Type, tt.wantType)
			}
			if results[0].Category != "Groceries" {
				t.Errorf("category = %q", results[0].Category)
			}
		})
	}
}

func TestBudgetRuleDangerCarriesOverspent(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	addBudgetFixture(repo, clock, "Dining", 1000, 1250)
	rule := NewBudgetRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Data["overspent"] != "250.00" {
		t.Errorf("overspent = %v, want 250.00", results[0].Data["overspent"])
	}
	if _, ok := results[0].Data["remaining"]; ok {
		t.Error("danger alert must not carry remaining")
	}
}

func TestBudgetRuleWarningCarriesRemaining(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	addBudgetFixture(repo, clock, "Dining", 1000, 920)
	rule := NewBudgetRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Data["remaining"] != "80.00" {
		t.Errorf("remaining = %v, want 80.00", results[0].Data["remaining"])
	}
}

func TestIncomeRuleDeficitRequiresCurrentIncome(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	// Three months of expenses with zero income: the deficit alert must not
	// fire, but the no-income warning must.
	for _, month := range []string{"2024-06", "2024-05", "2024-04"} {
		repo.incomeByMonth[month] = decimal.Zero
		repo.expenseByMonth[month] = decimal.NewFromInt(500)
	}
	rule := NewIncomeRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if hasType(results, entity.RuleResultDanger) {
		t.Errorf("deficit danger fired without current income: %v", resultTypes(results))
	}
	if !hasType(results, entity.RuleResultWarning) {
		t.Errorf("no-income warning missing: %v", resultTypes(results))
	}
}

func TestIncomeRuleSustainedDeficit(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	for _, month := range []string{"2024-06", "2024-05", "2024-04"} {
		repo.incomeByMonth[month] = decimal.NewFromInt(1000)
		repo.expenseByMonth[month] = decimal.NewFromInt(1400)
	}
	rule := NewIncomeRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !hasType(results, entity.RuleResultDanger) {
		t.Fatalf("expected deficit danger: %v", resultTypes(results))
	}
	for _, r := range results {
		if r.Type == entity.RuleResultDanger {
			if r.Data["totalDeficit"] != "1200.00" {
				t.Errorf("totalDeficit = %v, want 1200.00", r.Data["totalDeficit"])
			}
		}
	}
}

func TestIncomeRuleOneSurplusMonthBlocksDeficit(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	for _, month := range []string{"2024-06", "2024-05"} {
		repo.incomeByMonth[month] = decimal.NewFromInt(1000)
		repo.expenseByMonth[month] = decimal.NewFromInt(1400)
	}
	repo.incomeByMonth["2024-04"] = decimal.NewFromInt(2000)
	repo.expenseByMonth["2024-04"] = decimal.NewFromInt(500)
	rule := NewIncomeRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if hasType(results, entity.RuleResultDanger) {
		t.Errorf("deficit danger fired with a surplus month in the window: %v", resultTypes(results))
	}
}

func TestIncomeRuleDropWarning(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.incomeByMonth["2024-06"] = decimal.NewFromInt(600)
	repo.incomeByMonth["2024-05"] = decimal.NewFromInt(1000)
	rule := NewIncomeRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !hasType(results, entity.RuleResultWarning) {
		t.Fatalf("expected drop warning: %v", resultTypes(results))
	}
}

func TestIncomeRuleThirtyPercentDropIsNotEnough(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	// Exactly 30% down: strictly-greater comparison, no alert.
	repo.incomeByMonth["2024-06"] = decimal.NewFromInt(700)
	repo.incomeByMonth["2024-05"] = decimal.NewFromInt(1000)
	rule := NewIncomeRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none at exactly 30%%", resultTypes(results))
	}
}

func TestSpendingRuleIncreaseWarning(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.expenseByMonth["2024-06"] = decimal.NewFromInt(1400)
	repo.expenseByMonth["2024-05"] = decimal.NewFromInt(1000)
	rule := NewSpendingRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !hasType(results, entity.RuleResultWarning) {
		t.Fatalf("expected increase warning: %v", resultTypes(results))
	}
}

func TestSpendingRuleDecreaseSuccess(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.expenseByMonth["2024-06"] = decimal.NewFromInt(700)
	repo.expenseByMonth["2024-05"] = decimal.NewFromInt(1000)
	rule := NewSpendingRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !hasType(results, entity.RuleResultSuccess) {
		t.Fatalf("expected savings success: %v", resultTypes(results))
	}
	for _, r := range results {
		if r.Type == entity.RuleResultSuccess {
			if r.Data["saved"] != "300.00" {
				t.Errorf("saved = %v, want 300.00", r.Data["saved"])
			}
		}
	}
}

func TestSpendingRuleNoPreviousMonthNoComparison(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.expenseByMonth["2024-06"] = decimal.NewFromInt(2000)
	rule := NewSpendingRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none without a previous month", resultTypes(results))
	}
}

func TestSpendingRuleCategoryIncrease(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	diningID := uuid.New()
	groceriesID := uuid.New()
	repo.categoriesByMonth["2024-06"] = []CategorySpending{
		{CategoryID: diningID, CategoryName: "Dining", Amount: decimal.NewFromInt(300)},
		{CategoryID: groceriesID, CategoryName: "Groceries", Amount: decimal.NewFromInt(420)},
	}
	repo.categoriesByMonth["2024-05"] = []CategorySpending{
		{CategoryID: diningID, CategoryName: "Dining", Amount: decimal.NewFromInt(200)},
		{CategoryID: groceriesID, CategoryName: "Groceries", Amount: decimal.NewFromInt(400)},
	}
	rule := NewSpendingRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Dining is up 50% (alert); groceries only 5% (quiet).
	if len(results) != 1 {
		t.Fatalf("results = %v, want 1 category alert", results)
	}
	if results[0].Category != "Dining" || results[0].Type != entity.RuleResultInfo {
		t.Errorf("result = %+v", results[0])
	}
}

func TestSpendingRuleRecurringInfo(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.recurring = 4
	rule := NewSpendingRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 || results[0].Data["count"] != 4 {
		t.Errorf("results = %v, want one recurring info with count 4", results)
	}
}

func TestHealthRuleZeroBudgetsFlatScore(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.incomeByMonth["2024-06"] = decimal.NewFromInt(1000)
	repo.expenseByMonth["2024-06"] = decimal.NewFromInt(400)
	rule := NewHealthRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	score := results[0]
	if score.Data["budgetScore"] != 10 {
		t.Errorf("budgetScore = %v, want flat 10 with zero budgets", score.Data["budgetScore"])
	}
}

func TestHealthRuleSingleBudgetAtHalf(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.incomeByMonth["2024-06"] = decimal.NewFromInt(1000)
	repo.expenseByMonth["2024-06"] = decimal.NewFromInt(400)
	addBudgetFixture(repo, clock, "Groceries", 1000, 500)
	rule := NewHealthRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	score := results[0]
	if score.Data["budgetScore"] != 25 {
		t.Errorf("budgetScore = %v, want 25 with full adherence", score.Data["budgetScore"])
	}
}

func TestHealthRuleSubScores(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	// Income 1000, expense 400: ratio 40% -> 30; savings 60% -> 25.
	repo.incomeByMonth["2024-06"] = decimal.NewFromInt(1000)
	repo.expenseByMonth["2024-06"] = decimal.NewFromInt(400)
	// Single month of spend history: consistency flat 15.
	addBudgetFixture(repo, clock, "Groceries", 1000, 500)
	rule := NewHealthRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	score := results[0]
	if score.Data["ratioScore"] != 30 {
		t.Errorf("ratioScore = %v, want 30", score.Data["ratioScore"])
	}
	if score.Data["savingsScore"] != 25 {
		t.Errorf("savingsScore = %v, want 25", score.Data["savingsScore"])
	}
	if score.Data["consistencyScore"] != 15 {
		t.Errorf("consistencyScore = %v, want flat 15 with short history", score.Data["consistencyScore"])
	}
	// 30+25+25+15 = 95: excellent band.
	if score.Data["score"] != 95 {
		t.Errorf("score = %v, want 95", score.Data["score"])
	}
	if score.Type != entity.RuleResultSuccess {
		t.Errorf("type = %s, want success", score.Type)
	}
}

func TestHealthRuleConsistencyBands(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.incomeByMonth["2024-06"] = decimal.NewFromInt(1000)
	// Identical spend each month: CoV 0 -> 20.
	for _, month := range []string{"2024-06", "2024-05", "2024-04"} {
		repo.expenseByMonth[month] = decimal.NewFromInt(500)
	}
	rule := NewHealthRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Data["consistencyScore"] != 20 {
		t.Errorf("consistencyScore = %v, want 20 for flat spend", results[0].Data["consistencyScore"])
	}
}

func TestHealthRuleStandaloneAlerts(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	// Spending 95% of income: ratio danger + low-savings info.
	repo.incomeByMonth["2024-06"] = decimal.NewFromInt(1000)
	repo.expenseByMonth["2024-06"] = decimal.NewFromInt(950)
	// Three overrun budgets: overrun warning.
	for i := 0; i < 3; i++ {
		addBudgetFixture(repo, clock, "Over", 100, 200)
	}
	rule := NewHealthRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !hasType(results, entity.RuleResultDanger) {
		t.Errorf("expected ratio danger: %v", resultTypes(results))
	}
	if !hasType(results, entity.RuleResultWarning) {
		t.Errorf("expected overrun warning: %v", resultTypes(results))
	}
	if !hasType(results, entity.RuleResultInfo) {
		t.Errorf("expected low-savings info: %v", resultTypes(results))
	}
}

func TestHealthRuleMetaAlertOnFailure(t *testing.T) {
	clock := testClock()
	repo := newFakeInsightRepo()
	repo.failAll = true
	rule := NewHealthRule(repo, clock)

	results, err := rule.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v, health rule must swallow failures", err)
	}
	if len(results) != 1 || results[0].Type != entity.RuleResultMeta {
		t.Errorf("results = %v, want a single meta alert", results)
	}
}
