package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/application/usecase/budget"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
	"github.com/budgetwise/backend/internal/domain/period"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*entity.Transaction
	deleted      map[uuid.UUID]bool
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: make(map[uuid.UUID]*entity.Transaction),
		deleted:      make(map[uuid.UUID]bool),
	}
}

func (r *fakeTransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.transactions[t.ID] = t
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	t, ok := r.transactions[id]
	if !ok || r.deleted[id] {
		return nil, errors.New("record not found")
	}
	return t, nil
}

func (r *fakeTransactionRepo) FindByFilter(_ context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	var matched []*entity.TransactionWithCategory
	for _, t := range r.transactions {
		if r.deleted[t.ID] || t.AccountID != filter.AccountID {
			continue
		}
		matched = append(matched, &entity.TransactionWithCategory{Transaction: t})
	}
	return &adapter.TransactionListResult{
		Transactions: matched,
		Total:        int64(len(matched)),
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   1,
	}, nil
}

func (r *fakeTransactionRepo) GetTotals(_ context.Context, filter adapter.TransactionFilter) (*entity.TransactionTotals, error) {
	totals := &entity.TransactionTotals{
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}
	for _, t := range r.transactions {
		if r.deleted[t.ID] || t.AccountID != filter.AccountID {
			continue
		}
		if t.Type == entity.TransactionTypeIncome {
			totals.IncomeTotal = totals.IncomeTotal.Add(t.Amount)
		} else {
			totals.ExpenseTotal = totals.ExpenseTotal.Add(t.Amount)
		}
	}
	totals.NetTotal = totals.IncomeTotal.Sub(totals.ExpenseTotal)
	return totals, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, t *entity.Transaction) error {
	r.transactions[t.ID] = t
	return nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted[id] = true
	return nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*entity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*entity.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return a, nil
}

func (r *fakeAccountRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	var out []*entity.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, a *entity.Account) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) HasTransactions(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return c, nil
}

func (r *fakeCategoryRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) ExistsByNameAndUser(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) IsInUse(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeBudgetRepo struct {
	budgets map[uuid.UUID]*entity.Budget
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: make(map[uuid.UUID]*entity.Budget)}
}

func (r *fakeBudgetRepo) Create(_ context.Context, b *entity.Budget) error {
	r.budgets[b.ID] = b
	return nil
}

func (r *fakeBudgetRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Budget, error) {
	b, ok := r.budgets[id]
	if !ok {
		return nil, errors.New("record not found")
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

func (r *fakeBudgetRepo) ExistsByAccountAndCategory(_ context.Context, accountID, categoryID uuid.UUID) (bool, error) {
	b, _ := r.FindByAccountAndCategory(context.Background(), accountID, categoryID)
	return b != nil, nil
}

func (r *fakeBudgetRepo) Update(_ context.Context, b *entity.Budget) error {
	r.budgets[b.ID] = b
	return nil
}

func (r *fakeBudgetRepo) ApplyDelta(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	b, ok := r.budgets[id]
	if !ok {
		return errors.New("record not found")
	}
	b.Amount = b.Amount.Add(delta)
	return nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.budgets, id)
	return nil
}

type fakeInsightCache struct {
	invalidations int
}

func (c *fakeInsightCache) GetResults(_ context.Context, _ uuid.UUID) ([]entity.RuleResult, bool, error) {
	return nil, false, nil
}

func (c *fakeInsightCache) SetResults(_ context.Context, _ uuid.UUID, _ []entity.RuleResult) error {
	return nil
}

func (c *fakeInsightCache) Invalidate(_ context.Context, _ uuid.UUID) error {
	c.invalidations++
	return nil
}

type fakeEmailService struct {
	queued []adapter.QueueBudgetAlertInput
}

func (s *fakeEmailService) QueueBudgetAlertEmail(_ context.Context, input adapter.QueueBudgetAlertInput) error {
	s.queued = append(s.queued, input)
	return nil
}

// coordinatorFixture wires a full set of fakes around the transaction use cases.
type coordinatorFixture struct {
	clock        *fakeClock
	transactions *fakeTransactionRepo
	accounts     *fakeAccountRepo
	categories   *fakeCategoryRepo
	users        *fakeUserRepo
	budgets      *fakeBudgetRepo
	cache        *fakeInsightCache
	email        *fakeEmailService
	ledger       *budget.Ledger

	userID     uuid.UUID
	accountID  uuid.UUID
	categoryID uuid.UUID
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()

	f := &coordinatorFixture{
		clock:        &fakeClock{now: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)},
		transactions: newFakeTransactionRepo(),
		accounts:     newFakeAccountRepo(),
		categories:   newFakeCategoryRepo(),
		users:        newFakeUserRepo(),
		budgets:      newFakeBudgetRepo(),
		cache:        &fakeInsightCache{},
		email:        &fakeEmailService{},
	}
	f.ledger = budget.NewLedger(f.budgets, f.clock)

	user := entity.NewUser("ana@example.com", "Ana", "hash", f.clock.now)
	f.users.users[user.ID] = user
	f.userID = user.ID

	account := entity.NewAccount(user.ID, "Checking", entity.AccountTypeChecking, "USD")
	f.accounts.accounts[account.ID] = account
	f.accountID = account.ID

	category := entity.NewCategory(user.ID, "Groceries", "", "#22c55e", "cart", entity.CategoryTypeExpense)
	f.categories.categories[category.ID] = category
	f.categoryID = category.ID

	return f
}

// addBudget installs a budget for the fixture's account/category pair.
func (f *coordinatorFixture) addBudget(limit int64) *entity.Budget {
	b := &entity.Budget{
		ID:              uuid.New(),
		AccountID:       f.accountID,
		CategoryID:      f.categoryID,
		LimitAmount:     decimal.NewFromInt(limit),
		Amount:          decimal.Zero,
		Period:          period.TypeMonthly,
		PeriodStartDate: period.Start(period.TypeMonthly, f.clock.now),
		CreatedAt:       f.clock.now,
		UpdatedAt:       f.clock.now,
	}
	f.budgets.budgets[b.ID] = b
	return b
}

func (f *coordinatorFixture) createUseCase() *CreateTransactionUseCase {
	return NewCreateTransactionUseCase(
		f.transactions, f.accounts, f.categories, f.users, f.ledger, f.cache, f.email,
	)
}

func TestCreateTransactionAppliesExpenseToBudget(t *testing.T) {
	f := newCoordinatorFixture(t)
	b := f.addBudget(1000)
	uc := f.createUseCase()

	output, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID:      f.userID,
		AccountID:   f.accountID,
		CategoryID:  f.categoryID,
		Date:        f.clock.now,
		Description: "weekly groceries",
		Amount:      decimal.NewFromInt(130),
		Type:        entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !b.Amount.Equal(decimal.NewFromInt(130)) {
		t.Errorf("budget amount = %s, want 130", b.Amount)
	}
	if output.BudgetStatus == nil {
		t.Fatal("expected budget status in output")
	}
	if output.BudgetStatus.Status != budget.StatusSafe {
		t.Errorf("status = %s, want safe", output.BudgetStatus.Status)
	}
	if output.Transaction == nil || output.Transaction.Category == nil {
		t.Fatal("expected transaction output with category")
	}
	if f.cache.invalidations != 1 {
		t.Errorf("insight cache invalidations = %d, want 1", f.cache.invalidations)
	}
}

func TestCreateTransactionIncomeLeavesBudgetAlone(t *testing.T) {
	f := newCoordinatorFixture(t)
	b := f.addBudget(1000)
	uc := f.createUseCase()

	output, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID:      f.userID,
		AccountID:   f.accountID,
		CategoryID:  f.categoryID,
		Date:        f.clock.now,
		Description: "salary",
		Amount:      decimal.NewFromInt(5000),
		Type:        entity.TransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !b.Amount.IsZero() {
		t.Errorf("budget amount = %s, want 0", b.Amount)
	}
	if output.BudgetStatus == nil {
		t.Error("income still reports the budget status for the pair")
	}
}

func TestCreateTransactionNoBudgetNoStatus(t *testing.T) {
	f := newCoordinatorFixture(t)
	uc := f.createUseCase()

	output, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID:      f.userID,
		AccountID:   f.accountID,
		CategoryID:  f.categoryID,
		Date:        f.clock.now,
		Description: "coffee",
		Amount:      decimal.NewFromInt(5),
		Type:        entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output.BudgetStatus != nil {
		t.Errorf("status = %+v, want nil when no budget exists", output.BudgetStatus)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	f := newCoordinatorFixture(t)
	uc := f.createUseCase()

	longDescription := make([]byte, MaxDescriptionLength+1)
	for i := range longDescription {
		longDescription[i] = 'x'
	}

	tests := []struct {
		name     string
		input    CreateTransactionInput
		wantCode domainerror.TransactionErrorCode
	}{
		{
			name: "invalid type",
			input: CreateTransactionInput{
				UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
				Amount: decimal.NewFromInt(10), Type: "transfer",
			},
			wantCode: domainerror.ErrCodeInvalidTransactionType,
		},
		{
			name: "zero amount",
			input: CreateTransactionInput{
				UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
				Amount: decimal.Zero, Type: entity.TransactionTypeExpense,
			},
			wantCode: domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name: "negative amount",
			input: CreateTransactionInput{
				UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
				Amount: decimal.NewFromInt(-10), Type: entity.TransactionTypeExpense,
			},
			wantCode: domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name: "description too long",
			input: CreateTransactionInput{
				UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
				Description: string(longDescription),
				Amount:      decimal.NewFromInt(10), Type: entity.TransactionTypeExpense,
			},
			wantCode: domainerror.ErrCodeDescriptionTooLong,
		},
		{
			name: "unknown account",
			input: CreateTransactionInput{
				UserID: f.userID, AccountID: uuid.New(), CategoryID: f.categoryID,
				Amount: decimal.NewFromInt(10), Type: entity.TransactionTypeExpense,
			},
			wantCode: domainerror.ErrCodeTxnAccountNotFound,
		},
		{
			name: "unknown category",
			input: CreateTransactionInput{
				UserID: f.userID, AccountID: f.accountID, CategoryID: uuid.New(),
				Amount: decimal.NewFromInt(10), Type: entity.TransactionTypeExpense,
			},
			wantCode: domainerror.ErrCodeTxnCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.input)
			var txnErr *domainerror.TransactionError
			if !errors.As(err, &txnErr) {
				t.Fatalf("Execute() error = %v, want TransactionError", err)
			}
			if txnErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", txnErr.Code, tt.wantCode)
			}
		})
	}
}

func TestCreateTransactionRejectsForeignAccount(t *testing.T) {
	f := newCoordinatorFixture(t)
	other := entity.NewAccount(uuid.New(), "Other", entity.AccountTypeChecking, "USD")
	f.accounts.accounts[other.ID] = other
	uc := f.createUseCase()

	_, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: other.ID, CategoryID: f.categoryID,
		Amount: decimal.NewFromInt(10), Type: entity.TransactionTypeExpense,
	})
	var txnErr *domainerror.TransactionError
	if !errors.As(err, &txnErr) || txnErr.Code != domainerror.ErrCodeNotAuthorizedTransaction {
		t.Fatalf("Execute() error = %v, want not-authorized", err)
	}
}

func TestCreateTransactionQueuesAlertOnExceededTransition(t *testing.T) {
	f := newCoordinatorFixture(t)
	b := f.addBudget(1000)
	b.Amount = decimal.NewFromInt(950)
	uc := f.createUseCase()

	_, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "big shop",
		Amount: decimal.NewFromInt(100), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(f.email.queued) != 1 {
		t.Fatalf("queued emails = %d, want 1", len(f.email.queued))
	}
	alert := f.email.queued[0]
	if alert.UserEmail != "ana@example.com" {
		t.Errorf("alert recipient = %s", alert.UserEmail)
	}
	if alert.CategoryName != "Groceries" {
		t.Errorf("alert category = %s", alert.CategoryName)
	}

	// Further spending on an already-exceeded budget stays quiet.
	_, err = uc.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "more",
		Amount: decimal.NewFromInt(50), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(f.email.queued) != 1 {
		t.Errorf("queued emails = %d, want still 1", len(f.email.queued))
	}
}

func TestCreateTransactionRespectsAlertOptOut(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.addBudget(100)
	f.users.users[f.userID].BudgetAlerts = false
	uc := f.createUseCase()

	_, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "overspend",
		Amount: decimal.NewFromInt(150), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(f.email.queued) != 0 {
		t.Errorf("queued emails = %d, want 0 when alerts disabled", len(f.email.queued))
	}
}

func TestUpdateTransactionReversesThenApplies(t *testing.T) {
	f := newCoordinatorFixture(t)
	b := f.addBudget(1000)
	createUC := f.createUseCase()

	created, err := createUC.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "groceries",
		Amount: decimal.NewFromInt(200), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	updateUC := NewUpdateTransactionUseCase(f.transactions, f.accounts, f.categories, f.ledger, f.cache)
	output, err := updateUC.Execute(context.Background(), UpdateTransactionInput{
		UserID:        f.userID,
		TransactionID: created.Transaction.ID,
		AccountID:     f.accountID,
		CategoryID:    f.categoryID,
		Date:          f.clock.now,
		Description:   "groceries (corrected)",
		Amount:        decimal.NewFromInt(120),
		Type:          entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("update error = %v", err)
	}

	if !b.Amount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("budget amount = %s, want 120 after reverse-then-apply", b.Amount)
	}
	if output.Transaction.Description != "groceries (corrected)" {
		t.Errorf("description = %s", output.Transaction.Description)
	}
}

func TestUpdateTransactionTypeFlipRemovesSpend(t *testing.T) {
	f := newCoordinatorFixture(t)
	b := f.addBudget(1000)
	createUC := f.createUseCase()

	created, err := createUC.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "refunded purchase",
		Amount: decimal.NewFromInt(300), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	updateUC := NewUpdateTransactionUseCase(f.transactions, f.accounts, f.categories, f.ledger, f.cache)
	_, err = updateUC.Execute(context.Background(), UpdateTransactionInput{
		UserID:        f.userID,
		TransactionID: created.Transaction.ID,
		AccountID:     f.accountID,
		CategoryID:    f.categoryID,
		Date:          f.clock.now,
		Description:   "refunded purchase",
		Amount:        decimal.NewFromInt(300),
		Type:          entity.TransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("update error = %v", err)
	}

	// Expense reversed out, income contributes nothing.
	if !b.Amount.IsZero() {
		t.Errorf("budget amount = %s, want 0 after flip to income", b.Amount)
	}
}

func TestUpdateTransactionMovesBetweenCategories(t *testing.T) {
	f := newCoordinatorFixture(t)
	groceriesBudget := f.addBudget(1000)

	dining := entity.NewCategory(f.userID, "Dining", "", "#ef4444", "utensils", entity.CategoryTypeExpense)
	f.categories.categories[dining.ID] = dining
	diningBudget := &entity.Budget{
		ID:              uuid.New(),
		AccountID:       f.accountID,
		CategoryID:      dining.ID,
		LimitAmount:     decimal.NewFromInt(500),
		Amount:          decimal.Zero,
		Period:          period.TypeMonthly,
		PeriodStartDate: period.Start(period.TypeMonthly, f.clock.now),
	}
	f.budgets.budgets[diningBudget.ID] = diningBudget

	createUC := f.createUseCase()
	created, err := createUC.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "restaurant",
		Amount: decimal.NewFromInt(80), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	updateUC := NewUpdateTransactionUseCase(f.transactions, f.accounts, f.categories, f.ledger, f.cache)
	output, err := updateUC.Execute(context.Background(), UpdateTransactionInput{
		UserID:        f.userID,
		TransactionID: created.Transaction.ID,
		AccountID:     f.accountID,
		CategoryID:    dining.ID,
		Date:          f.clock.now,
		Description:   "restaurant",
		Amount:        decimal.NewFromInt(80),
		Type:          entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("update error = %v", err)
	}

	if !groceriesBudget.Amount.IsZero() {
		t.Errorf("groceries budget = %s, want 0 after move", groceriesBudget.Amount)
	}
	if !diningBudget.Amount.Equal(decimal.NewFromInt(80)) {
		t.Errorf("dining budget = %s, want 80 after move", diningBudget.Amount)
	}
	if output.BudgetStatus == nil {
		t.Fatal("expected status for the destination budget")
	}
	if !output.BudgetStatus.Limit.Equal(decimal.NewFromInt(500)) {
		t.Errorf("status limit = %s, want the destination budget's limit", output.BudgetStatus.Limit)
	}
}

func TestUpdateTransactionNotFound(t *testing.T) {
	f := newCoordinatorFixture(t)
	updateUC := NewUpdateTransactionUseCase(f.transactions, f.accounts, f.categories, f.ledger, f.cache)

	_, err := updateUC.Execute(context.Background(), UpdateTransactionInput{
		UserID:        f.userID,
		TransactionID: uuid.New(),
		AccountID:     f.accountID,
		CategoryID:    f.categoryID,
		Amount:        decimal.NewFromInt(10),
		Type:          entity.TransactionTypeExpense,
	})
	var txnErr *domainerror.TransactionError
	if !errors.As(err, &txnErr) || txnErr.Code != domainerror.ErrCodeTransactionNotFound {
		t.Fatalf("Execute() error = %v, want not-found", err)
	}
}

func TestDeleteTransactionDefaultKeepsBudget(t *testing.T) {
	f := newCoordinatorFixture(t)
	b := f.addBudget(1000)
	createUC := f.createUseCase()

	created, err := createUC.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "groceries",
		Amount: decimal.NewFromInt(100), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	deleteUC := NewDeleteTransactionUseCase(f.transactions, f.accounts, f.ledger, f.cache, false)
	if err := deleteUC.Execute(context.Background(), DeleteTransactionInput{
		UserID:        f.userID,
		TransactionID: created.Transaction.ID,
	}); err != nil {
		t.Fatalf("delete error = %v", err)
	}

	if !b.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("budget amount = %s, want 100 (delete leaves spend until reset)", b.Amount)
	}
	if _, err := f.transactions.FindByID(context.Background(), created.Transaction.ID); err == nil {
		t.Error("transaction should be deleted")
	}
}

func TestDeleteTransactionAdjustOnDeleteReverses(t *testing.T) {
	f := newCoordinatorFixture(t)
	b := f.addBudget(1000)
	createUC := f.createUseCase()

	created, err := createUC.Execute(context.Background(), CreateTransactionInput{
		UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
		Date: f.clock.now, Description: "groceries",
		Amount: decimal.NewFromInt(100), Type: entity.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	deleteUC := NewDeleteTransactionUseCase(f.transactions, f.accounts, f.ledger, f.cache, true)
	if err := deleteUC.Execute(context.Background(), DeleteTransactionInput{
		UserID:        f.userID,
		TransactionID: created.Transaction.ID,
	}); err != nil {
		t.Fatalf("delete error = %v", err)
	}

	if !b.Amount.IsZero() {
		t.Errorf("budget amount = %s, want 0 with adjust-on-delete enabled", b.Amount)
	}
}

func TestListTransactionsClampsPagination(t *testing.T) {
	f := newCoordinatorFixture(t)
	uc := NewListTransactionsUseCase(f.transactions, f.accounts)

	output, err := uc.Execute(context.Background(), ListTransactionsInput{
		UserID:     f.userID,
		Filter:     adapter.TransactionFilter{AccountID: f.accountID},
		Pagination: adapter.TransactionPagination{Page: 0, Limit: 5000},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output.Page != defaultPage {
		t.Errorf("page = %d, want %d", output.Page, defaultPage)
	}
	if output.Limit != maxLimit {
		t.Errorf("limit = %d, want %d", output.Limit, maxLimit)
	}
}

func TestListTransactionsTotals(t *testing.T) {
	f := newCoordinatorFixture(t)
	createUC := f.createUseCase()

	for _, tc := range []struct {
		amount int64
		typ    entity.TransactionType
	}{
		{5000, entity.TransactionTypeIncome},
		{1200, entity.TransactionTypeExpense},
		{300, entity.TransactionTypeExpense},
	} {
		_, err := createUC.Execute(context.Background(), CreateTransactionInput{
			UserID: f.userID, AccountID: f.accountID, CategoryID: f.categoryID,
			Date: f.clock.now, Description: "entry",
			Amount: decimal.NewFromInt(tc.amount), Type: tc.typ,
		})
		if err != nil {
			t.Fatalf("create error = %v", err)
		}
	}

	uc := NewListTransactionsUseCase(f.transactions, f.accounts)
	output, err := uc.Execute(context.Background(), ListTransactionsInput{
		UserID: f.userID,
		Filter: adapter.TransactionFilter{AccountID: f.accountID},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !output.Totals.IncomeTotal.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("income total = %s, want 5000", output.Totals.IncomeTotal)
	}
	if !output.Totals.ExpenseTotal.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expense total = %s, want 1500", output.Totals.ExpenseTotal)
	}
	if !output.Totals.NetTotal.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("net total = %s, want 3500", output.Totals.NetTotal)
	}
	if output.Total != 3 {
		t.Errorf("total = %d, want 3", output.Total)
	}
}
