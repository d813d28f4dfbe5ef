// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/budgetwise/backend/config"
	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/application/usecase/account"
	"github.com/budgetwise/backend/internal/application/usecase/auth"
	"github.com/budgetwise/backend/internal/application/usecase/budget"
	"github.com/budgetwise/backend/internal/application/usecase/category"
	"github.com/budgetwise/backend/internal/application/usecase/insight"
	"github.com/budgetwise/backend/internal/application/usecase/transaction"
	"github.com/budgetwise/backend/internal/infra/cache"
	"github.com/budgetwise/backend/internal/infra/server/router"
	"github.com/budgetwise/backend/internal/integration/adapters"
	"github.com/budgetwise/backend/internal/integration/email"
	"github.com/budgetwise/backend/internal/integration/email/templates"
	"github.com/budgetwise/backend/internal/integration/entrypoint/controller"
	"github.com/budgetwise/backend/internal/integration/entrypoint/middleware"
	"github.com/budgetwise/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Router      *router.Router
	EmailWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB) (*Injector, error) {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	accountRepo := persistence.NewAccountRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	insightRepo := persistence.NewInsightRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenRepo)
	clock := adapters.NewSystemClock()

	// Redis-backed insight cache
	redisClient, err := cache.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	insightCache := cache.NewInsightCache(redisClient, cfg.Insight.CacheTTL)

	// Email queueing and delivery
	var emailSender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		emailSender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		emailSender = email.NewMockEmailSender()
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create template renderer: %w", err)
	}
	emailService := email.NewService(emailQueueRepo)
	emailWorker := email.NewWorker(emailQueueRepo, emailSender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	// Budget ledger
	var ledger *budget.Ledger
	if cfg.Budget.AtomicAdjust {
		ledger = budget.NewAtomicLedger(budgetRepo, clock)
	} else {
		ledger = budget.NewLedger(budgetRepo, clock)
	}

	// Insight rule engine. Rule order is the presentation order.
	engine := insight.NewEngine(
		insightCache,
		insight.NewBudgetRule(insightRepo, clock),
		insight.NewIncomeRule(insightRepo, clock),
		insight.NewSpendingRule(insightRepo, clock),
		insight.NewHealthRule(insightRepo, clock),
	)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	deleteUserUseCase := auth.NewDeleteAccountUseCase(userRepo, passwordService, tokenService)

	// Create account use cases
	listAccountsUseCase := account.NewListAccountsUseCase(accountRepo)
	getAccountUseCase := account.NewGetAccountUseCase(accountRepo)
	createAccountUseCase := account.NewCreateAccountUseCase(accountRepo)
	updateAccountUseCase := account.NewUpdateAccountUseCase(accountRepo)
	deleteAccountUseCase := account.NewDeleteAccountUseCase(accountRepo)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo, accountRepo)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo, accountRepo, categoryRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(
		transactionRepo, accountRepo, categoryRepo, userRepo, ledger, insightCache, emailService,
	)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(
		transactionRepo, accountRepo, categoryRepo, ledger, insightCache,
	)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(
		transactionRepo, accountRepo, ledger, insightCache, cfg.Budget.AdjustOnDelete,
	)

	// Create budget use cases
	listBudgetsUseCase := budget.NewListBudgetsUseCase(budgetRepo, accountRepo, categoryRepo, ledger)
	getBudgetUseCase := budget.NewGetBudgetUseCase(budgetRepo, accountRepo, categoryRepo, ledger)
	createBudgetUseCase := budget.NewCreateBudgetUseCase(budgetRepo, accountRepo, categoryRepo, clock)
	updateBudgetUseCase := budget.NewUpdateBudgetUseCase(budgetRepo, accountRepo, clock)
	deleteBudgetUseCase := budget.NewDeleteBudgetUseCase(budgetRepo, accountRepo)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	userController := controller.NewUserController(
		deleteUserUseCase,
	)

	accountController := controller.NewAccountController(
		listAccountsUseCase,
		getAccountUseCase,
		createAccountUseCase,
		updateAccountUseCase,
		deleteAccountUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		getTransactionUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
	)

	budgetController := controller.NewBudgetController(
		listBudgetsUseCase,
		getBudgetUseCase,
		createBudgetUseCase,
		updateBudgetUseCase,
		deleteBudgetUseCase,
	)

	insightController := controller.NewInsightController(engine)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		userController,
		accountController,
		categoryController,
		transactionController,
		budgetController,
		insightController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		EmailWorker: emailWorker,
	}, nil
}
