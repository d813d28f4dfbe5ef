// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/budgetwise/backend/internal/integration/entrypoint/controller"
	"github.com/budgetwise/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	authController        *controller.AuthController
	userController        *controller.UserController
	accountController     *controller.AccountController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	budgetController      *controller.BudgetController
	insightController     *controller.InsightController
	loginRateLimiter      *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	accountController *controller.AccountController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	budgetController *controller.BudgetController,
	insightController *controller.InsightController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		authController:        authController,
		userController:        userController,
		accountController:     accountController,
		categoryController:    categoryController,
		transactionController: transactionController,
		budgetController:      budgetController,
		insightController:     insightController,
		loginRateLimiter:      loginRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Auth routes (only setup if auth controller is available)
		if r.authController != nil && r.loginRateLimiter != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				auth.POST("/refresh", r.authController.RefreshToken)
				auth.POST("/logout", r.authController.Logout)
			}
		}

		// Account routes (require authentication)
		if r.accountController != nil && r.authMiddleware != nil {
			accounts := v1.Group("/accounts")
			accounts.Use(r.authMiddleware.Authenticate())
			{
				accounts.GET("", r.accountController.List)
				accounts.POST("", r.accountController.Create)
				accounts.GET("/:accountId", r.accountController.Get)
				accounts.PUT("/:accountId", r.accountController.Update)
				accounts.DELETE("/:accountId", r.accountController.Delete)

				// Account-scoped listing routes
				if r.transactionController != nil {
					accounts.GET("/:accountId/transactions", r.transactionController.List)
				}
				if r.budgetController != nil {
					accounts.GET("/:accountId/budgets", r.budgetController.List)
				}
			}
		}

		// Category routes (require authentication)
		if r.categoryController != nil && r.authMiddleware != nil {
			categories := v1.Group("/categories")
			categories.Use(r.authMiddleware.Authenticate())
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.PUT("/:id", r.categoryController.Update)
				categories.DELETE("/:id", r.categoryController.Delete)
			}
		}

		// Transaction routes (require authentication)
		if r.transactionController != nil && r.authMiddleware != nil {
			transactions := v1.Group("/transactions")
			transactions.Use(r.authMiddleware.Authenticate())
			{
				transactions.POST("", r.transactionController.Create)
				transactions.GET("/:id", r.transactionController.Get)
				transactions.PUT("/:id", r.transactionController.Update)
				transactions.DELETE("/:id", r.transactionController.Delete)
			}
		}

		// Budget routes (require authentication)
		if r.budgetController != nil && r.authMiddleware != nil {
			budgets := v1.Group("/budgets")
			budgets.Use(r.authMiddleware.Authenticate())
			{
				budgets.POST("", r.budgetController.Create)
				budgets.GET("/:id", r.budgetController.Get)
				budgets.PUT("/:id", r.budgetController.Update)
				budgets.DELETE("/:id", r.budgetController.Delete)
			}
		}

		// Insight routes (require authentication)
		if r.insightController != nil && r.authMiddleware != nil {
			insights := v1.Group("/insights")
			insights.Use(r.authMiddleware.Authenticate())
			{
				insights.GET("", r.insightController.List)
				insights.GET("/rules", r.insightController.ListRules)
				insights.GET("/rules/:name", r.insightController.RunRule)
			}
		}

		// User routes (require authentication)
		if r.userController != nil && r.authMiddleware != nil {
			users := v1.Group("/users")
			users.Use(r.authMiddleware.Authenticate())
			{
				users.DELETE("/me", r.userController.DeleteAccount)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
