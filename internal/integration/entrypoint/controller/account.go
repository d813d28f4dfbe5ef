// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/usecase/account"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
	"github.com/budgetwise/backend/internal/integration/entrypoint/dto"
	"github.com/budgetwise/backend/internal/integration/entrypoint/middleware"
)

// AccountController handles account endpoints.
type AccountController struct {
	listUseCase   *account.ListAccountsUseCase
	getUseCase    *account.GetAccountUseCase
	createUseCase *account.CreateAccountUseCase
	updateUseCase *account.UpdateAccountUseCase
	deleteUseCase *account.DeleteAccountUseCase
}

// NewAccountController creates a new account controller instance.
func NewAccountController(
	listUseCase *account.ListAccountsUseCase,
	getUseCase *account.GetAccountUseCase,
	createUseCase *account.CreateAccountUseCase,
	updateUseCase *account.UpdateAccountUseCase,
	deleteUseCase *account.DeleteAccountUseCase,
) *AccountController {
	return &AccountController{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /accounts requests.
func (c *AccountController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), account.ListAccountsInput{
		UserID: userID,
	})
	if err != nil {
		c.handleAccountError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountListResponse(output.Accounts))
}

// Get handles GET /accounts/:accountId requests.
func (c *AccountController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	accountID, err := uuid.Parse(ctx.Param("accountId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid account ID format",
		})
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), account.GetAccountInput{
		UserID:    userID,
		AccountID: accountID,
	})
	if err != nil {
		c.handleAccountError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountResponse(output.Account))
}

// Create handles POST /accounts requests.
func (c *AccountController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingAccountFields),
		})
		return
	}

	input := account.CreateAccountInput{
		UserID:   userID,
		Name:     req.Name,
		Type:     entity.AccountType(req.Type),
		Currency: req.Currency,
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleAccountError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToAccountResponse(output.Account))
}

// Update handles PUT /accounts/:accountId requests.
func (c *AccountController) Update(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	accountID, err := uuid.Parse(ctx.Param("accountId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid account ID format",
		})
		return
	}

	var req dto.UpdateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingAccountFields),
		})
		return
	}

	input := account.UpdateAccountInput{
		UserID:    userID,
		AccountID: accountID,
		Name:      req.Name,
		Type:      entity.AccountType(req.Type),
		Currency:  req.Currency,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleAccountError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountResponse(output.Account))
}

// Delete handles DELETE /accounts/:accountId requests.
func (c *AccountController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	accountID, err := uuid.Parse(ctx.Param("accountId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid account ID format",
		})
		return
	}

	input := account.DeleteAccountInput{
		UserID:    userID,
		AccountID: accountID,
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), input); err != nil {
		c.handleAccountError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleAccountError handles account errors and returns appropriate HTTP responses.
func (c *AccountController) handleAccountError(ctx *gin.Context, err error) {
	var accErr *domainerror.AccountError
	if errors.As(err, &accErr) {
		statusCode := c.getStatusCodeForAccountError(accErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: accErr.Message,
			Code:  string(accErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForAccountError maps account error codes to HTTP status codes.
func (c *AccountController) getStatusCodeForAccountError(code domainerror.AccountErrorCode) int {
	switch code {
	case domainerror.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeUnauthorizedAccountAccess:
		return http.StatusForbidden
	case domainerror.ErrCodeAccountInUse:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidAccountType,
		domainerror.ErrCodeMissingAccountFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
