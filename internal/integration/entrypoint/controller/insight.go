// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budgetwise/backend/internal/application/usecase/insight"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
	"github.com/budgetwise/backend/internal/integration/entrypoint/dto"
	"github.com/budgetwise/backend/internal/integration/entrypoint/middleware"
)

// InsightController handles insight endpoints.
type InsightController struct {
	engine *insight.Engine
}

// NewInsightController creates a new insight controller instance.
func NewInsightController(engine *insight.Engine) *InsightController {
	return &InsightController{
		engine: engine,
	}
}

// List handles GET /insights requests. It runs every registered rule.
func (c *InsightController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	results, err := c.engine.RunAll(ctx.Request.Context(), userID)
	if err != nil {
		c.handleInsightError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInsightListResponse(results))
}

// ListRules handles GET /insights/rules requests. No rule is executed.
func (c *InsightController) ListRules(ctx *gin.Context) {
	if _, ok := middleware.GetUserIDFromContext(ctx); !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRuleListResponse(c.engine.ListRules()))
}

// RunRule handles GET /insights/rules/:name requests.
func (c *InsightController) RunRule(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	results, err := c.engine.RunRule(ctx.Request.Context(), ctx.Param("name"), userID)
	if err != nil {
		c.handleInsightError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInsightListResponse(results))
}

// handleInsightError handles insight errors and returns appropriate HTTP responses.
func (c *InsightController) handleInsightError(ctx *gin.Context, err error) {
	var insErr *domainerror.InsightError
	if errors.As(err, &insErr) {
		statusCode := http.StatusInternalServerError
		if insErr.Code == domainerror.ErrCodeRuleNotFound {
			statusCode = http.StatusNotFound
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: insErr.Message,
			Code:  string(insErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
