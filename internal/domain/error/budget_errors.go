// Package error defines domain-specific errors for the BudgetWise application.
package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget is not found in the system.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetAlreadyExists is returned when attempting to create a budget for
	// an (account, category) pair that already has one.
	ErrBudgetAlreadyExists = errors.New("budget already exists for this category")

	// ErrInvalidLimitAmount is returned when the limit amount is negative.
	ErrInvalidLimitAmount = errors.New("invalid limit amount")

	// ErrInvalidBudgetPeriod is returned when the budget period is not one of
	// daily, weekly, monthly or yearly.
	ErrInvalidBudgetPeriod = errors.New("invalid budget period")

	// ErrBudgetCategoryNotFound is returned when the category for a budget is not found.
	ErrBudgetCategoryNotFound = errors.New("category not found")

	// ErrBudgetAccountNotFound is returned when the account for a budget is not found.
	ErrBudgetAccountNotFound = errors.New("account not found")

	// ErrUnauthorizedBudgetAccess is returned when user is not authorized to access a budget.
	ErrUnauthorizedBudgetAccess = errors.New("unauthorized access to budget")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BDG-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeBudgetNotFound           BudgetErrorCode = "BDG-010001"
	ErrCodeBudgetAlreadyExists      BudgetErrorCode = "BDG-010002"
	ErrCodeInvalidLimitAmount       BudgetErrorCode = "BDG-010003"
	ErrCodeInvalidBudgetPeriod      BudgetErrorCode = "BDG-010004"
	ErrCodeBudgetCategoryNotFound   BudgetErrorCode = "BDG-010005"
	ErrCodeBudgetAccountNotFound    BudgetErrorCode = "BDG-010006"
	ErrCodeUnauthorizedBudgetAccess BudgetErrorCode = "BDG-010007"
	ErrCodeMissingBudgetFields      BudgetErrorCode = "BDG-010008"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
