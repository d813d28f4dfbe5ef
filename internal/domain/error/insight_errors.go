// Package error defines domain-specific errors for the BudgetWise application.
package error

import "errors"

// Insight domain errors.
var (
	// ErrRuleNotFound is returned when a named insight rule is not registered.
	ErrRuleNotFound = errors.New("insight rule not found")

	// ErrInsufficientData is returned when a rule cannot compute a meaningful
	// result from the available history.
	ErrInsufficientData = errors.New("insufficient data for insight")
)

// InsightErrorCode defines error codes for insight errors.
// Format: INS-XXYYYY where XX is category and YYYY is specific error.
type InsightErrorCode string

const (
	// Lookup errors (01XXXX)
	ErrCodeRuleNotFound InsightErrorCode = "INS-010001"

	// Evaluation errors (02XXXX)
	ErrCodeInsufficientData InsightErrorCode = "INS-020001"
	ErrCodeRuleFailed       InsightErrorCode = "INS-020002"
)

// InsightError represents an insight error with code and message.
type InsightError struct {
	Code    InsightErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *InsightError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *InsightError) Unwrap() error {
	return e.Err
}

// NewInsightError creates a new InsightError with the given code and message.
func NewInsightError(code InsightErrorCode, message string, err error) *InsightError {
	return &InsightError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
