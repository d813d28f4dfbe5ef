// Package entity defines the core business entities for the domain layer.
package entity

// RuleResultType represents the severity of an insight alert.
type RuleResultType string

const (
	RuleResultDanger  RuleResultType = "danger"
	RuleResultWarning RuleResultType = "warning"
	RuleResultInfo    RuleResultType = "info"
	RuleResultSuccess RuleResultType = "success"
	// RuleResultMeta marks alerts about the analysis itself (e.g. not enough
	// data to compute a score) rather than about the user's finances.
	RuleResultMeta RuleResultType = "meta"
)

// RuleResult is a single insight alert produced by a rule evaluation. Results
// are transient: they are computed per request and never persisted.
type RuleResult struct {
	Type     RuleResultType `json:"type"`
	Category string         `json:"category,omitempty"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	Action   string         `json:"action,omitempty"`
}

// RuleInfo describes a registered insight rule without running it.
type RuleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
