// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/budgetwise/backend/internal/domain/entity"
)

// InsightAlertResponse represents a single insight alert in API responses.
type InsightAlertResponse struct {
	Type     string         `json:"type"`
	Category string         `json:"category,omitempty"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	Action   string         `json:"action,omitempty"`
}

// InsightListResponse represents the response for running insight rules.
type InsightListResponse struct {
	Alerts []InsightAlertResponse `json:"alerts"`
}

// RuleInfoResponse represents a registered insight rule in API responses.
type RuleInfoResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RuleListResponse represents the response for listing insight rules.
type RuleListResponse struct {
	Rules []RuleInfoResponse `json:"rules"`
}

// ToInsightListResponse converts rule results to an InsightListResponse.
func ToInsightListResponse(results []entity.RuleResult) InsightListResponse {
	alerts := make([]InsightAlertResponse, len(results))
	for i, r := range results {
		alerts[i] = InsightAlertResponse{
			Type:     string(r.Type),
			Category: r.Category,
			Message:  r.Message,
			Data:     r.Data,
			Action:   r.Action,
		}
	}
	return InsightListResponse{Alerts: alerts}
}

// ToRuleListResponse converts rule infos to a RuleListResponse.
func ToRuleListResponse(rules []entity.RuleInfo) RuleListResponse {
	out := make([]RuleInfoResponse, len(rules))
	for i, r := range rules {
		out[i] = RuleInfoResponse{
			Name:        r.Name,
			Description: r.Description,
		}
	}
	return RuleListResponse{Rules: out}
}
