package insight

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// Rule is an independent insight evaluator.
type Rule interface {
	// Name returns the rule's registered display name.
	Name() string

	// Description returns a one-line summary of what the rule looks for.
	Description() string

	// Run evaluates the rule for the user, producing zero or more alerts.
	Run(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, error)
}

// Engine runs an ordered set of rules. The registration order matters: the
// health rule runs last because it synthesizes what the others measure.
type Engine struct {
	rules []Rule
	cache adapter.InsightCache
}

// NewEngine creates an Engine with the given rules in evaluation order.
// cache may be nil to disable result caching.
func NewEngine(cache adapter.InsightCache, rules ...Rule) *Engine {
	return &Engine{
		rules: rules,
		cache: cache,
	}
}

// RunAll executes every registered rule in order and concatenates their
// results. A failing rule is logged and skipped; it never aborts the others.
// Results are served from and written to the cache when one is configured.
func (e *Engine) RunAll(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, error) {
	if e.cache != nil {
		cached, ok, err := e.cache.GetResults(ctx, userID)
		if err != nil {
			slog.Debug("Insight cache read failed", "userID", userID, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	results := make([]entity.RuleResult, 0)
	for _, rule := range e.rules {
		ruleResults, err := rule.Run(ctx, userID)
		if err != nil {
			slog.Error("Insight rule failed",
				"rule", rule.Name(),
				"userID", userID,
				"error", err,
			)
			continue
		}
		results = append(results, ruleResults...)
	}

	if e.cache != nil {
		if err := e.cache.SetResults(ctx, userID, results); err != nil {
			slog.Debug("Insight cache write failed", "userID", userID, "error", err)
		}
	}

	return results, nil
}

// RunRule executes a single rule by name, matched case-insensitively.
func (e *Engine) RunRule(ctx context.Context, name string, userID uuid.UUID) ([]entity.RuleResult, error) {
	for _, rule := range e.rules {
		if strings.EqualFold(rule.Name(), name) {
			return rule.Run(ctx, userID)
		}
	}
	return nil, domainerror.NewInsightError(
		domainerror.ErrCodeRuleNotFound,
		"insight rule not found: "+name,
		domainerror.ErrRuleNotFound,
	)
}

// ListRules returns name and description for each registered rule without
// executing any of them.
func (e *Engine) ListRules() []entity.RuleInfo {
	infos := make([]entity.RuleInfo, 0, len(e.rules))
	for _, rule := range e.rules {
		infos = append(infos, entity.RuleInfo{
			Name:        rule.Name(),
			Description: rule.Description(),
		})
	}
	return infos
}
