// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// InsightCache caches the full rule-engine output per user. Implementations
// are best-effort: a miss or a backend failure just means recomputing.
type InsightCache interface {
	// GetResults returns the cached alerts for a user, with ok=false on a miss.
	GetResults(ctx context.Context, userID uuid.UUID) (results []entity.RuleResult, ok bool, err error)

	// SetResults stores the alerts for a user.
	SetResults(ctx context.Context, userID uuid.UUID, results []entity.RuleResult) error

	// Invalidate drops the cached alerts for a user. Called whenever a
	// transaction or budget write changes the underlying history.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
