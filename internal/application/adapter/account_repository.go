// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create creates a new account in the database.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByUserID retrieves all accounts for a given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// Update updates an existing account in the database.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes an account from the database (soft delete).
	Delete(ctx context.Context, id uuid.UUID) error

	// HasTransactions checks whether any transactions reference the account.
	HasTransactions(ctx context.Context, id uuid.UUID) (bool, error)
}
