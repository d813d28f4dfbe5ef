// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountType represents the kind of financial account.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
	AccountTypeCash     AccountType = "cash"
)

// DefaultCurrency is the currency assigned to accounts that do not specify one.
const DefaultCurrency = "USD"

// Account represents a financial account owned by a user. Transactions and
// budgets always belong to an account, never to a user directly.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      AccountType
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewAccount creates a new Account entity.
// Note: currency defaulting should be applied in the application layer before
// calling this constructor.
func NewAccount(userID uuid.UUID, name string, accountType AccountType, currency string) *Account {
	now := time.Now().UTC()

	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      accountType,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
