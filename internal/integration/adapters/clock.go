package adapters

import (
	"time"

	"github.com/budgetwise/backend/internal/application/adapter"
)

// systemClock implements the adapter.Clock interface using the wall clock.
type systemClock struct{}

// NewSystemClock creates a clock backed by time.Now.
func NewSystemClock() adapter.Clock {
	return systemClock{}
}

// Now returns the current UTC time.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
