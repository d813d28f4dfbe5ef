// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "time"

// Clock supplies the current instant. Injecting it keeps the budget rollover
// and insight calculations deterministic under test.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
