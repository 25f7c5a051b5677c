// Package credits tracks how many generations each payment has left.
package credits

import (
	"context"
	"errors"
)

// DefaultQuota is the number of generations a single payment buys.
const DefaultQuota = 3

// ErrInvalidQuota is returned when a ledger entry would start below zero.
var ErrInvalidQuota = errors.New("quota must not be negative")

// ConsumeResult reports the outcome of a single Consume call.
type ConsumeResult struct {
	OK        bool
	Remaining int
}

// Ledger maps payment ids to remaining credits. Implementations must make
// Consume a single atomic check-and-decrement per payment id.
type Ledger interface {
	// InitIfAbsent sets the counter to quota only when paymentID has no entry.
	InitIfAbsent(ctx context.Context, paymentID string, quota int) error
	// Consume spends one credit. A missing entry counts as zero credits.
	Consume(ctx context.Context, paymentID string) (ConsumeResult, error)
	// Remaining returns the current counter and whether an entry exists.
	Remaining(ctx context.Context, paymentID string) (int, bool, error)
}
