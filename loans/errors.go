// Package loans holds the pure parts of the loan engine: the error taxonomy,
// the status transition table, the priority score and the item-line
// reconciler. Everything here is deterministic and free of storage concerns;
// the db package drives it inside transactions.
package loans

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed input: empty item list, bad dates,
	// missing required fields. Wrapped with detail via fmt.Errorf("%w: ...").
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a loan, item or borrower does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoOpTransition is returned when the requested status equals the
	// current one.
	ErrNoOpTransition = errors.New("loan already in requested status")

	// ErrAlreadyReturned is returned on a second return attempt.
	ErrAlreadyReturned = errors.New("loan already returned")

	// ErrInvariantViolation means a ledger counter would go negative. With
	// correct callers this is unreachable; it is an internal fault, not a
	// client error.
	ErrInvariantViolation = errors.New("stock ledger invariant violated")
)

// InsufficientStockError names the first line of a reserve batch that could
// not be satisfied. The whole batch is rolled back when it occurs.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %q (%s): requested %d, available %d",
		e.ItemName, e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }

// WrapValidation attaches detail to ErrValidation so callers can still match
// it with errors.Is.
func WrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func wrapf(base error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{base}, args...)...)
}

