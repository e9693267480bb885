package Engine

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure. Controllers map kinds to HTTP status
// codes in one place; nothing in the engine ever panics on a business error.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindInvalidQuantity   Kind = "INVALID_QUANTITY"
	KindInvalidTimeRange  Kind = "INVALID_TIME_RANGE"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindInvalidState      Kind = "INVALID_STATE"
	KindForbidden         Kind = "FORBIDDEN"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindProofRequired     Kind = "PROOF_REQUIRED"
	KindDeadlinePassed    Kind = "DEADLINE_PASSED"
	KindNotStarted        Kind = "NOT_STARTED"
)

// Error is the structured failure every engine operation returns for business
// rule violations. Persistence errors pass through unwrapped.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the failure kind of err, or "" for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
