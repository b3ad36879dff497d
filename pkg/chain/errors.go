package chain

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInsufficientFunds marks the one revert cause worth distinguishing:
// the caller can fix it by topping up, unlike a generic revert.
var ErrInsufficientFunds = errors.New("insufficient funds")

// classifyCallError wraps a node error, pattern-matching the message for
// the insufficient-funds sub-case. Everything else stays generic.
func classifyCallError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return errors.Mark(errors.Wrap(err, "chain call"), ErrInsufficientFunds)
	}
	return errors.Wrap(err, "chain call")
}

// IsInsufficientFunds reports whether an error was classified as the
// actionable insufficient-funds failure.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}
