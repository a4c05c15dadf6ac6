package app

import (
	"errors"
	"fmt"
)

// Sentinel kinds for service errors.
var (
	// ErrUnknownPlayer marks submissions for a player outside the roster.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrRoundOutOfRange marks round numbers outside the season bounds.
	ErrRoundOutOfRange = errors.New("round out of range")

	// ErrInvalidResult marks a manual result that fails validation.
	ErrInvalidResult = errors.New("invalid manual result")
)

// Wrap annotates err with the failing operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind creates an error of a sentinel kind for an operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}
