package feed

import (
	"errors"
	"fmt"
)

// Sentinel kinds for feed errors.
var (
	// ErrUnavailable covers any transport failure or non-success response
	// from the upstream feed. The whole fetch is discarded; callers may
	// retry the on-demand call later.
	ErrUnavailable = errors.New("match feed unavailable")
)

// WrapKind annotates err with an operation and a sentinel kind so callers
// can match with errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
