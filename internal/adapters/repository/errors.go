package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	// ErrNotFound marks lookups for rows that do not exist.
	ErrNotFound = errors.New("row not found")

	// ErrPartialScore marks a record carrying exactly one of the two final
	// scores. The pair is an invariant: a half-set score is corrupt input,
	// never coerced to zero.
	ErrPartialScore = errors.New("partial score pair")
)

// Wrap annotates err with the failing operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
