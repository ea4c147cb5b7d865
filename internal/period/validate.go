package period

import (
	"errors"
	"fmt"
)

// Validation errors for custom ranges.
var (
	ErrMissingBound  = errors.New("custom range needs both from and to")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvertedRange = errors.New("from must be on or before to")
)

// ValidateCustom checks a custom range before it is applied. Callers should
// reject the edit when it fails; Resolve's own fallback only guards against
// bad bounds that slip through.
func ValidateCustom(from, to string) error {
	if from == "" || to == "" {
		return ErrMissingBound
	}

	f, err := ParseISODate(from)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	t, err := ParseISODate(to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	if f.After(t) {
		return fmt.Errorf("%w (%s > %s)", ErrInvertedRange, from, to)
	}
	return nil
}
