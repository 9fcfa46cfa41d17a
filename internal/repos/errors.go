package repos

import "errors"

var (
	// ErrWouldGoNegative means a conditional decrement was rejected
	// because the counter was already at zero. Expected under
	// concurrent scanning, not a fault.
	ErrWouldGoNegative = errors.New("counter would go negative")

	ErrNotFound = errors.New("record not found")
)
