package services

import "errors"

var (
	// ErrNotFound is a scan or lookup that matched nothing. Surfaced
	// to the operator, never retried.
	ErrNotFound = errors.New("no matching product or unit")

	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidStatus rejects an order status outside the fixed
	// pipeline.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrStaleSnapshot rejects an action computed against an
	// aggregation pass that a later mutation invalidated.
	ErrStaleSnapshot = errors.New("inventory snapshot is stale")
)
