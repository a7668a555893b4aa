package application

import "errors"

var (
	// ErrInvalidQuantity rejects non-positive stock adjustments before any
	// gateway call.
	ErrInvalidQuantity = errors.New("quantity must be at least one")
)
