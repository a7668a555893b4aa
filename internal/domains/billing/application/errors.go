package application

import "errors"

var (
	// ErrItemNotFound signals an unknown barcode or item id. Surfaced as a
	// dismissible notice; order state is untouched.
	ErrItemNotFound = errors.New("item not found in catalog")
	// ErrOutOfStock signals the snapshot believes the item has no units
	// left. Advisory only: the gateway remains the stock authority.
	ErrOutOfStock = errors.New("item is out of stock")
	// ErrOperationInFlight refuses a re-entrant gateway-backed operation
	// while a previous invocation is still outstanding.
	ErrOperationInFlight = errors.New("operation already in flight")
)
