package application

import "errors"

var (
	// ErrNoTableSelected refuses order operations before a table is chosen.
	ErrNoTableSelected = errors.New("no table selected")
	// ErrNoNewItems is the no-op result of a kitchen dispatch with nothing
	// new to send; it must cost zero gateway calls.
	ErrNoNewItems = errors.New("no new items to send to the kitchen")
	// ErrItemNotFound signals an unknown menu item id.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrOperationInFlight refuses a re-entrant gateway-backed operation
	// while a previous invocation is still outstanding.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrSelectionChanged discards a gateway response that arrived after
	// the operator moved to a different table.
	ErrSelectionChanged = errors.New("table selection changed while request was in flight")
)
