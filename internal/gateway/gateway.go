// Package gateway defines the engine's port onto the remote persistence
// service. The engine calls these logical operations and reacts to
// success/failure; it never implements storage itself.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ProductRecord is the wire shape of a catalog/stock entry.
type ProductRecord struct {
	ID       string  `json:"_id,omitempty"`
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// TableRecord is the wire shape of a restaurant table.
type TableRecord struct {
	Number int    `json:"number"`
	Status string `json:"status"`
}

// IsOccupied reports whether the backend considers the table occupied.
func (t TableRecord) IsOccupied() bool { return t.Status == "occupied" }

// LineRecord is the wire shape of one order line.
type LineRecord struct {
	ItemID   string  `json:"itemId,omitempty"`
	Barcode  string  `json:"barcode,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
	Status   string  `json:"status,omitempty"`
}

// BillRecord is the wire shape of a finalized bill.
type BillRecord struct {
	Number      string       `json:"number,omitempty"`
	TableNumber *int         `json:"tableNumber,omitempty"`
	Items       []LineRecord `json:"items"`
	Subtotal    float64      `json:"subtotal"`
	Tax         float64      `json:"tax"`
	GrandTotal  float64      `json:"grandTotal"`
	IssuedAt    time.Time    `json:"issuedAt"`
}

// Gateway is the set of logical persistence operations the engine consumes.
// Every call returns either a success payload or a classified *Error.
type Gateway interface {
	FetchCatalog(ctx context.Context) ([]ProductRecord, error)
	FetchStock(ctx context.Context) ([]ProductRecord, error)
	FetchTables(ctx context.Context) ([]TableRecord, error)
	FetchOrder(ctx context.Context, tableNumber int) ([]LineRecord, error)
	SubmitKOT(ctx context.Context, tableNumber int, lines []LineRecord) error
	CloseTable(ctx context.Context, tableNumber int) error
	FinalizeBill(ctx context.Context, bill BillRecord) error
	AdjustStock(ctx context.Context, barcode string, deltaQty int) error
	RegisterProduct(ctx context.Context, product ProductRecord) error
	DeleteProduct(ctx context.Context, id string) error
}

// ErrorKind classifies a gateway failure independent of transport coding.
type ErrorKind string

const (
	// KindRemote marks a rejection by the persistence service. The remote
	// decision is authoritative even when local state disagreed.
	KindRemote ErrorKind = "remote"
	// KindNetwork marks a connectivity failure with no remote response.
	KindNetwork ErrorKind = "network"
	// KindNotFound marks a remote miss for the requested entity.
	KindNotFound ErrorKind = "not_found"
)

// Error is the structured failure every gateway operation returns.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway %s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("gateway %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// RemoteMessage returns the remote-provided message when available,
// else the generic fallback.
func (e *Error) RemoteMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsNetwork reports whether err is a connectivity failure.
func IsNetwork(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == KindNetwork
}

// IsNotFound reports whether err is a remote miss.
func IsNotFound(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == KindNotFound
}
