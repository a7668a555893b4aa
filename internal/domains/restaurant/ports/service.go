package ports

import (
	"context"

	billingdomain "github.com/komsyte/pos-engine/internal/domains/billing/domain"
	"github.com/komsyte/pos-engine/internal/domains/restaurant/domain"
)

// Service is the table-and-dispatch use case surface of the restaurant mode.
type Service interface {
	LoadFloor(ctx context.Context) error
	Tables() []domain.Table
	SelectTable(ctx context.Context, number int) error
	SelectedTable() (int, bool)
	AddItem(itemID string, qty int) error
	OrderLines() []billingdomain.Line
	Total() float64
	GenerateKOT(ctx context.Context) ([]billingdomain.Line, error)
	Receipt() (billingdomain.Receipt, error)
	Settle(ctx context.Context) error
}
