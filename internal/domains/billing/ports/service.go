package ports

import (
	"context"

	"github.com/komsyte/pos-engine/internal/domains/billing/domain"
	catalogdomain "github.com/komsyte/pos-engine/internal/domains/catalog/domain"
)

// Catalog is the read-only lookup surface the cart needs from the
// catalog snapshot.
type Catalog interface {
	ByBarcode(barcode string) (catalogdomain.Product, bool)
	ByID(id string) (catalogdomain.Product, bool)
}

// Service is the simple-bill (tab-less cart) use case surface.
type Service interface {
	AddItem(barcode string, qty int) error
	RemoveItem(index int) error
	Clear()
	Lines() []domain.Line
	Total() float64
	FinalizeBill(ctx context.Context) (domain.Receipt, error)
}
