package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/komsyte/pos-engine/internal/domains/billing/domain"
	catalogdomain "github.com/komsyte/pos-engine/internal/domains/catalog/domain"
	"github.com/komsyte/pos-engine/internal/gateway"
	gatewaymemory "github.com/komsyte/pos-engine/internal/gateway/memory"
)

type fakeCatalog struct {
	snapshot *catalogdomain.Snapshot
}

func (f *fakeCatalog) ByBarcode(barcode string) (catalogdomain.Product, bool) {
	return f.snapshot.ByBarcode(barcode)
}

func (f *fakeCatalog) ByID(id string) (catalogdomain.Product, bool) {
	return f.snapshot.ByID(id)
}

func newFakeCatalog(products ...catalogdomain.Product) *fakeCatalog {
	return &fakeCatalog{snapshot: catalogdomain.NewSnapshot(products)}
}

func soap() catalogdomain.Product {
	return catalogdomain.Product{ID: "p1", Barcode: "8901", Name: "Soap", Price: 34.5, Quantity: 12}
}

func emptyShelf() catalogdomain.Product {
	return catalogdomain.Product{ID: "p2", Barcode: "8902", Name: "Shampoo", Price: 120, Quantity: 0}
}

func newTestService(gw gateway.Gateway, products ...catalogdomain.Product) *Service {
	issued := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	return NewService(
		newFakeCatalog(products...),
		gw,
		"Komsyte Mart",
		0.05,
		WithClock(func() time.Time { return issued }),
		WithNumberSource(func() string { return "R-1" }),
	)
}

func TestAddItem_UnknownBarcode(t *testing.T) {
	svc := newTestService(gatewaymemory.NewGateway(), soap())
	require.ErrorIs(t, svc.AddItem("0000", 1), ErrItemNotFound)
	require.Empty(t, svc.Lines())
}

func TestAddItem_OutOfStockIsAdvisory(t *testing.T) {
	svc := newTestService(gatewaymemory.NewGateway(), soap(), emptyShelf())
	require.ErrorIs(t, svc.AddItem("8902", 1), ErrOutOfStock)
	require.Empty(t, svc.Lines())
}

func TestAddItem_MergesQuantity(t *testing.T) {
	svc := newTestService(gatewaymemory.NewGateway(), soap())
	require.NoError(t, svc.AddItem("8901", 1))
	require.NoError(t, svc.AddItem("8901", 2))

	lines := svc.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].Quantity)
	require.InDelta(t, 103.5, svc.Total(), 1e-9)
}

func TestFinalizeBill_EmptyCart(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc := newTestService(gw, soap())

	_, err := svc.FinalizeBill(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptyOrder)
	require.Zero(t, gw.Calls("FinalizeBill"))
}

func TestFinalizeBill_AckGated(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	gw.SeedProducts([]gateway.ProductRecord{{ID: "p1", Barcode: "8901", Name: "Soap", Price: 34.5, Quantity: 12}})
	svc := newTestService(gw, soap())
	require.NoError(t, svc.AddItem("8901", 2))

	// Remote rejection leaves the cart intact for an operator retry.
	gw.FailWith = &gateway.Error{Kind: gateway.KindRemote, Message: "insufficient stock for Soap"}
	_, err := svc.FinalizeBill(context.Background())
	require.Error(t, err)
	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "insufficient stock for Soap", gwErr.Message)
	require.Len(t, svc.Lines(), 1)

	// The retry resubmits the same cart and clears only on ack.
	gw.FailWith = nil
	receipt, err := svc.FinalizeBill(context.Background())
	require.NoError(t, err)
	require.Empty(t, svc.Lines())
	require.InDelta(t, 69.0, receipt.Subtotal, 1e-9)
	require.InDelta(t, 69.0*0.05, receipt.Tax, 1e-9)
	require.Equal(t, "R-1", receipt.Number)

	bills := gw.Bills()
	require.Len(t, bills, 1)
	require.Len(t, bills[0].Items, 1)
	require.Equal(t, 2, bills[0].Items[0].Quantity)
}

func TestFinalizeBill_NetworkFailureKeepsState(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc := newTestService(gw, soap())
	require.NoError(t, svc.AddItem("8901", 1))

	gw.FailWith = &gateway.Error{Kind: gateway.KindNetwork, Err: errors.New("connection refused")}
	_, err := svc.FinalizeBill(context.Background())
	require.True(t, gateway.IsNetwork(err))
	require.Len(t, svc.Lines(), 1)
	require.Empty(t, gw.Bills())
}
