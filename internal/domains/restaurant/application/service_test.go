package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	billingdomain "github.com/komsyte/pos-engine/internal/domains/billing/domain"
	catalogdomain "github.com/komsyte/pos-engine/internal/domains/catalog/domain"
	restaurantdomain "github.com/komsyte/pos-engine/internal/domains/restaurant/domain"
	"github.com/komsyte/pos-engine/internal/gateway"
	gatewaymemory "github.com/komsyte/pos-engine/internal/gateway/memory"
	"github.com/komsyte/pos-engine/internal/shared/notify"
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

func menu() *fakeCatalog {
	return &fakeCatalog{snapshot: catalogdomain.NewSnapshot([]catalogdomain.Product{
		{ID: "m1", Name: "Butter Chicken", Category: "Main Course", Price: 250, Quantity: 1},
		{ID: "m2", Name: "Garlic Naan", Category: "Breads", Price: 40, Quantity: 1},
	})}
}

func newTestService(t *testing.T, gw *gatewaymemory.Gateway) (*Service, *notify.Queue) {
	t.Helper()
	notices := notify.NewQueue(16)
	issued := time.Date(2025, 3, 14, 20, 30, 0, 0, time.UTC)
	svc := NewService(
		menu(),
		gw,
		notices,
		"Komsyte Kitchen",
		0.05,
		WithClock(func() time.Time { return issued }),
		WithNumberSource(func() string { return "R-5" }),
	)
	svc.ProvisionTables(1, 2, 3, 4, 5)
	return svc, notices
}

func TestSelectTable_Unknown(t *testing.T) {
	svc, _ := newTestService(t, gatewaymemory.NewGateway())
	require.ErrorIs(t, svc.SelectTable(context.Background(), 99), restaurantdomain.ErrUnknownTable)
}

func TestAddItem_RequiresSelection(t *testing.T) {
	svc, _ := newTestService(t, gatewaymemory.NewGateway())
	require.ErrorIs(t, svc.AddItem("m1", 1), ErrNoTableSelected)
}

func TestGenerateKOT_NoNewItemsIsFreeOfGatewayCalls(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc, _ := newTestService(t, gw)
	require.NoError(t, svc.SelectTable(context.Background(), 2))

	_, err := svc.GenerateKOT(context.Background())
	require.ErrorIs(t, err, ErrNoNewItems)
	require.Zero(t, gw.Calls("SubmitKOT"))
}

func TestGenerateKOT_FailureLeavesLinesNewForRetry(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc, _ := newTestService(t, gw)
	require.NoError(t, svc.SelectTable(context.Background(), 2))
	require.NoError(t, svc.AddItem("m1", 2))

	gw.FailWith = &gateway.Error{Kind: gateway.KindNetwork, Err: errors.New("connection reset")}
	_, err := svc.GenerateKOT(context.Background())
	require.True(t, gateway.IsNetwork(err))

	lines := svc.OrderLines()
	require.Len(t, lines, 1)
	require.Equal(t, billingdomain.StatusNew, lines[0].Status)
	for _, table := range svc.Tables() {
		if table.Number == 2 {
			require.Equal(t, restaurantdomain.Available, table.Occupancy)
		}
	}

	// The retry resubmits the identical still-new lines.
	gw.FailWith = nil
	sent, err := svc.GenerateKOT(context.Background())
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, 2, sent[0].Quantity)
	require.Equal(t, 2, gw.Calls("SubmitKOT"))
}

func TestSettle_FailureKeepsState(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc, _ := newTestService(t, gw)
	require.NoError(t, svc.SelectTable(context.Background(), 3))
	require.NoError(t, svc.AddItem("m2", 1))
	_, err := svc.GenerateKOT(context.Background())
	require.NoError(t, err)

	gw.FailWith = &gateway.Error{Kind: gateway.KindRemote, Message: "payment pending"}
	err = svc.Settle(context.Background())
	require.Error(t, err)

	_, selected := svc.SelectedTable()
	require.True(t, selected)
	require.Len(t, svc.OrderLines(), 1)
}

func TestSelectTable_FetchFailureIsNonFatalNotice(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc, notices := newTestService(t, gw)

	// Occupy table 4 remotely, then make its order unreadable.
	require.NoError(t, svc.SelectTable(context.Background(), 4))
	require.NoError(t, svc.AddItem("m1", 1))
	_, err := svc.GenerateKOT(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.LoadFloor(context.Background()))
	require.NoError(t, svc.Settle(context.Background()))
	require.NoError(t, svc.LoadFloor(context.Background()))

	// Re-occupy locally without a remote order: fetch will miss.
	svc.mu.Lock()
	svc.tables[4].Occupy()
	svc.mu.Unlock()

	require.NoError(t, svc.SelectTable(context.Background(), 4))
	require.Empty(t, svc.OrderLines())

	drained := notices.Drain()
	require.NotEmpty(t, drained)
	require.Contains(t, drained[len(drained)-1].Message, "table 4")
}

func TestEndToEnd_Table5Scenario(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc, _ := newTestService(t, gw)
	ctx := context.Background()

	require.NoError(t, svc.SelectTable(ctx, 5))
	require.NoError(t, svc.AddItem("m1", 1))
	require.NoError(t, svc.AddItem("m1", 1))

	lines := svc.OrderLines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.InDelta(t, 500.0, lines[0].Subtotal, 1e-9)

	sent, err := svc.GenerateKOT(ctx)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Len(t, gw.LastKOT(5), 1)
	require.Equal(t, 2, gw.LastKOT(5)[0].Quantity)

	lines = svc.OrderLines()
	require.Equal(t, billingdomain.StatusDispatched, lines[0].Status)
	for _, table := range svc.Tables() {
		if table.Number == 5 {
			require.Equal(t, restaurantdomain.Occupied, table.Occupancy)
		}
	}

	// A further add of the same dish opens a fresh line.
	require.NoError(t, svc.AddItem("m1", 1))
	lines = svc.OrderLines()
	require.Len(t, lines, 2)
	require.Equal(t, billingdomain.StatusNew, lines[1].Status)
	require.Equal(t, 1, lines[1].Quantity)
	require.InDelta(t, 250.0, lines[1].Subtotal, 1e-9)

	// Second ticket carries only the new line.
	sent, err = svc.GenerateKOT(ctx)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, 1, sent[0].Quantity)
	require.Len(t, gw.LastKOT(5), 2)

	receipt, err := svc.Receipt()
	require.NoError(t, err)
	require.InDelta(t, 750.0, receipt.Subtotal, 1e-9)
	require.InDelta(t, 37.5, receipt.Tax, 1e-9)
	require.InDelta(t, 787.5, receipt.GrandTotal, 1e-9)
	require.NotNil(t, receipt.TableNumber)
	require.Equal(t, 5, *receipt.TableNumber)

	require.NoError(t, svc.Settle(ctx))
	_, selected := svc.SelectedTable()
	require.False(t, selected)
	for _, table := range svc.Tables() {
		if table.Number == 5 {
			require.Equal(t, restaurantdomain.Available, table.Occupancy)
		}
	}

	// Re-selecting the settled table starts from an empty order.
	require.NoError(t, svc.SelectTable(ctx, 5))
	require.Empty(t, svc.OrderLines())
	require.Zero(t, svc.Total())
}

// blockingGateway holds SubmitKOT on the wire until released so tests can
// interleave cart edits with an in-flight ticket.
type blockingGateway struct {
	*gatewaymemory.Gateway
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) SubmitKOT(ctx context.Context, tableNumber int, lines []gateway.LineRecord) error {
	g.entered <- struct{}{}
	<-g.release
	return g.Gateway.SubmitKOT(ctx, tableNumber, lines)
}

func TestGenerateKOT_QuantityMergedWhileInFlightStaysNew(t *testing.T) {
	gw := &blockingGateway{
		Gateway: gatewaymemory.NewGateway(),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := NewService(menu(), gw, notify.NewQueue(16), "Komsyte Kitchen", 0.05)
	svc.ProvisionTables(5)
	require.NoError(t, svc.SelectTable(context.Background(), 5))
	require.NoError(t, svc.AddItem("m1", 2))

	done := make(chan error, 1)
	go func() {
		_, err := svc.GenerateKOT(context.Background())
		done <- err
	}()

	// The operator keys in one more unit while the ticket is on the wire.
	<-gw.entered
	require.NoError(t, svc.AddItem("m1", 1))
	close(gw.release)
	require.NoError(t, <-done)

	// The kitchen received exactly the two snapshotted units.
	ticket := gw.LastKOT(5)
	require.Len(t, ticket, 1)
	require.Equal(t, 2, ticket[0].Quantity)

	// The merged unit was never acknowledged; it stays new.
	lines := svc.OrderLines()
	require.Len(t, lines, 2)
	require.Equal(t, billingdomain.StatusDispatched, lines[0].Status)
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, billingdomain.StatusNew, lines[1].Status)
	require.Equal(t, 1, lines[1].Quantity)

	// The next ticket carries it, so no unit is ever lost.
	sent, err := svc.GenerateKOT(context.Background())
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, 1, sent[0].Quantity)
	require.InDelta(t, 750.0, svc.Total(), 1e-9)
}

func TestSelectTable_RestoresOpenOrder(t *testing.T) {
	gw := gatewaymemory.NewGateway()
	svc, _ := newTestService(t, gw)
	ctx := context.Background()

	require.NoError(t, svc.SelectTable(ctx, 1))
	require.NoError(t, svc.AddItem("m2", 3))
	_, err := svc.GenerateKOT(ctx)
	require.NoError(t, err)

	// Walk away and come back: occupancy comes from the floor, the order
	// from the gateway.
	require.NoError(t, svc.LoadFloor(ctx))
	require.NoError(t, svc.SelectTable(ctx, 1))

	lines := svc.OrderLines()
	require.Len(t, lines, 1)
	require.Equal(t, billingdomain.StatusDispatched, lines[0].Status)
	require.Equal(t, 3, lines[0].Quantity)
	require.InDelta(t, 120.0, svc.Total(), 1e-9)
}
