// Package memory provides an in-memory stand-in for the persistence
// gateway, used for local development and tests. It is not a persistence
// layer: the real service owns storage truth.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/komsyte/pos-engine/internal/gateway"
)

var _ gateway.Gateway = (*Gateway)(nil)

// Gateway keeps catalog, tables, orders, and bills in process memory and
// counts calls per operation so tests can assert call budgets.
type Gateway struct {
	mu       sync.Mutex
	products []gateway.ProductRecord
	tables   map[int]gateway.TableRecord
	orders   map[int][]gateway.LineRecord
	bills    []gateway.BillRecord
	calls    map[string]int

	// FailWith, when set, is returned by every mutating operation.
	FailWith error
}

// NewGateway builds an empty in-memory gateway.
func NewGateway() *Gateway {
	return &Gateway{
		tables: map[int]gateway.TableRecord{},
		orders: map[int][]gateway.LineRecord{},
		calls:  map[string]int{},
	}
}

// SeedProducts replaces the product list.
func (g *Gateway) SeedProducts(products []gateway.ProductRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.products = append([]gateway.ProductRecord(nil), products...)
}

// SeedTables provisions the floor layout.
func (g *Gateway) SeedTables(numbers ...int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range numbers {
		g.tables[n] = gateway.TableRecord{Number: n, Status: "available"}
	}
}

// Calls returns how many times the named operation was invoked.
func (g *Gateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

// Bills returns the finalized bills accepted so far.
func (g *Gateway) Bills() []gateway.BillRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gateway.BillRecord(nil), g.bills...)
}

// LastKOT returns the most recent kitchen ticket for the table.
func (g *Gateway) LastKOT(tableNumber int) []gateway.LineRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gateway.LineRecord(nil), g.orders[tableNumber]...)
}

func (g *Gateway) FetchCatalog(context.Context) ([]gateway.ProductRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["FetchCatalog"]++
	return append([]gateway.ProductRecord(nil), g.products...), nil
}

func (g *Gateway) FetchStock(context.Context) ([]gateway.ProductRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["FetchStock"]++
	return append([]gateway.ProductRecord(nil), g.products...), nil
}

func (g *Gateway) FetchTables(context.Context) ([]gateway.TableRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["FetchTables"]++
	tables := make([]gateway.TableRecord, 0, len(g.tables))
	for _, t := range g.tables {
		tables = append(tables, t)
	}
	return tables, nil
}

func (g *Gateway) FetchOrder(_ context.Context, tableNumber int) ([]gateway.LineRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["FetchOrder"]++
	lines, ok := g.orders[tableNumber]
	if !ok {
		return nil, &gateway.Error{Kind: gateway.KindNotFound, Message: fmt.Sprintf("no active order for table %d", tableNumber)}
	}
	return append([]gateway.LineRecord(nil), lines...), nil
}

func (g *Gateway) SubmitKOT(_ context.Context, tableNumber int, lines []gateway.LineRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["SubmitKOT"]++
	if g.FailWith != nil {
		return g.FailWith
	}
	for _, line := range lines {
		// Lines on an accepted ticket are committed to the kitchen.
		line.Status = "dispatched"
		g.orders[tableNumber] = append(g.orders[tableNumber], line)
	}
	g.tables[tableNumber] = gateway.TableRecord{Number: tableNumber, Status: "occupied"}
	return nil
}

func (g *Gateway) CloseTable(_ context.Context, tableNumber int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["CloseTable"]++
	if g.FailWith != nil {
		return g.FailWith
	}
	delete(g.orders, tableNumber)
	g.tables[tableNumber] = gateway.TableRecord{Number: tableNumber, Status: "available"}
	return nil
}

func (g *Gateway) FinalizeBill(_ context.Context, bill gateway.BillRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["FinalizeBill"]++
	if g.FailWith != nil {
		return g.FailWith
	}
	g.bills = append(g.bills, bill)
	for _, item := range bill.Items {
		for i := range g.products {
			if g.products[i].Barcode == item.Barcode {
				g.products[i].Quantity -= item.Quantity
			}
		}
	}
	return nil
}

func (g *Gateway) AdjustStock(_ context.Context, barcode string, deltaQty int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["AdjustStock"]++
	if g.FailWith != nil {
		return g.FailWith
	}
	for i := range g.products {
		if g.products[i].Barcode == barcode {
			g.products[i].Quantity += deltaQty
			return nil
		}
	}
	return &gateway.Error{Kind: gateway.KindNotFound, Message: fmt.Sprintf("product %q not found", barcode)}
}

func (g *Gateway) RegisterProduct(_ context.Context, product gateway.ProductRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["RegisterProduct"]++
	if g.FailWith != nil {
		return g.FailWith
	}
	for _, existing := range g.products {
		if existing.Barcode == product.Barcode {
			return &gateway.Error{Kind: gateway.KindRemote, Message: fmt.Sprintf("product %q already registered", product.Barcode)}
		}
	}
	if product.ID == "" {
		product.ID = fmt.Sprintf("mem-%d", len(g.products)+1)
	}
	g.products = append(g.products, product)
	return nil
}

func (g *Gateway) DeleteProduct(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["DeleteProduct"]++
	if g.FailWith != nil {
		return g.FailWith
	}
	for i, p := range g.products {
		if p.ID == id {
			g.products = append(g.products[:i], g.products[i+1:]...)
			return nil
		}
	}
	return &gateway.Error{Kind: gateway.KindNotFound, Message: fmt.Sprintf("product %q not found", id)}
}
