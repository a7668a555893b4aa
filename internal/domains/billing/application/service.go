package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/komsyte/pos-engine/internal/domains/billing/domain"
	"github.com/komsyte/pos-engine/internal/domains/billing/ports"
	"github.com/komsyte/pos-engine/internal/gateway"
)

// Service accumulates a tab-less simple bill: barcode adds merge locally,
// finalize persists through the gateway and only then clears the cart.
type Service struct {
	mu      sync.Mutex
	catalog ports.Catalog
	gw      gateway.Gateway
	order   *domain.Order

	shopName string
	taxRate  float64

	now       func() time.Time
	newNumber func() string

	finalizing atomic.Bool
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNumberSource overrides receipt number generation.
func WithNumberSource(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newNumber = next
		}
	}
}

// NewService wires the simple-bill service with its collaborators.
func NewService(catalog ports.Catalog, gw gateway.Gateway, shopName string, taxRate float64, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		gw:        gw,
		order:     domain.NewOrder(),
		shopName:  shopName,
		taxRate:   taxRate,
		now:       time.Now,
		newNumber: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddItem looks the barcode up in the catalog snapshot and merges it into
// the cart. The stock check is advisory; the gateway decides at finalize.
func (s *Service) AddItem(barcode string, qty int) error {
	product, ok := s.catalog.ByBarcode(barcode)
	if !ok {
		return ErrItemNotFound
	}
	if !product.InStock() {
		return ErrOutOfStock
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.AddItem(
		domain.ItemRef{ID: product.ID, Barcode: product.Barcode, Name: product.Name},
		product.Price,
		qty,
	)
}

// RemoveItem drops a cart line by index.
func (s *Service) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.RemoveLine(index)
}

// Clear empties the cart.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Clear()
}

// Lines returns a copy of the current cart lines.
func (s *Service) Lines() []domain.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Lines()
}

// Total sums the cart; pure, no side effects.
func (s *Service) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Total()
}

// FinalizeBill persists the bill through the gateway. Cart lines transition
// to billed and the cart clears only after the gateway acknowledged; on
// failure the cart is untouched and the operator may retry.
func (s *Service) FinalizeBill(ctx context.Context) (domain.Receipt, error) {
	if !s.finalizing.CompareAndSwap(false, true) {
		return domain.Receipt{}, ErrOperationInFlight
	}
	defer s.finalizing.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.Empty() {
		return domain.Receipt{}, domain.ErrEmptyOrder
	}

	receipt := domain.BuildReceipt(s.order, s.shopName, s.taxRate, s.now(), s.newNumber())
	if err := s.gw.FinalizeBill(ctx, toBillRecord(receipt, s.order.Lines())); err != nil {
		return domain.Receipt{}, err
	}

	s.order.MarkBilled()
	s.order = domain.NewOrder()
	return receipt, nil
}

func toBillRecord(receipt domain.Receipt, lines []domain.Line) gateway.BillRecord {
	record := gateway.BillRecord{
		Number:      receipt.Number,
		TableNumber: receipt.TableNumber,
		Subtotal:    receipt.Subtotal,
		Tax:         receipt.Tax,
		GrandTotal:  receipt.GrandTotal,
		IssuedAt:    receipt.IssuedAt,
	}
	for _, line := range lines {
		record.Items = append(record.Items, gateway.LineRecord{
			ItemID:   line.Item.ID,
			Barcode:  line.Item.Barcode,
			Name:     line.Item.Name,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
			Subtotal: line.Subtotal,
			Status:   string(line.Status),
		})
	}
	return record
}

var _ ports.Service = (*Service)(nil)
