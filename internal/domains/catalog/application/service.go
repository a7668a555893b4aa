package application

import (
	"context"
	"sync"

	"github.com/komsyte/pos-engine/internal/domains/catalog/domain"
	plansdomain "github.com/komsyte/pos-engine/internal/domains/plans/domain"
	"github.com/komsyte/pos-engine/internal/gateway"
)

// Source selects which backend listing feeds the snapshot.
type Source int

const (
	// SourceStock feeds from the product/stock list (simple billing).
	SourceStock Source = iota
	// SourceMenu feeds from the restaurant menu.
	SourceMenu
)

// Service owns the catalog snapshot and the plan-gated catalog operations.
// The snapshot is an immutable value replaced wholesale on refresh; every
// gated operation consults the capability gate before touching the gateway.
type Service struct {
	mu        sync.RWMutex
	gw        gateway.Gateway
	plan      plansdomain.Plan
	source    Source
	snapshot  *domain.Snapshot
	threshold int
}

// NewService wires the catalog service. threshold is the low-stock alert
// boundary in units.
func NewService(gw gateway.Gateway, plan plansdomain.Plan, source Source, threshold int) *Service {
	return &Service{
		gw:        gw,
		plan:      plan,
		source:    source,
		snapshot:  domain.NewSnapshot(nil),
		threshold: threshold,
	}
}

// Refresh replaces the whole snapshot from the gateway. Lookups observe
// either the old or the new snapshot, never a partial edit.
func (s *Service) Refresh(ctx context.Context) error {
	var (
		records []gateway.ProductRecord
		err     error
	)
	if s.source == SourceMenu {
		records, err = s.gw.FetchCatalog(ctx)
	} else {
		records, err = s.gw.FetchStock(ctx)
	}
	if err != nil {
		return err
	}
	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		products = append(products, domain.Product{
			ID:       r.ID,
			Barcode:  r.Barcode,
			Name:     r.Name,
			Category: r.Category,
			Price:    r.Price,
			Quantity: r.Quantity,
		})
	}
	next := domain.NewSnapshot(products)
	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()
	return nil
}

func (s *Service) current() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// ByBarcode looks up a product in the current snapshot.
func (s *Service) ByBarcode(barcode string) (domain.Product, bool) {
	return s.current().ByBarcode(barcode)
}

// ByID looks up a product in the current snapshot.
func (s *Service) ByID(id string) (domain.Product, bool) {
	return s.current().ByID(id)
}

// All lists the current snapshot.
func (s *Service) All() []domain.Product {
	return s.current().All()
}

// Search filters the snapshot by name or barcode substring.
func (s *Service) Search(term string) []domain.Product {
	return s.current().Search(term)
}

// Len returns the catalog size the register ceiling is checked against.
func (s *Service) Len() int {
	return s.current().Len()
}

// Plan returns the subscription plan the service authorizes against.
func (s *Service) Plan() plansdomain.Plan {
	return s.plan
}

// Capabilities returns the capability set granted by the current plan.
func (s *Service) Capabilities() plansdomain.CapabilitySet {
	return plansdomain.Capabilities(s.plan)
}

// LowStockAlerts returns products at or below the alert threshold.
// Refused outright on plans without the alert capability.
func (s *Service) LowStockAlerts() ([]domain.Product, error) {
	if err := plansdomain.Authorize(s.plan, plansdomain.OpLowStockAlert); err != nil {
		return nil, err
	}
	return s.current().LowStock(s.threshold), nil
}

// CanBulkUpload checks the bulk-upload capability. File handling itself
// happens outside the engine.
func (s *Service) CanBulkUpload() error {
	return plansdomain.Authorize(s.plan, plansdomain.OpBulkUpload)
}

// AdjustStock adds qty units to an existing product through the gateway.
// A capability refusal or validation failure costs zero gateway calls.
func (s *Service) AdjustStock(ctx context.Context, barcode string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if err := plansdomain.Authorize(s.plan, plansdomain.OpUpdateStockQuantity); err != nil {
		return err
	}
	if err := s.gw.AdjustStock(ctx, barcode, qty); err != nil {
		return err
	}
	// Snapshot truth is advisory; a failed refetch just leaves it stale
	// until the next refresh.
	_ = s.Refresh(ctx)
	return nil
}

// RegisterProduct creates a new catalog entry through the gateway after
// checking the plan's catalog size ceiling against the snapshot.
func (s *Service) RegisterProduct(ctx context.Context, barcode, name, category string, price float64, qty int) (domain.Product, error) {
	product, err := domain.NewProduct("", barcode, name, category, price, qty)
	if err != nil {
		return domain.Product{}, err
	}
	if err := plansdomain.AuthorizeRegister(s.plan, s.Len(), false); err != nil {
		return domain.Product{}, err
	}
	record := gateway.ProductRecord{
		Barcode:  product.Barcode,
		Name:     product.Name,
		Category: product.Category,
		Price:    product.Price,
		Quantity: product.Quantity,
	}
	if err := s.gw.RegisterProduct(ctx, record); err != nil {
		return domain.Product{}, err
	}
	_ = s.Refresh(ctx)
	return product, nil
}

// DeleteProduct removes a catalog entry through the gateway.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.gw.DeleteProduct(ctx, id); err != nil {
		return err
	}
	_ = s.Refresh(ctx)
	return nil
}
