package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	billingdomain "github.com/komsyte/pos-engine/internal/domains/billing/domain"
	billingports "github.com/komsyte/pos-engine/internal/domains/billing/ports"
	"github.com/komsyte/pos-engine/internal/domains/restaurant/domain"
	"github.com/komsyte/pos-engine/internal/domains/restaurant/ports"
	"github.com/komsyte/pos-engine/internal/gateway"
	"github.com/komsyte/pos-engine/internal/shared/notify"
)

// Service drives the table and kitchen-dispatch workflow. Transitions that
// change persisted truth (dispatch, settle) apply locally only after the
// gateway acknowledged; purely local cart edits stay optimistic.
type Service struct {
	mu      sync.Mutex
	catalog billingports.Catalog
	gw      gateway.Gateway
	notices *notify.Queue

	tables   map[int]*domain.Table
	selected *int
	order    *billingdomain.Order
	// session tags in-flight gateway requests with the selection they were
	// issued for; responses carrying a stale tag are discarded.
	session string

	shopName string
	taxRate  float64

	now       func() time.Time
	newNumber func() string

	dispatching atomic.Bool
	settling    atomic.Bool
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

// NewService wires the restaurant service with its collaborators.
func NewService(catalog billingports.Catalog, gw gateway.Gateway, notices *notify.Queue, shopName string, taxRate float64, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		gw:        gw,
		notices:   notices,
		tables:    map[int]*domain.Table{},
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

// ProvisionTables seeds the floor locally when the gateway layout is
// unavailable. Existing occupancy is preserved for known numbers.
func (s *Service) ProvisionTables(numbers ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range numbers {
		if _, ok := s.tables[n]; !ok {
			s.tables[n] = &domain.Table{Number: n, Occupancy: domain.Available}
		}
	}
}

// LoadFloor replaces the table layout from the gateway.
func (s *Service) LoadFloor(ctx context.Context) error {
	records, err := s.gw.FetchTables(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tables := make(map[int]*domain.Table, len(records))
	for _, r := range records {
		occupancy := domain.Available
		if r.IsOccupied() {
			occupancy = domain.Occupied
		}
		tables[r.Number] = &domain.Table{Number: r.Number, Occupancy: occupancy}
	}
	s.tables = tables
	return nil
}

// Tables returns the floor layout sorted by table number.
func (s *Service) Tables() []domain.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	tables := make([]domain.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, *t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables
}

// SelectedTable returns the currently selected table number, if any.
func (s *Service) SelectedTable() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return 0, false
	}
	return *s.selected, true
}

// SelectTable makes the table current. For an occupied table the open
// order is fetched from the gateway; a fetch failure is a non-fatal notice
// and selection proceeds with a fresh order.
func (s *Service) SelectTable(ctx context.Context, number int) error {
	s.mu.Lock()
	table, ok := s.tables[number]
	if !ok {
		s.mu.Unlock()
		return domain.ErrUnknownTable
	}
	token := s.rotateSessionLocked()
	n := number
	s.selected = &n
	s.order = billingdomain.NewTableOrder(number)
	occupied := table.IsOccupied()
	s.mu.Unlock()

	if !occupied {
		return nil
	}

	records, err := s.gw.FetchOrder(ctx, number)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != token {
		return ErrSelectionChanged
	}
	if err != nil {
		s.notify(notify.LevelWarning, fmt.Sprintf("No active order found for table %d. Starting a new one.", number))
		return nil
	}
	s.order = billingdomain.RestoreTableOrder(number, fromLineRecords(records))
	return nil
}

// AddItem merges a menu item into the selected table's order. Lines already
// sent to the kitchen are never touched; a fresh line is appended instead.
func (s *Service) AddItem(itemID string, qty int) error {
	product, ok := s.catalog.ByID(itemID)
	if !ok {
		if product, ok = s.catalog.ByBarcode(itemID); !ok {
			return ErrItemNotFound
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return ErrNoTableSelected
	}
	return s.order.AddItem(
		billingdomain.ItemRef{ID: product.ID, Barcode: product.Barcode, Name: product.Name},
		product.Price,
		qty,
	)
}

// OrderLines returns a copy of the selected table's lines.
func (s *Service) OrderLines() []billingdomain.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return nil
	}
	return s.order.Lines()
}

// Total sums the selected table's order across every dispatch status.
func (s *Service) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return 0
	}
	return s.order.Total()
}

// GenerateKOT submits exactly the not-yet-dispatched lines to the kitchen.
// With nothing new it returns ErrNoNewItems without a gateway call. Lines
// transition to dispatched, and the table to occupied, only after the
// gateway acknowledged; a failed submit leaves every line new so a retry
// resubmits the same ticket.
func (s *Service) GenerateKOT(ctx context.Context) ([]billingdomain.Line, error) {
	if !s.dispatching.CompareAndSwap(false, true) {
		return nil, ErrOperationInFlight
	}
	defer s.dispatching.Store(false)

	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil, ErrNoTableSelected
	}
	fresh := s.order.NewLines()
	if len(fresh) == 0 {
		s.mu.Unlock()
		return nil, ErrNoNewItems
	}
	tableNumber := *s.selected
	token := s.session
	snapshotLen := s.order.Len()
	s.mu.Unlock()

	err := s.gw.SubmitKOT(ctx, tableNumber, toLineRecords(fresh))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if s.session != token {
		return nil, ErrSelectionChanged
	}
	// Only the submitted quantities transition; anything merged or appended
	// while the ticket was on the wire stays new for the next dispatch.
	s.order.MarkDispatchedPrefix(snapshotLen, fresh)
	if table, ok := s.tables[tableNumber]; ok {
		table.Occupy()
	}
	return fresh, nil
}

// Receipt builds the billing document for the selected table's current
// order without mutating it.
func (s *Service) Receipt() (billingdomain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return billingdomain.Receipt{}, ErrNoTableSelected
	}
	if s.order.Empty() {
		return billingdomain.Receipt{}, billingdomain.ErrEmptyOrder
	}
	return billingdomain.BuildReceipt(s.order, s.shopName, s.taxRate, s.now(), s.newNumber()), nil
}

// Settle closes the table on the gateway; only on acknowledgment is the
// working order destroyed and the table returned to the floor.
func (s *Service) Settle(ctx context.Context) error {
	if !s.settling.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	defer s.settling.Store(false)

	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return ErrNoTableSelected
	}
	tableNumber := *s.selected
	token := s.session
	s.mu.Unlock()

	err := s.gw.CloseTable(ctx, tableNumber)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return err
	}
	// The backend closed the table either way; free it on the floor.
	if table, ok := s.tables[tableNumber]; ok {
		table.Release()
	}
	if s.session != token {
		s.notify(notify.LevelInfo, fmt.Sprintf("Table %d has been settled and is now available.", tableNumber))
		return ErrSelectionChanged
	}
	s.order = nil
	s.selected = nil
	s.rotateSessionLocked()
	return nil
}

func (s *Service) rotateSessionLocked() string {
	s.session = uuid.NewString()
	return s.session
}

func (s *Service) notify(level notify.Level, message string) {
	if s.notices != nil {
		s.notices.Push(level, message)
	}
}

func toLineRecords(lines []billingdomain.Line) []gateway.LineRecord {
	records := make([]gateway.LineRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, gateway.LineRecord{
			ItemID:   line.Item.ID,
			Barcode:  line.Item.Barcode,
			Name:     line.Item.Name,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
			Subtotal: line.Subtotal,
			Status:   string(line.Status),
		})
	}
	return records
}

func fromLineRecords(records []gateway.LineRecord) []billingdomain.Line {
	lines := make([]billingdomain.Line, 0, len(records))
	for _, r := range records {
		status := billingdomain.LineStatus(r.Status)
		switch status {
		case billingdomain.StatusNew, billingdomain.StatusDispatched, billingdomain.StatusBilled:
		default:
			// Lines persisted by a kitchen ticket are committed.
			status = billingdomain.StatusDispatched
		}
		lines = append(lines, billingdomain.Line{
			Item:      billingdomain.ItemRef{ID: r.ItemID, Barcode: r.Barcode, Name: r.Name},
			UnitPrice: r.Price,
			Quantity:  r.Quantity,
			Subtotal:  r.Price * float64(r.Quantity),
			Status:    status,
		})
	}
	return lines
}

var _ ports.Service = (*Service)(nil)
