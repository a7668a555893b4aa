package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	billingdomain "github.com/komsyte/pos-engine/internal/domains/billing/domain"
	"github.com/komsyte/pos-engine/internal/domains/restaurant/domain"
	"github.com/komsyte/pos-engine/internal/domains/restaurant/ports"
)

const tracerName = "github.com/komsyte/pos-engine/internal/domains/restaurant/adapters/observability/service"

// Service decorates the restaurant application port with tracing, logging,
// and metrics. Purely local reads pass through uninstrumented.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// LoadFloor refreshes the table layout from the gateway.
func (s *Service) LoadFloor(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Service.LoadFloor")
	defer span.End()

	s.logInfo(ctx, "loading floor layout")
	if err := s.inner.LoadFloor(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to load floor layout")
	}
	count := len(s.inner.Tables())
	span.SetAttributes(attribute.Int("floor.table_count", count))
	s.logInfo(ctx, "floor layout loaded", slog.Int("table_count", count))
	return nil
}

// Tables returns the floor layout.
func (s *Service) Tables() []domain.Table {
	return s.inner.Tables()
}

// SelectTable makes the table current, restoring its open order if any.
func (s *Service) SelectTable(ctx context.Context, number int) error {
	ctx, span := s.startSpan(ctx, "Service.SelectTable", attribute.Int("table.number", number))
	defer span.End()

	s.logInfo(ctx, "selecting table", slog.Int("table.number", number))
	if err := s.inner.SelectTable(ctx, number); err != nil {
		return s.handleError(ctx, span, err, "failed to select table", slog.Int("table.number", number))
	}
	s.logInfo(ctx, "table selected", slog.Int("table.number", number), slog.Int("order.lines", len(s.inner.OrderLines())))
	return nil
}

// SelectedTable returns the currently selected table number, if any.
func (s *Service) SelectedTable() (int, bool) {
	return s.inner.SelectedTable()
}

// AddItem appends a menu item to the selected table's order.
func (s *Service) AddItem(itemID string, qty int) error {
	return s.inner.AddItem(itemID, qty)
}

// OrderLines returns the selected table's lines.
func (s *Service) OrderLines() []billingdomain.Line {
	return s.inner.OrderLines()
}

// Total sums the selected table's order.
func (s *Service) Total() float64 {
	return s.inner.Total()
}

// GenerateKOT submits the not-yet-dispatched lines to the kitchen.
func (s *Service) GenerateKOT(ctx context.Context) ([]billingdomain.Line, error) {
	ctx, span := s.startSpan(ctx, "Service.GenerateKOT")
	defer span.End()

	s.logInfo(ctx, "generating kitchen ticket")
	lines, err := s.inner.GenerateKOT(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to generate kitchen ticket")
	}
	span.SetAttributes(attribute.Int("kot.line_count", len(lines)))
	s.metrics.recordKOT(ctx, len(lines))
	s.logInfo(ctx, "kitchen ticket dispatched", slog.Int("line_count", len(lines)))
	return lines, nil
}

// Receipt builds the billing document for the selected table.
func (s *Service) Receipt() (billingdomain.Receipt, error) {
	return s.inner.Receipt()
}

// Settle closes the selected table and frees it on the floor.
func (s *Service) Settle(ctx context.Context) error {
	number, _ := s.inner.SelectedTable()
	ctx, span := s.startSpan(ctx, "Service.Settle", attribute.Int("table.number", number))
	defer span.End()

	s.logInfo(ctx, "settling table", slog.Int("table.number", number))
	if err := s.inner.Settle(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to settle table", slog.Int("table.number", number))
	}
	s.metrics.recordSettled(ctx)
	s.logInfo(ctx, "table settled", slog.Int("table.number", number))
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	kotsDispatched metric.Int64Counter
	kotLines       metric.Int64Counter
	tablesSettled  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	kotsDispatched, _ := m.Int64Counter("restaurant.service.kots_dispatched", metric.WithDescription("Number of kitchen tickets dispatched"))
	kotLines, _ := m.Int64Counter("restaurant.service.kot_lines", metric.WithDescription("Number of order lines dispatched to the kitchen"))
	tablesSettled, _ := m.Int64Counter("restaurant.service.tables_settled", metric.WithDescription("Number of tables settled"))
	return serviceMetrics{
		kotsDispatched: kotsDispatched,
		kotLines:       kotLines,
		tablesSettled:  tablesSettled,
	}
}

func (m serviceMetrics) recordKOT(ctx context.Context, lines int) {
	addCounter(ctx, m.kotsDispatched, 1)
	addCounter(ctx, m.kotLines, int64(lines))
}

func (m serviceMetrics) recordSettled(ctx context.Context) {
	addCounter(ctx, m.tablesSettled, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
