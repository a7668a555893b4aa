package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	posserver "github.com/komsyte/pos-engine/go"

	billingapp "github.com/komsyte/pos-engine/internal/domains/billing/application"
	catalogapp "github.com/komsyte/pos-engine/internal/domains/catalog/application"
	plansdomain "github.com/komsyte/pos-engine/internal/domains/plans/domain"
	restaurantapp "github.com/komsyte/pos-engine/internal/domains/restaurant/application"
	gatewaymemory "github.com/komsyte/pos-engine/internal/gateway/memory"
	"github.com/komsyte/pos-engine/internal/shared/notify"
)

func testHandlers(t *testing.T) posserver.ApiHandleFunctions {
	t.Helper()
	gw := gatewaymemory.NewGateway()
	gw.SeedTables(1, 2)

	catalog := catalogapp.NewService(gw, plansdomain.PlanFree, catalogapp.SourceStock, 10)
	require.NoError(t, catalog.Refresh(context.Background()))

	notices := notify.NewQueue(8)
	billing := billingapp.NewService(catalog, gw, "Komsyte", 0.05)
	restaurant := restaurantapp.NewService(catalog, gw, notices, "Komsyte", 0.05)
	require.NoError(t, restaurant.LoadFloor(context.Background()))

	return posserver.ApiHandleFunctions{
		BillingAPI:    posserver.NewBillingAPI(billing),
		RestaurantAPI: posserver.NewRestaurantAPI(restaurant),
		CatalogAPI:    posserver.NewCatalogAPI(catalog),
		NoticeAPI:     posserver.NewNoticeAPI(notices),
	}
}

func TestBuildRouter_TracesRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	router := buildRouter("komsyte-pos-test", testHandlers(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/notices", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Routes are registered after the middleware is attached, so every
	// request through the router produces a span.
	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	require.Equal(t, "/v1/notices", spans[0].Name())
}
