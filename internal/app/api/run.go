package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	posserver "github.com/komsyte/pos-engine/go"

	billingapp "github.com/komsyte/pos-engine/internal/domains/billing/application"
	catalogapp "github.com/komsyte/pos-engine/internal/domains/catalog/application"
	plansdomain "github.com/komsyte/pos-engine/internal/domains/plans/domain"
	restaurantobs "github.com/komsyte/pos-engine/internal/domains/restaurant/adapters/observability"
	restaurantapp "github.com/komsyte/pos-engine/internal/domains/restaurant/application"
	restaurantports "github.com/komsyte/pos-engine/internal/domains/restaurant/ports"
	"github.com/komsyte/pos-engine/internal/gateway"
	gatewayhttp "github.com/komsyte/pos-engine/internal/gateway/httpgw"
	gatewaymemory "github.com/komsyte/pos-engine/internal/gateway/memory"
	platformobservability "github.com/komsyte/pos-engine/internal/platform/observability"
	"github.com/komsyte/pos-engine/internal/shared/notify"
)

// Run boots the engine HTTP API with observability, the persistence
// gateway, and both billing modes wired.
func Run(ctx context.Context) error {
	const serviceName = "komsyte-pos"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	plan := plansdomain.Resolve(cfg.SubscriptionPlan)
	logger.Info("engine configured",
		slog.String("shop", cfg.ShopName),
		slog.String("plan", string(plan)),
		slog.Float64("tax_rate", cfg.TaxRate),
	)

	gw := buildGateway(cfg, logger)
	notices := notify.NewQueue(0)

	stockCatalog := catalogapp.NewService(gw, plan, catalogapp.SourceStock, cfg.LowStockThreshold)
	if err := stockCatalog.Refresh(ctx); err != nil {
		logger.Warn("initial stock snapshot unavailable, starting empty", slog.String("error", err.Error()))
	}
	menuCatalog := catalogapp.NewService(gw, plan, catalogapp.SourceMenu, cfg.LowStockThreshold)
	if err := menuCatalog.Refresh(ctx); err != nil {
		logger.Warn("initial menu snapshot unavailable, starting empty", slog.String("error", err.Error()))
	}

	billingService := billingapp.NewService(stockCatalog, gw, cfg.ShopName, cfg.TaxRate)

	coreRestaurant := restaurantapp.NewService(menuCatalog, gw, notices, cfg.ShopName, cfg.TaxRate)
	provisionFloor(ctx, coreRestaurant, cfg.TableCount, logger)
	var restaurantService restaurantports.Service = restaurantobs.New(
		coreRestaurant,
		restaurantobs.WithLogger(logger),
		restaurantobs.WithTracer(instruments.Tracer("internal.restaurant.application")),
		restaurantobs.WithMeter(instruments.Meter("internal.restaurant.application")),
	)

	handlers := posserver.ApiHandleFunctions{
		BillingAPI:    posserver.NewBillingAPI(billingService),
		RestaurantAPI: posserver.NewRestaurantAPI(restaurantService),
		CatalogAPI:    posserver.NewCatalogAPI(stockCatalog),
		NoticeAPI:     posserver.NewNoticeAPI(notices),
	}

	router := buildRouter(serviceName, handlers)
	addr := ":" + cfg.Port
	logger.Info("engine API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("engine API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildRouter assembles the gin engine. Middleware must be attached before
// the routes it wraps: gin snapshots the handler chain at registration.
func buildRouter(serviceName string, handlers posserver.ApiHandleFunctions) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	return posserver.NewRouterWithGinEngine(router, handlers)
}

// buildGateway prefers the remote backend and falls back to the in-memory
// gateway when no base URL is configured or the client cannot be built.
func buildGateway(cfg Config, logger *slog.Logger) gateway.Gateway {
	if cfg.GatewayBaseURL == "" {
		logger.Warn("GATEWAY_BASE_URL not set, falling back to in-memory gateway")
		return gatewaymemory.NewGateway()
	}
	opts := []gatewayhttp.Option{}
	if cfg.GatewayToken != "" {
		opts = append(opts, gatewayhttp.WithBearerToken(cfg.GatewayToken))
	}
	client, err := gatewayhttp.NewClient(cfg.GatewayBaseURL, opts...)
	if err != nil {
		logger.Warn("failed to build gateway client, falling back to memory", slog.String("error", err.Error()))
		return gatewaymemory.NewGateway()
	}
	logger.Info("persistence gateway configured", slog.String("base_url", cfg.GatewayBaseURL))
	return client
}

// provisionFloor loads the table layout from the gateway and seeds a local
// default floor when the layout is unavailable.
func provisionFloor(ctx context.Context, svc *restaurantapp.Service, tableCount int, logger *slog.Logger) {
	if err := svc.LoadFloor(ctx); err == nil && len(svc.Tables()) > 0 {
		logger.Info("floor layout loaded from gateway", slog.Int("tables", len(svc.Tables())))
		return
	} else if err != nil {
		logger.Warn("floor layout unavailable, provisioning default tables", slog.String("error", err.Error()))
	}
	numbers := make([]int, 0, tableCount)
	for n := 1; n <= tableCount; n++ {
		numbers = append(numbers, n)
	}
	svc.ProvisionTables(numbers...)
}
