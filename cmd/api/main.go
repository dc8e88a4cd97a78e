package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/api/routes"
	"github.com/arjunmehra/shopkart-backend/internal/allocator"
	"github.com/arjunmehra/shopkart-backend/internal/checkout"
	"github.com/arjunmehra/shopkart-backend/internal/clients"
	"github.com/arjunmehra/shopkart-backend/internal/inventory"
	"github.com/arjunmehra/shopkart-backend/internal/orders"
	"github.com/arjunmehra/shopkart-backend/internal/shipping"
	"github.com/arjunmehra/shopkart-backend/internal/warehouses"
	"github.com/arjunmehra/shopkart-backend/pkg/config"
	"github.com/arjunmehra/shopkart-backend/pkg/db"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/metrics"
	"github.com/arjunmehra/shopkart-backend/pkg/migrate"
	"github.com/arjunmehra/shopkart-backend/pkg/paypal"
	"github.com/arjunmehra/shopkart-backend/pkg/redis"
	"github.com/arjunmehra/shopkart-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	sagaMetrics := metrics.NewSagaMetrics(registry)

	checkoutService, ordersService, err := buildServices(cfg, logg, dbClient, redisClient, sagaMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, checkoutService, ordersService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, sagaMetrics *metrics.SagaMetrics) (checkout.Service, orders.Service, error) {
	conn := dbClient.DB()

	warehouseRepo := warehouses.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	attemptRepo := checkout.NewAttemptRepository(conn)

	allocatorService, err := allocator.NewService(warehouseRepo, inventoryRepo, sagaMetrics, logg)
	if err != nil {
		return nil, nil, err
	}

	unitWeight, err := decimal.NewFromString(cfg.Shipping.DefaultUnitWeightKg)
	if err != nil {
		return nil, nil, err
	}
	calc, err := shipping.NewCalculator(warehouseRepo, shipping.UnitWeightFn(unitWeight))
	if err != nil {
		return nil, nil, err
	}
	quoter, err := shipping.NewQuoter(allocatorService, calc)
	if err != nil {
		return nil, nil, err
	}

	cartClient, err := clients.NewCartClient(cfg.Cart)
	if err != nil {
		return nil, nil, err
	}
	catalogClient, err := clients.NewCatalogClient(cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}
	pricingClient, err := clients.NewPricingClient(cfg.Pricing)
	if err != nil {
		return nil, nil, err
	}

	gateway, err := paypal.NewClient(
		cfg.Gateway.ClientID,
		cfg.Gateway.ClientSecret,
		paypal.WithBaseURL(cfg.Gateway.BaseURL),
		paypal.WithHTTPClient(&http.Client{Timeout: cfg.Gateway.Timeout}),
	)
	if err != nil {
		return nil, nil, err
	}

	encryptor, err := security.NewEncryptor(cfg.Security.GatewayIDKey)
	if err != nil {
		return nil, nil, err
	}

	fxRate, err := decimal.NewFromString(cfg.Gateway.FXRateINRUSD)
	if err != nil {
		return nil, nil, err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:         dbClient,
		Attempts:   attemptRepo,
		Orders:     orderRepo,
		Inventory:  inventoryRepo,
		Quoter:     quoter,
		Cart:       cartClient,
		Catalog:    catalogClient,
		Pricing:    pricingClient,
		Gateway:    gateway,
		Crypt:      encryptor,
		Locks:      redisClient,
		Saga:       sagaMetrics,
		Logger:     logg,
		Currency:   cfg.Gateway.Currency,
		FXRate:     fxRate,
		AttemptTTL: cfg.Checkout.AttemptTTL,
	})
	if err != nil {
		return nil, nil, err
	}

	ordersService, err := orders.NewService(dbClient, orderRepo, inventoryRepo, gateway, encryptor, sagaMetrics, logg)
	if err != nil {
		return nil, nil, err
	}

	return checkoutService, ordersService, nil
}
