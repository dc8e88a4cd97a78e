package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arjunmehra/shopkart-backend/internal/checkout"
	"github.com/arjunmehra/shopkart-backend/internal/inventory"
	"github.com/arjunmehra/shopkart-backend/pkg/config"
	"github.com/arjunmehra/shopkart-backend/pkg/db"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/metrics"
	"github.com/arjunmehra/shopkart-backend/pkg/migrate"
)

// The expiry worker releases stock held by checkout attempts whose payment
// window lapsed without a capture.
func main() {
	logg := logger.New(logger.Options{ServiceName: "expiry-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "expiry-worker"

	logg = logger.New(logger.Options{
		ServiceName: "expiry-worker",
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

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	sweeper, err := checkout.NewSweeper(
		checkout.NewAttemptRepository(dbClient.DB()),
		inventory.NewRepository(dbClient.DB()),
		jobMetrics,
		logg,
		cfg.Sweeper.Interval,
		cfg.Sweeper.BatchSize,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting expiry worker")

	sweeper.Run(ctx)

	logg.Info(ctx, "expiry worker shutting down gracefully")
}
