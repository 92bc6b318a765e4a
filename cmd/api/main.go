package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hardikpatel/shopkart-backend/api/routes"
	"github.com/hardikpatel/shopkart-backend/internal/carts"
	"github.com/hardikpatel/shopkart-backend/internal/coupons"
	"github.com/hardikpatel/shopkart-backend/internal/inventory"
	"github.com/hardikpatel/shopkart-backend/internal/notifications"
	"github.com/hardikpatel/shopkart-backend/internal/orders"
	"github.com/hardikpatel/shopkart-backend/internal/payments"
	"github.com/hardikpatel/shopkart-backend/internal/settings"
	"github.com/hardikpatel/shopkart-backend/internal/shipping"
	"github.com/hardikpatel/shopkart-backend/pkg/config"
	"github.com/hardikpatel/shopkart-backend/pkg/db"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/metrics"
	"github.com/hardikpatel/shopkart-backend/pkg/migrate"
	"github.com/hardikpatel/shopkart-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	settingsSvc, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	couponsSvc, err := coupons.NewService(coupons.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}
	shippingSvc, err := shipping.NewService(shipping.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}
	inventorySvc, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	cartsSvc, err := carts.NewService(carts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create carts service", err)
		os.Exit(1)
	}
	paymentsSvc, err := payments.NewService(settingsSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	notificationMetrics := metrics.NewNotificationMetrics(prometheus.DefaultRegisterer)
	dispatcher, err := notifications.NewDispatcher(settingsSvc, logg, notificationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}
	defer dispatcher.Close()

	ordersSvc, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		settingsSvc,
		cartsSvc,
		couponsSvc,
		shippingSvc,
		inventorySvc,
		paymentsSvc,
		dispatcher,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
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
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Settings:  settingsSvc,
			Coupons:   couponsSvc,
			Shipping:  shippingSvc,
			Inventory: inventorySvc,
			Carts:     cartsSvc,
			Orders:    ordersSvc,
			Payments:  paymentsSvc,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
		// Let queued order notifications finish before the process exits.
		dispatcher.Flush()
	}

	logg.Info(ctx, "api server stopped")
}
