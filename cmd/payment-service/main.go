package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/draftea/order-system/payment-service/config"
	"github.com/draftea/order-system/payment-service/handlers"
	"github.com/draftea/order-system/shared/server"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := server.NewLogger(cfg.ServiceName, cfg.Log)
	logger.Info(logger.WithFields(ctx, map[string]any{
		"env":           cfg.Env,
		"port":          cfg.Port,
		"store_account": cfg.StoreAccount,
	}), "starting payment service")

	tel, shutdownTelemetry, err := server.InitTelemetry(ctx, cfg.Telemetry, telemetry.PaymentServiceConfig)
	if err != nil {
		log.Fatalf("Failed to init telemetry: %v", err)
	}
	defer shutdownTelemetry()
	ctx = telemetry.WithTelemetry(ctx, tel)

	deps, err := config.BuildDependencies(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error(context.Background(), "error closing dependencies", err)
		}
	}()

	router := server.NewRouter(logger, tel, handlers.NewMetricsHandler())
	deps.AccountHandlers.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx, srv)
	})
	g.Go(func() error {
		return deps.EventSubscriber.Subscribe(ctx, deps.EventHandler)
	})
	g.Go(func() error {
		return deps.OutboxRelay.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "payment service stopped with error", err)
		return
	}
	logger.Info(context.Background(), "payment service stopped")
}
