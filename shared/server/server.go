// Package server holds the process plumbing every service main shares.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/draftea/order-system/shared/config"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

const shutdownTimeout = 30 * time.Second

// NewLogger builds the service logger from its log section.
func NewLogger(serviceName string, cfg config.Log) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.Level),
		Format:      cfg.Format,
		WarnStack:   cfg.WarnStack,
	})
}

// InitTelemetry exports to OTLP and Prometheus when enabled. Otherwise the
// global no-op providers stay in place.
func InitTelemetry(ctx context.Context, cfg config.Telemetry, base telemetry.Config) (*telemetry.Telemetry, func(), error) {
	if !cfg.Enabled {
		return telemetry.NewTelemetry(base), func() {}, nil
	}
	return telemetry.InitTelemetry(ctx, base.WithOTLPEndpoint(cfg.OTLPEndpoint))
}

// NewRouter returns a chi router with the common middleware stack, /health
// and /metrics.
func NewRouter(log *logger.Logger, tel *telemetry.Telemetry, metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if tel != nil {
		r.Use(telemetry.Middleware(tel))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	return nil
}
