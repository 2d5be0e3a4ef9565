// Package server sets up HTTP routing and serves the layer endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ekomapa/geolayers/internal/core/config"
	"github.com/ekomapa/geolayers/internal/core/middleware"
	"github.com/ekomapa/geolayers/internal/health"
	"github.com/ekomapa/geolayers/internal/web"
)

func newRouter(logger *slog.Logger, svc LayerProvider, pinger health.Pinger, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(pinger))
	if metricsHandler != nil {
		r.Get("/metrics", metricsHandler.ServeHTTP)
	}
	r.Get("/api/layers/{layer}/", LayerHandler(logger, svc))
	r.Get("/map/", web.MapPage(logger))
	return r
}

// Run starts the HTTP server and blocks until ctx is canceled or the
// listener fails.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, svc LayerProvider, pinger health.Pinger, metricsHandler http.Handler) error {
	r := newRouter(logger, svc, pinger, metricsHandler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
