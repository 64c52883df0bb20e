package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/halil-bekli/northwind-orders-webapi/internal/health"
	"github.com/halil-bekli/northwind-orders-webapi/internal/service/rest"
	"github.com/halil-bekli/northwind-orders-webapi/internal/version"
)

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, cleanup, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewPingChecker("postgres", 2*time.Second, deps.Store.Ping))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(rest.RequestID)
	rest.NewOrdersHandler(deps.Repo, logger.WithField("layer", "rest")).RegisterRoutes(router)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("REST API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}

