// Command gateway runs the land registry HTTP gateway.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/landchain-labs/registry-gateway/internal/accessor"
	"github.com/landchain-labs/registry-gateway/internal/config"
	"github.com/landchain-labs/registry-gateway/internal/httpapi"
	"github.com/landchain-labs/registry-gateway/internal/logging"
	"github.com/landchain-labs/registry-gateway/internal/metrics"
	"github.com/landchain-labs/registry-gateway/internal/middleware"
)

func main() {
	logger := logging.New("registry-gateway")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load configuration: %v", err)
	}

	acc := accessor.New(cfg)

	// Eager first initialize so a healthy deployment serves its first request
	// without the init round trip. Failure is not fatal: the per-request
	// acquire path re-initializes on demand.
	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.RPCTimeout)
	if _, err := acc.Initialize(startupCtx); err != nil {
		logger.Warnf("initial contract connection failed, will retry on demand: %v", err)
	} else {
		logger.Infof("connected to registry contract %s via %s", cfg.ContractHash, cfg.RPCURL)
	}
	cancel()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	handler := httpapi.NewHandler(acc, logger, cfg)
	router := httpapi.NewRouter(handler, promRegistry)

	rateLimiter := middleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateBurst, logger)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.Cleanup(10 * time.Minute)
		}
	}()

	cors := middleware.NewCORS(cfg.CORSOrigins)

	router.Use(middleware.Logging(logger))
	router.Use(middleware.Metrics(m))
	router.Use(cors.Handler)
	router.Use(rateLimiter.Handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infof("listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
	logger.Info("stopped")
}
