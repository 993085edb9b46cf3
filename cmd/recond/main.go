package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
	"github.com/ledgerlens/recon-engine/internal/handler"
	"github.com/ledgerlens/recon-engine/internal/infra/cache"
	"github.com/ledgerlens/recon-engine/internal/infra/ledgerapi"
	"github.com/ledgerlens/recon-engine/internal/infra/memstore"
	"github.com/ledgerlens/recon-engine/internal/infra/observability"
	"github.com/ledgerlens/recon-engine/internal/infra/resilience"
	"github.com/ledgerlens/recon-engine/internal/port"
	"github.com/ledgerlens/recon-engine/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_ledger_api", cfg.UseLedgerAPI),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Float64("match_threshold", cfg.Engine.MatchThreshold),
		zap.Float64("amount_reject_limit", cfg.Engine.AmountRejectLimit),
		zap.Int("date_reject_days", cfg.Engine.DateRejectDays),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "recon-engine")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	reportCache := cache.New[*domain.ReconciliationReport](cfg.CacheTTL)

	// --- Store ---
	var store port.LedgerStore
	if cfg.UseLedgerAPI && cfg.LedgerAPIURL != "" {
		logger.Info("using ledger API as data backend",
			zap.String("ledger_api_url", cfg.LedgerAPIURL),
		)
		resilienceCfg := resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxConcurrency: cfg.MaxConcurrency,
		}
		cb := resilience.NewCircuitBreaker("ledger-api")
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		store = ledgerapi.NewClient(httpClient, cfg.LedgerAPIURL, cb, resilienceCfg)
	} else {
		logger.Info("using in-memory store with sample data")
		mem := memstore.New()
		mem.SeedSample()
		store = mem
	}

	// --- Service ---
	reconSvc := service.NewReconciliationService(
		store,
		reportCache,
		cfg.Engine,
		cfg.MaxConcurrency,
		metrics,
		logger,
	)

	// --- Router ---
	router := handler.NewRouter(reconSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
