// Package service provides the business logic layer (use cases).
// ReconciliationService is the reconciliation and risk-detection engine:
// record linkage between the bank feed and the book ledger, suggestion
// generation, risk scoring, and dispute detection.
package service

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
	"github.com/ledgerlens/recon-engine/internal/infra/observability"
	"github.com/ledgerlens/recon-engine/internal/infra/resilience"
	"github.com/ledgerlens/recon-engine/internal/port"
)

var reconTracer = otel.Tracer("service/reconciliation")

// ReconciliationService runs the engine against a ledger store.
// It holds no state between runs; every report is a pure function of the
// store's collections and the configured thresholds.
type ReconciliationService struct {
	store    port.LedgerStore
	cache    port.Cache[*domain.ReconciliationReport]
	bulkhead *resilience.Bulkhead
	cfg      config.EngineConfig
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewReconciliationService creates the engine with all dependencies injected.
// maxConcurrency caps how many accounts ReconcileAll processes in parallel.
func NewReconciliationService(
	store port.LedgerStore,
	reportCache port.Cache[*domain.ReconciliationReport],
	cfg config.EngineConfig,
	maxConcurrency int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		store:    store,
		cache:    reportCache,
		bulkhead: resilience.NewBulkhead(maxConcurrency),
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
	}
}
