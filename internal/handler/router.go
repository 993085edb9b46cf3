package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/ledgerlens/recon-engine/internal/infra/observability"
	"github.com/ledgerlens/recon-engine/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc *service.ReconciliationService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Reconciliation
		// GET  /v1/accounts/{accountID}/reconciliation
		// POST /v1/reconciliation/run
		r.Get("/accounts/{accountID}/reconciliation", getReconciliationHandler(svc, logger))
		r.Post("/reconciliation/run", runReconciliationHandler(svc, logger))

		// Disputes
		// GET  /v1/accounts/{accountID}/disputes
		// POST /v1/disputes/{disputeID}/resolve
		r.Get("/accounts/{accountID}/disputes", listDisputesHandler(svc, logger))
		r.Post("/disputes/{disputeID}/resolve", resolveDisputeHandler(svc, logger))

		// Metrics snapshot
		// GET /v1/metrics/reconciliation
		r.Get("/metrics/reconciliation", engineMetricsHandler(metrics, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// GET /v1/metrics/reconciliation
func engineMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetEngineSnapshot()
		writeJSON(w, http.StatusOK, snapshot)
	}
}
