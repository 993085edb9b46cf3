package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ledgerlens/recon-engine/internal/service"
)

// GET /v1/accounts/{accountID}/reconciliation?start=YYYY-MM-DD&end=YYYY-MM-DD
func getReconciliationHandler(svc *service.ReconciliationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.GetReconciliation")
		defer span.End()

		accountID := chi.URLParam(r, "accountID")
		span.SetAttributes(attribute.String("account.id", accountID))

		start, end, err := parsePeriod(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.Reconcile(ctx, accountID, start, end)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// POST /v1/reconciliation/run?start=YYYY-MM-DD&end=YYYY-MM-DD
// Runs reconciliation for every known account.
func runReconciliationHandler(svc *service.ReconciliationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.RunReconciliation")
		defer span.End()

		start, end, err := parsePeriod(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		reports, err := svc.ReconcileAll(ctx, start, end)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"accounts": len(reports),
			"reports":  reports,
		})
	}
}
