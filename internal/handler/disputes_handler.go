package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ledgerlens/recon-engine/internal/service"
)

// GET /v1/accounts/{accountID}/disputes
func listDisputesHandler(svc *service.ReconciliationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.ListDisputes")
		defer span.End()

		accountID := chi.URLParam(r, "accountID")
		span.SetAttributes(attribute.String("account.id", accountID))

		cases, err := svc.DetectDisputes(ctx, accountID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count":    len(cases),
			"disputes": cases,
		})
	}
}

type resolveDisputeRequest struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes,omitempty"`
}

// POST /v1/disputes/{disputeID}/resolve
func resolveDisputeHandler(svc *service.ReconciliationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.ResolveDispute")
		defer span.End()

		disputeID := chi.URLParam(r, "disputeID")

		var req resolveDisputeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resolution, err := svc.ResolveDispute(ctx, disputeID, req.Outcome, req.Notes)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resolution)
	}
}
