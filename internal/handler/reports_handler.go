package handler

import (
	"net/http"

	"github.com/boddenberg/carteira-ledger-go/internal/infra/observability"
	"github.com/boddenberg/carteira-ledger-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Reports and operational snapshot
// ============================================================

func monthlySummaryHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/summary")
		defer span.End()

		month, err := parseMonth(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		summary, err := svc.MonthlySummary(ctx, UserIDFromContext(ctx), month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func spendingByCategoryHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/by-category")
		defer span.End()

		month, err := parseMonth(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		breakdown, err := svc.SpendingByCategory(ctx, UserIDFromContext(ctx), month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": breakdown})
	}
}

func dailyBalancesHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/daily-balance")
		defer span.End()

		month, err := parseMonth(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		series, err := svc.DailyBalances(ctx, UserIDFromContext(ctx), month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"days": series})
	}
}

func ledgerMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/ledger")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.LedgerSnapshot())
	}
}
