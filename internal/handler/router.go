package handler

import (
	"net/http"

	"github.com/boddenberg/carteira-ledger-go/internal/infra/observability"
	"github.com/boddenberg/carteira-ledger-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Everything under /v1 requires a valid Supabase JWT.
func NewRouter(svc *service.LedgerService, jwtSecret string, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 (authenticated) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JWTAuthMiddleware(jwtSecret, logger))

		// Accounts
		r.Get("/accounts", listAccountsHandler(svc, logger))
		r.Post("/accounts", createAccountHandler(svc, logger))
		r.Put("/accounts/{accountId}", updateAccountHandler(svc, logger))
		r.Delete("/accounts/{accountId}", deleteAccountHandler(svc, logger))
		r.Get("/accounts/balances", accountBalancesHandler(svc, logger))
		r.Get("/balance", totalBalanceHandler(svc, logger))

		// Categories
		r.Get("/categories", listCategoriesHandler(svc, logger))
		r.Post("/categories", createCategoryHandler(svc, logger))
		r.Delete("/categories/{categoryId}", deleteCategoryHandler(svc, logger))

		// Transactions
		r.Get("/transactions", listTransactionsHandler(svc, logger))
		r.Post("/transactions", createTransactionHandler(svc, logger))
		r.Put("/transactions/{transactionId}", updateTransactionHandler(svc, logger))
		r.Delete("/transactions/{transactionId}", deleteTransactionHandler(svc, logger))

		// Installment plans
		r.Get("/installments", listInstallmentsHandler(svc, logger))
		r.Post("/installments", createInstallmentHandler(svc, logger))
		r.Post("/installments/{planId}/cancel", cancelInstallmentHandler(svc, logger))
		r.Post("/installments/sync", syncPaidCountsHandler(svc, logger))

		// Recurring rules
		r.Get("/recurring", listRecurringHandler(svc, logger))
		r.Post("/recurring", createRecurringHandler(svc, logger))
		r.Patch("/recurring/{ruleId}", toggleRecurringHandler(svc, logger))
		r.Delete("/recurring/{ruleId}", deleteRecurringHandler(svc, logger))
		r.Post("/recurring/process", processRecurringHandler(svc, logger))

		// Budget alerts
		r.Get("/alerts", listAlertsHandler(svc, logger))
		r.Post("/alerts", createAlertHandler(svc, logger))
		r.Patch("/alerts/{alertId}", toggleAlertHandler(svc, logger))
		r.Delete("/alerts/{alertId}", deleteAlertHandler(svc, logger))
		r.Get("/alerts/triggered", triggeredAlertsHandler(svc, logger))

		// Goals
		r.Get("/goals", listGoalsHandler(svc, logger))
		r.Post("/goals", createGoalHandler(svc, logger))
		r.Patch("/goals/{goalId}", updateGoalHandler(svc, logger))
		r.Delete("/goals/{goalId}", deleteGoalHandler(svc, logger))

		// Reports
		r.Get("/reports/summary", monthlySummaryHandler(svc, logger))
		r.Get("/reports/by-category", spendingByCategoryHandler(svc, logger))
		r.Get("/reports/daily-balance", dailyBalancesHandler(svc, logger))

		// Operational snapshot
		r.Get("/metrics/ledger", ledgerMetricsHandler(metrics, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
