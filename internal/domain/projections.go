package domain

import "time"

// Computed read models. These are derived on demand from the stored records;
// nothing here is persisted.

// AccountBalance pairs an account with its effective balance.
//
// Accumulating accounts: initial balance plus the net of every transaction.
// Non-accumulating accounts: net of the current month only, initial balance
// ignored. Transfers never move a balance.
type AccountBalance struct {
	Account Account `json:"account"`
	Balance float64 `json:"balance"`
}

// TriggeredAlert is an alert whose category spending crossed 80% of the
// limit in its evaluation window.
type TriggeredAlert struct {
	Alert      Alert   `json:"alert"`
	Spent      float64 `json:"spent"`
	Percentage int     `json:"percentage"`
	OverLimit  bool    `json:"over_limit"`
}

// CategorySummary is one slice of the spending-by-category breakdown.
type CategorySummary struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Color      string  `json:"color"`
	Amount     float64 `json:"amount"`
	Percentage int     `json:"percentage"`
}

// FinancialSummary is the month's income/expense/net totals.
type FinancialSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// DailyBalance is one day of the running-balance chart series.
type DailyBalance struct {
	Day     int     `json:"day"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// ItemFailure records a single failed item of a batch pass.
type ItemFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchOutcome is the aggregate result of a batch pass (recurring
// materialization, paid-count sync). A failed item never aborts the batch;
// it lands in Failures and the pass continues.
type BatchOutcome struct {
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failures  []ItemFailure `json:"failures"`
}

// LedgerMetrics is the operational snapshot served by GET /v1/metrics/ledger.
type LedgerMetrics struct {
	TotalRequests         int64   `json:"total_requests"`
	ErrorRate             float64 `json:"error_rate"`
	RecurringMaterialized int64   `json:"recurring_materialized"`
	PlansReconciled       int64   `json:"plans_reconciled"`
	CacheHitRate          float64 `json:"cache_hit_rate"`
	Period                string  `json:"period"`
	GeneratedAt           time.Time `json:"generated_at"`
}
