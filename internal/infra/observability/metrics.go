package observability

import (
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration       *prometheus.HistogramVec
	storeErrors           *prometheus.CounterVec
	cacheHits             *prometheus.CounterVec
	cacheMisses           *prometheus.CounterVec
	requestsTotal         *prometheus.CounterVec
	recurringMaterialized prometheus.Counter
	plansReconciled       prometheus.Counter
	parcelsScheduled      prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carteira_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carteira_store_errors_total",
				Help: "Total errors from the record store.",
			},
			[]string{"store"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carteira_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carteira_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carteira_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
		recurringMaterialized: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "carteira_recurring_materialized_total",
				Help: "Total transactions materialized from recurring rules.",
			},
		),
		plansReconciled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "carteira_plans_reconciled_total",
				Help: "Total installment plans whose paid count was corrected.",
			},
		),
		parcelsScheduled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "carteira_parcels_scheduled_total",
				Help: "Total installment parcels generated.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the store error counter.
func (m *Metrics) IncrStoreError(store string) {
	m.storeErrors.WithLabelValues(store).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// IncrRecurringMaterialized counts one materialized recurring transaction.
func (m *Metrics) IncrRecurringMaterialized() {
	m.recurringMaterialized.Inc()
}

// IncrPlansReconciled counts one corrected paid count.
func (m *Metrics) IncrPlansReconciled() {
	m.plansReconciled.Inc()
}

// AddParcelsScheduled counts the parcels generated by a plan creation.
func (m *Metrics) AddParcelsScheduled(n int) {
	m.parcelsScheduled.Add(float64(n))
}

// LedgerSnapshot returns the current counter values for the
// GET /v1/metrics/ledger endpoint.
func (m *Metrics) LedgerSnapshot() *domain.LedgerMetrics {
	totalRequests := getCounterValue(m.requestsTotal.WithLabelValues("success")) +
		getCounterValue(m.requestsTotal.WithLabelValues("error"))
	errorCount := getCounterValue(m.requestsTotal.WithLabelValues("error"))
	cacheHits := getCounterValue(m.cacheHits.WithLabelValues("categories"))
	cacheMisses := getCounterValue(m.cacheMisses.WithLabelValues("categories"))

	errorRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	cacheHitRate := float64(0)
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.LedgerMetrics{
		TotalRequests:         int64(totalRequests),
		ErrorRate:             errorRate,
		RecurringMaterialized: int64(getCounterValue(m.recurringMaterialized)),
		PlansReconciled:       int64(getCounterValue(m.plansReconciled)),
		CacheHitRate:          cacheHitRate,
		Period:                "all_time",
		GeneratedAt:           time.Now(),
	}
}

// getCounterValue extracts the current float64 value from a counter.
func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
