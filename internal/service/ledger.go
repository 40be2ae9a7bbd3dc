// Package service implements the ledger engine: installment planning,
// recurring materialization, paid-count reconciliation and the derived
// projections (balances, summaries, alerts).
package service

import (
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
	"github.com/boddenberg/carteira-ledger-go/internal/infra/cache"
	"github.com/boddenberg/carteira-ledger-go/internal/infra/observability"
	"github.com/boddenberg/carteira-ledger-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// LedgerService orchestrates all ledger operations against the record store.
// The store offers per-call atomicity only, so multi-step mutations here
// compensate on failure instead of rolling back.
type LedgerService struct {
	store         port.LedgerStore
	categoryCache *cache.InMemory[[]domain.Category]
	metrics       *observability.Metrics
	logger        *zap.Logger

	now         func() time.Time
	syncWorkers int
}

// Option customizes a LedgerService.
type Option func(*LedgerService)

// WithClock overrides the time source. Used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithSyncWorkers sets the parallelism of the paid-count reconciler.
func WithSyncWorkers(n int) Option {
	return func(s *LedgerService) {
		if n > 0 {
			s.syncWorkers = n
		}
	}
}

// NewLedgerService creates the ledger service.
func NewLedgerService(store port.LedgerStore, categoryCache *cache.InMemory[[]domain.Category], metrics *observability.Metrics, logger *zap.Logger, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:         store,
		categoryCache: categoryCache,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
		syncWorkers:   4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// monthOrNow substitutes today's month when no month was requested.
func (s *LedgerService) monthOrNow(month time.Time) time.Time {
	if month.IsZero() {
		return s.now()
	}
	return month
}

// requireUser fails closed when no authenticated user is present.
func requireUser(userID string) error {
	if userID == "" {
		return &domain.ErrUnauthorized{Message: "missing authenticated user"}
	}
	return nil
}

// netEffect is the signed effect of a transaction on a balance: income adds,
// expense subtracts, transfers move money between the user's own accounts
// and therefore net to zero everywhere in the ledger.
func netEffect(tx domain.Transaction) float64 {
	switch tx.Kind {
	case domain.KindIncome:
		return tx.Amount
	case domain.KindExpense:
		return -tx.Amount
	default:
		return 0
	}
}

// addMonthsClamped moves a civil date forward by whole months, clamping the
// day to the target month's length: Jan 31 + 1 month = Feb 28/29, never
// Mar 2/3.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := lastDayOfMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthWindow returns the first and last day of t's calendar month.
func monthWindow(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return first, last
}

// weekWindow returns the Monday and Sunday of t's ISO week.
func weekWindow(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// inRange reports whether d falls in [from, to] by civil date.
func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}
