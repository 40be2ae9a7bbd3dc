package service

import (
	"context"
	"math"
	"sort"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Budget alerts — CRUD and evaluation
// ============================================================

// Alert thresholds: triggered at 80% of the limit, over-limit at 100%.
const (
	alertTriggerPct = 80
	alertOverPct    = 100
)

func (s *LedgerService) ListAlerts(ctx context.Context, userID string) ([]domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListAlerts")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListAlerts(ctx, userID, false)
}

func (s *LedgerService) CreateAlert(ctx context.Context, userID string, req *domain.AlertRequest) (*domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.CreateAlert")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.CategoryID == "" {
		return nil, &domain.ErrValidation{Field: "category_id", Message: "required"}
	}
	if req.LimitAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "limit_amount", Message: "must be positive"}
	}
	if !req.Period.Valid() {
		return nil, &domain.ErrValidation{Field: "period", Message: "must be weekly or monthly"}
	}

	alert := &domain.Alert{
		ID:          uuid.New().String(),
		UserID:      userID,
		CategoryID:  req.CategoryID,
		LimitAmount: req.LimitAmount,
		Period:      req.Period,
		Active:      true,
	}

	created, err := s.store.CreateAlert(ctx, alert)
	if err != nil {
		s.logger.Error("failed to create alert", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("alert created",
		zap.String("user_id", userID),
		zap.String("alert_id", created.ID),
		zap.Float64("limit", created.LimitAmount),
	)
	return created, nil
}

func (s *LedgerService) SetAlertActive(ctx context.Context, userID, alertID string, active bool) error {
	ctx, span := tracer.Start(ctx, "LedgerService.SetAlertActive")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.SetAlertActive(ctx, userID, alertID, active)
}

func (s *LedgerService) DeleteAlert(ctx context.Context, userID, alertID string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.DeleteAlert")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.DeleteAlert(ctx, userID, alertID)
}

// TriggeredAlerts evaluates every active alert against the expense spending
// of its window: the calendar month of today for monthly alerts, the ISO
// week (Mon..Sun) for weekly ones. An alert triggers at 80% of its limit and
// is flagged over-limit at 100%. Over-limit alerts sort first, then by
// percentage descending.
func (s *LedgerService) TriggeredAlerts(ctx context.Context, userID string) ([]domain.TriggeredAlert, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.TriggeredAlerts")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	alerts, err := s.store.ListAlerts(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return []domain.TriggeredAlert{}, nil
	}

	// One fetch covers both window kinds: a week can straddle two months.
	today := s.now()
	monthFrom, monthTo := monthWindow(today)
	weekFrom, weekTo := weekWindow(today)
	from, to := monthFrom, monthTo
	if weekFrom.Before(from) {
		from = weekFrom
	}
	if weekTo.After(to) {
		to = weekTo
	}

	txs, err := s.store.ListTransactionsByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	triggered := make([]domain.TriggeredAlert, 0)
	for _, alert := range alerts {
		if alert.LimitAmount <= 0 {
			// Creation validates the limit; a row like this was mangled
			// outside the API and cannot be evaluated meaningfully.
			s.logger.Warn("alert has non-positive limit, skipping",
				zap.String("alert_id", alert.ID),
				zap.Float64("limit", alert.LimitAmount),
			)
			continue
		}

		winFrom, winTo := monthFrom, monthTo
		if alert.Period == domain.PeriodWeekly {
			winFrom, winTo = weekFrom, weekTo
		}

		var spent float64
		for _, tx := range txs {
			if tx.Kind == domain.KindExpense && tx.CategoryID == alert.CategoryID && inRange(tx.Date, winFrom, winTo) {
				spent += tx.Amount
			}
		}

		pct := int(math.Round(spent / alert.LimitAmount * 100))
		if pct < alertTriggerPct {
			continue
		}
		triggered = append(triggered, domain.TriggeredAlert{
			Alert:      alert,
			Spent:      spent,
			Percentage: pct,
			OverLimit:  pct >= alertOverPct,
		})
	}

	sort.SliceStable(triggered, func(i, j int) bool {
		if triggered[i].OverLimit != triggered[j].OverLimit {
			return triggered[i].OverLimit
		}
		return triggered[i].Percentage > triggered[j].Percentage
	})

	return triggered, nil
}
