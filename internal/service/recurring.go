package service

import (
	"context"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Recurring rules — CRUD and monthly materialization
// ============================================================

// ListRecurringRules returns the user's rules.
func (s *LedgerService) ListRecurringRules(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListRecurringRules")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListRecurringRules(ctx, userID, false)
}

// CreateRecurringRule registers a template that materializes one transaction
// per month. Rules start active.
func (s *LedgerService) CreateRecurringRule(ctx context.Context, userID string, req *domain.RecurringRuleRequest) (*domain.RecurringRule, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.CreateRecurringRule")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Description == "" {
		return nil, &domain.ErrValidation{Field: "description", Message: "required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if req.Kind != domain.KindIncome && req.Kind != domain.KindExpense {
		return nil, &domain.ErrValidation{Field: "kind", Message: "must be income or expense"}
	}
	if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
		return nil, &domain.ErrValidation{Field: "day_of_month", Message: "must be between 1 and 31"}
	}
	if req.CategoryID == "" {
		return nil, &domain.ErrValidation{Field: "category_id", Message: "required"}
	}
	if req.AccountID == "" {
		return nil, &domain.ErrValidation{Field: "account_id", Message: "required"}
	}

	rule := &domain.RecurringRule{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		DayOfMonth:  req.DayOfMonth,
		Active:      true,
	}

	created, err := s.store.CreateRecurringRule(ctx, rule)
	if err != nil {
		s.logger.Error("failed to create recurring rule", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("recurring rule created",
		zap.String("user_id", userID),
		zap.String("rule_id", created.ID),
		zap.Int("day_of_month", created.DayOfMonth),
	)
	return created, nil
}

// SetRecurringRuleActive toggles a rule without touching already
// materialized transactions.
func (s *LedgerService) SetRecurringRuleActive(ctx context.Context, userID, ruleID string, active bool) error {
	ctx, span := tracer.Start(ctx, "LedgerService.SetRecurringRuleActive")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.SetRecurringRuleActive(ctx, userID, ruleID, active)
}

// DeleteRecurringRule removes the template. Materialized transactions stay.
func (s *LedgerService) DeleteRecurringRule(ctx context.Context, userID, ruleID string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.DeleteRecurringRule")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.DeleteRecurringRule(ctx, userID, ruleID)
}

// ProcessRecurring materializes every active rule that is due in the current
// month: the target day is the rule's day clamped to the month's length, and
// the rule is due once today has reached it. The (rule_id, date) pair is the
// idempotency key — a rule that already produced its transaction for the
// month is skipped, so concurrent sessions cannot double-insert. One rule's
// failure never aborts the pass.
func (s *LedgerService) ProcessRecurring(ctx context.Context, userID string) (*domain.BatchOutcome, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ProcessRecurring")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	rules, err := s.store.ListRecurringRules(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	today := s.now()
	outcome := &domain.BatchOutcome{Failures: []domain.ItemFailure{}}

	for _, rule := range rules {
		targetDay := rule.DayOfMonth
		if last := lastDayOfMonth(today); targetDay > last {
			targetDay = last
		}
		if targetDay > today.Day() {
			outcome.Skipped++
			continue
		}

		targetDate := time.Date(today.Year(), today.Month(), targetDay, 0, 0, 0, 0, time.UTC)

		exists, err := s.store.ExistsByRuleOn(ctx, rule.ID, targetDate)
		if err != nil {
			s.logger.Warn("recurring check failed for rule",
				zap.String("rule_id", rule.ID),
				zap.Error(err),
			)
			outcome.Failures = append(outcome.Failures, domain.ItemFailure{ID: rule.ID, Reason: err.Error()})
			continue
		}
		if exists {
			outcome.Skipped++
			continue
		}

		tx := domain.Transaction{
			ID:              uuid.New().String(),
			UserID:          userID,
			Description:     rule.Description,
			Amount:          rule.Amount,
			Kind:            rule.Kind,
			CategoryID:      rule.CategoryID,
			AccountID:       rule.AccountID,
			Date:            targetDate,
			RecurringRuleID: &rule.ID,
		}
		if _, err := s.store.InsertTransaction(ctx, &tx); err != nil {
			s.logger.Warn("recurring insert failed for rule",
				zap.String("rule_id", rule.ID),
				zap.Error(err),
			)
			outcome.Failures = append(outcome.Failures, domain.ItemFailure{ID: rule.ID, Reason: err.Error()})
			continue
		}

		s.metrics.IncrRecurringMaterialized()
		s.logger.Info("recurring transaction materialized",
			zap.String("rule_id", rule.ID),
			zap.String("date", targetDate.Format("2006-01-02")),
			zap.Float64("amount", rule.Amount),
		)
		outcome.Processed++
	}

	return outcome, nil
}
