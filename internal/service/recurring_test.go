package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

func activeRule(id string, day int) domain.RecurringRule {
	return domain.RecurringRule{
		ID:          id,
		UserID:      testUser,
		Description: "Aluguel",
		Amount:      1500,
		Kind:        domain.KindExpense,
		CategoryID:  "cat-1",
		AccountID:   "acc-1",
		DayOfMonth:  day,
		Active:      true,
	}
}

func TestProcessRecurring_MaterializesDueRule(t *testing.T) {
	var inserted *domain.Transaction
	store := &mockStore{
		listRecurringRulesFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error) {
			if !activeOnly {
				t.Error("materialization must only consider active rules")
			}
			return []domain.RecurringRule{activeRule("rule-1", 5)}, nil
		},
		insertTransactionFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
			inserted = tx
			return tx, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 10))

	outcome, err := svc.ProcessRecurring(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected outcome, got %v", err)
	}
	if outcome.Processed != 1 {
		t.Fatalf("expected 1 processed, got %d", outcome.Processed)
	}
	if inserted == nil {
		t.Fatal("expected a transaction insert")
	}
	if got := inserted.Date.Format("2006-01-02"); got != "2024-06-05" {
		t.Errorf("expected materialization on 2024-06-05, got %s", got)
	}
	if inserted.RecurringRuleID == nil || *inserted.RecurringRuleID != "rule-1" {
		t.Error("materialized transaction must link back to its rule")
	}
	if inserted.Kind != domain.KindExpense || inserted.Amount != 1500 {
		t.Errorf("materialized transaction must copy the rule's kind and amount, got %s %f", inserted.Kind, inserted.Amount)
	}
}

func TestProcessRecurring_SkipsRuleNotYetDue(t *testing.T) {
	store := &mockStore{
		listRecurringRulesFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error) {
			return []domain.RecurringRule{activeRule("rule-1", 25)}, nil
		},
		insertTransactionFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
			t.Error("rule not yet due must not insert")
			return tx, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 10))

	outcome, err := svc.ProcessRecurring(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected outcome, got %v", err)
	}
	if outcome.Skipped != 1 || outcome.Processed != 0 {
		t.Errorf("expected 1 skipped, got %+v", outcome)
	}
}

func TestProcessRecurring_IsIdempotentPerMonth(t *testing.T) {
	store := &mockStore{
		listRecurringRulesFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error) {
			return []domain.RecurringRule{activeRule("rule-1", 5)}, nil
		},
		existsByRuleOnFn: func(ctx context.Context, ruleID string, date time.Time) (bool, error) {
			return true, nil
		},
		insertTransactionFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
			t.Error("already materialized rule must not insert again")
			return tx, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 10))

	outcome, err := svc.ProcessRecurring(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected outcome, got %v", err)
	}
	if outcome.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %+v", outcome)
	}
}

func TestProcessRecurring_ClampsDayToShortMonth(t *testing.T) {
	var inserted *domain.Transaction
	store := &mockStore{
		listRecurringRulesFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error) {
			return []domain.RecurringRule{activeRule("rule-31", 31)}, nil
		},
		insertTransactionFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
			inserted = tx
			return tx, nil
		},
	}
	// Feb 2025 has 28 days; a day-31 rule lands on the 28th.
	svc := newTestService(store, fixedClock(2025, time.February, 28))

	outcome, err := svc.ProcessRecurring(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected outcome, got %v", err)
	}
	if outcome.Processed != 1 {
		t.Fatalf("expected 1 processed, got %+v", outcome)
	}
	if got := inserted.Date.Format("2006-01-02"); got != "2025-02-28" {
		t.Errorf("expected clamp to 2025-02-28, got %s", got)
	}
}

func TestProcessRecurring_OneRuleFailureDoesNotAbortPass(t *testing.T) {
	var insertedRules []string
	store := &mockStore{
		listRecurringRulesFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error) {
			return []domain.RecurringRule{
				activeRule("rule-bad", 1),
				activeRule("rule-good", 1),
			}, nil
		},
		insertTransactionFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
			if *tx.RecurringRuleID == "rule-bad" {
				return nil, errors.New("insert refused")
			}
			insertedRules = append(insertedRules, *tx.RecurringRuleID)
			return tx, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 10))

	outcome, err := svc.ProcessRecurring(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected outcome, got %v", err)
	}
	if outcome.Processed != 1 {
		t.Errorf("expected 1 processed, got %d", outcome.Processed)
	}
	if len(outcome.Failures) != 1 || outcome.Failures[0].ID != "rule-bad" {
		t.Errorf("expected rule-bad in failures, got %+v", outcome.Failures)
	}
	if len(insertedRules) != 1 || insertedRules[0] != "rule-good" {
		t.Errorf("expected only rule-good inserted, got %v", insertedRules)
	}
}

func TestCreateRecurringRule_RejectsTransferKind(t *testing.T) {
	svc := newTestService(&mockStore{})

	_, err := svc.CreateRecurringRule(context.Background(), testUser, &domain.RecurringRuleRequest{
		Description: "x",
		Amount:      10,
		Kind:        domain.KindTransfer,
		CategoryID:  "cat-1",
		AccountID:   "acc-1",
		DayOfMonth:  1,
	})

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateRecurringRule_StartsActive(t *testing.T) {
	svc := newTestService(&mockStore{})

	rule, err := svc.CreateRecurringRule(context.Background(), testUser, &domain.RecurringRuleRequest{
		Description: "Salário",
		Amount:      8000,
		Kind:        domain.KindIncome,
		CategoryID:  "cat-1",
		AccountID:   "acc-1",
		DayOfMonth:  5,
	})
	if err != nil {
		t.Fatalf("expected rule, got %v", err)
	}
	if !rule.Active {
		t.Error("new rules must start active")
	}
}
