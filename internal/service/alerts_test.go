package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

func monthlyAlert(id, categoryID string, limit float64) domain.Alert {
	return domain.Alert{ID: id, UserID: testUser, CategoryID: categoryID, LimitAmount: limit, Period: domain.PeriodMonthly, Active: true}
}

func catExpense(categoryID string, amount float64, day string) domain.Transaction {
	return domain.Transaction{UserID: testUser, CategoryID: categoryID, AccountID: "acc-1", Amount: amount, Kind: domain.KindExpense, Date: date(day)}
}

func TestTriggeredAlerts_FiresAtEightyPercent(t *testing.T) {
	store := &mockStore{
		listAlertsFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
			if !activeOnly {
				t.Error("evaluation must only consider active alerts")
			}
			return []domain.Alert{monthlyAlert("alert-1", "food", 500)}, nil
		},
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			return []domain.Transaction{
				catExpense("food", 450, "2024-06-05"),
			}, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 15))

	triggered, err := svc.TriggeredAlerts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected alerts, got %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("expected 1 triggered alert, got %d", len(triggered))
	}
	got := triggered[0]
	if got.Percentage != 90 {
		t.Errorf("expected 90%%, got %d%%", got.Percentage)
	}
	if got.OverLimit {
		t.Error("90%% must not be flagged over-limit")
	}
	if got.Spent != 450 {
		t.Errorf("expected spent 450, got %f", got.Spent)
	}
}

func TestTriggeredAlerts_BelowThresholdIsSilent(t *testing.T) {
	store := &mockStore{
		listAlertsFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
			return []domain.Alert{monthlyAlert("alert-1", "food", 500)}, nil
		},
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			return []domain.Transaction{
				catExpense("food", 395, "2024-06-05"), // 79%
			}, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 15))

	triggered, err := svc.TriggeredAlerts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected alerts, got %v", err)
	}
	if len(triggered) != 0 {
		t.Errorf("expected no triggered alerts at 79%%, got %d", len(triggered))
	}
}

func TestTriggeredAlerts_OverLimitSortsFirst(t *testing.T) {
	store := &mockStore{
		listAlertsFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
			return []domain.Alert{
				monthlyAlert("alert-near", "food", 500),      // 450/500 = 90%
				monthlyAlert("alert-over", "transport", 500), // 520/500 = 104%
			}, nil
		},
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			return []domain.Transaction{
				catExpense("food", 450, "2024-06-05"),
				catExpense("transport", 520, "2024-06-06"),
			}, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 15))

	triggered, err := svc.TriggeredAlerts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected alerts, got %v", err)
	}
	if len(triggered) != 2 {
		t.Fatalf("expected 2 triggered alerts, got %d", len(triggered))
	}
	if triggered[0].Alert.ID != "alert-over" || !triggered[0].OverLimit {
		t.Errorf("expected alert-over first, got %s", triggered[0].Alert.ID)
	}
	if triggered[0].Percentage != 104 {
		t.Errorf("expected 104%%, got %d%%", triggered[0].Percentage)
	}
	if triggered[1].Alert.ID != "alert-near" {
		t.Errorf("expected alert-near second, got %s", triggered[1].Alert.ID)
	}
}

func TestTriggeredAlerts_WeeklyWindowIgnoresRestOfMonth(t *testing.T) {
	store := &mockStore{
		listAlertsFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
			return []domain.Alert{
				{ID: "alert-week", UserID: testUser, CategoryID: "food", LimitAmount: 100, Period: domain.PeriodWeekly, Active: true},
			}, nil
		},
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			// 2024-06-12 is a Wednesday; its ISO week runs Jun 10 (Mon) to Jun 16 (Sun).
			return []domain.Transaction{
				catExpense("food", 90, "2024-06-11"), // inside the week
				catExpense("food", 500, "2024-06-03"), // same month, prior week
			}, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 12))

	triggered, err := svc.TriggeredAlerts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected alerts, got %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("expected 1 triggered alert, got %d", len(triggered))
	}
	if triggered[0].Spent != 90 {
		t.Errorf("expected weekly spent 90, got %f", triggered[0].Spent)
	}
	if triggered[0].Percentage != 90 {
		t.Errorf("expected 90%%, got %d%%", triggered[0].Percentage)
	}
}

func TestTriggeredAlerts_OnlyExpensesCount(t *testing.T) {
	store := &mockStore{
		listAlertsFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
			return []domain.Alert{monthlyAlert("alert-1", "food", 100)}, nil
		},
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			return []domain.Transaction{
				{UserID: testUser, CategoryID: "food", Amount: 5000, Kind: domain.KindIncome, Date: date("2024-06-05")},
			}, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 15))

	triggered, err := svc.TriggeredAlerts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected alerts, got %v", err)
	}
	if len(triggered) != 0 {
		t.Errorf("income must not count against a spending limit, got %d triggered", len(triggered))
	}
}

func TestTriggeredAlerts_SkipsNonPositiveLimit(t *testing.T) {
	store := &mockStore{
		listAlertsFn: func(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
			return []domain.Alert{
				monthlyAlert("alert-broken", "food", 0), // mangled outside the API
				monthlyAlert("alert-ok", "transport", 500),
			}, nil
		},
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			return []domain.Transaction{
				catExpense("food", 300, "2024-06-05"),
				catExpense("transport", 450, "2024-06-06"),
			}, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 15))

	triggered, err := svc.TriggeredAlerts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected evaluation to survive the bad row, got %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("expected only the valid alert, got %d", len(triggered))
	}
	if triggered[0].Alert.ID != "alert-ok" {
		t.Errorf("expected alert-ok, got %s", triggered[0].Alert.ID)
	}
}

func TestTriggeredAlerts_NoActiveAlerts(t *testing.T) {
	fetched := false
	store := &mockStore{
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			fetched = true
			return nil, nil
		},
	}
	svc := newTestService(store)

	triggered, err := svc.TriggeredAlerts(context.Background(), testUser)
	if err != nil {
		t.Fatalf("expected empty result, got %v", err)
	}
	if len(triggered) != 0 {
		t.Errorf("expected no alerts, got %d", len(triggered))
	}
	if fetched {
		t.Error("no active alerts means no transaction fetch")
	}
}

func TestCreateAlert_Validation(t *testing.T) {
	svc := newTestService(&mockStore{})

	_, err := svc.CreateAlert(context.Background(), testUser, &domain.AlertRequest{
		CategoryID: "food", LimitAmount: 100, Period: "yearly",
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for unknown period, got %v", err)
	}

	_, err = svc.CreateAlert(context.Background(), testUser, &domain.AlertRequest{
		CategoryID: "food", LimitAmount: 0, Period: domain.PeriodMonthly,
	})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for zero limit, got %v", err)
	}
}
