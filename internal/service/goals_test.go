package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

func TestCreateGoal_OptionalDeadline(t *testing.T) {
	svc := newTestService(&mockStore{})

	goal, err := svc.CreateGoal(context.Background(), testUser, &domain.GoalRequest{
		Name: "Reserva de emergência", TargetAmount: 10000,
	})
	if err != nil {
		t.Fatalf("expected goal, got %v", err)
	}
	if goal.Deadline != nil {
		t.Error("expected nil deadline when none given")
	}

	goal, err = svc.CreateGoal(context.Background(), testUser, &domain.GoalRequest{
		Name: "Viagem", TargetAmount: 5000, Deadline: "2025-12-01",
	})
	if err != nil {
		t.Fatalf("expected goal, got %v", err)
	}
	if goal.Deadline == nil || goal.Deadline.Format("2006-01-02") != "2025-12-01" {
		t.Errorf("unexpected deadline: %v", goal.Deadline)
	}
}

func TestUpdateGoalAmount_RejectsNegative(t *testing.T) {
	svc := newTestService(&mockStore{})

	err := svc.UpdateGoalAmount(context.Background(), testUser, "goal-1", -1)
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGoalProgress(t *testing.T) {
	g := domain.Goal{TargetAmount: 1000, CurrentAmount: 250}
	if got := g.Progress(); got != 0.25 {
		t.Errorf("expected 0.25, got %f", got)
	}

	g.CurrentAmount = 1500
	if got := g.Progress(); got != 1 {
		t.Errorf("progress must cap at 1, got %f", got)
	}

	g = domain.Goal{TargetAmount: 0, CurrentAmount: 10}
	if got := g.Progress(); got != 0 {
		t.Errorf("zero target must be 0 progress, got %f", got)
	}
}
