package service

import (
	"context"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Savings goals
// ============================================================

func (s *LedgerService) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListGoals")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListGoals(ctx, userID)
}

func (s *LedgerService) CreateGoal(ctx context.Context, userID string, req *domain.GoalRequest) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.CreateGoal")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if req.TargetAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "target_amount", Message: "must be positive"}
	}

	goal := &domain.Goal{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
	}
	if req.Deadline != "" {
		deadline, err := domain.ParseCivilDate(req.Deadline)
		if err != nil {
			return nil, &domain.ErrValidation{Field: "deadline", Message: "invalid format, use YYYY-MM-DD"}
		}
		goal.Deadline = &deadline
	}

	created, err := s.store.CreateGoal(ctx, goal)
	if err != nil {
		s.logger.Error("failed to create goal", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("goal created",
		zap.String("user_id", userID),
		zap.String("goal_id", created.ID),
		zap.Float64("target", created.TargetAmount),
	)
	return created, nil
}

// UpdateGoalAmount sets the goal's saved amount (absolute, not a delta).
func (s *LedgerService) UpdateGoalAmount(ctx context.Context, userID, goalID string, currentAmount float64) error {
	ctx, span := tracer.Start(ctx, "LedgerService.UpdateGoalAmount")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	if currentAmount < 0 {
		return &domain.ErrValidation{Field: "current_amount", Message: "cannot be negative"}
	}
	return s.store.UpdateGoalAmount(ctx, userID, goalID, currentAmount)
}

func (s *LedgerService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.DeleteGoal")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.DeleteGoal(ctx, userID, goalID)
}
