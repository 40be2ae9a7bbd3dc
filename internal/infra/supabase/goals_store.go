package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// ============================================================
// Savings goals store
// ============================================================

type goalRow struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Deadline      *string   `json:"deadline"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r goalRow) toDomain() domain.Goal {
	g := domain.Goal{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		CreatedAt:     r.CreatedAt,
	}
	if r.Deadline != nil {
		d := parseDate(*r.Deadline)
		g.Deadline = &d
	}
	return g
}

func (c *Client) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListGoals")
	defer span.End()

	path := fmt.Sprintf("goals?user_id=eq.%s&order=created_at.asc", userID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/goals", Err: err}
	}
	if body == nil {
		return []domain.Goal{}, nil
	}

	var rows []goalRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode goals: %w", err)
	}
	goals := make([]domain.Goal, 0, len(rows))
	for _, r := range rows {
		goals = append(goals, r.toDomain())
	}
	return goals, nil
}

func (c *Client) CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateGoal")
	defer span.End()

	row := map[string]any{
		"id":             goal.ID,
		"user_id":        goal.UserID,
		"name":           goal.Name,
		"target_amount":  goal.TargetAmount,
		"current_amount": goal.CurrentAmount,
	}
	if goal.Deadline != nil {
		row["deadline"] = fmtDate(*goal.Deadline)
	}

	body, err := c.doPost(ctx, "goals", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/goals", Err: err}
	}

	var rows []goalRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode goal: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from goals insert")
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateGoalAmount(ctx context.Context, userID, goalID string, currentAmount float64) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateGoalAmount")
	defer span.End()

	path := fmt.Sprintf("goals?user_id=eq.%s&id=eq.%s", userID, goalID)
	if err := c.doPatch(ctx, path, map[string]any{"current_amount": currentAmount}); err != nil {
		return &domain.ErrExternalService{Service: "supabase/goals", Err: err}
	}
	return nil
}

func (c *Client) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteGoal")
	defer span.End()

	path := fmt.Sprintf("goals?user_id=eq.%s&id=eq.%s", userID, goalID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/goals", Err: err}
	}
	return nil
}
