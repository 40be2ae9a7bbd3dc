package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// ============================================================
// Budget alerts store
// ============================================================

func (c *Client) ListAlerts(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAlerts")
	defer span.End()

	path := fmt.Sprintf("alerts?user_id=eq.%s&order=created_at.asc", userID)
	if activeOnly {
		path += "&active=eq.true"
	}
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/alerts", Err: err}
	}
	if body == nil {
		return []domain.Alert{}, nil
	}

	var rows []domain.Alert
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return rows, nil
}

func (c *Client) CreateAlert(ctx context.Context, alert *domain.Alert) (*domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAlert")
	defer span.End()

	row := map[string]any{
		"id":           alert.ID,
		"user_id":      alert.UserID,
		"category_id":  alert.CategoryID,
		"limit_amount": alert.LimitAmount,
		"period":       string(alert.Period),
		"active":       alert.Active,
	}

	body, err := c.doPost(ctx, "alerts", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/alerts", Err: err}
	}

	var rows []domain.Alert
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode alert: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from alerts insert")
	}
	return &rows[0], nil
}

func (c *Client) SetAlertActive(ctx context.Context, userID, alertID string, active bool) error {
	ctx, span := tracer.Start(ctx, "Supabase.SetAlertActive")
	defer span.End()

	path := fmt.Sprintf("alerts?user_id=eq.%s&id=eq.%s", userID, alertID)
	if err := c.doPatch(ctx, path, map[string]any{"active": active}); err != nil {
		return &domain.ErrExternalService{Service: "supabase/alerts", Err: err}
	}
	return nil
}

func (c *Client) DeleteAlert(ctx context.Context, userID, alertID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteAlert")
	defer span.End()

	path := fmt.Sprintf("alerts?user_id=eq.%s&id=eq.%s", userID, alertID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/alerts", Err: err}
	}
	return nil
}
