package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// ============================================================
// Recurring rules store
// ============================================================

func (c *Client) ListRecurringRules(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRecurringRules")
	defer span.End()

	path := fmt.Sprintf("recurring_rules?user_id=eq.%s&order=day_of_month.asc", userID)
	if activeOnly {
		path += "&active=eq.true"
	}
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/recurring_rules", Err: err}
	}
	if body == nil {
		return []domain.RecurringRule{}, nil
	}

	var rows []domain.RecurringRule
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode recurring_rules: %w", err)
	}
	return rows, nil
}

func (c *Client) CreateRecurringRule(ctx context.Context, rule *domain.RecurringRule) (*domain.RecurringRule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateRecurringRule")
	defer span.End()

	row := map[string]any{
		"id":           rule.ID,
		"user_id":      rule.UserID,
		"description":  rule.Description,
		"amount":       rule.Amount,
		"kind":         string(rule.Kind),
		"category_id":  rule.CategoryID,
		"account_id":   rule.AccountID,
		"day_of_month": rule.DayOfMonth,
		"active":       rule.Active,
	}

	body, err := c.doPost(ctx, "recurring_rules", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/recurring_rules", Err: err}
	}

	var rows []domain.RecurringRule
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode recurring_rule: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from recurring_rules insert")
	}
	return &rows[0], nil
}

func (c *Client) SetRecurringRuleActive(ctx context.Context, userID, ruleID string, active bool) error {
	ctx, span := tracer.Start(ctx, "Supabase.SetRecurringRuleActive")
	defer span.End()

	path := fmt.Sprintf("recurring_rules?user_id=eq.%s&id=eq.%s", userID, ruleID)
	if err := c.doPatch(ctx, path, map[string]any{"active": active}); err != nil {
		return &domain.ErrExternalService{Service: "supabase/recurring_rules", Err: err}
	}
	return nil
}

func (c *Client) DeleteRecurringRule(ctx context.Context, userID, ruleID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteRecurringRule")
	defer span.End()

	path := fmt.Sprintf("recurring_rules?user_id=eq.%s&id=eq.%s", userID, ruleID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/recurring_rules", Err: err}
	}
	return nil
}
