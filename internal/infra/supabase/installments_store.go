package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// ============================================================
// Installment plans store
// ============================================================

type installmentPlanRow struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Description       string    `json:"description"`
	TotalAmount       float64   `json:"total_amount"`
	InstallmentAmount float64   `json:"installment_amount"`
	InstallmentCount  int       `json:"installment_count"`
	PaidCount         int       `json:"paid_count"`
	StartDate         string    `json:"start_date"`
	CategoryID        string    `json:"category_id"`
	AccountID         string    `json:"account_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (r installmentPlanRow) toDomain() domain.InstallmentPlan {
	return domain.InstallmentPlan{
		ID:                r.ID,
		UserID:            r.UserID,
		Description:       r.Description,
		TotalAmount:       r.TotalAmount,
		InstallmentAmount: r.InstallmentAmount,
		InstallmentCount:  r.InstallmentCount,
		PaidCount:         r.PaidCount,
		StartDate:         parseDate(r.StartDate),
		CategoryID:        r.CategoryID,
		AccountID:         r.AccountID,
		CreatedAt:         r.CreatedAt,
	}
}

func (c *Client) ListInstallmentPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListInstallmentPlans")
	defer span.End()

	path := fmt.Sprintf("installment_plans?user_id=eq.%s&order=created_at.desc", userID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/installment_plans", Err: err}
	}
	if body == nil {
		return []domain.InstallmentPlan{}, nil
	}

	var rows []installmentPlanRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode installment_plans: %w", err)
	}
	plans := make([]domain.InstallmentPlan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, r.toDomain())
	}
	return plans, nil
}

func (c *Client) GetInstallmentPlan(ctx context.Context, userID, planID string) (*domain.InstallmentPlan, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetInstallmentPlan")
	defer span.End()

	path := fmt.Sprintf("installment_plans?user_id=eq.%s&id=eq.%s&limit=1", userID, planID)
	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/installment_plans", Err: err}
	}

	var rows []installmentPlanRow
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode installment_plan: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "installment_plan", ID: planID}
	}
	plan := rows[0].toDomain()
	return &plan, nil
}

func (c *Client) CreateInstallmentPlan(ctx context.Context, plan *domain.InstallmentPlan) (*domain.InstallmentPlan, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateInstallmentPlan")
	defer span.End()

	row := map[string]any{
		"id":                 plan.ID,
		"user_id":            plan.UserID,
		"description":        plan.Description,
		"total_amount":       plan.TotalAmount,
		"installment_amount": plan.InstallmentAmount,
		"installment_count":  plan.InstallmentCount,
		"paid_count":         plan.PaidCount,
		"start_date":         fmtDate(plan.StartDate),
		"category_id":        plan.CategoryID,
		"account_id":         plan.AccountID,
	}

	body, err := c.doPost(ctx, "installment_plans", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/installment_plans", Err: err}
	}

	var rows []installmentPlanRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode installment_plan: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from installment_plans insert")
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdatePlanPaidCount(ctx context.Context, planID string, paidCount int) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePlanPaidCount")
	defer span.End()

	path := fmt.Sprintf("installment_plans?id=eq.%s", planID)
	if err := c.doPatch(ctx, path, map[string]any{"paid_count": paidCount}); err != nil {
		return &domain.ErrExternalService{Service: "supabase/installment_plans", Err: err}
	}
	return nil
}

func (c *Client) DeleteInstallmentPlan(ctx context.Context, userID, planID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteInstallmentPlan")
	defer span.End()

	path := fmt.Sprintf("installment_plans?user_id=eq.%s&id=eq.%s", userID, planID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/installment_plans", Err: err}
	}
	return nil
}
