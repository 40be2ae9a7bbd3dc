package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Transactions store — queries, inserts, batch insert, linkage
// ============================================================

// transactionRow maps the transactions table; date is a civil date column.
type transactionRow struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Description       string    `json:"description"`
	Amount            float64   `json:"amount"`
	Kind              string    `json:"kind"`
	CategoryID        string    `json:"category_id"`
	AccountID         string    `json:"account_id"`
	Date              string    `json:"date"`
	InstallmentPlanID *string   `json:"installment_plan_id"`
	RecurringRuleID   *string   `json:"recurring_rule_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (r transactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:                r.ID,
		UserID:            r.UserID,
		Description:       r.Description,
		Amount:            r.Amount,
		Kind:              domain.TransactionKind(r.Kind),
		CategoryID:        r.CategoryID,
		AccountID:         r.AccountID,
		Date:              parseDate(r.Date),
		InstallmentPlanID: r.InstallmentPlanID,
		RecurringRuleID:   r.RecurringRuleID,
		CreatedAt:         r.CreatedAt,
	}
}

func transactionToRow(tx *domain.Transaction) map[string]any {
	row := map[string]any{
		"id":          tx.ID,
		"user_id":     tx.UserID,
		"description": tx.Description,
		"amount":      tx.Amount,
		"kind":        string(tx.Kind),
		"category_id": tx.CategoryID,
		"account_id":  tx.AccountID,
		"date":        fmtDate(tx.Date),
	}
	if tx.InstallmentPlanID != nil {
		row["installment_plan_id"] = *tx.InstallmentPlanID
	}
	if tx.RecurringRuleID != nil {
		row["recurring_rule_id"] = *tx.RecurringRuleID
	}
	return row
}

func (c *Client) decodeTransactions(body []byte) ([]domain.Transaction, error) {
	if body == nil {
		return []domain.Transaction{}, nil
	}
	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	txs := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, r.toDomain())
	}
	return txs, nil
}

func (c *Client) ListTransactionsByRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactionsByRange")
	defer span.End()
	span.SetAttributes(attribute.String("range.from", fmtDate(from)), attribute.String("range.to", fmtDate(to)))

	path := fmt.Sprintf("transactions?user_id=eq.%s&date=gte.%s&date=lte.%s&order=date.desc",
		userID, fmtDate(from), fmtDate(to))
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return c.decodeTransactions(body)
}

func (c *Client) ListAllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAllTransactions")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&order=date.desc", userID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return c.decodeTransactions(body)
}

func (c *Client) GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s&limit=1", userID, txID)
	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	txs, err := c.decodeTransactions(body)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: txID}
	}
	return &txs[0], nil
}

func (c *Client) InsertTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertTransaction")
	defer span.End()

	body, err := c.doPost(ctx, "transactions", transactionToRow(tx))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	txs, err := c.decodeTransactions(body)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("no result from transactions insert")
	}
	return &txs[0], nil
}

// InsertTransactions posts the whole batch as a single JSON array; PostgREST
// inserts it in one statement, so the batch lands all-or-nothing.
func (c *Client) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.InsertTransactions")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(txs)))

	if len(txs) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(txs))
	for i := range txs {
		rows = append(rows, transactionToRow(&txs[i]))
	}

	if _, err := c.doPost(ctx, "transactions", rows); err != nil {
		return &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return nil
}

func (c *Client) UpdateTransaction(ctx context.Context, userID, txID string, patch map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s", userID, txID)
	if err := c.doPatch(ctx, path, patch); err != nil {
		return &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return nil
}

func (c *Client) DeleteTransaction(ctx context.Context, userID, txID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s", userID, txID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return nil
}

// DeleteFutureByPlan removes parcels dated strictly after the cutoff.
// Settled history stays untouched, which also makes cancel idempotent.
func (c *Client) DeleteFutureByPlan(ctx context.Context, userID, planID string, after time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteFutureByPlan")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&installment_plan_id=eq.%s&date=gt.%s",
		userID, planID, fmtDate(after))
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return nil
}

func (c *Client) CountByPlanThrough(ctx context.Context, planID string, through time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountByPlanThrough")
	defer span.End()

	path := fmt.Sprintf("transactions?installment_plan_id=eq.%s&date=lte.%s&select=id",
		planID, fmtDate(through))
	body, err := c.doGet(ctx, path)
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	if body == nil {
		return 0, nil
	}

	var ids []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &ids); err != nil {
		return 0, fmt.Errorf("decode parcel ids: %w", err)
	}
	return len(ids), nil
}

func (c *Client) ExistsByRuleOn(ctx context.Context, ruleID string, date time.Time) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ExistsByRuleOn")
	defer span.End()

	path := fmt.Sprintf("transactions?recurring_rule_id=eq.%s&date=eq.%s&select=id&limit=1",
		ruleID, fmtDate(date))
	body, err := c.doGet(ctx, path)
	if err != nil {
		return false, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	if body == nil {
		return false, nil
	}

	var ids []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &ids); err != nil {
		return false, fmt.Errorf("decode rule check: %w", err)
	}
	return len(ids) > 0, nil
}
