package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// ============================================================
// Accounts store — list, get, create, update, delete
// ============================================================

func (c *Client) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAccounts")
	defer span.End()

	path := fmt.Sprintf("accounts?user_id=eq.%s&order=created_at.asc", userID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	if body == nil {
		return []domain.Account{}, nil
	}

	var rows []domain.Account
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return rows, nil
}

func (c *Client) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAccount")
	defer span.End()

	path := fmt.Sprintf("accounts?user_id=eq.%s&id=eq.%s&limit=1", userID, accountID)
	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}

	var rows []domain.Account
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	return &rows[0], nil
}

func (c *Client) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAccount")
	defer span.End()

	row := map[string]any{
		"id":          account.ID,
		"user_id":     account.UserID,
		"name":        account.Name,
		"type":        string(account.Type),
		"balance":     account.Balance,
		"accumulates": account.Accumulates,
	}

	body, err := c.doPost(ctx, "accounts", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}

	var rows []domain.Account
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from accounts insert")
	}
	return &rows[0], nil
}

func (c *Client) UpdateAccount(ctx context.Context, userID, accountID string, patch map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateAccount")
	defer span.End()

	path := fmt.Sprintf("accounts?user_id=eq.%s&id=eq.%s", userID, accountID)
	if err := c.doPatch(ctx, path, patch); err != nil {
		return &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return nil
}

// DeleteAccount removes the account; its transactions cascade server-side
// (FK with ON DELETE CASCADE).
func (c *Client) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteAccount")
	defer span.End()

	path := fmt.Sprintf("accounts?user_id=eq.%s&id=eq.%s", userID, accountID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return nil
}
