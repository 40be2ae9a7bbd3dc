package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// ============================================================
// Categories store — list, create, delete
// ============================================================

func (c *Client) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCategories")
	defer span.End()

	path := fmt.Sprintf("categories?user_id=eq.%s&order=name.asc", userID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/categories", Err: err}
	}
	if body == nil {
		return []domain.Category{}, nil
	}

	var rows []domain.Category
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return rows, nil
}

func (c *Client) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCategory")
	defer span.End()

	row := map[string]any{
		"id":      category.ID,
		"user_id": category.UserID,
		"name":    category.Name,
		"kind":    string(category.Kind),
		"icon":    category.Icon,
		"color":   category.Color,
	}

	body, err := c.doPost(ctx, "categories", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/categories", Err: err}
	}

	var rows []domain.Category
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode category: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from categories insert")
	}
	return &rows[0], nil
}

// DeleteCategory refuses to delete a category still referenced by
// transactions; PostgREST surfaces the FK violation as a 409.
func (c *Client) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCategory")
	defer span.End()

	path := fmt.Sprintf("categories?user_id=eq.%s&id=eq.%s", userID, categoryID)
	err := c.doDelete(ctx, path)
	if err == nil {
		return nil
	}

	var rest *restError
	if errors.As(err, &rest) && rest.Status == http.StatusConflict {
		return &domain.ErrReferentialIntegrity{
			Resource: "category",
			ID:       categoryID,
			Message:  "category has transactions and cannot be deleted",
		}
	}
	return &domain.ErrExternalService{Service: "supabase/categories", Err: err}
}
