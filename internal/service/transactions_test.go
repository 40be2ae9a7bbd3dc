package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

func expenseCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	return []domain.Category{
		{ID: "food", UserID: userID, Name: "Alimentação", Kind: domain.CategoryExpense},
		{ID: "salary", UserID: userID, Name: "Salário", Kind: domain.CategoryIncome},
	}, nil
}

func TestCreateTransaction_HappyPath(t *testing.T) {
	store := &mockStore{listCategoriesFn: expenseCategories}
	svc := newTestService(store)

	tx, err := svc.CreateTransaction(context.Background(), testUser, &domain.TransactionRequest{
		Description: "Mercado",
		Amount:      230.50,
		Kind:        domain.KindExpense,
		CategoryID:  "food",
		AccountID:   "acc-1",
		Date:        "2024-06-10",
	})
	if err != nil {
		t.Fatalf("expected transaction, got %v", err)
	}
	if tx.ID == "" {
		t.Error("expected a generated ID")
	}
	if got := tx.Date.Format("2006-01-02"); got != "2024-06-10" {
		t.Errorf("expected date 2024-06-10, got %s", got)
	}
}

func TestCreateTransaction_CategoryKindMismatch(t *testing.T) {
	store := &mockStore{listCategoriesFn: expenseCategories}
	svc := newTestService(store)

	_, err := svc.CreateTransaction(context.Background(), testUser, &domain.TransactionRequest{
		Description: "Mercado",
		Amount:      100,
		Kind:        domain.KindIncome, // "food" is an expense category
		CategoryID:  "food",
		AccountID:   "acc-1",
		Date:        "2024-06-10",
	})

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateTransaction_TransferSkipsKindMatch(t *testing.T) {
	store := &mockStore{listCategoriesFn: expenseCategories}
	svc := newTestService(store)

	_, err := svc.CreateTransaction(context.Background(), testUser, &domain.TransactionRequest{
		Description: "Aporte poupança",
		Amount:      500,
		Kind:        domain.KindTransfer,
		CategoryID:  "food", // any category is acceptable for transfers
		AccountID:   "acc-1",
		Date:        "2024-06-10",
	})
	if err != nil {
		t.Fatalf("expected transfer to be accepted, got %v", err)
	}
}

func TestCreateTransaction_UnknownCategory(t *testing.T) {
	store := &mockStore{listCategoriesFn: expenseCategories}
	svc := newTestService(store)

	_, err := svc.CreateTransaction(context.Background(), testUser, &domain.TransactionRequest{
		Description: "Mercado",
		Amount:      100,
		Kind:        domain.KindExpense,
		CategoryID:  "ghost",
		AccountID:   "acc-1",
		Date:        "2024-06-10",
	})

	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTransaction_RejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(&mockStore{})

	_, err := svc.CreateTransaction(context.Background(), testUser, &domain.TransactionRequest{
		Description: "Mercado",
		Amount:      0,
		Kind:        domain.KindExpense,
		CategoryID:  "food",
		AccountID:   "acc-1",
		Date:        "2024-06-10",
	})

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateTransaction_BuildsPatchFromSetFields(t *testing.T) {
	var gotPatch map[string]any
	store := &mockStore{
		updateTransactionFn: func(ctx context.Context, userID, txID string, patch map[string]any) error {
			gotPatch = patch
			return nil
		},
	}
	svc := newTestService(store)

	desc := "Mercado do mês"
	amount := 310.0
	err := svc.UpdateTransaction(context.Background(), testUser, "tx-1", &domain.TransactionPatch{
		Description: &desc,
		Amount:      &amount,
	})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if len(gotPatch) != 2 {
		t.Fatalf("expected 2 patched fields, got %v", gotPatch)
	}
	if gotPatch["description"] != desc || gotPatch["amount"] != amount {
		t.Errorf("unexpected patch: %v", gotPatch)
	}
}

func TestUpdateTransaction_CategoryRepointChecksExistingKind(t *testing.T) {
	updated := false
	store := &mockStore{
		listCategoriesFn: expenseCategories,
		getTransactionFn: func(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
			return &domain.Transaction{ID: txID, UserID: userID, Kind: domain.KindExpense}, nil
		},
		updateTransactionFn: func(ctx context.Context, userID, txID string, patch map[string]any) error {
			updated = true
			return nil
		},
	}
	svc := newTestService(store)

	// "salary" is an income category; the stored entry is an expense.
	category := "salary"
	err := svc.UpdateTransaction(context.Background(), testUser, "tx-1", &domain.TransactionPatch{
		CategoryID: &category,
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if updated {
		t.Error("expected no store update on kind mismatch")
	}
}

func TestUpdateTransaction_CategoryRepointMatchingKind(t *testing.T) {
	var gotPatch map[string]any
	store := &mockStore{
		listCategoriesFn: expenseCategories,
		getTransactionFn: func(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
			return &domain.Transaction{ID: txID, UserID: userID, Kind: domain.KindExpense}, nil
		},
		updateTransactionFn: func(ctx context.Context, userID, txID string, patch map[string]any) error {
			gotPatch = patch
			return nil
		},
	}
	svc := newTestService(store)

	category := "food"
	err := svc.UpdateTransaction(context.Background(), testUser, "tx-1", &domain.TransactionPatch{
		CategoryID: &category,
	})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if gotPatch["category_id"] != "food" {
		t.Errorf("unexpected patch: %v", gotPatch)
	}
}

func TestUpdateTransaction_EmptyPatchRejected(t *testing.T) {
	svc := newTestService(&mockStore{})

	err := svc.UpdateTransaction(context.Background(), testUser, "tx-1", &domain.TransactionPatch{})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListTransactions_DefaultsToClockMonth(t *testing.T) {
	var gotFrom, gotTo time.Time
	store := &mockStore{
		listTransactionsByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	}
	svc := newTestService(store, fixedClock(2024, time.June, 15))

	if _, err := svc.ListTransactions(context.Background(), testUser, time.Time{}); err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}
	if got := gotFrom.Format("2006-01-02"); got != "2024-06-01" {
		t.Errorf("expected window to start 2024-06-01, got %s", got)
	}
	if got := gotTo.Format("2006-01-02"); got != "2024-06-30" {
		t.Errorf("expected window to end 2024-06-30, got %s", got)
	}
}

func TestListCategories_ServedFromCacheOnRepeat(t *testing.T) {
	calls := 0
	store := &mockStore{
		listCategoriesFn: func(ctx context.Context, userID string) ([]domain.Category, error) {
			calls++
			return expenseCategories(ctx, userID)
		},
	}
	svc := newTestService(store)

	for i := 0; i < 3; i++ {
		if _, err := svc.ListCategories(context.Background(), testUser); err != nil {
			t.Fatalf("expected categories, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected a single store read, got %d", calls)
	}
}

func TestCreateCategory_InvalidatesCache(t *testing.T) {
	calls := 0
	store := &mockStore{
		listCategoriesFn: func(ctx context.Context, userID string) ([]domain.Category, error) {
			calls++
			return expenseCategories(ctx, userID)
		},
	}
	svc := newTestService(store)

	if _, err := svc.ListCategories(context.Background(), testUser); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateCategory(context.Background(), testUser, &domain.CategoryRequest{
		Name: "Lazer", Kind: domain.CategoryExpense,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListCategories(context.Background(), testUser); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expected cache invalidation to force a re-read, got %d store reads", calls)
	}
}

func TestDeleteCategory_SurfacesReferentialIntegrity(t *testing.T) {
	store := &mockStore{
		deleteCategoryFn: func(ctx context.Context, userID, categoryID string) error {
			return &domain.ErrReferentialIntegrity{Resource: "category", ID: categoryID}
		},
	}
	svc := newTestService(store)

	err := svc.DeleteCategory(context.Background(), testUser, "food")
	var refErr *domain.ErrReferentialIntegrity
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ErrReferentialIntegrity, got %v", err)
	}
}
