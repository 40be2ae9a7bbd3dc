package service

import (
	"context"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Manual transactions — month listing, create, update, delete
// ============================================================

// ListTransactions returns the transactions of the given calendar month,
// newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, userID string, month time.Time) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListTransactions")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	from, to := monthWindow(s.monthOrNow(month))
	return s.store.ListTransactionsByRange(ctx, userID, from, to)
}

// CreateTransaction inserts a manual entry. Income and expense entries must
// point at a category of the matching kind; transfers may use any category.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID string, req *domain.TransactionRequest) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.CreateTransaction")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Description == "" {
		return nil, &domain.ErrValidation{Field: "description", Message: "required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if !req.Kind.Valid() {
		return nil, &domain.ErrValidation{Field: "kind", Message: "must be income, expense or transfer"}
	}
	date, err := domain.ParseCivilDate(req.Date)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "date", Message: "invalid format, use YYYY-MM-DD"}
	}

	if _, err := s.store.GetAccount(ctx, userID, req.AccountID); err != nil {
		return nil, err
	}
	if err := s.checkCategoryKind(ctx, userID, req.CategoryID, req.Kind); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		Date:        date,
	}

	created, err := s.store.InsertTransaction(ctx, tx)
	if err != nil {
		s.logger.Error("failed to insert transaction", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("transaction created",
		zap.String("user_id", userID),
		zap.String("transaction_id", created.ID),
		zap.String("kind", string(created.Kind)),
		zap.Float64("amount", created.Amount),
	)
	return created, nil
}

// checkCategoryKind verifies the category exists and, for income/expense
// entries, that its kind matches the transaction's.
func (s *LedgerService) checkCategoryKind(ctx context.Context, userID, categoryID string, kind domain.TransactionKind) error {
	categories, err := s.categoriesFor(ctx, userID)
	if err != nil {
		return err
	}

	for _, cat := range categories {
		if cat.ID != categoryID {
			continue
		}
		if kind == domain.KindTransfer {
			return nil
		}
		if string(cat.Kind) != string(kind) {
			return &domain.ErrValidation{Field: "category_id", Message: "category kind does not match transaction kind"}
		}
		return nil
	}
	return &domain.ErrNotFound{Resource: "category", ID: categoryID}
}

// UpdateTransaction patches the mutable fields of a manual entry. Kind and
// the installment/recurring linkage are immutable after insert.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, txID string, patch *domain.TransactionPatch) error {
	ctx, span := tracer.Start(ctx, "LedgerService.UpdateTransaction")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}

	fields := map[string]any{}
	if patch.Description != nil {
		if *patch.Description == "" {
			return &domain.ErrValidation{Field: "description", Message: "cannot be empty"}
		}
		fields["description"] = *patch.Description
	}
	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return &domain.ErrValidation{Field: "amount", Message: "must be positive"}
		}
		fields["amount"] = *patch.Amount
	}
	if patch.Date != nil {
		date, err := domain.ParseCivilDate(*patch.Date)
		if err != nil {
			return &domain.ErrValidation{Field: "date", Message: "invalid format, use YYYY-MM-DD"}
		}
		fields["date"] = date.Format("2006-01-02")
	}
	if patch.CategoryID != nil {
		// The kind is immutable, so repointing the category must keep the
		// kind-match invariant against the existing row.
		tx, err := s.store.GetTransaction(ctx, userID, txID)
		if err != nil {
			return err
		}
		if err := s.checkCategoryKind(ctx, userID, *patch.CategoryID, tx.Kind); err != nil {
			return err
		}
		fields["category_id"] = *patch.CategoryID
	}
	if patch.AccountID != nil {
		if _, err := s.store.GetAccount(ctx, userID, *patch.AccountID); err != nil {
			return err
		}
		fields["account_id"] = *patch.AccountID
	}
	if len(fields) == 0 {
		return &domain.ErrValidation{Field: "body", Message: "no updatable fields provided"}
	}

	return s.store.UpdateTransaction(ctx, userID, txID, fields)
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, txID string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.DeleteTransaction")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, userID, txID)
}
