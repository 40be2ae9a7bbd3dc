package service

import (
	"context"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Categories — CRUD with a read-side cache
// ============================================================

// categoriesFor returns the user's categories, serving repeat lookups from
// the TTL cache. The cache is read-side only; every category mutation
// invalidates the user's entry.
func (s *LedgerService) categoriesFor(ctx context.Context, userID string) ([]domain.Category, error) {
	if cached, ok := s.categoryCache.Get(userID); ok {
		s.metrics.IncrCacheHit("categories")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("categories")

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.categoryCache.Set(userID, categories)
	return categories, nil
}

func (s *LedgerService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListCategories")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.categoriesFor(ctx, userID)
}

func (s *LedgerService) CreateCategory(ctx context.Context, userID string, req *domain.CategoryRequest) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.CreateCategory")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if !req.Kind.Valid() {
		return nil, &domain.ErrValidation{Field: "kind", Message: "must be income or expense"}
	}

	category := &domain.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   req.Name,
		Kind:   req.Kind,
		Icon:   req.Icon,
		Color:  req.Color,
	}

	created, err := s.store.CreateCategory(ctx, category)
	if err != nil {
		s.logger.Error("failed to create category", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	s.categoryCache.Delete(userID)

	s.logger.Info("category created",
		zap.String("user_id", userID),
		zap.String("category_id", created.ID),
		zap.String("kind", string(created.Kind)),
	)
	return created, nil
}

// DeleteCategory refuses to delete a category that still has transactions;
// the store surfaces that as ErrReferentialIntegrity.
func (s *LedgerService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.DeleteCategory")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	s.categoryCache.Delete(userID)

	s.logger.Info("category deleted",
		zap.String("user_id", userID),
		zap.String("category_id", categoryID),
	)
	return nil
}
