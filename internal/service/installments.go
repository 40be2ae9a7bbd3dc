package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Installment plans — create, cancel, paid-count reconciliation
// ============================================================

// CreateInstallmentPlan inserts the parent plan and generates one expense
// transaction per remaining parcel, dated one calendar month apart starting
// at the request's start date (the date of the first unpaid parcel).
//
// The store has no cross-call transactions, so if the parcel batch insert
// fails the plan is deleted as compensation. If that delete also fails, the
// plan is orphaned and the error says so explicitly.
func (s *LedgerService) CreateInstallmentPlan(ctx context.Context, userID string, req *domain.InstallmentPlanRequest) (*domain.InstallmentPlan, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.CreateInstallmentPlan")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Description == "" {
		return nil, &domain.ErrValidation{Field: "description", Message: "required"}
	}
	if req.TotalAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "total_amount", Message: "must be positive"}
	}
	if req.InstallmentAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "installment_amount", Message: "must be positive"}
	}
	if req.InstallmentCount < 1 {
		return nil, &domain.ErrValidation{Field: "installment_count", Message: "must be at least 1"}
	}
	if req.AlreadyPaid < 0 || req.AlreadyPaid > req.InstallmentCount {
		return nil, &domain.ErrValidation{Field: "already_paid", Message: "must be between 0 and installment_count"}
	}
	if req.CategoryID == "" {
		return nil, &domain.ErrValidation{Field: "category_id", Message: "required"}
	}
	if req.AccountID == "" {
		return nil, &domain.ErrValidation{Field: "account_id", Message: "required"}
	}

	remaining := req.InstallmentCount - req.AlreadyPaid
	if remaining <= 0 {
		return nil, &domain.ErrInvalidState{Message: "all parcels are already paid, nothing to schedule"}
	}

	start, err := domain.ParseCivilDate(req.StartDate)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "start_date", Message: "invalid format, use YYYY-MM-DD"}
	}

	plan := &domain.InstallmentPlan{
		ID:                uuid.New().String(),
		UserID:            userID,
		Description:       req.Description,
		TotalAmount:       req.TotalAmount,
		InstallmentAmount: req.InstallmentAmount,
		InstallmentCount:  req.InstallmentCount,
		PaidCount:         req.AlreadyPaid,
		StartDate:         start,
		CategoryID:        req.CategoryID,
		AccountID:         req.AccountID,
	}

	created, err := s.store.CreateInstallmentPlan(ctx, plan)
	if err != nil {
		s.logger.Error("failed to create installment plan",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	parcels := make([]domain.Transaction, 0, remaining)
	for i := 0; i < remaining; i++ {
		parcelNumber := req.AlreadyPaid + i + 1
		parcels = append(parcels, domain.Transaction{
			ID:                uuid.New().String(),
			UserID:            userID,
			Description:       fmt.Sprintf("%s (%d/%d)", req.Description, parcelNumber, req.InstallmentCount),
			Amount:            req.InstallmentAmount,
			Kind:              domain.KindExpense,
			CategoryID:        req.CategoryID,
			AccountID:         req.AccountID,
			Date:              addMonthsClamped(start, i),
			InstallmentPlanID: &created.ID,
		})
	}

	if err := s.store.InsertTransactions(ctx, parcels); err != nil {
		s.logger.Error("parcel batch insert failed, compensating",
			zap.String("user_id", userID),
			zap.String("plan_id", created.ID),
			zap.Error(err),
		)
		if delErr := s.store.DeleteInstallmentPlan(ctx, userID, created.ID); delErr != nil {
			orphan := &domain.ErrOrphanedPlan{PlanID: created.ID, Cause: err, CompensationErr: delErr}
			s.logger.Error("compensating delete failed, plan orphaned",
				zap.String("plan_id", created.ID),
				zap.Error(orphan),
			)
			return nil, orphan
		}
		return nil, err
	}

	s.metrics.AddParcelsScheduled(len(parcels))
	s.logger.Info("installment plan created",
		zap.String("user_id", userID),
		zap.String("plan_id", created.ID),
		zap.Int("installment_count", req.InstallmentCount),
		zap.Int("already_paid", req.AlreadyPaid),
		zap.Int("parcels_generated", len(parcels)),
	)

	return created, nil
}

// ListInstallmentPlans returns all of the user's plans, newest first.
func (s *LedgerService) ListInstallmentPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListInstallmentPlans")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListInstallmentPlans(ctx, userID)
}

// CancelInstallmentPlan deletes only the plan's future parcels (date strictly
// after today). Past parcels are historical fact and the plan row itself is
// permanent history; paid_count is left for the next reconciliation pass.
// Idempotent: a second cancel finds nothing to delete.
func (s *LedgerService) CancelInstallmentPlan(ctx context.Context, userID, planID string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.CancelInstallmentPlan")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}

	plan, err := s.store.GetInstallmentPlan(ctx, userID, planID)
	if err != nil {
		return err
	}

	today := s.now()
	if err := s.store.DeleteFutureByPlan(ctx, userID, plan.ID, today); err != nil {
		s.logger.Error("failed to cancel installment plan",
			zap.String("user_id", userID),
			zap.String("plan_id", planID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("installment plan cancelled",
		zap.String("user_id", userID),
		zap.String("plan_id", planID),
	)
	return nil
}

// SyncPaidCounts recomputes every plan's paid_count from ground truth: the
// number of its parcels dated on or before today. Plans are reconciled in
// parallel with bounded workers; one plan's failure never aborts the others.
func (s *LedgerService) SyncPaidCounts(ctx context.Context, userID string) (*domain.BatchOutcome, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.SyncPaidCounts")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	plans, err := s.store.ListInstallmentPlans(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	outcome := &domain.BatchOutcome{Failures: []domain.ItemFailure{}}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.syncWorkers)

	for i := range plans {
		plan := plans[i]
		g.Go(func() error {
			count, err := s.store.CountByPlanThrough(ctx, plan.ID, today)
			if err == nil && count != plan.PaidCount {
				err = s.store.UpdatePlanPaidCount(ctx, plan.ID, count)
				if err == nil {
					s.metrics.IncrPlansReconciled()
					s.logger.Info("paid count reconciled",
						zap.String("plan_id", plan.ID),
						zap.Int("old", plan.PaidCount),
						zap.Int("new", count),
					)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				s.logger.Warn("paid count sync failed for plan",
					zap.String("plan_id", plan.ID),
					zap.Error(err),
				)
				outcome.Failures = append(outcome.Failures, domain.ItemFailure{ID: plan.ID, Reason: err.Error()})
			case count == plan.PaidCount:
				outcome.Skipped++
			default:
				outcome.Processed++
			}
			return nil // isolation: a failed plan never cancels the group
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcome, nil
}
