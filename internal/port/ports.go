// Package port defines the interfaces the service layer depends on.
// Implementations live under internal/infra.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// AccountStore persists accounts. Deleting an account cascades to its
// transactions server-side.
type AccountStore interface {
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, patch map[string]any) error
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// CategoryStore persists categories. DeleteCategory returns
// *domain.ErrReferentialIntegrity when transactions still reference it.
type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TransactionStore persists transactions. Each call is a single atomic
// PostgREST request; there are no cross-call transactions.
type TransactionStore interface {
	ListTransactionsByRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)
	ListAllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error)
	InsertTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	// InsertTransactions posts the whole batch in one request; PostgREST
	// applies it all-or-nothing.
	InsertTransactions(ctx context.Context, txs []domain.Transaction) error
	UpdateTransaction(ctx context.Context, userID, txID string, patch map[string]any) error
	DeleteTransaction(ctx context.Context, userID, txID string) error

	// DeleteFutureByPlan removes the plan's parcels strictly after the given
	// date. Parcels on or before it are never touched.
	DeleteFutureByPlan(ctx context.Context, userID, planID string, after time.Time) error
	// CountByPlanThrough counts the plan's parcels dated on or before the
	// given date.
	CountByPlanThrough(ctx context.Context, planID string, through time.Time) (int, error)
	// ExistsByRuleOn reports whether the rule already materialized a
	// transaction on the given date.
	ExistsByRuleOn(ctx context.Context, ruleID string, date time.Time) (bool, error)
}

// InstallmentStore persists installment plans.
type InstallmentStore interface {
	ListInstallmentPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error)
	GetInstallmentPlan(ctx context.Context, userID, planID string) (*domain.InstallmentPlan, error)
	CreateInstallmentPlan(ctx context.Context, plan *domain.InstallmentPlan) (*domain.InstallmentPlan, error)
	UpdatePlanPaidCount(ctx context.Context, planID string, paidCount int) error
	DeleteInstallmentPlan(ctx context.Context, userID, planID string) error
}

// RecurringStore persists recurring rules.
type RecurringStore interface {
	ListRecurringRules(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error)
	CreateRecurringRule(ctx context.Context, rule *domain.RecurringRule) (*domain.RecurringRule, error)
	SetRecurringRuleActive(ctx context.Context, userID, ruleID string, active bool) error
	DeleteRecurringRule(ctx context.Context, userID, ruleID string) error
}

// AlertStore persists budget alerts.
type AlertStore interface {
	ListAlerts(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error)
	CreateAlert(ctx context.Context, alert *domain.Alert) (*domain.Alert, error)
	SetAlertActive(ctx context.Context, userID, alertID string, active bool) error
	DeleteAlert(ctx context.Context, userID, alertID string) error
}

// GoalStore persists savings goals.
type GoalStore interface {
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	UpdateGoalAmount(ctx context.Context, userID, goalID string, currentAmount float64) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
}

// LedgerStore is the full record store the service layer works against.
type LedgerStore interface {
	AccountStore
	CategoryStore
	TransactionStore
	InstallmentStore
	RecurringStore
	AlertStore
	GoalStore
}
