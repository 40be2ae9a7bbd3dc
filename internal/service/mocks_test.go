package service_test

import (
	"context"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
	"github.com/boddenberg/carteira-ledger-go/internal/infra/cache"
	"github.com/boddenberg/carteira-ledger-go/internal/infra/observability"
	"github.com/boddenberg/carteira-ledger-go/internal/service"

	"go.uber.org/zap"
)

// mockStore implements port.LedgerStore with overridable function fields.
// Unset fields return zero values so each test only wires what it uses.
type mockStore struct {
	listAccountsFn  func(ctx context.Context, userID string) ([]domain.Account, error)
	getAccountFn    func(ctx context.Context, userID, accountID string) (*domain.Account, error)
	createAccountFn func(ctx context.Context, account *domain.Account) (*domain.Account, error)
	updateAccountFn func(ctx context.Context, userID, accountID string, patch map[string]any) error
	deleteAccountFn func(ctx context.Context, userID, accountID string) error

	listCategoriesFn func(ctx context.Context, userID string) ([]domain.Category, error)
	createCategoryFn func(ctx context.Context, category *domain.Category) (*domain.Category, error)
	deleteCategoryFn func(ctx context.Context, userID, categoryID string) error

	listTransactionsByRangeFn func(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)
	listAllTransactionsFn     func(ctx context.Context, userID string) ([]domain.Transaction, error)
	getTransactionFn          func(ctx context.Context, userID, txID string) (*domain.Transaction, error)
	insertTransactionFn       func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	insertTransactionsFn      func(ctx context.Context, txs []domain.Transaction) error
	updateTransactionFn       func(ctx context.Context, userID, txID string, patch map[string]any) error
	deleteTransactionFn       func(ctx context.Context, userID, txID string) error
	deleteFutureByPlanFn      func(ctx context.Context, userID, planID string, after time.Time) error
	countByPlanThroughFn      func(ctx context.Context, planID string, through time.Time) (int, error)
	existsByRuleOnFn          func(ctx context.Context, ruleID string, date time.Time) (bool, error)

	listInstallmentPlansFn  func(ctx context.Context, userID string) ([]domain.InstallmentPlan, error)
	getInstallmentPlanFn    func(ctx context.Context, userID, planID string) (*domain.InstallmentPlan, error)
	createInstallmentPlanFn func(ctx context.Context, plan *domain.InstallmentPlan) (*domain.InstallmentPlan, error)
	updatePlanPaidCountFn   func(ctx context.Context, planID string, paidCount int) error
	deleteInstallmentPlanFn func(ctx context.Context, userID, planID string) error

	listRecurringRulesFn     func(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error)
	createRecurringRuleFn    func(ctx context.Context, rule *domain.RecurringRule) (*domain.RecurringRule, error)
	setRecurringRuleActiveFn func(ctx context.Context, userID, ruleID string, active bool) error
	deleteRecurringRuleFn    func(ctx context.Context, userID, ruleID string) error

	listAlertsFn     func(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error)
	createAlertFn    func(ctx context.Context, alert *domain.Alert) (*domain.Alert, error)
	setAlertActiveFn func(ctx context.Context, userID, alertID string, active bool) error
	deleteAlertFn    func(ctx context.Context, userID, alertID string) error

	listGoalsFn        func(ctx context.Context, userID string) ([]domain.Goal, error)
	createGoalFn       func(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	updateGoalAmountFn func(ctx context.Context, userID, goalID string, currentAmount float64) error
	deleteGoalFn       func(ctx context.Context, userID, goalID string) error
}

func (m *mockStore) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, userID, accountID)
	}
	return &domain.Account{ID: accountID, UserID: userID}, nil
}

func (m *mockStore) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, account)
	}
	return account, nil
}

func (m *mockStore) UpdateAccount(ctx context.Context, userID, accountID string, patch map[string]any) error {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(ctx, userID, accountID, patch)
	}
	return nil
}

func (m *mockStore) DeleteAccount(ctx context.Context, userID, accountID string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(ctx, userID, accountID)
	}
	return nil
}

func (m *mockStore) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, category)
	}
	return category, nil
}

func (m *mockStore) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, userID, categoryID)
	}
	return nil
}

func (m *mockStore) ListTransactionsByRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	if m.listTransactionsByRangeFn != nil {
		return m.listTransactionsByRangeFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockStore) ListAllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if m.listAllTransactionsFn != nil {
		return m.listAllTransactionsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(ctx, userID, txID)
	}
	return &domain.Transaction{ID: txID, UserID: userID, Kind: domain.KindExpense}, nil
}

func (m *mockStore) InsertTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if m.insertTransactionFn != nil {
		return m.insertTransactionFn(ctx, tx)
	}
	return tx, nil
}

func (m *mockStore) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	if m.insertTransactionsFn != nil {
		return m.insertTransactionsFn(ctx, txs)
	}
	return nil
}

func (m *mockStore) UpdateTransaction(ctx context.Context, userID, txID string, patch map[string]any) error {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(ctx, userID, txID, patch)
	}
	return nil
}

func (m *mockStore) DeleteTransaction(ctx context.Context, userID, txID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(ctx, userID, txID)
	}
	return nil
}

func (m *mockStore) DeleteFutureByPlan(ctx context.Context, userID, planID string, after time.Time) error {
	if m.deleteFutureByPlanFn != nil {
		return m.deleteFutureByPlanFn(ctx, userID, planID, after)
	}
	return nil
}

func (m *mockStore) CountByPlanThrough(ctx context.Context, planID string, through time.Time) (int, error) {
	if m.countByPlanThroughFn != nil {
		return m.countByPlanThroughFn(ctx, planID, through)
	}
	return 0, nil
}

func (m *mockStore) ExistsByRuleOn(ctx context.Context, ruleID string, date time.Time) (bool, error) {
	if m.existsByRuleOnFn != nil {
		return m.existsByRuleOnFn(ctx, ruleID, date)
	}
	return false, nil
}

func (m *mockStore) ListInstallmentPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error) {
	if m.listInstallmentPlansFn != nil {
		return m.listInstallmentPlansFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) GetInstallmentPlan(ctx context.Context, userID, planID string) (*domain.InstallmentPlan, error) {
	if m.getInstallmentPlanFn != nil {
		return m.getInstallmentPlanFn(ctx, userID, planID)
	}
	return &domain.InstallmentPlan{ID: planID, UserID: userID}, nil
}

func (m *mockStore) CreateInstallmentPlan(ctx context.Context, plan *domain.InstallmentPlan) (*domain.InstallmentPlan, error) {
	if m.createInstallmentPlanFn != nil {
		return m.createInstallmentPlanFn(ctx, plan)
	}
	return plan, nil
}

func (m *mockStore) UpdatePlanPaidCount(ctx context.Context, planID string, paidCount int) error {
	if m.updatePlanPaidCountFn != nil {
		return m.updatePlanPaidCountFn(ctx, planID, paidCount)
	}
	return nil
}

func (m *mockStore) DeleteInstallmentPlan(ctx context.Context, userID, planID string) error {
	if m.deleteInstallmentPlanFn != nil {
		return m.deleteInstallmentPlanFn(ctx, userID, planID)
	}
	return nil
}

func (m *mockStore) ListRecurringRules(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringRule, error) {
	if m.listRecurringRulesFn != nil {
		return m.listRecurringRulesFn(ctx, userID, activeOnly)
	}
	return nil, nil
}

func (m *mockStore) CreateRecurringRule(ctx context.Context, rule *domain.RecurringRule) (*domain.RecurringRule, error) {
	if m.createRecurringRuleFn != nil {
		return m.createRecurringRuleFn(ctx, rule)
	}
	return rule, nil
}

func (m *mockStore) SetRecurringRuleActive(ctx context.Context, userID, ruleID string, active bool) error {
	if m.setRecurringRuleActiveFn != nil {
		return m.setRecurringRuleActiveFn(ctx, userID, ruleID, active)
	}
	return nil
}

func (m *mockStore) DeleteRecurringRule(ctx context.Context, userID, ruleID string) error {
	if m.deleteRecurringRuleFn != nil {
		return m.deleteRecurringRuleFn(ctx, userID, ruleID)
	}
	return nil
}

func (m *mockStore) ListAlerts(ctx context.Context, userID string, activeOnly bool) ([]domain.Alert, error) {
	if m.listAlertsFn != nil {
		return m.listAlertsFn(ctx, userID, activeOnly)
	}
	return nil, nil
}

func (m *mockStore) CreateAlert(ctx context.Context, alert *domain.Alert) (*domain.Alert, error) {
	if m.createAlertFn != nil {
		return m.createAlertFn(ctx, alert)
	}
	return alert, nil
}

func (m *mockStore) SetAlertActive(ctx context.Context, userID, alertID string, active bool) error {
	if m.setAlertActiveFn != nil {
		return m.setAlertActiveFn(ctx, userID, alertID, active)
	}
	return nil
}

func (m *mockStore) DeleteAlert(ctx context.Context, userID, alertID string) error {
	if m.deleteAlertFn != nil {
		return m.deleteAlertFn(ctx, userID, alertID)
	}
	return nil
}

func (m *mockStore) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	if m.listGoalsFn != nil {
		return m.listGoalsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(ctx, goal)
	}
	return goal, nil
}

func (m *mockStore) UpdateGoalAmount(ctx context.Context, userID, goalID string, currentAmount float64) error {
	if m.updateGoalAmountFn != nil {
		return m.updateGoalAmountFn(ctx, userID, goalID, currentAmount)
	}
	return nil
}

func (m *mockStore) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(ctx, userID, goalID)
	}
	return nil
}

// newTestService wires a LedgerService around the mock with a no-op logger
// and a fresh metrics registry.
func newTestService(store *mockStore, opts ...service.Option) *service.LedgerService {
	return service.NewLedgerService(
		store,
		cache.New[[]domain.Category](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		opts...,
	)
}

// fixedClock pins "today" for deterministic date arithmetic.
func fixedClock(year int, month time.Month, day int) service.Option {
	return service.WithClock(func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	})
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
