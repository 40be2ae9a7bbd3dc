// Package domain holds the ledger's core types. Plain structs, no behavior
// beyond small helpers; all orchestration lives in the service layer.
package domain

import "time"

// AccountType enumerates the supported account kinds.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountWallet     AccountType = "wallet"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountWallet:
		return true
	}
	return false
}

// Account is a money container. Balance is the initial balance registered by
// the user; the effective balance is computed by the service from the
// account's transactions (see AccountBalance).
type Account struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	Balance     float64     `json:"balance"`
	Accumulates bool        `json:"accumulates"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CategoryKind restricts a category to income or expense.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

// Valid reports whether k is a known category kind.
func (k CategoryKind) Valid() bool {
	return k == CategoryIncome || k == CategoryExpense
}

// Category labels transactions for budgeting and reporting.
type Category struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	Kind      CategoryKind `json:"kind"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"`
	CreatedAt time.Time    `json:"created_at"`
}

// TransactionKind is a closed set: income, expense or transfer.
type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

// Valid reports whether k is a known transaction kind.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense || k == KindTransfer
}

// Transaction is a single ledger entry. Amount is always positive; the sign
// of its effect on a balance comes from Kind. Kind is immutable after
// insert. InstallmentPlanID and RecurringRuleID are set only by the engine,
// never by client updates.
type Transaction struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Description       string          `json:"description"`
	Amount            float64         `json:"amount"`
	Kind              TransactionKind `json:"kind"`
	CategoryID        string          `json:"category_id"`
	AccountID         string          `json:"account_id"`
	Date              time.Time       `json:"date"`
	InstallmentPlanID *string         `json:"installment_plan_id,omitempty"`
	RecurringRuleID   *string         `json:"recurring_rule_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// InstallmentPlan is the parent record of a purchase paid in parcels.
// PaidCount tracks how many parcels fall on or before "today"; it is kept in
// sync by the reconciler, not by database triggers.
type InstallmentPlan struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Description       string    `json:"description"`
	TotalAmount       float64   `json:"total_amount"`
	InstallmentAmount float64   `json:"installment_amount"`
	InstallmentCount  int       `json:"installment_count"`
	PaidCount         int       `json:"paid_count"`
	StartDate         time.Time `json:"start_date"`
	CategoryID        string    `json:"category_id"`
	AccountID         string    `json:"account_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// RemainingAmount returns the money still owed on the plan.
func (p *InstallmentPlan) RemainingAmount() float64 {
	remaining := p.InstallmentCount - p.PaidCount
	if remaining < 0 {
		remaining = 0
	}
	return float64(remaining) * p.InstallmentAmount
}

// RecurringRule is a template that materializes at most one transaction per
// month, on DayOfMonth (clamped to the month's length).
type RecurringRule struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id"`
	DayOfMonth  int             `json:"day_of_month"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AlertPeriod is the evaluation window of a budget alert.
type AlertPeriod string

const (
	PeriodWeekly  AlertPeriod = "weekly"
	PeriodMonthly AlertPeriod = "monthly"
)

// Valid reports whether p is a known alert period.
func (p AlertPeriod) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly
}

// Alert is a spending limit on a category.
type Alert struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	CategoryID  string      `json:"category_id"`
	LimitAmount float64     `json:"limit_amount"`
	Period      AlertPeriod `json:"period"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Goal is a savings target.
type Goal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Progress returns how far along the goal is, in [0,1].
func (g *Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount
	if p > 1 {
		p = 1
	}
	return p
}
