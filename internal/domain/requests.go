package domain

import "time"

// Request payloads accepted by the service layer. Validation happens in the
// service, not here.

// AccountRequest creates or replaces an account.
type AccountRequest struct {
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	Balance     float64     `json:"balance"`
	Accumulates bool        `json:"accumulates"`
}

// CategoryRequest creates a category.
type CategoryRequest struct {
	Name  string       `json:"name"`
	Kind  CategoryKind `json:"kind"`
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
}

// TransactionRequest creates a manual transaction.
type TransactionRequest struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
}

// TransactionPatch updates mutable fields of a transaction. Kind and the
// installment/recurring linkage cannot be changed after insert.
type TransactionPatch struct {
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	AccountID   *string  `json:"account_id,omitempty"`
	Date        *string  `json:"date,omitempty"` // YYYY-MM-DD
}

// InstallmentPlanRequest creates an installment plan plus its future parcels.
// AlreadyPaid parcels are counted as settled and get no transactions.
type InstallmentPlanRequest struct {
	Description       string  `json:"description"`
	TotalAmount       float64 `json:"total_amount"`
	InstallmentAmount float64 `json:"installment_amount"`
	InstallmentCount  int     `json:"installment_count"`
	AlreadyPaid       int     `json:"already_paid"`
	StartDate         string  `json:"start_date"` // YYYY-MM-DD, date of the first parcel
	CategoryID        string  `json:"category_id"`
	AccountID         string  `json:"account_id"`
}

// RecurringRuleRequest creates a recurring transaction template.
type RecurringRuleRequest struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id"`
	DayOfMonth  int             `json:"day_of_month"`
}

// AlertRequest creates a budget alert.
type AlertRequest struct {
	CategoryID  string      `json:"category_id"`
	LimitAmount float64     `json:"limit_amount"`
	Period      AlertPeriod `json:"period"`
}

// GoalRequest creates a savings goal.
type GoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	Deadline     string  `json:"deadline,omitempty"` // YYYY-MM-DD, optional
}

// ParseCivilDate parses the YYYY-MM-DD format used on the wire.
func ParseCivilDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
