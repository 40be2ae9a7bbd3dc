package service

import (
	"context"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Accounts — CRUD and balance computation
// ============================================================

func (s *LedgerService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListAccounts")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListAccounts(ctx, userID)
}

func (s *LedgerService) CreateAccount(ctx context.Context, userID string, req *domain.AccountRequest) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.CreateAccount")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if !req.Type.Valid() {
		return nil, &domain.ErrValidation{Field: "type", Message: "must be checking, savings, investment or wallet"}
	}

	account := &domain.Account{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Type:        req.Type,
		Balance:     req.Balance,
		Accumulates: req.Accumulates,
	}

	created, err := s.store.CreateAccount(ctx, account)
	if err != nil {
		s.logger.Error("failed to create account", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("user_id", userID),
		zap.String("account_id", created.ID),
		zap.String("type", string(created.Type)),
	)
	return created, nil
}

func (s *LedgerService) UpdateAccount(ctx context.Context, userID, accountID string, req *domain.AccountRequest) error {
	ctx, span := tracer.Start(ctx, "LedgerService.UpdateAccount")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	if req.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if !req.Type.Valid() {
		return &domain.ErrValidation{Field: "type", Message: "must be checking, savings, investment or wallet"}
	}
	if _, err := s.store.GetAccount(ctx, userID, accountID); err != nil {
		return err
	}

	return s.store.UpdateAccount(ctx, userID, accountID, map[string]any{
		"name":        req.Name,
		"type":        string(req.Type),
		"balance":     req.Balance,
		"accumulates": req.Accumulates,
	})
}

// DeleteAccount removes the account and, by cascade, its transactions.
func (s *LedgerService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.DeleteAccount")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.store.GetAccount(ctx, userID, accountID); err != nil {
		return err
	}

	if err := s.store.DeleteAccount(ctx, userID, accountID); err != nil {
		return err
	}
	s.logger.Info("account deleted",
		zap.String("user_id", userID),
		zap.String("account_id", accountID),
	)
	return nil
}

// balanceFor applies the account's accrual policy to its transactions.
//
// Accumulating: the registered initial balance plus the net of the account's
// entire history. Non-accumulating: the net of the current calendar month
// only; the initial balance is ignored.
func balanceFor(acc domain.Account, txs []domain.Transaction, asOf time.Time) float64 {
	if acc.Accumulates {
		balance := acc.Balance
		for _, tx := range txs {
			if tx.AccountID == acc.ID {
				balance += netEffect(tx)
			}
		}
		return balance
	}

	var balance float64
	for _, tx := range txs {
		if tx.AccountID == acc.ID && sameMonth(tx.Date, asOf) {
			balance += netEffect(tx)
		}
	}
	return balance
}

// AccountBalances computes the effective balance of every account from its
// transactions, as of today.
func (s *LedgerService) AccountBalances(ctx context.Context, userID string) ([]domain.AccountBalance, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.AccountBalances")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListAllTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	balances := make([]domain.AccountBalance, 0, len(accounts))
	for _, acc := range accounts {
		balances = append(balances, domain.AccountBalance{
			Account: acc,
			Balance: balanceFor(acc, txs, asOf),
		})
	}
	return balances, nil
}

// TotalBalance is the sum of every account's computed balance.
func (s *LedgerService) TotalBalance(ctx context.Context, userID string) (float64, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.TotalBalance")
	defer span.End()

	balances, err := s.AccountBalances(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, b := range balances {
		total += b.Balance
	}
	return total, nil
}
