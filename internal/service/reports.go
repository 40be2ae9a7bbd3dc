package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/boddenberg/carteira-ledger-go/internal/domain"
)

// ============================================================
// Reports — category breakdown, monthly summary, daily series
// ============================================================

// SpendingByCategory groups the month's expense transactions by category.
// Each slice carries its share of the total as a rounded percentage (0 when
// the month has no expenses); slices are sorted by amount descending.
func (s *LedgerService) SpendingByCategory(ctx context.Context, userID string, month time.Time) ([]domain.CategorySummary, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.SpendingByCategory")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	from, to := monthWindow(s.monthOrNow(month))
	txs, err := s.store.ListTransactionsByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoriesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]float64)
	var total float64
	for _, tx := range txs {
		if tx.Kind != domain.KindExpense {
			continue
		}
		byCategory[tx.CategoryID] += tx.Amount
		total += tx.Amount
	}

	catIndex := make(map[string]domain.Category, len(categories))
	for _, cat := range categories {
		catIndex[cat.ID] = cat
	}

	summaries := make([]domain.CategorySummary, 0, len(byCategory))
	for id, amount := range byCategory {
		pct := 0
		if total > 0 {
			pct = int(math.Round(amount / total * 100))
		}
		summary := domain.CategorySummary{
			CategoryID: id,
			Amount:     amount,
			Percentage: pct,
		}
		if cat, ok := catIndex[id]; ok {
			summary.Name = cat.Name
			summary.Icon = cat.Icon
			summary.Color = cat.Color
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Amount > summaries[j].Amount
	})
	return summaries, nil
}

// MonthlySummary totals the month's income and expenses. Transfers move
// money between the user's own accounts and are excluded.
func (s *LedgerService) MonthlySummary(ctx context.Context, userID string, month time.Time) (*domain.FinancialSummary, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.MonthlySummary")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	from, to := monthWindow(s.monthOrNow(month))
	txs, err := s.store.ListTransactionsByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &domain.FinancialSummary{}
	for _, tx := range txs {
		switch tx.Kind {
		case domain.KindIncome:
			summary.Income += tx.Amount
		case domain.KindExpense:
			summary.Expense += tx.Amount
		}
	}
	summary.Net = summary.Income - summary.Expense
	return summary, nil
}

// DailyBalances builds the month's running-balance chart series: per-day
// income and expense totals plus the accumulated balance through that day.
func (s *LedgerService) DailyBalances(ctx context.Context, userID string, month time.Time) ([]domain.DailyBalance, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.DailyBalances")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	from, to := monthWindow(s.monthOrNow(month))
	txs, err := s.store.ListTransactionsByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	days := to.Day()
	income := make([]float64, days+1)
	expense := make([]float64, days+1)
	for _, tx := range txs {
		day := tx.Date.Day()
		if day < 1 || day > days {
			continue
		}
		switch tx.Kind {
		case domain.KindIncome:
			income[day] += tx.Amount
		case domain.KindExpense:
			expense[day] += tx.Amount
		}
	}

	series := make([]domain.DailyBalance, 0, days)
	var running float64
	for day := 1; day <= days; day++ {
		running += income[day] - expense[day]
		series = append(series, domain.DailyBalance{
			Day:     day,
			Income:  income[day],
			Expense: expense[day],
			Balance: running,
		})
	}
	return series, nil
}
