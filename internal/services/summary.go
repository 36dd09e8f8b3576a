package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"kasku/internal/core"
)

type (
	// GoalWithProgress pairs a stored goal with its derived state.
	GoalWithProgress struct {
		Goal     core.SavingGoal
		Progress core.GoalProgress
	}

	// DebtWithProgress pairs a stored debt with its derived state.
	DebtWithProgress struct {
		Debt     core.Debt
		Progress core.DebtProgress
	}

	// SavingsOverview is the full savings page payload.
	SavingsOverview struct {
		Summary core.SavingSummary
		Goals   []GoalWithProgress
	}

	// DebtOverview is the full debts page payload.
	DebtOverview struct {
		Summary    core.DebtSummary
		ByCategory []core.CategoryAmount
		Debts      []DebtWithProgress
	}
)

// DashboardSummary computes total balance and the current month's
// flows from the full transaction history.
func (s *LedgerService) DashboardSummary(ctx context.Context, userID int64, now time.Time) (core.DashboardSummary, error) {
	txs, err := s.storage.ListTransactions(ctx, userID)
	if err != nil {
		return core.DashboardSummary{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.SummarizeDashboard(txs, now), nil
}

// AccountSummaries fetches accounts and transactions concurrently and
// folds them into per-account balances.
func (s *LedgerService) AccountSummaries(ctx context.Context, userID int64) ([]core.AccountSummary, error) {
	var (
		accounts []core.Account
		txs      []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.storage.ListAccounts(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.storage.ListTransactions(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("account summaries: %w", err)
	}

	return core.SummarizeAccounts(accounts, txs), nil
}

// SavingsOverview reports every goal with progress plus the combined
// totals.
func (s *LedgerService) SavingsOverview(ctx context.Context, userID int64, now time.Time) (SavingsOverview, error) {
	goals, err := s.storage.ListSavingGoals(ctx, userID)
	if err != nil {
		return SavingsOverview{}, fmt.Errorf("list saving goals: %w", err)
	}

	out := SavingsOverview{
		Summary: core.SummarizeGoals(goals),
		Goals:   make([]GoalWithProgress, 0, len(goals)),
	}
	for _, g := range goals {
		out.Goals = append(out.Goals, GoalWithProgress{
			Goal:     g,
			Progress: core.ProgressForGoal(g, now),
		})
	}
	return out, nil
}

// DebtOverview reports every debt with progress, the payable total
// per category, and the overall position. Debts and categories are
// fetched concurrently.
func (s *LedgerService) DebtOverview(ctx context.Context, userID int64) (DebtOverview, error) {
	var (
		debts      []core.Debt
		categories []core.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		debts, err = s.storage.ListDebts(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.storage.ListCategories(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return DebtOverview{}, fmt.Errorf("debt overview: %w", err)
	}

	out := DebtOverview{
		Summary:    core.SummarizeDebts(debts),
		ByCategory: core.OutstandingByCategory(debts, categories),
		Debts:      make([]DebtWithProgress, 0, len(debts)),
	}
	for _, d := range debts {
		out.Debts = append(out.Debts, DebtWithProgress{
			Debt:     d,
			Progress: core.ProgressForDebt(d),
		})
	}
	return out, nil
}
