package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kasku/internal/core"
	"kasku/internal/storage"
)

type fakeVerifier struct {
	password string
}

func (f *fakeVerifier) VerifyPassword(ctx context.Context, userID int64, password string) error {
	if password != f.password {
		return errors.New("invalid credentials")
	}
	return nil
}

func newTestService(t *testing.T) (*LedgerService, int64) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	userID, err := repo.CreateUser(context.Background(), "budi", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	return NewLedgerService(repo, nil, &fakeVerifier{password: "rahasia123"}), userID
}

func seedAccounts(t *testing.T, s *LedgerService, userID int64, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := s.CreateAccount(context.Background(), userID, core.Account{Name: name, Kind: core.AccountBank}); err != nil {
			t.Fatalf("CreateAccount %s: %v", name, err)
		}
	}
}

func TestCreateTransactionForcesDirectOrigin(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()

	created, err := s.CreateTransaction(ctx, userID, core.Transaction{
		Date:     core.NewDate(2025, 4, 10),
		Kind:     core.Expense,
		Origin:   core.OriginTransfer, // callers cannot forge transfer legs
		Category: "Belanja",
		Amount:   core.Money{Rupiah: 45000},
		Account:  "BCA",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.Origin != core.OriginDirect {
		t.Fatalf("origin = %q, want %q", created.Origin, core.OriginDirect)
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	s, userID := newTestService(t)

	_, err := s.CreateTransaction(context.Background(), userID, core.Transaction{
		Date:    core.NewDate(2025, 4, 10),
		Kind:    core.Expense,
		Amount:  core.Money{Rupiah: 45000},
		Account: "BCA",
	})
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("err = %v, want ErrEmptyCategory", err)
	}
}

func TestTransfer(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()

	out, in, err := s.Transfer(ctx, userID, TransferInput{
		Date:        core.NewDate(2025, 4, 1),
		FromAccount: "BCA",
		ToAccount:   "GoPay",
		Amount:      core.Money{Rupiah: 200000},
		Description: "Top up",
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	if out.Kind != core.Expense || out.Account != "BCA" || out.Category != core.TransferOutCategory {
		t.Errorf("unexpected out leg: %+v", out)
	}
	if in.Kind != core.Income || in.Account != "GoPay" || in.Category != core.TransferInCategory {
		t.Errorf("unexpected in leg: %+v", in)
	}
	if out.Origin != core.OriginTransfer || in.Origin != core.OriginTransfer {
		t.Error("both legs must carry the transfer origin")
	}

	txs, err := s.ListTransactions(ctx, userID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("stored %d transactions, want 2", len(txs))
	}
}

func TestTransferSameAccount(t *testing.T) {
	s, userID := newTestService(t)

	_, _, err := s.Transfer(context.Background(), userID, TransferInput{
		Date:        core.NewDate(2025, 4, 1),
		FromAccount: "BCA",
		ToAccount:   "BCA",
		Amount:      core.Money{Rupiah: 200000},
	})
	if !errors.Is(err, core.ErrSameAccount) {
		t.Fatalf("err = %v, want ErrSameAccount", err)
	}
}

func TestUpdateTransferLegRejected(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()

	out, _, err := s.Transfer(ctx, userID, TransferInput{
		Date:        core.NewDate(2025, 4, 1),
		FromAccount: "BCA",
		ToAccount:   "GoPay",
		Amount:      core.Money{Rupiah: 200000},
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	out.Amount = core.Money{Rupiah: 999}
	if err := s.UpdateTransaction(ctx, userID, out); !errors.Is(err, ErrTransferLeg) {
		t.Fatalf("err = %v, want ErrTransferLeg", err)
	}
}

func TestDeleteTransferLegRemovesPair(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()

	out, _, err := s.Transfer(ctx, userID, TransferInput{
		Date:        core.NewDate(2025, 4, 1),
		FromAccount: "BCA",
		ToAccount:   "GoPay",
		Amount:      core.Money{Rupiah: 200000},
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	if err := s.DeleteTransaction(ctx, userID, out.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}

	txs, err := s.ListTransactions(ctx, userID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("%d transactions remain, want 0", len(txs))
	}
}

func TestResetTransactions(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.CreateTransaction(ctx, userID, core.Transaction{
			Date:     core.NewDate(2025, 4, 10),
			Kind:     core.Expense,
			Category: "Belanja",
			Amount:   core.Money{Rupiah: 10000},
			Account:  "BCA",
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	if _, err := s.ResetTransactions(ctx, userID, "salah"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}

	count, err := s.ResetTransactions(ctx, userID, "rahasia123")
	if err != nil {
		t.Fatalf("ResetTransactions: %v", err)
	}
	if count != 3 {
		t.Fatalf("deleted %d, want 3", count)
	}
}

func TestRecordDebtPayment(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()

	d, err := s.CreateDebt(ctx, userID, core.Debt{
		Kind:         core.DebtPayable,
		Counterparty: "Bank Mandiri",
		Amount:       core.Money{Rupiah: 1000000},
	})
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	d, err = s.RecordDebtPayment(ctx, userID, d.ID, core.Money{Rupiah: 400000})
	if err != nil {
		t.Fatalf("RecordDebtPayment: %v", err)
	}
	if d.AmountPaid.Rupiah != 400000 {
		t.Fatalf("paid = %d, want 400000", d.AmountPaid.Rupiah)
	}

	d, err = s.RecordDebtPayment(ctx, userID, d.ID, core.Money{Rupiah: 600000})
	if err != nil {
		t.Fatalf("RecordDebtPayment: %v", err)
	}
	if got := core.StatusOf(d.AmountPaid, d.Amount); got != core.StatusPaid {
		t.Fatalf("status = %q, want paid", got)
	}
}

func TestInvalidationHookFires(t *testing.T) {
	s, userID := newTestService(t)
	var fired int64
	s.OnMutation(func(uid int64) { fired = uid })

	if _, err := s.CreateTransaction(context.Background(), userID, core.Transaction{
		Date:     core.NewDate(2025, 4, 10),
		Kind:     core.Income,
		Category: "Gaji",
		Amount:   core.Money{Rupiah: 5000000},
		Account:  "BCA",
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if fired != userID {
		t.Fatalf("hook fired with %d, want %d", fired, userID)
	}
}

func TestSummaries(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	seedAccounts(t, s, userID, "BCA", "GoPay")

	if _, err := s.CreateTransaction(ctx, userID, core.Transaction{
		Date:     core.NewDate(2025, 4, 1),
		Kind:     core.Income,
		Category: "Gaji",
		Amount:   core.Money{Rupiah: 5000000},
		Account:  "BCA",
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, userID, core.Transaction{
		Date:     core.NewDate(2025, 4, 5),
		Kind:     core.Expense,
		Category: "Belanja",
		Amount:   core.Money{Rupiah: 1500000},
		Account:  "BCA",
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if _, _, err := s.Transfer(ctx, userID, TransferInput{
		Date:        core.NewDate(2025, 4, 10),
		FromAccount: "BCA",
		ToAccount:   "GoPay",
		Amount:      core.Money{Rupiah: 500000},
	}); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	dash, err := s.DashboardSummary(ctx, userID, now)
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}
	if dash.TotalBalance.Rupiah != 3500000 {
		t.Errorf("total balance = %d, want 3500000", dash.TotalBalance.Rupiah)
	}
	// Transfer legs stay out of the monthly flows.
	if dash.MonthIncome.Rupiah != 5000000 || dash.MonthExpense.Rupiah != 1500000 {
		t.Errorf("month flows = %d/%d, want 5000000/1500000",
			dash.MonthIncome.Rupiah, dash.MonthExpense.Rupiah)
	}

	sums, err := s.AccountSummaries(ctx, userID)
	if err != nil {
		t.Fatalf("AccountSummaries: %v", err)
	}
	byName := map[string]core.AccountSummary{}
	for _, a := range sums {
		byName[a.Name] = a
	}
	if byName["BCA"].Balance.Rupiah != 3000000 {
		t.Errorf("BCA balance = %d, want 3000000", byName["BCA"].Balance.Rupiah)
	}
	if byName["GoPay"].Balance.Rupiah != 500000 {
		t.Errorf("GoPay balance = %d, want 500000", byName["GoPay"].Balance.Rupiah)
	}
}

func TestDebtOverview(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, userID, core.Category{Name: "KPR", Kind: core.CategoryDebt})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if _, err := s.CreateDebt(ctx, userID, core.Debt{
		Kind:         core.DebtPayable,
		CategoryID:   cat.ID,
		Counterparty: "Bank BTN",
		Amount:       core.Money{Rupiah: 10000000},
		AmountPaid:   core.Money{Rupiah: 2000000},
	}); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}
	if _, err := s.CreateDebt(ctx, userID, core.Debt{
		Kind:         core.DebtReceivable,
		Counterparty: "Andi",
		Amount:       core.Money{Rupiah: 300000},
	}); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	ov, err := s.DebtOverview(ctx, userID)
	if err != nil {
		t.Fatalf("DebtOverview: %v", err)
	}
	if ov.Summary.TotalPayable.Rupiah != 10000000 {
		t.Errorf("total payable = %d, want 10000000", ov.Summary.TotalPayable.Rupiah)
	}
	if ov.Summary.TotalReceivable.Rupiah != 300000 {
		t.Errorf("total receivable = %d, want 300000", ov.Summary.TotalReceivable.Rupiah)
	}
	if len(ov.ByCategory) != 1 || ov.ByCategory[0].Name != "KPR" || ov.ByCategory[0].Amount.Rupiah != 8000000 {
		t.Errorf("unexpected by-category: %+v", ov.ByCategory)
	}
	if len(ov.Debts) != 2 {
		t.Fatalf("%d debts, want 2", len(ov.Debts))
	}
}

func TestSavingsOverview(t *testing.T) {
	s, userID := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	if _, err := s.CreateSavingGoal(ctx, userID, core.SavingGoal{
		Name:          "Dana darurat",
		TargetDate:    core.NewDate(2025, 6, 10),
		TargetAmount:  core.Money{Rupiah: 1000000},
		CurrentAmount: core.Money{Rupiah: 250000},
	}); err != nil {
		t.Fatalf("CreateSavingGoal: %v", err)
	}

	ov, err := s.SavingsOverview(ctx, userID, now)
	if err != nil {
		t.Fatalf("SavingsOverview: %v", err)
	}
	if ov.Summary.OverallProgress != 25 {
		t.Errorf("overall progress = %v, want 25", ov.Summary.OverallProgress)
	}
	if len(ov.Goals) != 1 {
		t.Fatalf("%d goals, want 1", len(ov.Goals))
	}
	p := ov.Goals[0].Progress
	if p.Remaining.Rupiah != 750000 || p.MonthsRemaining != 5 || p.MonthlyContribution.Rupiah != 150000 {
		t.Errorf("unexpected progress: %+v", p)
	}
}
