package core

import (
	"testing"
	"time"
)

func date(y, m, d int) Date { return NewDate(y, m, d) }

func TestSummarizeAccounts(t *testing.T) {
	accounts := []Account{
		{ID: 1, Name: "BCA", Kind: AccountBank},
		{ID: 2, Name: "GoPay", Kind: AccountEWallet},
	}
	txs := []Transaction{
		{Date: date(2025, 3, 1), Kind: Income, Origin: OriginDirect, Category: "Gaji", Amount: Money{100000}, Account: "BCA"},
		{Date: date(2025, 3, 5), Kind: Expense, Origin: OriginDirect, Category: "Belanja", Amount: Money{30000}, Account: "BCA"},
		{Date: date(2025, 2, 1), Kind: Income, Origin: OriginDirect, Category: "Bonus", Amount: Money{5000}, Account: "Hilang"}, // unknown account
	}

	got := SummarizeAccounts(accounts, txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	bca := got[0]
	if bca.Income.Rupiah != 100000 || bca.Expense.Rupiah != 30000 || bca.Balance.Rupiah != 70000 {
		t.Fatalf("BCA summary wrong: %+v", bca)
	}
	if !bca.LastActivity.Equal(date(2025, 3, 5).Time) {
		t.Fatalf("BCA last activity = %v", bca.LastActivity)
	}

	// Account with no transactions reports zeros, not omitted.
	gopay := got[1]
	if gopay.Income.Rupiah != 0 || gopay.Expense.Rupiah != 0 || gopay.Balance.Rupiah != 0 {
		t.Fatalf("GoPay summary should be zero: %+v", gopay)
	}
	if !gopay.LastActivity.IsEmpty() {
		t.Fatalf("GoPay should have no activity")
	}
}

// The sum of per-account balances must equal income minus expense over
// the same transactions when every account name is known.
func TestAccountBalancesSumMatchesDirectTotal(t *testing.T) {
	accounts := []Account{
		{Name: "BCA", Kind: AccountBank},
		{Name: "Mandiri", Kind: AccountBank},
		{Name: "Tunai", Kind: AccountCash},
	}
	txs := []Transaction{
		{Date: date(2025, 1, 1), Kind: Income, Amount: Money{250000}, Account: "BCA"},
		{Date: date(2025, 1, 2), Kind: Expense, Amount: Money{80000}, Account: "BCA"},
		{Date: date(2025, 1, 3), Kind: Income, Amount: Money{120000}, Account: "Mandiri"},
		{Date: date(2025, 1, 4), Kind: Expense, Amount: Money{50000}, Account: "Tunai"},
		{Date: date(2025, 1, 5), Kind: Expense, Amount: Money{10000}, Account: "Mandiri"},
	}

	var direct int64
	for _, tx := range txs {
		if tx.Kind == Income {
			direct += tx.Amount.Rupiah
		} else {
			direct -= tx.Amount.Rupiah
		}
	}

	var fromSummaries int64
	for _, s := range SummarizeAccounts(accounts, txs) {
		fromSummaries += s.Balance.Rupiah
	}

	if direct != fromSummaries {
		t.Fatalf("balances sum %d != direct total %d", fromSummaries, direct)
	}
}

func TestSummarizeDashboard(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Date: date(2025, 6, 1), Kind: Income, Origin: OriginDirect, Amount: Money{1000000}, Account: "BCA"},
		{Date: date(2025, 6, 10), Kind: Expense, Origin: OriginDirect, Amount: Money{200000}, Account: "BCA"},
		// Transfer legs in the current month: kept in the balance,
		// excluded from monthly flows.
		{Date: date(2025, 6, 12), Kind: Expense, Origin: OriginTransfer, Category: TransferOutCategory, Amount: Money{500000}, Account: "BCA"},
		{Date: date(2025, 6, 12), Kind: Income, Origin: OriginTransfer, Category: TransferInCategory, Amount: Money{500000}, Account: "GoPay"},
		// Previous month is outside the window.
		{Date: date(2025, 5, 30), Kind: Expense, Origin: OriginDirect, Amount: Money{70000}, Account: "BCA"},
	}

	sum := SummarizeDashboard(txs, now)
	if sum.TotalBalance.Rupiah != 1000000-200000-70000 {
		t.Fatalf("total balance = %d", sum.TotalBalance.Rupiah)
	}
	if sum.MonthIncome.Rupiah != 1000000 {
		t.Fatalf("month income = %d", sum.MonthIncome.Rupiah)
	}
	if sum.MonthExpense.Rupiah != 200000 {
		t.Fatalf("month expense = %d", sum.MonthExpense.Rupiah)
	}
}

func TestSummarizeDashboardEmpty(t *testing.T) {
	sum := SummarizeDashboard(nil, time.Now())
	if sum.TotalBalance.Rupiah != 0 || sum.MonthIncome.Rupiah != 0 || sum.MonthExpense.Rupiah != 0 {
		t.Fatalf("empty input should produce zeros: %+v", sum)
	}
}

func TestProgressForGoal(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	// Five months out: 750000 remaining spread over 5 months.
	g := SavingGoal{
		Name:          "Liburan",
		TargetDate:    date(2025, 6, 10),
		TargetAmount:  Money{1000000},
		CurrentAmount: Money{250000},
	}
	p := ProgressForGoal(g, now)
	if p.Remaining.Rupiah != 750000 {
		t.Fatalf("remaining = %d", p.Remaining.Rupiah)
	}
	if p.Progress != 25 {
		t.Fatalf("progress = %f", p.Progress)
	}
	if p.MonthsRemaining != 5 {
		t.Fatalf("months remaining = %d", p.MonthsRemaining)
	}
	if p.MonthlyContribution.Rupiah != 150000 {
		t.Fatalf("monthly contribution = %d", p.MonthlyContribution.Rupiah)
	}
}

func TestProgressForGoalPastTarget(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	g := SavingGoal{
		TargetDate:    date(2025, 3, 1),
		TargetAmount:  Money{1000000},
		CurrentAmount: Money{250000},
	}
	p := ProgressForGoal(g, now)
	if p.MonthsRemaining != 0 {
		t.Fatalf("months remaining = %d", p.MonthsRemaining)
	}
	// Full remaining amount is due at once.
	if p.MonthlyContribution.Rupiah != 750000 {
		t.Fatalf("monthly contribution = %d", p.MonthlyContribution.Rupiah)
	}
}

func TestProgressForGoalExceeded(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	g := SavingGoal{
		TargetDate:    date(2025, 3, 1),
		TargetAmount:  Money{1000000},
		CurrentAmount: Money{1200000},
	}
	p := ProgressForGoal(g, now)
	// Negative remaining is reported as-is (target exceeded), progress
	// clamps at 100, and nothing remains to contribute.
	if p.Remaining.Rupiah != -200000 {
		t.Fatalf("remaining = %d", p.Remaining.Rupiah)
	}
	if p.Progress != 100 {
		t.Fatalf("progress = %f", p.Progress)
	}
	if p.MonthlyContribution.Rupiah != 0 {
		t.Fatalf("monthly contribution = %d", p.MonthlyContribution.Rupiah)
	}
}

func TestProgressForGoalZeroTarget(t *testing.T) {
	p := ProgressForGoal(SavingGoal{TargetDate: date(2030, 1, 1)}, time.Now())
	if p.Progress != 0 {
		t.Fatalf("zero target must give zero progress, got %f", p.Progress)
	}
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		now, target time.Time
		want        int
	}{
		{time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), 4},
		{time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 0}, // past
		{time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), 3},  // year boundary
	}
	for i, tc := range cases {
		if got := monthsBetween(tc.now, tc.target); got != tc.want {
			t.Fatalf("case %d: got %d, want %d", i, got, tc.want)
		}
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		paid, amount int64
		want         DebtStatus
	}{
		{0, 500000, StatusUnpaid},
		{100000, 500000, StatusPartial},
		{500000, 500000, StatusPaid},
		{600000, 500000, StatusPaid},
		// 0 >= 0 is true, so a zero-amount debt counts as paid.
		{0, 0, StatusPaid},
	}
	for i, tc := range cases {
		got := StatusOf(Money{tc.paid}, Money{tc.amount})
		if got != tc.want {
			t.Fatalf("case %d: got %s, want %s", i, got, tc.want)
		}
		// Re-evaluation on the same inputs must agree.
		if again := StatusOf(Money{tc.paid}, Money{tc.amount}); again != got {
			t.Fatalf("case %d: status not stable: %s then %s", i, got, again)
		}
	}
}

func TestProgressForDebt(t *testing.T) {
	p := ProgressForDebt(Debt{Kind: DebtPayable, Amount: Money{500000}, AmountPaid: Money{500000}})
	if p.Status != StatusPaid || p.Progress != 100 || p.Remaining.Rupiah != 0 {
		t.Fatalf("fully paid debt: %+v", p)
	}

	p = ProgressForDebt(Debt{Kind: DebtPayable, Amount: Money{500000}, AmountPaid: Money{125000}})
	if p.Status != StatusPartial || p.Progress != 25 || p.Remaining.Rupiah != 375000 {
		t.Fatalf("partial debt: %+v", p)
	}

	// Overpayment clamps at 100.
	p = ProgressForDebt(Debt{Kind: DebtPayable, Amount: Money{500000}, AmountPaid: Money{600000}})
	if p.Progress != 100 {
		t.Fatalf("overpaid progress = %f", p.Progress)
	}
}

func TestProgressForDebtZeroAmount(t *testing.T) {
	p := ProgressForDebt(Debt{Kind: DebtPayable})
	if p.Progress != 0 {
		t.Fatalf("zero amount must give zero progress, got %f", p.Progress)
	}
	if p.Status != StatusPaid {
		t.Fatalf("zero/zero debt status = %s, want %s", p.Status, StatusPaid)
	}
}

func TestSummarizeDebts(t *testing.T) {
	debts := []Debt{
		{Kind: DebtPayable, Amount: Money{1000000}, AmountPaid: Money{400000}},
		{Kind: DebtPayable, Amount: Money{500000}, AmountPaid: Money{0}},
		{Kind: DebtReceivable, Amount: Money{300000}, AmountPaid: Money{300000}},
	}
	sum := SummarizeDebts(debts)
	if sum.TotalPayable.Rupiah != 1500000 || sum.PayablePaid.Rupiah != 400000 {
		t.Fatalf("payable totals: %+v", sum)
	}
	if sum.TotalReceivable.Rupiah != 300000 || sum.ReceivableCollected.Rupiah != 300000 {
		t.Fatalf("receivable totals: %+v", sum)
	}
	if sum.Net.Rupiah != 300000-1500000 {
		t.Fatalf("net = %d", sum.Net.Rupiah)
	}
}

func TestOutstandingByCategory(t *testing.T) {
	categories := []Category{
		{ID: 1, Name: "KPR", Kind: CategoryDebt},
		{ID: 2, Name: "Kredit Kendaraan", Kind: CategoryDebt},
	}
	debts := []Debt{
		{Kind: DebtPayable, CategoryID: 1, Amount: Money{10000000}, AmountPaid: Money{2000000}},
		{Kind: DebtPayable, CategoryID: 1, Amount: Money{5000000}, AmountPaid: Money{5000000}},
		{Kind: DebtPayable, CategoryID: 99, Amount: Money{700000}, AmountPaid: Money{100000}}, // unknown category
		{Kind: DebtReceivable, CategoryID: 2, Amount: Money{400000}},                          // receivables excluded
	}

	got := OutstandingByCategory(debts, categories)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(got), got)
	}
	if got[0].Name != "KPR" || got[0].Amount.Rupiah != 8000000 {
		t.Fatalf("KPR bucket: %+v", got[0])
	}
	if got[1].Name != OtherCategory || got[1].Amount.Rupiah != 600000 {
		t.Fatalf("catch-all bucket: %+v", got[1])
	}
}

func TestSummarizeGoals(t *testing.T) {
	goals := []SavingGoal{
		{TargetAmount: Money{1000000}, CurrentAmount: Money{250000}},
		{TargetAmount: Money{3000000}, CurrentAmount: Money{750000}},
	}
	sum := SummarizeGoals(goals)
	if sum.TotalTarget.Rupiah != 4000000 || sum.TotalSaved.Rupiah != 1000000 {
		t.Fatalf("totals: %+v", sum)
	}
	if sum.TotalRemaining.Rupiah != 3000000 {
		t.Fatalf("remaining = %d", sum.TotalRemaining.Rupiah)
	}
	if sum.OverallProgress != 25 {
		t.Fatalf("overall progress = %f", sum.OverallProgress)
	}
	if empty := SummarizeGoals(nil); empty.OverallProgress != 0 {
		t.Fatalf("empty goals must give zero progress")
	}
}
