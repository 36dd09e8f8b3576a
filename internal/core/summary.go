package core

import "time"

// OtherCategory is the catch-all bucket for debts whose category id
// matches no known category.
const OtherCategory = "Lain-lain"

type (
	// AccountSummary is the per-account balance view: totals grouped
	// by account name plus the most recent activity date.
	AccountSummary struct {
		Name         string
		Kind         AccountKind
		Income       Money
		Expense      Money
		Balance      Money
		LastActivity Date // zero when the account has no transactions
	}

	// DashboardSummary is the landing-page overview: all-time balance
	// and current-calendar-month flows with transfer legs excluded.
	DashboardSummary struct {
		TotalBalance Money
		MonthIncome  Money
		MonthExpense Money
	}

	// GoalProgress is the derived state of one saving goal.
	GoalProgress struct {
		Remaining           Money // may be negative when the target is exceeded
		Progress            float64
		MonthsRemaining     int
		MonthlyContribution Money
	}

	// SavingSummary aggregates all goals into one overall view.
	SavingSummary struct {
		TotalTarget     Money
		TotalSaved      Money
		TotalRemaining  Money
		OverallProgress float64
	}

	// DebtProgress is the derived state of one debt, status included.
	DebtProgress struct {
		Remaining Money
		Progress  float64
		Status    DebtStatus
	}

	// DebtSummary aggregates all debts: what is owed, what is owed to
	// the user, and the net position.
	DebtSummary struct {
		TotalPayable        Money
		TotalReceivable     Money
		PayablePaid         Money
		ReceivableCollected Money
		Net                 Money // receivable minus payable
	}

	// CategoryAmount is an amount keyed by category name.
	CategoryAmount struct {
		Name   string
		Amount Money
	}
)

// SummarizeAccounts groups transactions by account name and reports
// the per-account totals. Every known account appears in the result,
// accounts without transactions with zero totals. Transactions whose
// account name matches no known account are excluded without error.
func SummarizeAccounts(accounts []Account, txs []Transaction) []AccountSummary {
	summaries := make([]AccountSummary, len(accounts))
	index := make(map[string]int, len(accounts))
	for i, a := range accounts {
		summaries[i] = AccountSummary{Name: a.Name, Kind: a.Kind}
		index[a.Name] = i
	}

	for _, t := range txs {
		i, ok := index[t.Account]
		if !ok {
			continue
		}
		s := &summaries[i]
		switch t.Kind {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expense = s.Expense.Add(t.Amount)
		}
		if s.LastActivity.IsEmpty() || t.Date.After(s.LastActivity.Time) {
			s.LastActivity = t.Date
		}
	}

	for i := range summaries {
		summaries[i].Balance = summaries[i].Income.Sub(summaries[i].Expense)
	}
	return summaries
}

// SummarizeDashboard computes the all-time balance and the income and
// expense totals for the calendar month of now. Transfer legs are
// excluded from the monthly flows: moving money between accounts is
// not income or spending.
func SummarizeDashboard(txs []Transaction, now time.Time) DashboardSummary {
	var sum DashboardSummary
	for _, t := range txs {
		switch t.Kind {
		case Income:
			sum.TotalBalance = sum.TotalBalance.Add(t.Amount)
		case Expense:
			sum.TotalBalance = sum.TotalBalance.Sub(t.Amount)
		}
		if t.Origin == OriginTransfer || !t.Date.SameMonth(now) {
			continue
		}
		switch t.Kind {
		case Income:
			sum.MonthIncome = sum.MonthIncome.Add(t.Amount)
		case Expense:
			sum.MonthExpense = sum.MonthExpense.Add(t.Amount)
		}
	}
	return sum
}

// ProgressForGoal derives the remaining amount, clamped progress
// percentage, whole months until the target date, and the monthly
// contribution needed to reach the target.
//
// Remaining is reported unclamped: a negative value means the target
// was exceeded. When the target date has passed the whole remaining
// amount is due at once.
func ProgressForGoal(g SavingGoal, now time.Time) GoalProgress {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	months := monthsBetween(now, g.TargetDate.Time)

	var contribution Money
	switch {
	case months > 0:
		contribution = Money{Rupiah: remaining.Rupiah / int64(months)}
	case remaining.Rupiah > 0:
		contribution = remaining
	}

	return GoalProgress{
		Remaining:           remaining,
		Progress:            progressPercent(g.CurrentAmount, g.TargetAmount),
		MonthsRemaining:     months,
		MonthlyContribution: contribution,
	}
}

// SummarizeGoals rolls all goals into one overall progress view.
func SummarizeGoals(goals []SavingGoal) SavingSummary {
	var sum SavingSummary
	for _, g := range goals {
		sum.TotalTarget = sum.TotalTarget.Add(g.TargetAmount)
		sum.TotalSaved = sum.TotalSaved.Add(g.CurrentAmount)
	}
	sum.TotalRemaining = sum.TotalTarget.Sub(sum.TotalSaved)
	sum.OverallProgress = progressPercent(sum.TotalSaved, sum.TotalTarget)
	return sum
}

// StatusOf derives the debt status from paid vs total. Stored status
// is never trusted when the paid amount is available; this is the one
// rule, applied on every read and write. paid >= amount counts as
// paid even when both are zero.
func StatusOf(paid, amount Money) DebtStatus {
	switch {
	case paid.Rupiah >= amount.Rupiah:
		return StatusPaid
	case paid.Rupiah > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// ProgressForDebt derives remaining, clamped progress percentage, and
// the recomputed status for one debt.
func ProgressForDebt(d Debt) DebtProgress {
	return DebtProgress{
		Remaining: d.Amount.Sub(d.AmountPaid),
		Progress:  progressPercent(d.AmountPaid, d.Amount),
		Status:    StatusOf(d.AmountPaid, d.Amount),
	}
}

// SummarizeDebts totals payables and receivables separately and
// reports the net position.
func SummarizeDebts(debts []Debt) DebtSummary {
	var sum DebtSummary
	for _, d := range debts {
		switch d.Kind {
		case DebtPayable:
			sum.TotalPayable = sum.TotalPayable.Add(d.Amount)
			sum.PayablePaid = sum.PayablePaid.Add(d.AmountPaid)
		case DebtReceivable:
			sum.TotalReceivable = sum.TotalReceivable.Add(d.Amount)
			sum.ReceivableCollected = sum.ReceivableCollected.Add(d.AmountPaid)
		}
	}
	sum.Net = sum.TotalReceivable.Sub(sum.TotalPayable)
	return sum
}

// OutstandingByCategory sums the outstanding amount of payable debts
// per category name. Debts whose category id matches no known
// category land in the OtherCategory bucket. Result order follows
// first appearance in the input.
func OutstandingByCategory(debts []Debt, categories []Category) []CategoryAmount {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	var out []CategoryAmount
	index := make(map[string]int)
	for _, d := range debts {
		if d.Kind != DebtPayable {
			continue
		}
		name, ok := names[d.CategoryID]
		if !ok {
			name = OtherCategory
		}
		outstanding := d.Amount.Sub(d.AmountPaid)
		if i, seen := index[name]; seen {
			out[i].Amount = out[i].Amount.Add(outstanding)
			continue
		}
		index[name] = len(out)
		out = append(out, CategoryAmount{Name: name, Amount: outstanding})
	}
	return out
}

// progressPercent returns saved/target as a percentage clamped to
// [0, 100]. A target of zero or less short-circuits to 0 so no
// division by zero is possible.
func progressPercent(saved, target Money) float64 {
	if target.Rupiah <= 0 {
		return 0
	}
	p := float64(saved.Rupiah) / float64(target.Rupiah) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// monthsBetween counts whole calendar months from now until target,
// zero when the target has passed.
func monthsBetween(now, target time.Time) int {
	if !target.After(now) {
		return 0
	}
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if target.Day() < now.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
