package http

import (
	"fmt"
	"time"

	"kasku/internal/core"
	"kasku/internal/services"
)

// Request payloads. Amounts arrive as strings so clients can send
// "12500,5" the way people type them; core.ParseAmount normalizes.
type (
	accountRequest struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}

	categoryRequest struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}

	transactionRequest struct {
		Date        string `json:"date"`
		Kind        string `json:"kind"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Account     string `json:"account"`
		GoalID      int64  `json:"goal_id"`
	}

	transferRequest struct {
		Date        string `json:"date"`
		FromAccount string `json:"from_account"`
		ToAccount   string `json:"to_account"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}

	resetRequest struct {
		Password string `json:"password"`
	}

	goalRequest struct {
		Name          string `json:"name"`
		TargetDate    string `json:"target_date"`
		TargetAmount  string `json:"target_amount"`
		CurrentAmount string `json:"current_amount"`
	}

	debtRequest struct {
		Kind         string `json:"kind"`
		CategoryID   int64  `json:"category_id"`
		Counterparty string `json:"counterparty"`
		Description  string `json:"description"`
		Amount       string `json:"amount"`
		AmountPaid   string `json:"amount_paid"`
		DueDate      string `json:"due_date"`
	}

	debtPaymentRequest struct {
		Amount string `json:"amount"`
	}

	credentialsRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
)

// Response payloads carry both the raw rupiah value and the formatted
// string so clients need no money formatting of their own.
type (
	moneyJSON struct {
		Rupiah    int64  `json:"rupiah"`
		Formatted string `json:"formatted"`
	}

	accountJSON struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Kind string `json:"kind"`
	}

	categoryJSON struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Kind string `json:"kind"`
	}

	transactionJSON struct {
		ID          int64     `json:"id"`
		Date        string    `json:"date"`
		Kind        string    `json:"kind"`
		Origin      string    `json:"origin"`
		Category    string    `json:"category"`
		Amount      moneyJSON `json:"amount"`
		Description string    `json:"description,omitempty"`
		Account     string    `json:"account"`
		GoalID      int64     `json:"goal_id,omitempty"`
	}

	goalJSON struct {
		ID                  int64     `json:"id"`
		Name                string    `json:"name"`
		TargetDate          string    `json:"target_date"`
		TargetAmount        moneyJSON `json:"target_amount"`
		CurrentAmount       moneyJSON `json:"current_amount"`
		Remaining           moneyJSON `json:"remaining"`
		Progress            float64   `json:"progress"`
		MonthsRemaining     int       `json:"months_remaining"`
		MonthlyContribution moneyJSON `json:"monthly_contribution"`
	}

	debtJSON struct {
		ID           int64     `json:"id"`
		Kind         string    `json:"kind"`
		CategoryID   int64     `json:"category_id,omitempty"`
		Counterparty string    `json:"counterparty"`
		Description  string    `json:"description,omitempty"`
		Amount       moneyJSON `json:"amount"`
		AmountPaid   moneyJSON `json:"amount_paid"`
		Remaining    moneyJSON `json:"remaining"`
		Progress     float64   `json:"progress"`
		Status       string    `json:"status"`
		DueDate      string    `json:"due_date,omitempty"`
	}

	accountSummaryJSON struct {
		Name         string    `json:"name"`
		Kind         string    `json:"kind"`
		Income       moneyJSON `json:"income"`
		Expense      moneyJSON `json:"expense"`
		Balance      moneyJSON `json:"balance"`
		LastActivity string    `json:"last_activity,omitempty"`
	}

	dashboardJSON struct {
		TotalBalance moneyJSON `json:"total_balance"`
		MonthIncome  moneyJSON `json:"month_income"`
		MonthExpense moneyJSON `json:"month_expense"`
	}

	savingsOverviewJSON struct {
		TotalTarget     moneyJSON  `json:"total_target"`
		TotalSaved      moneyJSON  `json:"total_saved"`
		TotalRemaining  moneyJSON  `json:"total_remaining"`
		OverallProgress float64    `json:"overall_progress"`
		Goals           []goalJSON `json:"goals"`
	}

	categoryAmountJSON struct {
		Name   string    `json:"name"`
		Amount moneyJSON `json:"amount"`
	}

	debtOverviewJSON struct {
		TotalPayable        moneyJSON            `json:"total_payable"`
		TotalReceivable     moneyJSON            `json:"total_receivable"`
		PayablePaid         moneyJSON            `json:"payable_paid"`
		ReceivableCollected moneyJSON            `json:"receivable_collected"`
		Net                 moneyJSON            `json:"net"`
		ByCategory          []categoryAmountJSON `json:"by_category"`
		Debts               []debtJSON           `json:"debts"`
	}

	tokenResponse struct {
		Token string `json:"token"`
	}

	resetResponse struct {
		Deleted int64 `json:"deleted"`
	}
)

const dateLayout = "2006-01-02"

func toMoneyJSON(m core.Money) moneyJSON {
	return moneyJSON{Rupiah: m.Rupiah, Formatted: core.FormatRupiah(m)}
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Date:        t.Date.Format(dateLayout),
		Kind:        string(t.Kind),
		Origin:      string(t.Origin),
		Category:    t.Category,
		Amount:      toMoneyJSON(t.Amount),
		Description: t.Description,
		Account:     t.Account,
		GoalID:      t.GoalID,
	}
}

func toGoalJSON(g core.SavingGoal, p core.GoalProgress) goalJSON {
	return goalJSON{
		ID:                  g.ID,
		Name:                g.Name,
		TargetDate:          g.TargetDate.Format(dateLayout),
		TargetAmount:        toMoneyJSON(g.TargetAmount),
		CurrentAmount:       toMoneyJSON(g.CurrentAmount),
		Remaining:           toMoneyJSON(p.Remaining),
		Progress:            p.Progress,
		MonthsRemaining:     p.MonthsRemaining,
		MonthlyContribution: toMoneyJSON(p.MonthlyContribution),
	}
}

func toDebtJSON(d core.Debt, p core.DebtProgress) debtJSON {
	out := debtJSON{
		ID:           d.ID,
		Kind:         string(d.Kind),
		CategoryID:   d.CategoryID,
		Counterparty: d.Counterparty,
		Description:  d.Description,
		Amount:       toMoneyJSON(d.Amount),
		AmountPaid:   toMoneyJSON(d.AmountPaid),
		Remaining:    toMoneyJSON(p.Remaining),
		Progress:     p.Progress,
		Status:       string(p.Status),
	}
	if !d.DueDate.IsEmpty() {
		out.DueDate = d.DueDate.Format(dateLayout)
	}
	return out
}

func toAccountSummaryJSON(a core.AccountSummary) accountSummaryJSON {
	out := accountSummaryJSON{
		Name:    a.Name,
		Kind:    string(a.Kind),
		Income:  toMoneyJSON(a.Income),
		Expense: toMoneyJSON(a.Expense),
		Balance: toMoneyJSON(a.Balance),
	}
	if !a.LastActivity.IsEmpty() {
		out.LastActivity = a.LastActivity.Format(dateLayout)
	}
	return out
}

func toDashboardJSON(d core.DashboardSummary) dashboardJSON {
	return dashboardJSON{
		TotalBalance: toMoneyJSON(d.TotalBalance),
		MonthIncome:  toMoneyJSON(d.MonthIncome),
		MonthExpense: toMoneyJSON(d.MonthExpense),
	}
}

func toSavingsOverviewJSON(ov services.SavingsOverview) savingsOverviewJSON {
	out := savingsOverviewJSON{
		TotalTarget:     toMoneyJSON(ov.Summary.TotalTarget),
		TotalSaved:      toMoneyJSON(ov.Summary.TotalSaved),
		TotalRemaining:  toMoneyJSON(ov.Summary.TotalRemaining),
		OverallProgress: ov.Summary.OverallProgress,
		Goals:           make([]goalJSON, 0, len(ov.Goals)),
	}
	for _, g := range ov.Goals {
		out.Goals = append(out.Goals, toGoalJSON(g.Goal, g.Progress))
	}
	return out
}

func toDebtOverviewJSON(ov services.DebtOverview) debtOverviewJSON {
	out := debtOverviewJSON{
		TotalPayable:        toMoneyJSON(ov.Summary.TotalPayable),
		TotalReceivable:     toMoneyJSON(ov.Summary.TotalReceivable),
		PayablePaid:         toMoneyJSON(ov.Summary.PayablePaid),
		ReceivableCollected: toMoneyJSON(ov.Summary.ReceivableCollected),
		Net:                 toMoneyJSON(ov.Summary.Net),
		ByCategory:          make([]categoryAmountJSON, 0, len(ov.ByCategory)),
		Debts:               make([]debtJSON, 0, len(ov.Debts)),
	}
	for _, c := range ov.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryAmountJSON{Name: c.Name, Amount: toMoneyJSON(c.Amount)})
	}
	for _, d := range ov.Debts {
		out.Debts = append(out.Debts, toDebtJSON(d.Debt, d.Progress))
	}
	return out
}

// parseDate parses a YYYY-MM-DD date string.
func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %v", core.ErrInvalidDate, err)
	}
	return core.Date{Time: t}, nil
}

// parseOptionalDate returns the zero date for an empty string.
func parseOptionalDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return parseDate(s)
}

// parseAmount wraps core.ParseAmount into Money.
func parseAmount(s string) (core.Money, error) {
	v, err := core.ParseAmount(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Rupiah: v}, nil
}

// parseOptionalAmount treats an empty string and any numeric zero as
// zero, for fields like amount_paid where zero is meaningful.
func parseOptionalAmount(s string) (core.Money, error) {
	v, err := core.ParseOptionalAmount(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Rupiah: v}, nil
}
