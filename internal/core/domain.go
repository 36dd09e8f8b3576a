package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Account kinds.
	AccountBank    AccountKind = "bank"
	AccountEWallet AccountKind = "ewallet"
	AccountCash    AccountKind = "cash"

	// Category kinds.
	CategoryIncome     CategoryKind = "income"
	CategoryExpense    CategoryKind = "expense"
	CategoryBill       CategoryKind = "bill"
	CategorySaving     CategoryKind = "saving"
	CategoryInvestment CategoryKind = "investment"
	CategoryDebt       CategoryKind = "debt"
	CategoryReceivable CategoryKind = "receivable"

	// Transaction kinds.
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"

	// Transaction origins. A transfer is stored as a paired
	// income+expense, each leg tagged OriginTransfer so that transfer
	// detection never depends on category names.
	OriginDirect   TransactionOrigin = "direct"
	OriginTransfer TransactionOrigin = "transfer"

	// Debt kinds.
	DebtPayable    DebtKind = "payable"
	DebtReceivable DebtKind = "receivable"

	// Debt statuses, always derived from amount paid vs amount.
	StatusUnpaid  DebtStatus = "unpaid"
	StatusPartial DebtStatus = "partial"
	StatusPaid    DebtStatus = "paid"
)

// Reserved category names written on transfer legs, kept for display
// parity with manually entered transactions.
const (
	TransferInCategory  = "Transfer Masuk"
	TransferOutCategory = "Transfer Keluar"
)

type (
	AccountKind       string
	CategoryKind      string
	TransactionKind   string
	TransactionOrigin string
	DebtKind          string
	DebtStatus        string

	// Date is a calendar day; the time-of-day component is always
	// midnight UTC.
	Date struct {
		time.Time
	}

	// Money is a whole-rupiah amount. IDR carries no minor unit in
	// everyday use, so no cents field is kept.
	Money struct {
		Rupiah int64
	}

	Account struct {
		ID   int64
		Name string
		Kind AccountKind
	}

	Category struct {
		ID   int64
		Name string
		Kind CategoryKind
	}

	Transaction struct {
		ID          int64
		Date        Date
		Kind        TransactionKind
		Origin      TransactionOrigin
		Category    string
		Amount      Money
		Description string // optional
		Account     string // joined against Account.Name at read time
		GoalID      int64  // optional saving-goal reference, 0 = none
	}

	SavingGoal struct {
		ID            int64
		Name          string
		TargetDate    Date
		TargetAmount  Money
		CurrentAmount Money
	}

	Debt struct {
		ID           int64
		Kind         DebtKind
		CategoryID   int64
		Counterparty string
		Description  string // optional
		Amount       Money
		AmountPaid   Money
		DueDate      Date // optional, zero when absent
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyAccount      = errors.New("empty account")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrSameAccount       = errors.New("transfer needs two distinct accounts")
	ErrInvalidTarget     = errors.New("invalid target amount")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrEmptyCounterparty = errors.New("empty counterparty")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is absent (optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// SameMonth reports whether d falls within the calendar month of t.
func (d Date) SameMonth(t time.Time) bool {
	return d.Year() == t.Year() && d.Month() == t.Month()
}

func (k AccountKind) Valid() bool {
	switch k {
	case AccountBank, AccountEWallet, AccountCash:
		return true
	}
	return false
}

func (k CategoryKind) Valid() bool {
	switch k {
	case CategoryIncome, CategoryExpense, CategoryBill, CategorySaving,
		CategoryInvestment, CategoryDebt, CategoryReceivable:
		return true
	}
	return false
}

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (o TransactionOrigin) Valid() bool {
	return o == OriginDirect || o == OriginTransfer
}

func (k DebtKind) Valid() bool {
	return k == DebtPayable || k == DebtReceivable
}

func (m Money) Validate() error {
	if m.Rupiah <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Rupiah: m.Rupiah + o.Rupiah}
}

func (m Money) Sub(o Money) Money {
	return Money{Rupiah: m.Rupiah - o.Rupiah}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Origin.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Account) == "" {
		return ErrEmptyAccount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (g SavingGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetDate.Validate(); err != nil {
		return err
	}
	if g.TargetAmount.Rupiah <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.Rupiah < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if !d.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(d.Counterparty) == "" {
		return ErrEmptyCounterparty
	}
	if d.Amount.Rupiah <= 0 {
		return ErrInvalidAmount
	}
	if d.AmountPaid.Rupiah < 0 {
		return ErrNegativeAmount
	}
	return nil
}
