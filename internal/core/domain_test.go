package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:     date(2025, 3, 1),
		Kind:     Expense,
		Origin:   OriginDirect,
		Category: "Belanja",
		Amount:   Money{30000},
		Account:  "BCA",
	}

	cases := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(tx *Transaction) {}, nil},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"bad kind", func(tx *Transaction) { tx.Kind = "refund" }, ErrInvalidKind},
		{"bad origin", func(tx *Transaction) { tx.Origin = "" }, ErrInvalidKind},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{-500} }, ErrInvalidAmount},
		{"empty account", func(tx *Transaction) { tx.Account = "" }, ErrEmptyAccount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.mutate(&tx)
			err := tx.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTransactionValidateLongDescription(t *testing.T) {
	tx := Transaction{
		Date:     date(2025, 3, 1),
		Kind:     Expense,
		Origin:   OriginDirect,
		Category: "Belanja",
		Amount:   Money{30000},
		Account:  "BCA",
	}
	for i := 0; i <= 200; i++ {
		tx.Description += "x"
	}
	if err := tx.Validate(); err == nil {
		t.Fatal("expected error for description over 200 characters")
	}
}

func TestAccountValidate(t *testing.T) {
	if err := (Account{Name: "BCA", Kind: AccountBank}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Account{Name: " ", Kind: AccountBank}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("got %v, want %v", err, ErrEmptyName)
	}
	if err := (Account{Name: "BCA", Kind: "crypto"}).Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("got %v, want %v", err, ErrInvalidKind)
	}
}

func TestCategoryValidate(t *testing.T) {
	for _, k := range []CategoryKind{
		CategoryIncome, CategoryExpense, CategoryBill, CategorySaving,
		CategoryInvestment, CategoryDebt, CategoryReceivable,
	} {
		if err := (Category{Name: "Test", Kind: k}).Validate(); err != nil {
			t.Fatalf("kind %s: unexpected error %v", k, err)
		}
	}
	if err := (Category{Name: "Test", Kind: "misc"}).Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("got %v, want %v", err, ErrInvalidKind)
	}
}

func TestSavingGoalValidate(t *testing.T) {
	valid := SavingGoal{
		Name:          "Dana Darurat",
		TargetDate:    date(2026, 1, 1),
		TargetAmount:  Money{10000000},
		CurrentAmount: Money{0},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := valid
	g.TargetAmount = Money{0}
	if err := g.Validate(); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("got %v, want %v", err, ErrInvalidTarget)
	}

	g = valid
	g.CurrentAmount = Money{-1}
	if err := g.Validate(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("got %v, want %v", err, ErrNegativeAmount)
	}
}

func TestDebtValidate(t *testing.T) {
	valid := Debt{
		Kind:         DebtPayable,
		Counterparty: "Budi",
		Amount:       Money{500000},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := valid
	d.Counterparty = ""
	if err := d.Validate(); !errors.Is(err, ErrEmptyCounterparty) {
		t.Fatalf("got %v, want %v", err, ErrEmptyCounterparty)
	}

	d = valid
	d.Kind = "loan"
	if err := d.Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("got %v, want %v", err, ErrInvalidKind)
	}

	// Due date is optional; zero value passes.
	d = valid
	d.DueDate = Date{}
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDateSameMonth(t *testing.T) {
	d := date(2025, 6, 1)
	if !d.SameMonth(date(2025, 6, 30).Time) {
		t.Fatal("same month should match")
	}
	if d.SameMonth(date(2025, 7, 1).Time) {
		t.Fatal("different month should not match")
	}
	if d.SameMonth(date(2024, 6, 1).Time) {
		t.Fatal("same month, different year should not match")
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(date(2025, 6, 15).Add(13 * 60 * 1e9))
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Fatalf("DateOf should truncate to midnight, got %v", d.Time)
	}
}
