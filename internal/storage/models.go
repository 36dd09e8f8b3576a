package storage

import "database/sql"

// Row types mirroring the schema. Dates travel as TEXT in ISO form
// (YYYY-MM-DD), amounts as whole rupiah.

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    sql.NullTime
}

type Account struct {
	ID     int64
	UserID int64
	Name   string
	Kind   string
}

type Category struct {
	ID     int64
	UserID int64
	Name   string
	Kind   string
}

type Transaction struct {
	ID            int64
	UserID        int64
	Date          string
	Kind          string
	Origin        string
	Category      string
	AmountRupiah  int64
	Description   string
	Account       string
	GoalID        sql.NullInt64
	TransferGroup sql.NullString
	SyncState     string
	CreatedAt     sql.NullTime
}

type SavingGoal struct {
	ID            int64
	UserID        int64
	Name          string
	TargetDate    string
	TargetAmount  int64
	CurrentAmount int64
}

type Debt struct {
	ID           int64
	UserID       int64
	Kind         string
	CategoryID   sql.NullInt64
	Counterparty string
	Description  string
	Amount       int64
	AmountPaid   int64
	Status       string
	DueDate      sql.NullString
}
