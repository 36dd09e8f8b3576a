package storage

import (
	"context"
	"database/sql"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (username, password_hash)
VALUES (?, ?)
RETURNING id, username, password_hash, created_at
`

type CreateUserParams struct {
	Username     string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Username, arg.PasswordHash)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT id, username, password_hash, created_at
FROM users
WHERE username = ?
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByUsername, username)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUser = `-- name: GetUser :one
SELECT id, username, password_hash, created_at
FROM users
WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (user_id, name, kind)
VALUES (?, ?, ?)
RETURNING id, user_id, name, kind
`

type CreateAccountParams struct {
	UserID int64
	Name   string
	Kind   string
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, createAccount, arg.UserID, arg.Name, arg.Kind)
	var a Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind)
	return a, err
}

const getAccount = `-- name: GetAccount :one
SELECT id, user_id, name, kind
FROM accounts
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetAccount(ctx context.Context, id, userID int64) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccount, id, userID)
	var a Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind)
	return a, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, user_id, name, kind
FROM accounts
WHERE user_id = ?
ORDER BY name
`

func (q *Queries) ListAccounts(ctx context.Context, userID int64) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const updateAccount = `-- name: UpdateAccount :exec
UPDATE accounts
SET name = ?, kind = ?
WHERE id = ? AND user_id = ?
`

type UpdateAccountParams struct {
	Name   string
	Kind   string
	ID     int64
	UserID int64
}

func (q *Queries) UpdateAccount(ctx context.Context, arg UpdateAccountParams) error {
	_, err := q.db.ExecContext(ctx, updateAccount, arg.Name, arg.Kind, arg.ID, arg.UserID)
	return err
}

const deleteAccount = `-- name: DeleteAccount :exec
DELETE FROM accounts
WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteAccount(ctx context.Context, id, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteAccount, id, userID)
	return err
}

const countTransactionsByAccount = `-- name: CountTransactionsByAccount :one
SELECT COUNT(*)
FROM transactions
WHERE user_id = ? AND account = ?
`

func (q *Queries) CountTransactionsByAccount(ctx context.Context, userID int64, account string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactionsByAccount, userID, account)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const renameTransactionAccount = `-- name: RenameTransactionAccount :exec
UPDATE transactions
SET account = ?
WHERE user_id = ? AND account = ?
`

func (q *Queries) RenameTransactionAccount(ctx context.Context, userID int64, newName, oldName string) error {
	_, err := q.db.ExecContext(ctx, renameTransactionAccount, newName, userID, oldName)
	return err
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (user_id, name, kind)
VALUES (?, ?, ?)
RETURNING id, user_id, name, kind
`

type CreateCategoryParams struct {
	UserID int64
	Name   string
	Kind   string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory, arg.UserID, arg.Name, arg.Kind)
	var c Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind)
	return c, err
}

const getCategory = `-- name: GetCategory :one
SELECT id, user_id, name, kind
FROM categories
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetCategory(ctx context.Context, id, userID int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategory, id, userID)
	var c Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind)
	return c, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, user_id, name, kind
FROM categories
WHERE user_id = ?
ORDER BY name
`

func (q *Queries) ListCategories(ctx context.Context, userID int64) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const updateCategory = `-- name: UpdateCategory :exec
UPDATE categories
SET name = ?, kind = ?
WHERE id = ? AND user_id = ?
`

type UpdateCategoryParams struct {
	Name   string
	Kind   string
	ID     int64
	UserID int64
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	_, err := q.db.ExecContext(ctx, updateCategory, arg.Name, arg.Kind, arg.ID, arg.UserID)
	return err
}

const deleteCategory = `-- name: DeleteCategory :exec
DELETE FROM categories
WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteCategory(ctx context.Context, id, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteCategory, id, userID)
	return err
}

const countTransactionsByCategory = `-- name: CountTransactionsByCategory :one
SELECT COUNT(*)
FROM transactions
WHERE user_id = ? AND category = ?
`

func (q *Queries) CountTransactionsByCategory(ctx context.Context, userID int64, category string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactionsByCategory, userID, category)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countDebtsByCategory = `-- name: CountDebtsByCategory :one
SELECT COUNT(*)
FROM debts
WHERE user_id = ? AND category_id = ?
`

func (q *Queries) CountDebtsByCategory(ctx context.Context, userID, categoryID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countDebtsByCategory, userID, categoryID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const renameTransactionCategory = `-- name: RenameTransactionCategory :exec
UPDATE transactions
SET category = ?
WHERE user_id = ? AND category = ?
`

func (q *Queries) RenameTransactionCategory(ctx context.Context, userID int64, newName, oldName string) error {
	_, err := q.db.ExecContext(ctx, renameTransactionCategory, newName, userID, oldName)
	return err
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (user_id, date, kind, origin, category, amount_rupiah, description, account, goal_id, transfer_group)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, user_id, date, kind, origin, category, amount_rupiah, description, account, goal_id, transfer_group, sync_state, created_at
`

type CreateTransactionParams struct {
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
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.UserID, arg.Date, arg.Kind, arg.Origin, arg.Category,
		arg.AmountRupiah, arg.Description, arg.Account, arg.GoalID, arg.TransferGroup)
	var t Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &t.Kind, &t.Origin, &t.Category,
		&t.AmountRupiah, &t.Description, &t.Account, &t.GoalID, &t.TransferGroup,
		&t.SyncState, &t.CreatedAt)
	return t, err
}

const getTransaction = `-- name: GetTransaction :one
SELECT id, user_id, date, kind, origin, category, amount_rupiah, description, account, goal_id, transfer_group, sync_state, created_at
FROM transactions
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id, userID int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id, userID)
	var t Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &t.Kind, &t.Origin, &t.Category,
		&t.AmountRupiah, &t.Description, &t.Account, &t.GoalID, &t.TransferGroup,
		&t.SyncState, &t.CreatedAt)
	return t, err
}

const listTransactions = `-- name: ListTransactions :many
SELECT id, user_id, date, kind, origin, category, amount_rupiah, description, account, goal_id, transfer_group, sync_state, created_at
FROM transactions
WHERE user_id = ?
ORDER BY date DESC, id DESC
`

func (q *Queries) ListTransactions(ctx context.Context, userID int64) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const listTransactionsByMonth = `-- name: ListTransactionsByMonth :many
SELECT id, user_id, date, kind, origin, category, amount_rupiah, description, account, goal_id, transfer_group, sync_state, created_at
FROM transactions
WHERE user_id = ? AND strftime('%Y-%m', date) = ?
ORDER BY date DESC, id DESC
`

func (q *Queries) ListTransactionsByMonth(ctx context.Context, userID int64, yearMonth string) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByMonth, userID, yearMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	var items []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Kind, &t.Origin, &t.Category,
			&t.AmountRupiah, &t.Description, &t.Account, &t.GoalID, &t.TransferGroup,
			&t.SyncState, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const updateTransaction = `-- name: UpdateTransaction :exec
UPDATE transactions
SET date = ?, kind = ?, category = ?, amount_rupiah = ?, description = ?, account = ?, goal_id = ?, sync_state = 'pending'
WHERE id = ? AND user_id = ?
`

type UpdateTransactionParams struct {
	Date         string
	Kind         string
	Category     string
	AmountRupiah int64
	Description  string
	Account      string
	GoalID       sql.NullInt64
	ID           int64
	UserID       int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Date, arg.Kind, arg.Category, arg.AmountRupiah, arg.Description,
		arg.Account, arg.GoalID, arg.ID, arg.UserID)
	return err
}

const deleteTransaction = `-- name: DeleteTransaction :exec
DELETE FROM transactions
WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteTransaction, id, userID)
	return err
}

const deleteTransferGroup = `-- name: DeleteTransferGroup :exec
DELETE FROM transactions
WHERE user_id = ? AND transfer_group = ?
`

func (q *Queries) DeleteTransferGroup(ctx context.Context, userID int64, group string) error {
	_, err := q.db.ExecContext(ctx, deleteTransferGroup, userID, group)
	return err
}

const deleteAllTransactions = `-- name: DeleteAllTransactions :execrows
DELETE FROM transactions
WHERE user_id = ?
`

func (q *Queries) DeleteAllTransactions(ctx context.Context, userID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllTransactions, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getPendingExportTransactions = `-- name: GetPendingExportTransactions :many
SELECT id, user_id, date, kind, origin, category, amount_rupiah, description, account, goal_id, transfer_group, sync_state, created_at
FROM transactions
WHERE sync_state = 'pending'
ORDER BY id
LIMIT ?
`

func (q *Queries) GetPendingExportTransactions(ctx context.Context, limit int64) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, getPendingExportTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const markTransactionExported = `-- name: MarkTransactionExported :exec
UPDATE transactions
SET sync_state = 'synced'
WHERE id = ?
`

func (q *Queries) MarkTransactionExported(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markTransactionExported, id)
	return err
}

const markTransactionExportError = `-- name: MarkTransactionExportError :exec
UPDATE transactions
SET sync_state = 'error'
WHERE id = ?
`

func (q *Queries) MarkTransactionExportError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markTransactionExportError, id)
	return err
}

const createSavingGoal = `-- name: CreateSavingGoal :one
INSERT INTO saving_goals (user_id, name, target_date, target_amount, current_amount)
VALUES (?, ?, ?, ?, ?)
RETURNING id, user_id, name, target_date, target_amount, current_amount
`

type CreateSavingGoalParams struct {
	UserID        int64
	Name          string
	TargetDate    string
	TargetAmount  int64
	CurrentAmount int64
}

func (q *Queries) CreateSavingGoal(ctx context.Context, arg CreateSavingGoalParams) (SavingGoal, error) {
	row := q.db.QueryRowContext(ctx, createSavingGoal,
		arg.UserID, arg.Name, arg.TargetDate, arg.TargetAmount, arg.CurrentAmount)
	var g SavingGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetDate, &g.TargetAmount, &g.CurrentAmount)
	return g, err
}

const getSavingGoal = `-- name: GetSavingGoal :one
SELECT id, user_id, name, target_date, target_amount, current_amount
FROM saving_goals
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetSavingGoal(ctx context.Context, id, userID int64) (SavingGoal, error) {
	row := q.db.QueryRowContext(ctx, getSavingGoal, id, userID)
	var g SavingGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetDate, &g.TargetAmount, &g.CurrentAmount)
	return g, err
}

const listSavingGoals = `-- name: ListSavingGoals :many
SELECT id, user_id, name, target_date, target_amount, current_amount
FROM saving_goals
WHERE user_id = ?
ORDER BY target_date
`

func (q *Queries) ListSavingGoals(ctx context.Context, userID int64) ([]SavingGoal, error) {
	rows, err := q.db.QueryContext(ctx, listSavingGoals, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SavingGoal
	for rows.Next() {
		var g SavingGoal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetDate, &g.TargetAmount, &g.CurrentAmount); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const updateSavingGoal = `-- name: UpdateSavingGoal :exec
UPDATE saving_goals
SET name = ?, target_date = ?, target_amount = ?, current_amount = ?
WHERE id = ? AND user_id = ?
`

type UpdateSavingGoalParams struct {
	Name          string
	TargetDate    string
	TargetAmount  int64
	CurrentAmount int64
	ID            int64
	UserID        int64
}

func (q *Queries) UpdateSavingGoal(ctx context.Context, arg UpdateSavingGoalParams) error {
	_, err := q.db.ExecContext(ctx, updateSavingGoal,
		arg.Name, arg.TargetDate, arg.TargetAmount, arg.CurrentAmount, arg.ID, arg.UserID)
	return err
}

const deleteSavingGoal = `-- name: DeleteSavingGoal :exec
DELETE FROM saving_goals
WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteSavingGoal(ctx context.Context, id, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteSavingGoal, id, userID)
	return err
}

const createDebt = `-- name: CreateDebt :one
INSERT INTO debts (user_id, kind, category_id, counterparty, description, amount, amount_paid, status, due_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, user_id, kind, category_id, counterparty, description, amount, amount_paid, status, due_date
`

type CreateDebtParams struct {
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

func (q *Queries) CreateDebt(ctx context.Context, arg CreateDebtParams) (Debt, error) {
	row := q.db.QueryRowContext(ctx, createDebt,
		arg.UserID, arg.Kind, arg.CategoryID, arg.Counterparty, arg.Description,
		arg.Amount, arg.AmountPaid, arg.Status, arg.DueDate)
	var d Debt
	err := row.Scan(&d.ID, &d.UserID, &d.Kind, &d.CategoryID, &d.Counterparty,
		&d.Description, &d.Amount, &d.AmountPaid, &d.Status, &d.DueDate)
	return d, err
}

const getDebt = `-- name: GetDebt :one
SELECT id, user_id, kind, category_id, counterparty, description, amount, amount_paid, status, due_date
FROM debts
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetDebt(ctx context.Context, id, userID int64) (Debt, error) {
	row := q.db.QueryRowContext(ctx, getDebt, id, userID)
	var d Debt
	err := row.Scan(&d.ID, &d.UserID, &d.Kind, &d.CategoryID, &d.Counterparty,
		&d.Description, &d.Amount, &d.AmountPaid, &d.Status, &d.DueDate)
	return d, err
}

const listDebts = `-- name: ListDebts :many
SELECT id, user_id, kind, category_id, counterparty, description, amount, amount_paid, status, due_date
FROM debts
WHERE user_id = ?
ORDER BY due_date IS NULL, due_date, id
`

func (q *Queries) ListDebts(ctx context.Context, userID int64) ([]Debt, error) {
	rows, err := q.db.QueryContext(ctx, listDebts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Debt
	for rows.Next() {
		var d Debt
		if err := rows.Scan(&d.ID, &d.UserID, &d.Kind, &d.CategoryID, &d.Counterparty,
			&d.Description, &d.Amount, &d.AmountPaid, &d.Status, &d.DueDate); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const updateDebt = `-- name: UpdateDebt :exec
UPDATE debts
SET kind = ?, category_id = ?, counterparty = ?, description = ?, amount = ?, amount_paid = ?, status = ?, due_date = ?
WHERE id = ? AND user_id = ?
`

type UpdateDebtParams struct {
	Kind         string
	CategoryID   sql.NullInt64
	Counterparty string
	Description  string
	Amount       int64
	AmountPaid   int64
	Status       string
	DueDate      sql.NullString
	ID           int64
	UserID       int64
}

func (q *Queries) UpdateDebt(ctx context.Context, arg UpdateDebtParams) error {
	_, err := q.db.ExecContext(ctx, updateDebt,
		arg.Kind, arg.CategoryID, arg.Counterparty, arg.Description,
		arg.Amount, arg.AmountPaid, arg.Status, arg.DueDate, arg.ID, arg.UserID)
	return err
}

const deleteDebt = `-- name: DeleteDebt :exec
DELETE FROM debts
WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteDebt(ctx context.Context, id, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteDebt, id, userID)
	return err
}
