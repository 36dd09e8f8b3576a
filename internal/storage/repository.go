package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kasku/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAccountInUse  = errors.New("account has transactions")
	ErrCategoryInUse = errors.New("category is referenced")
	ErrDuplicateName = errors.New("name already exists")
	ErrNotTransfer   = errors.New("transaction is not a transfer leg")
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w", op, ErrDuplicateName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Users

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	u, err := r.queries.CreateUser(ctx, CreateUserParams{Username: username, PasswordHash: passwordHash})
	if err != nil {
		return 0, wrapErr("create user", err)
	}
	return u.ID, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (int64, string, error) {
	u, err := r.queries.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, "", wrapErr("get user by username", err)
	}
	return u.ID, u.PasswordHash, nil
}

func (r *SQLiteRepository) GetUserPasswordHash(ctx context.Context, userID int64) (string, error) {
	u, err := r.queries.GetUser(ctx, userID)
	if err != nil {
		return "", wrapErr("get user", err)
	}
	return u.PasswordHash, nil
}

// Accounts

func (r *SQLiteRepository) CreateAccount(ctx context.Context, userID int64, a core.Account) (core.Account, error) {
	row, err := r.queries.CreateAccount(ctx, CreateAccountParams{
		UserID: userID,
		Name:   a.Name,
		Kind:   string(a.Kind),
	})
	if err != nil {
		return core.Account{}, wrapErr("create account", err)
	}
	return accountFromRow(row), nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, userID, id int64) (core.Account, error) {
	row, err := r.queries.GetAccount(ctx, id, userID)
	if err != nil {
		return core.Account{}, wrapErr("get account", err)
	}
	return accountFromRow(row), nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, userID)
	if err != nil {
		return nil, wrapErr("list accounts", err)
	}
	accounts := make([]core.Account, len(rows))
	for i, row := range rows {
		accounts[i] = accountFromRow(row)
	}
	return accounts, nil
}

// UpdateAccount renames the account and rewrites the account name on
// its transactions in the same database transaction so the join by
// name never dangles.
func (r *SQLiteRepository) UpdateAccount(ctx context.Context, userID int64, a core.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update account: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	old, err := q.GetAccount(ctx, a.ID, userID)
	if err != nil {
		return wrapErr("get account", err)
	}
	if err := q.UpdateAccount(ctx, UpdateAccountParams{
		Name: a.Name, Kind: string(a.Kind), ID: a.ID, UserID: userID,
	}); err != nil {
		return wrapErr("update account", err)
	}
	if old.Name != a.Name {
		if err := q.RenameTransactionAccount(ctx, userID, a.Name, old.Name); err != nil {
			return wrapErr("rename transaction account", err)
		}
	}
	return tx.Commit()
}

// DeleteAccount checks for referencing transactions and deletes in one
// database transaction, so no transaction can slip in between the
// check and the delete.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, userID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete account: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	account, err := q.GetAccount(ctx, id, userID)
	if err != nil {
		return wrapErr("get account", err)
	}
	count, err := q.CountTransactionsByAccount(ctx, userID, account.Name)
	if err != nil {
		return wrapErr("count transactions by account", err)
	}
	if count > 0 {
		return fmt.Errorf("delete account %q: %w", account.Name, ErrAccountInUse)
	}
	if err := q.DeleteAccount(ctx, id, userID); err != nil {
		return wrapErr("delete account", err)
	}
	return tx.Commit()
}

// Categories

func (r *SQLiteRepository) CreateCategory(ctx context.Context, userID int64, c core.Category) (core.Category, error) {
	row, err := r.queries.CreateCategory(ctx, CreateCategoryParams{
		UserID: userID,
		Name:   c.Name,
		Kind:   string(c.Kind),
	})
	if err != nil {
		return core.Category{}, wrapErr("create category", err)
	}
	return categoryFromRow(row), nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	row, err := r.queries.GetCategory(ctx, id, userID)
	if err != nil {
		return core.Category{}, wrapErr("get category", err)
	}
	return categoryFromRow(row), nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx, userID)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	categories := make([]core.Category, len(rows))
	for i, row := range rows {
		categories[i] = categoryFromRow(row)
	}
	return categories, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, userID int64, c core.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update category: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	old, err := q.GetCategory(ctx, c.ID, userID)
	if err != nil {
		return wrapErr("get category", err)
	}
	if err := q.UpdateCategory(ctx, UpdateCategoryParams{
		Name: c.Name, Kind: string(c.Kind), ID: c.ID, UserID: userID,
	}); err != nil {
		return wrapErr("update category", err)
	}
	if old.Name != c.Name {
		if err := q.RenameTransactionCategory(ctx, userID, c.Name, old.Name); err != nil {
			return wrapErr("rename transaction category", err)
		}
	}
	return tx.Commit()
}

// DeleteCategory refuses to delete a category still referenced by
// transactions or debts. Check and delete share one database
// transaction.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	category, err := q.GetCategory(ctx, id, userID)
	if err != nil {
		return wrapErr("get category", err)
	}
	txCount, err := q.CountTransactionsByCategory(ctx, userID, category.Name)
	if err != nil {
		return wrapErr("count transactions by category", err)
	}
	debtCount, err := q.CountDebtsByCategory(ctx, userID, id)
	if err != nil {
		return wrapErr("count debts by category", err)
	}
	if txCount > 0 || debtCount > 0 {
		return fmt.Errorf("delete category %q: %w", category.Name, ErrCategoryInUse)
	}
	if err := q.DeleteCategory(ctx, id, userID); err != nil {
		return wrapErr("delete category", err)
	}
	return tx.Commit()
}

// Transactions

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, transactionParams(userID, t, sql.NullString{}))
	if err != nil {
		return core.Transaction{}, wrapErr("create transaction", err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id, userID)
	if err != nil {
		return core.Transaction{}, wrapErr("get transaction", err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, userID)
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}
	return transactionsFromRows(rows)
}

// ListTransactionsByMonth filters by calendar month, yearMonth in
// YYYY-MM form.
func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, userID int64, yearMonth string) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByMonth(ctx, userID, yearMonth)
	if err != nil {
		return nil, wrapErr("list transactions by month", err)
	}
	return transactionsFromRows(rows)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, userID int64, t core.Transaction) error {
	if err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		Date:         t.Date.Format(dateLayout),
		Kind:         string(t.Kind),
		Category:     t.Category,
		AmountRupiah: t.Amount.Rupiah,
		Description:  t.Description,
		Account:      t.Account,
		GoalID:       nullInt64(t.GoalID),
		ID:           t.ID,
		UserID:       userID,
	}); err != nil {
		return wrapErr("update transaction", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	if err := r.queries.DeleteTransaction(ctx, id, userID); err != nil {
		return wrapErr("delete transaction", err)
	}
	return nil
}

// CreateTransferPair inserts the outgoing and incoming legs of a
// transfer in one database transaction, linked by a shared group id.
// Either both legs exist or neither does.
func (r *SQLiteRepository) CreateTransferPair(ctx context.Context, userID int64, out, in core.Transaction) (core.Transaction, core.Transaction, error) {
	group := sql.NullString{String: newTransferGroup(), Valid: true}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, core.Transaction{}, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	outRow, err := q.CreateTransaction(ctx, transactionParams(userID, out, group))
	if err != nil {
		return core.Transaction{}, core.Transaction{}, wrapErr("create transfer out leg", err)
	}
	inRow, err := q.CreateTransaction(ctx, transactionParams(userID, in, group))
	if err != nil {
		return core.Transaction{}, core.Transaction{}, wrapErr("create transfer in leg", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Transaction{}, core.Transaction{}, fmt.Errorf("commit transfer: %w", err)
	}

	outTx, err := transactionFromRow(outRow)
	if err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}
	inTx, err := transactionFromRow(inRow)
	if err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}
	return outTx, inTx, nil
}

// DeleteTransferPair removes both legs of the transfer the given
// transaction belongs to.
func (r *SQLiteRepository) DeleteTransferPair(ctx context.Context, userID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transfer: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	row, err := q.GetTransaction(ctx, id, userID)
	if err != nil {
		return wrapErr("get transaction", err)
	}
	if !row.TransferGroup.Valid {
		return fmt.Errorf("delete transfer %d: %w", id, ErrNotTransfer)
	}
	if err := q.DeleteTransferGroup(ctx, userID, row.TransferGroup.String); err != nil {
		return wrapErr("delete transfer group", err)
	}
	return tx.Commit()
}

// ResetTransactions wipes every transaction of the user and returns
// how many rows went away. Accounts, categories, goals and debts
// survive.
func (r *SQLiteRepository) ResetTransactions(ctx context.Context, userID int64) (int64, error) {
	n, err := r.queries.DeleteAllTransactions(ctx, userID)
	if err != nil {
		return 0, wrapErr("reset transactions", err)
	}
	return n, nil
}

// Export queue

type PendingExportTransaction struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

func (r *SQLiteRepository) GetPendingExportTransactions(ctx context.Context, limit int) ([]PendingExportTransaction, error) {
	rows, err := r.queries.GetPendingExportTransactions(ctx, int64(limit))
	if err != nil {
		return nil, wrapErr("get pending export transactions", err)
	}
	pending := make([]PendingExportTransaction, len(rows))
	for i, row := range rows {
		pending[i] = PendingExportTransaction{
			ID:        row.ID,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt.Time,
		}
	}
	return pending, nil
}

func (r *SQLiteRepository) GetExportRow(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return r.GetTransaction(ctx, userID, id)
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionExported(ctx, id); err != nil {
		return wrapErr("mark transaction exported", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionExportError(ctx, id); err != nil {
		return wrapErr("mark transaction export error", err)
	}
	return nil
}

// Saving goals

func (r *SQLiteRepository) CreateSavingGoal(ctx context.Context, userID int64, g core.SavingGoal) (core.SavingGoal, error) {
	row, err := r.queries.CreateSavingGoal(ctx, CreateSavingGoalParams{
		UserID:        userID,
		Name:          g.Name,
		TargetDate:    g.TargetDate.Format(dateLayout),
		TargetAmount:  g.TargetAmount.Rupiah,
		CurrentAmount: g.CurrentAmount.Rupiah,
	})
	if err != nil {
		return core.SavingGoal{}, wrapErr("create saving goal", err)
	}
	return savingGoalFromRow(row)
}

func (r *SQLiteRepository) GetSavingGoal(ctx context.Context, userID, id int64) (core.SavingGoal, error) {
	row, err := r.queries.GetSavingGoal(ctx, id, userID)
	if err != nil {
		return core.SavingGoal{}, wrapErr("get saving goal", err)
	}
	return savingGoalFromRow(row)
}

func (r *SQLiteRepository) ListSavingGoals(ctx context.Context, userID int64) ([]core.SavingGoal, error) {
	rows, err := r.queries.ListSavingGoals(ctx, userID)
	if err != nil {
		return nil, wrapErr("list saving goals", err)
	}
	goals := make([]core.SavingGoal, len(rows))
	for i, row := range rows {
		g, err := savingGoalFromRow(row)
		if err != nil {
			return nil, err
		}
		goals[i] = g
	}
	return goals, nil
}

func (r *SQLiteRepository) UpdateSavingGoal(ctx context.Context, userID int64, g core.SavingGoal) error {
	if err := r.queries.UpdateSavingGoal(ctx, UpdateSavingGoalParams{
		Name:          g.Name,
		TargetDate:    g.TargetDate.Format(dateLayout),
		TargetAmount:  g.TargetAmount.Rupiah,
		CurrentAmount: g.CurrentAmount.Rupiah,
		ID:            g.ID,
		UserID:        userID,
	}); err != nil {
		return wrapErr("update saving goal", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSavingGoal(ctx context.Context, userID, id int64) error {
	if err := r.queries.DeleteSavingGoal(ctx, id, userID); err != nil {
		return wrapErr("delete saving goal", err)
	}
	return nil
}

// Debts

func (r *SQLiteRepository) CreateDebt(ctx context.Context, userID int64, d core.Debt) (core.Debt, error) {
	row, err := r.queries.CreateDebt(ctx, CreateDebtParams{
		UserID:       userID,
		Kind:         string(d.Kind),
		CategoryID:   nullInt64(d.CategoryID),
		Counterparty: d.Counterparty,
		Description:  d.Description,
		Amount:       d.Amount.Rupiah,
		AmountPaid:   d.AmountPaid.Rupiah,
		Status:       string(core.StatusOf(d.AmountPaid, d.Amount)),
		DueDate:      nullDate(d.DueDate),
	})
	if err != nil {
		return core.Debt{}, wrapErr("create debt", err)
	}
	return debtFromRow(row)
}

func (r *SQLiteRepository) GetDebt(ctx context.Context, userID, id int64) (core.Debt, error) {
	row, err := r.queries.GetDebt(ctx, id, userID)
	if err != nil {
		return core.Debt{}, wrapErr("get debt", err)
	}
	return debtFromRow(row)
}

func (r *SQLiteRepository) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	rows, err := r.queries.ListDebts(ctx, userID)
	if err != nil {
		return nil, wrapErr("list debts", err)
	}
	debts := make([]core.Debt, len(rows))
	for i, row := range rows {
		d, err := debtFromRow(row)
		if err != nil {
			return nil, err
		}
		debts[i] = d
	}
	return debts, nil
}

// UpdateDebt persists the debt with its status recomputed from the
// paid amount, never from what the caller sent.
func (r *SQLiteRepository) UpdateDebt(ctx context.Context, userID int64, d core.Debt) error {
	if err := r.queries.UpdateDebt(ctx, UpdateDebtParams{
		Kind:         string(d.Kind),
		CategoryID:   nullInt64(d.CategoryID),
		Counterparty: d.Counterparty,
		Description:  d.Description,
		Amount:       d.Amount.Rupiah,
		AmountPaid:   d.AmountPaid.Rupiah,
		Status:       string(core.StatusOf(d.AmountPaid, d.Amount)),
		DueDate:      nullDate(d.DueDate),
		ID:           d.ID,
		UserID:       userID,
	}); err != nil {
		return wrapErr("update debt", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, userID, id int64) error {
	if err := r.queries.DeleteDebt(ctx, id, userID); err != nil {
		return wrapErr("delete debt", err)
	}
	return nil
}

// Row conversion

func accountFromRow(row Account) core.Account {
	return core.Account{ID: row.ID, Name: row.Name, Kind: core.AccountKind(row.Kind)}
}

func categoryFromRow(row Category) core.Category {
	return core.Category{ID: row.ID, Name: row.Name, Kind: core.CategoryKind(row.Kind)}
}

func transactionParams(userID int64, t core.Transaction, group sql.NullString) CreateTransactionParams {
	return CreateTransactionParams{
		UserID:        userID,
		Date:          t.Date.Format(dateLayout),
		Kind:          string(t.Kind),
		Origin:        string(t.Origin),
		Category:      t.Category,
		AmountRupiah:  t.Amount.Rupiah,
		Description:   t.Description,
		Account:       t.Account,
		GoalID:        nullInt64(t.GoalID),
		TransferGroup: group,
	}
}

func transactionFromRow(row Transaction) (core.Transaction, error) {
	date, err := parseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", row.ID, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Date:        date,
		Kind:        core.TransactionKind(row.Kind),
		Origin:      core.TransactionOrigin(row.Origin),
		Category:    row.Category,
		Amount:      core.Money{Rupiah: row.AmountRupiah},
		Description: row.Description,
		Account:     row.Account,
		GoalID:      row.GoalID.Int64,
	}, nil
}

func transactionsFromRows(rows []Transaction) ([]core.Transaction, error) {
	txs := make([]core.Transaction, len(rows))
	for i, row := range rows {
		t, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		txs[i] = t
	}
	return txs, nil
}

func savingGoalFromRow(row SavingGoal) (core.SavingGoal, error) {
	date, err := parseDate(row.TargetDate)
	if err != nil {
		return core.SavingGoal{}, fmt.Errorf("saving goal %d: %w", row.ID, err)
	}
	return core.SavingGoal{
		ID:            row.ID,
		Name:          row.Name,
		TargetDate:    date,
		TargetAmount:  core.Money{Rupiah: row.TargetAmount},
		CurrentAmount: core.Money{Rupiah: row.CurrentAmount},
	}, nil
}

func debtFromRow(row Debt) (core.Debt, error) {
	var due core.Date
	if row.DueDate.Valid {
		d, err := parseDate(row.DueDate.String)
		if err != nil {
			return core.Debt{}, fmt.Errorf("debt %d: %w", row.ID, err)
		}
		due = d
	}
	return core.Debt{
		ID:           row.ID,
		Kind:         core.DebtKind(row.Kind),
		CategoryID:   row.CategoryID.Int64,
		Counterparty: row.Counterparty,
		Description:  row.Description,
		Amount:       core.Money{Rupiah: row.Amount},
		AmountPaid:   core.Money{Rupiah: row.AmountPaid},
		DueDate:      due,
	}, nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullDate(d core.Date) sql.NullString {
	if d.IsEmpty() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Format(dateLayout), Valid: true}
}

func newTransferGroup() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
