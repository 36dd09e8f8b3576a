// Package services orchestrates ledger operations across SQLite, the
// AMQP export queue, and the derived summary computations.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kasku/internal/amqp"
	"kasku/internal/core"
	"kasku/internal/storage"
)

var (
	ErrWrongPassword = errors.New("password does not match")
	ErrTransferLeg   = errors.New("transfer legs cannot be edited individually")
)

// PasswordVerifier confirms the caller's password before destructive
// operations. Satisfied by auth.Service.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, userID int64, password string) error
}

// InvalidationFunc is called after every successful mutation so the
// HTTP layer can drop the user's cached summaries.
type InvalidationFunc func(userID int64)

// TransferInput describes a move of money between two accounts.
type TransferInput struct {
	Date        core.Date
	FromAccount string
	ToAccount   string
	Amount      core.Money
	Description string
}

// LedgerService orchestrates ledger operations across SQLite and AMQP
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	verifier   PasswordVerifier
	invalidate InvalidationFunc
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, verifier PasswordVerifier) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
		verifier:   verifier,
		invalidate: func(int64) {},
	}
}

// OnMutation registers the cache invalidation hook.
func (s *LedgerService) OnMutation(fn InvalidationFunc) {
	if fn != nil {
		s.invalidate = fn
	}
}

// --- accounts ---

func (s *LedgerService) CreateAccount(ctx context.Context, userID int64, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	created, err := s.storage.CreateAccount(ctx, userID, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

func (s *LedgerService) GetAccount(ctx context.Context, userID, id int64) (core.Account, error) {
	return s.storage.GetAccount(ctx, userID, id)
}

func (s *LedgerService) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	return s.storage.ListAccounts(ctx, userID)
}

// UpdateAccount renames the account; historical transactions follow
// the new name atomically.
func (s *LedgerService) UpdateAccount(ctx context.Context, userID int64, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateAccount(ctx, userID, a); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// DeleteAccount refuses to delete an account that still has
// transactions; the caller gets storage.ErrAccountInUse.
func (s *LedgerService) DeleteAccount(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteAccount(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// --- categories ---

func (s *LedgerService) CreateCategory(ctx context.Context, userID int64, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.storage.CreateCategory(ctx, userID, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

func (s *LedgerService) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	return s.storage.GetCategory(ctx, userID, id)
}

func (s *LedgerService) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, userID)
}

func (s *LedgerService) UpdateCategory(ctx context.Context, userID int64, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateCategory(ctx, userID, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// DeleteCategory refuses when transactions or debts still reference
// the category; the caller gets storage.ErrCategoryInUse.
func (s *LedgerService) DeleteCategory(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// --- transactions ---

// CreateTransaction saves a direct income or expense locally and
// publishes an export message.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	t.Origin = core.OriginDirect
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// Save to SQLite first (fast, reliable)
	created, err := s.storage.CreateTransaction(ctx, userID, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishExport(ctx, created.ID, userID)
	s.invalidate(userID)
	return created, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, userID)
}

func (s *LedgerService) ListTransactionsByMonth(ctx context.Context, userID int64, yearMonth string) ([]core.Transaction, error) {
	return s.storage.ListTransactionsByMonth(ctx, userID, yearMonth)
}

// UpdateTransaction edits a direct transaction. Transfer legs are
// immutable; delete the pair and transfer again instead.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID int64, t core.Transaction) error {
	existing, err := s.storage.GetTransaction(ctx, userID, t.ID)
	if err != nil {
		return err
	}
	if existing.Origin == core.OriginTransfer {
		return ErrTransferLeg
	}

	t.Origin = core.OriginDirect
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateTransaction(ctx, userID, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	// The row went back to pending; re-announce it.
	s.publishExport(ctx, t.ID, userID)
	s.invalidate(userID)
	return nil
}

// DeleteTransaction removes a transaction. Deleting a transfer leg
// removes both legs so the books stay balanced.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id int64) error {
	existing, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if existing.Origin == core.OriginTransfer {
		err = s.storage.DeleteTransferPair(ctx, userID, id)
	} else {
		err = s.storage.DeleteTransaction(ctx, userID, id)
	}
	if err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// Transfer records a move between two accounts as a paired
// expense+income, created atomically.
func (s *LedgerService) Transfer(ctx context.Context, userID int64, in TransferInput) (core.Transaction, core.Transaction, error) {
	if in.FromAccount == in.ToAccount {
		return core.Transaction{}, core.Transaction{}, core.ErrSameAccount
	}

	outLeg := core.Transaction{
		Date:        in.Date,
		Kind:        core.Expense,
		Origin:      core.OriginTransfer,
		Category:    core.TransferOutCategory,
		Amount:      in.Amount,
		Description: in.Description,
		Account:     in.FromAccount,
	}
	inLeg := core.Transaction{
		Date:        in.Date,
		Kind:        core.Income,
		Origin:      core.OriginTransfer,
		Category:    core.TransferInCategory,
		Amount:      in.Amount,
		Description: in.Description,
		Account:     in.ToAccount,
	}
	if err := outLeg.Validate(); err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}
	if err := inLeg.Validate(); err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}

	outLeg, inLeg, err := s.storage.CreateTransferPair(ctx, userID, outLeg, inLeg)
	if err != nil {
		return core.Transaction{}, core.Transaction{}, fmt.Errorf("create transfer: %w", err)
	}

	s.publishExport(ctx, outLeg.ID, userID)
	s.publishExport(ctx, inLeg.ID, userID)
	s.invalidate(userID)
	return outLeg, inLeg, nil
}

// ResetTransactions wipes every transaction for the user after the
// password checks out. Accounts, categories, goals and debts survive.
func (s *LedgerService) ResetTransactions(ctx context.Context, userID int64, password string) (int64, error) {
	if err := s.verifier.VerifyPassword(ctx, userID, password); err != nil {
		return 0, ErrWrongPassword
	}

	count, err := s.storage.ResetTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("reset transactions: %w", err)
	}

	slog.InfoContext(ctx, "All transactions reset",
		"user_id", userID,
		"deleted", count)
	s.invalidate(userID)
	return count, nil
}

// --- saving goals ---

func (s *LedgerService) CreateSavingGoal(ctx context.Context, userID int64, g core.SavingGoal) (core.SavingGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingGoal{}, err
	}
	created, err := s.storage.CreateSavingGoal(ctx, userID, g)
	if err != nil {
		return core.SavingGoal{}, fmt.Errorf("create saving goal: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

func (s *LedgerService) GetSavingGoal(ctx context.Context, userID, id int64) (core.SavingGoal, error) {
	return s.storage.GetSavingGoal(ctx, userID, id)
}

func (s *LedgerService) ListSavingGoals(ctx context.Context, userID int64) ([]core.SavingGoal, error) {
	return s.storage.ListSavingGoals(ctx, userID)
}

func (s *LedgerService) UpdateSavingGoal(ctx context.Context, userID int64, g core.SavingGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateSavingGoal(ctx, userID, g); err != nil {
		return fmt.Errorf("update saving goal: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// SetGoalCurrentAmount updates only the saved amount; the manual
// figure is the canonical one.
func (s *LedgerService) SetGoalCurrentAmount(ctx context.Context, userID, id int64, amount core.Money) (core.SavingGoal, error) {
	if amount.Rupiah < 0 {
		return core.SavingGoal{}, core.ErrNegativeAmount
	}

	g, err := s.storage.GetSavingGoal(ctx, userID, id)
	if err != nil {
		return core.SavingGoal{}, err
	}
	g.CurrentAmount = amount
	if err := s.storage.UpdateSavingGoal(ctx, userID, g); err != nil {
		return core.SavingGoal{}, fmt.Errorf("set goal amount: %w", err)
	}
	s.invalidate(userID)
	return g, nil
}

func (s *LedgerService) DeleteSavingGoal(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteSavingGoal(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// --- debts ---

func (s *LedgerService) CreateDebt(ctx context.Context, userID int64, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	created, err := s.storage.CreateDebt(ctx, userID, d)
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

func (s *LedgerService) GetDebt(ctx context.Context, userID, id int64) (core.Debt, error) {
	return s.storage.GetDebt(ctx, userID, id)
}

func (s *LedgerService) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return s.storage.ListDebts(ctx, userID)
}

func (s *LedgerService) UpdateDebt(ctx context.Context, userID int64, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateDebt(ctx, userID, d); err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	s.invalidate(userID)
	return nil
}

func (s *LedgerService) DeleteDebt(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteDebt(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// SetDebtAmountPaid overwrites the amount paid; storage recomputes
// the status.
func (s *LedgerService) SetDebtAmountPaid(ctx context.Context, userID, id int64, paid core.Money) (core.Debt, error) {
	if paid.Rupiah < 0 {
		return core.Debt{}, core.ErrNegativeAmount
	}

	d, err := s.storage.GetDebt(ctx, userID, id)
	if err != nil {
		return core.Debt{}, err
	}
	d.AmountPaid = paid
	if err := s.storage.UpdateDebt(ctx, userID, d); err != nil {
		return core.Debt{}, fmt.Errorf("set debt amount paid: %w", err)
	}
	s.invalidate(userID)
	return s.storage.GetDebt(ctx, userID, id)
}

// RecordDebtPayment bumps the amount paid and lets storage recompute
// the status.
func (s *LedgerService) RecordDebtPayment(ctx context.Context, userID, id int64, payment core.Money) (core.Debt, error) {
	if err := payment.Validate(); err != nil {
		return core.Debt{}, err
	}

	d, err := s.storage.GetDebt(ctx, userID, id)
	if err != nil {
		return core.Debt{}, err
	}
	d.AmountPaid = d.AmountPaid.Add(payment)
	if err := s.storage.UpdateDebt(ctx, userID, d); err != nil {
		return core.Debt{}, fmt.Errorf("record debt payment: %w", err)
	}
	s.invalidate(userID)
	return s.storage.GetDebt(ctx, userID, id)
}

func (s *LedgerService) publishExport(ctx context.Context, id, userID int64) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping export message")
		return
	}
	// Don't fail the request - the transaction is saved locally and
	// the pending scan will pick it up.
	if err := s.amqpClient.PublishExport(ctx, id, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", id, "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
