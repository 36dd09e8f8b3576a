package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"kasku/internal/amqp"
	"kasku/internal/core"
	"kasku/internal/storage"
)

type fakeWriter struct {
	appended []core.Transaction
	fail     bool
}

func (f *fakeWriter) Append(ctx context.Context, t core.Transaction) (string, error) {
	if f.fail {
		return "", errors.New("sheets unavailable")
	}
	f.appended = append(f.appended, t)
	return fmt.Sprintf("Transaksi!A%d:G%d", len(f.appended), len(f.appended)), nil
}

func newTestWorker(t *testing.T) (*ExportWorker, *fakeWriter, *storage.SQLiteRepository, int64) {
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

	writer := &fakeWriter{}
	return NewExportWorker(repo, writer, 10), writer, repo, userID
}

func createTx(t *testing.T, repo *storage.SQLiteRepository, userID int64) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), userID, core.Transaction{
		Date:     core.NewDate(2025, 3, 1),
		Kind:     core.Expense,
		Origin:   core.OriginDirect,
		Category: "Belanja",
		Amount:   core.Money{Rupiah: 30000},
		Account:  "BCA",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return tx
}

func TestHandleExportMessage(t *testing.T) {
	w, writer, repo, userID := newTestWorker(t)
	ctx := context.Background()
	tx := createTx(t, repo, userID)

	if err := w.HandleExportMessage(ctx, amqp.NewExportMessage(tx.ID, userID)); err != nil {
		t.Fatalf("HandleExportMessage: %v", err)
	}
	if len(writer.appended) != 1 {
		t.Fatalf("appended %d rows, want 1", len(writer.appended))
	}

	pending, err := repo.GetPendingExportTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingExportTransactions: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty queue after export, got %d", len(pending))
	}
}

func TestHandleExportMessageGoneRow(t *testing.T) {
	w, writer, _, userID := newTestWorker(t)

	// A message for a transaction that was deleted is dropped, not
	// requeued forever.
	if err := w.HandleExportMessage(context.Background(), amqp.NewExportMessage(999, userID)); err != nil {
		t.Fatalf("HandleExportMessage: %v", err)
	}
	if len(writer.appended) != 0 {
		t.Fatalf("nothing should be appended, got %d", len(writer.appended))
	}
}

func TestProcessPending(t *testing.T) {
	w, writer, repo, userID := newTestWorker(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createTx(t, repo, userID)
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(writer.appended) != 3 {
		t.Fatalf("appended %d rows, want 3", len(writer.appended))
	}

	// Second pass finds nothing left.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(writer.appended) != 3 {
		t.Fatalf("second pass re-exported rows: %d", len(writer.appended))
	}
}

func TestExportFailureMarksError(t *testing.T) {
	w, writer, repo, userID := newTestWorker(t)
	ctx := context.Background()
	tx := createTx(t, repo, userID)
	writer.fail = true

	if err := w.HandleExportMessage(ctx, amqp.NewExportMessage(tx.ID, userID)); err == nil {
		t.Fatal("expected error from failing writer")
	}

	// Row left the pending queue via the error state.
	pending, err := repo.GetPendingExportTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingExportTransactions: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("errored row should not stay pending, got %d", len(pending))
	}
}

func TestStartupCheck(t *testing.T) {
	w, writer, repo, userID := newTestWorker(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		createTx(t, repo, userID)
	}

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}
	if len(writer.appended) != 2 {
		t.Fatalf("appended %d rows, want 2", len(writer.appended))
	}
}
