// Package worker moves pending transactions from SQLite to the Google
// Sheets backup, driven by AMQP messages with a periodic scan as the
// safety net.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kasku/internal/amqp"
	"kasku/internal/core"
	"kasku/internal/export"
	"kasku/internal/storage"
)

type ExportWorker struct {
	storage   *storage.SQLiteRepository
	writer    export.TransactionWriter
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, writer export.TransactionWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from AMQP
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"id", msg.ID,
		"user_id", msg.UserID)

	tx, err := w.storage.GetExportRow(ctx, msg.UserID, msg.ID)
	if err != nil {
		// Deleted before the export ran; nothing to back up.
		slog.WarnContext(ctx, "Transaction gone before export", "id", msg.ID, "error", err)
		return nil
	}

	return w.exportToSheets(ctx, msg.ID, msg.UserID, tx)
}

// ProcessPending exports transactions the queue missed. This is the
// backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingExportTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		tx, err := w.storage.GetExportRow(ctx, p.UserID, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.exportToSheets(ctx, p.ID, p.UserID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", p.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupCheck drains the pending backlog at worker startup, with a
// larger batch to recover from downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingExportTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		tx, err := w.storage.GetExportRow(ctx, p.UserID, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction for startup export",
				"id", p.ID, "error", err)
			if err := w.storage.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}
		if err := w.exportToSheets(ctx, p.ID, p.UserID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)
	return nil
}

// Run consumes AMQP messages and scans for stragglers on a ticker,
// until the context is done.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	if err := w.StartupCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup check failed", "error", err)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.ProcessPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending scan failed", "error", err)
				}
			}
		}
	}()

	return client.ConsumeExport(ctx, func(msg *amqp.ExportMessage) error {
		return w.HandleExportMessage(ctx, msg)
	})
}

func (w *ExportWorker) exportToSheets(ctx context.Context, id, userID int64, tx core.Transaction) error {
	ref, err := w.writer.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkExported(ctx, id); err != nil {
		// The export itself worked; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", id,
		"user_id", userID,
		"sheets_ref", ref,
		"amount_rupiah", tx.Amount.Rupiah)
	return nil
}
