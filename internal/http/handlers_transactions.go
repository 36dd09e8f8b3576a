package http

import (
	"net/http"
	"regexp"

	"kasku/internal/auth"
	"kasku/internal/core"
	"kasku/internal/log"
	"kasku/internal/services"
)

var yearMonthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func transactionFromRequest(req transactionRequest) (core.Transaction, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Kind:        core.TransactionKind(req.Kind),
		Category:    req.Category,
		Amount:      amount,
		Description: req.Description,
		Account:     req.Account,
		GoalID:      req.GoalID,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	t, err := transactionFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	userID := auth.UserID(r.Context())
	created, err := s.ledger.CreateTransaction(r.Context(), userID, t)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.structured.LogTransactionCreated(r.Context(), userID, created.ID,
		string(created.Kind), string(created.Origin), created.Category, created.Account,
		created.Amount.Rupiah)
	respondJSON(w, http.StatusCreated, toTransactionJSON(created))
}

// handleListTransactions returns everything, or one calendar month
// when ?month=YYYY-MM is set.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var (
		txs []core.Transaction
		err error
	)
	if month := r.URL.Query().Get("month"); month != "" {
		if !yearMonthRe.MatchString(month) {
			respondError(w, r, core.ErrInvalidDate)
			return
		}
		txs, err = s.ledger.ListTransactionsByMonth(r.Context(), userID, month)
	} else {
		txs, err = s.ledger.ListTransactions(r.Context(), userID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.ledger.GetTransaction(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	t, err := transactionFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	t.ID = id

	userID := auth.UserID(r.Context())
	if err := s.ledger.UpdateTransaction(r.Context(), userID, t); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.ledger.GetTransaction(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out, in, err := s.ledger.Transfer(r.Context(), auth.UserID(r.Context()), services.TransferInput{
		Date:        date,
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]transactionJSON{
		"out": toTransactionJSON(out),
		"in":  toTransactionJSON(in),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userID := auth.UserID(r.Context())
	deleted, err := s.ledger.ResetTransactions(r.Context(), userID, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.logger.WarnContext(r.Context(), "Transaction history reset",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpReset,
		"deleted", deleted)
	respondJSON(w, http.StatusOK, resetResponse{Deleted: deleted})
}
