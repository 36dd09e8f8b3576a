package http

import (
	"net/http"

	"kasku/internal/auth"
	"kasku/internal/core"
)

func debtFromRequest(req debtRequest) (core.Debt, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Debt{}, err
	}
	paid, err := parseOptionalAmount(req.AmountPaid)
	if err != nil {
		return core.Debt{}, err
	}
	due, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return core.Debt{}, err
	}
	return core.Debt{
		Kind:         core.DebtKind(req.Kind),
		CategoryID:   req.CategoryID,
		Counterparty: req.Counterparty,
		Description:  req.Description,
		Amount:       amount,
		AmountPaid:   paid,
		DueDate:      due,
	}, nil
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	d, err := debtFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.ledger.CreateDebt(r.Context(), auth.UserID(r.Context()), d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDebtJSON(created, core.ProgressForDebt(created)))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.ledger.ListDebts(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]debtJSON, 0, len(debts))
	for _, d := range debts {
		out = append(out, toDebtJSON(d, core.ProgressForDebt(d)))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := s.ledger.GetDebt(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDebtJSON(d, core.ProgressForDebt(d)))
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	d, err := debtFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	d.ID = id

	userID := auth.UserID(r.Context())
	if err := s.ledger.UpdateDebt(r.Context(), userID, d); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.ledger.GetDebt(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDebtJSON(updated, core.ProgressForDebt(updated)))
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.DeleteDebt(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDebtAmountPaid patches the absolute amount paid, unlike the
// payments endpoint which increments it.
func (s *Server) handleDebtAmountPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		AmountPaid string `json:"amount_paid"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	paid, err := parseOptionalAmount(req.AmountPaid)
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := s.ledger.SetDebtAmountPaid(r.Context(), auth.UserID(r.Context()), id, paid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDebtJSON(d, core.ProgressForDebt(d)))
}

func (s *Server) handleDebtPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req debtPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := s.ledger.RecordDebtPayment(r.Context(), auth.UserID(r.Context()), id, amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDebtJSON(d, core.ProgressForDebt(d)))
}
