package http

import (
	"net/http"
	"time"

	"kasku/internal/auth"
	"kasku/internal/core"
)

func goalFromRequest(req goalRequest) (core.SavingGoal, error) {
	target, err := parseDate(req.TargetDate)
	if err != nil {
		return core.SavingGoal{}, err
	}
	targetAmount, err := parseAmount(req.TargetAmount)
	if err != nil {
		return core.SavingGoal{}, err
	}
	current, err := parseOptionalAmount(req.CurrentAmount)
	if err != nil {
		return core.SavingGoal{}, err
	}
	return core.SavingGoal{
		Name:          req.Name,
		TargetDate:    target,
		TargetAmount:  targetAmount,
		CurrentAmount: current,
	}, nil
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	g, err := goalFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.ledger.CreateSavingGoal(r.Context(), auth.UserID(r.Context()), g)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalJSON(created, core.ProgressForGoal(created, time.Now())))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.ledger.ListSavingGoals(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	now := time.Now()
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalJSON(g, core.ProgressForGoal(g, now)))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	g, err := s.ledger.GetSavingGoal(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(g, core.ProgressForGoal(g, time.Now())))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	g, err := goalFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	g.ID = id

	if err := s.ledger.UpdateSavingGoal(r.Context(), auth.UserID(r.Context()), g); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(g, core.ProgressForGoal(g, time.Now())))
}

// handleGoalAmount patches just the saved amount.
func (s *Server) handleGoalAmount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		CurrentAmount string `json:"current_amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	amount, err := parseOptionalAmount(req.CurrentAmount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	g, err := s.ledger.SetGoalCurrentAmount(r.Context(), auth.UserID(r.Context()), id, amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(g, core.ProgressForGoal(g, time.Now())))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.DeleteSavingGoal(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
