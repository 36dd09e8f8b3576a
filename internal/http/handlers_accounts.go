package http

import (
	"errors"
	"net/http"
	"strconv"

	"kasku/internal/auth"
	"kasku/internal/core"
)

// pathID reads the {id} wildcard as an int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Join(errBadRequest, errors.New("invalid id"))
	}
	return id, nil
}

func toAccountJSON(a core.Account) accountJSON {
	return accountJSON{ID: a.ID, Name: a.Name, Kind: string(a.Kind)}
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.ledger.CreateAccount(r.Context(), auth.UserID(r.Context()), core.Account{
		Name: req.Name,
		Kind: core.AccountKind(req.Kind),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAccountJSON(created))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.ListAccounts(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountJSON(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a, err := s.ledger.GetAccount(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountJSON(a))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	a := core.Account{ID: id, Name: req.Name, Kind: core.AccountKind(req.Kind)}
	if err := s.ledger.UpdateAccount(r.Context(), auth.UserID(r.Context()), a); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountJSON(a))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.DeleteAccount(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
