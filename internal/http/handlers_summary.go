package http

import (
	"net/http"
	"time"

	"kasku/internal/auth"
	"kasku/internal/core"
)

// Summary endpoints cache per user with a short TTL; any write by the
// same user drops the entries immediately.

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	now := time.Now()
	key := summaryKey("dashboard", userID, now.Format("2006-01"))

	if cached, ok := s.dashboardCache.Get(key); ok {
		respondJSON(w, http.StatusOK, toDashboardJSON(cached))
		return
	}

	summary, err := s.ledger.DashboardSummary(r.Context(), userID, now)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.dashboardCache.Set(key, summary)
	respondJSON(w, http.StatusOK, toDashboardJSON(summary))
}

func (s *Server) handleAccountSummaries(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	key := summaryKey("accounts", userID, "all")

	if cached, ok := s.accountsCache.Get(key); ok {
		s.respondAccountSummaries(w, cached)
		return
	}

	sums, err := s.ledger.AccountSummaries(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.accountsCache.Set(key, sums)
	s.respondAccountSummaries(w, sums)
}

func (s *Server) respondAccountSummaries(w http.ResponseWriter, sums []core.AccountSummary) {
	out := make([]accountSummaryJSON, 0, len(sums))
	for _, a := range sums {
		out = append(out, toAccountSummaryJSON(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleSavingsOverview(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	key := summaryKey("savings", userID, "all")

	if cached, ok := s.savingsCache.Get(key); ok {
		respondJSON(w, http.StatusOK, toSavingsOverviewJSON(cached))
		return
	}

	ov, err := s.ledger.SavingsOverview(r.Context(), userID, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.savingsCache.Set(key, ov)
	respondJSON(w, http.StatusOK, toSavingsOverviewJSON(ov))
}

func (s *Server) handleDebtOverview(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	key := summaryKey("debts", userID, "all")

	if cached, ok := s.debtsCache.Get(key); ok {
		respondJSON(w, http.StatusOK, toDebtOverviewJSON(cached))
		return
	}

	ov, err := s.ledger.DebtOverview(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.debtsCache.Set(key, ov)
	respondJSON(w, http.StatusOK, toDebtOverviewJSON(ov))
}
