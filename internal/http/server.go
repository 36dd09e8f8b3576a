// Package http is the JSON API surface: routing, auth enforcement,
// summary caching, and translation between wire payloads and the
// domain model.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"time"

	"kasku/internal/auth"
	"kasku/internal/cache"
	"kasku/internal/core"
	applog "kasku/internal/log"
	"kasku/internal/middleware/ratelimit"
	"kasku/internal/middleware/security"
	"kasku/internal/services"
)

const (
	summaryCacheSize = 256
	summaryCacheTTL  = time.Minute
)

type Server struct {
	http.Server

	ledger     *services.LedgerService
	auth       *auth.Service
	logger     *applog.Logger
	structured *applog.StructuredLogger

	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager

	dashboardCache *cache.LRUCache[core.DashboardSummary]
	accountsCache  *cache.LRUCache[[]core.AccountSummary]
	savingsCache   *cache.LRUCache[services.SavingsOverview]
	debtsCache     *cache.LRUCache[services.DebtOverview]
}

func NewServer(addr string, ledger *services.LedgerService, authSvc *auth.Service, logger *applog.Logger) *Server {
	s := &Server{
		ledger: ledger,
		auth:   authSvc,
		logger: logger.WithComponent(applog.ComponentHTTP),

		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		cacheManager: cache.NewManager(),

		structured: applog.NewStructuredLogger(logger.WithComponent(applog.ComponentHTTP)),

		dashboardCache: cache.NewLRUCache[core.DashboardSummary](summaryCacheSize, summaryCacheTTL),
		accountsCache:  cache.NewLRUCache[[]core.AccountSummary](summaryCacheSize, summaryCacheTTL),
		savingsCache:   cache.NewLRUCache[services.SavingsOverview](summaryCacheSize, summaryCacheTTL),
		debtsCache:     cache.NewLRUCache[services.DebtOverview](summaryCacheSize, summaryCacheTTL),
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.accountsCache)
	s.cacheManager.Register(s.savingsCache)
	s.cacheManager.Register(s.debtsCache)
	s.cacheManager.StartCleanup(5 * time.Minute)

	// Every write drops the user's cached summaries.
	ledger.OnMutation(s.invalidateUser)

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := applog.Middleware(s.logger)(
		applog.RequestIDMiddleware(requestID)(
			applog.AccessLog(s.structured, clientIP)(
				headers.Middleware(mux))))

	s.Server = http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Auth endpoints are unauthenticated but rate limited.
	limited := s.limiter.Middleware(clientIP)
	mux.Handle("POST /api/auth/register", limited(http.HandlerFunc(s.handleRegister)))
	mux.Handle("POST /api/auth/login", limited(http.HandlerFunc(s.handleLogin)))

	authed := func(h http.HandlerFunc) http.Handler {
		return s.auth.Middleware(h)
	}

	mux.Handle("POST /api/accounts", authed(s.handleCreateAccount))
	mux.Handle("GET /api/accounts", authed(s.handleListAccounts))
	mux.Handle("GET /api/accounts/{id}", authed(s.handleGetAccount))
	mux.Handle("PUT /api/accounts/{id}", authed(s.handleUpdateAccount))
	mux.Handle("DELETE /api/accounts/{id}", authed(s.handleDeleteAccount))

	mux.Handle("POST /api/categories", authed(s.handleCreateCategory))
	mux.Handle("GET /api/categories", authed(s.handleListCategories))
	mux.Handle("GET /api/categories/{id}", authed(s.handleGetCategory))
	mux.Handle("PUT /api/categories/{id}", authed(s.handleUpdateCategory))
	mux.Handle("DELETE /api/categories/{id}", authed(s.handleDeleteCategory))

	mux.Handle("POST /api/transactions", authed(s.handleCreateTransaction))
	mux.Handle("GET /api/transactions", authed(s.handleListTransactions))
	mux.Handle("GET /api/transactions/{id}", authed(s.handleGetTransaction))
	mux.Handle("PUT /api/transactions/{id}", authed(s.handleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", authed(s.handleDeleteTransaction))
	mux.Handle("POST /api/transactions/transfer", authed(s.handleTransfer))
	mux.Handle("POST /api/transactions/reset", authed(s.handleReset))

	mux.Handle("POST /api/goals", authed(s.handleCreateGoal))
	mux.Handle("GET /api/goals", authed(s.handleListGoals))
	mux.Handle("GET /api/goals/{id}", authed(s.handleGetGoal))
	mux.Handle("PUT /api/goals/{id}", authed(s.handleUpdateGoal))
	mux.Handle("PATCH /api/goals/{id}", authed(s.handleGoalAmount))
	mux.Handle("DELETE /api/goals/{id}", authed(s.handleDeleteGoal))

	mux.Handle("POST /api/debts", authed(s.handleCreateDebt))
	mux.Handle("GET /api/debts", authed(s.handleListDebts))
	mux.Handle("GET /api/debts/{id}", authed(s.handleGetDebt))
	mux.Handle("PUT /api/debts/{id}", authed(s.handleUpdateDebt))
	mux.Handle("PATCH /api/debts/{id}", authed(s.handleDebtAmountPaid))
	mux.Handle("DELETE /api/debts/{id}", authed(s.handleDeleteDebt))
	mux.Handle("POST /api/debts/{id}/payments", authed(s.handleDebtPayment))

	mux.Handle("GET /api/summary/dashboard", authed(s.handleDashboard))
	mux.Handle("GET /api/summary/accounts", authed(s.handleAccountSummaries))
	mux.Handle("GET /api/summary/savings", authed(s.handleSavingsOverview))
	mux.Handle("GET /api/summary/debts", authed(s.handleDebtOverview))
}

// Shutdown stops the HTTP listener then the background helpers.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)
	s.limiter.Stop()
	s.cacheManager.Stop()
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// requestID honors an upstream X-Request-ID, otherwise mints one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

// clientIP prefers X-Forwarded-For so the limiter sees the real
// client behind a reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Summary cache keys end in a colon-delimited suffix so that
// DeletePrefix("dashboard:7:") cannot also match user 70.
func summaryKey(kind string, userID int64, suffix string) string {
	return fmt.Sprintf("%s:%d:%s", kind, userID, suffix)
}

func (s *Server) invalidateUser(userID int64) {
	s.dashboardCache.DeletePrefix(fmt.Sprintf("dashboard:%d:", userID))
	s.accountsCache.DeletePrefix(fmt.Sprintf("accounts:%d:", userID))
	s.savingsCache.DeletePrefix(fmt.Sprintf("savings:%d:", userID))
	s.debtsCache.DeletePrefix(fmt.Sprintf("debts:%d:", userID))
}
