// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	"budgetbook/internal/core"
	"budgetbook/internal/middleware/ratelimit"
	"budgetbook/internal/middleware/security"
	"budgetbook/internal/middleware/trace"
)

// IncomeAPI is the slice of the income service the handlers need.
type IncomeAPI interface {
	Create(ctx context.Context, in core.Income) (core.Income, error)
	GetByID(ctx context.Context, id int64) (core.Income, error)
	GetAllForMonth(ctx context.Context, month core.Month) ([]core.Income, error)
	Update(ctx context.Context, id int64, in core.Income) (core.Income, error)
	Delete(ctx context.Context, id int64) error
}

// ExpenseAPI is the slice of the expense service the handlers need.
type ExpenseAPI interface {
	Create(ctx context.Context, e core.Expense) (core.Expense, error)
	GetByID(ctx context.Context, id int64) (core.Expense, error)
	GetAllForMonth(ctx context.Context, month core.Month) ([]core.Expense, error)
	Update(ctx context.Context, id int64, e core.Expense) (core.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// BudgetAPI is the slice of the budget service the handlers need.
type BudgetAPI interface {
	GetByID(ctx context.Context, id int64) (core.Budget, error)
	GetByMonth(ctx context.Context, month core.Month) (core.Budget, error)
	Delete(ctx context.Context, id int64) error
}

type Server struct {
	http.Server

	incomes  IncomeAPI
	expenses ExpenseAPI
	budgets  BudgetAPI

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, incomes IncomeAPI, expenses ExpenseAPI, budgets BudgetAPI) *Server {
	s := &Server{
		incomes:  incomes,
		expenses: expenses,
		budgets:  budgets,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/incomes", s.handleCreateIncome)
	mux.HandleFunc("GET /api/incomes", s.handleListIncomes)
	mux.HandleFunc("GET /api/incomes/{id}", s.handleGetIncome)
	mux.HandleFunc("PUT /api/incomes/{id}", s.handleUpdateIncome)
	mux.HandleFunc("DELETE /api/incomes/{id}", s.handleDeleteIncome)

	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/budgets", s.handleGetBudgetByMonth)
	mux.HandleFunc("GET /api/budgets/{id}", s.handleGetBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	tracer := trace.NewMiddleware(clientIP)
	handler := tracer.Middleware(security.Headers(s.withWriteLimit(mux)))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// withWriteLimit rate limits mutating requests only; reads stay unmetered.
func (s *Server) withWriteLimit(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown stops the limiter's cleanup goroutine and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// clientIP extracts the caller address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
