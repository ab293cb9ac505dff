package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// incomeResponse is the wire shape of an income record.
type incomeResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Source   string `json:"source"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Month    string `json:"month"`
}

// expenseResponse is the wire shape of an expense record.
type expenseResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Month    string `json:"month"`
}

// budgetResponse is the wire shape of a monthly budget.
type budgetResponse struct {
	ID           int64  `json:"id"`
	Month        string `json:"month"`
	Currency     string `json:"currency"`
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Savings      string `json:"savings"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toIncomeResponse(in core.Income) incomeResponse {
	return incomeResponse{
		ID:       in.ID,
		Name:     in.Name,
		Source:   in.Source,
		Type:     string(in.Type),
		Amount:   in.Amount.Amount().StringFixedBank(2),
		Currency: string(in.Amount.Currency()),
		Month:    in.Month.String(),
	}
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID,
		Name:     e.Name,
		Category: e.Category,
		Type:     string(e.Type),
		Amount:   e.Amount.Amount().StringFixedBank(2),
		Currency: string(e.Amount.Currency()),
		Month:    e.Month.String(),
	}
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:           b.ID,
		Month:        b.Month.String(),
		Currency:     string(b.Currency),
		TotalIncome:  b.TotalIncome.StringFixedBank(2),
		TotalExpense: b.TotalExpense.StringFixedBank(2),
		Savings:      b.Savings.StringFixedBank(2),
		CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Message: message}})
}

// writeServiceError maps domain and storage errors onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: errorDetail{Message: reqErr.Reason, Field: reqErr.Field},
		})
	case core.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrCurrencyMismatch):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case storage.IsConflict(err):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
