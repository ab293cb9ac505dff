package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"budgetbook/internal/core"
)

// RequestError reports a request payload the API cannot accept. It maps to a
// 422 response naming the offending field.
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// incomeRequest is the wire shape of an income record.
type incomeRequest struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Month    string `json:"month"`
}

// expenseRequest is the wire shape of an expense record.
type expenseRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Month    string `json:"month"`
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &RequestError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// parseIncomeRequest decodes and validates an income payload into a domain
// record.
func parseIncomeRequest(r *http.Request) (core.Income, error) {
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Income{}, err
	}

	typ, amount, month, err := validateTransactionFields(req.Name, req.Type, req.Amount, req.Currency, req.Month)
	if err != nil {
		return core.Income{}, err
	}
	return core.NewIncome(req.Name, strings.TrimSpace(req.Source), typ, amount, month), nil
}

// parseExpenseRequest decodes and validates an expense payload into a domain
// record.
func parseExpenseRequest(r *http.Request) (core.Expense, error) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Expense{}, err
	}

	typ, amount, month, err := validateTransactionFields(req.Name, req.Type, req.Amount, req.Currency, req.Month)
	if err != nil {
		return core.Expense{}, err
	}
	return core.NewExpense(req.Name, strings.TrimSpace(req.Category), typ, amount, month), nil
}

// validateTransactionFields checks the fields shared by income and expense
// payloads. Record amounts are magnitudes, so negatives are rejected here.
func validateTransactionFields(name, typ, amount, currency, month string) (core.TransactionType, core.Money, core.Month, error) {
	if strings.TrimSpace(name) == "" {
		return "", core.Money{}, core.Month{}, &RequestError{Field: "name", Reason: "must not be empty"}
	}

	parsedType, err := core.ParseTransactionType(typ)
	if err != nil {
		return "", core.Money{}, core.Month{}, &RequestError{Field: "type", Reason: err.Error()}
	}

	cur := core.Currency(strings.ToUpper(strings.TrimSpace(currency)))
	if err := cur.Validate(); err != nil {
		return "", core.Money{}, core.Month{}, &RequestError{Field: "currency", Reason: err.Error()}
	}

	parsedAmount, err := core.ParseMoney(strings.TrimSpace(amount), cur)
	if err != nil {
		return "", core.Money{}, core.Month{}, &RequestError{Field: "amount", Reason: err.Error()}
	}
	if parsedAmount.IsNegative() {
		return "", core.Money{}, core.Month{}, &RequestError{Field: "amount", Reason: "must not be negative"}
	}

	parsedMonth, err := core.ParseMonth(strings.TrimSpace(month))
	if err != nil {
		return "", core.Money{}, core.Month{}, &RequestError{Field: "month", Reason: err.Error()}
	}

	return parsedType, parsedAmount, parsedMonth, nil
}

// parseID extracts the {id} path segment.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &RequestError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// parseMonthQuery extracts the required month query parameter.
func parseMonthQuery(r *http.Request) (core.Month, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		return core.Month{}, &RequestError{Field: "month", Reason: "query parameter is required"}
	}
	m, err := core.ParseMonth(raw)
	if err != nil {
		return core.Month{}, &RequestError{Field: "month", Reason: err.Error()}
	}
	return m, nil
}
