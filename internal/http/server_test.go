package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "budgetbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	s := NewServer(":0",
		services.NewIncomeService(repo, nil, nil),
		services.NewExpenseService(repo, nil, nil),
		services.NewBudgetService(repo, nil, nil))
	t.Cleanup(func() { s.limiter.Stop() })
	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, doRequest(t, s, "GET", "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(t, s, "GET", "/readyz", "").Code)
}

func TestCreateIncomeUpdatesBudget(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, "POST", "/api/incomes",
		`{"name":"salary","source":"employer","type":"recurring","amount":"1000.00","currency":"GBP","month":"2024-06"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	assert.Equal(t, "SALARY", created["name"])
	assert.Equal(t, "1000.00", created["amount"])

	w = doRequest(t, s, "GET", "/api/budgets?month=2024-06", "")
	require.Equal(t, http.StatusOK, w.Code)
	budget := decodeBody(t, w)
	assert.Equal(t, "1000.00", budget["total_income"])
	assert.Equal(t, "0.00", budget["total_expense"])
	assert.Equal(t, "1000.00", budget["savings"])
}

func TestExpenseLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, "POST", "/api/expenses",
		`{"name":"rent","category":"housing","type":"recurring","amount":"500.00","currency":"GBP","month":"2024-06"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decodeBody(t, w)["id"].(float64))

	w = doRequest(t, s, "GET", "/api/expenses/"+strconv.FormatInt(id, 10), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RENT", decodeBody(t, w)["name"])

	// Moving the record to another month retracts it from the old budget.
	w = doRequest(t, s, "PUT", "/api/expenses/"+strconv.FormatInt(id, 10),
		`{"name":"rent","category":"housing","type":"recurring","amount":"750.00","currency":"GBP","month":"2024-07"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, "GET", "/api/budgets?month=2024-06", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", decodeBody(t, w)["total_expense"])

	w = doRequest(t, s, "GET", "/api/budgets?month=2024-07", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "-750.00", decodeBody(t, w)["savings"])

	w = doRequest(t, s, "DELETE", "/api/expenses/"+strconv.FormatInt(id, 10), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, s, "GET", "/api/budgets?month=2024-07", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", decodeBody(t, w)["savings"])
}

func TestValidationErrorsReturn422(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, "POST", "/api/incomes",
		`{"name":"","type":"recurring","amount":"1.00","currency":"EUR","month":"2024-06"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	detail := body["error"].(map[string]any)
	assert.Equal(t, "name", detail["field"])
}

func TestForeignCurrencyIntoExistingBudgetReturns422(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, doRequest(t, s, "POST", "/api/incomes",
		`{"name":"salary","source":"employer","type":"recurring","amount":"1000.00","currency":"EUR","month":"2024-06"}`).Code)

	w := doRequest(t, s, "POST", "/api/incomes",
		`{"name":"contract","source":"client","type":"one_time","amount":"100.00","currency":"USD","month":"2024-06"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The rejected record was rolled back with its budget untouched.
	w = doRequest(t, s, "GET", "/api/budgets?month=2024-06", "")
	require.Equal(t, http.StatusOK, w.Code)
	budget := decodeBody(t, w)
	assert.Equal(t, "1000.00", budget["total_income"])
	assert.Equal(t, "EUR", budget["currency"])
}

func TestMissingResourcesReturn404(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, doRequest(t, s, "GET", "/api/incomes/999", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, s, "GET", "/api/budgets?month=2024-06", "").Code)
	// A month with no records is reported as not found, not as an empty list.
	assert.Equal(t, http.StatusNotFound, doRequest(t, s, "GET", "/api/expenses?month=2024-06", "").Code)
}

func TestListIncomesForMonth(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{
		`{"name":"salary","source":"employer","type":"recurring","amount":"1000.00","currency":"EUR","month":"2024-06"}`,
		`{"name":"bonus","source":"employer","type":"one_time","amount":"250.00","currency":"EUR","month":"2024-06"}`,
	} {
		require.Equal(t, http.StatusCreated, doRequest(t, s, "POST", "/api/incomes", body).Code)
	}

	w := doRequest(t, s, "GET", "/api/incomes?month=2024-06", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "SALARY", list[0]["name"])
	assert.Equal(t, "BONUS", list[1]["name"])
}

func TestDeleteBudgetLeavesRecords(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, doRequest(t, s, "POST", "/api/incomes",
		`{"name":"salary","source":"employer","type":"recurring","amount":"1000.00","currency":"EUR","month":"2024-06"}`).Code)

	w := doRequest(t, s, "GET", "/api/budgets?month=2024-06", "")
	require.Equal(t, http.StatusOK, w.Code)
	id := int64(decodeBody(t, w)["id"].(float64))

	require.Equal(t, http.StatusNoContent,
		doRequest(t, s, "DELETE", "/api/budgets/"+strconv.FormatInt(id, 10), "").Code)

	assert.Equal(t, http.StatusNotFound, doRequest(t, s, "GET", "/api/budgets?month=2024-06", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(t, s, "GET", "/api/incomes?month=2024-06", "").Code)
}
