package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbook/internal/core"
)

func TestParseIncomeRequestValid(t *testing.T) {
	body := `{"name":"salary","source":"employer","type":"recurring","amount":"1234.565","currency":"gbp","month":"2024-06"}`
	r := httptest.NewRequest("POST", "/api/incomes", strings.NewReader(body))

	in, err := parseIncomeRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "SALARY", in.Name)
	assert.Equal(t, "employer", in.Source)
	assert.Equal(t, core.Recurring, in.Type)
	// Half-even at the third fractional digit.
	assert.Equal(t, "1234.56 GBP", in.Amount.String())
	assert.Equal(t, "2024-06", in.Month.String())
}

func TestParseExpenseRequestValid(t *testing.T) {
	body := `{"name":"rent","category":"housing","type":"one_time","amount":"500.00","currency":"EUR","month":"2024-06"}`
	r := httptest.NewRequest("POST", "/api/expenses", strings.NewReader(body))

	e, err := parseExpenseRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "RENT", e.Name)
	assert.Equal(t, "housing", e.Category)
	assert.Equal(t, core.OneTime, e.Type)
}

func TestParseIncomeRequestRejectsBadFields(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "malformed json",
			body:  `{"name":`,
			field: "body",
		},
		{
			name:  "unknown field",
			body:  `{"name":"salary","type":"recurring","amount":"1.00","currency":"EUR","month":"2024-06","extra":true}`,
			field: "body",
		},
		{
			name:  "empty name",
			body:  `{"name":"  ","type":"recurring","amount":"1.00","currency":"EUR","month":"2024-06"}`,
			field: "name",
		},
		{
			name:  "bad type",
			body:  `{"name":"salary","type":"weekly","amount":"1.00","currency":"EUR","month":"2024-06"}`,
			field: "type",
		},
		{
			name:  "unsupported currency",
			body:  `{"name":"salary","type":"recurring","amount":"1.00","currency":"JPY","month":"2024-06"}`,
			field: "currency",
		},
		{
			name:  "non numeric amount",
			body:  `{"name":"salary","type":"recurring","amount":"ten","currency":"EUR","month":"2024-06"}`,
			field: "amount",
		},
		{
			name:  "negative amount",
			body:  `{"name":"salary","type":"recurring","amount":"-1.00","currency":"EUR","month":"2024-06"}`,
			field: "amount",
		},
		{
			name:  "bad month",
			body:  `{"name":"salary","type":"recurring","amount":"1.00","currency":"EUR","month":"2024-6"}`,
			field: "month",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/incomes", strings.NewReader(tc.body))
			_, err := parseIncomeRequest(r)
			require.Error(t, err)

			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tc.field, reqErr.Field)
		})
	}
}

func TestParseID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/incomes/42", nil)
	r.SetPathValue("id", "42")
	id, err := parseID(r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-1"} {
		r := httptest.NewRequest("GET", "/api/incomes/"+raw, nil)
		r.SetPathValue("id", raw)
		_, err := parseID(r)
		assert.Error(t, err, "id %q", raw)
	}
}

func TestParseMonthQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/budgets?month=2024-06", nil)
	m, err := parseMonthQuery(r)
	require.NoError(t, err)
	assert.Equal(t, "2024-06", m.String())

	r = httptest.NewRequest("GET", "/api/budgets", nil)
	_, err = parseMonthQuery(r)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "month", reqErr.Field)
}
