// Package core holds the domain types of the budgeting ledger: Money,
// calendar months, transaction records and the monthly Budget aggregate.
package core

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency identifies one of the supported ISO 4217 currencies.
type Currency string

const (
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	USD Currency = "USD"
)

// SupportedCurrencies lists every currency the ledger accepts.
var SupportedCurrencies = []Currency{EUR, GBP, USD}

// Validate checks that the currency is in the supported set and known to the
// ISO currency table.
func (c Currency) Validate() error {
	for _, s := range SupportedCurrencies {
		if c == s {
			if gomoney.GetCurrency(string(c)) == nil {
				return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, c)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, c)
}

// moneyScale is the number of fractional digits every amount is kept at.
const moneyScale = 2

// Money is an immutable monetary amount bound to a currency. Every Money is
// rescaled to two fractional digits with banker's rounding at construction,
// and all arithmetic returns a new rescaled value.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money from a decimal amount, rescaling it to two
// fractional digits using round-half-even.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount.RoundBank(moneyScale), currency: currency}
}

// ParseMoney builds a Money from a decimal string such as "123.45".
func ParseMoney(s string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return NewMoney(d, currency), nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency Currency) Money {
	return NewMoney(decimal.Zero, currency)
}

// Amount returns the underlying decimal value at scale 2.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency tag.
func (m Money) Currency() Currency { return m.currency }

// Add returns m + n. Panics if the currencies differ.
func (m Money) Add(n Money) Money {
	return NewMoney(m.amount.Add(n.amount), sameCurrency(m, n))
}

// Sub returns m - n. Panics if the currencies differ.
func (m Money) Sub(n Money) Money {
	return NewMoney(m.amount.Sub(n.amount), sameCurrency(m, n))
}

// Mul returns m scaled by k, rescaled to two fractional digits.
func (m Money) Mul(k decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(k), m.currency)
}

// Div returns m divided by k, rescaled to two fractional digits.
// Division by zero panics, per decimal division semantics.
func (m Money) Div(k decimal.Decimal) Money {
	return NewMoney(m.amount.Div(k), m.currency)
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// GreaterThan reports m > n. Panics if the currencies differ.
func (m Money) GreaterThan(n Money) bool {
	sameCurrency(m, n)
	return m.amount.GreaterThan(n.amount)
}

// LessThan reports m < n. Panics if the currencies differ.
func (m Money) LessThan(n Money) bool {
	sameCurrency(m, n)
	return m.amount.LessThan(n.amount)
}

// Equal reports m == n. Panics if the currencies differ.
func (m Money) Equal(n Money) bool {
	sameCurrency(m, n)
	return m.amount.Equal(n.amount)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// String renders the amount with its currency code, e.g. "123.45 GBP".
func (m Money) String() string {
	return m.amount.StringFixedBank(moneyScale) + " " + string(m.currency)
}

// sameCurrency returns the shared currency of two operands. A mismatch is a
// programming error, not a business error, so it panics.
func sameCurrency(a, b Money) Currency {
	if a.currency != b.currency {
		panic(fmt.Sprintf("%v: %s != %s", ErrCurrencyMismatch, a.currency, b.currency))
	}
	return a.currency
}
