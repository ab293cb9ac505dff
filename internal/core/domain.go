package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes one-off records from recurring ones.
type TransactionType string

const (
	OneTime   TransactionType = "one_time"
	Recurring TransactionType = "recurring"
)

// ParseTransactionType validates the textual form of a transaction type.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case OneTime, Recurring:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Income is a single income record owned by a calendar month. Records are
// value snapshots: updates build a new value and pass (old, new) pairs to
// the synchronizer rather than mutating in place.
type Income struct {
	ID     int64
	Name   string
	Source string
	Type   TransactionType
	Amount Money
	Month  Month
}

// Expense is a single expense record owned by a calendar month.
type Expense struct {
	ID       int64
	Name     string
	Category string
	Type     TransactionType
	Amount   Money
	Month    Month
}

// NewIncome builds an income record from already-validated fields,
// normalizing the name to upper case.
func NewIncome(name, source string, typ TransactionType, amount Money, month Month) Income {
	return Income{
		Name:   normalizeName(name),
		Source: source,
		Type:   typ,
		Amount: amount,
		Month:  month,
	}
}

// NewExpense builds an expense record from already-validated fields,
// normalizing the name to upper case.
func NewExpense(name, category string, typ TransactionType, amount Money, month Month) Expense {
	return Expense{
		Name:     normalizeName(name),
		Category: category,
		Type:     typ,
		Amount:   amount,
		Month:    month,
	}
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Budget is the derived monthly aggregate: running totals of income and
// expense plus the savings balance for one calendar month. At most one
// Budget exists per month; the unique index on the month column is the
// storage backstop for that invariant.
//
// Savings is always recomputed as TotalIncome - TotalExpense, never set
// independently. Zero and negative totals are valid states.
type Budget struct {
	ID           int64
	Month        Month
	Currency     Currency
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Savings      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBudget creates a zero-totals budget for a month. Budgets are created
// lazily the first time a transaction is synchronized against their month.
func NewBudget(month Month, currency Currency) Budget {
	zero := decimal.Zero.RoundBank(2)
	return Budget{
		Month:        month,
		Currency:     currency,
		TotalIncome:  zero,
		TotalExpense: zero,
		Savings:      zero,
	}
}

// AddIncome credits the income total and recomputes savings.
func (b *Budget) AddIncome(a Money) {
	b.TotalIncome = NewMoney(b.TotalIncome, b.Currency).Add(a).Amount()
	b.recompute()
}

// SubIncome debits the income total and recomputes savings.
func (b *Budget) SubIncome(a Money) {
	b.TotalIncome = NewMoney(b.TotalIncome, b.Currency).Sub(a).Amount()
	b.recompute()
}

// AddExpense credits the expense total and recomputes savings.
func (b *Budget) AddExpense(a Money) {
	b.TotalExpense = NewMoney(b.TotalExpense, b.Currency).Add(a).Amount()
	b.recompute()
}

// SubExpense debits the expense total and recomputes savings.
func (b *Budget) SubExpense(a Money) {
	b.TotalExpense = NewMoney(b.TotalExpense, b.Currency).Sub(a).Amount()
	b.recompute()
}

func (b *Budget) recompute() {
	b.Savings = b.TotalIncome.Sub(b.TotalExpense).RoundBank(2)
}

// ConsistencyCheck reports whether the savings identity holds. Used by the
// auditor worker; the synchronizer maintains it by construction.
func (b *Budget) ConsistencyCheck() error {
	want := b.TotalIncome.Sub(b.TotalExpense).RoundBank(2)
	if !b.Savings.Equal(want) {
		return fmt.Errorf("budget %s: savings %s != income %s - expense %s",
			b.Month, b.Savings, b.TotalIncome, b.TotalExpense)
	}
	return nil
}
