package core

import (
	"errors"
	"fmt"
)

// Resource names an entity kind for typed errors and event payloads.
type Resource string

const (
	ResourceBudget  Resource = "budget"
	ResourceIncome  Resource = "income"
	ResourceExpense Resource = "expense"
)

var (
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidType         = errors.New("invalid transaction type")

	// ErrCurrencyMismatch is the panic value of Money arithmetic across
	// currencies. It never surfaces as a business error.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// NotFoundError reports a failed lookup of a budget, income or expense,
// either by id or by month. The boundary layer renders the user-facing text;
// callers match it with errors.As or IsNotFound.
type NotFoundError struct {
	Resource Resource
	ID       int64 // set for lookups by id
	Month    Month // set for lookups by month
}

func (e *NotFoundError) Error() string {
	if !e.Month.IsZero() {
		return fmt.Sprintf("%s not found for month %s", e.Resource, e.Month)
	}
	return fmt.Sprintf("%s not found: id %d", e.Resource, e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError of any resource.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
