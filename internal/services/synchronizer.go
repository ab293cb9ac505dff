// Package services orchestrates persistence and budget synchronization for
// income, expense and budget operations. Every write runs inside a single
// database transaction spanning the record write and the budget write(s).
package services

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbook/internal/core"
)

// BudgetStore is the slice of the persistence gateway the synchronizer
// needs. *storage.Queries satisfies it, both inside and outside a
// transaction.
type BudgetStore interface {
	GetBudgetByMonth(ctx context.Context, month core.Month) (core.Budget, error)
	InsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	UpdateBudgetTotals(ctx context.Context, b core.Budget) error
}

// Entry is the synchronizer's view of a transaction record: the amount and
// the owning month. Services build Entry pairs from (old, new) snapshots.
type Entry struct {
	Amount core.Money
	Month  core.Month
}

// Synchronizer keeps the monthly Budget aggregate consistent with the
// transaction records that belong to its month. Two instances exist, one
// keyed off the income total and one off the expense total, sharing this
// shape.
type Synchronizer struct {
	kind core.Resource
}

// NewIncomeSynchronizer returns the synchronizer that maintains TotalIncome.
func NewIncomeSynchronizer() *Synchronizer {
	return &Synchronizer{kind: core.ResourceIncome}
}

// NewExpenseSynchronizer returns the synchronizer that maintains TotalExpense.
func NewExpenseSynchronizer() *Synchronizer {
	return &Synchronizer{kind: core.ResourceExpense}
}

// Apply folds a newly created record into its month's budget, creating a
// zero-totals budget first if the month has none.
func (s *Synchronizer) Apply(ctx context.Context, store BudgetStore, e Entry) error {
	b, err := store.GetBudgetByMonth(ctx, e.Month)
	if core.IsNotFound(err) {
		b, err = store.InsertBudget(ctx, core.NewBudget(e.Month, e.Amount.Currency()))
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "Budget created lazily",
			"month", e.Month.String(),
			"currency", string(e.Amount.Currency()))
	} else if err != nil {
		return err
	} else if err := checkCurrency(b, e.Amount); err != nil {
		return err
	}

	s.add(&b, e.Amount)
	return store.UpdateBudgetTotals(ctx, b)
}

// Retract removes a deleted record from its month's budget. A missing
// budget here is a data-integrity bug, not a recoverable case: the typed
// not-found error propagates and aborts the enclosing transaction.
func (s *Synchronizer) Retract(ctx context.Context, store BudgetStore, e Entry) error {
	b, err := store.GetBudgetByMonth(ctx, e.Month)
	if err != nil {
		return err
	}
	if err := checkCurrency(b, e.Amount); err != nil {
		return err
	}

	s.sub(&b, e.Amount)
	return store.UpdateBudgetTotals(ctx, b)
}

// Reapply moves the budget from a record's old state to its new one. Within
// one month the offsetting subtract and add are applied to a single loaded
// budget and persisted once; across months it retracts from the old month
// (which must have a budget) and applies to the new (created if absent).
func (s *Synchronizer) Reapply(ctx context.Context, store BudgetStore, old, updated Entry) error {
	if old.Month != updated.Month {
		if err := s.Retract(ctx, store, old); err != nil {
			return err
		}
		return s.Apply(ctx, store, updated)
	}

	b, err := store.GetBudgetByMonth(ctx, old.Month)
	if err != nil {
		return err
	}
	if err := checkCurrency(b, old.Amount); err != nil {
		return err
	}
	if err := checkCurrency(b, updated.Amount); err != nil {
		return err
	}

	s.sub(&b, old.Amount)
	s.add(&b, updated.Amount)
	return store.UpdateBudgetTotals(ctx, b)
}

// checkCurrency rejects an amount whose currency differs from the budget's.
// All records in a month share its budget's currency; letting a mismatch
// through would panic inside Money arithmetic mid-transaction, so it is
// surfaced here as a caller-visible error instead.
func checkCurrency(b core.Budget, a core.Money) error {
	if a.Currency() != b.Currency {
		return fmt.Errorf("%w: budget %s holds %s, got %s",
			core.ErrCurrencyMismatch, b.Month, b.Currency, a.Currency())
	}
	return nil
}

func (s *Synchronizer) add(b *core.Budget, a core.Money) {
	if s.kind == core.ResourceIncome {
		b.AddIncome(a)
	} else {
		b.AddExpense(a)
	}
}

func (s *Synchronizer) sub(b *core.Budget, a core.Money) {
	if s.kind == core.ResourceIncome {
		b.SubIncome(a)
	} else {
		b.SubExpense(a)
	}
}
