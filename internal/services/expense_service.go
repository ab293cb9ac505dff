package services

import (
	"context"
	"log/slog"

	"budgetbook/internal/amqp"
	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// ExpenseService orchestrates expense persistence and budget
// synchronization. It mirrors IncomeService with the expense-total
// synchronizer variant.
type ExpenseService struct {
	repo    *storage.Repository
	sync    *Synchronizer
	events  *amqp.Client       // optional, nil disables event publishing
	budgets *cache.BudgetCache // optional, shared with BudgetService
}

func NewExpenseService(repo *storage.Repository, events *amqp.Client, budgets *cache.BudgetCache) *ExpenseService {
	return &ExpenseService{
		repo:    repo,
		sync:    NewExpenseSynchronizer(),
		events:  events,
		budgets: budgets,
	}
}

// Create persists a new expense record and applies it to its month's
// budget, both inside one transaction.
func (s *ExpenseService) Create(ctx context.Context, ex core.Expense) (core.Expense, error) {
	var created core.Expense
	err := s.repo.InTx(ctx, func(q *storage.Queries) error {
		var err error
		created, err = q.CreateExpense(ctx, ex)
		if err != nil {
			return err
		}
		return s.sync.Apply(ctx, q, Entry{Amount: created.Amount, Month: created.Month})
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense created",
		"id", created.ID,
		"name", created.Name,
		"amount", created.Amount.String(),
		"month", created.Month.String())

	invalidateBudget(s.budgets, created.Month)
	publishBudgetEvent(ctx, s.events, amqp.NewBudgetUpdated(created.Month.String()))
	return created, nil
}

// GetByID returns an expense record by id.
func (s *ExpenseService) GetByID(ctx context.Context, id int64) (core.Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

// GetAllForMonth returns every expense record owned by a month. An empty
// month is surfaced as a typed not-found error, by design.
func (s *ExpenseService) GetAllForMonth(ctx context.Context, month core.Month) ([]core.Expense, error) {
	expenses, err := s.repo.ListExpensesByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, &core.NotFoundError{Resource: core.ResourceExpense, Month: month}
	}
	return expenses, nil
}

// Update replaces an expense record's fields and reapplies the (old, new)
// pair to the affected budget(s), all inside one transaction.
func (s *ExpenseService) Update(ctx context.Context, id int64, ex core.Expense) (core.Expense, error) {
	var old, updated core.Expense
	err := s.repo.InTx(ctx, func(q *storage.Queries) error {
		var err error
		old, err = q.GetExpense(ctx, id)
		if err != nil {
			return err
		}
		updated = ex
		updated.ID = id
		if err := q.UpdateExpense(ctx, updated); err != nil {
			return err
		}
		return s.sync.Reapply(ctx, q,
			Entry{Amount: old.Amount, Month: old.Month},
			Entry{Amount: updated.Amount, Month: updated.Month})
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense updated",
		"id", id,
		"old_month", old.Month.String(),
		"new_month", updated.Month.String())

	invalidateBudget(s.budgets, old.Month)
	publishBudgetEvent(ctx, s.events, amqp.NewBudgetUpdated(old.Month.String()))
	if updated.Month != old.Month {
		invalidateBudget(s.budgets, updated.Month)
		publishBudgetEvent(ctx, s.events, amqp.NewBudgetUpdated(updated.Month.String()))
	}
	return updated, nil
}

// Delete retracts an expense record from its budget and removes it, both
// inside one transaction.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	var old core.Expense
	err := s.repo.InTx(ctx, func(q *storage.Queries) error {
		var err error
		old, err = q.GetExpense(ctx, id)
		if err != nil {
			return err
		}
		if err := s.sync.Retract(ctx, q, Entry{Amount: old.Amount, Month: old.Month}); err != nil {
			return err
		}
		return q.DeleteExpense(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "month", old.Month.String())
	invalidateBudget(s.budgets, old.Month)
	publishBudgetEvent(ctx, s.events, amqp.NewBudgetUpdated(old.Month.String()))
	return nil
}
