package services

import (
	"context"
	"log/slog"

	"budgetbook/internal/amqp"
	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// IncomeService orchestrates income persistence and budget synchronization.
type IncomeService struct {
	repo    *storage.Repository
	sync    *Synchronizer
	events  *amqp.Client       // optional, nil disables event publishing
	budgets *cache.BudgetCache // optional, shared with BudgetService
}

func NewIncomeService(repo *storage.Repository, events *amqp.Client, budgets *cache.BudgetCache) *IncomeService {
	return &IncomeService{
		repo:    repo,
		sync:    NewIncomeSynchronizer(),
		events:  events,
		budgets: budgets,
	}
}

// Create persists a new income record and applies it to its month's budget,
// both inside one transaction.
func (s *IncomeService) Create(ctx context.Context, in core.Income) (core.Income, error) {
	var created core.Income
	err := s.repo.InTx(ctx, func(q *storage.Queries) error {
		var err error
		created, err = q.CreateIncome(ctx, in)
		if err != nil {
			return err
		}
		return s.sync.Apply(ctx, q, Entry{Amount: created.Amount, Month: created.Month})
	})
	if err != nil {
		return core.Income{}, err
	}

	slog.InfoContext(ctx, "Income created",
		"id", created.ID,
		"name", created.Name,
		"amount", created.Amount.String(),
		"month", created.Month.String())

	invalidateBudget(s.budgets, created.Month)
	publishBudgetEvent(ctx, s.events, amqp.NewBudgetUpdated(created.Month.String()))
	return created, nil
}

// GetByID returns an income record by id.
func (s *IncomeService) GetByID(ctx context.Context, id int64) (core.Income, error) {
	return s.repo.GetIncome(ctx, id)
}

// GetAllForMonth returns every income record owned by a month. An empty
// month is surfaced as a typed not-found error, by design.
func (s *IncomeService) GetAllForMonth(ctx context.Context, month core.Month) ([]core.Income, error) {
	incomes, err := s.repo.ListIncomesByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	if len(incomes) == 0 {
		return nil, &core.NotFoundError{Resource: core.ResourceIncome, Month: month}
	}
	return incomes, nil
}

// Update replaces an income record's fields and reapplies the (old, new)
// pair to the affected budget(s), all inside one transaction.
func (s *IncomeService) Update(ctx context.Context, id int64, in core.Income) (core.Income, error) {
	var old, updated core.Income
	err := s.repo.InTx(ctx, func(q *storage.Queries) error {
		var err error
		old, err = q.GetIncome(ctx, id)
		if err != nil {
			return err
		}
		updated = in
		updated.ID = id
		if err := q.UpdateIncome(ctx, updated); err != nil {
			return err
		}
		return s.sync.Reapply(ctx, q,
			Entry{Amount: old.Amount, Month: old.Month},
			Entry{Amount: updated.Amount, Month: updated.Month})
	})
	if err != nil {
		return core.Income{}, err
	}

	slog.InfoContext(ctx, "Income updated",
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

// Delete retracts an income record from its budget and removes it, both
// inside one transaction.
func (s *IncomeService) Delete(ctx context.Context, id int64) error {
	var old core.Income
	err := s.repo.InTx(ctx, func(q *storage.Queries) error {
		var err error
		old, err = q.GetIncome(ctx, id)
		if err != nil {
			return err
		}
		if err := s.sync.Retract(ctx, q, Entry{Amount: old.Amount, Month: old.Month}); err != nil {
			return err
		}
		return q.DeleteIncome(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Income deleted", "id", id, "month", old.Month.String())
	invalidateBudget(s.budgets, old.Month)
	publishBudgetEvent(ctx, s.events, amqp.NewBudgetUpdated(old.Month.String()))
	return nil
}

// invalidateBudget drops the month's cached budget after a committed write.
func invalidateBudget(budgets *cache.BudgetCache, month core.Month) {
	if budgets == nil {
		return
	}
	budgets.Invalidate(month)
}

// publishBudgetEvent publishes best-effort: the write already committed, so
// a broker failure is logged and never fails the request.
func publishBudgetEvent(ctx context.Context, events *amqp.Client, ev *amqp.BudgetEvent) {
	if events == nil {
		return
	}
	if err := events.PublishBudgetEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget event",
			"error", err,
			"event", ev.Event,
			"month", ev.Month)
	}
}
