package services

import (
	"context"
	"log/slog"

	"budgetbook/internal/amqp"
	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// BudgetService reads and deletes the derived monthly aggregates. Budgets
// are never created here; they come into existence through synchronization.
type BudgetService struct {
	repo    *storage.Repository
	events  *amqp.Client       // optional, nil disables event publishing
	budgets *cache.BudgetCache // optional read cache for month lookups
}

func NewBudgetService(repo *storage.Repository, events *amqp.Client, budgets *cache.BudgetCache) *BudgetService {
	return &BudgetService{repo: repo, events: events, budgets: budgets}
}

// GetByID returns a budget by id.
func (s *BudgetService) GetByID(ctx context.Context, id int64) (core.Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

// GetByMonth returns the budget for a month, served from cache when fresh.
func (s *BudgetService) GetByMonth(ctx context.Context, month core.Month) (core.Budget, error) {
	if s.budgets != nil {
		if b, ok := s.budgets.Get(month); ok {
			return b, nil
		}
	}
	b, err := s.repo.GetBudgetByMonth(ctx, month)
	if err != nil {
		return core.Budget{}, err
	}
	if s.budgets != nil {
		s.budgets.Set(b)
	}
	return b, nil
}

// Delete removes a budget row without touching the transaction records that
// reference its month.
//
// TODO: incomes and expenses for the month are left orphaned after this;
// cascade (or refusal while records exist) is a pending design decision.
func (s *BudgetService) Delete(ctx context.Context, id int64) error {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBudget(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Budget deleted", "id", id, "month", b.Month.String())
	invalidateBudget(s.budgets, b.Month)
	publishBudgetEvent(ctx, s.events, amqp.NewBudgetDeleted(b.Month.String()))
	return nil
}
