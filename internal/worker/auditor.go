// Package worker audits budget consistency in response to budget events and
// on a periodic sweep.
package worker

import (
	"context"
	"fmt"
	"time"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/log"
	"budgetbook/internal/storage"
)

// Auditor verifies that persisted budgets still satisfy the savings
// identity. The synchronizer maintains it by construction, so a violation
// means the row was modified out of band.
type Auditor struct {
	repo   *storage.Repository
	logger *log.Logger
}

func NewAuditor(repo *storage.Repository, logger *log.Logger) *Auditor {
	return &Auditor{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentAuditor),
	}
}

// HandleBudgetEvent audits the budget named by one event. Violations are
// logged, not returned: requeueing cannot repair a corrupted row.
func (a *Auditor) HandleBudgetEvent(ctx context.Context, ev *amqp.BudgetEvent) error {
	month, err := core.ParseMonth(ev.Month)
	if err != nil {
		return fmt.Errorf("event month %q: %w", ev.Month, err)
	}

	switch ev.Event {
	case amqp.EventBudgetDeleted:
		a.logger.InfoContext(ctx, "Budget deleted, nothing to audit", log.FieldMonth, ev.Month)
		return nil
	case amqp.EventBudgetUpdated:
		b, err := a.repo.GetBudgetByMonth(ctx, month)
		if core.IsNotFound(err) {
			// The budget may have been deleted between publish and delivery.
			a.logger.WarnContext(ctx, "Budget gone before audit", log.FieldMonth, ev.Month)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load budget for %s: %w", ev.Month, err)
		}
		a.audit(ctx, b)
		return nil
	default:
		return fmt.Errorf("unknown event %q", ev.Event)
	}
}

// Run sweeps every budget at the given interval until ctx ends.
func (a *Auditor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.InfoContext(ctx, "Auditor sweep stopped", log.FieldError, ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := a.AuditAll(ctx); err != nil {
				a.logger.ErrorContext(ctx, "Audit sweep failed", log.FieldError, err)
			}
		}
	}
}

// AuditAll checks every persisted budget and returns the number found
// inconsistent via the error, nil when all hold.
func (a *Auditor) AuditAll(ctx context.Context) error {
	budgets, err := a.repo.ListBudgets(ctx)
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}

	violations := 0
	for _, b := range budgets {
		if !a.audit(ctx, b) {
			violations++
		}
	}

	a.logger.InfoContext(ctx, "Audit sweep completed",
		"budgets", len(budgets),
		"violations", violations)
	if violations > 0 {
		return fmt.Errorf("%d of %d budgets inconsistent", violations, len(budgets))
	}
	return nil
}

func (a *Auditor) audit(ctx context.Context, b core.Budget) bool {
	if err := b.ConsistencyCheck(); err != nil {
		a.logger.ErrorContext(ctx, "Budget consistency violation",
			log.FieldError, err,
			log.FieldMonth, b.Month.String(),
			log.FieldRecordID, b.ID)
		return false
	}
	return true
}
