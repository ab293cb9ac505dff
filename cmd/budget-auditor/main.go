package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"budgetbook/internal/amqp"
	"budgetbook/internal/cli"
	"budgetbook/internal/log"
	"budgetbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentAuditor)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	events := cli.InitAMQP(logger, cfg)
	if events == nil {
		logger.Error("Auditor requires AMQP_URL to consume budget events")
		os.Exit(1)
	}
	defer events.Close()

	auditor := worker.NewAuditor(repo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up on anything modified while the auditor was down.
	if err := auditor.AuditAll(ctx); err != nil {
		logger.Error("Startup audit found problems", log.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return events.ConsumeBudgetEvents(ctx, func(ev *amqp.BudgetEvent) error {
			return auditor.HandleBudgetEvent(ctx, ev)
		})
	})

	g.Go(func() error {
		return auditor.Run(ctx, cfg.AuditInterval)
	})

	logger.Info("Starting budget auditor", "audit_interval", cfg.AuditInterval.String())
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Auditor error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Auditor stopped gracefully")
}
