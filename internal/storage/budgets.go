package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

const budgetColumns = `id, month, currency, total_income, total_expense, savings, created_at, updated_at`

// GetBudget looks a budget up by id.
func (q *Queries) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, &core.NotFoundError{Resource: core.ResourceBudget, ID: id}
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

// GetBudgetByMonth looks the month's budget up; months have at most one.
func (q *Queries) GetBudgetByMonth(ctx context.Context, month core.Month) (core.Budget, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE month = ?`, month.String())
	b, err := scanBudget(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, &core.NotFoundError{Resource: core.ResourceBudget, Month: month}
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget for %s: %w", month, err)
	}
	return b, nil
}

// InsertBudget persists a new budget row. A racing insert for the same month
// fails on the unique month index; that error propagates unchanged.
func (q *Queries) InsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO budgets (month, currency, total_income, total_expense, savings, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Month.String(), string(b.Currency),
		b.TotalIncome.StringFixedBank(2), b.TotalExpense.StringFixedBank(2), b.Savings.StringFixedBank(2),
		now, now)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget for %s: %w", b.Month, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget for %s: %w", b.Month, err)
	}
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// UpdateBudgetTotals writes back the totals of an already-loaded budget.
func (q *Queries) UpdateBudgetTotals(ctx context.Context, b core.Budget) error {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`UPDATE budgets SET total_income = ?, total_expense = ?, savings = ?, updated_at = ? WHERE id = ?`,
		b.TotalIncome.StringFixedBank(2), b.TotalExpense.StringFixedBank(2), b.Savings.StringFixedBank(2),
		now, b.ID)
	if err != nil {
		return fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	if n == 0 {
		return &core.NotFoundError{Resource: core.ResourceBudget, ID: b.ID}
	}
	return nil
}

// ListBudgets returns every budget ordered by month.
func (q *Queries) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []core.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list budgets: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget row. Transaction records referencing its
// month are left untouched.
func (q *Queries) DeleteBudget(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	if n == 0 {
		return &core.NotFoundError{Resource: core.ResourceBudget, ID: id}
	}
	return nil
}

func scanBudget(scan func(...any) error) (core.Budget, error) {
	var (
		b                             core.Budget
		month, currency               string
		totalIncome, totalExp, saving string
	)
	if err := scan(&b.ID, &month, &currency, &totalIncome, &totalExp, &saving, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return core.Budget{}, err
	}
	m, err := core.ParseMonth(month)
	if err != nil {
		return core.Budget{}, err
	}
	b.Month = m
	b.Currency = core.Currency(currency)
	if b.TotalIncome, err = decimal.NewFromString(totalIncome); err != nil {
		return core.Budget{}, fmt.Errorf("scan total_income: %w", err)
	}
	if b.TotalExpense, err = decimal.NewFromString(totalExp); err != nil {
		return core.Budget{}, fmt.Errorf("scan total_expense: %w", err)
	}
	if b.Savings, err = decimal.NewFromString(saving); err != nil {
		return core.Budget{}, fmt.Errorf("scan savings: %w", err)
	}
	return b, nil
}
