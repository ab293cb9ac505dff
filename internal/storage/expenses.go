package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budgetbook/internal/core"
)

const expenseColumns = `id, name, category, type, amount, currency, month`

// CreateExpense persists a new expense record and returns it with its
// server-assigned id.
func (q *Queries) CreateExpense(ctx context.Context, ex core.Expense) (core.Expense, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO expenses (name, category, type, amount, currency, month) VALUES (?, ?, ?, ?, ?, ?)`,
		ex.Name, ex.Category, string(ex.Type),
		ex.Amount.Amount().StringFixedBank(2), string(ex.Amount.Currency()), ex.Month.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	ex.ID = id
	return ex, nil
}

// GetExpense looks an expense record up by id.
func (q *Queries) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	ex, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, &core.NotFoundError{Resource: core.ResourceExpense, ID: id}
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return ex, nil
}

// ListExpensesByMonth returns all expense records owned by a month, oldest
// first.
func (q *Queries) ListExpensesByMonth(ctx context.Context, month core.Month) ([]core.Expense, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE month = ? ORDER BY id`, month.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses for %s: %w", month, err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		ex, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list expenses for %s: %w", month, err)
		}
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses for %s: %w", month, err)
	}
	return out, nil
}

// UpdateExpense writes back every mutable field of an expense record.
func (q *Queries) UpdateExpense(ctx context.Context, ex core.Expense) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE expenses SET name = ?, category = ?, type = ?, amount = ?, currency = ?, month = ? WHERE id = ?`,
		ex.Name, ex.Category, string(ex.Type),
		ex.Amount.Amount().StringFixedBank(2), string(ex.Amount.Currency()), ex.Month.String(), ex.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", ex.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense %d: %w", ex.ID, err)
	}
	if n == 0 {
		return &core.NotFoundError{Resource: core.ResourceExpense, ID: ex.ID}
	}
	return nil
}

// DeleteExpense removes an expense record by id.
func (q *Queries) DeleteExpense(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		return &core.NotFoundError{Resource: core.ResourceExpense, ID: id}
	}
	return nil
}

func scanExpense(scan func(...any) error) (core.Expense, error) {
	var (
		ex                      core.Expense
		typ, amt, cur, monthStr string
	)
	if err := scan(&ex.ID, &ex.Name, &ex.Category, &typ, &amt, &cur, &monthStr); err != nil {
		return core.Expense{}, err
	}
	ex.Type = core.TransactionType(typ)
	month, err := core.ParseMonth(monthStr)
	if err != nil {
		return core.Expense{}, err
	}
	ex.Month = month
	amount, err := core.ParseMoney(amt, core.Currency(cur))
	if err != nil {
		return core.Expense{}, err
	}
	ex.Amount = amount
	return ex, nil
}
