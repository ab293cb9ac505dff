package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budgetbook/internal/core"
)

const incomeColumns = `id, name, source, type, amount, currency, month`

// CreateIncome persists a new income record and returns it with its
// server-assigned id.
func (q *Queries) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO incomes (name, source, type, amount, currency, month) VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Source, string(in.Type),
		in.Amount.Amount().StringFixedBank(2), string(in.Amount.Currency()), in.Month.String())
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	in.ID = id
	return in, nil
}

// GetIncome looks an income record up by id.
func (q *Queries) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE id = ?`, id)
	in, err := scanIncome(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, &core.NotFoundError{Resource: core.ResourceIncome, ID: id}
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income %d: %w", id, err)
	}
	return in, nil
}

// ListIncomesByMonth returns all income records owned by a month, oldest
// first. An empty month yields an empty slice; the service layer decides
// whether that is an error.
func (q *Queries) ListIncomesByMonth(ctx context.Context, month core.Month) ([]core.Income, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE month = ? ORDER BY id`, month.String())
	if err != nil {
		return nil, fmt.Errorf("list incomes for %s: %w", month, err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		in, err := scanIncome(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list incomes for %s: %w", month, err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incomes for %s: %w", month, err)
	}
	return out, nil
}

// UpdateIncome writes back every mutable field of an income record.
func (q *Queries) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE incomes SET name = ?, source = ?, type = ?, amount = ?, currency = ?, month = ? WHERE id = ?`,
		in.Name, in.Source, string(in.Type),
		in.Amount.Amount().StringFixedBank(2), string(in.Amount.Currency()), in.Month.String(), in.ID)
	if err != nil {
		return fmt.Errorf("update income %d: %w", in.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update income %d: %w", in.ID, err)
	}
	if n == 0 {
		return &core.NotFoundError{Resource: core.ResourceIncome, ID: in.ID}
	}
	return nil
}

// DeleteIncome removes an income record by id.
func (q *Queries) DeleteIncome(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	if n == 0 {
		return &core.NotFoundError{Resource: core.ResourceIncome, ID: id}
	}
	return nil
}

func scanIncome(scan func(...any) error) (core.Income, error) {
	var (
		in                      core.Income
		typ, amt, cur, monthStr string
	)
	if err := scan(&in.ID, &in.Name, &in.Source, &typ, &amt, &cur, &monthStr); err != nil {
		return core.Income{}, err
	}
	in.Type = core.TransactionType(typ)
	month, err := core.ParseMonth(monthStr)
	if err != nil {
		return core.Income{}, err
	}
	in.Month = month
	amount, err := core.ParseMoney(amt, core.Currency(cur))
	if err != nil {
		return core.Income{}, err
	}
	in.Amount = amount
	return in, nil
}
