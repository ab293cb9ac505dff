package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "budgetbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCreateIncomeSynchronizesBudget(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	incomes := NewIncomeService(repo, nil, nil)
	jan := month(t, "2000-01")

	created, err := incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "SALARY", created.Name)

	b, err := repo.GetBudgetByMonth(ctx, jan)
	require.NoError(t, err)
	assertTotals(t, b, "1000.00", "0.00", "1000.00")
}

func TestIncomeAndExpenseShareOneBudgetRow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	incomes := NewIncomeService(repo, nil, nil)
	expenses := NewExpenseService(repo, nil, nil)
	jan := month(t, "2000-01")

	_, err := incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)
	_, err = expenses.Create(ctx, core.NewExpense("rent", "housing", core.Recurring, gbp(t, "500.00"), jan))
	require.NoError(t, err)
	_, err = incomes.Create(ctx, core.NewIncome("bonus", "employer", core.OneTime, gbp(t, "1000.00"), jan))
	require.NoError(t, err)

	b, err := repo.GetBudgetByMonth(ctx, jan)
	require.NoError(t, err)
	assertTotals(t, b, "2000.00", "500.00", "1500.00")
}

func TestUpdateExpenseAcrossMonths(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	expenses := NewExpenseService(repo, nil, nil)
	jan := month(t, "2000-01")
	dec := month(t, "1999-12")

	created, err := expenses.Create(ctx, core.NewExpense("rent", "housing", core.Recurring, gbp(t, "500.00"), jan))
	require.NoError(t, err)

	_, err = expenses.Update(ctx, created.ID,
		core.NewExpense("rent", "housing", core.Recurring, gbp(t, "750.00"), dec))
	require.NoError(t, err)

	janBudget, err := repo.GetBudgetByMonth(ctx, jan)
	require.NoError(t, err)
	assertTotals(t, janBudget, "0.00", "0.00", "0.00")

	decBudget, err := repo.GetBudgetByMonth(ctx, dec)
	require.NoError(t, err)
	assertTotals(t, decBudget, "0.00", "750.00", "-750.00")

	moved, err := expenses.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, dec, moved.Month)
}

func TestDeleteIncomeRetractsFromBudget(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	incomes := NewIncomeService(repo, nil, nil)
	jan := month(t, "2000-01")

	created, err := incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)
	require.NoError(t, incomes.Delete(ctx, created.ID))

	b, err := repo.GetBudgetByMonth(ctx, jan)
	require.NoError(t, err)
	assertTotals(t, b, "0.00", "0.00", "0.00")

	_, err = incomes.GetByID(ctx, created.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestDeleteRollsBackWhenBudgetMissing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	incomes := NewIncomeService(repo, nil, nil)
	budgets := NewBudgetService(repo, nil, nil)
	jan := month(t, "2000-01")

	created, err := incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)

	// Remove the budget out from under the record; budget deletion does not
	// cascade to transactions.
	b, err := budgets.GetByMonth(ctx, jan)
	require.NoError(t, err)
	require.NoError(t, budgets.Delete(ctx, b.ID))

	err = incomes.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))

	// The whole transaction rolled back: the income record is still there.
	still, err := incomes.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, still.ID)
}

func TestCreateInForeignCurrencyFailsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	incomes := NewIncomeService(repo, nil, nil)
	jan := month(t, "2000-01")

	_, err := incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)

	// January's budget holds GBP, so a USD record must be rejected as a
	// typed error, not persisted, and must not poison the connection.
	usd, err := core.ParseMoney("100.00", core.USD)
	require.NoError(t, err)
	_, err = incomes.Create(ctx, core.NewIncome("contract", "client", core.OneTime, usd, jan))
	require.ErrorIs(t, err, core.ErrCurrencyMismatch)

	list, err := incomes.GetAllForMonth(ctx, jan)
	require.NoError(t, err)
	assert.Len(t, list, 1, "rejected record must have been rolled back")

	b, err := repo.GetBudgetByMonth(ctx, jan)
	require.NoError(t, err)
	assertTotals(t, b, "1000.00", "0.00", "1000.00")

	// A follow-up valid write still goes through.
	_, err = incomes.Create(ctx, core.NewIncome("bonus", "employer", core.OneTime, gbp(t, "50.00"), jan))
	require.NoError(t, err)
}

func TestGetAllForMonthEmptyIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	incomes := NewIncomeService(repo, nil, nil)
	expenses := NewExpenseService(repo, nil, nil)
	jan := month(t, "2000-01")

	_, err := incomes.GetAllForMonth(ctx, jan)
	assert.True(t, core.IsNotFound(err))
	_, err = expenses.GetAllForMonth(ctx, jan)
	assert.True(t, core.IsNotFound(err))

	_, err = incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)

	list, err := incomes.GetAllForMonth(ctx, jan)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCachedBudgetReadsSeeCommittedWrites(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	bc := cache.NewBudgetCache()
	incomes := NewIncomeService(repo, nil, bc)
	budgets := NewBudgetService(repo, nil, bc)
	jan := month(t, "2000-01")

	_, err := incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)

	// Prime the cache, then read again to hit it.
	first, err := budgets.GetByMonth(ctx, jan)
	require.NoError(t, err)
	second, err := budgets.GetByMonth(ctx, jan)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A new write invalidates the month, so the next read is fresh.
	_, err = incomes.Create(ctx, core.NewIncome("bonus", "employer", core.OneTime, gbp(t, "500.00"), jan))
	require.NoError(t, err)

	fresh, err := budgets.GetByMonth(ctx, jan)
	require.NoError(t, err)
	assertTotals(t, fresh, "1500.00", "0.00", "1500.00")
}

func TestBudgetServiceLookups(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	incomes := NewIncomeService(repo, nil, nil)
	budgets := NewBudgetService(repo, nil, nil)
	jan := month(t, "2000-01")

	_, err := budgets.GetByMonth(ctx, jan)
	assert.True(t, core.IsNotFound(err))

	_, err = incomes.Create(ctx, core.NewIncome("salary", "employer", core.Recurring, gbp(t, "1000.00"), jan))
	require.NoError(t, err)

	byMonth, err := budgets.GetByMonth(ctx, jan)
	require.NoError(t, err)
	byID, err := budgets.GetByID(ctx, byMonth.ID)
	require.NoError(t, err)
	assert.Equal(t, byMonth.Month, byID.Month)

	_, err = budgets.GetByID(ctx, 9999)
	assert.True(t, core.IsNotFound(err))
}
