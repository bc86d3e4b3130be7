package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ewout/pocketledger/internal/database/repository"
	"github.com/ewout/pocketledger/internal/query"
)

func intp(v int) *int { return &v }

func TestBudgetAllocationRoundTripAndFallback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepo(db)
	budgets := repository.NewBudgetRepo(db)

	cat, err := categories.Create(ctx, "Food", nil)
	require.NoError(t, err)
	budget, err := budgets.Create(ctx, repository.Budget{Title: "household"})
	require.NoError(t, err)

	roll := int64(50)
	require.NoError(t, budgets.SetAllocation(ctx, repository.BudgetAllocation{
		BudgetID: budget, CatID: &cat, Year: intp(2023), SecondGroup: intp(5),
		Budget: 1000, RolloverNext: &roll,
	}))

	// exact period
	a, err := budgets.Allocation(ctx, budget, cat, intp(2023), intp(5))
	require.NoError(t, err)
	require.NotNil(t, a)
	require.EqualValues(t, 1000, a.Budget)
	require.NotNil(t, a.RolloverNext)
	require.EqualValues(t, 50, *a.RolloverNext)

	// later period falls back to the recurring amount, without the rollover
	a, err = budgets.Allocation(ctx, budget, cat, intp(2024), intp(3))
	require.NoError(t, err)
	require.NotNil(t, a)
	require.EqualValues(t, 1000, a.Budget)
	require.Nil(t, a.RolloverNext)

	// replacing the same period keeps one row
	require.NoError(t, budgets.SetAllocation(ctx, repository.BudgetAllocation{
		BudgetID: budget, CatID: &cat, Year: intp(2023), SecondGroup: intp(5), Budget: 1500,
	}))
	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT count(*) FROM budget_allocations`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestBudgetAllocationMissingIsNil(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepo(db)
	budgets := repository.NewBudgetRepo(db)

	cat, err := categories.Create(ctx, "Food", nil)
	require.NoError(t, err)
	budget, err := budgets.Create(ctx, repository.Budget{Title: "household"})
	require.NoError(t, err)

	a, err := budgets.Allocation(ctx, budget, cat, intp(2024), intp(3))
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestBudgetTreeDecoration(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepo(db)
	budgets := repository.NewBudgetRepo(db)

	food, err := categories.Create(ctx, "Food", nil)
	require.NoError(t, err)
	groceries, err := categories.Create(ctx, "Groceries", &food)
	require.NoError(t, err)
	budget, err := budgets.Create(ctx, repository.Budget{Title: "household"})
	require.NoError(t, err)
	require.NoError(t, budgets.SetAllocation(ctx, repository.BudgetAllocation{
		BudgetID: budget, CatID: &groceries, Year: intp(2024), SecondGroup: intp(3), Budget: 1200,
	}))

	rows, err := budgets.Tree(ctx, budget, query.TreeSpec{}, intp(2024), intp(3))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[int64]repository.BudgetTreeRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	require.NotNil(t, byID[groceries].Budget)
	require.EqualValues(t, 1200, *byID[groceries].Budget)
	require.Nil(t, byID[food].Budget)
}
