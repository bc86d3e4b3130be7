package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ewout/pocketledger/internal/database/repository"
	"github.com/ewout/pocketledger/internal/query"
	"github.com/ewout/pocketledger/internal/schema"
)

func TestCategoryMoveRefusesCycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryRepo(db)

	food, err := repo.Create(ctx, "Food", nil)
	require.NoError(t, err)
	groceries, err := repo.Create(ctx, "Groceries", &food)
	require.NoError(t, err)
	veg, err := repo.Create(ctx, "Veg", &groceries)
	require.NoError(t, err)

	require.ErrorIs(t, repo.Move(ctx, food, &veg), repository.ErrWouldCreateCycle)
	require.ErrorIs(t, repo.Move(ctx, food, &food), repository.ErrWouldCreateCycle)

	// a legal move still works
	income, err := repo.Create(ctx, "Income", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Move(ctx, veg, &income))

	path, err := repo.Path(ctx, veg)
	require.NoError(t, err)
	require.Equal(t, "Income > Veg", path)
}

func TestCategoryMoveToRoot(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryRepo(db)

	food, err := repo.Create(ctx, "Food", nil)
	require.NoError(t, err)
	groceries, err := repo.Create(ctx, "Groceries", &food)
	require.NoError(t, err)

	require.NoError(t, repo.Move(ctx, groceries, nil))
	path, err := repo.Path(ctx, groceries)
	require.NoError(t, err)
	require.Equal(t, "Groceries", path)
}

func TestCategoryMappedObjects(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryRepo(db)
	accounts := repository.NewAccountRepo(db)
	transactions := repository.NewTransactionRepo(db)

	food, err := repo.Create(ctx, "Food", nil)
	require.NoError(t, err)
	groceries, err := repo.Create(ctx, "Groceries", &food)
	require.NoError(t, err)
	income, err := repo.Create(ctx, "Income", nil)
	require.NoError(t, err)

	acct, err := accounts.Create(ctx, repository.Account{Label: "Checking", Currency: "EUR"})
	require.NoError(t, err)
	_, err = transactions.Insert(ctx, repository.Transaction{
		AccountID: acct, CatID: &groceries, Amount: -500, Date: time.Now().Unix(),
	})
	require.NoError(t, err)

	// the transaction sits on a descendant, so the root reports it too
	m, err := repo.MappedObjects(ctx, food)
	require.NoError(t, err)
	require.True(t, m.HasTransactions)
	require.True(t, m.HasDescendants)
	require.False(t, m.HasTemplates)
	require.False(t, m.HasBudgets)

	m, err = repo.MappedObjects(ctx, income)
	require.NoError(t, err)
	require.False(t, m.HasTransactions)
	require.False(t, m.HasDescendants)
}

func TestCategoryMappedObjectsIgnoresUncommitted(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryRepo(db)
	accounts := repository.NewAccountRepo(db)
	transactions := repository.NewTransactionRepo(db)

	cat, err := repo.Create(ctx, "Food", nil)
	require.NoError(t, err)
	acct, err := accounts.Create(ctx, repository.Account{Label: "Checking", Currency: "EUR"})
	require.NoError(t, err)

	_, err = transactions.Insert(ctx, repository.Transaction{
		AccountID: acct, CatID: &cat, Amount: -500, Date: time.Now().Unix(),
		Status: schema.StatusUncommitted,
	})
	require.NoError(t, err)

	m, err := repo.MappedObjects(ctx, cat)
	require.NoError(t, err)
	require.False(t, m.HasTransactions, "rows still being edited must not block a delete")

	m, err = repo.MappedObjectsForSelection(ctx, "label = ?", "Food")
	require.NoError(t, err)
	require.False(t, m.HasTransactions)
}

func TestCategoryTreeAndMarkUsed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryRepo(db)

	food, err := repo.Create(ctx, "Food", nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Groceries", &food)
	require.NoError(t, err)

	rows, err := repo.Tree(ctx, query.TreeSpec{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	when := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkUsed(ctx, food, when))
	c, err := repo.Get(ctx, food)
	require.NoError(t, err)
	require.EqualValues(t, 1, c.Usages)
	require.NotNil(t, c.LastUsed)
	require.Equal(t, when.Unix(), *c.LastUsed)
}
