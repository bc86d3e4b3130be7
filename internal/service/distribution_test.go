package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ewout/pocketledger/internal/database/repository"
	"github.com/ewout/pocketledger/internal/schema"
	"github.com/ewout/pocketledger/internal/service"
)

func TestDistributionRollsUpSubtrees(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepo(db)
	accounts := repository.NewAccountRepo(db)
	transactions := repository.NewTransactionRepo(db)
	svc := &service.DistributionService{Categories: categories, Transactions: transactions}

	food, err := categories.Create(ctx, "Food", nil)
	require.NoError(t, err)
	groceries, err := categories.Create(ctx, "Groceries", &food)
	require.NoError(t, err)
	eatingOut, err := categories.Create(ctx, "Eating out", &food)
	require.NoError(t, err)

	acct, err := accounts.Create(ctx, repository.Account{Label: "Checking", Currency: "EUR"})
	require.NoError(t, err)
	now := time.Now().Unix()
	for _, txn := range []repository.Transaction{
		{AccountID: acct, CatID: &food, Amount: -100, Date: now},
		{AccountID: acct, CatID: &groceries, Amount: -500, Date: now},
		{AccountID: acct, CatID: &eatingOut, Amount: -200, Date: now},
	} {
		_, err = transactions.Insert(ctx, txn)
		require.NoError(t, err)
	}

	rows, err := svc.Report(ctx, 0)
	require.NoError(t, err)

	byLabel := map[string]service.DistributionRow{}
	for _, r := range rows {
		byLabel[r.Label] = r
	}
	require.EqualValues(t, -100, byLabel["Food"].Direct)
	require.EqualValues(t, -800, byLabel["Food"].Total)
	require.EqualValues(t, -500, byLabel["Groceries"].Direct)
	require.EqualValues(t, -500, byLabel["Groceries"].Total)
	require.EqualValues(t, 1, byLabel["Food"].Level)
	require.EqualValues(t, 2, byLabel["Groceries"].Level)
}

func TestDistributionRollsUpThroughIntermediateLevels(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepo(db)
	accounts := repository.NewAccountRepo(db)
	transactions := repository.NewTransactionRepo(db)
	svc := &service.DistributionService{Categories: categories, Transactions: transactions}

	food, err := categories.Create(ctx, "Food", nil)
	require.NoError(t, err)
	groceries, err := categories.Create(ctx, "Groceries", &food)
	require.NoError(t, err)
	veg, err := categories.Create(ctx, "Veg", &groceries)
	require.NoError(t, err)

	acct, err := accounts.Create(ctx, repository.Account{Label: "Checking", Currency: "EUR"})
	require.NoError(t, err)
	now := time.Now().Unix()
	for _, txn := range []repository.Transaction{
		{AccountID: acct, CatID: &veg, Amount: -1000, Date: now},
		{AccountID: acct, CatID: &groceries, Amount: -200, Date: now},
		{AccountID: acct, CatID: &food, Amount: -100, Date: now},
	} {
		_, err = transactions.Insert(ctx, txn)
		require.NoError(t, err)
	}

	rows, err := svc.Report(ctx, 0)
	require.NoError(t, err)

	byLabel := map[string]service.DistributionRow{}
	for _, r := range rows {
		byLabel[r.Label] = r
	}
	// a grandchild's expenses must reach the top-level category
	require.EqualValues(t, -1000, byLabel["Veg"].Total)
	require.EqualValues(t, -1200, byLabel["Groceries"].Total)
	require.EqualValues(t, -1300, byLabel["Food"].Total)
	require.EqualValues(t, -100, byLabel["Food"].Direct)
}

func TestDistributionIgnoresIncomeVoidAndOtherAccounts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepo(db)
	accounts := repository.NewAccountRepo(db)
	transactions := repository.NewTransactionRepo(db)
	svc := &service.DistributionService{Categories: categories, Transactions: transactions}

	food, err := categories.Create(ctx, "Food", nil)
	require.NoError(t, err)
	acct, err := accounts.Create(ctx, repository.Account{Label: "Checking", Currency: "EUR"})
	require.NoError(t, err)
	other, err := accounts.Create(ctx, repository.Account{Label: "Savings", Currency: "EUR"})
	require.NoError(t, err)

	now := time.Now().Unix()
	_, err = transactions.Insert(ctx, repository.Transaction{
		AccountID: acct, CatID: &food, Amount: -300, Date: now,
	})
	require.NoError(t, err)
	// a refund is income shaped, not an expense
	_, err = transactions.Insert(ctx, repository.Transaction{
		AccountID: acct, CatID: &food, Amount: 150, Date: now,
	})
	require.NoError(t, err)
	id, err := transactions.Insert(ctx, repository.Transaction{
		AccountID: acct, CatID: &food, Amount: -999, Date: now,
	})
	require.NoError(t, err)
	require.NoError(t, transactions.UpdateStatus(ctx, id, schema.StatusVoid))
	_, err = transactions.Insert(ctx, repository.Transaction{
		AccountID: other, CatID: &food, Amount: -700, Date: now,
	})
	require.NoError(t, err)

	rows, err := svc.Report(ctx, acct)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, -300, rows[0].Total)

	all, err := svc.Report(ctx, 0)
	require.NoError(t, err)
	require.EqualValues(t, -1000, all[0].Total)
}
