package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/ewout/pocketledger/internal/query"
)

// AccountRepo handles accounts and their exchange rates.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Create(ctx context.Context, a Account) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(label, currency, color, sealed, opening_balance)
	VALUES (?, ?, ?, ?, ?);
	`, a.Label, a.Currency, a.Color, a.Sealed, a.OpeningBalance)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *AccountRepo) Get(ctx context.Context, id int64) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT _id, label, currency, color, sealed, opening_balance FROM accounts WHERE _id = ?`, id)
	var a Account
	if err := row.Scan(&a.ID, &a.Label, &a.Currency, &a.Color, &a.Sealed, &a.OpeningBalance); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// SetSealed closes or reopens an account for writes.
func (r *AccountRepo) SetSealed(ctx context.Context, id int64, sealed bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET sealed = ? WHERE _id = ?`, sealed, id)
	return err
}

// SetExchangeRate stores the conversion rate from the account's currency into
// another, replacing any previous rate for the pair.
func (r *AccountRepo) SetExchangeRate(ctx context.Context, accountID int64, currencySelf, currencyOther string, rate decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO account_exchangerates(account_id, currency_self, currency_other, exchange_rate)
	VALUES (?, ?, ?, ?);
	`, accountID, currencySelf, currencyOther, rate.InexactFloat64())
	return err
}

// Summaries is the account overview: one row per account with aggregates
// over its committed transactions, zeroed for empty accounts.
func (r *AccountRepo) Summaries(ctx context.Context, homeCurrency string, futureStartsNow bool) ([]AccountSummary, error) {
	rows, err := r.db.QueryContext(ctx, query.AccountSummaryQuery(homeCurrency, futureStartsNow))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountSummary
	for rows.Next() {
		var s AccountSummary
		if err := rows.Scan(
			&s.ID, &s.Label, &s.Currency, &s.Color, &s.Sealed, &s.OpeningBalance,
			&s.Total, &s.EquivalentTotal, &s.SumIncome, &s.SumExpenses, &s.SumTransfers,
			&s.CurrentBalance, &s.TotalBalance, &s.ClearedTotal, &s.ReconciledTotal,
			&s.HasCleared, &s.HasFuture, &s.EquivalentCurrent,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
