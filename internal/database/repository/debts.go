package repository

import (
	"context"
	"database/sql"

	"github.com/ewout/pocketledger/internal/query"
)

// DebtRepo handles debts.
type DebtRepo struct {
	db *sql.DB
}

func NewDebtRepo(db *sql.DB) *DebtRepo { return &DebtRepo{db: db} }

func (r *DebtRepo) Create(ctx context.Context, d Debt) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO debts(payee_id, label, description, amount, currency, date, equivalent_amount, sealed)
	VALUES (?, ?, ?, ?, ?, ?, ?, 0);
	`, d.PayeeID, d.Label, d.Description, d.Amount, d.Currency, d.Date, d.EquivalentAmount)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *DebtRepo) Get(ctx context.Context, id int64) (*Debt, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT _id, payee_id, label, description, amount, currency, date, equivalent_amount, sealed
	FROM debts WHERE _id = ?`, id)
	var d Debt
	if err := row.Scan(&d.ID, &d.PayeeID, &d.Label, &d.Description, &d.Amount,
		&d.Currency, &d.Date, &d.EquivalentAmount, &d.Sealed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DebtRepo) List(ctx context.Context, includeSealed bool) ([]Debt, error) {
	q := `SELECT _id, payee_id, label, description, amount, currency, date, equivalent_amount, sealed FROM debts`
	if !includeSealed {
		q += ` WHERE sealed = 0`
	}
	q += ` ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Debt
	for rows.Next() {
		var d Debt
		if err := rows.Scan(&d.ID, &d.PayeeID, &d.Label, &d.Description, &d.Amount,
			&d.Currency, &d.Date, &d.EquivalentAmount, &d.Sealed); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetSealed closes or reopens a debt; linked transactions stay untouched.
func (r *DebtRepo) SetSealed(ctx context.Context, id int64, sealed bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE debts SET sealed = ? WHERE _id = ?`, sealed, id)
	return err
}

// Delete removes a debt; a sealed debt must be reopened first. Linked
// transactions keep their rows, losing only the debt link.
func (r *DebtRepo) Delete(ctx context.Context, id int64) error {
	var sealed bool
	if err := r.db.QueryRowContext(ctx, `SELECT sealed FROM debts WHERE _id = ?`, id).Scan(&sealed); err != nil {
		return err
	}
	if sealed {
		return ErrDebtSealed
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE _id = ?`, id)
	return err
}

// Entries lists the committed transactions linked to a debt, oldest first,
// amounts resolved into the home currency.
func (r *DebtRepo) Entries(ctx context.Context, debtID int64, homeCurrency string) ([]DebtEntry, error) {
	rows, err := r.db.QueryContext(ctx, query.DebtTransactionsQuery(homeCurrency), debtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DebtEntry
	for rows.Next() {
		var e DebtEntry
		if err := rows.Scan(&e.TransactionID, &e.Date, &e.Amount, &e.EquivalentAmount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
