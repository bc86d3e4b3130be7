package repository

import (
	"context"
	"database/sql"
)

// PayeeRepo handles payees.
type PayeeRepo struct {
	db *sql.DB
}

func NewPayeeRepo(db *sql.DB) *PayeeRepo { return &PayeeRepo{db: db} }

// Ensure returns the id for a payee name, creating the row if needed.
func (r *PayeeRepo) Ensure(ctx context.Context, name string) (int64, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO payee(name) VALUES (?)`, name); err != nil {
		return 0, err
	}
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT _id FROM payee WHERE name = ?`, name).Scan(&id)
	return id, err
}

func (r *PayeeRepo) Get(ctx context.Context, id int64) (*Payee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT _id, name FROM payee WHERE _id = ?`, id)
	var p Payee
	if err := row.Scan(&p.ID, &p.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PayeeRepo) List(ctx context.Context) ([]Payee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT _id, name FROM payee ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payee
	for rows.Next() {
		var p Payee
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
