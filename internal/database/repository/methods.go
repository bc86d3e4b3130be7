package repository

import (
	"context"
	"database/sql"
)

// MethodRepo handles payment methods.
type MethodRepo struct {
	db *sql.DB
}

func NewMethodRepo(db *sql.DB) *MethodRepo { return &MethodRepo{db: db} }

func (r *MethodRepo) Create(ctx context.Context, m Method) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO paymentmethods(label, icon) VALUES (?, ?)`, m.Label, m.Icon)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *MethodRepo) List(ctx context.Context) ([]Method, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT _id, label, icon FROM paymentmethods ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Method
	for rows.Next() {
		var m Method
		if err := rows.Scan(&m.ID, &m.Label, &m.Icon); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
