package repository

import (
	"context"
	"database/sql"
)

// TagRepo handles tags and their links to transactions and templates.
type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{db: db} }

// Ensure returns the id for a label, creating the tag if needed.
func (r *TagRepo) Ensure(ctx context.Context, label string) (int64, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO tags(label) VALUES (?)`, label); err != nil {
		return 0, err
	}
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT _id FROM tags WHERE label = ?`, label).Scan(&id)
	return id, err
}

func (r *TagRepo) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT _id, label FROM tags ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TagRepo) AttachTransaction(ctx context.Context, transactionID, tagID int64) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO transactions_tags(transaction_id, tag_id) VALUES (?, ?)`, transactionID, tagID)
	return err
}

func (r *TagRepo) DetachTransaction(ctx context.Context, transactionID, tagID int64) error {
	_, err := r.db.ExecContext(ctx, `
	DELETE FROM transactions_tags WHERE transaction_id = ? AND tag_id = ?`, transactionID, tagID)
	return err
}

func (r *TagRepo) AttachTemplate(ctx context.Context, templateID, tagID int64) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO templates_tags(template_id, tag_id) VALUES (?, ?)`, templateID, tagID)
	return err
}
