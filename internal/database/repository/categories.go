package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewout/pocketledger/internal/query"
	"github.com/ewout/pocketledger/internal/schema"
)

// CategoryRepo handles categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a category under parentID (nil for a root) and returns its
// row id.
func (r *CategoryRepo) Create(ctx context.Context, label string, parentID *int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO categories(parent_id, label, uuid) VALUES (?, ?, ?);
	`, parentID, label, uuid.NewString())
	if err != nil {
		return 0, fmt.Errorf("create category %q: %w", label, err)
	}
	return res.LastInsertId()
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT _id, parent_id, label, uuid, color, icon, usages, last_used FROM categories WHERE _id = ?`, id)
	var c Category
	if err := row.Scan(&c.ID, &c.ParentID, &c.Label, &c.UUID, &c.Color, &c.Icon, &c.Usages, &c.LastUsed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM categories`).Scan(&n)
	return n, err
}

// Tree unrolls the category forest selected by spec in depth-first order.
func (r *CategoryRepo) Tree(ctx context.Context, spec query.TreeSpec, args ...any) ([]TreeRow, error) {
	rows, err := r.db.QueryContext(ctx, query.CategoryTreeSelect(spec, nil, ""), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TreeRow
	for rows.Next() {
		var t TreeRow
		if err := rows.Scan(&t.Label, &t.UUID, &t.Path, &t.Color, &t.Icon,
			&t.ID, &t.ParentID, &t.Usages, &t.LastUsed, &t.Level, &t.MatchesFilter); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PathFromLeaf walks from a category up to its root, leaf first.
func (r *CategoryRepo) PathFromLeaf(ctx context.Context, id int64) ([]PathElement, error) {
	q, err := query.CategoryPathFromLeaf(id)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PathElement
	for rows.Next() {
		var e PathElement
		if err := rows.Scan(&e.ParentID, &e.Label, &e.Icon, &e.UUID, &e.Color); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Path renders the breadcrumb for a category, root first.
func (r *CategoryRepo) Path(ctx context.Context, id int64) (string, error) {
	chain, err := r.PathFromLeaf(ctx, id)
	if err != nil {
		return "", err
	}
	labels := make([]string, len(chain))
	for i, e := range chain {
		labels[len(chain)-1-i] = e.Label
	}
	return strings.Join(labels, query.DefaultSeparator), nil
}

// SubtreeIDs lists a category and all its descendants.
func (r *CategoryRepo) SubtreeIDs(ctx context.Context, id int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query.CategorySubtreeIDs(), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Move reparents a category. Moving a category under itself or any of its
// descendants is refused, keeping parent links acyclic; the recursive tree
// queries rely on that.
func (r *CategoryRepo) Move(ctx context.Context, id int64, newParentID *int64) error {
	if newParentID != nil {
		subtree, err := r.SubtreeIDs(ctx, id)
		if err != nil {
			return err
		}
		for _, sid := range subtree {
			if sid == *newParentID {
				return ErrWouldCreateCycle
			}
		}
	}
	_, err := r.db.ExecContext(ctx, `UPDATE categories SET parent_id = ? WHERE _id = ?`, newParentID, id)
	return err
}

// Delete removes a category; descendants go with it via the cascade.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE _id = ?`, id)
	return err
}

// MarkUsed bumps the usage counters, called when a transaction picks the
// category.
func (r *CategoryRepo) MarkUsed(ctx context.Context, id int64, when time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE categories SET usages = usages + 1, last_used = ? WHERE _id = ?`, when.Unix(), id)
	return err
}

var mappedProjection = []string{
	schema.ColMappedTransactions,
	schema.ColMappedTemplates,
	schema.ColMappedBudgets,
	schema.ColHasDescendants,
}

// MappedObjects reports what a category's subtree still references.
func (r *CategoryRepo) MappedObjects(ctx context.Context, id int64) (MappedObjects, error) {
	var m MappedObjects
	err := r.db.QueryRowContext(ctx, query.MappedObjectsForCategory(mappedProjection), id).
		Scan(&m.HasTransactions, &m.HasTemplates, &m.HasBudgets, &m.HasDescendants)
	return m, err
}

// MappedObjectsForSelection is the aggregate variant over every category
// matched by selection; subtrees are included.
func (r *CategoryRepo) MappedObjectsForSelection(ctx context.Context, selection string, args ...any) (MappedObjects, error) {
	var m MappedObjects
	// The selection appears twice in the generated query (root set and root
	// count), so the arguments are bound twice as well.
	bound := append(append([]any{}, args...), args...)
	err := r.db.QueryRowContext(ctx, query.MappedObjectsForSelection(mappedProjection, selection), bound...).
		Scan(&m.HasTransactions, &m.HasTemplates, &m.HasBudgets, &m.HasDescendants)
	return m, err
}
