package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ewout/pocketledger/internal/query"
	"github.com/ewout/pocketledger/internal/schema"
)

// ErrSplitAmountMismatch rejects a split whose parts do not sum to the
// parent amount.
var ErrSplitAmountMismatch = errors.New("split parts must sum to the parent amount")

// TransactionFilters defines list filters. Zero values mean no filter.
type TransactionFilters struct {
	AccountID int64
	CatID     int64
	Status    schema.ClearingStatus
	DebtID    int64
	Search    string // matched against the comment
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// guardWrite refuses writes that touch a sealed account, transfer account or
// debt.
func (r *TransactionRepo) guardWrite(ctx context.Context, q execer, t Transaction) error {
	var sealed bool
	if err := q.QueryRowContext(ctx, `SELECT sealed FROM accounts WHERE _id = ?`, t.AccountID).Scan(&sealed); err != nil {
		return fmt.Errorf("look up account %d: %w", t.AccountID, err)
	}
	if sealed {
		return ErrAccountSealed
	}
	if t.TransferAccount != nil {
		if err := q.QueryRowContext(ctx, `SELECT sealed FROM accounts WHERE _id = ?`, *t.TransferAccount).Scan(&sealed); err != nil {
			return fmt.Errorf("look up transfer account %d: %w", *t.TransferAccount, err)
		}
		if sealed {
			return ErrAccountSealed
		}
	}
	if t.DebtID != nil {
		if err := q.QueryRowContext(ctx, `SELECT sealed FROM debts WHERE _id = ?`, *t.DebtID).Scan(&sealed); err != nil {
			return fmt.Errorf("look up debt %d: %w", *t.DebtID, err)
		}
		if sealed {
			return ErrDebtSealed
		}
	}
	return nil
}

func insertTransaction(ctx context.Context, q execer, t Transaction) (int64, error) {
	status := t.Status
	if status == "" {
		status = schema.StatusNone
	}
	res, err := q.ExecContext(ctx, `
	INSERT INTO transactions(
	 account_id, parent_id, cat_id, payee_id, method_id, amount, date, cr_status,
	 transfer_peer, transfer_account, debt_id, equivalent_amount, comment)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		t.AccountID, t.ParentID, t.CatID, t.PayeeID, t.MethodID, t.Amount, t.Date, status,
		t.TransferPeer, t.TransferAccount, t.DebtID, t.EquivalentAmount, t.Comment)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Insert stores one transaction after the sealed guards pass.
func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) (int64, error) {
	if err := r.guardWrite(ctx, r.db, t); err != nil {
		return 0, err
	}
	return insertTransaction(ctx, r.db, t)
}

// InsertSplit stores a split parent and its parts in one transaction. Parts
// inherit the parent's account and date; their amounts must sum to the
// parent's.
func (r *TransactionRepo) InsertSplit(ctx context.Context, parent Transaction, parts []Transaction) (int64, error) {
	var sum int64
	for _, p := range parts {
		sum += p.Amount
	}
	if sum != parent.Amount {
		return 0, ErrSplitAmountMismatch
	}
	if err := r.guardWrite(ctx, r.db, parent); err != nil {
		return 0, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	parentID, err := insertTransaction(ctx, tx, parent)
	if err != nil {
		return 0, err
	}
	for _, p := range parts {
		p.ParentID = &parentID
		p.AccountID = parent.AccountID
		p.Date = parent.Date
		if err := r.guardWrite(ctx, tx, p); err != nil {
			return 0, err
		}
		if _, err := insertTransaction(ctx, tx, p); err != nil {
			return 0, err
		}
	}
	return parentID, tx.Commit()
}

// UpdateStatus moves a transaction through the clearing state machine,
// refusing transitions the machine does not allow and any change touching a
// sealed account, transfer account or debt.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id int64, next schema.ClearingStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatusChange, next)
	}
	var t Transaction
	var current schema.ClearingStatus
	err := r.db.QueryRowContext(ctx, `
	SELECT account_id, transfer_account, debt_id, cr_status FROM transactions WHERE _id = ?`, id).
		Scan(&t.AccountID, &t.TransferAccount, &t.DebtID, &current)
	if err != nil {
		return err
	}
	if err := r.guardWrite(ctx, r.db, t); err != nil {
		return err
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusChange, current, next)
	}
	_, err = r.db.ExecContext(ctx, `UPDATE transactions SET cr_status = ? WHERE _id = ?`, next, id)
	return err
}

// Categorize assigns a category and bumps its usage counters.
func (r *TransactionRepo) Categorize(ctx context.Context, id int64, catID int64, now int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `UPDATE transactions SET cat_id = ? WHERE _id = ?`, catID, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE categories SET usages = usages + 1, last_used = ? WHERE _id = ?`, now, catID); err != nil {
		return err
	}
	return tx.Commit()
}

func scanDetail(rows *sql.Rows, withPlanInstance, withSealed bool) (TransactionDetail, error) {
	var d TransactionDetail
	dest := []any{
		&d.ID, &d.AccountID, &d.ParentID, &d.CatID, &d.PayeeID, &d.MethodID,
		&d.Amount, &d.Date, &d.Status, &d.TransferPeer, &d.TransferAccount,
		&d.DebtID, &d.EquivalentAmount, &d.Comment,
		&d.Path, &d.CategoryIcon, &d.PayeeName, &d.MethodLabel, &d.MethodIcon,
		&d.FullLabel, &d.TransferAccountLabel,
	}
	if withPlanInstance {
		dest = append(dest, &d.TemplateID)
	}
	dest = append(dest, &d.TagList, &d.Currency)
	if withSealed {
		dest = append(dest, &d.Sealed)
	}
	err := rows.Scan(dest...)
	return d, err
}

// List returns committed transactions denormalized with category path,
// payee, method, tags, currency and the sealed flag.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]TransactionDetail, error) {
	var where []string
	var args []any

	if f.AccountID != 0 {
		where = append(where, "transactions.account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.CatID != 0 {
		where = append(where, "transactions.cat_id = ?")
		args = append(args, f.CatID)
	}
	if f.Status != "" {
		where = append(where, "transactions.cr_status = ?")
		args = append(args, f.Status)
	}
	if f.DebtID != 0 {
		where = append(where, "transactions.debt_id = ?")
		args = append(args, f.DebtID)
	}
	if f.Search != "" {
		where = append(where, "transactions.comment LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	q, err := query.TransactionViewQuery(schema.TableTransactions, false, strings.Join(where, " AND "))
	if err != nil {
		return nil, err
	}
	q += " ORDER BY transactions.date DESC, transactions._id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransactionDetail
	for rows.Next() {
		d, err := scanDetail(rows, false, true)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListForCategory drills into one category subtree: paths come out relative
// to the subtree root.
func (r *TransactionRepo) ListForCategory(ctx context.Context, catID int64) ([]TransactionDetail, error) {
	cte, err := query.TransactionListAsCTE(catID)
	if err != nil {
		return nil, err
	}
	q := cte + " SELECT * FROM " + schema.ViewCommitted +
		" WHERE cat_id IN (SELECT _id FROM Tree) ORDER BY date DESC, _id DESC"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransactionDetail
	for rows.Next() {
		d, err := scanDetail(rows, true, false)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// MappedObjectsForSelection reports which related objects the matched
// transactions still reference.
func (r *TransactionRepo) MappedObjectsForSelection(ctx context.Context, selection string, args ...any) (count, categories, methods, payees, transfers, tags bool, err error) {
	err = r.db.QueryRowContext(ctx, query.TransactionMappedObjectQuery(selection), args...).
		Scan(&count, &categories, &methods, &payees, &transfers, &tags)
	return
}

// ExpenseSumsByCategory sums committed expense amounts per category,
// optionally restricted to one account. Feeds the distribution report.
func (r *TransactionRepo) ExpenseSumsByCategory(ctx context.Context, accountID int64) (map[int64]int64, error) {
	q := `SELECT cat_id, sum(amount) FROM transactions_committed
	WHERE cat_id IS NOT NULL AND cr_status != ? AND amount < 0`
	args := []any{schema.StatusVoid}
	if accountID != 0 {
		q += ` AND account_id = ?`
		args = append(args, accountID)
	}
	q += ` GROUP BY cat_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]int64)
	for rows.Next() {
		var cat, sum int64
		if err := rows.Scan(&cat, &sum); err != nil {
			return nil, err
		}
		out[cat] = sum
	}
	return out, rows.Err()
}
