package repository

import (
	"context"
	"database/sql"

	"github.com/ewout/pocketledger/internal/query"
	"github.com/ewout/pocketledger/internal/schema"
)

// BudgetRepo handles budgets and their per-category allocations.
type BudgetRepo struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

func (r *BudgetRepo) Create(ctx context.Context, b Budget) (int64, error) {
	grouping := b.Grouping
	if grouping == "" {
		grouping = "MONTH"
	}
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO budgets(title, account_id, currency, grouping) VALUES (?, ?, ?, ?);
	`, b.Title, b.AccountID, b.Currency, grouping)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetAllocation stores one period allocation, replacing a previous one for
// the same (budget, category, period).
func (r *BudgetRepo) SetAllocation(ctx context.Context, a BudgetAllocation) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO budget_allocations(
	 budget_id, cat_id, year, second_group, budget, rollover_previous, rollover_next, one_time)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`, a.BudgetID, a.CatID, a.Year, a.SecondGroup, a.Budget, a.RolloverPrevious, a.RolloverNext, a.OneTime)
	return err
}

// Allocation resolves one category's allocation for a period. The budgeted
// amount falls back to the nearest earlier recurring allocation; the rollover
// and one_time columns do not fall back.
func (r *BudgetRepo) Allocation(ctx context.Context, budgetID, catID int64, year, second *int) (*BudgetAllocation, error) {
	var budget *int64
	var rolloverPrev, rolloverNext *int64
	var oneTime *bool
	err := r.db.QueryRowContext(ctx, query.BudgetAllocationQuery(year, second), catID, budgetID).
		Scan(&budget, &rolloverPrev, &rolloverNext, &oneTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if budget == nil {
		return nil, nil
	}
	a := &BudgetAllocation{
		BudgetID:         budgetID,
		CatID:            &catID,
		Year:             year,
		SecondGroup:      second,
		Budget:           *budget,
		RolloverPrevious: rolloverPrev,
		RolloverNext:     rolloverNext,
	}
	if oneTime != nil {
		a.OneTime = *oneTime
	}
	return a, nil
}

var budgetTreeProjection = []string{
	schema.ColRowID,
	schema.ColLabel,
	schema.ColPath,
	schema.ColLevel,
	schema.ColBudget,
	schema.ColRolloverPrevious,
	schema.ColRolloverNext,
	schema.ColOneTime,
}

// Tree unrolls the category tree with each row's resolved allocation for one
// budget and period.
func (r *BudgetRepo) Tree(ctx context.Context, budgetID int64, spec query.TreeSpec, year, second *int) ([]BudgetTreeRow, error) {
	q := query.CategoryTreeWithBudget(spec, "", budgetTreeProjection, year, second)
	rows, err := r.db.QueryContext(ctx, q, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BudgetTreeRow
	for rows.Next() {
		var t BudgetTreeRow
		if err := rows.Scan(&t.ID, &t.Label, &t.Path, &t.Level,
			&t.Budget, &t.RolloverPrevious, &t.RolloverNext, &t.OneTime); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
