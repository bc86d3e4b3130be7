package service

import (
	"context"
	"sort"

	"github.com/ewout/pocketledger/internal/database/repository"
	"github.com/ewout/pocketledger/internal/query"
)

// DistributionRow is one category with its own expense sum and the rolled-up
// sum over its subtree. Amounts are negative minor units.
type DistributionRow struct {
	ID     int64
	Label  string
	Path   string
	Level  int64
	Direct int64
	Total  int64
}

// DistributionService rolls committed expense sums up the category tree.
type DistributionService struct {
	Categories   *repository.CategoryRepo
	Transactions *repository.TransactionRepo
}

// Report sums committed expenses per category and accumulates each subtree
// into its root, for one account or all of them (accountID 0). Rows come out
// in path order; filter on Level for a top-level breakdown.
//
// The tree arrives in depth-first order with every parent ahead of its
// descendants, so the rollup walks it backwards, folding each subtree total
// into its parent before that parent is folded further up.
func (s *DistributionService) Report(ctx context.Context, accountID int64) ([]DistributionRow, error) {
	tree, err := s.Categories.Tree(ctx, query.TreeSpec{})
	if err != nil {
		return nil, err
	}
	sums, err := s.Transactions.ExpenseSumsByCategory(ctx, accountID)
	if err != nil {
		return nil, err
	}

	rows := make([]*DistributionRow, 0, len(tree))
	byID := make(map[int64]*DistributionRow, len(tree))
	parents := make(map[int64]*int64, len(tree))
	for _, t := range tree {
		if _, ok := byID[t.ID]; ok {
			continue
		}
		r := &DistributionRow{
			ID:     t.ID,
			Label:  t.Label,
			Path:   t.Path,
			Level:  t.Level,
			Direct: sums[t.ID],
			Total:  sums[t.ID],
		}
		rows = append(rows, r)
		byID[t.ID] = r
		parents[t.ID] = t.ParentID
	}

	// Parents precede their descendants, so the reverse walk sees every
	// child before the parent it feeds.
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if pid := parents[r.ID]; pid != nil {
			if parent, ok := byID[*pid]; ok {
				parent.Total += r.Total
			}
		}
	}

	out := make([]DistributionRow, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
