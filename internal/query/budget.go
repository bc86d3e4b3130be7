package query

import (
	"fmt"
	"strings"

	"github.com/ewout/pocketledger/internal/schema"
)

// treeRowFilter correlates an allocation lookup with the tree row it
// decorates.
const treeRowFilter = schema.ColCatID + " = Tree." + schema.ColRowID

// BudgetAllocationsCTE narrows budget_allocations to the rows visible to the
// current query; per-row period lookups select from it.
func BudgetAllocationsCTE(budgetSelect string) string {
	return fmt.Sprintf("Allocations AS (SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s)",
		schema.ColCatID,
		schema.ColBudget,
		schema.ColYear,
		schema.ColSecondGroup,
		schema.ColOneTime,
		schema.ColRolloverPrevious,
		schema.ColRolloverNext,
		schema.TableBudgetAllocations,
		budgetSelect,
	)
}

func allocationWhere(year, second *int, rowFilter string) string {
	var conds []string
	if rowFilter != "" {
		conds = append(conds, rowFilter)
	}
	if year != nil {
		conds = append(conds, fmt.Sprintf("%s = %d", schema.ColYear, *year))
		if second != nil {
			conds = append(conds, fmt.Sprintf("%s = %d", schema.ColSecondGroup, *second))
		}
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// SubSelectFromAllocations looks a single allocation column up for the exact
// (year, second) pair, with no fallback. rowFilter, when non-empty, is ANDed
// in to correlate the lookup (e.g. with a tree row).
func SubSelectFromAllocations(column string, year, second *int, rowFilter string, withAlias bool) string {
	q := "(SELECT " + column + " FROM Allocations" + allocationWhere(year, second, rowFilter) + ")"
	if withAlias {
		q += " AS " + column
	}
	return q
}

// BudgetColumn resolves the budgeted amount for (year, second). When the
// exact period has no allocation, the nearest earlier recurring allocation
// (one_time = 0) applies, latest year first, then latest period.
func BudgetColumn(year, second *int, rowFilter string) string {
	main := SubSelectFromAllocations(schema.ColBudget, year, second, rowFilter, false)
	if year == nil {
		return main + " AS " + schema.ColBudget
	}
	earlier := fmt.Sprintf("coalesce(%s,0) < %d", schema.ColYear, *year)
	order := schema.ColYear + " DESC"
	if second != nil {
		earlier = fmt.Sprintf("(%s OR (coalesce(%s,0) = %d AND coalesce(%s,0) < %d))",
			earlier, schema.ColYear, *year, schema.ColSecondGroup, *second)
		order += ", " + schema.ColSecondGroup + " DESC"
	}
	filter := schema.ColOneTime + " = 0 AND " + earlier
	if rowFilter != "" {
		filter = rowFilter + " AND " + filter
	}
	fallback := fmt.Sprintf("(SELECT %s FROM Allocations WHERE %s ORDER BY %s LIMIT 1)",
		schema.ColBudget, filter, order)
	return "coalesce(" + main + "," + fallback + ") AS " + schema.ColBudget
}

// CategoryTreeWithBudget decorates the tree expression with per-category
// allocation columns for one budget. The budget id is bound as the single
// query argument. Projection entries naming allocation columns are resolved
// to lookups; anything else passes through.
func CategoryTreeWithBudget(spec TreeSpec, selection string, projection []string, year, second *int) string {
	mapped := make([]string, len(projection))
	for i, col := range projection {
		switch col {
		case schema.ColBudget:
			mapped[i] = BudgetColumn(year, second, treeRowFilter)
		case schema.ColRolloverPrevious, schema.ColRolloverNext, schema.ColOneTime:
			mapped[i] = SubSelectFromAllocations(col, year, second, treeRowFilter, true)
		default:
			mapped[i] = col
		}
	}
	q := CategoryTreeCTE(spec) +
		", " + BudgetAllocationsCTE(schema.ColBudgetID+" = ?") +
		" SELECT " + strings.Join(mapped, ", ") + " FROM Tree"
	if selection != "" {
		q += " WHERE " + selection
	}
	return q
}

// BudgetAllocationQuery fetches a single category's allocation for one
// budget, with the period fallback applied to the amount but not to the
// rollover columns. Arguments: category id, budget id.
func BudgetAllocationQuery(year, second *int) string {
	cte := BudgetAllocationsCTE(schema.ColCatID + " = ? AND " + schema.ColBudgetID + " = ?")
	return "WITH " + cte + " SELECT " +
		BudgetColumn(year, second, "") + ", " +
		SubSelectFromAllocations(schema.ColRolloverPrevious, year, second, "", true) + ", " +
		SubSelectFromAllocations(schema.ColRolloverNext, year, second, "", true) + ", " +
		SubSelectFromAllocations(schema.ColOneTime, year, second, "", true)
}
