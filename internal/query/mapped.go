package query

import (
	"strings"

	"github.com/ewout/pocketledger/internal/schema"
)

// subtreeExists is an existence check over the whole subtree relation, so a
// category "has mapped transactions" when any descendant does. Transactions
// are checked through the committed view: rows still being edited must not
// block a delete.
func subtreeExists(table, alias string) string {
	return "exists(SELECT 1 FROM " + table + " WHERE " + schema.ColCatID +
		" IN (SELECT " + schema.ColRowID + " FROM Tree)) AS " + alias
}

func mappedField(col string) (string, bool) {
	switch col {
	case schema.ColMappedTransactions:
		return subtreeExists(schema.ViewCommitted, col), true
	case schema.ColMappedTemplates:
		return subtreeExists(schema.TableTemplates, col), true
	case schema.ColMappedBudgets:
		return subtreeExists(schema.TableBudgetAllocations, col), true
	default:
		return "", false
	}
}

// MappedObjectsForCategory reports, for one category (bound as the single
// argument), whether its subtree has mapped transactions, templates or
// budgets, and whether it has descendants. Other projection entries pass
// through from the category's own tree row.
func MappedObjectsForCategory(projection []string) string {
	mapped := make([]string, len(projection))
	for i, col := range projection {
		if f, ok := mappedField(col); ok {
			mapped[i] = f
		} else if col == schema.ColHasDescendants {
			mapped[i] = "(SELECT count(*) FROM Tree) > 1 AS " + col
		} else {
			mapped[i] = col
		}
	}
	return CategoryTreeCTE(TreeSpec{RootExpression: "= ?"}) +
		"SELECT " + strings.Join(mapped, ", ") + " FROM Tree WHERE Tree." + schema.ColLevel + " = 1"
}

// MappedObjectsForSelection is the aggregate variant: one row answering the
// mapped-object checks across every category matched by selection, with
// subtrees included. has_descendants is true when the combined subtree holds
// more rows than the selection itself.
func MappedObjectsForSelection(projection []string, selection string) string {
	root := "IN (SELECT " + schema.ColRowID + " FROM " + schema.TableCategories + " WHERE " + selection + ")"
	rootCount := "(SELECT count(*) FROM " + schema.TableCategories + " WHERE " + selection + ")"
	mapped := make([]string, len(projection))
	for i, col := range projection {
		if f, ok := mappedField(col); ok {
			mapped[i] = f
		} else if col == schema.ColHasDescendants {
			mapped[i] = "(SELECT count(*) FROM Tree) > " + rootCount + " AS " + col
		} else {
			mapped[i] = col
		}
	}
	return CategoryTreeCTE(TreeSpec{RootExpression: root}) +
		"SELECT " + strings.Join(mapped, ", ")
}
