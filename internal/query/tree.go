// Package query constructs the SQL consumed by the repositories: the
// recursive category tree, budget allocation lookups, mapped-object
// projections, account aggregates and the denormalized transaction view.
// Every function is pure and returns query text; execution and argument
// binding stay with the caller.
package query

import (
	"fmt"
	"strings"

	"github.com/ewout/pocketledger/internal/schema"
)

// DefaultSeparator joins ancestor labels into a path.
const DefaultSeparator = " > "

// TreeAlias is the placeholder a match predicate uses to refer to the
// category row under test; it is replaced with the concrete table alias in
// each arm of the recursive expression.
const TreeAlias = "_Tree_"

// TreeSpec parameterizes the recursive category tree expression.
type TreeSpec struct {
	// RootExpression restricts the root set. It is appended after "_id",
	// e.g. "= ?" or "IN (SELECT ...)". Empty selects all top-level
	// categories (parent_id IS NULL).
	RootExpression string
	// SortOrder is a secondary sort applied after depth.
	SortOrder string
	// Matches is an optional per-row predicate carried as the
	// matches_filter column; descendants of a match stay visible even when
	// they do not match themselves. Empty means every row matches.
	Matches string
	// Separator between path segments; DefaultSeparator when empty. The
	// ":" separator additionally escapes ":" and "/" inside labels, since
	// that form feeds structured export.
	Separator string
}

func (s TreeSpec) separator() string {
	if s.Separator == "" {
		return DefaultSeparator
	}
	return s.Separator
}

func (s TreeSpec) rootClause() string {
	if s.RootExpression == "" {
		return schema.ColParentID + " IS NULL"
	}
	return schema.ColRowID + " " + s.RootExpression
}

func (s TreeSpec) matchColumn(alias string) string {
	if s.Matches == "" {
		return "1"
	}
	return strings.ReplaceAll(s.Matches, TreeAlias, alias)
}

// labelEscapedForExport escapes "/" and ":" inside a label with their
// six-character unicode spellings, so a ":"-separated path stays parseable.
func labelEscapedForExport(table string) string {
	return `replace(replace(` + table + `.` + schema.ColLabel + `,'/','\u002F'), ':','\u003A')`
}

func maybeEscapeLabel(separator, table string) string {
	if separator == ":" {
		return labelEscapedForExport(table)
	}
	return table + "." + schema.ColLabel
}

// CategoryTreeCTE builds the "WITH Tree AS (...)" expression unrolling the
// category forest selected by spec, with path, level and matches_filter
// columns. Rows come out in depth-first order, each parent ahead of its
// descendants; spec.SortOrder orders siblings.
// Parent links are assumed acyclic; a cycle would not terminate.
func CategoryTreeCTE(spec TreeSpec) string {
	sep := spec.separator()
	var sort string
	if spec.SortOrder != "" {
		sort = ", " + spec.SortOrder
	}
	return fmt.Sprintf(`WITH Tree AS (
SELECT
    %[1]s,
    %[2]s,
    %[3]s AS %[4]s,
    %[5]s,
    %[6]s,
    %[7]s,
    %[8]s,
    %[9]s,
    %[10]s,
    1 AS %[11]s,
    %[12]s AS %[13]s
FROM %[14]s main
WHERE %[15]s
UNION ALL
SELECT
    subtree.%[1]s,
    subtree.%[2]s,
    Tree.%[4]s || '%[16]s' || %[17]s,
    subtree.%[5]s,
    subtree.%[6]s,
    subtree.%[7]s,
    subtree.%[8]s,
    subtree.%[9]s,
    subtree.%[10]s,
    Tree.%[11]s + 1,
    %[18]s
FROM %[14]s subtree
JOIN Tree ON Tree.%[7]s = subtree.%[8]s
ORDER BY %[11]s DESC%[19]s
)
`,
		schema.ColLabel,
		schema.ColUUID,
		maybeEscapeLabel(spec.Separator, "main"),
		schema.ColPath,
		schema.ColColor,
		schema.ColIcon,
		schema.ColRowID,
		schema.ColParentID,
		schema.ColUsages,
		schema.ColLastUsed,
		schema.ColLevel,
		spec.matchColumn("main"),
		schema.ColMatchesFilter,
		schema.TableCategories,
		spec.rootClause(),
		sep,
		maybeEscapeLabel(spec.Separator, "subtree"),
		spec.matchColumn("subtree"),
		sort,
	)
}

// CategoryTreeSelect is the tree expression completed into an executable
// select. An empty projection selects every tree column.
func CategoryTreeSelect(spec TreeSpec, projection []string, selection string) string {
	proj := "*"
	if len(projection) > 0 {
		proj = strings.Join(projection, ", ")
	}
	q := CategoryTreeCTE(spec) + "SELECT " + proj + " FROM Tree"
	if selection != "" {
		q += " WHERE " + selection
	}
	return q
}

// CategoryTreeForView is the lean tree variant (path, icon, id only) joined
// into the denormalized transaction views. rootExpression is a full predicate
// over the categories table; empty selects all roots. With withRootLabel
// false the root contributes an empty path segment, used when drilling into a
// single subtree whose own label is already on screen.
func CategoryTreeForView(rootExpression string, withRootLabel bool) string {
	if rootExpression == "" {
		rootExpression = schema.ColParentID + " IS NULL"
	}
	rootPath := "main." + schema.ColLabel
	separator := "' > '"
	if !withRootLabel {
		rootPath = "''"
		separator = "CASE WHEN Tree." + schema.ColPath + " = '' THEN '' ELSE ' > ' END"
	}
	return fmt.Sprintf(`WITH Tree AS (
SELECT
    %[1]s AS %[2]s,
    %[3]s,
    %[4]s
FROM %[5]s main
WHERE %[6]s
UNION ALL
SELECT
    Tree.%[2]s || %[7]s || subtree.%[8]s,
    subtree.%[3]s,
    subtree.%[4]s
FROM %[5]s subtree
JOIN Tree ON Tree.%[4]s = subtree.%[9]s
)
`,
		rootPath,
		schema.ColPath,
		schema.ColIcon,
		schema.ColRowID,
		schema.TableCategories,
		rootExpression,
		separator,
		schema.ColLabel,
		schema.ColParentID,
	)
}

// CategoryPathFromLeaf walks from a leaf up to its root, one row per
// ancestor. The row id must be positive; an empty chain would otherwise be
// indistinguishable from a deleted category.
func CategoryPathFromLeaf(rowID int64) (string, error) {
	if rowID <= 0 {
		return "", fmt.Errorf("category row id must be positive, got %d", rowID)
	}
	return fmt.Sprintf(`WITH Tree AS (
SELECT parent_id, label, icon, uuid, color FROM categories child WHERE _id = %d
UNION ALL
SELECT parent.parent_id, parent.label, parent.icon, parent.uuid, parent.color FROM categories parent JOIN Tree ON Tree.parent_id = parent._id
) SELECT * FROM Tree`, rowID), nil
}

// CategorySubtreeIDs selects the ids of a category and all its descendants.
// The root id is bound as the single query argument. Used by the write path
// to refuse moves that would create a cycle, and by subtree deletes.
func CategorySubtreeIDs() string {
	return fmt.Sprintf(`WITH Tree AS (
SELECT %[1]s, %[2]s, 1 AS %[3]s FROM %[4]s main WHERE %[1]s = ?
UNION ALL
SELECT subtree.%[1]s, subtree.%[2]s, Tree.%[3]s + 1 FROM %[4]s subtree JOIN Tree ON Tree.%[1]s = subtree.%[2]s
) SELECT %[1]s FROM Tree`,
		schema.ColRowID,
		schema.ColParentID,
		schema.ColLevel,
		schema.TableCategories,
	)
}
