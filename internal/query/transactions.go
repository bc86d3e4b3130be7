package query

import (
	"fmt"
	"strings"

	"github.com/ewout/pocketledger/internal/schema"
)

// ErrUnsupportedTable signals a tag join requested for a table that has no
// tag link table. Programming error, not a data condition.
var ErrUnsupportedTable = fmt.Errorf("unsupported table for tag join")

// TagListExpression folds the joined tag labels into one column; requires
// TagGroupBy on the owning row to undo the join fan-out.
const TagListExpression = "group_concat(" + schema.TableTags + "." + schema.ColLabel + ", ', ') AS " + schema.ColTagList

// TagJoin links the owning table to its tags. Only transactions and
// templates carry tags.
func TagJoin(mainTable string) (string, error) {
	var linkTable, refColumn string
	switch mainTable {
	case schema.TableTransactions:
		linkTable, refColumn = schema.TableTransactionsTags, schema.ColTransactionID
	case schema.TableTemplates:
		linkTable, refColumn = schema.TableTemplatesTags, schema.ColTemplateID
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedTable, mainTable)
	}
	return fmt.Sprintf(" LEFT JOIN %[1]s ON %[1]s.%[2]s = %[3]s.%[4]s LEFT JOIN %[5]s ON %[6]s = %[5]s.%[4]s",
		linkTable, refColumn, mainTable, schema.ColRowID, schema.TableTags, schema.ColTagID), nil
}

// TagGroupBy collapses the tag fan-out back to one row per owning row.
func TagGroupBy(table string) string {
	return " GROUP BY " + table + "." + schema.ColRowID
}

// FullLabel renders the transfer peer's account for transfers and the full
// category breadcrumb otherwise.
const FullLabel = "CASE WHEN " + schema.ColTransferAccount +
	" THEN (SELECT " + schema.ColLabel + " FROM " + schema.TableAccounts +
	" WHERE " + schema.ColRowID + " = " + schema.ColTransferAccount + ") ELSE " +
	schema.ColPath + " END AS " + schema.ColLabel

// TransferAccountLabel is the transfer peer's account label, NULL for
// non-transfers.
const TransferAccountLabel = "CASE WHEN " + schema.ColTransferAccount +
	" THEN (SELECT " + schema.ColLabel + " FROM " + schema.TableAccounts +
	" WHERE " + schema.ColRowID + " = " + schema.ColTransferAccount + ") END AS transfer_account_label"

// TransactionsJoin denormalizes the base table with category path, payee,
// method, display labels, account currency, tags and (for live transactions)
// the plan instance linkage; a Tree expression must be in scope. The plan-instance
// and sealed flags are meaningless for templates and ignored there. The
// sealed column reads through the committed view, so it cannot be used
// inside a query that shadows that view.
func TransactionsJoin(tableName string, withPlanInstance, withSealed bool) (string, error) {
	if tableName != schema.TableTransactions {
		withPlanInstance = false
		withSealed = false
	}
	tagJoin, err := TagJoin(tableName)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, " SELECT %s.*, Tree.%s, Tree.%s AS category_icon, %s.%s AS %s, %s.%s AS %s, %s.%s AS %s",
		tableName, schema.ColPath,
		schema.ColIcon,
		schema.TablePayees, schema.ColPayeeName, schema.ColPayeeNameAlias,
		schema.TableMethods, schema.ColLabel, schema.ColMethodLabel,
		schema.TableMethods, schema.ColIcon, schema.ColMethodIcon)
	b.WriteString(", " + FullLabel + ", " + TransferAccountLabel)
	if withPlanInstance {
		fmt.Fprintf(&b, ", %s.%s", schema.TablePlanInstanceStatus, schema.ColTemplateID)
	}
	b.WriteString(", " + TagListExpression)
	fmt.Fprintf(&b, ", %s.%s", schema.TableAccounts, schema.ColCurrency)
	if withSealed {
		b.WriteString(", " + schema.CheckSealedWithAlias(tableName, schema.ViewCommitted))
	}
	fmt.Fprintf(&b, ` FROM %[1]s
 LEFT JOIN %[2]s ON %[3]s = %[2]s.%[4]s
 LEFT JOIN %[5]s ON %[6]s = %[5]s.%[4]s
 LEFT JOIN %[7]s ON %[8]s = %[7]s.%[4]s
 LEFT JOIN Tree ON %[9]s = Tree.%[4]s`,
		tableName,
		schema.TablePayees, schema.ColPayeeID, schema.ColRowID,
		schema.TableMethods, schema.ColMethodID,
		schema.TableAccounts, schema.ColAccountID,
		schema.ColCatID)
	if withPlanInstance {
		fmt.Fprintf(&b, " LEFT JOIN %[1]s ON %[2]s.%[3]s = %[1]s.%[4]s",
			schema.TablePlanInstanceStatus, tableName, schema.ColRowID, schema.ColTransactionID)
	}
	b.WriteString(tagJoin)
	return b.String(), nil
}

// TransactionViewQuery is the executable denormalized list for transactions
// or templates. For transactions, rows still being edited are filtered out;
// selection, when non-empty, is ANDed in.
func TransactionViewQuery(tableName string, withPlanInstance bool, selection string) (string, error) {
	join, err := TransactionsJoin(tableName, withPlanInstance, true)
	if err != nil {
		return "", err
	}
	var where []string
	if tableName == schema.TableTransactions {
		where = append(where, fmt.Sprintf("%s.%s != '%s'", tableName, schema.ColCrStatus, schema.StatusUncommitted))
	}
	if selection != "" {
		where = append(where, selection)
	}
	q := CategoryTreeForView("", true) + join
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q + TagGroupBy(tableName), nil
}

// TransactionListAsCTE prepares the drill-down for one category subtree: the
// subtree's path expression (without the root's own label) plus the
// committed, denormalized transaction rows as a further CTE shadowing the
// stored view; the caller appends its select.
func TransactionListAsCTE(catID int64) (string, error) {
	if catID <= 0 {
		return "", fmt.Errorf("category row id must be positive, got %d", catID)
	}
	join, err := TransactionsJoin(schema.TableTransactions, true, false)
	if err != nil {
		return "", err
	}
	return CategoryTreeForView(fmt.Sprintf("%s = %d", schema.ColRowID, catID), false) +
		", " + schema.ViewCommitted + " AS (" +
		join +
		fmt.Sprintf(" WHERE %s.%s != '%s'", schema.TableTransactions, schema.ColCrStatus, schema.StatusUncommitted) +
		TagGroupBy(schema.TableTransactions) +
		")", nil
}

// BuildViewDefinition is the body of a stored denormalized view over
// tableName, ready to follow "CREATE VIEW <name>".
func BuildViewDefinition(tableName string) (string, error) {
	join, err := TransactionsJoin(tableName, false, false)
	if err != nil {
		return "", err
	}
	return " AS " + CategoryTreeForView("", true) + join + TagGroupBy(tableName), nil
}

// TransactionMappedObjectQuery answers, for the transactions matched by
// selection, which related objects they reference. Feeds the "safe to
// delete?" checks for accounts, payees, methods and tags. VOID rows no
// longer count.
func TransactionMappedObjectQuery(selection string) string {
	return fmt.Sprintf(`WITH data AS
 (SELECT %[1]s.%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s FROM %[1]s LEFT JOIN %[8]s ON %[9]s = %[1]s.%[2]s WHERE %[10]s != '%[11]s' AND %[12]s)
 SELECT
       exists(SELECT 1 FROM data) AS count,
       exists(SELECT 1 FROM data WHERE %[3]s > 0) AS mapped_categories,
       exists(SELECT 1 FROM data WHERE %[4]s > 0) AS mapped_methods,
       exists(SELECT 1 FROM data WHERE %[5]s > 0) AS mapped_payees,
       exists(SELECT 1 FROM data WHERE %[6]s > 0) AS has_transfers,
       exists(SELECT 1 FROM data WHERE %[7]s IS NOT NULL) AS mapped_tags`,
		schema.TableTransactions,
		schema.ColRowID,
		schema.ColCatID,
		schema.ColMethodID,
		schema.ColPayeeID,
		schema.ColTransferAccount,
		schema.ColTagID,
		schema.TableTransactionsTags,
		schema.ColTransactionID,
		schema.ColCrStatus,
		schema.StatusVoid,
		selection,
	)
}

// DebtTransactionsQuery lists the committed transactions linked to a debt
// (bound as the single argument), oldest first, with the amount resolved
// into the home currency. Feeds the running-balance overview.
func DebtTransactionsQuery(homeCurrency string) string {
	return fmt.Sprintf(`SELECT %[1]s.%[2]s, %[3]s, %[4]s,
    CASE WHEN %[5]s = '%[6]s' THEN %[4]s ELSE %[7]s END AS %[8]s
FROM %[9]s
WHERE %[10]s = ? AND %[11]s != '%[12]s'
ORDER BY %[3]s, %[1]s.%[2]s`,
		schema.ViewWithAccount,
		schema.ColRowID,
		schema.ColDate,
		schema.ColAmount,
		schema.ColCurrency,
		homeCurrency,
		EquivalentAmountExpression(schema.ViewWithAccount),
		schema.ColEquivalentAmount,
		ExchangeRateJoin(schema.ViewWithAccount, schema.ColAccountID, homeCurrency, ""),
		schema.ColDebtID,
		schema.ColCrStatus,
		schema.StatusVoid,
	)
}
