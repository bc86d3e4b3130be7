package schema

import "fmt"

// CheckForSealedAccount yields a subquery that is 1 when the row is linked to
// a sealed account via its own account, its transfer account, or any of its
// split parts' transfer accounts. Parts share their parent's account, so only
// transfer_account needs checking for them.
func CheckForSealedAccount(baseTable, innerTable string) string {
	return fmt.Sprintf(
		"(SELECT max(%[1]s) FROM %[2]s WHERE %[3]s = %[4]s OR %[3]s = %[5]s OR %[3]s IN (SELECT %[5]s FROM %[6]s WHERE %[7]s = %[8]s.%[3]s))",
		ColSealed, TableAccounts, ColRowID, ColAccountID, ColTransferAccount, innerTable, ColParentID, baseTable,
	)
}

// CheckForSealedDebt yields a subquery that is 1 when the row or any of its
// split parts is linked to a sealed debt. innerTable supplies the split
// parts and must be distinct from baseTable so the correlation stays
// unambiguous.
func CheckForSealedDebt(baseTable, innerTable string) string {
	return fmt.Sprintf(
		"coalesce((SELECT max(%[1]s) FROM %[2]s WHERE %[3]s = %[4]s OR %[3]s IN (SELECT %[4]s FROM %[5]s WHERE %[6]s = %[7]s.%[3]s)), 0)",
		ColSealed, TableDebts, ColRowID, ColDebtID, innerTable, ColParentID, baseTable,
	)
}

// CheckSealedWithAlias combines the account and debt checks into a single
// sealed result column.
func CheckSealedWithAlias(baseTable, innerTable string) string {
	return "max(" + CheckForSealedAccount(baseTable, innerTable) + ", " +
		CheckForSealedDebt(baseTable, innerTable) + ") AS " + ColSealed
}
