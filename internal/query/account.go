package query

import (
	"fmt"

	"github.com/ewout/pocketledger/internal/schema"
)

// ExchangeRateJoin attaches the account's rate into the home currency; rows
// whose currency has no rate configured fall through with a NULL rate
// (treated as 1 downstream, the same-currency case).
func ExchangeRateJoin(table, column, homeCurrency, joinTable string) string {
	if joinTable == "" {
		joinTable = table
	}
	return fmt.Sprintf(`%[1]s LEFT JOIN %[2]s
    ON %[3]s.%[4]s = %[2]s.%[5]s
    AND %[6]s = %[3]s.%[7]s
    AND %[8]s = '%[9]s'`,
		table,
		schema.TableExchangeRates,
		joinTable,
		column,
		schema.ColAccountID,
		schema.ColCurrencySelf,
		schema.ColCurrency,
		schema.ColCurrencyOther,
		homeCurrency,
	)
}

// EquivalentAmountExpression resolves a row's home-currency value. Split
// parts derive the parent's stored equivalent/amount ratio so parts always
// sum back to the parent exactly; other rows use their stored equivalent
// amount when present, else rate times amount with a missing rate defaulting
// to 1. Requires the exchange-rate join to be in scope.
func EquivalentAmountExpression(table string) string {
	return fmt.Sprintf(`coalesce(
    CASE
        WHEN %[1]s
        THEN (SELECT 1.0 * %[2]s / %[3]s FROM %[4]s
            WHERE %[5]s = %[6]s.%[1]s
          ) * %[3]s
        ELSE %[2]s
    END,
    coalesce(%[7]s, 1) * %[3]s
)`,
		schema.ColParentID,
		schema.ColEquivalentAmount,
		schema.ColAmount,
		schema.TableTransactions,
		schema.ColRowID,
		table,
		schema.ColExchangeRate,
	)
}

// AccountQueryCTE builds the now/amounts/aggregates expression chain behind
// the account summary: per-account totals, home-currency equivalents,
// income/expense/transfer splits, past-only and cleared subtotals. VOID rows
// and split parts are excluded (the split parent carries the full amount);
// uncommitted rows never reach the underlying view.
//
// With futureStartsNow the temporal cutoff is the current instant; otherwise
// it is the caller's next local midnight expressed in UTC, so a transaction
// dated later today is not yet "future".
func AccountQueryCTE(homeCurrency string, futureStartsNow bool, aggregateFunction string) string {
	futureCriterion := "'now', 'localtime', 'start of day', '+1 day', 'utc'"
	if futureStartsNow {
		futureCriterion = "'now'"
	}
	return fmt.Sprintf(`WITH now AS (
    SELECT cast(strftime('%%s', %[1]s) as integer) AS now
), amounts AS (
    SELECT
        %[2]s,
        %[3]s,
        %[4]s,
        %[5]s,
        %[6]s AS %[7]s,
        %[8]s.%[9]s
    FROM %[10]s
    WHERE %[11]s IS NULL AND %[4]s != '%[12]s'
), aggregates AS (
    SELECT
        %[9]s,
        %[13]s(%[2]s) AS %[14]s,
        %[13]s(%[7]s) AS %[15]s,
        %[13]s(CASE WHEN %[2]s > 0 AND %[3]s IS NULL THEN %[2]s ELSE 0 END) AS %[16]s,
        %[13]s(CASE WHEN %[2]s < 0 AND %[3]s IS NULL THEN %[2]s ELSE 0 END) AS %[17]s,
        %[13]s(CASE WHEN %[3]s IS NULL THEN 0 ELSE %[2]s END) AS %[18]s,
        %[13]s(CASE WHEN %[5]s < (SELECT now FROM now) THEN %[2]s ELSE 0 END) AS %[19]s,
        %[13]s(CASE WHEN %[5]s < (SELECT now FROM now) THEN %[7]s ELSE 0 END) AS %[20]s,
        %[13]s(CASE WHEN %[4]s IN ('%[21]s', '%[22]s') THEN %[2]s ELSE 0 END) AS %[23]s,
        %[13]s(CASE WHEN %[4]s = '%[21]s' THEN %[2]s ELSE 0 END) AS %[24]s,
        max(CASE WHEN %[4]s = '%[22]s' THEN 1 ELSE 0 END) AS %[25]s,
        max(%[5]s) >= (SELECT now FROM now) AS %[26]s
    FROM amounts GROUP BY %[9]s
)
`,
		futureCriterion,
		schema.ColAmount,
		schema.ColTransferPeer,
		schema.ColCrStatus,
		schema.ColDate,
		EquivalentAmountExpression(schema.ViewWithAccount),
		schema.ColEquivalentAmount,
		schema.ViewWithAccount,
		schema.ColAccountID,
		ExchangeRateJoin(schema.ViewWithAccount, schema.ColAccountID, homeCurrency, ""),
		schema.ColParentID,
		schema.StatusVoid,
		aggregateFunction,
		schema.ColTotal,
		schema.ColEquivalentTotal,
		schema.ColSumIncome,
		schema.ColSumExpenses,
		schema.ColSumTransfers,
		schema.ColCurrent,
		schema.ColEquivalentCurrent,
		schema.StatusReconciled,
		schema.StatusCleared,
		schema.ColClearedTotal,
		schema.ColReconciledTotal,
		schema.ColHasCleared,
		schema.ColHasFuture,
	)
}

// AccountSummaryQuery is the executable account overview: one row per
// account with its aggregates, zeroed when the account has no committed
// transactions.
func AccountSummaryQuery(homeCurrency string, futureStartsNow bool) string {
	return AccountQueryCTE(homeCurrency, futureStartsNow, "sum") + fmt.Sprintf(`SELECT
    %[1]s.%[2]s,
    %[1]s.%[3]s,
    %[1]s.%[4]s,
    %[1]s.%[5]s,
    %[1]s.%[6]s,
    %[1]s.%[7]s,
    coalesce(aggregates.%[8]s, 0) AS %[8]s,
    coalesce(aggregates.%[9]s, 0) AS %[9]s,
    coalesce(aggregates.%[10]s, 0) AS %[10]s,
    coalesce(aggregates.%[11]s, 0) AS %[11]s,
    coalesce(aggregates.%[12]s, 0) AS %[12]s,
    %[1]s.%[7]s + coalesce(aggregates.%[13]s, 0) AS %[14]s,
    %[1]s.%[7]s + coalesce(aggregates.%[8]s, 0) AS %[15]s,
    coalesce(aggregates.%[16]s, 0) AS %[16]s,
    coalesce(aggregates.%[17]s, 0) AS %[17]s,
    coalesce(aggregates.%[18]s, 0) AS %[18]s,
    coalesce(aggregates.%[19]s, 0) AS %[19]s,
    coalesce(aggregates.%[20]s, 0) AS %[20]s
FROM %[1]s LEFT JOIN aggregates ON %[1]s.%[2]s = aggregates.%[21]s
ORDER BY %[1]s.%[3]s`,
		schema.TableAccounts,
		schema.ColRowID,
		schema.ColLabel,
		schema.ColCurrency,
		schema.ColColor,
		schema.ColSealed,
		schema.ColOpeningBalance,
		schema.ColTotal,
		schema.ColEquivalentTotal,
		schema.ColSumIncome,
		schema.ColSumExpenses,
		schema.ColSumTransfers,
		schema.ColCurrent,
		schema.ColCurrentBalance,
		schema.ColTotalBalance,
		schema.ColClearedTotal,
		schema.ColReconciledTotal,
		schema.ColHasCleared,
		schema.ColHasFuture,
		schema.ColEquivalentCurrent,
		schema.ColAccountID,
	)
}
