// Package schema is the single registry of table, view and column names used
// by the query builders, plus the invariant predicates (sealed checks) and the
// clearing-status state machine. It holds no state and composes strings only.
package schema

// Table and view names.
const (
	TableCategories         = "categories"
	TableAccounts           = "accounts"
	TableTransactions       = "transactions"
	TableTemplates          = "templates"
	TablePayees             = "payee"
	TableMethods            = "paymentmethods"
	TableDebts              = "debts"
	TableBudgets            = "budgets"
	TableBudgetAllocations  = "budget_allocations"
	TableTags               = "tags"
	TableTransactionsTags   = "transactions_tags"
	TableTemplatesTags      = "templates_tags"
	TableExchangeRates      = "account_exchangerates"
	TablePlanInstanceStatus = "plan_instance_status"

	// ViewCommitted filters out rows still being edited.
	ViewCommitted = "transactions_committed"
	// ViewWithAccount is ViewCommitted joined with the owning account's
	// currency and sealed flag.
	ViewWithAccount = "transactions_with_account"
	// ViewExtended and ViewTemplatesExtended are the denormalized list
	// views, generated from the join composer at startup rather than frozen
	// into a migration.
	ViewExtended          = "transactions_extended"
	ViewTemplatesExtended = "templates_extended"
)

// Column names shared across tables.
const (
	ColRowID            = "_id"
	ColParentID         = "parent_id"
	ColLabel            = "label"
	ColUUID             = "uuid"
	ColColor            = "color"
	ColIcon             = "icon"
	ColUsages           = "usages"
	ColLastUsed         = "last_used"
	ColAccountID        = "account_id"
	ColCatID            = "cat_id"
	ColPayeeID          = "payee_id"
	ColMethodID         = "method_id"
	ColAmount           = "amount"
	ColDate             = "date"
	ColCrStatus         = "cr_status"
	ColTransferPeer     = "transfer_peer"
	ColTransferAccount  = "transfer_account"
	ColDebtID           = "debt_id"
	ColEquivalentAmount = "equivalent_amount"
	ColComment          = "comment"
	ColSealed           = "sealed"
	ColCurrency         = "currency"
	ColOpeningBalance   = "opening_balance"
	ColPayeeName        = "name"
	ColTagID            = "tag_id"
	ColTransactionID    = "transaction_id"
	ColTemplateID       = "template_id"
	ColCurrencySelf     = "currency_self"
	ColCurrencyOther    = "currency_other"
	ColExchangeRate     = "exchange_rate"
	ColBudgetID         = "budget_id"
	ColYear             = "year"
	ColSecondGroup      = "second_group"
	ColBudget           = "budget"
	ColRolloverPrevious = "rollover_previous"
	ColRolloverNext     = "rollover_next"
	ColOneTime          = "one_time"
)

// Computed result-column aliases.
const (
	ColPath               = "path"
	ColLevel              = "level"
	ColMatchesFilter      = "matches_filter"
	ColMethodLabel        = "method_label"
	ColMethodIcon         = "method_icon"
	ColPayeeNameAlias     = "payee_name"
	ColTagList            = "tag_list"
	ColTotal              = "total"
	ColEquivalentTotal    = "equivalent_total"
	ColSumIncome          = "sum_income"
	ColSumExpenses        = "sum_expenses"
	ColSumTransfers       = "sum_transfers"
	ColCurrent            = "current"
	ColEquivalentCurrent  = "equivalent_current"
	ColClearedTotal       = "cleared_total"
	ColReconciledTotal    = "reconciled_total"
	ColHasCleared         = "has_cleared"
	ColHasFuture          = "has_future"
	ColCurrentBalance     = "current_balance"
	ColTotalBalance       = "total_balance"
	ColMappedTransactions = "mapped_transactions"
	ColMappedTemplates    = "mapped_templates"
	ColMappedBudgets      = "mapped_budgets"
	ColHasDescendants     = "has_descendants"
)
