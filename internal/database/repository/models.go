// Package repository executes the generated queries and maps rows to Go
// structs. Query text comes from internal/query; repositories add argument
// binding, write guards and transactions.
package repository

import (
	"errors"

	"github.com/ewout/pocketledger/internal/schema"
)

var (
	// ErrAccountSealed rejects writes touching a closed account.
	ErrAccountSealed = errors.New("account is sealed")
	// ErrDebtSealed rejects writes touching a closed debt.
	ErrDebtSealed = errors.New("debt is sealed")
	// ErrInvalidStatusChange rejects a clearing-status transition the state
	// machine does not allow.
	ErrInvalidStatusChange = errors.New("invalid clearing status change")
	// ErrWouldCreateCycle rejects a category move into its own subtree.
	ErrWouldCreateCycle = errors.New("move would create a cycle")
)

// Category represents a category row.
type Category struct {
	ID       int64
	ParentID *int64
	Label    string
	UUID     string
	Color    *int64
	Icon     *string
	Usages   int64
	LastUsed *int64
}

// TreeRow is one row of the unrolled category tree.
type TreeRow struct {
	Label         string
	UUID          string
	Path          string
	Color         *int64
	Icon          *string
	ID            int64
	ParentID      *int64
	Usages        int64
	LastUsed      *int64
	Level         int64
	MatchesFilter bool
}

// PathElement is one ancestor on a leaf-to-root chain.
type PathElement struct {
	ParentID *int64
	Label    string
	Icon     *string
	UUID     string
	Color    *int64
}

// MappedObjects answers the pre-delete checks for a category subtree.
type MappedObjects struct {
	HasTransactions bool
	HasTemplates    bool
	HasBudgets      bool
	HasDescendants  bool
}

// Account represents an account row.
type Account struct {
	ID             int64
	Label          string
	Currency       string
	Color          *int64
	Sealed         bool
	OpeningBalance int64
}

// AccountSummary is one row of the account overview.
type AccountSummary struct {
	Account
	Total             int64
	EquivalentTotal   float64
	SumIncome         int64
	SumExpenses       int64
	SumTransfers      int64
	CurrentBalance    int64
	TotalBalance      int64
	ClearedTotal      int64
	ReconciledTotal   int64
	HasCleared        bool
	HasFuture         bool
	EquivalentCurrent float64
}

// Transaction represents a transaction row. Amounts are minor units.
type Transaction struct {
	ID               int64
	AccountID        int64
	ParentID         *int64
	CatID            *int64
	PayeeID          *int64
	MethodID         *int64
	Amount           int64
	Date             int64
	Status           schema.ClearingStatus
	TransferPeer     *int64
	TransferAccount  *int64
	DebtID           *int64
	EquivalentAmount *int64
	Comment          *string
}

// TransactionDetail is a denormalized list row. FullLabel carries the peer
// account's label for transfers and the category breadcrumb otherwise.
type TransactionDetail struct {
	Transaction
	Path                 *string
	CategoryIcon         *string
	PayeeName            *string
	MethodLabel          *string
	MethodIcon           *string
	FullLabel            *string
	TransferAccountLabel *string
	TemplateID           *int64
	TagList              *string
	Currency             string
	Sealed               bool
}

// Debt represents a debt row. Amount is the signed principal: positive when
// the payee owes the user.
type Debt struct {
	ID               int64
	PayeeID          int64
	Label            string
	Description      *string
	Amount           int64
	Currency         string
	Date             int64
	EquivalentAmount *int64
	Sealed           bool
}

// DebtEntry is one committed transaction linked to a debt, with the amount
// resolved into the home currency.
type DebtEntry struct {
	TransactionID    int64
	Date             int64
	Amount           int64
	EquivalentAmount float64
}

// Budget represents a budget row.
type Budget struct {
	ID        int64
	Title     string
	AccountID *int64
	Currency  *string
	Grouping  string
}

// BudgetAllocation is one period allocation; nil Year means the default
// allocation for every period.
type BudgetAllocation struct {
	BudgetID         int64
	CatID            *int64
	Year             *int
	SecondGroup      *int
	Budget           int64
	RolloverPrevious *int64
	RolloverNext     *int64
	OneTime          bool
}

// BudgetTreeRow is a tree row decorated with its resolved allocation.
type BudgetTreeRow struct {
	ID               int64
	Label            string
	Path             string
	Level            int64
	Budget           *int64
	RolloverPrevious *int64
	RolloverNext     *int64
	OneTime          *bool
}

// Tag represents a tag row.
type Tag struct {
	ID    int64
	Label string
}

// Payee represents a payee row.
type Payee struct {
	ID   int64
	Name string
}

// Method represents a payment method row.
type Method struct {
	ID    int64
	Label string
	Icon  *string
}
