// Package service holds the read models built on top of the repositories:
// debt running balances and the category distribution report.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ewout/pocketledger/internal/database/repository"
)

// DebtTransaction is one linked transaction with the balance after it.
// Amount is shown from the debt's perspective, so a repayment reduces the
// running total.
type DebtTransaction struct {
	TransactionID          int64
	Date                   int64
	Amount                 int64
	RunningTotal           int64
	EquivalentAmount       int64
	EquivalentRunningTotal int64
}

// DebtOverview is a debt with its transaction history and current balances.
type DebtOverview struct {
	Debt                     repository.Debt
	PayeeName                string
	Transactions             []DebtTransaction
	CurrentBalance           int64
	CurrentEquivalentBalance int64
}

// DebtService computes running balances over the transactions linked to a
// debt. Entry lists are cached per debt; callers invalidate after writing
// linked transactions.
type DebtService struct {
	Debts        *repository.DebtRepo
	Payees       *repository.PayeeRepo
	HomeCurrency string

	mu    sync.Mutex
	cache map[int64][]repository.DebtEntry
}

func (s *DebtService) entries(ctx context.Context, debtID int64) ([]repository.DebtEntry, error) {
	s.mu.Lock()
	cached, ok := s.cache[debtID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}
	entries, err := s.Debts.Entries(ctx, debtID, s.HomeCurrency)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[int64][]repository.DebtEntry)
	}
	s.cache[debtID] = entries
	s.mu.Unlock()
	return entries, nil
}

// Invalidate drops the cached entries for one debt.
func (s *DebtService) Invalidate(debtID int64) {
	s.mu.Lock()
	delete(s.cache, debtID)
	s.mu.Unlock()
}

// Overview loads a debt and replays its transactions oldest first. The
// running total starts at the principal and each linked transaction is
// subtracted from it; the equivalent total does the same in the home
// currency, starting from the stored equivalent principal when present.
func (s *DebtService) Overview(ctx context.Context, debtID int64) (*DebtOverview, error) {
	debt, err := s.Debts.Get(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, fmt.Errorf("debt %d not found", debtID)
	}
	payee, err := s.Payees.Get(ctx, debt.PayeeID)
	if err != nil {
		return nil, err
	}
	out := &DebtOverview{Debt: *debt}
	if payee != nil {
		out.PayeeName = payee.Name
	}

	entries, err := s.entries(ctx, debtID)
	if err != nil {
		return nil, err
	}
	runningTotal := debt.Amount
	equivalentTotal := debt.Amount
	if debt.EquivalentAmount != nil {
		equivalentTotal = *debt.EquivalentAmount
	}
	for _, e := range entries {
		equivalent := int64(math.Round(e.EquivalentAmount))
		runningTotal -= e.Amount
		equivalentTotal -= equivalent
		out.Transactions = append(out.Transactions, DebtTransaction{
			TransactionID:          e.TransactionID,
			Date:                   e.Date,
			Amount:                 -e.Amount,
			RunningTotal:           runningTotal,
			EquivalentAmount:       equivalent,
			EquivalentRunningTotal: equivalentTotal,
		})
	}
	out.CurrentBalance = runningTotal
	out.CurrentEquivalentBalance = equivalentTotal
	return out, nil
}

// Close seals a debt against further writes.
func (s *DebtService) Close(ctx context.Context, debtID int64) error {
	return s.Debts.SetSealed(ctx, debtID, true)
}

// Reopen lifts the seal again.
func (s *DebtService) Reopen(ctx context.Context, debtID int64) error {
	return s.Debts.SetSealed(ctx, debtID, false)
}

// Delete removes an open debt and drops its cached entries.
func (s *DebtService) Delete(ctx context.Context, debtID int64) error {
	if err := s.Debts.Delete(ctx, debtID); err != nil {
		return err
	}
	s.Invalidate(debtID)
	return nil
}

func formatAmount(minorUnits int64, currency string) string {
	return decimal.New(minorUnits, -2).StringFixed(2) + " " + currency
}

func (o *DebtOverview) title() string {
	if o.Debt.Amount > 0 {
		return fmt.Sprintf("%s owes me", o.PayeeName)
	}
	return fmt.Sprintf("I owe %s", o.PayeeName)
}

// ExportText renders a debt as a plain-text table: label, title and optional
// description, then one aligned "date | amount | balance" row per entry,
// starting with the principal.
func (s *DebtService) ExportText(ctx context.Context, debtID int64) (string, error) {
	o, err := s.Overview(ctx, debtID)
	if err != nil {
		return "", err
	}

	type row struct{ date, amount, total string }
	rows := []row{{
		date:  time.Unix(o.Debt.Date, 0).UTC().Format("2006-01-02"),
		total: formatAmount(o.Debt.Amount, o.Debt.Currency),
	}}
	for _, t := range o.Transactions {
		rows = append(rows, row{
			date:   time.Unix(t.Date, 0).UTC().Format("2006-01-02"),
			amount: formatAmount(t.Amount, o.Debt.Currency),
			total:  formatAmount(t.RunningTotal, o.Debt.Currency),
		})
	}
	var dateWidth, amountWidth, totalWidth int
	for _, r := range rows {
		dateWidth = max(dateWidth, len(r.date))
		amountWidth = max(amountWidth, len(r.amount))
		totalWidth = max(totalWidth, len(r.total))
	}

	var b strings.Builder
	b.WriteString(o.Debt.Label + "\n")
	b.WriteString(o.title() + "\n")
	if o.Debt.Description != nil && strings.TrimSpace(*o.Debt.Description) != "" {
		b.WriteString(*o.Debt.Description + "\n")
	}
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%*s | %*s | %*s\n", dateWidth, r.date, amountWidth, r.amount, totalWidth, r.total)
	}
	return b.String(), nil
}
