package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ewout/pocketledger/internal/config"
	"github.com/ewout/pocketledger/internal/database"
	"github.com/ewout/pocketledger/internal/database/repository"
	"github.com/ewout/pocketledger/internal/query"
	"github.com/ewout/pocketledger/internal/service"
)

// minor renders minor units as a decimal amount.
func minor(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: pocketledger <command> [flags]

commands:
  accounts                 account overview with balances
  tree                     category tree with paths
  distribution [-account]  expense breakdown by top-level category
  debt <id> [-export]      debt running balance, optionally as text export
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.CreateViews(db); err != nil {
		log.Fatalf("create views: %v", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	catRepo := repository.NewCategoryRepo(db)
	debtRepo := repository.NewDebtRepo(db)
	payeeRepo := repository.NewPayeeRepo(db)

	switch os.Args[1] {
	case "accounts":
		summaries, err := acctRepo.Summaries(ctx, cfg.Currency.Home, cfg.Accounts.FutureStartsNow)
		if err != nil {
			log.Fatalf("accounts: %v", err)
		}
		for _, s := range summaries {
			fmt.Printf("%-24s %8s  current %s  total %s\n",
				s.Label, s.Currency,
				minor(s.CurrentBalance), minor(s.TotalBalance))
		}

	case "tree":
		rows, err := catRepo.Tree(ctx, query.TreeSpec{SortOrder: "path"})
		if err != nil {
			log.Fatalf("tree: %v", err)
		}
		for _, r := range rows {
			fmt.Println(r.Path)
		}

	case "distribution":
		fs := flag.NewFlagSet("distribution", flag.ExitOnError)
		account := fs.Int64("account", 0, "restrict to one account id")
		_ = fs.Parse(os.Args[2:])
		svc := &service.DistributionService{Categories: catRepo, Transactions: txRepo}
		rows, err := svc.Report(ctx, *account)
		if err != nil {
			log.Fatalf("distribution: %v", err)
		}
		for _, r := range rows {
			if r.Level != 1 {
				continue
			}
			fmt.Printf("%-24s %s\n", r.Label, minor(r.Total))
		}

	case "debt":
		fs := flag.NewFlagSet("debt", flag.ExitOnError)
		export := fs.Bool("export", false, "print the text export")
		args := os.Args[2:]
		var idArg string
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			idArg, args = args[0], args[1:]
		}
		_ = fs.Parse(args)
		id, err := strconv.ParseInt(idArg, 10, 64)
		if err != nil {
			log.Fatalf("debt: expected a numeric debt id, got %q", idArg)
		}
		svc := &service.DebtService{Debts: debtRepo, Payees: payeeRepo, HomeCurrency: cfg.Currency.Home}
		if *export {
			text, err := svc.ExportText(ctx, id)
			if err != nil {
				log.Fatalf("debt: %v", err)
			}
			fmt.Print(text)
			return
		}
		o, err := svc.Overview(ctx, id)
		if err != nil {
			log.Fatalf("debt: %v", err)
		}
		fmt.Printf("%s (%s)\n", o.Debt.Label, o.PayeeName)
		for _, t := range o.Transactions {
			fmt.Printf("  %d  %s -> %s\n", t.Date, minor(t.Amount), minor(t.RunningTotal))
		}
		fmt.Printf("balance: %s %s\n", minor(o.CurrentBalance), o.Debt.Currency)

	default:
		usage()
	}
}
