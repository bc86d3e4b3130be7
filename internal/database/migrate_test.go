package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRunMigrations(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, name := range []string{
		"categories", "accounts", "transactions", "budgets", "budget_allocations",
		"debts", "tags", "account_exchangerates",
		"transactions_committed", "transactions_with_account",
	} {
		var n int
		err := db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE name = ? AND type IN ('table', 'view')`,
			name).Scan(&n)
		if err != nil {
			t.Fatalf("sqlite_master %s: %v", name, err)
		}
		if n != 1 {
			t.Errorf("expected %s to exist after migrating", name)
		}
	}

	// running again is a no-op
	if err := RunMigrations(db); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	if err := SeedDefaults(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var first int
	if err := db.QueryRow(`SELECT count(*) FROM categories`).Scan(&first); err != nil {
		t.Fatal(err)
	}
	if first == 0 {
		t.Fatal("expected seeded categories")
	}

	if err := SeedDefaults(ctx, db); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var second int
	if err := db.QueryRow(`SELECT count(*) FROM categories`).Scan(&second); err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("second seed changed the table: %d != %d", second, first)
	}

	// nested defaults land under their parent
	var parented int
	if err := db.QueryRow(`
	SELECT count(*) FROM categories c
	JOIN categories p ON p._id = c.parent_id
	WHERE c.label = 'Groceries' AND p.label = 'Food'`).Scan(&parented); err != nil {
		t.Fatal(err)
	}
	if parented != 1 {
		t.Error("expected Groceries nested under Food")
	}
}
