package database

import (
	"path/filepath"
	"testing"
)

func TestCreateViews(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := CreateViews(db); err != nil {
		t.Fatalf("create views: %v", err)
	}

	mustExec := func(q string, args ...any) int64 {
		t.Helper()
		res, err := db.Exec(q, args...)
		if err != nil {
			t.Fatalf("exec: %v", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			t.Fatal(err)
		}
		return id
	}

	checking := mustExec(`INSERT INTO accounts(label, currency) VALUES ('Checking', 'EUR')`)
	savings := mustExec(`INSERT INTO accounts(label, currency) VALUES ('Savings', 'EUR')`)
	food := mustExec(`INSERT INTO categories(label, uuid) VALUES ('Food', 'uuid-food')`)
	groceries := mustExec(`INSERT INTO categories(parent_id, label, uuid) VALUES (?, 'Groceries', 'uuid-groceries')`, food)
	categorized := mustExec(`
	INSERT INTO transactions(account_id, cat_id, amount, date) VALUES (?, ?, -500, 1)`, checking, groceries)
	transfer := mustExec(`
	INSERT INTO transactions(account_id, amount, date, transfer_account) VALUES (?, -700, 1, ?)`, checking, savings)

	var path, label, currency string
	if err := db.QueryRow(`
	SELECT path, label, currency FROM transactions_extended WHERE _id = ?`, categorized).
		Scan(&path, &label, &currency); err != nil {
		t.Fatalf("extended row: %v", err)
	}
	if path != "Food > Groceries" || label != "Food > Groceries" || currency != "EUR" {
		t.Errorf("path/label/currency = %q/%q/%q", path, label, currency)
	}

	if err := db.QueryRow(`
	SELECT label FROM transactions_extended WHERE _id = ?`, transfer).Scan(&label); err != nil {
		t.Fatalf("transfer row: %v", err)
	}
	if label != "Savings" {
		t.Errorf("transfer label = %q, want Savings", label)
	}

	var n int
	if err := db.QueryRow(`SELECT count(*) FROM templates_extended`).Scan(&n); err != nil {
		t.Fatalf("templates view: %v", err)
	}
	if n != 0 {
		t.Errorf("templates_extended rows = %d, want 0", n)
	}

	// rebuilding replaces the definitions in place
	if err := CreateViews(db); err != nil {
		t.Fatalf("rebuild views: %v", err)
	}
	if err := db.QueryRow(`
	SELECT path FROM transactions_extended WHERE _id = ?`, categorized).Scan(&path); err != nil {
		t.Fatalf("after rebuild: %v", err)
	}
}
