package query_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/ewout/pocketledger/internal/database"
)

// testDB creates a migrated temporary database and returns it along with a
// cleanup function.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	f, err := os.CreateTemp("", "pocketledger-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := database.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("open db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		os.Remove(path)
		t.Fatalf("migrate: %v", err)
	}
	return db, func() {
		db.Close()
		os.Remove(path)
	}
}

// mustExec fails the test on the first statement that errors.
func mustExec(t *testing.T, db *sql.DB, stmt string, args ...any) int64 {
	t.Helper()
	res, err := db.ExecContext(context.Background(), stmt, args...)
	if err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// addCategory inserts a category and returns its id.
func addCategory(t *testing.T, db *sql.DB, label string, parentID any) int64 {
	t.Helper()
	return mustExec(t, db,
		`INSERT INTO categories(parent_id, label, uuid) VALUES (?, ?, ?)`,
		parentID, label, "uuid-"+label)
}

// addAccount inserts an account and returns its id.
func addAccount(t *testing.T, db *sql.DB, label, currency string, openingBalance int64) int64 {
	t.Helper()
	return mustExec(t, db,
		`INSERT INTO accounts(label, currency, opening_balance) VALUES (?, ?, ?)`,
		label, currency, openingBalance)
}
