// Package database owns the sqlite connection, schema migrations, the
// generated list views and seed data for new databases.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeout bounds how long a statement waits on a locked database file
// before failing.
const busyTimeout = 5 * time.Second

// Open opens the ledger database. Foreign keys are enforced (the schema
// relies on cascading category and split-part deletes) and access runs over
// a single connection.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

// WithTx runs fn in a transaction, rolling back when fn errors.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
