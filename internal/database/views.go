package database

import (
	"database/sql"
	"fmt"

	"github.com/ewout/pocketledger/internal/query"
	"github.com/ewout/pocketledger/internal/schema"
)

// CreateViews (re)creates the denormalized list views. Their definitions
// come from the join composer, so they are rebuilt at startup instead of
// being frozen into a migration.
func CreateViews(db *sql.DB) error {
	views := []struct{ name, table string }{
		{schema.ViewExtended, schema.TableTransactions},
		{schema.ViewTemplatesExtended, schema.TableTemplates},
	}
	return WithTx(db, func(tx *sql.Tx) error {
		for _, v := range views {
			body, err := query.BuildViewDefinition(v.table)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("DROP VIEW IF EXISTS " + v.name); err != nil {
				return fmt.Errorf("drop view %s: %w", v.name, err)
			}
			if _, err := tx.Exec("CREATE VIEW " + v.name + body); err != nil {
				return fmt.Errorf("create view %s: %w", v.name, err)
			}
		}
		return nil
	})
}
