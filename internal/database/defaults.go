package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ewout/pocketledger/internal/database/repository"
)

// SeedDefaults ensures baseline categories exist for new databases.
// It only runs against an empty category table, so user edits survive.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := repository.NewCategoryRepo(db)
	n, err := catRepo.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	defaults := []string{
		"Income",
		"Food > Groceries",
		"Food > Restaurants",
		"Transport",
		"Shopping",
		"Utilities",
		"Subscriptions",
		"Savings",
		"Health",
		"Entertainment",
	}
	created := make(map[string]int64)
	for _, path := range defaults {
		var parentID *int64
		var prefix string
		for _, raw := range strings.Split(path, ">") {
			label := strings.TrimSpace(raw)
			prefix += "/" + label
			id, ok := created[prefix]
			if !ok {
				id, err = catRepo.Create(ctx, label, parentID)
				if err != nil {
					return err
				}
				created[prefix] = id
			}
			pid := id
			parentID = &pid
		}
	}
	return nil
}
