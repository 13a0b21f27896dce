package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: stored-item photos (photo + photo_mime columns) were added
	// after the initial schema. ALTER TABLE has no IF NOT EXISTS, so
	// duplicate-column errors are tolerated in Migrate.
	`ALTER TABLE stored_items ADD COLUMN photo BLOB`,
	`ALTER TABLE stored_items ADD COLUMN photo_mime TEXT`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
