package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// whole set is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillListPositions(db); err != nil {
		return fmt.Errorf("backfilling list positions: %w", err)
	}
	return nil
}

// migrateBackfillListPositions assigns creation-ordered positions to lists
// that predate the position column (all rows left at the default 0).
func migrateBackfillListPositions(db *sql.DB) error {
	var total, zero int
	if err := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN position = 0 THEN 1 ELSE 0 END), 0) FROM lists`).Scan(&total, &zero); err != nil {
		return fmt.Errorf("counting lists: %w", err)
	}
	if total < 2 || zero != total {
		return nil
	}
	_, err := db.Exec(`UPDATE lists SET position = (
		SELECT COUNT(*) FROM lists AS earlier
		WHERE earlier.created_at < lists.created_at
		   OR (earlier.created_at = lists.created_at AND earlier.id < lists.id)
	)`)
	if err != nil {
		return fmt.Errorf("updating list positions: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS lists (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`ALTER TABLE lists ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,

	`CREATE TABLE IF NOT EXISTS items (
		id         TEXT PRIMARY KEY,
		list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		parent_id  TEXT REFERENCES items(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lists_position ON lists(position)`,
	`CREATE INDEX IF NOT EXISTS idx_items_list ON items(list_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id)`,
}
