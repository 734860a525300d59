package history

import (
	"database/sql"
	"fmt"
)

// schemaStatements are executed in order to create the database schema.
// All use IF NOT EXISTS for idempotent re-application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS invocations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		tool       TEXT    NOT NULL,
		kind       TEXT    NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		summary    TEXT    NOT NULL DEFAULT '',
		created_at TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool, created_at)`,

	`CREATE TABLE IF NOT EXISTS nodes (
		kind        TEXT PRIMARY KEY,
		ws_url      TEXT NOT NULL DEFAULT '',
		relay_ws    TEXT NOT NULL DEFAULT '',
		pid         INTEGER NOT NULL DEFAULT 0,
		zombie_json TEXT NOT NULL DEFAULT '',
		base_dir    TEXT NOT NULL DEFAULT '',
		launched_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,
}

// migrate applies all schema statements.
func migrate(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("history: migrate: %w", err)
		}
	}
	return nil
}
