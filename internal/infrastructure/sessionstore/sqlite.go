package sessionstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS onboarding_sessions (
		id               TEXT PRIMARY KEY,
		campground_id    TEXT NOT NULL,
		campground_slug  TEXT NOT NULL DEFAULT '',
		token            TEXT NOT NULL UNIQUE,
		current_step     TEXT NOT NULL DEFAULT '',
		inventory_path   TEXT NOT NULL DEFAULT '',
		completed_steps  TEXT NOT NULL DEFAULT '[]',
		data             TEXT NOT NULL DEFAULT '{}',
		idempotency_keys TEXT NOT NULL DEFAULT '{}',
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)
`

var sqliteQueries = queries{
	insert: `
		INSERT INTO onboarding_sessions (
			id, campground_id, campground_slug, token, current_step,
			inventory_path, completed_steps, data, idempotency_keys,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
	selectByID: `
		SELECT id, campground_id, campground_slug, token, current_step,
		       inventory_path, completed_steps, data, idempotency_keys,
		       created_at, updated_at
		FROM onboarding_sessions
		WHERE id = ?
	`,
	selectByToken: `
		SELECT id, campground_id, campground_slug, token, current_step,
		       inventory_path, completed_steps, data, idempotency_keys,
		       created_at, updated_at
		FROM onboarding_sessions
		WHERE token = ?
	`,
	update: `
		UPDATE onboarding_sessions
		SET campground_slug = ?, current_step = ?, inventory_path = ?,
		    completed_steps = ?, data = ?, idempotency_keys = ?,
		    updated_at = ?
		WHERE id = ?
	`,
}

// NewSQLiteStore opens a SQLite-backed session store at path. Suitable for
// single-node deployments and local development.
func NewSQLiteStore(path string) (SessionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// The pure-Go driver does not tolerate concurrent writers on one file.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &sqlStore{db: db, queries: sqliteQueries}, nil
}
