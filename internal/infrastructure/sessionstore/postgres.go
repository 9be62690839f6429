package sessionstore

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS onboarding_sessions (
		id               TEXT PRIMARY KEY,
		campground_id    TEXT NOT NULL,
		campground_slug  TEXT NOT NULL DEFAULT '',
		token            TEXT NOT NULL UNIQUE,
		current_step     TEXT NOT NULL DEFAULT '',
		inventory_path   TEXT NOT NULL DEFAULT '',
		completed_steps  JSONB NOT NULL DEFAULT '[]',
		data             JSONB NOT NULL DEFAULT '{}',
		idempotency_keys JSONB NOT NULL DEFAULT '{}',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)
`

var postgresQueries = queries{
	insert: `
		INSERT INTO onboarding_sessions (
			id, campground_id, campground_slug, token, current_step,
			inventory_path, completed_steps, data, idempotency_keys,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
	selectByID: `
		SELECT id, campground_id, campground_slug, token, current_step,
		       inventory_path, completed_steps, data, idempotency_keys,
		       created_at, updated_at
		FROM onboarding_sessions
		WHERE id = $1
	`,
	selectByToken: `
		SELECT id, campground_id, campground_slug, token, current_step,
		       inventory_path, completed_steps, data, idempotency_keys,
		       created_at, updated_at
		FROM onboarding_sessions
		WHERE token = $1
	`,
	update: `
		UPDATE onboarding_sessions
		SET campground_slug = $1, current_step = $2, inventory_path = $3,
		    completed_steps = $4, data = $5, idempotency_keys = $6,
		    updated_at = $7
		WHERE id = $8
	`,
}

// NewPostgresStore opens a Postgres-backed session store.
func NewPostgresStore(connString string) (SessionStore, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &sqlStore{db: db, queries: postgresQueries}, nil
}
