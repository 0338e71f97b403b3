package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UsersEmailKey is the unique constraint backing the one-account-per-email rule.
const UsersEmailKey = "users_email_key"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id               TEXT PRIMARY KEY,
		username         TEXT NOT NULL,
		email            TEXT NOT NULL,
		password_hash    BYTEA NOT NULL,
		full_name        TEXT NOT NULL,
		role             TEXT NOT NULL DEFAULT 'staff',
		department       TEXT NOT NULL,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		id_document_path TEXT,
		birthday         DATE,
		address          TEXT,
		civil_status     TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ` + UsersEmailKey + ` UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		id           TEXT PRIMARY KEY,
		token_hash   BYTEA NOT NULL UNIQUE,
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		email        TEXT NOT NULL,
		full_name    TEXT NOT NULL,
		role         TEXT NOT NULL,
		logged_in    BOOLEAN NOT NULL DEFAULT TRUE,
		login_time   TIMESTAMPTZ NOT NULL,
		ip_address   TEXT NOT NULL DEFAULT '',
		user_agent   TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS user_sessions_expires_at_idx ON user_sessions (expires_at)`,
	`CREATE INDEX IF NOT EXISTS users_id_document_path_idx ON users (id_document_path) WHERE id_document_path IS NOT NULL`,
}

// EnsureSchema creates the portal tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
