package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// DriverName is the database/sql driver registered by glebarez/go-sqlite.
const DriverName = "sqlite"

var pragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
}

// Connect opens the SQLite database at dsn and verifies it is reachable.
// Foreign keys are enabled on every pooled connection.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(DriverName, withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	// SQLite allows a single writer; one connection keeps requests from
	// tripping over each other's locks.
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	slog.InfoContext(ctx, "Connected to database", "dsn", dsn)
	return pool, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task TEXT NOT NULL,
	done BOOLEAN NOT NULL DEFAULT 0,
	deadline TEXT,
	category TEXT,
	user_id INTEGER NOT NULL REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	expires_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

// InitializeDB creates the schema if it doesn't exist yet.
func InitializeDB(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	slog.InfoContext(ctx, "DB schema verified")
	return nil
}
