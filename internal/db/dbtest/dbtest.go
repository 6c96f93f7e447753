// Package dbtest provides throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"ctchen222/Todo-List/internal/db"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

// New returns a fresh database with the schema applied, closed when the test ends.
func New(tb testing.TB) *sqlx.DB {
	tb.Helper()
	ctx := context.Background()

	conn, err := db.Connect(ctx, filepath.Join(tb.TempDir(), "test.db"))
	if err != nil {
		tb.Fatalf("failed to open test database: %v", err)
	}
	tb.Cleanup(func() { conn.Close() })

	if err := db.InitializeDB(ctx, conn); err != nil {
		tb.Fatalf("failed to initialize test database: %v", err)
	}
	return conn
}
