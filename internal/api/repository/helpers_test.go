package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/db/dbtest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	return dbtest.New(t)
}

func seedUser(t *testing.T, conn *sqlx.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(conn).CreateUser(context.Background(), user))
	return user
}

func strPtr(s string) *string { return &s }

func datePtr(s string) *models.Date { return models.ParseDate(s) }
