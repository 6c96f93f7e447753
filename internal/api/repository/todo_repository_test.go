package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	owner := seedUser(t, conn, "owner")
	repo := NewTodoRepository(conn)

	todo := &models.Todo{
		Task:     "Buy milk",
		Deadline: datePtr("2025-01-10"),
		Category: strPtr("Pribadi"),
		UserID:   owner.ID,
	}
	require.NoError(t, repo.Create(ctx, todo))
	assert.NotZero(t, todo.ID)

	got, err := repo.FindByID(ctx, owner.ID, todo.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Buy milk", got.Task)
	assert.False(t, got.Done)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2025-01-10", got.Deadline.String())
	assert.Equal(t, "Pribadi", got.CategoryName())
}

func TestTodoRepository_NullableColumns(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	owner := seedUser(t, conn, "owner")
	repo := NewTodoRepository(conn)

	todo := &models.Todo{Task: "No extras", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, todo))

	got, err := repo.FindByID(ctx, owner.ID, todo.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Deadline)
	assert.Nil(t, got.Category)
}

func TestTodoRepository_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	repo := NewTodoRepository(conn)

	todo := &models.Todo{Task: "Bob's task", UserID: bob.ID}
	require.NoError(t, repo.Create(ctx, todo))

	got, err := repo.FindByID(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := repo.ToggleDone(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Update(ctx, &models.Todo{ID: todo.ID, UserID: alice.ID, Task: "hijacked"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := repo.List(ctx, alice.ID, TodoQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)

	unchanged, err := repo.FindByID(ctx, bob.ID, todo.ID)
	require.NoError(t, err)
	require.NotNil(t, unchanged)
	assert.Equal(t, "Bob's task", unchanged.Task)
	assert.False(t, unchanged.Done)
}

func TestTodoRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	owner := seedUser(t, conn, "owner")
	repo := NewTodoRepository(conn)

	seed := []*models.Todo{
		{Task: "Report", Category: strPtr("Pekerjaan"), UserID: owner.ID},
		{Task: "Thesis", Category: strPtr("Kuliah"), UserID: owner.ID},
		{Task: "Gym", UserID: owner.ID},
	}
	for _, todo := range seed {
		require.NoError(t, repo.Create(ctx, todo))
	}
	_, err := repo.ToggleDone(ctx, owner.ID, seed[1].ID)
	require.NoError(t, err)

	done, open := true, false
	tests := []struct {
		name  string
		query TodoQuery
		want  []string
	}{
		{name: "all", query: TodoQuery{}, want: []string{"Report", "Thesis", "Gym"}},
		{name: "completed", query: TodoQuery{Done: &done}, want: []string{"Thesis"}},
		{name: "active", query: TodoQuery{Done: &open}, want: []string{"Report", "Gym"}},
		{name: "category", query: TodoQuery{Category: "Pekerjaan"}, want: []string{"Report"}},
		{name: "category and status", query: TodoQuery{Category: "Kuliah", Done: &open}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, err := repo.List(ctx, owner.ID, tt.query)
			require.NoError(t, err)
			tasks := make([]string, 0, len(todos))
			for _, todo := range todos {
				tasks = append(tasks, todo.Task)
			}
			assert.Equal(t, tt.want, tasks)
		})
	}
}

func TestTodoRepository_ToggleUpdateDeleteCount(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	owner := seedUser(t, conn, "owner")
	repo := NewTodoRepository(conn)

	todo := &models.Todo{Task: "Draft", Deadline: datePtr("2025-01-01"), Category: strPtr("Urgent"), UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, todo))

	ok, err := repo.ToggleDone(ctx, owner.ID, todo.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, owner.ID, todo.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)

	ok, err = repo.Update(ctx, &models.Todo{ID: todo.ID, UserID: owner.ID, Task: "Final"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.FindByID(ctx, owner.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Task)
	assert.Nil(t, got.Deadline)
	assert.Nil(t, got.Category)
	assert.True(t, got.Done)

	n, err := repo.Count(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err = repo.Delete(ctx, owner.ID, todo.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err = repo.Count(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTodoRepository_ListQueryShape(t *testing.T) {
	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer rawDB.Close()

	repo := NewTodoRepository(sqlx.NewDb(rawDB, "sqlite"))
	done := false

	mock.ExpectQuery(`SELECT id, task, done, deadline, category, user_id FROM todos WHERE \(user_id = \? AND done = \? AND category = \?\) ORDER BY id`).
		WithArgs(int64(7), false, "Kuliah").
		WillReturnRows(sqlmock.NewRows([]string{"id", "task", "done", "deadline", "category", "user_id"}).
			AddRow(1, "Thesis", false, "2025-03-01", "Kuliah", 7))

	todos, err := repo.List(context.Background(), 7, TodoQuery{Done: &done, Category: "Kuliah"})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Thesis", todos[0].Task)
	assert.Equal(t, "2025-03-01", todos[0].Deadline.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_DriverError(t *testing.T) {
	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer rawDB.Close()

	repo := NewTodoRepository(sqlx.NewDb(rawDB, "sqlite"))
	boom := errors.New("database is locked")

	mock.ExpectExec(`DELETE FROM todos WHERE id = \? AND user_id = \?`).
		WithArgs(int64(3), int64(7)).
		WillReturnError(boom)

	ok, err := repo.Delete(context.Background(), 7, 3)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
