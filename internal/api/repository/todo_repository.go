package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

var todoColumns = []string{"id", "task", "done", "deadline", "category", "user_id"}

// TodoQuery holds the store-side filters of a listing. Text search and
// ordering are applied by the caller.
type TodoQuery struct {
	Done     *bool
	Category string
}

//go:generate mockgen -destination=../mocks/todo_repository_mock.go -package=mocks ctchen222/Todo-List/internal/api/repository TodoRepository

// TodoRepository defines the interface for todo data operations. Every method
// is scoped to the owning user; rows of other users behave as missing.
type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	FindByID(ctx context.Context, userID, id int64) (*models.Todo, error)
	List(ctx context.Context, userID int64, q TodoQuery) ([]models.Todo, error)
	Count(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, todo *models.Todo) (bool, error)
	ToggleDone(ctx context.Context, userID, id int64) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type sqliteTodoRepository struct {
	db *sqlx.DB
}

// NewTodoRepository creates a new SQLite-based TodoRepository.
func NewTodoRepository(db *sqlx.DB) TodoRepository {
	return &sqliteTodoRepository{db: db}
}

// Create inserts the todo and sets its ID.
func (r *sqliteTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	ctx, span := tracer.Start(ctx, "TodoRepository.Create")
	defer span.End()

	query, args, err := sq.Insert("todos").
		Columns("task", "done", "deadline", "category", "user_id").
		Values(todo.Task, todo.Done, todo.Deadline, todo.Category, todo.UserID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read todo id: %w", err)
	}
	todo.ID = id
	span.SetAttributes(attribute.Int64("todo.id", id), attribute.Int64("user.id", todo.UserID))
	return nil
}

// FindByID returns the todo owned by userID, or nil when there is none.
func (r *sqliteTodoRepository) FindByID(ctx context.Context, userID, id int64) (*models.Todo, error) {
	ctx, span := tracer.Start(ctx, "TodoRepository.FindByID")
	defer span.End()

	query, args, err := sq.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var todo models.Todo
	if err := r.db.GetContext(ctx, &todo, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return &todo, nil
}

// List returns the user's todos matching q in insertion order.
func (r *sqliteTodoRepository) List(ctx context.Context, userID int64, q TodoQuery) ([]models.Todo, error) {
	ctx, span := tracer.Start(ctx, "TodoRepository.List")
	defer span.End()

	where := sq.And{sq.Eq{"user_id": userID}}
	if q.Done != nil {
		where = append(where, sq.Eq{"done": *q.Done})
	}
	if q.Category != "" {
		where = append(where, sq.Eq{"category": q.Category})
	}

	query, args, err := sq.Select(todoColumns...).
		From("todos").
		Where(where).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	todos := []models.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, args...); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	span.SetAttributes(attribute.Int("todo.count", len(todos)))
	return todos, nil
}

// Count returns how many todos the user owns.
func (r *sqliteTodoRepository) Count(ctx context.Context, userID int64) (int, error) {
	ctx, span := tracer.Start(ctx, "TodoRepository.Count")
	defer span.End()

	var n int
	query := `SELECT COUNT(*) FROM todos WHERE user_id = ?`
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return n, nil
}

// Update writes task, deadline and category. It reports false when the todo
// does not exist for todo.UserID.
func (r *sqliteTodoRepository) Update(ctx context.Context, todo *models.Todo) (bool, error) {
	ctx, span := tracer.Start(ctx, "TodoRepository.Update")
	defer span.End()

	query, args, err := sq.Update("todos").
		Set("task", todo.Task).
		Set("deadline", todo.Deadline).
		Set("category", todo.Category).
		Where(sq.Eq{"id": todo.ID, "user_id": todo.UserID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update: %w", err)
	}
	return r.execScoped(ctx, query, args...)
}

// ToggleDone flips the done flag in a single statement.
func (r *sqliteTodoRepository) ToggleDone(ctx context.Context, userID, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "TodoRepository.ToggleDone")
	defer span.End()

	query := `UPDATE todos SET done = NOT done WHERE id = ? AND user_id = ?`
	return r.execScoped(ctx, query, id, userID)
}

// Delete permanently removes the todo.
func (r *sqliteTodoRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "TodoRepository.Delete")
	defer span.End()

	query := `DELETE FROM todos WHERE id = ? AND user_id = ?`
	return r.execScoped(ctx, query, id, userID)
}

func (r *sqliteTodoRepository) execScoped(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to execute %q: %w", query, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
