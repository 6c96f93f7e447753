package service

import (
	"cmp"
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/repository"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/text/cases"
)

// TodoService defines the todo operations. Every call acts on behalf of the
// given user; todos owned by anyone else behave as if they did not exist.
type TodoService interface {
	List(ctx context.Context, userID int64, filter models.TodoFilter) (*models.TodoList, error)
	Get(ctx context.Context, userID, id int64) (*models.Todo, error)
	Add(ctx context.Context, userID int64, form models.TodoForm) (*models.Todo, error)
	Toggle(ctx context.Context, userID, id int64) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
	Edit(ctx context.Context, userID, id int64, form models.TodoForm) (*models.Todo, error)
}

type todoService struct {
	todoRepo repository.TodoRepository
	created  metric.Int64Counter
}

// NewTodoService creates a new TodoService.
func NewTodoService(todoRepo repository.TodoRepository) TodoService {
	created, err := meter.Int64Counter("todos.created",
		metric.WithDescription("Number of todos created"))
	if err != nil {
		slog.Error("Could not create todos.created counter", "error", err)
	}
	return &todoService{todoRepo: todoRepo, created: created}
}

// List returns the user's todos narrowed by filter: status and category are
// applied by the store, the text query here, then todos are ordered by
// deadline with undated todos last. The filter is echoed back as given, with
// a missing status reported as StatusAll.
func (s *todoService) List(ctx context.Context, userID int64, filter models.TodoFilter) (*models.TodoList, error) {
	if filter.Status == "" {
		filter.Status = models.StatusAll
	}

	q := repository.TodoQuery{Category: filter.Category}
	switch filter.NormalizedStatus() {
	case models.StatusActive:
		done := false
		q.Done = &done
	case models.StatusCompleted:
		done := true
		q.Done = &done
	}

	todos, err := s.todoRepo.List(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	total, err := s.todoRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	if filter.Query != "" {
		todos = filterByText(todos, filter.Query)
	}
	SortByDeadline(todos)

	return &models.TodoList{Todos: todos, Total: total, Filter: filter}, nil
}

func filterByText(todos []models.Todo, query string) []models.Todo {
	fold := cases.Fold()
	needle := fold.String(query)

	matched := todos[:0]
	for _, todo := range todos {
		if strings.Contains(fold.String(todo.Task), needle) {
			matched = append(matched, todo)
		}
	}
	return matched
}

// SortByDeadline orders todos by ascending deadline. Todos without a deadline
// sort after every dated todo; ties keep their existing order.
func SortByDeadline(todos []models.Todo) {
	slices.SortStableFunc(todos, func(a, b models.Todo) int {
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			return 0
		case a.Deadline == nil:
			return 1
		case b.Deadline == nil:
			return -1
		}
		return cmp.Compare(a.Deadline.Unix(), b.Deadline.Unix())
	})
}

// Get returns the user's todo or ErrNotFound.
func (s *todoService) Get(ctx context.Context, userID, id int64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrNotFound
	}
	return todo, nil
}

// Add creates a todo with the task exactly as submitted. An empty task returns
// ErrValidationSkipped and creates nothing; an unparseable deadline is stored
// as no deadline.
func (s *todoService) Add(ctx context.Context, userID int64, form models.TodoForm) (*models.Todo, error) {
	if form.Task == "" {
		return nil, ErrValidationSkipped
	}

	todo := &models.Todo{
		Task:     form.Task,
		Deadline: models.ParseDate(form.Deadline),
		Category: optional(form.Category),
		UserID:   userID,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	if s.created != nil {
		s.created.Add(ctx, 1)
	}
	slog.DebugContext(ctx, "Todo created", "todo.id", todo.ID, "user.id", userID)
	return todo, nil
}

// Toggle flips the done flag of the user's todo.
func (s *todoService) Toggle(ctx context.Context, userID, id int64) (*models.Todo, error) {
	ok, err := s.todoRepo.ToggleDone(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

// Delete permanently removes the user's todo.
func (s *todoService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.todoRepo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	slog.DebugContext(ctx, "Todo deleted", "todo.id", id, "user.id", userID)
	return nil
}

// Edit replaces task, deadline and category. A missing todo is ErrNotFound;
// an empty task leaves the todo untouched and returns ErrValidationSkipped.
// A bad deadline string clears the deadline.
func (s *todoService) Edit(ctx context.Context, userID, id int64, form models.TodoForm) (*models.Todo, error) {
	todo, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	task := strings.TrimSpace(form.Task)
	if task == "" {
		return todo, ErrValidationSkipped
	}

	todo.Task = task
	todo.Deadline = models.ParseDate(form.Deadline)
	todo.Category = optional(form.Category)

	ok, err := s.todoRepo.Update(ctx, todo)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Deleted between the read and the write.
		return nil, ErrNotFound
	}
	return todo, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
