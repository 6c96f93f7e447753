package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"database/sql"
	"errors"
	"fmt"

	"github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sqlite3 "modernc.org/sqlite/lib"
)

var tracer = otel.Tracer("repository")

// ErrUsernameTaken is returned when an insert collides with the unique username index.
var ErrUsernameTaken = errors.New("username already taken")

//go:generate mockgen -destination=../mocks/user_repository_mock.go -package=mocks ctchen222/Todo-List/internal/api/repository UserRepository

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// CreateUser inserts a user whose password is already hashed and sets its ID.
func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateUser")
	defer span.End()

	query := `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	span.SetAttributes(attribute.Int64("user.id", id))
	return nil
}

// GetUserByUsername retrieves a user from the database by their username.
func (r *sqliteUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByUsername")
	defer span.End()

	var user models.User
	query := `SELECT id, username, password_hash FROM users WHERE username = ?`
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user from the database by id.
func (r *sqliteUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByID")
	defer span.End()

	var user models.User
	query := `SELECT id, username, password_hash FROM users WHERE id = ?`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// isUniqueViolation relies on the driver reporting extended result codes.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
