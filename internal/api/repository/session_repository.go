package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -destination=../mocks/session_repository_mock.go -package=mocks ctchen222/Todo-List/internal/api/repository SessionRepository

// SessionRepository stores server-side sessions. Get returns nil for unknown
// or expired sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sqliteSessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a SQLite-backed SessionRepository.
func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sqliteSessionRepository{db: db}
}

func (r *sqliteSessionRepository) Create(ctx context.Context, session *models.Session) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	query := `INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.ExpiresAt.UTC().Truncate(time.Second),
		session.CreatedAt.UTC().Truncate(time.Second),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Get")
	defer span.End()

	var session models.Session
	query := `SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?`
	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}
	return &session, nil
}

func (r *sqliteSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.DeleteExpired")
	defer span.End()

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC().Truncate(time.Second))
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
