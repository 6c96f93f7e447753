package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisSessionRepository struct {
	rdb *redis.Client
}

// NewRedisSessionRepository creates a Redis-backed SessionRepository. Keys
// carry a TTL so expired sessions disappear on their own.
func NewRedisSessionRepository(rdb *redis.Client) SessionRepository {
	return &redisSessionRepository{rdb: rdb}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *redisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Get")
	defer span.End()

	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}
	return &session, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op; Redis evicts keys when their TTL runs out.
func (r *redisSessionRepository) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
