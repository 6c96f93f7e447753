package service

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/repository"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionService issues, resolves and ends login sessions. The token handed
// to the browser is an HS256 JWT whose subject is the server-side session id.
type SessionService interface {
	Start(ctx context.Context, userID int64) (*models.SessionToken, error)
	Resolve(ctx context.Context, token string) (int64, error)
	End(ctx context.Context, token string) error
}

// SessionOptions configures token signing and lifetime.
type SessionOptions struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type sessionService struct {
	sessions repository.SessionRepository
	opts     SessionOptions
	now      func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions repository.SessionRepository, opts SessionOptions) SessionService {
	return &sessionService{
		sessions: sessions,
		opts:     opts,
		now:      time.Now,
	}
}

// Start stores a new session for userID and returns its signed token.
// Expired sessions are purged on the way.
func (s *sessionService) Start(ctx context.Context, userID int64) (*models.SessionToken, error) {
	now := s.now()

	if purged, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		slog.WarnContext(ctx, "Could not purge expired sessions", "error", err)
	} else if purged > 0 {
		slog.DebugContext(ctx, "Purged expired sessions", "count", purged)
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &models.Session{
		ID:        sessionID.String(),
		UserID:    userID,
		ExpiresAt: now.Add(s.opts.TTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.opts.Issuer,
		Subject:   session.ID,
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	signed, err := token.SignedString(s.opts.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	slog.InfoContext(ctx, "Session started", "user.id", userID, "session.id", session.ID)
	return &models.SessionToken{Value: signed, ExpiresAt: session.ExpiresAt}, nil
}

// Resolve returns the user id bound to token. Malformed, forged, expired or
// revoked tokens yield ErrSessionInvalid.
func (s *sessionService) Resolve(ctx context.Context, token string) (int64, error) {
	sessionID, err := s.parse(token)
	if err != nil {
		slog.DebugContext(ctx, "Rejected session token", "error", err)
		return 0, ErrSessionInvalid
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, ErrSessionInvalid
	}
	return session.UserID, nil
}

// End revokes the session behind token. Invalid tokens are ignored.
func (s *sessionService) End(ctx context.Context, token string) error {
	sessionID, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Session ended", "session.id", sessionID)
	return nil
}

func (s *sessionService) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.opts.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
