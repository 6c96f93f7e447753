package models

import "time"

// Session binds a server-side session id to a user until it expires.
type Session struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionToken is the signed value handed to the browser for a session.
type SessionToken struct {
	Value     string
	ExpiresAt time.Time
}
