package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/feedback-collector/internal"
)

// Session is the server-side record behind a dashboard login.
type Session struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore persists sessions by ID.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrSessionNotFound when no record exists.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete is a no-op for unknown IDs.
	Delete(ctx context.Context, id string) error
}

// CredentialVerifier checks a username/password pair against configured credentials.
type CredentialVerifier interface {
	Verify(username, password string) error
}

var (
	ErrInvalidCredentials = internal.ErrInvalidCredentials
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid session token")
)

// SessionCookie carries the signed session token.
const SessionCookie = "feedback_session"
