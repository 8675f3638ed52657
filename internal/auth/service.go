package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/feedback-collector/internal/metrics"
)

// Gate guards the dashboard with explicit session records.
type Gate struct {
	verifier CredentialVerifier
	store    SessionStore
	ttl      time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewGate(verifier CredentialVerifier, store SessionStore, ttl time.Duration, recorder metrics.Recorder, logger *slog.Logger) *Gate {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Gate{
		verifier: verifier,
		store:    store,
		ttl:      ttl,
		metrics:  recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies the credentials exactly as typed and opens a new session.
func (g *Gate) Login(ctx context.Context, username, password string) (*Session, error) {
	dto := LoginDTO{Username: username, Password: password}
	if err := dto.Validate(); err != nil {
		g.metrics.LoginAttempt(metrics.OutcomeDenied)
		return nil, ErrInvalidCredentials
	}

	if err := g.verifier.Verify(dto.Username, dto.Password); err != nil {
		g.logger.Warn("dashboard login denied", "username", dto.Username)
		g.metrics.LoginAttempt(metrics.OutcomeDenied)
		return nil, ErrInvalidCredentials
	}

	id, err := GenerateRandomToken()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := g.now().UTC()
	session := &Session{
		ID:            id,
		Username:      dto.Username,
		Authenticated: true,
		CreatedAt:     now,
		ExpiresAt:     now.Add(g.ttl),
	}
	if err := g.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	g.metrics.LoginAttempt(metrics.OutcomeSuccess)
	g.logger.Info("dashboard login", "username", session.Username)
	return session, nil
}

// RequireSession returns the session for id, or ErrSessionNotFound / ErrSessionExpired.
func (g *Gate) RequireSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	session, err := g.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Expired(g.now()) {
		if err := g.store.Delete(ctx, sessionID); err != nil {
			g.logger.Warn("failed to remove expired session", "error", err)
		}
		return nil, ErrSessionExpired
	}

	if !session.Authenticated || session.Username == "" {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Logout removes the session. Unknown or empty IDs are not an error.
func (g *Gate) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := g.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
