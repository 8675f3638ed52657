package auth

import (
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/feedback-collector/internal"
	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier compares passwords against bcrypt hashes keyed by username.
type BcryptVerifier struct {
	hashes map[string]string
}

func NewBcryptVerifier(hashes map[string]string) *BcryptVerifier {
	return &BcryptVerifier{hashes: copyCredentials(hashes)}
}

func (v *BcryptVerifier) Verify(username, password string) error {
	hash, ok := v.hashes[username]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// PlainTextVerifier compares stored plain-text secrets in constant time.
type PlainTextVerifier struct {
	secrets map[string]string
}

func NewPlainTextVerifier(secrets map[string]string) *PlainTextVerifier {
	return &PlainTextVerifier{secrets: copyCredentials(secrets)}
}

func (v *PlainTextVerifier) Verify(username, password string) error {
	secret, ok := v.secrets[username]
	if !ok {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// NewVerifier picks the verifier for security.password_hashing.
func NewVerifier(cfg internal.SecurityConfig, logger *slog.Logger) (CredentialVerifier, error) {
	switch cfg.PasswordHashing {
	case "", internal.PasswordHashingBcrypt:
		return NewBcryptVerifier(cfg.Credentials), nil
	case internal.PasswordHashingPlain:
		if logger != nil {
			logger.Warn("dashboard credentials are stored in plain text; switch security.password_hashing to bcrypt")
		}
		return NewPlainTextVerifier(cfg.Credentials), nil
	default:
		return nil, fmt.Errorf("unknown password hashing mode %q", cfg.PasswordHashing)
	}
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func copyCredentials(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
