package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

const tokenBytes = 32

// Service wraps admin authentication business rules. There is no user
// concept: a single shared PIN guards the admin panel.
type Service struct {
	repo    Repository
	pinHash []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewService constructs a new Service. pinHash is a bcrypt hash of the
// configured admin PIN.
func NewService(repo Repository, pinHash []byte, ttl time.Duration) *Service {
	return &Service{repo: repo, pinHash: pinHash, ttl: ttl, now: time.Now}
}

// Issue validates the submitted PIN and mints a new session token.
func (s *Service) Issue(ctx context.Context, pin string) (Session, error) {
	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return Session{}, fmt.Errorf("pin mismatch: %w", httpx.ErrInvalidCredentials)
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return Session{}, fmt.Errorf("auth: generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	sess, err := s.repo.Create(ctx, token, s.now().Add(s.ttl))
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Verify reports whether the token matches a stored, non-expired session.
// The expiry window is fixed at issuance; verification never extends it.
func (s *Service) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, token, s.now())
}

// Revoke deletes the session if present. Revoking an unknown or already
// revoked token succeeds.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.Delete(ctx, token)
}

// TTL exposes the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
