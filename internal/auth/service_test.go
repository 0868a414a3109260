package auth

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]Session
	nextID   int64
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]Session)}
}

func (r *memorySessions) Create(ctx context.Context, token string, expiresAt time.Time) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sess := Session{ID: r.nextID, Token: token, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	r.sessions[token] = sess
	return sess, nil
}

func (r *memorySessions) Exists(ctx context.Context, token string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[token]
	return ok && sess.ExpiresAt.After(now), nil
}

func (r *memorySessions) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memorySessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for token, sess := range r.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(r.sessions, token)
			count++
		}
	}
	return count, nil
}

func mustHash(t *testing.T, pin string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func TestIssueRejectsWrongPIN(t *testing.T) {
	svc := NewService(newMemorySessions(), mustHash(t, "1234"), time.Hour)

	_, err := svc.Issue(context.Background(), "9999")
	require.ErrorIs(t, err, httpx.ErrInvalidCredentials)

	_, err = svc.Issue(context.Background(), "")
	require.ErrorIs(t, err, httpx.ErrInvalidCredentials)
}

func TestIssueMintsOpaqueToken(t *testing.T) {
	svc := NewService(newMemorySessions(), mustHash(t, "1234"), time.Hour)

	first, err := svc.Issue(context.Background(), "1234")
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), first.Token)

	second, err := svc.Issue(context.Background(), "1234")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	ok, err := svc.Verify(context.Background(), first.Token)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	repo := newMemorySessions()
	svc := NewService(repo, mustHash(t, "1234"), time.Hour)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	sess, err := svc.Issue(context.Background(), "1234")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	ok, err := svc.Verify(context.Background(), sess.Token)
	require.NoError(t, err)
	require.True(t, ok)

	svc.now = func() time.Time { return issuedAt.Add(time.Hour) }
	ok, err = svc.Verify(context.Background(), sess.Token)
	require.NoError(t, err)
	require.False(t, ok, "verification must never extend the expiry window")
}

func TestVerifyEmptyAndUnknownToken(t *testing.T) {
	svc := NewService(newMemorySessions(), mustHash(t, "1234"), time.Hour)

	ok, err := svc.Verify(context.Background(), "")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.Verify(context.Background(), "deadbeef")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc := NewService(newMemorySessions(), mustHash(t, "1234"), time.Hour)

	sess, err := svc.Issue(context.Background(), "1234")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), sess.Token))

	ok, err := svc.Verify(context.Background(), sess.Token)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, svc.Revoke(context.Background(), sess.Token))
	require.NoError(t, svc.Revoke(context.Background(), ""))
}

func TestDeleteExpiredLeavesLiveSessions(t *testing.T) {
	repo := newMemorySessions()
	svc := NewService(repo, mustHash(t, "1234"), time.Minute)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	stale, err := svc.Issue(context.Background(), "1234")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(30 * time.Minute) }
	live, err := svc.Issue(context.Background(), "1234")
	require.NoError(t, err)

	count, err := repo.DeleteExpired(context.Background(), issuedAt.Add(30*time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	ok, err := svc.Verify(context.Background(), live.Token)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Verify(context.Background(), stale.Token)
	require.NoError(t, err)
	require.False(t, ok)
}
