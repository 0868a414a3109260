package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for admin sessions.
type Repository interface {
	Create(ctx context.Context, token string, expiresAt time.Time) (Session, error)
	Exists(ctx context.Context, token string, now time.Time) (bool, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

// Create persists a new session token with its expiry.
func (r *PGRepository) Create(ctx context.Context, token string, expiresAt time.Time) (Session, error) {
	const query = `INSERT INTO admin_sessions (session_token, expires_at, created_at) VALUES ($1, $2, $3) RETURNING id`
	now := time.Now().UTC()
	sess := Session{Token: token, ExpiresAt: expiresAt.UTC(), CreatedAt: now}
	if err := r.db.QueryRow(ctx, query, token, expiresAt.UTC(), now).Scan(&sess.ID); err != nil {
		return Session{}, fmt.Errorf("auth: create session: %w", err)
	}
	return sess, nil
}

// Exists reports whether a non-expired session with the token is stored.
// Expired rows are filtered here, never rewritten.
func (r *PGRepository) Exists(ctx context.Context, token string, now time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admin_sessions WHERE session_token = $1 AND expires_at > $2)`
	var found bool
	if err := r.db.QueryRow(ctx, query, token, now.UTC()).Scan(&found); err != nil {
		return false, fmt.Errorf("auth: lookup session: %w", err)
	}
	return found, nil
}

// Delete removes a session record. Deleting an absent token is not an error.
func (r *PGRepository) Delete(ctx context.Context, token string) error {
	const query = `DELETE FROM admin_sessions WHERE session_token = $1`
	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry and returns the count.
func (r *PGRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM admin_sessions WHERE expires_at <= $1`
	tag, err := r.db.Exec(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("auth: delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
