package inquiries

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for contact inquiries.
type Repository interface {
	Create(ctx context.Context, inquiry Inquiry) (Inquiry, error)
	List(ctx context.Context) ([]Inquiry, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) Create(ctx context.Context, inquiry Inquiry) (Inquiry, error) {
	const query = `INSERT INTO contact_inquiries (reference, name, email, phone, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now().UTC()
	inquiry.CreatedAt = now
	err := r.db.QueryRow(ctx, query,
		inquiry.Reference, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Subject, inquiry.Message, inquiry.Status, now,
	).Scan(&inquiry.ID)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiries: create: %w", err)
	}
	return inquiry, nil
}

func (r *repository) List(ctx context.Context) ([]Inquiry, error) {
	const query = `SELECT id, reference, name, email, phone, subject, message, status, created_at
		FROM contact_inquiries ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("inquiries: list: %w", err)
	}
	defer rows.Close()

	var out []Inquiry
	for rows.Next() {
		var q Inquiry
		if err := rows.Scan(&q.ID, &q.Reference, &q.Name, &q.Email, &q.Phone, &q.Subject, &q.Message, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("inquiries: scan: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
