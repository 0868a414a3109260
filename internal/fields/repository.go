package fields

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aroxa-cropscience/aroxa/internal/platform/db"
	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository defines persistence operations for the field registry.
type Repository interface {
	List(ctx context.Context) ([]CustomField, error)
	Create(ctx context.Context, field CustomField) (CustomField, error)
	Update(ctx context.Context, id int64, field CustomField) (CustomField, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) List(ctx context.Context) ([]CustomField, error) {
	const query = `SELECT id, field_name, field_label, field_type, is_required, max_length, placeholder, field_order, created_at, updated_at
		FROM custom_fields ORDER BY field_order ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fields: list: %w", err)
	}
	defer rows.Close()

	var out []CustomField
	for rows.Next() {
		var f CustomField
		if err := rows.Scan(&f.ID, &f.FieldName, &f.FieldLabel, &f.FieldType, &f.IsRequired, &f.MaxLength, &f.Placeholder, &f.FieldOrder, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("fields: scan: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create assigns the next display order and inserts the definition in one
// transaction. The unique index on field_name is the final arbiter against
// concurrent creates with the same name.
func (r *repository) Create(ctx context.Context, field CustomField) (CustomField, error) {
	now := time.Now().UTC()
	field.CreatedAt = now
	field.UpdatedAt = now

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(field_order), 0) + 1 FROM custom_fields`).Scan(&field.FieldOrder); err != nil {
			return fmt.Errorf("fields: next order: %w", err)
		}
		const query = `INSERT INTO custom_fields (field_name, field_label, field_type, is_required, max_length, placeholder, field_order, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
		return tx.QueryRow(ctx, query,
			field.FieldName, field.FieldLabel, field.FieldType, field.IsRequired,
			field.MaxLength, field.Placeholder, field.FieldOrder, now, now,
		).Scan(&field.ID)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return CustomField{}, fmt.Errorf("field name %q already exists: %w", field.FieldName, httpx.ErrDuplicate)
		}
		return CustomField{}, fmt.Errorf("fields: create: %w", err)
	}
	return field, nil
}

func (r *repository) Update(ctx context.Context, id int64, field CustomField) (CustomField, error) {
	const query = `UPDATE custom_fields
		SET field_label = $1, field_type = $2, is_required = $3, max_length = $4, placeholder = $5, updated_at = $6
		WHERE id = $7
		RETURNING id, field_name, field_label, field_type, is_required, max_length, placeholder, field_order, created_at, updated_at`
	var out CustomField
	err := r.db.QueryRow(ctx, query,
		field.FieldLabel, field.FieldType, field.IsRequired, field.MaxLength, field.Placeholder, time.Now().UTC(), id,
	).Scan(&out.ID, &out.FieldName, &out.FieldLabel, &out.FieldType, &out.IsRequired, &out.MaxLength, &out.Placeholder, &out.FieldOrder, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomField{}, fmt.Errorf("field %d: %w", id, httpx.ErrNotFound)
		}
		return CustomField{}, fmt.Errorf("fields: update: %w", err)
	}
	return out, nil
}

// Delete removes the definition unconditionally. Keys already stored in
// product data are left untouched; they simply stop being rendered.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM custom_fields WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("fields: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("field %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
