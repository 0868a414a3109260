package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, int, error)
	GetBySlug(ctx context.Context, slug string) (Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	BatchNoExists(ctx context.Context, batchNo string) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const productColumns = `id, slug, batch_no, COALESCE(product_image, ''), custom_data, COALESCE(qr_code, ''), created_at, updated_at`

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	where := ""
	args := []any{}
	if filter.Search != "" {
		where = ` WHERE batch_no ILIKE $1 OR custom_data->>'name' ILIKE $1 OR custom_data->>'price' ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filter.Limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %q: %w", slug, httpx.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	data, err := json.Marshal(product.CustomData)
	if err != nil {
		return Product{}, fmt.Errorf("products: marshal custom data: %w", err)
	}
	now := time.Now().UTC()
	const query = `INSERT INTO products (slug, batch_no, product_image, custom_data, qr_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = r.db.QueryRow(ctx, query,
		product.Slug, product.BatchNo, nullable(product.ProductImage), data, nullable(product.QRCode), now, now,
	).Scan(&product.ID)
	if err != nil {
		return Product{}, classifyConflict(err)
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) (Product, error) {
	data, err := json.Marshal(product.CustomData)
	if err != nil {
		return Product{}, fmt.Errorf("products: marshal custom data: %w", err)
	}
	now := time.Now().UTC()
	const query = `UPDATE products SET batch_no = $1, product_image = $2, custom_data = $3, updated_at = $4 WHERE id = $5`
	tag, err := r.db.Exec(ctx, query, product.BatchNo, nullable(product.ProductImage), data, now, product.ID)
	if err != nil {
		return Product{}, classifyConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return Product{}, fmt.Errorf("product %d: %w", product.ID, httpx.ErrNotFound)
	}
	return r.GetByID(ctx, product.ID)
}

// Delete hard-deletes the product. There is no tombstone.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var found bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&found); err != nil {
		return false, fmt.Errorf("products: slug lookup: %w", err)
	}
	return found, nil
}

func (r *repository) BatchNoExists(ctx context.Context, batchNo string) (bool, error) {
	var found bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE batch_no = $1)`, batchNo).Scan(&found); err != nil {
		return false, fmt.Errorf("products: batch number lookup: %w", err)
	}
	return found, nil
}

// classifyConflict maps unique violations to the identifier that collided so
// the caller can pick the right retry path.
func classifyConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "slug"):
			return ErrSlugTaken
		case strings.Contains(pgErr.ConstraintName, "batch_no"):
			return ErrBatchNoTaken
		}
		return fmt.Errorf("products: %s: %w", pgErr.ConstraintName, httpx.ErrDuplicate)
	}
	return fmt.Errorf("products: write: %w", err)
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p   Product
		raw []byte
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.BatchNo, &p.ProductImage, &raw, &p.QRCode, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.CustomData); err != nil {
			return Product{}, fmt.Errorf("products: decode custom data: %w", err)
		}
	}
	if p.CustomData == nil {
		p.CustomData = map[string]any{}
	}
	return p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
