package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aroxa-cropscience/aroxa/internal/fields"
	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
	"github.com/aroxa-cropscience/aroxa/internal/shared"
)

// maxIdentifierAttempts bounds the retry-until-unique loop so creation
// terminates under pathological name collisions. Exhaustion is surfaced as a
// retryable error, never a crash.
const maxIdentifierAttempts = 10

const (
	fallbackSlug = "product"
	maxListLimit = 100
)

// FieldRegistry exposes the current field definitions for write-time
// validation of product data.
type FieldRegistry interface {
	List(ctx context.Context) ([]fields.CustomField, error)
}

// ServiceConfig carries catalog settings.
type ServiceConfig struct {
	PublicBaseURL string
	MaxImageBytes int64
}

// Service wraps catalog business rules.
type Service struct {
	repo     Repository
	registry FieldRegistry
	qr       QREncoder
	cfg      ServiceConfig
}

// NewService constructs a new Service.
func NewService(repo Repository, registry FieldRegistry, qr QREncoder, cfg ServiceConfig) *Service {
	return &Service{repo: repo, registry: registry, qr: qr, cfg: cfg}
}

// List returns a page of products, newest first. Search matches the batch
// number and the name/price entries of the data bag, case-insensitively.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, shared.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = shared.DefaultPageSize
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetBySlug returns a single product for the public detail page.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create validates the submission against the current registry, mints a
// unique slug and batch number, encodes the QR code, and persists the
// product. A QR encode failure aborts the creation so every stored product
// carries a scannable code.
func (s *Service) Create(ctx context.Context, in CreateProductInput) (CreateResult, error) {
	if in.CustomData == nil {
		in.CustomData = map[string]any{}
	}
	if err := s.checkRequiredFields(ctx, in.CustomData); err != nil {
		return CreateResult{}, err
	}
	if err := s.checkImage(in.ProductImage, true); err != nil {
		return CreateResult{}, err
	}

	name, _ := in.CustomData["name"].(string)
	explicitBatch := strings.TrimSpace(in.BatchNo) != ""
	if !explicitBatch && strings.TrimSpace(name) == "" {
		return CreateResult{}, fmt.Errorf("batch_no is required when the product has no name: %w", httpx.ErrValidation)
	}

	baseSlug := GenerateSlug(name)
	if baseSlug == "" {
		baseSlug = fallbackSlug
	}

	slug := baseSlug
	batchNo := strings.TrimSpace(in.BatchNo)
	if !explicitBatch {
		batchNo = GenerateBatchNumber(name)
	}

	for attempt := 1; attempt <= maxIdentifierAttempts; attempt++ {
		// Best-effort pre-checks reduce contention; the unique constraints
		// decide on insert.
		if taken, err := s.repo.SlugExists(ctx, slug); err != nil {
			return CreateResult{}, err
		} else if taken {
			slug = slugSuffix(baseSlug)
			continue
		}
		if taken, err := s.repo.BatchNoExists(ctx, batchNo); err != nil {
			return CreateResult{}, err
		} else if taken {
			if explicitBatch {
				return CreateResult{}, fmt.Errorf("batch number %q: %w", batchNo, ErrBatchNoTaken)
			}
			batchNo = GenerateBatchNumber(name)
			continue
		}

		productURL := s.productURL(slug)
		qrCode, err := s.qr.Encode(productURL)
		if err != nil {
			return CreateResult{}, err
		}

		created, err := s.repo.Create(ctx, Product{
			Slug:         slug,
			BatchNo:      batchNo,
			ProductImage: in.ProductImage,
			CustomData:   in.CustomData,
			QRCode:       qrCode,
		})
		if err == nil {
			return CreateResult{
				Product:    created,
				Slug:       created.Slug,
				BatchNo:    created.BatchNo,
				QRCode:     created.QRCode,
				ProductURL: productURL,
			}, nil
		}
		switch {
		case errors.Is(err, ErrSlugTaken):
			slug = slugSuffix(baseSlug)
		case errors.Is(err, ErrBatchNoTaken):
			if explicitBatch {
				return CreateResult{}, fmt.Errorf("batch number %q: %w", batchNo, ErrBatchNoTaken)
			}
			batchNo = GenerateBatchNumber(name)
		default:
			return CreateResult{}, err
		}
	}
	return CreateResult{}, fmt.Errorf("mint identifiers for %q: %w", baseSlug, httpx.ErrIdentifierExhausted)
}

// Update replaces batch number, image, and custom data. The slug and stored
// QR code are untouched even if the name changes.
func (s *Service) Update(ctx context.Context, in UpdateProductInput) (Product, error) {
	if in.ID <= 0 {
		return Product{}, fmt.Errorf("product id is required: %w", httpx.ErrValidation)
	}
	if in.CustomData == nil {
		in.CustomData = map[string]any{}
	}
	if err := s.checkRequiredFields(ctx, in.CustomData); err != nil {
		return Product{}, err
	}
	if err := s.checkImage(in.ProductImage, false); err != nil {
		return Product{}, err
	}
	if strings.TrimSpace(in.BatchNo) == "" {
		return Product{}, fmt.Errorf("batch_no is required: %w", httpx.ErrValidation)
	}
	updated, err := s.repo.Update(ctx, Product{
		ID:           in.ID,
		BatchNo:      strings.TrimSpace(in.BatchNo),
		ProductImage: in.ProductImage,
		CustomData:   in.CustomData,
	})
	if err != nil {
		if errors.Is(err, ErrBatchNoTaken) {
			return Product{}, fmt.Errorf("batch number %q: %w", in.BatchNo, ErrBatchNoTaken)
		}
		return Product{}, err
	}
	return updated, nil
}

// Delete hard-deletes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("product id is required: %w", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// checkRequiredFields enforces is_required against the registry's current
// snapshot. Keys not present in the registry are tolerated.
func (s *Service) checkRequiredFields(ctx context.Context, data map[string]any) error {
	defs, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("products: load field registry: %w", err)
	}
	for _, def := range defs {
		if !def.IsRequired {
			continue
		}
		value, ok := data[def.FieldName]
		if !ok || isEmptyValue(value) {
			return fmt.Errorf("field %q is required: %w", def.FieldName, httpx.ErrValidation)
		}
	}
	return nil
}

func (s *Service) checkImage(image string, required bool) error {
	if image == "" {
		if required {
			return fmt.Errorf("product_image is required: %w", httpx.ErrValidation)
		}
		return nil
	}
	if !strings.HasPrefix(image, "data:image/") {
		return fmt.Errorf("product_image must be an image data URL: %w", httpx.ErrValidation)
	}
	if s.cfg.MaxImageBytes > 0 && int64(len(image)) > s.cfg.MaxImageBytes {
		return fmt.Errorf("product_image exceeds %d bytes: %w", s.cfg.MaxImageBytes, httpx.ErrValidation)
	}
	return nil
}

func (s *Service) productURL(slug string) string {
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/products/" + slug
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}
