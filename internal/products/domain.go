package products

import (
	"fmt"
	"time"

	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

// Product is a catalog entry. Attributes live in CustomData, an open bag
// validated against the field registry at write time only. The bag may
// carry legacy keys no longer present in the registry.
type Product struct {
	ID           int64          `json:"id"`
	Slug         string         `json:"slug"`
	BatchNo      string         `json:"batch_no"`
	ProductImage string         `json:"product_image,omitempty"`
	CustomData   map[string]any `json:"custom_data"`
	QRCode       string         `json:"qr_code,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Identifier conflicts surfaced by the repository. The storage-level unique
// constraints are the final arbiter; these signal the retry loop.
var (
	ErrSlugTaken    = fmt.Errorf("slug already exists: %w", httpx.ErrDuplicate)
	ErrBatchNoTaken = fmt.Errorf("batch number already exists: %w", httpx.ErrDuplicate)
)

// CreateProductInput carries an admin product submission.
type CreateProductInput struct {
	BatchNo      string         `json:"batch_no"`
	ProductImage string         `json:"product_image"`
	CustomData   map[string]any `json:"custom_data"`
}

// UpdateProductInput replaces the mutable parts of a product. The slug is
// fixed at creation and never recomputed.
type UpdateProductInput struct {
	ID           int64          `json:"id"`
	BatchNo      string         `json:"batch_no"`
	ProductImage string         `json:"product_image"`
	CustomData   map[string]any `json:"custom_data"`
}

// CreateResult is returned from a successful creation, including the data
// needed to render a printable label.
type CreateResult struct {
	Product    Product `json:"product"`
	Slug       string  `json:"slug"`
	BatchNo    string  `json:"batchNo"`
	QRCode     string  `json:"qrCode"`
	ProductURL string  `json:"productUrl"`
}

// ListFilter narrows a product listing.
type ListFilter struct {
	Page   int
	Limit  int
	Search string
}
