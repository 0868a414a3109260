package shared

import "math"

// DefaultPageSize is applied when a listing request omits a limit.
const DefaultPageSize = 20

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
