package fields

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

// Field names are matched case-insensitively on intake and stored lowercase.
var fieldNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Service wraps registry business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all field definitions ordered by display order.
func (s *Service) List(ctx context.Context) ([]CustomField, error) {
	return s.repo.List(ctx)
}

// Create validates and stores a new field definition.
func (s *Service) Create(ctx context.Context, in CreateFieldInput) (CustomField, error) {
	name := strings.ToLower(strings.TrimSpace(in.FieldName))
	if !fieldNameRe.MatchString(name) {
		return CustomField{}, fmt.Errorf("field name must start with a letter and contain only letters, numbers, and underscores: %w", httpx.ErrValidation)
	}
	if err := validateConstraints(in.FieldType, in.MaxLength); err != nil {
		return CustomField{}, err
	}
	return s.repo.Create(ctx, CustomField{
		FieldName:   name,
		FieldLabel:  strings.TrimSpace(in.FieldLabel),
		FieldType:   in.FieldType,
		IsRequired:  in.IsRequired,
		MaxLength:   in.MaxLength,
		Placeholder: in.Placeholder,
	})
}

// Update patches label, type, required flag, max length, and placeholder.
// The stored key inside product data is never renamed.
func (s *Service) Update(ctx context.Context, id int64, in UpdateFieldInput) (CustomField, error) {
	if err := validateConstraints(in.FieldType, in.MaxLength); err != nil {
		return CustomField{}, err
	}
	return s.repo.Update(ctx, id, CustomField{
		FieldLabel:  strings.TrimSpace(in.FieldLabel),
		FieldType:   in.FieldType,
		IsRequired:  in.IsRequired,
		MaxLength:   in.MaxLength,
		Placeholder: in.Placeholder,
	})
}

// Delete removes a field definition. Products referencing the field keep
// their stored values.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validateConstraints(fieldType string, maxLength *int) error {
	if maxLength == nil {
		return nil
	}
	if *maxLength <= 0 {
		return fmt.Errorf("max_length must be positive: %w", httpx.ErrValidation)
	}
	if fieldType != TypeText && fieldType != TypeTextarea {
		return fmt.Errorf("max_length only applies to text and textarea fields: %w", httpx.ErrValidation)
	}
	return nil
}
