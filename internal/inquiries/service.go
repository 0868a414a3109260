package inquiries

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Service wraps inquiry intake rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit stores a contact-form submission with a fresh reference and the
// initial status.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Inquiry, error) {
	return s.repo.Create(ctx, Inquiry{
		Reference: uuid.New(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   strings.TrimSpace(in.Message),
		Status:    StatusNew,
	})
}

// List returns all inquiries, newest first.
func (s *Service) List(ctx context.Context) ([]Inquiry, error) {
	return s.repo.List(ctx)
}
