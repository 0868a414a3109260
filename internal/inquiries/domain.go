package inquiries

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry statuses. Nothing transitions the status in this backend; the
// admin panel reads it as-is.
const (
	StatusNew     = "new"
	StatusRead    = "read"
	StatusReplied = "replied"
)

// Inquiry is a contact-form submission. The reference is handed back to the
// submitter so they can quote it in follow-ups.
type Inquiry struct {
	ID        int64     `json:"id"`
	Reference uuid.UUID `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitInput carries a public contact-form submission.
type SubmitInput struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Message string  `json:"message" validate:"required"`
}
