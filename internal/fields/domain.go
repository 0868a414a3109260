package fields

import "time"

// Field types understood by the registry. Values stored under a field are
// rendered using the field's current type; changing the type never migrates
// previously stored data.
const (
	TypeText     = "text"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeTextarea = "textarea"
	TypeURL      = "url"
	TypeEmail    = "email"
)

// CustomField is an admin-defined attribute descriptor shaping what a
// product's custom data bag may carry.
type CustomField struct {
	ID          int64     `json:"id"`
	FieldName   string    `json:"field_name"`
	FieldLabel  string    `json:"field_label"`
	FieldType   string    `json:"field_type"`
	IsRequired  bool      `json:"is_required"`
	MaxLength   *int      `json:"max_length,omitempty"`
	Placeholder *string   `json:"placeholder,omitempty"`
	FieldOrder  int       `json:"field_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
