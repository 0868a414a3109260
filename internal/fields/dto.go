package fields

// CreateFieldInput carries a new field definition. The field name is
// normalized to lowercase before storage and is immutable afterwards.
type CreateFieldInput struct {
	FieldName   string  `json:"field_name" validate:"required"`
	FieldLabel  string  `json:"field_label" validate:"required"`
	FieldType   string  `json:"field_type" validate:"required,oneof=text number date textarea url email"`
	IsRequired  bool    `json:"is_required"`
	MaxLength   *int    `json:"max_length"`
	Placeholder *string `json:"placeholder"`
}

// UpdateFieldInput patches an existing field. The name is not patchable.
type UpdateFieldInput struct {
	FieldLabel  string  `json:"field_label" validate:"required"`
	FieldType   string  `json:"field_type" validate:"required,oneof=text number date textarea url email"`
	IsRequired  bool    `json:"is_required"`
	MaxLength   *int    `json:"max_length"`
	Placeholder *string `json:"placeholder"`
}
