package entities

import (
	"encoding/json"
)

// FormField is a reusable intake form field definition referenced by the
// intake form entries on users, services and bookings.
type FormField struct {
	ID            string          `json:"id" db:"id"`
	FieldName     string          `json:"field_name" db:"field_name"`
	FieldLabel    string          `json:"field_label" db:"field_label"`
	FieldCategory string          `json:"field_category" db:"field_category"`
	FieldType     string          `json:"field_type" db:"field_type"`
	DefaultValue  json.RawMessage `json:"default_value,omitempty" db:"default_value"`
	IsRequired    bool            `json:"is_required" db:"is_required"`
}
