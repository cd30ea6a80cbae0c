package repositories

import (
	"context"

	"github.com/appointmentcake/backend/internal/domain/entities"
)

// FormFieldRepository defines the interface for form field definitions
type FormFieldRepository interface {
	// Create creates a new form field definition
	Create(ctx context.Context, field *entities.FormField) error

	// GetByID retrieves a form field definition by ID
	GetByID(ctx context.Context, id string) (*entities.FormField, error)

	// List retrieves all form field definitions
	List(ctx context.Context) ([]*entities.FormField, error)

	// ListByCategory retrieves the definitions of one category
	ListByCategory(ctx context.Context, category string) ([]*entities.FormField, error)

	// Delete deletes a form field definition
	Delete(ctx context.Context, id string) error
}
