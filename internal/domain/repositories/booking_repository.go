package repositories

import (
	"context"

	"github.com/appointmentcake/backend/internal/domain/entities"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// Create creates a new booking
	Create(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by ID with the owner's extended fields
	// attached
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// Update overwrites a booking row, sub-document columns included
	Update(ctx context.Context, booking *entities.Booking) error

	// Delete deletes a booking
	Delete(ctx context.Context, id string) error

	// ListByUser retrieves a user's bookings, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error)

	// ListByCompany retrieves a company's bookings, newest first, owner
	// fields attached
	ListByCompany(ctx context.Context, companyID string) ([]*entities.Booking, error)
}
