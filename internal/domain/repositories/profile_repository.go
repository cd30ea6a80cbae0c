package repositories

import (
	"context"

	"github.com/appointmentcake/backend/internal/domain/entities"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	// Upsert creates the profile for a user or overwrites the existing one
	Upsert(ctx context.Context, profile *entities.Profile) error

	// GetByUserID retrieves a user's profile with public user fields attached
	GetByUserID(ctx context.Context, userID string) (*entities.Profile, error)

	// Update overwrites a profile row, sub-document columns included
	Update(ctx context.Context, profile *entities.Profile) error

	// DeleteByUserID deletes a user's profile
	DeleteByUserID(ctx context.Context, userID string) error

	// List retrieves all profiles with public user fields attached
	List(ctx context.Context) ([]*entities.Profile, error)
}
