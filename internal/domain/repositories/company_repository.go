package repositories

import (
	"context"

	"github.com/appointmentcake/backend/internal/domain/entities"
)

// CompanyRepository defines the interface for company data operations
type CompanyRepository interface {
	// Create creates a new company
	Create(ctx context.Context, company *entities.Company) error

	// GetByID retrieves a company by ID
	GetByID(ctx context.Context, id string) (*entities.Company, error)

	// GetByUserID retrieves the company owned by a user
	GetByUserID(ctx context.Context, userID string) (*entities.Company, error)

	// Update overwrites a company row, sub-document columns included
	Update(ctx context.Context, company *entities.Company) error

	// Delete deletes a company
	Delete(ctx context.Context, id string) error

	// List retrieves companies with filters, owner attached
	List(ctx context.Context, filter CompanyFilter) ([]*entities.Company, error)

	// Search runs a keyword search across company text fields and returns
	// one page of matches plus the unpaginated match count
	Search(ctx context.Context, params KeywordSearchParams) ([]*entities.Company, int, error)

	// SearchNearby returns companies within a radius of a point, nearest
	// first, with DistanceMeters populated
	SearchNearby(ctx context.Context, params GeoSearchParams) ([]*entities.Company, error)
}

// CompanySearchRepository defines the interface for company search index
// operations (e.g. Typesense)
type CompanySearchRepository interface {
	// SearchNearby searches the index by proximity
	SearchNearby(ctx context.Context, params GeoSearchParams) ([]*entities.Company, error)

	// Index indexes a company
	Index(ctx context.Context, company *entities.Company) error

	// Delete removes a company from the index
	Delete(ctx context.Context, id string) error
}

// CompanyFilter defines filters for listing companies
type CompanyFilter struct {
	UserID        string
	IsAdmin       *bool
	LikedByUserID string
	Limit         int
	Offset        int
}

// KeywordSearchParams defines parameters for keyword company search
type KeywordSearchParams struct {
	Query   string
	IsAdmin *bool
	Limit   int
	Offset  int
}

// GeoSearchParams defines parameters for proximity company search
type GeoSearchParams struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Limit        int
	Offset       int
}
