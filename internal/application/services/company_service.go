package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/providers"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	"github.com/appointmentcake/backend/internal/infrastructure/observability"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// DefaultSearchRadiusMeters is applied when a proximity search does not
// carry an explicit radius.
const DefaultSearchRadiusMeters = 15000

// CompanyService handles company listings, their embedded services and likes
type CompanyService struct {
	repo       repositories.CompanyRepository
	searchRepo repositories.CompanySearchRepository
	eventBus   providers.EventBus
}

// NewCompanyService creates a new company service. The search repository and
// event bus are optional; nil disables the search index and change events.
func NewCompanyService(
	repo repositories.CompanyRepository,
	searchRepo repositories.CompanySearchRepository,
	eventBus providers.EventBus,
) *CompanyService {
	return &CompanyService{
		repo:       repo,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// UpsertParams carries the flat company fields accepted on create and update
type UpsertParams struct {
	Name        string
	Avatar      string
	Website     string
	Description string
	Phone       string
	Email       string
	Fax         string
	Address     entities.Address
	Social      entities.Social
	StoreHours  entities.StoreHours
	Latitude    float64
	Longitude   float64
}

// Upsert creates the caller's company or overwrites its flat fields. A user
// owns at most one company; a second create updates the first.
func (s *CompanyService) Upsert(ctx context.Context, userID string, params UpsertParams) (*entities.Company, error) {
	company, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Type != apperrors.ErrorTypeNotFound {
			return nil, err
		}
		company = nil
	}

	eventType := entities.CompanyEventUpdated
	if company == nil {
		eventType = entities.CompanyEventCreated
		company = &entities.Company{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: time.Now(),
		}
	}

	applyUpsertParams(company, params)

	if eventType == entities.CompanyEventCreated {
		err = s.repo.Create(ctx, company)
	} else {
		err = s.repo.Update(ctx, company)
	}
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, eventType)
	return company, nil
}

func applyUpsertParams(company *entities.Company, params UpsertParams) {
	company.Name = params.Name
	company.Avatar = params.Avatar
	company.Website = params.Website
	company.Description = params.Description
	company.Phone = params.Phone
	company.Email = params.Email
	company.Fax = params.Fax
	company.Address = params.Address
	company.Social = params.Social
	company.StoreHours = params.StoreHours
	company.Geolocation = entities.NewGeoPoint(params.Latitude, params.Longitude)
}

// GetAll lists companies with their owners attached
func (s *CompanyService) GetAll(ctx context.Context, limit, offset int) ([]*entities.Company, error) {
	return s.repo.List(ctx, repositories.CompanyFilter{Limit: limit, Offset: offset})
}

// GetByID returns one company
func (s *CompanyService) GetByID(ctx context.Context, id string) (*entities.Company, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMine returns the caller's company
func (s *CompanyService) GetMine(ctx context.Context, userID string) (*entities.Company, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Delete removes the caller's company
func (s *CompanyService) Delete(ctx context.Context, userID string) error {
	company, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, company.ID); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, company.ID); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("company_id", company.ID).
				Msg("failed to remove company from search index")
		}
	}
	s.publish(ctx, company.ID, entities.CompanyEventDeleted)

	return nil
}

// AddService prepends a service to the caller's company
func (s *CompanyService) AddService(ctx context.Context, userID string, service entities.Service) (*entities.Company, error) {
	company, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	company.AddService(service)

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventUpdated)
	return company, nil
}

// EditService overwrites the identified service entirely
func (s *CompanyService) EditService(ctx context.Context, userID, serviceID string, service entities.Service) (*entities.Company, error) {
	company, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !company.ReplaceService(serviceID, service) {
		return nil, apperrors.NewNotFoundError("Service not found")
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventUpdated)
	return company, nil
}

// DeleteService removes the identified service
func (s *CompanyService) DeleteService(ctx context.Context, userID, serviceID string) (*entities.Company, error) {
	company, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !company.RemoveService(serviceID) {
		return nil, apperrors.NewNotFoundError("Service not found")
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventUpdated)
	return company, nil
}

// Like records the caller's like on a company. Liking twice is a no-op; the
// second boolean reports whether the list changed.
func (s *CompanyService) Like(ctx context.Context, userID, companyID string) (*entities.Company, bool, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, false, err
	}

	if !company.AddLike(userID) {
		return company, false, nil
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, false, err
	}

	s.afterChange(ctx, company, entities.CompanyEventLiked)
	return company, true, nil
}

// Unlike withdraws the caller's like. Unliking a company that was never
// liked is a no-op.
func (s *CompanyService) Unlike(ctx context.Context, userID, companyID string) (*entities.Company, bool, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, false, err
	}

	if !company.RemoveLike(userID) {
		return company, false, nil
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, false, err
	}

	s.afterChange(ctx, company, entities.CompanyEventLiked)
	return company, true, nil
}

// CreateBusiness inserts an admin-flagged listing. Unlike Upsert, every call
// creates a new company; admins manage many listings.
func (s *CompanyService) CreateBusiness(ctx context.Context, userID string, params UpsertParams) (*entities.Company, error) {
	company := &entities.Company{
		ID:        uuid.New().String(),
		UserID:    userID,
		IsAdmin:   true,
		CreatedAt: time.Now(),
	}
	applyUpsertParams(company, params)

	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventCreated)
	return company, nil
}

// UpdateBusiness overwrites the flat fields of a listing by id
func (s *CompanyService) UpdateBusiness(ctx context.Context, companyID string, params UpsertParams) (*entities.Company, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	applyUpsertParams(company, params)

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventUpdated)
	return company, nil
}

// ListBusinesses returns admin-flagged listings, optionally filtered by a
// keyword, plus the unpaginated match count.
func (s *CompanyService) ListBusinesses(ctx context.Context, query string, limit, offset int) ([]*entities.Company, int, error) {
	isAdmin := true

	if query != "" {
		return s.repo.Search(ctx, repositories.KeywordSearchParams{
			Query:   query,
			IsAdmin: &isAdmin,
			Limit:   limit,
			Offset:  offset,
		})
	}

	companies, err := s.repo.List(ctx, repositories.CompanyFilter{
		IsAdmin: &isAdmin,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, 0, err
	}

	all, err := s.repo.List(ctx, repositories.CompanyFilter{IsAdmin: &isAdmin})
	if err != nil {
		return nil, 0, err
	}

	return companies, len(all), nil
}

// GetLiked lists the companies the user likes
func (s *CompanyService) GetLiked(ctx context.Context, userID string) ([]*entities.Company, error) {
	return s.repo.List(ctx, repositories.CompanyFilter{LikedByUserID: userID})
}

// GetByOwner returns the company owned by another user
func (s *CompanyService) GetByOwner(ctx context.Context, userID string) (*entities.Company, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// DeleteByID removes a listing by id
func (s *CompanyService) DeleteByID(ctx context.Context, companyID string) error {
	if err := s.repo.Delete(ctx, companyID); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, companyID); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("company_id", companyID).
				Msg("failed to remove company from search index")
		}
	}
	s.publish(ctx, companyID, entities.CompanyEventDeleted)

	return nil
}

// AddServiceByCompanyID prepends a service to the identified listing
func (s *CompanyService) AddServiceByCompanyID(ctx context.Context, companyID string, service entities.Service) (*entities.Company, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	company.AddService(service)

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventUpdated)
	return company, nil
}

// EditServiceByCompanyID overwrites a service on the identified listing
func (s *CompanyService) EditServiceByCompanyID(ctx context.Context, companyID, serviceID string, service entities.Service) (*entities.Company, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if !company.ReplaceService(serviceID, service) {
		return nil, apperrors.NewNotFoundError("Service not found")
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventUpdated)
	return company, nil
}

// DeleteServiceByCompanyID removes a service from the identified listing
func (s *CompanyService) DeleteServiceByCompanyID(ctx context.Context, companyID, serviceID string) (*entities.Company, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if !company.RemoveService(serviceID) {
		return nil, apperrors.NewNotFoundError("Service not found")
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.afterChange(ctx, company, entities.CompanyEventUpdated)
	return company, nil
}

// SearchKeyword runs a keyword search and returns one page plus the full
// match count.
func (s *CompanyService) SearchKeyword(ctx context.Context, query string, limit, offset int) ([]*entities.Company, int, error) {
	return s.repo.Search(ctx, repositories.KeywordSearchParams{
		Query:  query,
		Limit:  limit,
		Offset: offset,
	})
}

// SearchNearby returns companies around a point, nearest first. The search
// index serves the query when configured; otherwise the database computes
// the distances itself.
func (s *CompanyService) SearchNearby(ctx context.Context, params repositories.GeoSearchParams) ([]*entities.Company, error) {
	if params.RadiusMeters <= 0 {
		params.RadiusMeters = DefaultSearchRadiusMeters
	}

	if s.searchRepo != nil {
		companies, err := s.searchRepo.SearchNearby(ctx, params)
		if err == nil {
			return companies, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Msg("search index unavailable, falling back to database")
	}

	return s.repo.SearchNearby(ctx, params)
}

// ReindexAll pushes every company into the search index
func (s *CompanyService) ReindexAll(ctx context.Context) (int, error) {
	if s.searchRepo == nil {
		return 0, apperrors.NewInternalError("search index is not configured", nil)
	}

	companies, err := s.repo.List(ctx, repositories.CompanyFilter{})
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, company := range companies {
		if err := s.searchRepo.Index(ctx, company); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("company_id", company.ID).
				Msg("failed to index company")
			continue
		}
		indexed++
	}

	return indexed, nil
}

// afterChange keeps the search index current and notifies subscribers
func (s *CompanyService) afterChange(ctx context.Context, company *entities.Company, eventType entities.CompanyEventType) {
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, company); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("company_id", company.ID).
				Msg("failed to index company")
		}
	}
	s.publish(ctx, company.ID, eventType)
}

func (s *CompanyService) publish(ctx context.Context, companyID string, eventType entities.CompanyEventType) {
	if s.eventBus == nil {
		return
	}

	event := &entities.CompanyEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		CompanyID: companyID,
		Timestamp: time.Now(),
	}

	if err := s.eventBus.Publish(ctx, providers.EventChannelCompanyUpdates, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("company_id", companyID).
			Msg("failed to publish company event")
	}
}
