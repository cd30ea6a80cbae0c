package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// stubCompanyRepo is an in-memory CompanyRepository for service tests.
type stubCompanyRepo struct {
	companies map[string]*entities.Company
}

func newStubCompanyRepo(companies ...*entities.Company) *stubCompanyRepo {
	repo := &stubCompanyRepo{companies: map[string]*entities.Company{}}
	for _, c := range companies {
		repo.companies[c.ID] = c
	}
	return repo
}

func (r *stubCompanyRepo) Create(ctx context.Context, company *entities.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *stubCompanyRepo) GetByID(ctx context.Context, id string) (*entities.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("company with id %s not found", id))
	}
	return company, nil
}

func (r *stubCompanyRepo) GetByUserID(ctx context.Context, userID string) (*entities.Company, error) {
	for _, c := range r.companies {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("There is no company for this user")
}

func (r *stubCompanyRepo) Update(ctx context.Context, company *entities.Company) error {
	if _, ok := r.companies[company.ID]; !ok {
		return apperrors.NewNotFoundError("company not found")
	}
	r.companies[company.ID] = company
	return nil
}

func (r *stubCompanyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.companies[id]; !ok {
		return apperrors.NewNotFoundError("company not found")
	}
	delete(r.companies, id)
	return nil
}

func (r *stubCompanyRepo) List(ctx context.Context, filter repositories.CompanyFilter) ([]*entities.Company, error) {
	out := []*entities.Company{}
	for _, c := range r.companies {
		if filter.UserID != "" && c.UserID != filter.UserID {
			continue
		}
		if filter.IsAdmin != nil && c.IsAdmin != *filter.IsAdmin {
			continue
		}
		if filter.LikedByUserID != "" && !c.LikedBy(filter.LikedByUserID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *stubCompanyRepo) Search(ctx context.Context, params repositories.KeywordSearchParams) ([]*entities.Company, int, error) {
	return nil, 0, nil
}

func (r *stubCompanyRepo) SearchNearby(ctx context.Context, params repositories.GeoSearchParams) ([]*entities.Company, error) {
	out := []*entities.Company{}
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

func TestCompanyService_Upsert_CreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo()
	service := services.NewCompanyService(repo, nil, nil)

	created, err := service.Upsert(ctx, "user-1", services.UpsertParams{
		Name:      "Lakeshore Dental",
		Latitude:  43.62,
		Longitude: -79.48,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, []float64{-79.48, 43.62}, created.Geolocation.Coordinates)

	updated, err := service.Upsert(ctx, "user-1", services.UpsertParams{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Len(t, repo.companies, 1)
}

func TestCompanyService_CreateBusiness_AlwaysInserts(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo()
	service := services.NewCompanyService(repo, nil, nil)

	first, err := service.CreateBusiness(ctx, "admin-1", services.UpsertParams{Name: "Listing A"})
	require.NoError(t, err)
	second, err := service.CreateBusiness(ctx, "admin-1", services.UpsertParams{Name: "Listing B"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.IsAdmin)
	assert.True(t, second.IsAdmin)
	assert.Len(t, repo.companies, 2)
}

func TestCompanyService_AddService_AssignsID(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo(&entities.Company{ID: "comp-1", UserID: "user-1"})
	service := services.NewCompanyService(repo, nil, nil)

	company, err := service.AddService(ctx, "user-1", entities.Service{Name: "Checkup"})
	require.NoError(t, err)
	require.Len(t, company.Services, 1)
	assert.NotEmpty(t, company.Services[0].ID)
}

func TestCompanyService_EditService_UnknownID(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo(&entities.Company{
		ID:       "comp-1",
		UserID:   "user-1",
		Services: []entities.Service{{ID: "svc-1", Name: "Checkup"}},
	})
	service := services.NewCompanyService(repo, nil, nil)

	_, err := service.EditService(ctx, "user-1", "missing", entities.Service{Name: "X"})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
	assert.Equal(t, "Service not found", appErr.Message)
}

func TestCompanyService_DeleteService(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo(&entities.Company{
		ID:       "comp-1",
		UserID:   "user-1",
		Services: []entities.Service{{ID: "svc-1"}, {ID: "svc-2"}},
	})
	service := services.NewCompanyService(repo, nil, nil)

	company, err := service.DeleteService(ctx, "user-1", "svc-1")
	require.NoError(t, err)
	assert.Len(t, company.Services, 1)

	_, err = service.DeleteService(ctx, "user-1", "svc-1")
	require.Error(t, err)
}

func TestCompanyService_Like_SecondCallIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo(&entities.Company{ID: "comp-1", UserID: "owner"})
	service := services.NewCompanyService(repo, nil, nil)

	_, changed, err := service.Like(ctx, "user-1", "comp-1")
	require.NoError(t, err)
	assert.True(t, changed)

	company, changed, err := service.Like(ctx, "user-1", "comp-1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, company.Likes, 1)
}

func TestCompanyService_Unlike_NeverLiked(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo(&entities.Company{ID: "comp-1", UserID: "owner"})
	service := services.NewCompanyService(repo, nil, nil)

	company, changed, err := service.Unlike(ctx, "user-1", "comp-1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, company.Likes)
}

func TestCompanyService_GetLiked(t *testing.T) {
	ctx := context.Background()
	liked := &entities.Company{ID: "comp-1", UserID: "owner-1", Likes: []entities.Like{{UserID: "user-1"}}}
	other := &entities.Company{ID: "comp-2", UserID: "owner-2"}
	repo := newStubCompanyRepo(liked, other)
	service := services.NewCompanyService(repo, nil, nil)

	companies, err := service.GetLiked(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "comp-1", companies[0].ID)
}

func TestCompanyService_SearchNearby_AppliesDefaultRadius(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo(&entities.Company{ID: "comp-1", UserID: "owner"})
	service := services.NewCompanyService(repo, nil, nil)

	companies, err := service.SearchNearby(ctx, repositories.GeoSearchParams{
		Latitude:  43.65,
		Longitude: -79.38,
	})
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}

func TestCompanyService_ReindexAll_WithoutIndex(t *testing.T) {
	ctx := context.Background()
	repo := newStubCompanyRepo()
	service := services.NewCompanyService(repo, nil, nil)

	_, err := service.ReindexAll(ctx)
	require.Error(t, err)
}
