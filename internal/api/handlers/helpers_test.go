package handlers_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/appointmentcake/backend/internal/api/middleware"
	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// In-memory repositories backing real services in handler tests.

type memCompanyRepo struct {
	companies map[string]*entities.Company
}

func newMemCompanyRepo(companies ...*entities.Company) *memCompanyRepo {
	repo := &memCompanyRepo{companies: map[string]*entities.Company{}}
	for _, c := range companies {
		repo.companies[c.ID] = c
	}
	return repo
}

func (r *memCompanyRepo) Create(ctx context.Context, company *entities.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *memCompanyRepo) GetByID(ctx context.Context, id string) (*entities.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("company with id %s not found", id))
	}
	return company, nil
}

func (r *memCompanyRepo) GetByUserID(ctx context.Context, userID string) (*entities.Company, error) {
	for _, c := range r.companies {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("There is no company for this user")
}

func (r *memCompanyRepo) Update(ctx context.Context, company *entities.Company) error {
	if _, ok := r.companies[company.ID]; !ok {
		return apperrors.NewNotFoundError("company not found")
	}
	r.companies[company.ID] = company
	return nil
}

func (r *memCompanyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.companies[id]; !ok {
		return apperrors.NewNotFoundError("company not found")
	}
	delete(r.companies, id)
	return nil
}

func (r *memCompanyRepo) List(ctx context.Context, filter repositories.CompanyFilter) ([]*entities.Company, error) {
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

func (r *memCompanyRepo) Search(ctx context.Context, params repositories.KeywordSearchParams) ([]*entities.Company, int, error) {
	out := []*entities.Company{}
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *memCompanyRepo) SearchNearby(ctx context.Context, params repositories.GeoSearchParams) ([]*entities.Company, error) {
	out := []*entities.Company{}
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

type memUserRepo struct {
	users map[string]*entities.User
}

func newMemUserRepo(users ...*entities.User) *memUserRepo {
	repo := &memUserRepo{users: map[string]*entities.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *memUserRepo) GetByResetToken(ctx context.Context, token string) (*entities.User, error) {
	for _, u := range r.users {
		if u.ResetToken == token {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *memUserRepo) Update(ctx context.Context, user *entities.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type memBookingRepo struct {
	bookings map[string]*entities.Booking
}

func newMemBookingRepo(bookings ...*entities.Booking) *memBookingRepo {
	repo := &memBookingRepo{bookings: map[string]*entities.Booking{}}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (r *memBookingRepo) Create(ctx context.Context, booking *entities.Booking) error {
	r.bookings[booking.ID] = booking
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("booking not found")
	}
	return booking, nil
}

func (r *memBookingRepo) Update(ctx context.Context, booking *entities.Booking) error {
	r.bookings[booking.ID] = booking
	return nil
}

func (r *memBookingRepo) Delete(ctx context.Context, id string) error {
	delete(r.bookings, id)
	return nil
}

func (r *memBookingRepo) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	out := []*entities.Booking{}
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByCompany(ctx context.Context, companyID string) ([]*entities.Booking, error) {
	out := []*entities.Booking{}
	for _, b := range r.bookings {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

// withUser attaches an authenticated user id the way the auth guard does.
func withUser(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}
