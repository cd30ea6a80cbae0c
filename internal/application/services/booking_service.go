package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// BookingService handles appointment bookings and their comment threads
type BookingService struct {
	repo        repositories.BookingRepository
	companyRepo repositories.CompanyRepository
	userRepo    repositories.UserRepository
}

// NewBookingService creates a new booking service
func NewBookingService(
	repo repositories.BookingRepository,
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
) *BookingService {
	return &BookingService{
		repo:        repo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
}

// CreateBookingParams carries the fields accepted when booking a service
type CreateBookingParams struct {
	CompanyID  string
	ServiceID  string
	Text       string
	StartDate  time.Time
	StartTime  time.Time
	Duration   int
	IntakeForm []entities.IntakeFormAnswer
}

// Create books a service. The company and service are snapshotted into the
// booking by value so later listing edits leave it untouched.
func (s *BookingService) Create(ctx context.Context, userID string, params CreateBookingParams) (*entities.Booking, error) {
	company, err := s.companyRepo.GetByID(ctx, params.CompanyID)
	if err != nil {
		return nil, err
	}

	idx := company.ServiceIndex(params.ServiceID)
	if idx < 0 {
		return nil, apperrors.NewNotFoundError("Service not found")
	}

	booking := &entities.Booking{
		ID:          uuid.New().String(),
		UserID:      userID,
		CompanyID:   company.ID,
		ServiceID:   params.ServiceID,
		Text:        params.Text,
		Company:     entities.NewCompanySnapshot(company),
		Service:     entities.NewServiceSnapshot(company.Services[idx]),
		StartDate:   params.StartDate,
		StartTime:   params.StartTime,
		Duration:    params.Duration,
		Comments:    []entities.Comment{},
		IntakeForm:  params.IntakeForm,
		DateCreated: time.Now(),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByID returns one booking
func (s *BookingService) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMine lists the caller's bookings, newest first
func (s *BookingService) GetMine(ctx context.Context, userID string) ([]*entities.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetUpcoming lists the caller's bookings starting now or later
func (s *BookingService) GetUpcoming(ctx context.Context, userID string) ([]*entities.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterByStart(bookings, func(start time.Time) bool {
		return !start.Before(time.Now())
	}), nil
}

// GetPast lists the caller's bookings that have already started
func (s *BookingService) GetPast(ctx context.Context, userID string) ([]*entities.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterByStart(bookings, func(start time.Time) bool {
		return !start.After(time.Now())
	}), nil
}

func filterByStart(bookings []*entities.Booking, keep func(time.Time) bool) []*entities.Booking {
	out := []*entities.Booking{}
	for _, b := range bookings {
		if keep(b.StartDate) {
			out = append(out, b)
		}
	}
	return out
}

// GetByCompanyID lists the bookings placed against one listing
func (s *BookingService) GetByCompanyID(ctx context.Context, companyID string) ([]*entities.Booking, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// GetForCompany lists the bookings placed against the caller's company
func (s *BookingService) GetForCompany(ctx context.Context, userID string) ([]*entities.Booking, error) {
	company, err := s.companyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, company.ID)
}

// UpdateCalendars sets the calendar link fields. Everything else on a booking
// is immutable after creation.
func (s *BookingService) UpdateCalendars(ctx context.Context, bookingID string, userCalender, businessCalender *string) (*entities.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if userCalender != nil {
		booking.UserCalender = *userCalender
	}
	if businessCalender != nil {
		booking.BusinessCalender = *businessCalender
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// Delete removes the caller's booking
func (s *BookingService) Delete(ctx context.Context, userID, bookingID string) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.UserID != userID {
		return apperrors.NewUnauthorizedError("User not authorized")
	}

	return s.repo.Delete(ctx, bookingID)
}

// AddCommentParams carries a new booking comment
type AddCommentParams struct {
	Text          string
	CompanyID     string
	CompanyUserID string
}

// AddComment appends a comment, denormalizing the author's name and avatar
// at write time.
func (s *BookingService) AddComment(ctx context.Context, userID, bookingID string, params AddCommentParams) (*entities.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	booking.AddComment(entities.Comment{
		ID:            uuid.New().String(),
		UserID:        userID,
		CompanyID:     params.CompanyID,
		CompanyUserID: params.CompanyUserID,
		Text:          params.Text,
		Name:          user.FullName(),
		Avatar:        user.Avatar,
		Date:          time.Now(),
	})

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// DeleteComment removes a comment by its id. Only the comment's author may
// remove it.
func (s *BookingService) DeleteComment(ctx context.Context, userID, bookingID, commentID string) (*entities.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	comment := booking.CommentByID(commentID)
	if comment == nil {
		return nil, apperrors.NewNotFoundError("Comment does not exist")
	}
	if comment.UserID != userID {
		return nil, apperrors.NewUnauthorizedError("User not authorized")
	}

	booking.RemoveComment(commentID)

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}
