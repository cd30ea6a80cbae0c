package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	"github.com/appointmentcake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// BookingAdapter implements the BookingRepository interface. The company and
// service snapshots, comments and intake form answers live in JSONB columns.
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const bookingSelectSQL = `
	b.id, b.user_id, b.company_id, b.service_id, b.text,
	b.company, b.service, b.start_date, b.start_time, b.duration,
	b.user_calender, b.business_calender, b.comments, b.intake_form,
	b.created_at`

const bookingOwnerSelectSQL = `
	u.id, u.email, u.first_name, u.last_name, u.phone, u.avatar,
	u.google_auth, u.google_user, u.google_auth_business, u.google_user_business`

func (a *BookingAdapter) record(booking *entities.Booking) (goqu.Record, error) {
	company, err := marshalJSONB(booking.Company)
	if err != nil {
		return nil, err
	}
	service, err := marshalJSONB(booking.Service)
	if err != nil {
		return nil, err
	}
	comments, err := marshalJSONB(booking.Comments)
	if err != nil {
		return nil, err
	}
	intakeForm, err := marshalJSONB(booking.IntakeForm)
	if err != nil {
		return nil, err
	}

	return goqu.Record{
		"id":                booking.ID,
		"user_id":           booking.UserID,
		"company_id":        booking.CompanyID,
		"service_id":        booking.ServiceID,
		"text":              booking.Text,
		"company":           company,
		"service":           service,
		"start_date":        booking.StartDate,
		"start_time":        booking.StartTime,
		"duration":          booking.Duration,
		"user_calender":     booking.UserCalender,
		"business_calender": booking.BusinessCalender,
		"comments":          comments,
		"intake_form":       intakeForm,
		"created_at":        booking.DateCreated,
	}, nil
}

func scanBookingWithUser(row interface{ Scan(...interface{}) error }) (*entities.Booking, error) {
	booking := &entities.Booking{}
	user := &entities.ExtendedUser{}
	var company, service, comments, intakeForm []byte
	var gAuth, gUser, gAuthBiz, gUserBiz []byte

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CompanyID,
		&booking.ServiceID,
		&booking.Text,
		&company,
		&service,
		&booking.StartDate,
		&booking.StartTime,
		&booking.Duration,
		&booking.UserCalender,
		&booking.BusinessCalender,
		&comments,
		&intakeForm,
		&booking.DateCreated,
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Avatar,
		&gAuth,
		&gUser,
		&gAuthBiz,
		&gUserBiz,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(company, &booking.Company); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(service, &booking.Service); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(comments, &booking.Comments); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(intakeForm, &booking.IntakeForm); err != nil {
		return nil, err
	}
	if booking.Comments == nil {
		booking.Comments = []entities.Comment{}
	}

	user.GoogleAuth = gAuth
	user.GoogleUser = gUser
	user.GoogleAuthBusiness = gAuthBiz
	user.GoogleUserBusiness = gUserBiz
	booking.User = user

	return booking, nil
}

// Create creates a new booking
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	record, err := a.record(booking)
	if err != nil {
		return apperrors.NewInternalError("failed to encode booking", err)
	}

	query, args, err := a.db.Insert("bookings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create booking", err)
	}

	return nil
}

// GetByID retrieves a booking by ID with the owner's extended fields attached
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query := `
		SELECT` + bookingSelectSQL + `,` + bookingOwnerSelectSQL + `
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1`

	booking, err := scanBookingWithUser(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}

	return booking, nil
}

// Update overwrites a booking row, sub-document columns included
func (a *BookingAdapter) Update(ctx context.Context, booking *entities.Booking) error {
	record, err := a.record(booking)
	if err != nil {
		return apperrors.NewInternalError("failed to encode booking", err)
	}
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("bookings").
		Set(record).
		Where(goqu.Ex{"id": booking.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update booking", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", booking.ID))
	}

	return nil
}

// Delete deletes a booking
func (a *BookingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete booking", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}

	return nil
}

// ListByUser retrieves a user's bookings, newest first
func (a *BookingAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	query := `
		SELECT` + bookingSelectSQL + `,` + bookingOwnerSelectSQL + `
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`

	return a.queryBookings(ctx, query, userID)
}

// ListByCompany retrieves a company's bookings, newest first, owner fields
// attached
func (a *BookingAdapter) ListByCompany(ctx context.Context, companyID string) ([]*entities.Booking, error) {
	query := `
		SELECT` + bookingSelectSQL + `,` + bookingOwnerSelectSQL + `
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.company_id = $1
		ORDER BY b.created_at DESC`

	return a.queryBookings(ctx, query, companyID)
}

func (a *BookingAdapter) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*entities.Booking, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	bookings := []*entities.Booking{}
	for rows.Next() {
		booking, err := scanBookingWithUser(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating bookings", err)
	}

	return bookings, nil
}
