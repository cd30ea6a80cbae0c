package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	"github.com/appointmentcake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var userColumns = []interface{}{
	"id", "first_name", "last_name", "prefix", "email", "phone",
	"password", "avatar", "reset_token", "expire_token",
	"google_refresh_token", "google_auth", "google_user",
	"google_refresh_token_business", "google_auth_business", "google_user_business",
	"is_admin", "intake_form_fields", "created_at",
}

func (a *UserAdapter) record(user *entities.User) (goqu.Record, error) {
	intakeFields, err := marshalJSONB(user.IntakeFormFields)
	if err != nil {
		return nil, err
	}

	return goqu.Record{
		"id":                            user.ID,
		"first_name":                    user.FirstName,
		"last_name":                     user.LastName,
		"prefix":                        user.Prefix,
		"email":                         user.Email,
		"phone":                         user.Phone,
		"password":                      user.Password,
		"avatar":                        user.Avatar,
		"reset_token":                   user.ResetToken,
		"expire_token":                  user.ExpireToken,
		"google_refresh_token":          user.GoogleRefreshToken,
		"google_auth":                   []byte(user.GoogleAuth),
		"google_user":                   []byte(user.GoogleUser),
		"google_refresh_token_business": user.GoogleRefreshTokenBusiness,
		"google_auth_business":          []byte(user.GoogleAuthBusiness),
		"google_user_business":          []byte(user.GoogleUserBusiness),
		"is_admin":                      user.IsAdmin,
		"intake_form_fields":            intakeFields,
		"created_at":                    user.CreatedAt,
	}, nil
}

func scanUser(row interface{ Scan(...interface{}) error }) (*entities.User, error) {
	user := &entities.User{}
	var expireToken sql.NullTime
	var googleAuth, googleUser, googleAuthBiz, googleUserBiz, intakeFields []byte

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Prefix,
		&user.Email,
		&user.Phone,
		&user.Password,
		&user.Avatar,
		&user.ResetToken,
		&expireToken,
		&user.GoogleRefreshToken,
		&googleAuth,
		&googleUser,
		&user.GoogleRefreshTokenBusiness,
		&googleAuthBiz,
		&googleUserBiz,
		&user.IsAdmin,
		&intakeFields,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expireToken.Valid {
		user.ExpireToken = &expireToken.Time
	}
	user.GoogleAuth = googleAuth
	user.GoogleUser = googleUser
	user.GoogleAuthBusiness = googleAuthBiz
	user.GoogleUserBusiness = googleUserBiz
	if err := unmarshalJSONB(intakeFields, &user.IntakeFormFields); err != nil {
		return nil, err
	}

	return user, nil
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record, err := a.record(user)
	if err != nil {
		return apperrors.NewInternalError("failed to encode user", err)
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// GetByResetToken retrieves a user holding an unexpired reset token
func (a *UserAdapter) GetByResetToken(ctx context.Context, token string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(
			goqu.Ex{"reset_token": token},
			goqu.C("expire_token").Gt(time.Now()),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("reset token not found or expired")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// Update updates a user
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	record, err := a.record(user)
	if err != nil {
		return apperrors.NewInternalError("failed to encode user", err)
	}
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("users").
		Set(record).
		Where(goqu.Ex{"id": user.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
	}

	return nil
}

// Delete deletes a user
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("users").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}

	return nil
}
