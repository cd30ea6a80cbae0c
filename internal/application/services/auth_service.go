package services

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/providers"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	"github.com/appointmentcake/backend/internal/infrastructure/observability"
	"github.com/appointmentcake/backend/pkg/auth"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

const resetTokenTTL = time.Hour

// AuthService handles registration, login and credential recovery
type AuthService struct {
	userRepo repositories.UserRepository
	issuer   *auth.TokenIssuer
	mail     providers.MailProvider
	resetURL string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	issuer *auth.TokenIssuer,
	mail providers.MailProvider,
	resetURL string,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		mail:     mail,
		resetURL: resetURL,
	}
}

// RegisterParams carries the fields accepted at sign up
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// Register creates an account and returns a session token
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (string, error) {
	existing, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Type != apperrors.ErrorTypeNotFound {
			return "", err
		}
	}
	if existing != nil {
		return "", apperrors.NewValidationError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		ID:        uuid.New().String(),
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Phone:     params.Phone,
		Password:  string(hashed),
		Avatar:    gravatarURL(params.Email),
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	return s.issuer.Issue(user.ID)
}

// Login verifies credentials and returns a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeNotFound {
			return "", apperrors.NewValidationError("Invalid Credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.NewValidationError("Invalid Credentials")
	}

	return s.issuer.Issue(user.ID)
}

// CurrentUser returns the authenticated user without the password hash
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ResetPassword stores a one hour reset token and mails a reset link. An
// unknown address is reported back to the caller as a 422.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeNotFound {
			return apperrors.NewSessionExpiredError("No account with that email exists")
		}
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return apperrors.NewInternalError("failed to generate reset token", err)
	}
	token := hex.EncodeToString(buf)

	expires := time.Now().Add(resetTokenTTL)
	user.ResetToken = token
	user.ExpireToken = &expires

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if s.mail == nil {
		observability.LoggerFromContext(ctx).Warn().
			Str("user_id", user.ID).
			Msg("mail provider not configured, reset link not sent")
		return nil
	}

	link := s.resetURL + token
	body := fmt.Sprintf(
		"You requested a password reset.<br/><br/>"+
			"Click this <a href=%q>link</a> to set a new password. "+
			"The link expires in one hour.", link)

	if err := s.mail.Send(ctx, user.Email, "Password Reset", body); err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).
			Str("user_id", user.ID).
			Msg("failed to send reset mail")
		return err
	}

	return nil
}

// NewPassword consumes a reset token and sets the new password
func (s *AuthService) NewPassword(ctx context.Context, token, password string) error {
	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeNotFound {
			return apperrors.NewSessionExpiredError("Password reset session expired")
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.NewInternalError("failed to hash password", err)
	}

	user.Password = string(hashed)
	user.ResetToken = ""
	user.ExpireToken = nil

	return s.userRepo.Update(ctx, user)
}

// SaveGoogleToken stores a third-party calendar auth blob on the user. The
// business flag selects the company-side slot.
func (s *AuthService) SaveGoogleToken(ctx context.Context, userID string, business bool, refreshToken string, authBlob, userBlob json.RawMessage) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if business {
		user.GoogleRefreshTokenBusiness = refreshToken
		user.GoogleAuthBusiness = authBlob
		user.GoogleUserBusiness = userBlob
	} else {
		user.GoogleRefreshToken = refreshToken
		user.GoogleAuth = authBlob
		user.GoogleUser = userBlob
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateCredentials changes the caller's email and/or password
func (s *AuthService) UpdateCredentials(ctx context.Context, userID, email, password string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Type != apperrors.ErrorTypeNotFound {
				return nil, err
			}
		}
		if existing != nil {
			return nil, apperrors.NewValidationError("User already exists")
		}
		user.Email = email
	}

	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateIntakeForm replaces the user's stored intake form fields
func (s *AuthService) UpdateIntakeForm(ctx context.Context, userID string, fields []entities.IntakeFormField) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IntakeFormFields = fields

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// gravatarURL derives the default avatar from the account email
func gravatarURL(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(hash[:]))
}
