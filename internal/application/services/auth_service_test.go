package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/pkg/auth"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// stubUserRepo is an in-memory UserRepository for service tests.
type stubUserRepo struct {
	users map[string]*entities.User
}

func newStubUserRepo(users ...*entities.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[string]*entities.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return user, nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *stubUserRepo) GetByResetToken(ctx context.Context, token string) (*entities.User, error) {
	for _, u := range r.users {
		if u.ResetToken == token && u.ExpireToken != nil && u.ExpireToken.After(time.Now()) {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *stubUserRepo) Update(ctx context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	delete(r.users, id)
	return nil
}

// stubMailSender records outgoing mail instead of delivering it.
type stubMailSender struct {
	sent []string
}

func (s *stubMailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.sent = append(s.sent, to)
	return nil
}

func newAuthService(repo *stubUserRepo) (*services.AuthService, *stubMailSender) {
	mail := &stubMailSender{}
	issuer := auth.NewTokenIssuer("test-secret", 5)
	return services.NewAuthService(repo, issuer, mail, "http://localhost:3000/reset/"), mail
}

func TestAuthService_Register_IssuesToken(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	service, _ := newAuthService(repo)

	token, err := service.Register(ctx, services.RegisterParams{
		FirstName: "Amara",
		LastName:  "Okafor",
		Email:     "amara@example.com",
		Phone:     "416-555-0101",
		Password:  "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.Len(t, repo.users, 1)

	user, err := repo.GetByEmail(ctx, "amara@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.Contains(t, user.Avatar, "gravatar.com/avatar/")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo(&entities.User{ID: "user-1", Email: "amara@example.com"})
	service, _ := newAuthService(repo)

	_, err := service.Register(ctx, services.RegisterParams{
		FirstName: "Amara",
		LastName:  "Okafor",
		Email:     "amara@example.com",
		Phone:     "416-555-0101",
		Password:  "password123",
	})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "User already exists", appErr.Message)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := newStubUserRepo(&entities.User{ID: "user-1", Email: "amara@example.com", Password: string(hash)})
	service, _ := newAuthService(repo)

	token, err := service.Login(ctx, "amara@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = service.Login(ctx, "amara@example.com", "wrong")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "Invalid Credentials", appErr.Message)

	_, err = service.Login(ctx, "nobody@example.com", "password123")
	require.Error(t, err)
	appErr, ok = err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "Invalid Credentials", appErr.Message)
}

func TestAuthService_ResetPassword_StoresTokenAndMails(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo(&entities.User{ID: "user-1", Email: "amara@example.com"})
	service, mail := newAuthService(repo)

	err := service.ResetPassword(ctx, "amara@example.com")
	require.NoError(t, err)

	user := repo.users["user-1"]
	assert.Len(t, user.ResetToken, 64)
	require.NotNil(t, user.ExpireToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *user.ExpireToken, time.Minute)
	assert.Equal(t, []string{"amara@example.com"}, mail.sent)
}

func TestAuthService_ResetPassword_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	service, mail := newAuthService(repo)

	err := service.ResetPassword(ctx, "nobody@example.com")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeSessionExpired, appErr.Type)
	assert.Empty(t, mail.sent)
}

func TestAuthService_NewPassword_ConsumesToken(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	repo := newStubUserRepo(&entities.User{
		ID:          "user-1",
		Email:       "amara@example.com",
		ResetToken:  strings.Repeat("ab", 32),
		ExpireToken: &expires,
	})
	service, _ := newAuthService(repo)

	err := service.NewPassword(ctx, strings.Repeat("ab", 32), "newpassword")
	require.NoError(t, err)

	user := repo.users["user-1"]
	assert.Empty(t, user.ResetToken)
	assert.Nil(t, user.ExpireToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newpassword")))

	// The token is single use
	err = service.NewPassword(ctx, strings.Repeat("ab", 32), "another")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeSessionExpired, appErr.Type)
}

func TestAuthService_NewPassword_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	expired := time.Now().Add(-time.Minute)
	repo := newStubUserRepo(&entities.User{
		ID:          "user-1",
		ResetToken:  "token",
		ExpireToken: &expired,
	})
	service, _ := newAuthService(repo)

	err := service.NewPassword(ctx, "token", "newpassword")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "Password reset session expired", appErr.Message)
}

func TestAuthService_SaveGoogleToken_BusinessSlot(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo(&entities.User{ID: "user-1"})
	service, _ := newAuthService(repo)

	user, err := service.SaveGoogleToken(ctx, "user-1", true, "refresh", []byte(`{"a":1}`), []byte(`{"b":2}`))
	require.NoError(t, err)

	assert.Equal(t, "refresh", user.GoogleRefreshTokenBusiness)
	assert.Empty(t, user.GoogleRefreshToken)
	assert.Nil(t, user.GoogleAuth)
}

func TestAuthService_UpdateCredentials_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo(
		&entities.User{ID: "user-1", Email: "amara@example.com"},
		&entities.User{ID: "user-2", Email: "daniel@example.com"},
	)
	service, _ := newAuthService(repo)

	_, err := service.UpdateCredentials(ctx, "user-1", "daniel@example.com", "")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "User already exists", appErr.Message)
}
