package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/appointmentcake/backend/internal/api/handlers"
	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/pkg/auth"
)

type noopMail struct{}

func (noopMail) Send(ctx context.Context, to, subject, htmlBody string) error { return nil }

func newAuthHandler(repo *memUserRepo) (*handlers.AuthHandler, *auth.TokenIssuer) {
	issuer := auth.NewTokenIssuer("test-secret", 5)
	service := services.NewAuthService(repo, issuer, noopMail{}, "http://localhost:3000/reset/")
	return handlers.NewAuthHandler(service), issuer
}

func TestAuthHandler_Register_ReturnsToken(t *testing.T) {
	repo := newMemUserRepo()
	handler, issuer := newAuthHandler(repo)

	body := `{"first_name":"Amara","last_name":"Okafor","email":"Amara@Example.com","phone":"416-555-0101","password":"password123"}`
	req := httptest.NewRequest("POST", "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NotEmpty(t, response["token"])

	userID, err := issuer.Verify(response["token"])
	require.NoError(t, err)
	user, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	// Email is lowercased before storage
	assert.Equal(t, "amara@example.com", user.Email)
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	handler, _ := newAuthHandler(newMemUserRepo())

	body := `{"first_name":"Amara","last_name":"Okafor","email":"not-an-email","phone":"416-555-0101","password":"password123"}`
	req := httptest.NewRequest("POST", "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Please include a valid email", response["error"])
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	handler, _ := newAuthHandler(newMemUserRepo())

	body := `{"first_name":"Amara","last_name":"Okafor","email":"amara@example.com","phone":"416-555-0101","password":"abc"}`
	req := httptest.NewRequest("POST", "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Password must be at least 6 characters", response["error"])
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := newMemUserRepo(&entities.User{ID: "user-1", Email: "amara@example.com", Password: string(hash)})
	handler, _ := newAuthHandler(repo)

	body := `{"email":"amara@example.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/api/auth", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Invalid Credentials", response["error"])
}

func TestAuthHandler_CurrentUser_StripsPassword(t *testing.T) {
	repo := newMemUserRepo(&entities.User{ID: "user-1", Email: "amara@example.com", Password: "hash"})
	handler, _ := newAuthHandler(repo)

	req := withUser(httptest.NewRequest("GET", "/api/auth", nil), "user-1")
	w := httptest.NewRecorder()

	handler.CurrentUser(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "amara@example.com", response["email"])
	assert.NotContains(t, response, "password")
}

func TestAuthHandler_ResetPassword_UnknownEmail(t *testing.T) {
	handler, _ := newAuthHandler(newMemUserRepo())

	body := `{"email":"nobody@example.com"}`
	req := httptest.NewRequest("POST", "/api/auth/reset", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ResetPassword(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "No account with that email exists", response["error"])
}
