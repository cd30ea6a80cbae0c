package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointmentcake/backend/internal/api/handlers"
	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
)

func newCompanyHandler(repo *memCompanyRepo) *handlers.CompanyHandler {
	companyService := services.NewCompanyService(repo, nil, nil)
	bookingService := services.NewBookingService(newMemBookingRepo(), repo, newMemUserRepo())
	return handlers.NewCompanyHandler(companyService, bookingService, nil)
}

func TestCompanyHandler_Upsert_FoldsStoreHours(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo())

	body := `{
		"name": "Lakeshore Dental",
		"city": "Toronto",
		"lat": 43.62, "lng": -79.48,
		"monday": true, "monday_start_time": "09:00", "monday_end_time": "17:00"
	}`
	req := withUser(httptest.NewRequest("POST", "/api/company", strings.NewReader(body)), "user-1")
	w := httptest.NewRecorder()

	handler.Upsert(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var company entities.Company
	require.NoError(t, json.NewDecoder(w.Body).Decode(&company))
	assert.Equal(t, "user-1", company.UserID)
	assert.True(t, company.StoreHours.Monday.Open)
	assert.Equal(t, "09:00", company.StoreHours.Monday.StartTime)
	assert.False(t, company.StoreHours.Tuesday.Open)
	assert.Equal(t, []float64{-79.48, 43.62}, company.Geolocation.Coordinates)
}

func TestCompanyHandler_Upsert_MissingName(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo())

	req := withUser(httptest.NewRequest("POST", "/api/company", strings.NewReader(`{}`)), "user-1")
	w := httptest.NewRecorder()

	handler.Upsert(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Name is required", response["error"])
}

func TestCompanyHandler_List_ProximityMode(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo(
		&entities.Company{ID: "comp-1", UserID: "owner-1", Name: "Lakeshore Dental"},
	))

	req := httptest.NewRequest("GET", "/api/company?lat=43.65&lng=-79.38&miles=15000", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var companies []entities.Company
	require.NoError(t, json.NewDecoder(w.Body).Decode(&companies))
	assert.Len(t, companies, 1)
}

func TestCompanyHandler_List_InvalidLat(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo())

	req := httptest.NewRequest("GET", "/api/company?lat=abc&lng=-79.38", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompanyHandler_GetByID_NotFound(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo())

	req := httptest.NewRequest("GET", "/api/company/missing", nil)
	req.SetPathValue("company_id", "missing")
	w := httptest.NewRecorder()

	handler.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompanyHandler_Like_AlreadyLiked(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo(&entities.Company{
		ID:     "comp-1",
		UserID: "owner-1",
		Likes:  []entities.Like{{UserID: "user-1"}},
	}))

	req := withUser(httptest.NewRequest("PUT", "/api/company/like/comp-1", nil), "user-1")
	req.SetPathValue("id", "comp-1")
	w := httptest.NewRecorder()

	handler.Like(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Company already liked", response["message"])
}

func TestCompanyHandler_Unlike_NeverLiked(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo(&entities.Company{ID: "comp-1", UserID: "owner-1"}))

	req := withUser(httptest.NewRequest("PUT", "/api/company/unlike/comp-1", nil), "user-1")
	req.SetPathValue("id", "comp-1")
	w := httptest.NewRecorder()

	handler.Unlike(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Company has not yet been liked", response["message"])
}

func TestCompanyHandler_AddBusinessService_RequiresCompanyID(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo())

	body := `{"name": "Checkup"}`
	req := withUser(httptest.NewRequest("PUT", "/api/company/business/service", strings.NewReader(body)), "admin-1")
	w := httptest.NewRecorder()

	handler.AddBusinessService(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "company_id is required", response["error"])
}

func TestCompanyHandler_ListBusinesses_ReturnsTotal(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo(
		&entities.Company{ID: "comp-1", UserID: "admin-1", IsAdmin: true},
		&entities.Company{ID: "comp-2", UserID: "admin-2", IsAdmin: true},
		&entities.Company{ID: "comp-3", UserID: "user-1"},
	))

	req := httptest.NewRequest("GET", "/api/company/business", nil)
	w := httptest.NewRecorder()

	handler.ListBusinesses(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Companies []entities.Company `json:"companies"`
		Total     int                `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Companies, 2)
	assert.Equal(t, 2, response.Total)
}

func TestCompanyHandler_DeleteService_NotFound(t *testing.T) {
	handler := newCompanyHandler(newMemCompanyRepo(&entities.Company{ID: "comp-1", UserID: "user-1"}))

	req := withUser(httptest.NewRequest("DELETE", "/api/company/service/missing", nil), "user-1")
	req.SetPathValue("service_id", "missing")
	w := httptest.NewRecorder()

	handler.DeleteService(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Service not found", response["error"])
}
