package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointmentcake/backend/internal/api/handlers"
	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
)

func newBookingHandler(bookingRepo *memBookingRepo, companyRepo *memCompanyRepo, userRepo *memUserRepo) *handlers.BookingHandler {
	return handlers.NewBookingHandler(services.NewBookingService(bookingRepo, companyRepo, userRepo))
}

func TestBookingHandler_Create_SnapshotsService(t *testing.T) {
	companyRepo := newMemCompanyRepo(&entities.Company{
		ID:     "comp-1",
		UserID: "owner-1",
		Name:   "Lakeshore Dental",
		Services: []entities.Service{
			{ID: "svc-1", Name: "Checkup", Price: "120"},
		},
	})
	handler := newBookingHandler(newMemBookingRepo(), companyRepo, newMemUserRepo())

	start := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	body := `{"company_id":"comp-1","service_id":"svc-1","start_date":"` + start + `","start_time":"` + start + `","duration":45}`
	req := withUser(httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body)), "user-1")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var booking entities.Booking
	require.NoError(t, json.NewDecoder(w.Body).Decode(&booking))
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, "Lakeshore Dental", booking.Company.Name)
	assert.Equal(t, "120", booking.Service.Price)
	assert.NotNil(t, booking.Comments)
}

func TestBookingHandler_Create_MissingService(t *testing.T) {
	handler := newBookingHandler(newMemBookingRepo(), newMemCompanyRepo(), newMemUserRepo())

	req := withUser(httptest.NewRequest("POST", "/api/bookings", strings.NewReader(`{"company_id":"comp-1"}`)), "user-1")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_AddComment_RequiresText(t *testing.T) {
	bookingRepo := newMemBookingRepo(&entities.Booking{ID: "b-1", UserID: "user-1"})
	handler := newBookingHandler(bookingRepo, newMemCompanyRepo(), newMemUserRepo())

	req := withUser(httptest.NewRequest("POST", "/api/bookings/comment/b-1", strings.NewReader(`{}`)), "user-1")
	req.SetPathValue("id", "b-1")
	w := httptest.NewRecorder()

	handler.AddComment(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Text is required", response["error"])
}

func TestBookingHandler_AddComment_DenormalizesAuthor(t *testing.T) {
	bookingRepo := newMemBookingRepo(&entities.Booking{ID: "b-1", UserID: "user-1"})
	userRepo := newMemUserRepo(&entities.User{ID: "user-1", FirstName: "Amara", LastName: "Okafor"})
	handler := newBookingHandler(bookingRepo, newMemCompanyRepo(), userRepo)

	req := withUser(httptest.NewRequest("POST", "/api/bookings/comment/b-1", strings.NewReader(`{"text":"Running late"}`)), "user-1")
	req.SetPathValue("id", "b-1")
	w := httptest.NewRecorder()

	handler.AddComment(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var booking entities.Booking
	require.NoError(t, json.NewDecoder(w.Body).Decode(&booking))
	require.Len(t, booking.Comments, 1)
	assert.Equal(t, "Amara Okafor", booking.Comments[0].Name)
}

func TestBookingHandler_DeleteComment_AuthorOnly(t *testing.T) {
	bookingRepo := newMemBookingRepo(&entities.Booking{
		ID:     "b-1",
		UserID: "user-1",
		Comments: []entities.Comment{
			{ID: "c-1", UserID: "someone-else", Text: "theirs"},
		},
	})
	handler := newBookingHandler(bookingRepo, newMemCompanyRepo(), newMemUserRepo())

	req := withUser(httptest.NewRequest("DELETE", "/api/bookings/comment/b-1/c-1", nil), "user-1")
	req.SetPathValue("id", "b-1")
	req.SetPathValue("comment_id", "c-1")
	w := httptest.NewRecorder()

	handler.DeleteComment(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_DeleteComment_UnknownComment(t *testing.T) {
	bookingRepo := newMemBookingRepo(&entities.Booking{ID: "b-1", UserID: "user-1"})
	handler := newBookingHandler(bookingRepo, newMemCompanyRepo(), newMemUserRepo())

	req := withUser(httptest.NewRequest("DELETE", "/api/bookings/comment/b-1/missing", nil), "user-1")
	req.SetPathValue("id", "b-1")
	req.SetPathValue("comment_id", "missing")
	w := httptest.NewRecorder()

	handler.DeleteComment(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Comment does not exist", response["error"])
}

func TestBookingHandler_Delete_OwnerOnly(t *testing.T) {
	bookingRepo := newMemBookingRepo(&entities.Booking{ID: "b-1", UserID: "user-1"})
	handler := newBookingHandler(bookingRepo, newMemCompanyRepo(), newMemUserRepo())

	req := withUser(httptest.NewRequest("DELETE", "/api/bookings/b-1", nil), "user-2")
	req.SetPathValue("id", "b-1")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_ListUpcoming_FiltersByStart(t *testing.T) {
	bookingRepo := newMemBookingRepo(
		&entities.Booking{ID: "b-past", UserID: "user-1", StartDate: time.Now().Add(-48 * time.Hour)},
		&entities.Booking{ID: "b-future", UserID: "user-1", StartDate: time.Now().Add(48 * time.Hour)},
	)
	handler := newBookingHandler(bookingRepo, newMemCompanyRepo(), newMemUserRepo())

	req := withUser(httptest.NewRequest("GET", "/api/bookings", nil), "user-1")
	w := httptest.NewRecorder()

	handler.ListUpcoming(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var bookings []entities.Booking
	require.NoError(t, json.NewDecoder(w.Body).Decode(&bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, "b-future", bookings[0].ID)
}

func TestBookingHandler_Update_OnlyCalendarFields(t *testing.T) {
	bookingRepo := newMemBookingRepo(&entities.Booking{
		ID:      "b-1",
		UserID:  "user-1",
		Company: entities.CompanySnapshot{Name: "Lakeshore Dental"},
	})
	handler := newBookingHandler(bookingRepo, newMemCompanyRepo(), newMemUserRepo())

	body := `{"user_calender":"https://calendar.example.com/evt"}`
	req := withUser(httptest.NewRequest("PUT", "/api/bookings/b-1", strings.NewReader(body)), "user-1")
	req.SetPathValue("id", "b-1")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var booking entities.Booking
	require.NoError(t, json.NewDecoder(w.Body).Decode(&booking))
	assert.Equal(t, "https://calendar.example.com/evt", booking.UserCalender)
	assert.Equal(t, "Lakeshore Dental", booking.Company.Name)
}
