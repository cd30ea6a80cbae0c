package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/appointmentcake/backend/internal/api/middleware"
	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
)

// BookingHandler handles bookings and their comment threads
type BookingHandler struct {
	service *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type createBookingRequest struct {
	CompanyID  string                      `json:"company_id" validate:"required"`
	ServiceID  string                      `json:"service_id" validate:"required"`
	Text       string                      `json:"text"`
	StartDate  time.Time                   `json:"start_date" validate:"required"`
	StartTime  time.Time                   `json:"start_time" validate:"required"`
	Duration   int                         `json:"duration"`
	IntakeForm []entities.IntakeFormAnswer `json:"intake_form"`
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	booking, err := h.service.Create(r.Context(), userID, services.CreateBookingParams{
		CompanyID:  payload.CompanyID,
		ServiceID:  payload.ServiceID,
		Text:       payload.Text,
		StartDate:  payload.StartDate,
		StartTime:  payload.StartTime,
		Duration:   payload.Duration,
		IntakeForm: payload.IntakeForm,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// ListUpcoming handles GET /api/bookings
func (h *BookingHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	bookings, err := h.service.GetUpcoming(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// ListPast handles GET /api/bookings/past
func (h *BookingHandler) ListPast(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	bookings, err := h.service.GetPast(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// ListMine handles GET /api/bookings/mine
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	bookings, err := h.service.GetMine(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// GetByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

type updateBookingRequest struct {
	UserCalender     *string `json:"user_calender"`
	BusinessCalender *string `json:"business_calender"`
}

// Update handles PUT /api/bookings/{id}. Only the calendar link fields are
// mutable; the embedded snapshots stay as booked.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking, err := h.service.UpdateCalendars(r.Context(), r.PathValue("id"),
		payload.UserCalender, payload.BusinessCalender)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// Delete handles DELETE /api/bookings/{id}
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Booking removed"})
}

type addCommentRequest struct {
	Text          string `json:"text" validate:"required"`
	CompanyID     string `json:"company_id"`
	CompanyUserID string `json:"company_user_id"`
}

// AddComment handles POST /api/bookings/comment/{id}
func (h *BookingHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	booking, err := h.service.AddComment(r.Context(), userID, r.PathValue("id"), services.AddCommentParams{
		Text:          payload.Text,
		CompanyID:     payload.CompanyID,
		CompanyUserID: payload.CompanyUserID,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// DeleteComment handles DELETE /api/bookings/comment/{id}/{comment_id}
func (h *BookingHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	booking, err := h.service.DeleteComment(r.Context(), userID,
		r.PathValue("id"), r.PathValue("comment_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}
