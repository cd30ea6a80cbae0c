package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/appointmentcake/backend/internal/api/middleware"
	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
)

// ProfileHandler handles user profiles
type ProfileHandler struct {
	service *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type upsertProfileRequest struct {
	FirstName string               `json:"first_name"`
	LastName  string               `json:"last_name"`
	Phone     string               `json:"phone"`
	Prefix    string               `json:"prefix"`
	Suffix    string               `json:"suffix"`
	Birthday  *time.Time           `json:"birthday"`
	Bio       string               `json:"bio"`
	Facebook  string               `json:"facebook"`
	Twitter   string               `json:"twitter"`
	LinkedIn  string               `json:"linkedin"`
	Instagram string               `json:"instagram"`
	Insurance []entities.Insurance `json:"insurance"`
}

// Upsert handles POST /api/profile
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	profile, err := h.service.Upsert(r.Context(), userID, services.UpsertProfileParams{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Prefix:    payload.Prefix,
		Suffix:    payload.Suffix,
		Birthday:  payload.Birthday,
		Bio:       payload.Bio,
		Social: entities.Social{
			Facebook:  payload.Facebook,
			Twitter:   payload.Twitter,
			LinkedIn:  payload.LinkedIn,
			Instagram: payload.Instagram,
		},
		Insurance: payload.Insurance,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// GetMine handles GET /api/profile/me
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	profile, err := h.service.GetMine(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// List handles GET /api/profile
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profiles)
}

// GetByUser handles GET /api/profile/user/{user_id}
func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetByUserID(r.Context(), r.PathValue("user_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

type experienceRequest struct {
	Title    string `json:"title" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Location string `json:"location"`
	From     string `json:"from" validate:"required"`
	To       string `json:"to"`
	Current  bool   `json:"current"`
	Desc     string `json:"desc"`
}

// AddExperience handles PUT /api/profile/experience
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload experienceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	profile, err := h.service.AddExperience(r.Context(), userID, entities.Experience{
		Title:    payload.Title,
		Company:  payload.Company,
		Location: payload.Location,
		From:     payload.From,
		To:       payload.To,
		Current:  payload.Current,
		Desc:     payload.Desc,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// DeleteExperience handles DELETE /api/profile/experience/{exp_id}
func (h *ProfileHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	profile, err := h.service.DeleteExperience(r.Context(), userID, r.PathValue("exp_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// DeleteAccount handles DELETE /api/profile
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
