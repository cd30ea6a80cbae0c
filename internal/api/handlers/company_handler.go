package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/appointmentcake/backend/internal/api/middleware"
	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
)

// CompanyHandler handles company listings, services and likes
type CompanyHandler struct {
	service        *services.CompanyService
	bookingService *services.BookingService
	formFieldRepo  repositories.FormFieldRepository
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(
	service *services.CompanyService,
	bookingService *services.BookingService,
	formFieldRepo repositories.FormFieldRepository,
) *CompanyHandler {
	return &CompanyHandler{
		service:        service,
		bookingService: bookingService,
		formFieldRepo:  formFieldRepo,
	}
}

// upsertCompanyRequest carries the flat company form. Weekday open/close
// triples fold into store hours.
type upsertCompanyRequest struct {
	Name        string `json:"name" validate:"required"`
	Avatar      string `json:"avatar"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Fax         string `json:"fax"`

	Country        string  `json:"country"`
	StreetAddress  string  `json:"street_address"`
	StreetAddress2 string  `json:"street_address_2"`
	City           string  `json:"city"`
	Province       string  `json:"province"`
	Postal         string  `json:"postal"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`

	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`

	Sunday         bool   `json:"sunday"`
	SundayStart    string `json:"sunday_start_time"`
	SundayEnd      string `json:"sunday_end_time"`
	Monday         bool   `json:"monday"`
	MondayStart    string `json:"monday_start_time"`
	MondayEnd      string `json:"monday_end_time"`
	Tuesday        bool   `json:"tuesday"`
	TuesdayStart   string `json:"tuesday_start_time"`
	TuesdayEnd     string `json:"tuesday_end_time"`
	Wednesday      bool   `json:"wednesday"`
	WednesdayStart string `json:"wednesday_start_time"`
	WednesdayEnd   string `json:"wednesday_end_time"`
	Thursday       bool   `json:"thursday"`
	ThursdayStart  string `json:"thursday_start_time"`
	ThursdayEnd    string `json:"thursday_end_time"`
	Friday         bool   `json:"friday"`
	FridayStart    string `json:"friday_start_time"`
	FridayEnd      string `json:"friday_end_time"`
	Saturday       bool   `json:"saturday"`
	SaturdayStart  string `json:"saturday_start_time"`
	SaturdayEnd    string `json:"saturday_end_time"`
}

func (p upsertCompanyRequest) toParams() services.UpsertParams {
	day := func(open bool, start, end string) entities.DayHours {
		return entities.DayHours{Open: open, StartTime: start, EndTime: end}
	}

	return services.UpsertParams{
		Name:        p.Name,
		Avatar:      p.Avatar,
		Website:     p.Website,
		Description: p.Description,
		Phone:       p.Phone,
		Email:       p.Email,
		Fax:         p.Fax,
		Address: entities.Address{
			Country:        p.Country,
			StreetAddress:  p.StreetAddress,
			StreetAddress2: p.StreetAddress2,
			City:           p.City,
			Province:       p.Province,
			Postal:         p.Postal,
			Lat:            p.Lat,
			Lng:            p.Lng,
		},
		Social: entities.Social{
			Facebook:  p.Facebook,
			Twitter:   p.Twitter,
			LinkedIn:  p.LinkedIn,
			Instagram: p.Instagram,
		},
		StoreHours: entities.StoreHours{
			Sunday:    day(p.Sunday, p.SundayStart, p.SundayEnd),
			Monday:    day(p.Monday, p.MondayStart, p.MondayEnd),
			Tuesday:   day(p.Tuesday, p.TuesdayStart, p.TuesdayEnd),
			Wednesday: day(p.Wednesday, p.WednesdayStart, p.WednesdayEnd),
			Thursday:  day(p.Thursday, p.ThursdayStart, p.ThursdayEnd),
			Friday:    day(p.Friday, p.FridayStart, p.FridayEnd),
			Saturday:  day(p.Saturday, p.SaturdayStart, p.SaturdayEnd),
		},
		Latitude:  p.Lat,
		Longitude: p.Lng,
	}
}

// List handles GET /api/company. With lat/lng present it is a proximity
// search, nearest first; otherwise it lists everything.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("lat") != "" && q.Get("lng") != "" {
		lat, err := strconv.ParseFloat(q.Get("lat"), 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid lat")
			return
		}
		lng, err := strconv.ParseFloat(q.Get("lng"), 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid lng")
			return
		}

		// The radius param is named miles but carries meters. Kept for
		// client compatibility.
		radius, _ := strconv.ParseFloat(q.Get("miles"), 64)

		companies, err := h.service.SearchNearby(r.Context(), repositories.GeoSearchParams{
			Latitude:     lat,
			Longitude:    lng,
			RadiusMeters: radius,
			Limit:        parseIntDefault(q.Get("limit"), 0),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, companies)
		return
	}

	companies, err := h.service.GetAll(r.Context(),
		parseIntDefault(q.Get("limit"), 0), parseIntDefault(q.Get("offset"), 0))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, companies)
}

// ListBusinesses handles GET /api/company/business
func (h *CompanyHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := parseIntDefault(q.Get("limit"), 10)
	page := parseIntDefault(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	companies, total, err := h.service.ListBusinesses(r.Context(), q.Get("keyword"), limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"total":     total,
	})
}

// GetMine handles GET /api/company/mine
func (h *CompanyHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	company, err := h.service.GetMine(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// GetLiked handles GET /api/company/liked
func (h *CompanyHandler) GetLiked(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	companies, err := h.service.GetLiked(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, companies)
}

// GetByUser handles GET /api/company/user/{user_id}
func (h *CompanyHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.GetByOwner(r.Context(), r.PathValue("user_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// GetByID handles GET /api/company/{company_id}
func (h *CompanyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.GetByID(r.Context(), r.PathValue("company_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// ListFormFields handles GET /api/company/form-fields
func (h *CompanyHandler) ListFormFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.formFieldRepo.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, fields)
}

// Upsert handles POST /api/company
func (h *CompanyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload upsertCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	company, err := h.service.Upsert(r.Context(), userID, payload.toParams())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// CreateBusiness handles POST /api/company/business
func (h *CompanyHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload upsertCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	company, err := h.service.CreateBusiness(r.Context(), userID, payload.toParams())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// UpdateBusiness handles PUT /api/company/business/{company_id}
func (h *CompanyHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	var payload upsertCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	company, err := h.service.UpdateBusiness(r.Context(), r.PathValue("company_id"), payload.toParams())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

type serviceRequest struct {
	CompanyID       string                     `json:"company_id"`
	Name            string                     `json:"name" validate:"required"`
	Description     string                     `json:"description"`
	ServiceDuration int                        `json:"service_duration"`
	Price           string                     `json:"price"`
	BookOnline      bool                       `json:"book_online"`
	CallToBook      bool                       `json:"call_to_book"`
	BookSite        bool                       `json:"book_site"`
	BookSiteLink    string                     `json:"book_site_link"`
	IntakeForm      []entities.IntakeFormField `json:"intake_form"`
}

func (p serviceRequest) toService() entities.Service {
	return entities.Service{
		Name:            p.Name,
		Description:     p.Description,
		ServiceDuration: p.ServiceDuration,
		Price:           p.Price,
		BookOnline:      p.BookOnline,
		CallToBook:      p.CallToBook,
		BookSite:        p.BookSite,
		BookSiteLink:    p.BookSiteLink,
		IntakeForm:      p.IntakeForm,
	}
}

// AddService handles PUT /api/company/service
func (h *CompanyHandler) AddService(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	company, err := h.service.AddService(r.Context(), userID, payload.toService())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// AddBusinessService handles PUT /api/company/business/service
func (h *CompanyHandler) AddBusinessService(w http.ResponseWriter, r *http.Request) {
	var payload serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if payload.CompanyID == "" {
		respondWithError(w, http.StatusBadRequest, "company_id is required")
		return
	}

	company, err := h.service.AddServiceByCompanyID(r.Context(), payload.CompanyID, payload.toService())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// EditService handles PUT /api/company/service/{service_id}
func (h *CompanyHandler) EditService(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var payload serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	company, err := h.service.EditService(r.Context(), userID, r.PathValue("service_id"), payload.toService())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// EditBusinessService handles PUT /api/company/business/service/{service_id}
func (h *CompanyHandler) EditBusinessService(w http.ResponseWriter, r *http.Request) {
	var payload serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if payload.CompanyID == "" {
		respondWithError(w, http.StatusBadRequest, "company_id is required")
		return
	}

	company, err := h.service.EditServiceByCompanyID(r.Context(), payload.CompanyID,
		r.PathValue("service_id"), payload.toService())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// DeleteService handles DELETE /api/company/service/{service_id}
func (h *CompanyHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	company, err := h.service.DeleteService(r.Context(), userID, r.PathValue("service_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// DeleteBusinessService handles DELETE /api/company/business/{company_id}/service/{service_id}
func (h *CompanyHandler) DeleteBusinessService(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.DeleteServiceByCompanyID(r.Context(),
		r.PathValue("company_id"), r.PathValue("service_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// Like handles PUT /api/company/like/{id}
func (h *CompanyHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	company, changed, err := h.service.Like(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if !changed {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Company already liked",
			"company": company,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// Unlike handles PUT /api/company/unlike/{id}
func (h *CompanyHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	company, changed, err := h.service.Unlike(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if !changed {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Company has not yet been liked",
			"company": company,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, company)
}

// ListBookings handles GET /api/company/{company_id}/bookings
func (h *CompanyHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.GetByCompanyID(r.Context(), r.PathValue("company_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// Delete handles DELETE /api/company/{company_id}
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteByID(r.Context(), r.PathValue("company_id")); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Company removed"})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
