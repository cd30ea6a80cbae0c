package routes

import (
	"net/http"

	"github.com/appointmentcake/backend/internal/api/handlers"
	"github.com/appointmentcake/backend/internal/api/middleware"
	"github.com/appointmentcake/backend/internal/infrastructure/observability"
	"github.com/appointmentcake/backend/pkg/auth"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	authHandler *handlers.AuthHandler

	companyHandler *handlers.CompanyHandler

	bookingHandler *handlers.BookingHandler

	profileHandler *handlers.ProfileHandler

	tokenIssuer *auth.TokenIssuer

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	authHandler *handlers.AuthHandler,

	companyHandler *handlers.CompanyHandler,

	bookingHandler *handlers.BookingHandler,

	profileHandler *handlers.ProfileHandler,

	tokenIssuer *auth.TokenIssuer,

	cacheMiddleware *middleware.CacheMiddleware,

	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		authHandler: authHandler,

		companyHandler: companyHandler,

		bookingHandler: bookingHandler,

		profileHandler: profileHandler,

		tokenIssuer: tokenIssuer,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	guard := middleware.AuthMiddleware(r.tokenIssuer)
	protected := func(h http.HandlerFunc) http.Handler {
		return guard(h)
	}

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Auth endpoints

	r.mux.Handle("GET /api/auth", protected(r.authHandler.CurrentUser))

	r.mux.HandleFunc("POST /api/auth", r.authHandler.Login)

	r.mux.HandleFunc("POST /api/auth/reset", r.authHandler.ResetPassword)

	r.mux.HandleFunc("POST /api/auth/new-password", r.authHandler.NewPassword)

	r.mux.Handle("POST /api/auth/gtoken", protected(r.authHandler.SaveGoogleToken))

	r.mux.Handle("PUT /api/auth/intake-form", protected(r.authHandler.UpdateIntakeForm))

	// User endpoints

	r.mux.HandleFunc("POST /api/users", r.authHandler.Register)

	r.mux.Handle("POST /api/users/me", protected(r.authHandler.UpdateMe))

	// Booking endpoints

	r.mux.Handle("GET /api/bookings", protected(r.bookingHandler.ListUpcoming))

	r.mux.Handle("GET /api/bookings/past", protected(r.bookingHandler.ListPast))

	r.mux.Handle("GET /api/bookings/mine", protected(r.bookingHandler.ListMine))

	r.mux.Handle("GET /api/bookings/{id}", protected(r.bookingHandler.GetByID))

	r.mux.Handle("POST /api/bookings", protected(r.bookingHandler.Create))

	r.mux.Handle("PUT /api/bookings/{id}", protected(r.bookingHandler.Update))

	r.mux.Handle("DELETE /api/bookings/{id}", protected(r.bookingHandler.Delete))

	r.mux.Handle("POST /api/bookings/comment/{id}", protected(r.bookingHandler.AddComment))

	r.mux.Handle("DELETE /api/bookings/comment/{id}/{comment_id}", protected(r.bookingHandler.DeleteComment))

	// Company endpoints

	r.mux.HandleFunc("GET /api/company", r.companyHandler.List)

	r.mux.HandleFunc("GET /api/company/business", r.companyHandler.ListBusinesses)

	r.mux.Handle("GET /api/company/mine", protected(r.companyHandler.GetMine))

	r.mux.Handle("GET /api/company/liked", protected(r.companyHandler.GetLiked))

	r.mux.HandleFunc("GET /api/company/user/{user_id}", r.companyHandler.GetByUser)

	r.mux.Handle("GET /api/company/form-fields", protected(r.companyHandler.ListFormFields))

	r.mux.HandleFunc("GET /api/company/{company_id}", r.companyHandler.GetByID)

	r.mux.Handle("GET /api/company/{company_id}/bookings", protected(r.companyHandler.ListBookings))

	r.mux.Handle("POST /api/company", protected(r.companyHandler.Upsert))

	r.mux.Handle("POST /api/company/business", protected(r.companyHandler.CreateBusiness))

	r.mux.Handle("PUT /api/company/business/{company_id}", protected(r.companyHandler.UpdateBusiness))

	r.mux.Handle("PUT /api/company/service", protected(r.companyHandler.AddService))

	r.mux.Handle("PUT /api/company/business/service", protected(r.companyHandler.AddBusinessService))

	r.mux.Handle("PUT /api/company/service/{service_id}", protected(r.companyHandler.EditService))

	r.mux.Handle("PUT /api/company/business/service/{service_id}", protected(r.companyHandler.EditBusinessService))

	r.mux.Handle("DELETE /api/company/service/{service_id}", protected(r.companyHandler.DeleteService))

	r.mux.Handle("DELETE /api/company/business/{company_id}/service/{service_id}", protected(r.companyHandler.DeleteBusinessService))

	r.mux.Handle("PUT /api/company/like/{id}", protected(r.companyHandler.Like))

	r.mux.Handle("PUT /api/company/unlike/{id}", protected(r.companyHandler.Unlike))

	r.mux.Handle("DELETE /api/company/{company_id}", protected(r.companyHandler.Delete))

	r.mux.Handle("DELETE /api/company/business/{company_id}", protected(r.companyHandler.Delete))

	// Profile endpoints

	r.mux.Handle("GET /api/profile/me", protected(r.profileHandler.GetMine))

	r.mux.HandleFunc("GET /api/profile", r.profileHandler.List)

	r.mux.HandleFunc("GET /api/profile/user/{user_id}", r.profileHandler.GetByUser)

	r.mux.Handle("POST /api/profile", protected(r.profileHandler.Upsert))

	r.mux.Handle("PUT /api/profile/experience", protected(r.profileHandler.AddExperience))

	r.mux.Handle("DELETE /api/profile/experience/{exp_id}", protected(r.profileHandler.DeleteExperience))

	r.mux.Handle("DELETE /api/profile", protected(r.profileHandler.DeleteAccount))

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
