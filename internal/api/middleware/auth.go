package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/appointmentcake/backend/pkg/auth"
)

type contextKey string

// UserIDKey is the request context key holding the authenticated user id
const UserIDKey contextKey = "user_id"

// AuthMiddleware verifies the session token and stores the user id on the
// request context. Tokens arrive as "Authorization: Bearer <token>" or in the
// legacy x-auth-token header.
func AuthMiddleware(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				respondUnauthorized(w, "No token, authorization denied")
				return
			}

			userID, err := issuer.Verify(token)
			if err != nil {
				respondUnauthorized(w, "Token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id, or "" when the
// request did not pass through AuthMiddleware.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		return header
	}
	return r.Header.Get("x-auth-token")
}
