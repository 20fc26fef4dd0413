package middleware

import (
	"net/http"
	"strings"

	"github.com/aridharma/sheetdrop/internal/auth"
)

// AuthMiddleware verifies the bearer token and injects the user into the
// request context. Requests without a valid token never reach the handler.
func AuthMiddleware(service *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "authorization token required", http.StatusUnauthorized)
				return
			}

			userID, err := service.VerifyToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithUserID(r.Context(), userID)))
		})
	}
}
