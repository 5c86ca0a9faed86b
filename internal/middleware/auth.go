package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/campusfind/campusfind/internal/ctxkeys"
	"github.com/campusfind/campusfind/internal/service"
)

// bearerToken extracts the request credential: the Authorization bearer
// header, with X-Auth-Token accepted as a fallback for older clients.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.Header.Get("X-Auth-Token")
}

// AuthMiddleware resolves the bearer token to a user and adds it to the
// request context. Requests without a valid token pass through untouched;
// RequireAuth decides whether that is fatal per route.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(token)
			if err != nil {
				// Invalid token, continue unauthenticated
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.ByID(userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			// Security: never carry the password hash through the request
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the caller resolved to a user. Every failure mode
// (missing, expired, malformed token) gets the same generic answer.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authorization required"})
			return
		}

		next.ServeHTTP(w, r)
	}
}
