package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/jvalladares/tienda-backend/internal/modules/user"
)

type contextKey struct{}

var userContextKey contextKey

// RequireAuth returns middleware that validates the bearer token and loads
// the authenticated user into the request context before handlers run.
func RequireAuth(svc Service, users user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization := r.Header.Get("Authorization")
			if authorization == "" {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "authorization header missing"})
				return
			}
			scheme, token, found := strings.Cut(authorization, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid authentication scheme"})
				return
			}

			userID, err := svc.VerifyToken(token)
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
				return
			}
			u, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "user not found"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext retrieves the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userContextKey).(*user.User)
	return u, ok
}
