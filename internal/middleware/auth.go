package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"sectors-server/internal/auth"
	"sectors-server/internal/shared/cookies"
	"sectors-server/internal/shared/errors"
	"sectors-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

const authCookieName = cookies.AuthCookieName

func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := auth.ValidateJWT(cookie.Value)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		logger.Debug("JWT authentication successful", "user_id", claims.UserID)
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// OptionalJWT attaches the user when a valid token is present and lets
// anonymous requests through. An invalid token is treated as anonymous.
func OptionalJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ValidateJWT(cookie.Value)
		if err != nil {
			slog.Debug("Ignoring invalid token on optional route",
				"middleware", "optional_jwt",
				"path", r.URL.Path,
				"error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// UserID returns the signed-in user's id, or nil for anonymous requests.
func UserID(r *http.Request) *int {
	claims := GetUserFromContext(r)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}
