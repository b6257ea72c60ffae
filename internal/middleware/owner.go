package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"sectors-server/internal/shared/cookies"

	"github.com/google/uuid"
)

const ownerTokenKey contextKey = "owner_token"

// LocalOwner gives every caller an anonymous owner token. The token from the
// owner cookie is reused when it is a valid UUID, otherwise a new one is
// issued.
func LocalOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(cookies.OwnerCookieName); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				token = cookie.Value
			}
		}

		if token == "" {
			token = uuid.NewString()
			cookies.SetOwnerCookie(w, token)
			slog.Debug("Issued owner token",
				"middleware", "local_owner",
				"path", r.URL.Path)
		}

		next.ServeHTTP(w, r.WithContext(WithOwnerToken(r.Context(), token)))
	})
}

func WithOwnerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ownerTokenKey, token)
}

// OwnerToken returns the anonymous owner token set by LocalOwner, or "".
func OwnerToken(r *http.Request) string {
	token, _ := r.Context().Value(ownerTokenKey).(string)
	return token
}
