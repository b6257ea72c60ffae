package handlers

import (
	"log/slog"
	"net/http"

	"sectors-server/internal/shared/cookies"
)

type LogoutHandler struct{}

func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout", "remote_addr", r.RemoteAddr)

	cookies.ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)

	logger.Info("User logged out successfully")
}
