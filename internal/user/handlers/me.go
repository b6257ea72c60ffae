package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"sectors-server/internal/middleware"
	"sectors-server/internal/shared/errors"
	"sectors-server/internal/shared/response"
	"sectors-server/internal/user"
)

type UserGetter interface {
	GetUserByID(ctx context.Context, id int) (*user.User, error)
}

type MeHandler struct {
	users UserGetter
}

func NewMeHandler(users UserGetter) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	u, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, u)
}
