package handlers

import (
	"log/slog"
	"net/http"

	"sectors-server/internal/navigation"
	"sectors-server/internal/shared/errors"
	"sectors-server/internal/shared/response"
)

type RoutesHandler struct {
	service *navigation.Service
}

func NewRoutesHandler(service *navigation.Service) *RoutesHandler {
	return &RoutesHandler{service: service}
}

type completedRouteResponse struct {
	ID    string           `json:"id"`
	Route navigation.Route `json:"route"`
}

type visibilityRequest struct {
	IsHidden bool `json:"isHidden"`
}

func (h *RoutesHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_routes")

	routes, err := h.service.Routes(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, routes)
}

func (h *RoutesHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_route")

	var draft navigation.RouteDraft
	if err := response.DecodeJSON(r, &draft); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	id, route, err := h.service.CompleteRoute(r.Context(), r.PathValue("id"), draft)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, completedRouteResponse{ID: id, Route: route})
}

func (h *RoutesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_route")

	routeID := r.PathValue("routeId")
	if routeID == "" {
		response.Error(w, r, logger, errors.Validation("route ID is required"))
		return
	}

	if err := h.service.DeleteRoute(r.Context(), r.PathValue("id"), routeID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RoutesHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "set_route_visibility")

	var req visibilityRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	route, err := h.service.SetVisibility(r.Context(), r.PathValue("id"), r.PathValue("routeId"), req.IsHidden)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, route)
}
