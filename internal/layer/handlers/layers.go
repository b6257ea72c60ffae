package handlers

import (
	"log/slog"
	"net/http"

	"sectors-server/internal/layer"
	"sectors-server/internal/shared/response"
)

type LayersHandler struct {
	service *layer.Service
}

func NewLayersHandler(service *layer.Service) *LayersHandler {
	return &LayersHandler{service: service}
}

type layerResponse struct {
	*layer.Layer
	SortedRegions []layer.RegionEntry `json:"sortedRegions"`
}

type regionCreatedResponse struct {
	RegionID string        `json:"regionId"`
	Layer    layerResponse `json:"layer"`
}

func newLayerResponse(l *layer.Layer) layerResponse {
	return layerResponse{Layer: l, SortedRegions: l.SortedRegions()}
}

func (h *LayersHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_layers")

	layers, err := h.service.List(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	out := make([]layerResponse, 0, len(layers))
	for i := range layers {
		out = append(out, newLayerResponse(&layers[i]))
	}
	response.Success(w, http.StatusOK, out)
}

func (h *LayersHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_layer")

	var input layer.LayerInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), r.PathValue("id"), input)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, newLayerResponse(created))
}

func (h *LayersHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "update_layer")

	var patch layer.LayerPatch
	if err := response.DecodeJSON(r, &patch); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	updated, err := h.service.Update(r.Context(), r.PathValue("id"), r.PathValue("layerId"), patch)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, newLayerResponse(updated))
}

func (h *LayersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_layer")

	if err := h.service.Delete(r.Context(), r.PathValue("id"), r.PathValue("layerId")); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LayersHandler) AddRegion(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "add_region")

	var input layer.RegionInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	regionID, updated, err := h.service.AddRegion(r.Context(), r.PathValue("id"), r.PathValue("layerId"), input)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, regionCreatedResponse{RegionID: regionID, Layer: newLayerResponse(updated)})
}

func (h *LayersHandler) UpdateRegion(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "update_region")

	var patch layer.RegionPatch
	if err := response.DecodeJSON(r, &patch); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	updated, err := h.service.UpdateRegion(r.Context(), r.PathValue("id"), r.PathValue("layerId"), r.PathValue("regionId"), patch)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, newLayerResponse(updated))
}

func (h *LayersHandler) RemoveRegion(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "remove_region")

	updated, err := h.service.RemoveRegion(r.Context(), r.PathValue("id"), r.PathValue("layerId"), r.PathValue("regionId"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, newLayerResponse(updated))
}
