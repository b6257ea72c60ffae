package handlers

import (
	"log/slog"
	"net/http"

	"sectors-server/internal/generator"
	"sectors-server/internal/middleware"
	"sectors-server/internal/printable"
	"sectors-server/internal/sector"
	"sectors-server/internal/shared/errors"
	"sectors-server/internal/shared/response"
)

type SectorsHandler struct {
	service *sector.Service
}

func NewSectorsHandler(service *sector.Service) *SectorsHandler {
	return &SectorsHandler{service: service}
}

type generateRequest struct {
	generator.SectorOptions
	Seed *int64 `json:"seed,omitempty"`
}

type printableResponse struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Blocks []printable.Block `json:"blocks"`
}

func owner(r *http.Request) sector.Owner {
	return sector.Owner{UserID: middleware.UserID(r), Token: middleware.OwnerToken(r)}
}

func (h *SectorsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "generate_sector")

	var req generateRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	sec, err := h.service.Generate(r.Context(), owner(r), req.SectorOptions, req.Seed)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, sec)
}

func (h *SectorsHandler) Save(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "save_sector")

	var req sector.SaveRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	saved, err := h.service.Save(r.Context(), owner(r), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, saved)
}

func (h *SectorsHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_sectors")

	summaries, err := h.service.List(r.Context(), owner(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, summaries)
}

func (h *SectorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_sector")

	sec, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, sec)
}

func (h *SectorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_sector")

	if err := h.service.Delete(r.Context(), owner(r), r.PathValue("id")); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SectorsHandler) Printable(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "printable_sector")

	sec, blocks, err := h.service.Printable(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		if blocks == nil {
			blocks = []printable.Block{}
		}
		response.Success(w, http.StatusOK, printableResponse{ID: sec.ID, Name: sec.Name, Blocks: blocks})
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := printable.WriteText(w, sec.Name, blocks); err != nil {
			logger.Warn("Failed to write printable sector", "sector_id", sec.ID, "error", err)
		}
	default:
		response.Error(w, r, logger, errors.Validationf("unsupported format %q", format))
	}
}
