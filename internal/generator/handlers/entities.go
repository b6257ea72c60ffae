package handlers

import (
	"log/slog"
	"net/http"

	"sectors-server/internal/entity"
	"sectors-server/internal/generator"
	"sectors-server/internal/random"
	"sectors-server/internal/shared/errors"
	"sectors-server/internal/shared/response"
)

// EntitiesHandler exposes the entity generators directly. Each request gets
// its own generator so a seed always reproduces the same result.
type EntitiesHandler struct {
	registry *entity.Registry
	logger   *slog.Logger
	opts     []generator.Option
}

func NewEntitiesHandler(registry *entity.Registry, logger *slog.Logger, opts ...generator.Option) *EntitiesHandler {
	return &EntitiesHandler{registry: registry, logger: logger, opts: opts}
}

type spaceStationsRequest struct {
	generator.ChildrenOptions
	Seed *int64 `json:"seed,omitempty"`
}

type spaceStationsResponse struct {
	Seed int64 `json:"seed"`
	generator.Children
}

func (h *EntitiesHandler) SpaceStations(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "generate_space_stations")

	var req spaceStationsRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if req.ParentType != "" {
		if _, ok := h.registry.Lookup(req.ParentType); !ok {
			response.Error(w, r, logger, errors.Validationf("unknown parent entity type %q", req.ParentType))
			return
		}
		if !h.registry.CanContain(req.ParentType, entity.TypeSpaceStation) {
			response.Error(w, r, logger, errors.Validationf("%s cannot contain space stations", req.ParentType))
			return
		}
	}

	seed, err := random.ResolveSeed(req.Seed)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to seed generator", err))
		return
	}

	gen := generator.New(h.registry, random.New(seed), h.logger, h.opts...)
	children := gen.GenerateSpaceStations(req.ChildrenOptions)

	response.Success(w, http.StatusOK, spaceStationsResponse{Seed: seed, Children: children})
}
