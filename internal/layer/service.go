package layer

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"sectors-server/internal/shared/errors"

	"github.com/google/uuid"
)

type LayerInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsHidden    bool   `json:"isHidden,omitempty"`
}

type RegionInput struct {
	Name     string   `json:"name"`
	Color    string   `json:"color,omitempty"`
	IsHidden bool     `json:"isHidden,omitempty"`
	Hexes    []string `json:"hexes,omitempty"`
}

type Service struct {
	store  Store
	newID  func() string
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing layer service")

	return &Service{
		store:  store,
		newID:  uuid.NewString,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, sectorID string) ([]Layer, error) {
	layers, err := s.store.ListBySector(ctx, sectorID)
	if err != nil {
		return nil, errors.WrapInternal("failed to list layers", err)
	}
	if layers == nil {
		layers = []Layer{}
	}
	return layers, nil
}

func (s *Service) Create(ctx context.Context, sectorID string, input LayerInput) (*Layer, error) {
	logger := s.logger.With("component", "layer_service", "operation", "create", "sector_id", sectorID)

	l := Layer{
		ID:          s.newID(),
		SectorID:    sectorID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		IsHidden:    input.IsHidden,
		Regions:     map[string]Region{},
	}
	if err := l.validate(); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, l)
	if err != nil {
		return nil, errors.WrapInternal("failed to create layer", err)
	}

	logger.Info("Layer created", "layer_id", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, sectorID, layerID string, patch LayerPatch) (*Layer, error) {
	current, err := s.get(ctx, sectorID, layerID)
	if err != nil {
		return nil, err
	}

	next := current.Apply(patch)
	if err := next.validate(); err != nil {
		return nil, err
	}
	return s.save(ctx, next)
}

func (s *Service) Delete(ctx context.Context, sectorID, layerID string) error {
	logger := s.logger.With("component", "layer_service", "operation", "delete", "sector_id", sectorID, "layer_id", layerID)

	if _, err := s.get(ctx, sectorID, layerID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, layerID); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return errors.NotFoundf("layer not found with id: %s", layerID)
		}
		return errors.WrapInternal("failed to delete layer", err)
	}

	logger.Info("Layer deleted")
	return nil
}

// AddRegion creates a region on a layer and returns its id.
func (s *Service) AddRegion(ctx context.Context, sectorID, layerID string, input RegionInput) (string, *Layer, error) {
	current, err := s.get(ctx, sectorID, layerID)
	if err != nil {
		return "", nil, err
	}

	region := Region{
		Name:     strings.TrimSpace(input.Name),
		Color:    input.Color,
		IsHidden: input.IsHidden,
		Hexes:    input.Hexes,
	}
	if region.Color == "" {
		region.Color = DefaultColor
	}
	if region.Hexes == nil {
		region.Hexes = []string{}
	}
	if err := region.validate(); err != nil {
		return "", nil, err
	}

	regionID := s.newID()
	saved, err := s.save(ctx, current.WithRegion(regionID, region))
	if err != nil {
		return "", nil, err
	}
	return regionID, saved, nil
}

func (s *Service) UpdateRegion(ctx context.Context, sectorID, layerID, regionID string, patch RegionPatch) (*Layer, error) {
	current, err := s.get(ctx, sectorID, layerID)
	if err != nil {
		return nil, err
	}

	next, ok := current.UpdateRegion(regionID, patch)
	if !ok {
		return nil, errors.NotFoundf("region not found with id: %s", regionID)
	}
	if err := next.Regions[regionID].validate(); err != nil {
		return nil, err
	}
	return s.save(ctx, next)
}

func (s *Service) RemoveRegion(ctx context.Context, sectorID, layerID, regionID string) (*Layer, error) {
	current, err := s.get(ctx, sectorID, layerID)
	if err != nil {
		return nil, err
	}
	if _, ok := current.Regions[regionID]; !ok {
		return nil, errors.NotFoundf("region not found with id: %s", regionID)
	}
	return s.save(ctx, current.WithoutRegion(regionID))
}

// get loads a layer and checks it belongs to sectorID.
func (s *Service) get(ctx context.Context, sectorID, layerID string) (Layer, error) {
	l, err := s.store.Get(ctx, layerID)
	if stderrors.Is(err, ErrNotFound) || (err == nil && l.SectorID != sectorID) {
		return Layer{}, errors.NotFoundf("layer not found with id: %s", layerID)
	}
	if err != nil {
		return Layer{}, errors.WrapInternal("failed to load layer", err)
	}
	return *l, nil
}

func (s *Service) save(ctx context.Context, l Layer) (*Layer, error) {
	updated, err := s.store.Update(ctx, l)
	if stderrors.Is(err, ErrNotFound) {
		return nil, errors.NotFoundf("layer not found with id: %s", l.ID)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to update layer", err)
	}
	return updated, nil
}
