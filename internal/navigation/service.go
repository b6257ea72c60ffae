package navigation

import (
	"context"
	"log/slog"
	"sync"

	"sectors-server/internal/generator"
	"sectors-server/internal/shared/errors"

	"github.com/google/uuid"
)

// RouteDraft is a route as submitted by a client.
type RouteDraft struct {
	Route []string `json:"route"`
	Color string   `json:"color,omitempty"`
	Width string   `json:"width,omitempty"`
	Type  string   `json:"type,omitempty"`
}

// Service keeps one navigation State per sector and writes route changes
// through to the store. A sector whose SyncLock is held rejects further
// writes until the pending one finishes.
type Service struct {
	store  RouteStore
	newID  func() string
	logger *slog.Logger

	mu     sync.Mutex
	states map[string]State
}

func NewService(store RouteStore, logger *slog.Logger) *Service {
	logger.Debug("Initializing navigation service")

	return &Service{
		store:  store,
		newID:  uuid.NewString,
		logger: logger,
		states: make(map[string]State),
	}
}

// Routes loads the routes of a sector from the store.
func (s *Service) Routes(ctx context.Context, sectorID string) (map[string]Route, error) {
	logger := s.logger.With("component", "navigation_service", "operation", "routes", "sector_id", sectorID)
	logger.Debug("Fetching routes")

	routes, err := s.store.ListBySector(ctx, sectorID)
	if err != nil {
		return nil, errors.WrapInternal("failed to load routes", err)
	}

	state := s.dispatch(sectorID, Fetched(sectorID, routes))
	return cloneRoutes(state.Routes[sectorID]), nil
}

// CompleteRoute draws draft onto the sector and stores it under a new id.
func (s *Service) CompleteRoute(ctx context.Context, sectorID string, draft RouteDraft) (string, Route, error) {
	logger := s.logger.With("component", "navigation_service", "operation", "complete_route", "sector_id", sectorID)

	if len(draft.Route) < 2 {
		return "", Route{}, errors.Validation("a route needs at least two locations")
	}
	for _, location := range draft.Route {
		if _, err := generator.ParseHex(location); err != nil {
			return "", Route{}, errors.WrapValidation("invalid route location", err)
		}
	}

	if err := s.ensureLoaded(ctx, sectorID); err != nil {
		return "", Route{}, err
	}

	actions := []Action{ResetSettings(), UpdatedSetting("isCreatingRoute", true)}
	if draft.Color != "" {
		actions = append(actions, UpdatedSetting("color", draft.Color))
	}
	if draft.Width != "" {
		actions = append(actions, UpdatedSetting("width", draft.Width))
	}
	if draft.Type != "" {
		actions = append(actions, UpdatedSetting("type", draft.Type))
	}
	for _, location := range draft.Route {
		actions = append(actions, AddedRouteLocation(location))
	}

	state, err := s.lock(sectorID, actions...)
	if err != nil {
		return "", Route{}, err
	}

	routeID := s.newID()
	route := state.Settings.ToRoute()

	if err := s.store.Save(ctx, sectorID, routeID, route); err != nil {
		s.dispatch(sectorID, ReleaseSyncLock())
		return "", Route{}, errors.WrapInternal("failed to save route", err)
	}

	s.dispatch(sectorID, CompletedRoute(sectorID, routeID, route))
	logger.Info("Route completed", "route_id", routeID, "locations", len(route.Route))
	return routeID, route, nil
}

func (s *Service) DeleteRoute(ctx context.Context, sectorID, routeID string) error {
	logger := s.logger.With("component", "navigation_service", "operation", "delete_route", "sector_id", sectorID, "route_id", routeID)

	if err := s.ensureLoaded(ctx, sectorID); err != nil {
		return err
	}
	if _, err := s.lock(sectorID); err != nil {
		return err
	}

	deleted, err := s.store.Delete(ctx, sectorID, routeID)
	if err != nil {
		s.dispatch(sectorID, ReleaseSyncLock())
		return errors.WrapInternal("failed to delete route", err)
	}
	if !deleted {
		s.dispatch(sectorID, ReleaseSyncLock())
		return errors.NotFoundf("route not found with id: %s", routeID)
	}

	s.dispatch(sectorID, DeletedRoute(sectorID, routeID))
	logger.Info("Route deleted")
	return nil
}

// SetVisibility hides or shows a route. The local state is rolled back if
// the write fails.
func (s *Service) SetVisibility(ctx context.Context, sectorID, routeID string, hidden bool) (Route, error) {
	logger := s.logger.With("component", "navigation_service", "operation", "set_visibility", "sector_id", sectorID, "route_id", routeID)

	if err := s.ensureLoaded(ctx, sectorID); err != nil {
		return Route{}, err
	}

	s.mu.Lock()
	state := s.stateLocked(sectorID)
	previous, ok := state.Routes[sectorID][routeID]
	if !ok {
		s.mu.Unlock()
		return Route{}, errors.NotFoundf("route not found with id: %s", routeID)
	}
	if state.SyncLock {
		s.mu.Unlock()
		return Route{}, errors.Conflictf("sector %s has a pending route change", sectorID)
	}
	state = Reduce(state, ToggledVisibility(sectorID, routeID, hidden))
	s.states[sectorID] = state
	s.mu.Unlock()

	found, err := s.store.SetHidden(ctx, sectorID, routeID, hidden)
	if err != nil || !found {
		s.dispatch(sectorID, ToggledVisibility(sectorID, routeID, previous.IsHidden), ReleaseSyncLock())
		if err != nil {
			return Route{}, errors.WrapInternal("failed to update route visibility", err)
		}
		return Route{}, errors.NotFoundf("route not found with id: %s", routeID)
	}

	state = s.dispatch(sectorID, ReleaseSyncLock())
	logger.Info("Route visibility updated", "hidden", hidden)
	return cloneRoute(state.Routes[sectorID][routeID]), nil
}

// Forget drops the cached state of a sector, after the sector is deleted.
func (s *Service) Forget(sectorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sectorID)
}

func (s *Service) ensureLoaded(ctx context.Context, sectorID string) error {
	s.mu.Lock()
	_, ok := s.states[sectorID]
	s.mu.Unlock()
	if ok {
		return nil
	}
	_, err := s.Routes(ctx, sectorID)
	return err
}

// lock applies actions and takes the sync lock, failing if it is held.
func (s *Service) lock(sectorID string, actions ...Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.stateLocked(sectorID)
	if state.SyncLock {
		return state, errors.Conflictf("sector %s has a pending route change", sectorID)
	}
	for _, action := range actions {
		state = Reduce(state, action)
	}
	state = Reduce(state, SetSyncLock())
	s.states[sectorID] = state
	return state, nil
}

func (s *Service) dispatch(sectorID string, actions ...Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.stateLocked(sectorID)
	for _, action := range actions {
		state = Reduce(state, action)
	}
	s.states[sectorID] = state
	return state
}

func (s *Service) stateLocked(sectorID string) State {
	state, ok := s.states[sectorID]
	if !ok {
		state = InitialState()
	}
	return state
}
