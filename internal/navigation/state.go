// Package navigation manages the routes drawn between hexes of a sector.
//
// # State transitions
//
// All changes to navigation State go through Reduce, which never mutates its
// input: every transition returns a new State sharing no maps or slices with
// the old one. Unknown actions return the state unchanged.
//
// # Sync lock
//
// SyncLock is set while a route change is being written to storage. Route
// completion and deletion release it; a visibility toggle sets it and the
// caller releases it once the write succeeds.
package navigation

import "slices"

const (
	DefaultColor = "#dbdbdb"
	DefaultWidth = "normal"
	DefaultType  = "solid"
)

type Settings struct {
	Route           []string `json:"route"`
	IsCreatingRoute bool     `json:"isCreatingRoute"`
	Color           string   `json:"color"`
	Width           string   `json:"width"`
	Type            string   `json:"type"`
}

type Route struct {
	Route    []string `json:"route"`
	Color    string   `json:"color"`
	Width    string   `json:"width"`
	Type     string   `json:"type"`
	IsHidden bool     `json:"isHidden"`
}

type State struct {
	Settings   Settings                    `json:"settings"`
	Routes     map[string]map[string]Route `json:"routes"`
	Fetched    []string                    `json:"fetched"`
	IsHelpOpen bool                        `json:"isHelpOpen"`
	SyncLock   bool                        `json:"syncLock"`
}

func InitialSettings() Settings {
	return Settings{
		Route: []string{},
		Color: DefaultColor,
		Width: DefaultWidth,
		Type:  DefaultType,
	}
}

func InitialState() State {
	return State{
		Settings: InitialSettings(),
		Routes:   map[string]map[string]Route{},
		Fetched:  []string{},
	}
}

// ToRoute returns the route described by the draft settings.
func (s Settings) ToRoute() Route {
	return Route{
		Route: slices.Clone(s.Route),
		Color: s.Color,
		Width: s.Width,
		Type:  s.Type,
	}
}

type ActionType string

const (
	ActionInitialize         ActionType = "INITIALIZE"
	ActionFetchedNavigation  ActionType = "FETCHED_NAVIGATION"
	ActionSetSyncLock        ActionType = "SET_SYNC_LOCK"
	ActionReleaseSyncLock    ActionType = "RELEASE_SYNC_LOCK"
	ActionOpenedHelp         ActionType = "OPENED_HELP"
	ActionResetNavSettings   ActionType = "RESET_NAV_SETTINGS"
	ActionUpdatedNavSettings ActionType = "UPDATED_NAV_SETTINGS"
	ActionAddedRouteLocation ActionType = "ADDED_ROUTE_LOCATION"
	ActionCompletedRoute     ActionType = "COMPLETED_ROUTE"
	ActionDeletedRoute       ActionType = "DELETED_ROUTE"
	ActionToggledVisibility  ActionType = "TOGGLED_VISIBILITY"
)

// Action is a state transition request. Only the fields relevant to Type
// are read.
type Action struct {
	Type     ActionType
	SectorID string
	Routes   map[string]Route
	Key      string
	Value    any
	Location string
	Route    Route
	RouteID  string
	IsHidden bool
}

func Fetched(sectorID string, routes map[string]Route) Action {
	return Action{Type: ActionFetchedNavigation, SectorID: sectorID, Routes: routes}
}

func SetSyncLock() Action     { return Action{Type: ActionSetSyncLock} }
func ReleaseSyncLock() Action { return Action{Type: ActionReleaseSyncLock} }
func OpenedHelp() Action      { return Action{Type: ActionOpenedHelp} }
func ResetSettings() Action   { return Action{Type: ActionResetNavSettings} }

func UpdatedSetting(key string, value any) Action {
	return Action{Type: ActionUpdatedNavSettings, Key: key, Value: value}
}

func AddedRouteLocation(location string) Action {
	return Action{Type: ActionAddedRouteLocation, Location: location}
}

func CompletedRoute(sectorID, key string, route Route) Action {
	return Action{Type: ActionCompletedRoute, SectorID: sectorID, Key: key, Route: route}
}

func DeletedRoute(sectorID, routeID string) Action {
	return Action{Type: ActionDeletedRoute, SectorID: sectorID, RouteID: routeID}
}

func ToggledVisibility(sectorID, routeID string, isHidden bool) Action {
	return Action{Type: ActionToggledVisibility, SectorID: sectorID, RouteID: routeID, IsHidden: isHidden}
}

// Reduce returns the state that follows state after action.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionInitialize, ActionFetchedNavigation:
		next := state.clone()
		next.Routes = map[string]map[string]Route{
			action.SectorID: cloneRoutes(action.Routes),
		}
		next.Fetched = appendUnique(state.Fetched, action.SectorID)
		return next

	case ActionSetSyncLock:
		next := state.clone()
		next.SyncLock = true
		return next

	case ActionReleaseSyncLock:
		next := state.clone()
		next.SyncLock = false
		return next

	case ActionOpenedHelp:
		next := state.clone()
		next.IsHelpOpen = true
		return next

	case ActionResetNavSettings:
		next := state.clone()
		next.Settings = InitialSettings()
		return next

	case ActionUpdatedNavSettings:
		next := state.clone()
		next.Settings = applySetting(next.Settings, action.Key, action.Value)
		return next

	case ActionAddedRouteLocation:
		next := state.clone()
		next.Settings.Route = append(next.Settings.Route, action.Location)
		return next

	case ActionCompletedRoute:
		next := state.clone()
		next.Settings.Route = []string{}
		next.Settings.IsCreatingRoute = false
		sector := next.Routes[action.SectorID]
		if sector == nil {
			sector = map[string]Route{}
			next.Routes[action.SectorID] = sector
		}
		sector[action.Key] = cloneRoute(action.Route)
		next.SyncLock = false
		return next

	case ActionDeletedRoute:
		next := state.clone()
		if sector, ok := next.Routes[action.SectorID]; ok {
			delete(sector, action.RouteID)
		} else {
			next.Routes[action.SectorID] = map[string]Route{}
		}
		next.SyncLock = false
		return next

	case ActionToggledVisibility:
		route, ok := state.Routes[action.SectorID][action.RouteID]
		if !ok {
			return state
		}
		next := state.clone()
		route.IsHidden = action.IsHidden
		next.Routes[action.SectorID][action.RouteID] = route
		next.SyncLock = true
		return next

	default:
		return state
	}
}

func applySetting(s Settings, key string, value any) Settings {
	switch key {
	case "color":
		if v, ok := value.(string); ok {
			s.Color = v
		}
	case "width":
		if v, ok := value.(string); ok {
			s.Width = v
		}
	case "type":
		if v, ok := value.(string); ok {
			s.Type = v
		}
	case "isCreatingRoute":
		if v, ok := value.(bool); ok {
			s.IsCreatingRoute = v
		}
	case "route":
		if v, ok := value.([]string); ok {
			s.Route = slices.Clone(v)
		}
	}
	return s
}

// appendUnique appends id to fetched unless present, dropping empty ids.
func appendUnique(fetched []string, id string) []string {
	out := make([]string, 0, len(fetched)+1)
	for _, f := range append(slices.Clone(fetched), id) {
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (s State) clone() State {
	next := s
	next.Settings.Route = slices.Clone(s.Settings.Route)
	if next.Settings.Route == nil {
		next.Settings.Route = []string{}
	}
	next.Fetched = slices.Clone(s.Fetched)
	next.Routes = make(map[string]map[string]Route, len(s.Routes))
	for sectorID, routes := range s.Routes {
		next.Routes[sectorID] = cloneRoutes(routes)
	}
	return next
}

func cloneRoutes(routes map[string]Route) map[string]Route {
	out := make(map[string]Route, len(routes))
	for id, r := range routes {
		out[id] = cloneRoute(r)
	}
	return out
}

func cloneRoute(r Route) Route {
	r.Route = slices.Clone(r.Route)
	return r
}
