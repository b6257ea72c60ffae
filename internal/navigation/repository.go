package navigation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sectors-server/internal/shared/database"
)

// RouteStore persists the routes of synced sectors.
type RouteStore interface {
	ListBySector(ctx context.Context, sectorID string) (map[string]Route, error)
	Save(ctx context.Context, sectorID, routeID string, route Route) error
	Delete(ctx context.Context, sectorID, routeID string) (bool, error)
	SetHidden(ctx context.Context, sectorID, routeID string, hidden bool) (bool, error)
}

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing navigation repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) ListBySector(ctx context.Context, sectorID string) (map[string]Route, error) {
	logger := r.logger.With("component", "navigation_repository", "operation", "list_by_sector", "sector_id", sectorID)
	logger.Debug("Listing routes")

	query := `
		SELECT id, locations, color, width, type, is_hidden
		FROM routes
		WHERE sector_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, sectorID)
	if err != nil {
		logger.Error("Failed to query routes", "error", err)
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	routes := make(map[string]Route)
	for rows.Next() {
		var (
			id        string
			locations []byte
			route     Route
		)
		if err := rows.Scan(&id, &locations, &route.Color, &route.Width, &route.Type, &route.IsHidden); err != nil {
			logger.Error("Failed to scan route row", "error", err)
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		if err := json.Unmarshal(locations, &route.Route); err != nil {
			logger.Error("Failed to decode route locations", "route_id", id, "error", err)
			return nil, fmt.Errorf("failed to decode route %s: %w", id, err)
		}
		routes[id] = route
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating routes: %w", err)
	}

	logger.Debug("Routes retrieved", "count", len(routes))
	return routes, nil
}

func (r *Repository) Save(ctx context.Context, sectorID, routeID string, route Route) error {
	logger := r.logger.With("component", "navigation_repository", "operation", "save", "sector_id", sectorID, "route_id", routeID)
	logger.Debug("Saving route")

	locations, err := json.Marshal(route.Route)
	if err != nil {
		return fmt.Errorf("failed to encode route locations: %w", err)
	}

	query := `
		INSERT INTO routes (id, sector_id, locations, color, width, type, is_hidden)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			locations = EXCLUDED.locations,
			color = EXCLUDED.color,
			width = EXCLUDED.width,
			type = EXCLUDED.type,
			is_hidden = EXCLUDED.is_hidden,
			updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, routeID, sectorID, locations, route.Color, route.Width, route.Type, route.IsHidden); err != nil {
		logger.Error("Failed to save route", "error", err)
		return fmt.Errorf("failed to save route: %w", err)
	}

	logger.Debug("Route saved")
	return nil
}

func (r *Repository) Delete(ctx context.Context, sectorID, routeID string) (bool, error) {
	logger := r.logger.With("component", "navigation_repository", "operation", "delete", "sector_id", sectorID, "route_id", routeID)
	logger.Debug("Deleting route")

	result, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = $1 AND sector_id = $2`, routeID, sectorID)
	if err != nil {
		logger.Error("Failed to delete route", "error", err)
		return false, fmt.Errorf("failed to delete route: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	logger.Debug("Route delete finished", "deleted", affected > 0)
	return affected > 0, nil
}

func (r *Repository) SetHidden(ctx context.Context, sectorID, routeID string, hidden bool) (bool, error) {
	logger := r.logger.With("component", "navigation_repository", "operation", "set_hidden", "sector_id", sectorID, "route_id", routeID)
	logger.Debug("Updating route visibility", "hidden", hidden)

	result, err := r.db.ExecContext(ctx,
		`UPDATE routes SET is_hidden = $1, updated_at = NOW() WHERE id = $2 AND sector_id = $3`,
		hidden, routeID, sectorID,
	)
	if err != nil {
		logger.Error("Failed to update route visibility", "error", err)
		return false, fmt.Errorf("failed to update route visibility: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
