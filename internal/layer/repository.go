package layer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"sectors-server/internal/shared/database"
)

// ErrNotFound is returned by stores when a layer does not exist.
var ErrNotFound = errors.New("layer not found")

type Store interface {
	Create(ctx context.Context, l Layer) (*Layer, error)
	Get(ctx context.Context, id string) (*Layer, error)
	ListBySector(ctx context.Context, sectorID string) ([]Layer, error)
	Update(ctx context.Context, l Layer) (*Layer, error)
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing layer repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

const layerColumns = `id, sector_id, name, description, is_hidden, regions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLayer(row rowScanner) (*Layer, error) {
	var (
		l       Layer
		regions []byte
	)
	if err := row.Scan(&l.ID, &l.SectorID, &l.Name, &l.Description, &l.IsHidden, &regions, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Regions = make(map[string]Region)
	if len(regions) > 0 {
		if err := json.Unmarshal(regions, &l.Regions); err != nil {
			return nil, fmt.Errorf("failed to decode regions of layer %s: %w", l.ID, err)
		}
	}
	return &l, nil
}

func (r *Repository) Create(ctx context.Context, l Layer) (*Layer, error) {
	logger := r.logger.With("component", "layer_repository", "operation", "create", "sector_id", l.SectorID)
	logger.Debug("Creating layer")

	regions, err := json.Marshal(l.Regions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode regions: %w", err)
	}

	query := `
		INSERT INTO layers (id, sector_id, name, description, is_hidden, regions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + layerColumns

	created, err := scanLayer(r.db.QueryRowContext(ctx, query, l.ID, l.SectorID, l.Name, l.Description, l.IsHidden, regions))
	if err != nil {
		logger.Error("Failed to create layer", "error", err)
		return nil, fmt.Errorf("failed to create layer: %w", err)
	}

	logger.Debug("Layer created successfully", "layer_id", created.ID)
	return created, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Layer, error) {
	logger := r.logger.With("component", "layer_repository", "operation", "get", "layer_id", id)
	logger.Debug("Getting layer")

	l, err := scanLayer(r.db.QueryRowContext(ctx, `SELECT `+layerColumns+` FROM layers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to get layer", "error", err)
		return nil, fmt.Errorf("failed to get layer: %w", err)
	}
	return l, nil
}

func (r *Repository) ListBySector(ctx context.Context, sectorID string) ([]Layer, error) {
	logger := r.logger.With("component", "layer_repository", "operation", "list_by_sector", "sector_id", sectorID)
	logger.Debug("Listing layers")

	rows, err := r.db.QueryContext(ctx, `SELECT `+layerColumns+` FROM layers WHERE sector_id = $1 ORDER BY created_at, id`, sectorID)
	if err != nil {
		logger.Error("Failed to query layers", "error", err)
		return nil, fmt.Errorf("failed to query layers: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var layers []Layer
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			logger.Error("Failed to scan layer row", "error", err)
			return nil, fmt.Errorf("failed to scan layer: %w", err)
		}
		layers = append(layers, *l)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating layers: %w", err)
	}

	logger.Debug("Layers retrieved", "count", len(layers))
	return layers, nil
}

func (r *Repository) Update(ctx context.Context, l Layer) (*Layer, error) {
	logger := r.logger.With("component", "layer_repository", "operation", "update", "layer_id", l.ID)
	logger.Debug("Updating layer")

	regions, err := json.Marshal(l.Regions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode regions: %w", err)
	}

	query := `
		UPDATE layers
		SET name = $2, description = $3, is_hidden = $4, regions = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + layerColumns

	updated, err := scanLayer(r.db.QueryRowContext(ctx, query, l.ID, l.Name, l.Description, l.IsHidden, regions))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to update layer", "error", err)
		return nil, fmt.Errorf("failed to update layer: %w", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	logger := r.logger.With("component", "layer_repository", "operation", "delete", "layer_id", id)
	logger.Debug("Deleting layer")

	result, err := r.db.ExecContext(ctx, `DELETE FROM layers WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete layer", "error", err)
		return fmt.Errorf("failed to delete layer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
