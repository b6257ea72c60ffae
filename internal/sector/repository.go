package sector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"sectors-server/internal/entity"
	"sectors-server/internal/shared/database"
)

// SyncedStore holds the sectors of signed-in users.
type SyncedStore interface {
	Create(ctx context.Context, s Sector, limit int) (*Sector, error)
	Update(ctx context.Context, s Sector) (*Sector, error)
	Get(ctx context.Context, id string) (*Sector, error)
	ListByUser(ctx context.Context, userID int) ([]Sector, error)
	Delete(ctx context.Context, id string) error
}

// Repository is the Postgres SyncedStore.
type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing sector repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const sectorColumns = `id, user_id, name, row_count, column_count, seed, entities, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSector(row rowScanner) (*Sector, error) {
	var (
		s        Sector
		userID   sql.NullInt64
		entities []byte
	)
	err := row.Scan(
		&s.ID,
		&userID,
		&s.Name,
		&s.Rows,
		&s.Columns,
		&s.Seed,
		&entities,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		id := int(userID.Int64)
		s.UserID = &id
	}
	s.Entities = entity.Collection{}
	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &s.Entities); err != nil {
			return nil, fmt.Errorf("failed to decode entities of sector %s: %w", s.ID, err)
		}
	}
	s.Status = StatusSynced
	return &s, nil
}

// Create inserts a sector. When limit is positive and the owner already has
// limit sectors, ErrLimitReached is returned. The count and the insert share
// a transaction holding the owner's row lock.
func (r *Repository) Create(ctx context.Context, s Sector, limit int) (*Sector, error) {
	logger := r.logger.With("component", "sector_repository", "operation", "create", "sector_id", s.ID)
	logger.Debug("Creating sector")

	entities, err := json.Marshal(s.Entities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entities: %w", err)
	}

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "error", err)
		return nil, err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if s.UserID != nil && limit > 0 {
		if _, err := tx.ExecContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, *s.UserID); err != nil {
			logger.Error("Failed to lock user row", "error", err)
			return nil, fmt.Errorf("failed to lock user: %w", err)
		}

		count, err := r.countByUser(ctx, tx, *s.UserID)
		if err != nil {
			return nil, err
		}
		if count >= limit {
			logger.Debug("Sector limit reached", "count", count, "limit", limit)
			return nil, ErrLimitReached
		}
	}

	query := `
		INSERT INTO sectors (id, user_id, name, row_count, column_count, seed, entities)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + sectorColumns

	created, err := scanSector(r.getExecutor(tx).QueryRowContext(ctx, query, s.ID, s.UserID, s.Name, s.Rows, s.Columns, s.Seed, entities))
	if err != nil {
		logger.Error("Failed to create sector", "error", err)
		return nil, fmt.Errorf("failed to create sector: %w", err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit sector", "error", err)
		return nil, fmt.Errorf("failed to commit sector: %w", err)
	}

	logger.Debug("Sector created successfully")
	return created, nil
}

func (r *Repository) Update(ctx context.Context, s Sector) (*Sector, error) {
	logger := r.logger.With("component", "sector_repository", "operation", "update", "sector_id", s.ID)
	logger.Debug("Updating sector")

	entities, err := json.Marshal(s.Entities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entities: %w", err)
	}

	query := `
		UPDATE sectors
		SET name = $2, entities = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sectorColumns

	updated, err := scanSector(r.db.QueryRowContext(ctx, query, s.ID, s.Name, entities))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to update sector", "error", err)
		return nil, fmt.Errorf("failed to update sector: %w", err)
	}

	logger.Debug("Sector updated successfully")
	return updated, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Sector, error) {
	logger := r.logger.With("component", "sector_repository", "operation", "get", "sector_id", id)
	logger.Debug("Getting sector")

	s, err := scanSector(r.db.QueryRowContext(ctx, `SELECT `+sectorColumns+` FROM sectors WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to get sector", "error", err)
		return nil, fmt.Errorf("failed to get sector: %w", err)
	}
	return s, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]Sector, error) {
	logger := r.logger.With("component", "sector_repository", "operation", "list_by_user", "user_id", userID)
	logger.Debug("Listing sectors")

	rows, err := r.db.QueryContext(ctx, `SELECT `+sectorColumns+` FROM sectors WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		logger.Error("Failed to query sectors", "error", err)
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var sectors []Sector
	for rows.Next() {
		s, err := scanSector(rows)
		if err != nil {
			logger.Error("Failed to scan sector row", "error", err)
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, *s)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating sectors: %w", err)
	}

	logger.Debug("Sectors retrieved", "count", len(sectors))
	return sectors, nil
}

func (r *Repository) countByUser(ctx context.Context, tx *database.Tx, userID int) (int, error) {
	var count int
	if err := r.getExecutor(tx).QueryRowContext(ctx, `SELECT COUNT(*) FROM sectors WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sectors: %w", err)
	}
	return count, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	logger := r.logger.With("component", "sector_repository", "operation", "delete", "sector_id", id)
	logger.Debug("Deleting sector")

	result, err := r.db.ExecContext(ctx, `DELETE FROM sectors WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete sector", "error", err)
		return fmt.Errorf("failed to delete sector: %w", err)
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
