package sector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sectors-server/internal/entity"
	"sectors-server/internal/sector/localmigrations"
	"sectors-server/internal/shared/database"
)

// LocalStorage holds sectors saved without an account.
type LocalStorage interface {
	Put(ctx context.Context, s Sector) (*Sector, error)
	Get(ctx context.Context, id string) (*Sector, error)
	// List returns the sectors saved by the browser holding owner.
	List(ctx context.Context, owner string) ([]Sector, error)
	Delete(ctx context.Context, id string) error
}

// LocalStore is the SQLite LocalStorage.
type LocalStore struct {
	db     *sql.DB
	now    func() time.Time
	logger *slog.Logger
}

// OpenLocalStore opens the SQLite database at path and brings its schema up
// to date.
func OpenLocalStore(path string, logger *slog.Logger) (*LocalStore, error) {
	db, err := database.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := database.ApplySQLiteMigrations(db, localmigrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run local store migrations: %w", err)
	}

	logger.Info("Local sector store ready", "path", path)
	return &LocalStore{db: db, now: time.Now, logger: logger}, nil
}

func (l *LocalStore) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *LocalStore) PingContext(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// Put inserts or replaces a sector, keeping its original creation time and
// owner.
func (l *LocalStore) Put(ctx context.Context, s Sector) (*Sector, error) {
	logger := l.logger.With("component", "local_store", "operation", "put", "sector_id", s.ID)
	logger.Debug("Saving local sector")

	entities, err := json.Marshal(s.Entities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entities: %w", err)
	}

	now := l.now().UTC().UnixMilli()
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO local_sectors (id, owner, name, row_count, column_count, seed, entities, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			entities = excluded.entities,
			updated_at = excluded.updated_at`,
		s.ID, s.OwnerToken, s.Name, s.Rows, s.Columns, s.Seed, string(entities), now, now,
	)
	if err != nil {
		logger.Error("Failed to save local sector", "error", err)
		return nil, fmt.Errorf("failed to save local sector: %w", err)
	}

	return l.Get(ctx, s.ID)
}

const localColumns = `id, owner, name, row_count, column_count, seed, entities, created_at, updated_at`

func scanLocal(row rowScanner) (*Sector, error) {
	var (
		s                Sector
		entities         string
		created, updated int64
	)
	if err := row.Scan(&s.ID, &s.OwnerToken, &s.Name, &s.Rows, &s.Columns, &s.Seed, &entities, &created, &updated); err != nil {
		return nil, err
	}

	s.Entities = entity.Collection{}
	if err := json.Unmarshal([]byte(entities), &s.Entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities of sector %s: %w", s.ID, err)
	}
	s.CreatedAt = time.UnixMilli(created).UTC()
	s.UpdatedAt = time.UnixMilli(updated).UTC()
	s.Status = StatusLocal
	return &s, nil
}

func (l *LocalStore) Get(ctx context.Context, id string) (*Sector, error) {
	s, err := scanLocal(l.db.QueryRowContext(ctx, `SELECT `+localColumns+` FROM local_sectors WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		l.logger.Error("Failed to get local sector", "component", "local_store", "sector_id", id, "error", err)
		return nil, fmt.Errorf("failed to get local sector: %w", err)
	}
	return s, nil
}

func (l *LocalStore) List(ctx context.Context, owner string) ([]Sector, error) {
	logger := l.logger.With("component", "local_store", "operation", "list")

	rows, err := l.db.QueryContext(ctx, `SELECT `+localColumns+` FROM local_sectors WHERE owner = ? ORDER BY updated_at DESC, id`, owner)
	if err != nil {
		logger.Error("Failed to query local sectors", "error", err)
		return nil, fmt.Errorf("failed to query local sectors: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var sectors []Sector
	for rows.Next() {
		s, err := scanLocal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan local sector: %w", err)
		}
		sectors = append(sectors, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating local sectors: %w", err)
	}
	return sectors, nil
}

func (l *LocalStore) Delete(ctx context.Context, id string) error {
	result, err := l.db.ExecContext(ctx, `DELETE FROM local_sectors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete local sector: %w", err)
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
