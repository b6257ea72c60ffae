package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"sectors-server/internal/shared/database"

	"github.com/lib/pq"
)

// Store persists users.
type Store interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u NewUser) (*User, error)
}

const uniqueViolation = "23505"

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing user repository")
	return &Repository{db: db, logger: logger}
}

const userColumns = `id, username, email, display_name, avatar_url, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("Failed to get user", "component", "user_repository", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("Failed to get user by email", "component", "user_repository", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, err
}

// Create inserts a user. A clash on the username returns ErrUsernameTaken.
func (r *Repository) Create(ctx context.Context, nu NewUser) (*User, error) {
	logger := r.logger.With("component", "user_repository", "operation", "create", "username", nu.Username)

	u, err := scanUser(r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, display_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		nu.Username, nu.Email, nu.DisplayName, nu.AvatarURL,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "users_username_key" {
			return nil, ErrUsernameTaken
		}
		logger.Error("Failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created", "user_id", u.ID)
	return u, nil
}
