package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"sectors-server/internal/shared/config"

	_ "github.com/lib/pq"
)

const connectTimeout = 10 * time.Second

// DB is the Postgres pool holding synced sectors, layers, routes and users.
type DB struct {
	*sql.DB
}

type Tx struct {
	*sql.Tx
}

// Executor is satisfied by both *DB and *Tx so repository queries can run
// inside or outside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) BeginTxContext(ctx context.Context) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx}, nil
}

// Connect opens the pool described by the global database config and waits
// for the first ping, bounded by connectTimeout.
func Connect(ctx context.Context) (*DB, error) {
	cfg := config.GlobalConfig
	dbCfg := cfg.Database
	logger := slog.With(
		"component", "database",
		"operation", "connect",
		"host", dbCfg.Host,
		"database", dbCfg.Name,
	)

	logger.Info("Connecting to database",
		"port", dbCfg.Port,
		"user", dbCfg.User,
		"sslmode", dbCfg.SSLMode,
		"max_open_conns", dbCfg.MaxOpenConns,
		"max_idle_conns", dbCfg.MaxIdleConns,
	)

	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		logger.Error("Failed to open database connection", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Error("Failed to close database after ping failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return &DB{sqlDB}, nil
}
