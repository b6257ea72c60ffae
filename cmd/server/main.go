package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sectors-server/internal/auth"
	"sectors-server/internal/entity"
	"sectors-server/internal/layer"
	"sectors-server/internal/middleware"
	"sectors-server/internal/navigation"
	"sectors-server/internal/sector"
	"sectors-server/internal/server"
	serverHandlers "sectors-server/internal/server/handlers"
	"sectors-server/internal/shared/config"
	"sectors-server/internal/shared/database"
	"sectors-server/internal/shared/logger"
	"sectors-server/internal/shared/redis"
	"sectors-server/internal/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(ctx, cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis", "error", err)
		}
	}()

	var (
		cache       sector.GeneratedCache
		cachePinger serverHandlers.Pinger
	)
	if redisClient != nil {
		cache = sector.NewRedisCache(redisClient.Client, cfg.Sector.GeneratedTTL, slog.Default())
		cachePinger = redisClient
	} else {
		cache = sector.NewMemoryCache(cfg.Sector.GeneratedTTL)
	}

	localStore, err := sector.OpenLocalStore(cfg.Local.Path, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open local sector store: %w", err)
	}
	defer func() {
		if err := localStore.Close(); err != nil {
			log.Error("Failed to close local sector store", "error", err)
		}
	}()

	registry := entity.NewRegistry()

	navigationService := navigation.NewService(navigation.NewRepository(db, slog.Default()), slog.Default())
	layerService := layer.NewService(layer.NewRepository(db, slog.Default()), slog.Default())
	sectorService := sector.NewService(
		sector.NewRepository(db, slog.Default()),
		localStore,
		cache,
		registry,
		cfg.Sector.Limit,
		slog.Default(),
		sector.WithDefaultSize(cfg.Sector.DefaultRows, cfg.Sector.DefaultColumns),
		sector.WithDeleteHook(navigationService.Forget),
	)
	userService := user.NewService(user.NewRepository(db, slog.Default()), slog.Default())
	authService := auth.NewService(auth.NewRepository(db), slog.Default())

	go auth.StartStateCleanup(ctx)

	routes := &server.Routes{
		Health:            serverHandlers.NewHealthHandler(db, cachePinger, localStore),
		Registry:          registry,
		SectorService:     sectorService,
		LayerService:      layerService,
		NavigationService: navigationService,
		UserService:       userService,
		AuthService:       authService,
		OAuthConfig:       auth.InitOAuth(),
		Logger:            slog.Default(),
	}

	rateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.RateLimit.TrustProxy,
	})
	cors := middleware.NewCORS(cfg.Frontend)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      cors.Middleware(rateLimiter.Middleware(routes.Setup())),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Sectors server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"redis_cache", redisClient != nil)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
