package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sectors-server/internal/shared/response"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Database   string `json:"database"`
	Cache      string `json:"cache"`
	LocalStore string `json:"localStore"`
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
	local Pinger
}

// NewHealthHandler reports on the given stores. A nil cache means the
// in-memory generated-sector cache is in use.
func NewHealthHandler(db, cache, local Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, local: local}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Database:   ping(ctx, logger, "database", h.db),
		Cache:      "memory",
		LocalStore: ping(ctx, logger, "local_store", h.local),
	}
	if h.cache != nil {
		resp.Cache = ping(ctx, logger, "cache", h.cache)
	}

	status := http.StatusOK
	if resp.Database != "connected" || resp.LocalStore != "connected" || resp.Cache == "disconnected" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	response.Success(w, status, resp)
}

func ping(ctx context.Context, logger *slog.Logger, name string, p Pinger) string {
	if err := p.PingContext(ctx); err != nil {
		logger.Warn("Health check failed", "dependency", name, "error", err)
		return "disconnected"
	}
	return "connected"
}
