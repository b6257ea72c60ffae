package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"sectors-server/internal/shared/errors"
	"sectors-server/internal/shared/response"
)

// OwnerChecker fails unless userID owns the synced sector.
type OwnerChecker interface {
	CheckOwner(ctx context.Context, sectorID string, userID int) error
}

// SectorAccessMiddleware restricts a route under /api/sectors/{id} to the
// owner of that sector.
type SectorAccessMiddleware struct {
	owners OwnerChecker
}

func NewSectorAccessMiddleware(owners OwnerChecker) *SectorAccessMiddleware {
	return &SectorAccessMiddleware{owners: owners}
}

func (m *SectorAccessMiddleware) Require(next http.Handler) http.Handler {
	return JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "sector_access",
			"method", r.Method,
			"path", r.URL.Path,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		sectorID := r.PathValue("id")
		if sectorID == "" {
			response.Error(w, r, logger, errors.Validation("sector ID is required"))
			return
		}

		if err := m.owners.CheckOwner(r.Context(), sectorID, claims.UserID); err != nil {
			response.Error(w, r, logger, err)
			return
		}

		next.ServeHTTP(w, r)
	}))
}
