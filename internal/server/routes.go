package server

import (
	"log/slog"
	"net/http"

	"sectors-server/internal/auth"
	authHandlers "sectors-server/internal/auth/handlers"
	"sectors-server/internal/entity"
	generatorHandlers "sectors-server/internal/generator/handlers"
	"sectors-server/internal/layer"
	layerHandlers "sectors-server/internal/layer/handlers"
	"sectors-server/internal/middleware"
	"sectors-server/internal/navigation"
	navigationHandlers "sectors-server/internal/navigation/handlers"
	"sectors-server/internal/sector"
	sectorHandlers "sectors-server/internal/sector/handlers"
	serverHandlers "sectors-server/internal/server/handlers"
	"sectors-server/internal/user"
	userHandlers "sectors-server/internal/user/handlers"
)

// Routes holds everything the HTTP routes are built from.
type Routes struct {
	Health            *serverHandlers.HealthHandler
	Registry          *entity.Registry
	SectorService     *sector.Service
	LayerService      *layer.Service
	NavigationService *navigation.Service
	UserService       *user.Service
	AuthService       *auth.Service
	OAuthConfig       *auth.OAuthConfig
	Logger            *slog.Logger
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	sectors := sectorHandlers.NewSectorsHandler(r.SectorService)
	entities := generatorHandlers.NewEntitiesHandler(r.Registry, r.Logger)
	layers := layerHandlers.NewLayersHandler(r.LayerService)
	routes := navigationHandlers.NewRoutesHandler(r.NavigationService)
	me := userHandlers.NewMeHandler(r.UserService)
	owner := middleware.NewSectorAccessMiddleware(r.SectorService)

	optional := func(h http.HandlerFunc) http.Handler { return middleware.OptionalJWT(middleware.LocalOwner(h)) }
	owned := func(h http.HandlerFunc) http.Handler { return owner.Require(h) }

	// Public endpoints
	mux.Handle("GET /api/server/health", r.Health)
	mux.HandleFunc("POST /api/entities/space-stations", entities.SpaceStations)
	mux.HandleFunc("GET /api/sectors/{id}", sectors.Get)
	mux.HandleFunc("GET /api/sectors/{id}/printable", sectors.Printable)
	mux.HandleFunc("GET /api/sectors/{id}/layers", layers.List)
	mux.HandleFunc("GET /api/sectors/{id}/routes", routes.List)

	// Anonymous or signed-in; generated and local sectors stay with the
	// browser's owner token
	mux.Handle("POST /api/sectors/generate", optional(sectors.Generate))
	mux.Handle("POST /api/sectors", optional(sectors.Save))
	mux.Handle("GET /api/sectors", optional(sectors.List))
	mux.Handle("DELETE /api/sectors/{id}", optional(sectors.Delete))

	// Sector owner only
	mux.Handle("POST /api/sectors/{id}/layers", owned(layers.Create))
	mux.Handle("PUT /api/sectors/{id}/layers/{layerId}", owned(layers.Update))
	mux.Handle("DELETE /api/sectors/{id}/layers/{layerId}", owned(layers.Delete))
	mux.Handle("POST /api/sectors/{id}/layers/{layerId}/regions", owned(layers.AddRegion))
	mux.Handle("PUT /api/sectors/{id}/layers/{layerId}/regions/{regionId}", owned(layers.UpdateRegion))
	mux.Handle("DELETE /api/sectors/{id}/layers/{layerId}/regions/{regionId}", owned(layers.RemoveRegion))
	mux.Handle("POST /api/sectors/{id}/routes", owned(routes.Create))
	mux.Handle("DELETE /api/sectors/{id}/routes/{routeId}", owned(routes.Delete))
	mux.Handle("PUT /api/sectors/{id}/routes/{routeId}/visibility", owned(routes.SetVisibility))

	// Protected endpoints
	mux.Handle("GET /api/me", middleware.JWTMiddleware(me))

	// OAuth endpoints
	authEndpoints := make([]string, 0, len(r.OAuthConfig.Providers)+1)
	for _, p := range r.OAuthConfig.Providers {
		h := authHandlers.NewOAuthHandler(p.Provider, r.UserService, r.AuthService, p.Configured)
		path := "/auth/" + p.Provider.Name()
		mux.HandleFunc("GET "+path, h.HandleAuth)
		mux.HandleFunc("GET "+path+"/callback", h.HandleCallback)
		authEndpoints = append(authEndpoints, path)
	}
	mux.Handle("POST /auth/logout", authHandlers.NewLogoutHandler())
	authEndpoints = append(authEndpoints, "/auth/logout")

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/entities/space-stations", "/api/sectors/{id}"},
		"owner_token_endpoints", []string{"/api/sectors/generate", "/api/sectors"},
		"owner_endpoints", []string{"/api/sectors/{id}/layers", "/api/sectors/{id}/routes"},
		"protected_endpoints", []string{"/api/me"},
		"auth_endpoints", authEndpoints,
	)

	return mux
}
