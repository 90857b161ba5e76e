// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/handler"
	"github.com/iliyamo/park-itinerary/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Credential
// operations live under /v1/auth; session-wide logout and the identity
// echo are protected by the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	// The original platform exposed its framework token endpoint under
	// this path; kept as an alias of login for clients that still use it.
	e.POST("/v1/api-token-auth", a.Login)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterCatalog registers the public park areas and attractions
// resources. No authentication is required; reads go through the
// response cache middleware so hot browse endpoints are served from
// Redis.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	// ---- Park areas ----
	e.POST("/v1/parkareas", h.CreateArea)
	e.GET("/v1/parkareas", h.ListAreas, cache)
	e.GET("/v1/parkareas/:id", h.GetArea, cache)
	e.PUT("/v1/parkareas/:id", h.UpdateArea)
	e.DELETE("/v1/parkareas/:id", h.DeleteArea)

	// ---- Attractions ----
	e.POST("/v1/attractions", h.CreateAttraction)
	e.GET("/v1/attractions", h.ListAttractions, cache)
	// Static route must be registered alongside :id; Echo gives it priority.
	e.GET("/v1/attractions/r_rides", h.ListRRides, cache)
	e.GET("/v1/attractions/:id", h.GetAttraction, cache)
	e.PUT("/v1/attractions/:id", h.UpdateAttraction)
	e.DELETE("/v1/attractions/:id", h.DeleteAttraction)
}
