package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/handler"
	"github.com/iliyamo/park-itinerary/internal/middleware"
)

// RegisterItinerary registers the customer-scoped itinerary endpoints
// under /v1. All routes require a valid JWT and the CUSTOMER role; the
// handlers additionally scope every query to the caller's own customer
// profile.
func RegisterItinerary(e *echo.Echo, h *handler.ItineraryHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/itineraryitems", h.CreateItinerary)
	g.GET("/itineraryitems", h.ListItineraries)
	g.GET("/itineraryitems/:id", h.GetItinerary)
	g.PUT("/itineraryitems/:id", h.UpdateItinerary)
	g.DELETE("/itineraryitems/:id", h.DeleteItinerary)
}
