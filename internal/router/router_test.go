package router_test

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/park-itinerary/internal/config"
	"github.com/iliyamo/park-itinerary/internal/handler"
	"github.com/iliyamo/park-itinerary/internal/middleware"
	"github.com/iliyamo/park-itinerary/internal/repository"
	"github.com/iliyamo/park-itinerary/internal/router"
)

// Registration only stores handler references, so nil DB handles are fine
// here; no request ever reaches a repository.
func TestAllRoutesRegistered(t *testing.T) {
	e := echo.New()

	catalog := handler.NewCatalogHandler(repository.NewParkAreaRepo(nil), repository.NewAttractionRepo(nil))
	itinerary := handler.NewItineraryHandler(
		repository.NewCustomerRepo(nil),
		repository.NewAttractionRepo(nil),
		repository.NewParkAreaRepo(nil),
		repository.NewItineraryRepo(nil),
	)
	auth := handler.NewAuthHandler(config.Config{}, repository.NewUserRepo(nil), repository.NewCustomerRepo(nil), repository.NewTokenRepo(nil))
	cache := middleware.NewRedisCache(config.CacheConfig{}, nil)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, "secret")
	router.RegisterCatalog(e, catalog, cache)
	router.RegisterItinerary(e, itinerary, "secret")

	want := []struct{ method, path string }{
		{"GET", "/healthz"},
		{"POST", "/v1/auth/register"},
		{"POST", "/v1/auth/login"},
		{"POST", "/v1/auth/refresh"},
		{"POST", "/v1/auth/logout"},
		{"POST", "/v1/api-token-auth"},
		{"GET", "/v1/me"},
		{"POST", "/v1/logout-all"},
		{"POST", "/v1/parkareas"},
		{"GET", "/v1/parkareas"},
		{"GET", "/v1/parkareas/:id"},
		{"PUT", "/v1/parkareas/:id"},
		{"DELETE", "/v1/parkareas/:id"},
		{"POST", "/v1/attractions"},
		{"GET", "/v1/attractions"},
		{"GET", "/v1/attractions/r_rides"},
		{"GET", "/v1/attractions/:id"},
		{"PUT", "/v1/attractions/:id"},
		{"DELETE", "/v1/attractions/:id"},
		{"POST", "/v1/itineraryitems"},
		{"GET", "/v1/itineraryitems"},
		{"GET", "/v1/itineraryitems/:id"},
		{"PUT", "/v1/itineraryitems/:id"},
		{"DELETE", "/v1/itineraryitems/:id"},
	}

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, w := range want {
		assert.True(t, registered[w.method+" "+w.path], "missing route %s %s", w.method, w.path)
	}
}
