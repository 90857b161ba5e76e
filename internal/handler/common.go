// Package handler contains the HTTP handlers. Each handler struct
// bundles the repositories it needs; no handler holds state between
// requests.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/repository"
)

// CatalogHandler serves the public park areas and attractions resources.
type CatalogHandler struct {
	Areas       *repository.ParkAreaRepo
	Attractions *repository.AttractionRepo
}

// NewCatalogHandler constructs a CatalogHandler and panics if any
// dependency is nil.
func NewCatalogHandler(areas *repository.ParkAreaRepo, attractions *repository.AttractionRepo) *CatalogHandler {
	if areas == nil || attractions == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Areas: areas, Attractions: attractions}
}

// getUserID extracts the user_id set by the JWT middleware and converts
// it to uint64. JWT numeric claims decode as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
