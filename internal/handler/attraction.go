package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/repository"
)

// rRidePrefix is the fixed filter applied by the r_rides endpoint.
const rRidePrefix = "r"

// CreateAttraction handles POST /v1/attractions. The referenced park
// area must exist; otherwise no row is written and 404 is returned.
func (h *CatalogHandler) CreateAttraction(c echo.Context) error {
	var body struct {
		Name   string `json:"name"`
		AreaID uint64 `json:"area_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if _, err := h.Areas.GetByID(c.Request().Context(), body.AreaID); err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "park area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	attraction := &repository.Attraction{Name: name, AreaID: body.AreaID}
	if err := h.Attractions.Create(c.Request().Context(), attraction); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create attraction"})
	}
	return c.JSON(http.StatusOK, toAttractionResponse(attraction))
}

// ListAttractions handles GET /v1/attractions with optional ?area={id}
// filtering. An area with no attractions yields an empty list.
func (h *CatalogHandler) ListAttractions(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		attractions []*repository.Attraction
		err         error
	)
	if areaParam := c.QueryParam("area"); areaParam != "" {
		areaID, perr := strconv.ParseUint(areaParam, 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area filter"})
		}
		attractions, err = h.Attractions.ListByArea(ctx, areaID)
	} else {
		attractions, err = h.Attractions.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toAttractionResponses(attractions))
}

// GetAttraction handles GET /v1/attractions/:id. Missing ids answer 404;
// 500 is reserved for genuine store failures.
func (h *CatalogHandler) GetAttraction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	attraction, err := h.Attractions.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toAttractionResponse(attraction))
}

// UpdateAttraction handles PUT /v1/attractions/:id. Both name and area
// are reassigned; the new area must exist.
func (h *CatalogHandler) UpdateAttraction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name   string `json:"name"`
		AreaID uint64 `json:"area_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if _, err := h.Areas.GetByID(c.Request().Context(), body.AreaID); err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "park area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Attractions.Update(c.Request().Context(), id, name, body.AreaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAttraction handles DELETE /v1/attractions/:id. Itinerary items
// referencing the attraction are removed with it.
func (h *CatalogHandler) DeleteAttraction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Attractions.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRRides handles GET /v1/attractions/r_rides and returns the
// attractions whose name starts with the letter "r".
func (h *CatalogHandler) ListRRides(c echo.Context) error {
	rides, err := h.Attractions.ListByNamePrefix(c.Request().Context(), rRidePrefix)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toAttractionResponses(rides))
}
