package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/repository"
)

// CreateArea handles POST /v1/parkareas. It persists a new park area and
// returns the serialized entity. Duplicate names are allowed.
func (h *CatalogHandler) CreateArea(c echo.Context) error {
	var body struct {
		Name  string `json:"name"`
		Theme string `json:"theme"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	theme := strings.TrimSpace(body.Theme)
	if name == "" || theme == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and theme are required"})
	}
	area := &repository.ParkArea{Name: name, Theme: theme}
	if err := h.Areas.Create(c.Request().Context(), area); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create park area"})
	}
	return c.JSON(http.StatusOK, toAreaResponse(area))
}

// ListAreas handles GET /v1/parkareas and returns all areas in id order.
func (h *CatalogHandler) ListAreas(c echo.Context) error {
	areas, err := h.Areas.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toAreaResponses(areas))
}

// GetArea handles GET /v1/parkareas/:id.
func (h *CatalogHandler) GetArea(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	area, err := h.Areas.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "park area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toAreaResponse(area))
}

// UpdateArea handles PUT /v1/parkareas/:id. It fully replaces name and
// theme and returns no body on success.
func (h *CatalogHandler) UpdateArea(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name  string `json:"name"`
		Theme string `json:"theme"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	theme := strings.TrimSpace(body.Theme)
	if name == "" || theme == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and theme are required"})
	}
	if err := h.Areas.Update(c.Request().Context(), id, name, theme); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "park area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteArea handles DELETE /v1/parkareas/:id. Deletion is blocked while
// attractions still reference the area.
func (h *CatalogHandler) DeleteArea(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Areas.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "park area not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "area has attractions"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
