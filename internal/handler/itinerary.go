package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/queue"
	"github.com/iliyamo/park-itinerary/internal/repository"
	queue_publisher "github.com/iliyamo/park-itinerary/internal/service"
)

// ItineraryHandler serves the customer-scoped itinerary resource. The
// owning customer is always resolved from the authenticated identity;
// clients never supply a customer id.
type ItineraryHandler struct {
	Customers   *repository.CustomerRepo
	Attractions *repository.AttractionRepo
	Areas       *repository.ParkAreaRepo
	Itineraries *repository.ItineraryRepo
}

// NewItineraryHandler constructs an ItineraryHandler and panics if any
// dependency is nil.
func NewItineraryHandler(customers *repository.CustomerRepo, attractions *repository.AttractionRepo, areas *repository.ParkAreaRepo, itineraries *repository.ItineraryRepo) *ItineraryHandler {
	if customers == nil || attractions == nil || areas == nil || itineraries == nil {
		panic("nil repository passed to NewItineraryHandler")
	}
	return &ItineraryHandler{Customers: customers, Attractions: attractions, Areas: areas, Itineraries: itineraries}
}

type itineraryReq struct {
	StartTime string `json:"starttime"` // RFC 3339
	RideID    uint64 `json:"ride_id"`
}

// customerFor resolves the caller's customer profile from the JWT claims.
func (h *ItineraryHandler) customerFor(c echo.Context) (*repository.Customer, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, echo.ErrUnauthorized
	}
	return h.Customers.GetByUserID(c.Request().Context(), uid)
}

// CreateItinerary handles POST /v1/itineraryitems. The attraction must
// exist; the item is bound to the caller's own customer. The response
// expands the attraction and its area.
func (h *ItineraryHandler) CreateItinerary(c echo.Context) error {
	customer, err := h.customerFor(c)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body itineraryReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starttime must be RFC 3339"})
	}
	attraction, err := h.Attractions.GetByID(c.Request().Context(), body.RideID)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	area, err := h.Areas.GetByID(c.Request().Context(), attraction.AreaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	item := &repository.Itinerary{
		CustomerID:   customer.ID,
		AttractionID: attraction.ID,
		StartTime:    start.UTC(),
	}
	if err := h.Itineraries.Create(c.Request().Context(), item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create itinerary item"})
	}

	// Best effort: a broker outage must not fail the request.
	_ = queue_publisher.PublishItineraryCreated(c.Request().Context(), queue.ItineraryCreatedEvent{
		ItineraryID:    item.ID,
		CustomerID:     customer.ID,
		AttractionID:   attraction.ID,
		AttractionName: attraction.Name,
		AreaID:         area.ID,
		AreaName:       area.Name,
		StartTime:      item.StartTime.Format(time.RFC3339),
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, toItineraryResponse(item, attraction, area))
}

// ListItineraries handles GET /v1/itineraryitems and returns only the
// caller's items. Attraction and area lookups are memoized across the
// list so shared rides are fetched once.
func (h *ItineraryHandler) ListItineraries(c echo.Context) error {
	customer, err := h.customerFor(c)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Itineraries.ListByCustomer(c.Request().Context(), customer.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	attractions := map[uint64]*repository.Attraction{}
	areas := map[uint64]*repository.ParkArea{}
	out := make([]itineraryResponse, 0, len(items))
	for _, item := range items {
		attraction, ok := attractions[item.AttractionID]
		if !ok {
			attraction, err = h.Attractions.GetByID(c.Request().Context(), item.AttractionID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			attractions[item.AttractionID] = attraction
		}
		area, ok := areas[attraction.AreaID]
		if !ok {
			area, err = h.Areas.GetByID(c.Request().Context(), attraction.AreaID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			areas[attraction.AreaID] = area
		}
		out = append(out, toItineraryResponse(item, attraction, area))
	}
	return c.JSON(http.StatusOK, out)
}

// GetItinerary handles GET /v1/itineraryitems/:id. Items owned by a
// different customer answer 404.
func (h *ItineraryHandler) GetItinerary(c echo.Context) error {
	customer, err := h.customerFor(c)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	item, err := h.Itineraries.GetByIDAndCustomer(c.Request().Context(), id, customer.ID)
	if err != nil {
		if errors.Is(err, repository.ErrItineraryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "itinerary item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	attraction, err := h.Attractions.GetByID(c.Request().Context(), item.AttractionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	area, err := h.Areas.GetByID(c.Request().Context(), attraction.AreaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toItineraryResponse(item, attraction, area))
}

// UpdateItinerary handles PUT /v1/itineraryitems/:id. It replaces the
// start time and attraction of an item owned by the caller.
func (h *ItineraryHandler) UpdateItinerary(c echo.Context) error {
	customer, err := h.customerFor(c)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body itineraryReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starttime must be RFC 3339"})
	}
	if _, err := h.Attractions.GetByID(c.Request().Context(), body.RideID); err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Itineraries.UpdateForCustomer(c.Request().Context(), id, customer.ID, start.UTC(), body.RideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "itinerary item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteItinerary handles DELETE /v1/itineraryitems/:id, removing an
// item owned by the caller.
func (h *ItineraryHandler) DeleteItinerary(c echo.Context) error {
	customer, err := h.customerFor(c)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Itineraries.DeleteForCustomer(c.Request().Context(), id, customer.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "itinerary item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
