// Package queue defines message payloads exchanged over the message broker.
package queue

// ItineraryCreatedEvent is published when a customer plans a visit to an
// attraction. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type ItineraryCreatedEvent struct {
	ItineraryID    uint64 `json:"itinerary_id"`
	CustomerID     uint64 `json:"customer_id"`
	AttractionID   uint64 `json:"attraction_id"`
	AttractionName string `json:"attraction_name"`
	AreaID         uint64 `json:"area_id"`
	AreaName       string `json:"area_name"`
	StartTime      string `json:"starttime"`
	CreatedAt      string `json:"created_at"`
}
