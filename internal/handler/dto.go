package handler

// Response DTOs are mapped explicitly per entity. Each mapping function
// declares exactly which related fields are expanded, so relationship
// expansion stays bounded: attractions expose their area id only, while
// itinerary items expand their attraction and, one level deeper, its
// area. The url field is the resource's self link.

import (
	"fmt"
	"time"

	"github.com/iliyamo/park-itinerary/internal/repository"
)

type areaResponse struct {
	ID    uint64 `json:"id"`
	URL   string `json:"url"`
	Name  string `json:"name"`
	Theme string `json:"theme"`
}

func toAreaResponse(a *repository.ParkArea) areaResponse {
	return areaResponse{
		ID:    a.ID,
		URL:   fmt.Sprintf("/v1/parkareas/%d", a.ID),
		Name:  a.Name,
		Theme: a.Theme,
	}
}

func toAreaResponses(areas []*repository.ParkArea) []areaResponse {
	out := make([]areaResponse, 0, len(areas))
	for _, a := range areas {
		out = append(out, toAreaResponse(a))
	}
	return out
}

type attractionResponse struct {
	ID     uint64 `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name"`
	AreaID uint64 `json:"area_id"`
}

func toAttractionResponse(a *repository.Attraction) attractionResponse {
	return attractionResponse{
		ID:     a.ID,
		URL:    fmt.Sprintf("/v1/attractions/%d", a.ID),
		Name:   a.Name,
		AreaID: a.AreaID,
	}
}

func toAttractionResponses(attractions []*repository.Attraction) []attractionResponse {
	out := make([]attractionResponse, 0, len(attractions))
	for _, a := range attractions {
		out = append(out, toAttractionResponse(a))
	}
	return out
}

// nestedAttraction is the one-level-deep attraction view embedded in
// itinerary responses.
type nestedAttraction struct {
	ID   uint64       `json:"id"`
	URL  string       `json:"url"`
	Name string       `json:"name"`
	Area areaResponse `json:"area"`
}

type itineraryResponse struct {
	ID         uint64           `json:"id"`
	URL        string           `json:"url"`
	StartTime  time.Time        `json:"starttime"`
	Attraction nestedAttraction `json:"attraction"`
}

func toItineraryResponse(it *repository.Itinerary, at *repository.Attraction, area *repository.ParkArea) itineraryResponse {
	return itineraryResponse{
		ID:        it.ID,
		URL:       fmt.Sprintf("/v1/itineraryitems/%d", it.ID),
		StartTime: it.StartTime,
		Attraction: nestedAttraction{
			ID:   at.ID,
			URL:  fmt.Sprintf("/v1/attractions/%d", at.ID),
			Name: at.Name,
			Area: toAreaResponse(area),
		},
	}
}
