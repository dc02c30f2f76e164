package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"railbook/models"
)

// ListItineraries fetches the train catalog. Any transport, status or
// decoding failure wraps ErrCatalogUnavailable; the caller decides whether
// to retry.
func (c *Client) ListItineraries(ctx context.Context) ([]models.Itinerary, error) {
	sess := c.sessions.Current()

	var itineraries []models.Itinerary
	if err := c.do(ctx, http.MethodGet, "/trains", sess, nil, &itineraries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return itineraries, nil
}

// FilterByStations returns the itineraries that stop at both origin and
// destination, compared case-insensitively. The relative order of the two
// stops along the route is deliberately not checked: the matching is
// non-directional, exactly as the dashboard search has always behaved.
func FilterByStations(itineraries []models.Itinerary, origin, destination string) []models.Itinerary {
	if origin == "" || destination == "" {
		return itineraries
	}

	var matched []models.Itinerary
	for _, it := range itineraries {
		if stopsAt(it, origin) && stopsAt(it, destination) {
			matched = append(matched, it)
		}
	}
	return matched
}

func stopsAt(it models.Itinerary, station string) bool {
	for _, point := range it.RoutePoints {
		if strings.EqualFold(point.Station, station) {
			return true
		}
	}
	return false
}
