package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"railbook/models"
	"railbook/session"
)

func testItineraries() []models.Itinerary {
	return []models.Itinerary{
		{
			TrainName:   "Rajdhani Express",
			TrainNumber: "12951",
			RoutePoints: []models.RoutePoint{
				{Station: "Mumbai Central"}, {Station: "Surat"}, {Station: "New Delhi"},
			},
			Fare: models.FareTable{SL: 100, AC3: 300, AC2: 500, AC1: 800},
		},
		{
			TrainName:   "Shatabdi Express",
			TrainNumber: "12009",
			RoutePoints: []models.RoutePoint{
				{Station: "Ahmedabad"}, {Station: "Vadodara"},
			},
			Fare: models.FareTable{SL: 90, AC3: 250, AC2: 400, AC1: 700},
		},
	}
}

func TestListItineraries(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trains" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(testItineraries())
	}))
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, session.NewStore(""))
	itineraries, err := client.ListItineraries(context.Background())
	if err != nil {
		t.Fatalf("ListItineraries: %v", err)
	}
	if len(itineraries) != 2 {
		t.Fatalf("got %d itineraries, want 2", len(itineraries))
	}
	if itineraries[0].TrainNumber != "12951" || itineraries[0].Fare.AC3 != 300 {
		t.Fatalf("unexpected itinerary %+v", itineraries[0])
	}
}

func TestListItinerariesBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, session.NewStore(""))
	if _, err := client.ListItineraries(context.Background()); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("err = %v, want ErrCatalogUnavailable", err)
	}
}

func TestListItinerariesNetworkError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close() // nothing listens anymore

	client := NewClient(backend.URL, time.Second, session.NewStore(""))
	if _, err := client.ListItineraries(context.Background()); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("err = %v, want ErrCatalogUnavailable", err)
	}
}

func TestFilterByStations(t *testing.T) {
	itineraries := testItineraries()

	matched := FilterByStations(itineraries, "Mumbai Central", "New Delhi")
	if len(matched) != 1 || matched[0].TrainNumber != "12951" {
		t.Fatalf("matched = %+v, want only 12951", matched)
	}

	if matched := FilterByStations(itineraries, "Mumbai Central", "Vadodara"); len(matched) != 0 {
		t.Fatalf("matched across itineraries: %+v", matched)
	}
}

func TestFilterByStationsCaseInsensitive(t *testing.T) {
	matched := FilterByStations(testItineraries(), "mumbai central", "NEW DELHI")
	if len(matched) != 1 || matched[0].TrainNumber != "12951" {
		t.Fatalf("matched = %+v, want only 12951", matched)
	}
}

// Station matching is deliberately non-directional: swapping origin and
// destination still matches. This pins the long-standing search behavior.
func TestFilterByStationsIgnoresDirection(t *testing.T) {
	matched := FilterByStations(testItineraries(), "new delhi", "mumbai central")
	if len(matched) != 1 || matched[0].TrainNumber != "12951" {
		t.Fatalf("reversed stations matched = %+v, want only 12951", matched)
	}
}

func TestFilterByStationsEmptyQueryPassesThrough(t *testing.T) {
	itineraries := testItineraries()
	if matched := FilterByStations(itineraries, "", "New Delhi"); len(matched) != len(itineraries) {
		t.Fatalf("empty origin filtered to %d, want %d", len(matched), len(itineraries))
	}
}
