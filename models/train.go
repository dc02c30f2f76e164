package models

import (
	"errors"
	"fmt"
)

// ErrUnknownFareClass is returned when a fare class is not one of the four
// recognized tiers. Callers are expected to treat it as a programming error,
// not as user input to recover from.
var ErrUnknownFareClass = errors.New("unknown fare class")

// FareClass is one of the four fixed service tiers.
type FareClass string

const (
	ClassSleeper  FareClass = "SL"
	ClassThirdAC  FareClass = "AC3"
	ClassSecondAC FareClass = "AC2"
	ClassFirstAC  FareClass = "AC1"
)

// FareClasses lists the recognized classes in display order.
var FareClasses = []FareClass{ClassSleeper, ClassThirdAC, ClassSecondAC, ClassFirstAC}

// ParseFareClass maps a wire or user-supplied string onto a recognized class.
func ParseFareClass(s string) (FareClass, error) {
	switch FareClass(s) {
	case ClassSleeper, ClassThirdAC, ClassSecondAC, ClassFirstAC:
		return FareClass(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFareClass, s)
}

// FareTable holds the per-class ticket price of an itinerary.
type FareTable struct {
	SL  int `json:"SL"`
	AC3 int `json:"AC3"`
	AC2 int `json:"AC2"`
	AC1 int `json:"AC1"`
}

// PriceFor returns the price for a class.
func (f FareTable) PriceFor(class FareClass) (int, error) {
	switch class {
	case ClassSleeper:
		return f.SL, nil
	case ClassThirdAC:
		return f.AC3, nil
	case ClassSecondAC:
		return f.AC2, nil
	case ClassFirstAC:
		return f.AC1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFareClass, class)
}

// RoutePoint is one stop on an itinerary.
type RoutePoint struct {
	ID             int    `json:"id"`
	Station        string `json:"station"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	AvailableSeats int    `json:"availableSeats"`
}

// Itinerary is a train's scheduled route with per-class fares. Immutable
// once fetched from the catalog.
type Itinerary struct {
	TrainName          string       `json:"trainName"`
	TrainNumber        string       `json:"trainNumber"`
	DateOfAvailability string       `json:"dateOfAvailability"`
	RoutePoints        []RoutePoint `json:"routePoints"`
	Fare               FareTable    `json:"fare"`
}

// Validate checks the itinerary invariants: a train number, at least one
// route point, and non-negative fares.
func (it Itinerary) Validate() error {
	if it.TrainNumber == "" {
		return errors.New("itinerary missing train number")
	}
	if len(it.RoutePoints) == 0 {
		return errors.New("itinerary has no route points")
	}
	if it.Fare.SL < 0 || it.Fare.AC3 < 0 || it.Fare.AC2 < 0 || it.Fare.AC1 < 0 {
		return errors.New("itinerary has a negative fare")
	}
	return nil
}
