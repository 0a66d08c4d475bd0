package domain

import "time"

type Flight struct {
	FlightID          string
	FlightNumber      string
	AirlineName       string
	DepartureDatetime time.Time
	ArrivalDatetime   time.Time
	Origin            string
	Destination       string
}

type RouteLeg struct {
	Flight
	SequenceOrder int
}

// TransitRoute is a one-stop itinerary: two legs through an intermediate hub
// with the durations computed from the leg timestamps.
type TransitRoute struct {
	Legs                 []RouteLeg
	Hub                  string
	TotalDurationMinutes int
	LayoverMinutes       int
}

type RouteResult struct {
	Direct  []Flight
	Transit []TransitRoute
}
