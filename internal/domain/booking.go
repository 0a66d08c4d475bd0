package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusDeparted  BookingStatus = "DEPARTED"
	BookingStatusArrived   BookingStatus = "ARRIVED"
	BookingStatusDelivered BookingStatus = "DELIVERED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusBooked, BookingStatusDeparted, BookingStatusArrived,
		BookingStatusDelivered, BookingStatusCancelled:
		return true
	}
	return false
}

// ValidateTransition enforces the cancellation rule: a delivered booking is
// terminal and can never be cancelled. All other target statuses are allowed
// from any current status; operational sequencing is not enforced here.
func ValidateTransition(from, to BookingStatus) error {
	if to == BookingStatusCancelled && from == BookingStatusDelivered {
		return fmt.Errorf("%w: cannot cancel a delivered booking", ErrBusinessRule)
	}
	return nil
}

type Booking struct {
	ID          int64
	RefID       string
	Origin      string
	Destination string
	Pieces      int
	WeightKG    float64
	Status      BookingStatus
	Version     int
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimelineEvent is an append-only audit record of a booking status change.
// Rows are never updated or deleted once written.
type TimelineEvent struct {
	ID          int64
	BookingID   int64
	EventType   BookingStatus
	Location    string
	FlightID    string
	Description string
	CreatedAt   time.Time
}

// BookingAggregate is the fully hydrated booking: the row itself plus its
// ordered flight legs and timeline. This is the unit stored in the cache.
type BookingAggregate struct {
	Booking
	Flights  []Flight
	Timeline []TimelineEvent
}
