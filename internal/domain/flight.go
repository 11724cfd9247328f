package domain

import "time"

// FlightSchedule is a single occurrence of a flight. Schedules are
// provisioned out-of-band and are read-only for the booking path.
type FlightSchedule struct {
	ID            int64
	FlightCode    string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	TotalSeats    int
	PriceCents    int64
	Currency      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ScheduleAvailability pairs a schedule with its current count of
// AVAILABLE seats. Seats held by an expired but not yet evicted lock
// still count as unavailable here.
type ScheduleAvailability struct {
	Schedule       FlightSchedule `json:"schedule"`
	AvailableSeats int            `json:"available_seats"`
}
