package domain

import "time"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusLocked    SeatStatus = "LOCKED"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// Seat is one physical seat on a flight schedule. Exactly one row exists
// per (schedule, seat number); status is mutated only through the seat
// lock manager and the booking commit path.
type Seat struct {
	ID         int64
	ScheduleID int64
	SeatNumber string
	Status     SeatStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type LockStatus string

const (
	LockStatusActive    LockStatus = "ACTIVE"
	LockStatusExpired   LockStatus = "EXPIRED"
	LockStatusConfirmed LockStatus = "CONFIRMED"
	LockStatusReleased  LockStatus = "RELEASED"
)

// SeatLock is a provisional claim binding a seat to a session. At most one
// ACTIVE lock exists per seat, enforced by lookup-before-write rather than
// a uniqueness constraint. Expiry is lazy: a lapsed lock stays ACTIVE in
// storage until the seat is next touched by an acquire.
type SeatLock struct {
	ID        int64
	SeatID    int64
	SessionID string
	LockedAt  time.Time
	ExpiresAt time.Time
	Status    LockStatus

	// SeatNumber is populated by queries that join the seats table.
	SeatNumber string
}
