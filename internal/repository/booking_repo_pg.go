package repository

import (
	"context"

	"github.com/poornima12/ACME-AIR/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	CreateItem(ctx context.Context, item *domain.BookingItem) error
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	// HasConfirmedForPassenger reports whether the passenger already holds a
	// CONFIRMED booking on the schedule.
	HasConfirmedForPassenger(ctx context.Context, passengerID, scheduleID int64) (bool, error)
	// CountConfirmedSeats counts seats committed to CONFIRMED bookings on
	// the schedule, the figure the capacity check compares against.
	CountConfirmedSeats(ctx context.Context, scheduleID int64) (int, error)
}

type PGBookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (reference, schedule_id, status, booking_time)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		booking.Reference, booking.ScheduleID, booking.Status, booking.BookingTime).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) CreateItem(ctx context.Context, item *domain.BookingItem) error {
	return r.db.QueryRow(ctx, `INSERT INTO booking_items (booking_id, passenger_id, seat_id)
		VALUES ($1, $2, $3) RETURNING id`,
		item.BookingID, item.PassengerID, item.SeatID).Scan(&item.ID)
}

func (r *PGBookingRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	return r.db.QueryRow(ctx, `INSERT INTO payments (booking_id, method, amount_cents, currency, transaction_id, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		payment.BookingID, payment.Method, payment.AmountCents, payment.Currency, payment.TransactionID, payment.Status).
		Scan(&payment.ID)
}

func (r *PGBookingRepository) HasConfirmedForPassenger(ctx context.Context, passengerID, scheduleID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM bookings b
		JOIN booking_items i ON i.booking_id = b.id
		WHERE i.passenger_id=$1 AND b.schedule_id=$2 AND b.status=$3)`,
		passengerID, scheduleID, domain.BookingStatusConfirmed).Scan(&exists)
	return exists, err
}

func (r *PGBookingRepository) CountConfirmedSeats(ctx context.Context, scheduleID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM booking_items i
		JOIN bookings b ON b.id = i.booking_id
		WHERE b.schedule_id=$1 AND b.status=$2`,
		scheduleID, domain.BookingStatusConfirmed).Scan(&count)
	return count, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
