package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

// Booking is created once, atomically with its items and payment, and is
// never mutated by this service afterwards.
type Booking struct {
	ID          int64
	Reference   string
	ScheduleID  int64
	Status      BookingStatus
	BookingTime time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingItem pairs one passenger with one seat inside a booking.
type BookingItem struct {
	ID          int64
	BookingID   int64
	PassengerID int64
	SeatID      int64
}

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodPaypal     PaymentMethod = "PAYPAL"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
	PaymentStatusPending PaymentStatus = "PENDING"
)

// Payment is stored as submitted. No gateway processing happens here.
type Payment struct {
	ID            int64
	BookingID     int64
	Method        PaymentMethod
	AmountCents   int64
	Currency      string
	TransactionID string
	Status        PaymentStatus
}
