package booking

import (
	"time"

	"github.com/poornima12/ACME-AIR/internal/domain"
)

type PassengerSeat struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	SeatNumber string `json:"seat_number"`
}

type PaymentSummary struct {
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
}

type BookingResult struct {
	Reference     string               `json:"booking_reference"`
	Status        domain.BookingStatus `json:"status"`
	FlightCode    string               `json:"flight_code"`
	DepartureTime time.Time            `json:"departure_time"`
	Passengers    []PassengerSeat      `json:"passengers"`
	Payment       PaymentSummary       `json:"payment"`
	// CreatedAt is the booking's creation date, not a full timestamp.
	CreatedAt string `json:"created_at"`
}

// buildBookingResult projects persisted booking state into the response
// shape. Pure function: passengers and seats arrive in booking-item order
// and come out in the same order.
func buildBookingResult(booking *domain.Booking, schedule *domain.FlightSchedule, passengers []domain.Passenger, seats []domain.Seat, payment *domain.Payment) *BookingResult {
	result := &BookingResult{
		Reference:     booking.Reference,
		Status:        booking.Status,
		FlightCode:    schedule.FlightCode,
		DepartureTime: schedule.DepartureTime,
		Payment: PaymentSummary{
			TransactionID: payment.TransactionID,
			AmountCents:   payment.AmountCents,
			Currency:      payment.Currency,
		},
		CreatedAt: booking.BookingTime.Format("2006-01-02"),
	}
	for i := range passengers {
		result.Passengers = append(result.Passengers, PassengerSeat{
			FirstName:  passengers[i].FirstName,
			LastName:   passengers[i].LastName,
			Email:      passengers[i].Email,
			SeatNumber: seats[i].SeatNumber,
		})
	}
	return result
}
