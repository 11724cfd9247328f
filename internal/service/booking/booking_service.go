package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/poornima12/ACME-AIR/internal/apperr"
	"github.com/poornima12/ACME-AIR/internal/domain"
	"github.com/poornima12/ACME-AIR/internal/kafka"
	"github.com/poornima12/ACME-AIR/internal/repository"
	"github.com/poornima12/ACME-AIR/internal/service/seatlock"
	"go.uber.org/zap"
)

const (
	// MaxPassengersPerBooking bounds one booking request.
	MaxPassengersPerBooking = 3
	// MinBookingWindow is how long before departure booking closes.
	MinBookingWindow = 2 * time.Hour
)

// Seat numbers are row digits followed by a single letter, e.g. 12A.
var seatNumberPattern = regexp.MustCompile(`^[1-9][0-9]*[A-Z]$`)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput, sessionID string) (*BookingResult, error)
}

// Store is what the commit engine needs from storage: pool-bound
// repositories for compensating cleanup, and a serializable transaction
// for the commit sequence itself.
type Store interface {
	Repos() *repository.Repositories
	Serializable(ctx context.Context, fn func(ctx context.Context, r *repository.Repositories) error) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	store              Store
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	lockTTL            time.Duration
	validate           *validator.Validate
	log                *zap.Logger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.lockTTL = ttl
	}
}

func NewBookingService(store Store, producer Producer, bookingTopic string, log *zap.Logger, opts ...BookingServiceOption) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	service := &BookingService{
		store:        store,
		producer:     producer,
		bookingTopic: bookingTopic,
		lockTTL:      seatlock.DefaultTTL,
		validate:     validator.New(),
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type PassengerInput struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number" validate:"required"`
	SeatNumber     string `json:"seat_number" validate:"required"`
}

type PaymentInput struct {
	Method        domain.PaymentMethod `json:"method" validate:"required,oneof=CREDIT_CARD DEBIT_CARD PAYPAL"`
	TransactionID string               `json:"transaction_id" validate:"required"`
	AmountCents   int64                `json:"amount_cents" validate:"required,gt=0"`
	Currency      string               `json:"currency" validate:"required,iso4217"`
	Status        domain.PaymentStatus `json:"status" validate:"required,oneof=SUCCESS FAILED PENDING"`
}

type CreateBookingInput struct {
	ScheduleID int64            `json:"flight_schedule_id" validate:"required"`
	Passengers []PassengerInput `json:"passengers" validate:"required,dive"`
	Payment    PaymentInput     `json:"payment" validate:"required"`
}

// CreateBooking runs the whole reservation-validation-persistence-
// confirmation sequence as one serializable unit of work. On any failure
// the transaction rolls back and, independently of the rollback, every
// seat number in the request is released for the session so no seat stays
// stuck LOCKED from the caller's point of view.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput, sessionID string) (*BookingResult, error) {
	if err := s.validateRequest(input); err != nil {
		return nil, err
	}

	s.log.Info("creating booking",
		zap.Int64("schedule_id", input.ScheduleID),
		zap.Int("passengers", len(input.Passengers)),
		zap.String("session_id", sessionID))

	var result *BookingResult
	err := s.store.Serializable(ctx, func(ctx context.Context, r *repository.Repositories) error {
		schedule, err := s.loadSchedule(ctx, r, input.ScheduleID)
		if err != nil {
			return err
		}
		passengers, err := s.resolvePassengers(ctx, r, input.Passengers)
		if err != nil {
			return err
		}
		seats, err := s.lockSeats(ctx, r, schedule.ID, requestSeatNumbers(input), sessionID)
		if err != nil {
			return err
		}
		if err := s.checkDuplicateBookings(ctx, r, passengers, schedule.ID); err != nil {
			return err
		}
		if err := s.checkCapacity(ctx, r, schedule, len(seats)); err != nil {
			return err
		}
		booking, payment, err := s.persistBooking(ctx, r, schedule, passengers, seats, input)
		if err != nil {
			return err
		}

		locker := seatlock.NewManager(r.Seats, r.SeatLocks, s.lockTTL, s.log)
		if err := locker.Confirm(ctx, seatIDs(seats), sessionID); err != nil {
			return err
		}

		result = buildBookingResult(booking, schedule, passengers, seats, payment)
		return nil
	})
	if err != nil {
		s.log.Error("failed to create booking",
			zap.Int64("schedule_id", input.ScheduleID),
			zap.String("session_id", sessionID),
			zap.Error(err))
		s.cleanupFailedBooking(ctx, input, sessionID)
		return nil, err
	}

	s.log.Info("created booking",
		zap.String("reference", result.Reference),
		zap.String("flight_code", result.FlightCode),
		zap.Int("passengers", len(result.Passengers)))
	s.publishConfirmed(ctx, input.ScheduleID, result)
	return result, nil
}

func (s *BookingService) validateRequest(input CreateBookingInput) error {
	if len(input.Passengers) == 0 {
		return apperr.Validation("At least one passenger is required")
	}
	if len(input.Passengers) > MaxPassengersPerBooking {
		return apperr.Validationf("Maximum %d passengers allowed per booking", MaxPassengersPerBooking)
	}
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]any, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[fe.Namespace()] = fe.Tag()
			}
			return apperr.Validation("Invalid booking request").WithDetails(details)
		}
		return apperr.Validation(err.Error())
	}

	seen := make(map[string]bool, len(input.Passengers))
	for _, p := range input.Passengers {
		// The format check runs on the raw input; only the duplicate check
		// is case-folded.
		if !seatNumberPattern.MatchString(p.SeatNumber) {
			return apperr.Validationf("Invalid seat number format: %s", p.SeatNumber).
				WithDetails(map[string]any{"seat_number": p.SeatNumber})
		}
		number := strings.ToUpper(p.SeatNumber)
		if seen[number] {
			return apperr.Validationf("Duplicate seat selection: %s", p.SeatNumber).
				WithDetails(map[string]any{"seat_number": p.SeatNumber})
		}
		seen[number] = true
	}
	return nil
}

func (s *BookingService) loadSchedule(ctx context.Context, r *repository.Repositories, scheduleID int64) (*domain.FlightSchedule, error) {
	schedule, err := r.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, apperr.NotFoundf("Flight schedule not found: %d", scheduleID)
	}

	now := s.now()
	if schedule.DepartureTime.Before(now) {
		return nil, apperr.Validation("Cannot book flights that have already departed")
	}
	if schedule.DepartureTime.Before(now.Add(MinBookingWindow)) {
		return nil, apperr.Validationf("Booking window closed - flight departs within %d hours", int(MinBookingWindow.Hours()))
	}
	return schedule, nil
}

// resolvePassengers finds-or-creates a passenger per request entry, in
// request order. A known email is rejected outright: re-booking by the
// same person is indistinguishable from a squatted email here.
func (s *BookingService) resolvePassengers(ctx context.Context, r *repository.Repositories, inputs []PassengerInput) ([]domain.Passenger, error) {
	passengers := make([]domain.Passenger, 0, len(inputs))
	for _, in := range inputs {
		existing, err := r.Passengers.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Validationf("Email %s is already associated with a different passenger", in.Email).
				WithDetails(map[string]any{"email": in.Email})
		}
		p := domain.Passenger{
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Email:          in.Email,
			Phone:          in.Phone,
			PassportNumber: in.PassportNumber,
		}
		if err := r.Passengers.Create(ctx, &p); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, nil
}

// lockSeats resolves the requested seat numbers and acquires them in
// request order. If any acquisition fails, every seat already acquired by
// this call is released before the triggering failure propagates.
func (s *BookingService) lockSeats(ctx context.Context, r *repository.Repositories, scheduleID int64, numbers []string, sessionID string) ([]domain.Seat, error) {
	found, err := r.Seats.FindByScheduleAndNumbers(ctx, scheduleID, numbers)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[string]domain.Seat, len(found))
	for _, seat := range found {
		byNumber[seat.SeatNumber] = seat
	}
	var missing []string
	for _, n := range numbers {
		if _, ok := byNumber[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.NotFoundf("Invalid seat numbers for this flight: %s", strings.Join(missing, ", ")).
			WithDetails(map[string]any{"seat_numbers": missing})
	}

	locker := seatlock.NewManager(r.Seats, r.SeatLocks, s.lockTTL, s.log)
	locked := make([]domain.Seat, 0, len(numbers))
	for _, n := range numbers {
		seat, err := locker.Acquire(ctx, byNumber[n].ID, sessionID)
		if err != nil {
			locker.Release(ctx, seatIDs(locked))
			return nil, err
		}
		locked = append(locked, *seat)
	}
	return locked, nil
}

func (s *BookingService) checkDuplicateBookings(ctx context.Context, r *repository.Repositories, passengers []domain.Passenger, scheduleID int64) error {
	for _, p := range passengers {
		booked, err := r.Bookings.HasConfirmedForPassenger(ctx, p.ID, scheduleID)
		if err != nil {
			return err
		}
		if booked {
			return apperr.Conflict(fmt.Sprintf("Passenger with email %s already has a confirmed booking on this flight", p.Email)).
				WithDetails(map[string]any{"email": p.Email})
		}
	}
	return nil
}

func (s *BookingService) checkCapacity(ctx context.Context, r *repository.Repositories, schedule *domain.FlightSchedule, requested int) error {
	confirmed, err := r.Bookings.CountConfirmedSeats(ctx, schedule.ID)
	if err != nil {
		return err
	}
	if confirmed+requested > schedule.TotalSeats {
		return apperr.SeatUnavailable(fmt.Sprintf("Flight is full. Available seats: %d, Requested: %d",
			schedule.TotalSeats-confirmed, requested)).
			WithDetails(map[string]any{"available": schedule.TotalSeats - confirmed, "requested": requested})
	}
	return nil
}

func (s *BookingService) persistBooking(ctx context.Context, r *repository.Repositories, schedule *domain.FlightSchedule, passengers []domain.Passenger, seats []domain.Seat, input CreateBookingInput) (*domain.Booking, *domain.Payment, error) {
	if len(passengers) != len(seats) {
		return nil, nil, apperr.Internal("passenger count must match seat count", nil)
	}

	booking := &domain.Booking{
		Reference:   GenerateBookingReference(),
		ScheduleID:  schedule.ID,
		Status:      domain.BookingStatusConfirmed,
		BookingTime: s.now(),
	}
	if err := r.Bookings.Create(ctx, booking); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, nil, apperr.Conflict("Booking conflict detected - one or more passengers may already be booked on this flight")
		}
		return nil, nil, err
	}

	for i := range passengers {
		item := domain.BookingItem{
			BookingID:   booking.ID,
			PassengerID: passengers[i].ID,
			SeatID:      seats[i].ID,
		}
		if err := r.Bookings.CreateItem(ctx, &item); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, nil, apperr.Conflict(fmt.Sprintf("Booking conflict for passenger %s %s - may already be booked on this flight",
					passengers[i].FirstName, passengers[i].LastName))
			}
			return nil, nil, err
		}
	}

	payment := &domain.Payment{
		BookingID:     booking.ID,
		Method:        input.Payment.Method,
		AmountCents:   input.Payment.AmountCents,
		Currency:      input.Payment.Currency,
		TransactionID: input.Payment.TransactionID,
		Status:        input.Payment.Status,
	}
	if err := r.Bookings.CreatePayment(ctx, payment); err != nil {
		return nil, nil, err
	}
	return booking, payment, nil
}

// cleanupFailedBooking is the compensating release. It runs on pool-bound
// repositories so it takes effect even though the booking transaction has
// rolled back, and on a cancellation-free context so it still runs when
// the failure being compensated is the caller's own cancellation. Cleanup
// failure is logged, never propagated over the original error.
func (s *BookingService) cleanupFailedBooking(ctx context.Context, input CreateBookingInput, sessionID string) {
	ctx = context.WithoutCancel(ctx)
	repos := s.store.Repos()
	locker := seatlock.NewManager(repos.Seats, repos.SeatLocks, s.lockTTL, s.log)
	if err := locker.ReleaseForSession(ctx, sessionID, requestSeatNumbers(input)); err != nil {
		s.log.Error("failed to clean up after failed booking",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *BookingService) publishConfirmed(ctx context.Context, scheduleID int64, result *BookingResult) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          "booking_confirmed",
		Reference:     result.Reference,
		FlightCode:    result.FlightCode,
		ScheduleID:    scheduleID,
		DepartureTime: result.DepartureTime,
		Status:        string(result.Status),
	}
	for _, p := range result.Passengers {
		event.Emails = append(event.Emails, p.Email)
		event.SeatNumbers = append(event.SeatNumbers, p.SeatNumber)
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, result.Reference, event); err != nil {
		s.log.Warn("failed to publish booking_confirmed event",
			zap.String("reference", result.Reference), zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, result.Reference, event); err != nil {
			s.log.Warn("failed to publish booking notification",
				zap.String("reference", result.Reference), zap.Error(err))
		}
	}
}

func requestSeatNumbers(input CreateBookingInput) []string {
	numbers := make([]string, 0, len(input.Passengers))
	for _, p := range input.Passengers {
		numbers = append(numbers, strings.ToUpper(strings.TrimSpace(p.SeatNumber)))
	}
	return numbers
}

func seatIDs(seats []domain.Seat) []int64 {
	ids := make([]int64, 0, len(seats))
	for _, seat := range seats {
		ids = append(ids, seat.ID)
	}
	return ids
}

var _ BookingUseCase = (*BookingService)(nil)
