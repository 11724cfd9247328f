package flights

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/poornima12/ACME-AIR/internal/apperr"
	"github.com/poornima12/ACME-AIR/internal/domain"
	"github.com/poornima12/ACME-AIR/internal/repository"
)

// MaxSearchPassengers caps the party size accepted by schedule search.
const MaxSearchPassengers = 9

var airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// FlightUseCase exposes schedule search and seat listing.
type FlightUseCase interface {
	Search(ctx context.Context, input SearchInput) ([]domain.ScheduleAvailability, error)
	ListSeats(ctx context.Context, scheduleID int64) ([]domain.Seat, error)
}

// Cache stores computed availability per route and departure date.
type Cache interface {
	GetSchedules(ctx context.Context, key string) ([]domain.ScheduleAvailability, error)
	SetSchedules(ctx context.Context, key string, schedules []domain.ScheduleAvailability) error
}

type SearchInput struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	Passengers    int
}

type FlightService struct {
	schedules repository.FlightScheduleRepository
	seats     repository.SeatRepository
	cache     Cache
	log       *zap.Logger

	now func() time.Time
}

func NewFlightService(schedules repository.FlightScheduleRepository, seats repository.SeatRepository, cache Cache, log *zap.Logger) *FlightService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlightService{
		schedules: schedules,
		seats:     seats,
		cache:     cache,
		log:       log,
		now:       time.Now,
	}
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.ScheduleAvailability, error) {
	origin := strings.ToUpper(strings.TrimSpace(input.Origin))
	destination := strings.ToUpper(strings.TrimSpace(input.Destination))

	if err := validateSearch(origin, destination, input.DepartureDate, input.Passengers, s.now()); err != nil {
		return nil, err
	}

	key := searchKey(origin, destination, input.DepartureDate)
	availability, err := s.cachedAvailability(ctx, key)
	if err != nil {
		return nil, err
	}
	if availability == nil {
		availability, err = s.loadAvailability(ctx, origin, destination, input.DepartureDate)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetSchedules(ctx, key, availability); err != nil {
				s.log.Warn("failed to cache schedule search", zap.String("key", key), zap.Error(err))
			}
		}
	}

	matching := make([]domain.ScheduleAvailability, 0, len(availability))
	for _, a := range availability {
		if a.AvailableSeats >= input.Passengers {
			matching = append(matching, a)
		}
	}
	if len(matching) == 0 {
		return nil, apperr.NotFound("No flights found matching the search criteria")
	}
	return matching, nil
}

func (s *FlightService) ListSeats(ctx context.Context, scheduleID int64) ([]domain.Seat, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.From(err)
	}
	if schedule == nil {
		return nil, apperr.NotFoundf("Flight schedule not found: %d", scheduleID)
	}

	seats, err := s.seats.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, apperr.From(err)
	}
	return seats, nil
}

func (s *FlightService) cachedAvailability(ctx context.Context, key string) ([]domain.ScheduleAvailability, error) {
	if s.cache == nil {
		return nil, nil
	}
	availability, err := s.cache.GetSchedules(ctx, key)
	if err != nil {
		s.log.Warn("schedule cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return availability, nil
}

func (s *FlightService) loadAvailability(ctx context.Context, origin, destination string, day time.Time) ([]domain.ScheduleAvailability, error) {
	schedules, err := s.schedules.Search(ctx, origin, destination, day)
	if err != nil {
		return nil, apperr.From(err)
	}

	availability := make([]domain.ScheduleAvailability, 0, len(schedules))
	for _, schedule := range schedules {
		available, err := s.seats.CountByScheduleAndStatus(ctx, schedule.ID, domain.SeatStatusAvailable)
		if err != nil {
			return nil, apperr.From(err)
		}
		availability = append(availability, domain.ScheduleAvailability{Schedule: schedule, AvailableSeats: available})
	}
	return availability, nil
}

func validateSearch(origin, destination string, departureDate time.Time, passengers int, now time.Time) error {
	if origin == "" {
		return apperr.Validation("Origin airport code is required")
	}
	if destination == "" {
		return apperr.Validation("Destination airport code is required")
	}
	if !airportCodePattern.MatchString(origin) {
		return apperr.Validationf("Invalid origin airport code: %s", origin)
	}
	if !airportCodePattern.MatchString(destination) {
		return apperr.Validationf("Invalid destination airport code: %s", destination)
	}
	if origin == destination {
		return apperr.Validation("Origin and destination must be different")
	}
	if departureDate.IsZero() {
		return apperr.Validation("Departure date is required")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if departureDate.Before(today) {
		return apperr.Validation("Departure date cannot be in the past")
	}
	if passengers < 1 || passengers > MaxSearchPassengers {
		return apperr.Validationf("Passenger count must be between 1 and %d", MaxSearchPassengers)
	}
	return nil
}

func searchKey(origin, destination string, day time.Time) string {
	return fmt.Sprintf("schedules:%s:%s:%s", origin, destination, day.Format("2006-01-02"))
}

var _ FlightUseCase = (*FlightService)(nil)
