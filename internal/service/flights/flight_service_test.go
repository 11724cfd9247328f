package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poornima12/ACME-AIR/internal/apperr"
	"github.com/poornima12/ACME-AIR/internal/domain"
)

type MockFlightScheduleRepository struct {
	mock.Mock
}

func (m *MockFlightScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.FlightSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightSchedule), args.Error(1)
}

func (m *MockFlightScheduleRepository) Search(ctx context.Context, origin, destination string, day time.Time) ([]domain.FlightSchedule, error) {
	args := m.Called(ctx, origin, destination, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightSchedule), args.Error(1)
}

type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) GetByID(ctx context.Context, id int64) (*domain.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) FindByScheduleAndNumbers(ctx context.Context, scheduleID int64, seatNumbers []string) ([]domain.Seat, error) {
	args := m.Called(ctx, scheduleID, seatNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) ListBySchedule(ctx context.Context, scheduleID int64) ([]domain.Seat, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) CountByScheduleAndStatus(ctx context.Context, scheduleID int64, status domain.SeatStatus) (int, error) {
	args := m.Called(ctx, scheduleID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) UpdateStatus(ctx context.Context, id int64, status domain.SeatStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSchedules(ctx context.Context, key string) ([]domain.ScheduleAvailability, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleAvailability), args.Error(1)
}

func (m *MockCache) SetSchedules(ctx context.Context, key string, schedules []domain.ScheduleAvailability) error {
	args := m.Called(ctx, key, schedules)
	return args.Error(0)
}

var searchNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestFlightService(schedules *MockFlightScheduleRepository, seats *MockSeatRepository, cache Cache) *FlightService {
	svc := NewFlightService(schedules, seats, cache, nil)
	svc.now = func() time.Time { return searchNow }
	return svc
}

func searchSchedule() domain.FlightSchedule {
	return domain.FlightSchedule{
		ID:            42,
		FlightCode:    "AC101",
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureTime: searchNow.Add(48 * time.Hour),
		ArrivalTime:   searchNow.Add(54 * time.Hour),
		TotalSeats:    180,
		PriceCents:    25000,
		Currency:      "USD",
	}
}

func TestSearch_CacheMiss(t *testing.T) {
	schedules := &MockFlightScheduleRepository{}
	seats := &MockSeatRepository{}
	cache := &MockCache{}
	service := newTestFlightService(schedules, seats, cache)

	ctx := context.Background()
	day := searchNow.Add(48 * time.Hour)
	schedule := searchSchedule()
	key := "schedules:JFK:LAX:" + day.Format("2006-01-02")
	expected := []domain.ScheduleAvailability{{Schedule: schedule, AvailableSeats: 120}}

	cache.On("GetSchedules", ctx, key).Return(nil, nil).Once()
	schedules.On("Search", ctx, "JFK", "LAX", day).Return([]domain.FlightSchedule{schedule}, nil).Once()
	seats.On("CountByScheduleAndStatus", ctx, int64(42), domain.SeatStatusAvailable).Return(120, nil).Once()
	cache.On("SetSchedules", ctx, key, expected).Return(nil).Once()

	result, err := service.Search(ctx, SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: day, Passengers: 2})

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	cache.AssertExpectations(t)
	schedules.AssertExpectations(t)
}

func TestSearch_CacheHit(t *testing.T) {
	schedules := &MockFlightScheduleRepository{}
	seats := &MockSeatRepository{}
	cache := &MockCache{}
	service := newTestFlightService(schedules, seats, cache)

	ctx := context.Background()
	day := searchNow.Add(48 * time.Hour)
	key := "schedules:JFK:LAX:" + day.Format("2006-01-02")
	cached := []domain.ScheduleAvailability{{Schedule: searchSchedule(), AvailableSeats: 120}}

	cache.On("GetSchedules", ctx, key).Return(cached, nil).Once()

	result, err := service.Search(ctx, SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: day, Passengers: 1})

	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	schedules.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetSchedules", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_CacheErrorFallsThrough(t *testing.T) {
	schedules := &MockFlightScheduleRepository{}
	seats := &MockSeatRepository{}
	cache := &MockCache{}
	service := newTestFlightService(schedules, seats, cache)

	ctx := context.Background()
	day := searchNow.Add(48 * time.Hour)
	schedule := searchSchedule()

	cache.On("GetSchedules", ctx, mock.AnythingOfType("string")).Return(nil, errors.New("cache down")).Once()
	schedules.On("Search", ctx, "JFK", "LAX", day).Return([]domain.FlightSchedule{schedule}, nil).Once()
	seats.On("CountByScheduleAndStatus", ctx, int64(42), domain.SeatStatusAvailable).Return(120, nil).Once()
	cache.On("SetSchedules", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

	result, err := service.Search(ctx, SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: day, Passengers: 1})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	schedules.AssertExpectations(t)
}

func TestSearch_FiltersByPartySize(t *testing.T) {
	schedules := &MockFlightScheduleRepository{}
	seats := &MockSeatRepository{}
	service := newTestFlightService(schedules, seats, nil)

	ctx := context.Background()
	day := searchNow.Add(48 * time.Hour)
	full := searchSchedule()
	roomy := searchSchedule()
	roomy.ID = 43
	roomy.FlightCode = "AC202"

	schedules.On("Search", ctx, "JFK", "LAX", day).Return([]domain.FlightSchedule{full, roomy}, nil).Once()
	seats.On("CountByScheduleAndStatus", ctx, int64(42), domain.SeatStatusAvailable).Return(1, nil).Once()
	seats.On("CountByScheduleAndStatus", ctx, int64(43), domain.SeatStatusAvailable).Return(5, nil).Once()

	result, err := service.Search(ctx, SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: day, Passengers: 3})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "AC202", result[0].Schedule.FlightCode)
}

func TestSearch_NoMatches(t *testing.T) {
	schedules := &MockFlightScheduleRepository{}
	seats := &MockSeatRepository{}
	service := newTestFlightService(schedules, seats, nil)

	ctx := context.Background()
	day := searchNow.Add(48 * time.Hour)

	schedules.On("Search", ctx, "JFK", "LAX", day).Return([]domain.FlightSchedule{}, nil).Once()

	result, err := service.Search(ctx, SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: day, Passengers: 1})

	assert.Nil(t, result)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Contains(t, err.Error(), "No flights found matching the search criteria")
}

func TestSearch_Validation(t *testing.T) {
	service := newTestFlightService(&MockFlightScheduleRepository{}, &MockSeatRepository{}, nil)
	ctx := context.Background()
	day := searchNow.Add(48 * time.Hour)

	cases := []struct {
		name    string
		input   SearchInput
		message string
	}{
		{"missing origin", SearchInput{Destination: "LAX", DepartureDate: day, Passengers: 1}, "Origin airport code is required"},
		{"missing destination", SearchInput{Origin: "JFK", DepartureDate: day, Passengers: 1}, "Destination airport code is required"},
		{"bad origin", SearchInput{Origin: "NEWYORK", Destination: "LAX", DepartureDate: day, Passengers: 1}, "Invalid origin airport code: NEWYORK"},
		{"bad destination", SearchInput{Origin: "JFK", Destination: "LA", DepartureDate: day, Passengers: 1}, "Invalid destination airport code: LA"},
		{"same airports", SearchInput{Origin: "JFK", Destination: "jfk", DepartureDate: day, Passengers: 1}, "Origin and destination must be different"},
		{"missing date", SearchInput{Origin: "JFK", Destination: "LAX", Passengers: 1}, "Departure date is required"},
		{"past date", SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: searchNow.Add(-48 * time.Hour), Passengers: 1}, "Departure date cannot be in the past"},
		{"zero passengers", SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: day}, "Passenger count must be between 1 and 9"},
		{"too many passengers", SearchInput{Origin: "JFK", Destination: "LAX", DepartureDate: day, Passengers: 10}, "Passenger count must be between 1 and 9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.Search(ctx, tc.input)
			assert.Nil(t, result)
			assert.True(t, apperr.Is(err, apperr.CodeValidation))
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestListSeats_Success(t *testing.T) {
	schedules := &MockFlightScheduleRepository{}
	seats := &MockSeatRepository{}
	service := newTestFlightService(schedules, seats, nil)

	ctx := context.Background()
	schedule := searchSchedule()
	seatList := []domain.Seat{
		{ID: 101, ScheduleID: 42, SeatNumber: "12A", Status: domain.SeatStatusAvailable},
		{ID: 102, ScheduleID: 42, SeatNumber: "12B", Status: domain.SeatStatusBooked},
	}

	schedules.On("GetByID", ctx, int64(42)).Return(&schedule, nil).Once()
	seats.On("ListBySchedule", ctx, int64(42)).Return(seatList, nil).Once()

	result, err := service.ListSeats(ctx, 42)

	assert.NoError(t, err)
	assert.Equal(t, seatList, result)
}

func TestListSeats_ScheduleNotFound(t *testing.T) {
	schedules := &MockFlightScheduleRepository{}
	seats := &MockSeatRepository{}
	service := newTestFlightService(schedules, seats, nil)

	schedules.On("GetByID", mock.Anything, int64(999)).Return(nil, nil).Once()

	result, err := service.ListSeats(context.Background(), 999)

	assert.Nil(t, result)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Contains(t, err.Error(), "Flight schedule not found: 999")
	seats.AssertNotCalled(t, "ListBySchedule", mock.Anything, mock.Anything)
}
