package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poornima12/ACME-AIR/internal/apperr"
	"github.com/poornima12/ACME-AIR/internal/domain"
	"github.com/poornima12/ACME-AIR/internal/service/booking"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput, sessionID string) (*booking.BookingResult, error) {
	args := m.Called(ctx, input, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingResult), args.Error(1)
}

func testBookingInput() booking.CreateBookingInput {
	return booking.CreateBookingInput{
		ScheduleID: 42,
		Passengers: []booking.PassengerInput{{
			FirstName:      "Alice",
			LastName:       "Traveler",
			Email:          "alice@example.com",
			PassportNumber: "P123456",
			SeatNumber:     "12A",
		}},
		Payment: booking.PaymentInput{
			Method:        domain.PaymentMethodCreditCard,
			TransactionID: "txn-001",
			AmountCents:   25000,
			Currency:      "USD",
			Status:        domain.PaymentStatusSuccess,
		},
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := testBookingInput()
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/v1/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(sessionHeader, "sess-1")

	result := &booking.BookingResult{
		Reference:     "AIR1234ABCD",
		Status:        domain.BookingStatusConfirmed,
		FlightCode:    "AC101",
		DepartureTime: time.Now().Add(24 * time.Hour),
		Passengers:    []booking.PassengerSeat{{FirstName: "Alice", LastName: "Traveler", Email: "alice@example.com", SeatNumber: "12A"}},
		Payment:       booking.PaymentSummary{TransactionID: "txn-001", AmountCents: 25000, Currency: "USD"},
	}
	mockService.On("CreateBooking", c.Request.Context(), input, "sess-1").Return(result, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response booking.BookingResult
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "AIR1234ABCD", response.Reference)
	assert.Equal(t, domain.BookingStatusConfirmed, response.Status)
	assert.Len(t, response.Passengers, 1)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_GeneratesSession(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := testBookingInput()
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/v1/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	result := &booking.BookingResult{Reference: "AIR1234ABCD", Status: domain.BookingStatusConfirmed}
	mockService.On("CreateBooking", c.Request.Context(), input, mock.MatchedBy(func(id string) bool {
		return strings.HasPrefix(id, "session-") && len(id) == len("session-")+8
	})).Return(result, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_InvalidBody(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/api/v1/bookings", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apperr.CodeValidation, response.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_create_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"seat unavailable", apperr.SeatUnavailable("Seat 12A is not available"), http.StatusConflict, apperr.CodeSeatUnavailable},
		{"conflict", apperr.Conflict("Passenger with email alice@example.com already has a confirmed booking on this flight"), http.StatusConflict, apperr.CodeConflict},
		{"not found", apperr.NotFoundf("Flight schedule not found: %d", 42), http.StatusNotFound, apperr.CodeNotFound},
		{"validation", apperr.Validation("At least one passenger is required"), http.StatusBadRequest, apperr.CodeValidation},
		{"internal", assert.AnError, http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			body, _ := json.Marshal(testBookingInput())
			c.Request = httptest.NewRequest("POST", "/api/v1/bookings", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Request.Header.Set(sessionHeader, "sess-1")

			mockService.On("CreateBooking", mock.Anything, mock.Anything, "sess-1").Return(nil, tc.err)

			handler.create(c)

			assert.Equal(t, tc.wantStatus, w.Code)

			var response errorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tc.wantCode, response.Code)
		})
	}
}
