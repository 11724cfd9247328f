package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/poornima12/ACME-AIR/internal/apperr"
	"github.com/poornima12/ACME-AIR/internal/service/booking"
)

const sessionHeader = "X-Session-ID"

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
}

func (h *BookingHandler) create(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, apperr.Validation("Invalid request body: "+err.Error()))
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), input, sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// sessionID reads the caller's seat-lock session from the request header.
// Callers that never locked seats beforehand get a fresh session, which
// can then lock and book in the same request.
func sessionID(c *gin.Context) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	return "session-" + uuid.NewString()[:8]
}
