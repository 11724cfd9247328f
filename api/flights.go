package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poornima12/ACME-AIR/internal/apperr"
	"github.com/poornima12/ACME-AIR/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id/seats", h.seats)
}

func (h *FlightHandler) search(c *gin.Context) {
	input := flights.SearchInput{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Passengers:  1,
	}

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(c, apperr.Validationf("Invalid departure date: %s, expected YYYY-MM-DD", raw))
			return
		}
		input.DepartureDate = day
	}
	if raw := c.Query("passengers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, apperr.Validationf("Invalid passenger count: %s", raw))
			return
		}
		input.Passengers = n
	}

	schedules, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *FlightHandler) seats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperr.Validationf("Invalid flight schedule id: %s", c.Param("id")))
		return
	}

	seats, err := h.service.ListSeats(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}
