package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flight", h.info)
	router.GET("/seats", h.available)
	router.GET("/seats/:id", h.seat)
}

func (h *FlightHandler) info(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Info(c.Request.Context()))
}

func (h *FlightHandler) available(c *gin.Context) {
	var class domain.SeatClass
	if raw := c.Query("class"); raw != "" {
		parsed, err := domain.ParseSeatClass(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		class = parsed
	}
	var position domain.SeatPosition
	if raw := c.Query("position"); raw != "" {
		parsed, err := domain.ParseSeatPosition(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		position = parsed
	}

	c.JSON(http.StatusOK, h.service.AvailableSeats(c.Request.Context(), class, position))
}

func (h *FlightHandler) seat(c *gin.Context) {
	seat, err := h.service.Seat(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, seat)
}
