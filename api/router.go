package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/app"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every handler against the application state.
func NewRouter(state *app.State) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), Logger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "flight": state.Flight.Number})
	})

	apiGroup := router.Group("/api")
	NewFlightHandler(state.Flights).Register(apiGroup)
	NewBookingHandler(state.Bookings, state.Seats, state.Waitlist, state.Reports).Register(apiGroup.Group("/bookings"))
	NewWaitlistHandler(state.Waitlist).Register(apiGroup.Group("/waitlist"))
	NewAdminHandler(state.Reports, state.Snapshots).Register(apiGroup.Group("/admin", AdminAuth(state.Admin)))

	return router
}
