package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/admin"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/report"
	"github.com/gin-gonic/gin"
)

type Reports interface {
	Summary(c admin.Capability) (report.Report, error)
	CancelledBookings(c admin.Capability) ([]domain.Booking, error)
	ActiveBookings(c admin.Capability) ([]domain.Booking, error)
}

type Saver interface {
	Save(ctx context.Context) (int, error)
}

type AdminHandler struct {
	reports Reports
	saver   Saver
}

func NewAdminHandler(reports Reports, saver Saver) *AdminHandler {
	return &AdminHandler{reports: reports, saver: saver}
}

// Register expects router to be guarded by AdminAuth.
func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/reports", h.summary)
	router.GET("/cancelled", h.cancelled)
	router.GET("/bookings", h.bookings)
	router.POST("/save", h.save)
}

func (h *AdminHandler) summary(c *gin.Context) {
	r, err := h.reports.Summary(capabilityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *AdminHandler) cancelled(c *gin.Context) {
	bookings, err := h.reports.CancelledBookings(capabilityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report.FullAll(bookings))
}

func (h *AdminHandler) bookings(c *gin.Context) {
	bookings, err := h.reports.ActiveBookings(capabilityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report.FullAll(bookings))
}

func (h *AdminHandler) save(c *gin.Context) {
	if err := admin.Require(capabilityFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	n, err := h.saver.Save(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": n})
}
