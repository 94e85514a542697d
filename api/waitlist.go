package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/gin-gonic/gin"
)

type WaitlistQueue interface {
	Enqueue(p domain.Passenger, class domain.SeatClass) (int, error)
	PeekAll() []domain.WaitlistEntry
}

type WaitlistHandler struct {
	queue WaitlistQueue
}

type enqueueRequest struct {
	Passenger domain.Passenger `json:"passenger"`
	Class     string           `json:"class" binding:"required"`
}

type waitlistEntryResponse struct {
	Position     int              `json:"position"`
	Name         string           `json:"name"`
	Phone        string           `json:"phone"`
	DesiredClass domain.SeatClass `json:"desired_class"`
}

func NewWaitlistHandler(queue WaitlistQueue) *WaitlistHandler {
	return &WaitlistHandler{queue: queue}
}

func (h *WaitlistHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.enqueue)
	router.GET("", h.list)
}

func (h *WaitlistHandler) enqueue(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	class, err := domain.ParseSeatClass(req.Class)
	if err != nil {
		writeError(c, err)
		return
	}
	position, err := h.queue.Enqueue(req.Passenger, class)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, waitlistEntryResponse{
		Position:     position,
		Name:         req.Passenger.Name,
		Phone:        req.Passenger.Phone,
		DesiredClass: class,
	})
}

func (h *WaitlistHandler) list(c *gin.Context) {
	entries := h.queue.PeekAll()
	out := make([]waitlistEntryResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, waitlistEntryResponse{
			Position:     i + 1,
			Name:         e.Passenger.Name,
			Phone:        e.Passenger.Phone,
			DesiredClass: e.DesiredClass,
		})
	}
	c.JSON(http.StatusOK, out)
}
