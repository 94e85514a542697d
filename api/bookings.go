package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/report"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/waitlist"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SeatFinder interface {
	FindSeat(id string) (domain.Seat, error)
}

type SeatOfferer interface {
	OfferFreedSeat(seat domain.Seat) waitlist.Offer
}

type ReceiptBuilder interface {
	Receipt(b domain.Booking) (report.Receipt, error)
}

type BookingHandler struct {
	service  booking.BookingUseCase
	seats    SeatFinder
	waitlist SeatOfferer
	receipts ReceiptBuilder
}

type createBookingRequest struct {
	Passenger     domain.Passenger `json:"passenger"`
	SeatID        string           `json:"seat_id" binding:"required"`
	Class         string           `json:"class"`
	PaymentMethod int              `json:"payment_method"`
}

type modifySeatRequest struct {
	SeatID string `json:"seat_id" binding:"required"`
}

type modifyMealRequest struct {
	Meal *int `json:"meal" binding:"required"`
}

type bookingResponse struct {
	Booking report.BookingView `json:"booking"`
	Receipt *report.Receipt    `json:"receipt,omitempty"`
}

type cancelResponse struct {
	Booking report.BookingView `json:"booking"`
	Refund  domain.Money       `json:"refund"`
	Offer   waitlist.Offer     `json:"waitlist_offer"`
}

func NewBookingHandler(service booking.BookingUseCase, seats SeatFinder, offers SeatOfferer, receipts ReceiptBuilder) *BookingHandler {
	return &BookingHandler{service: service, seats: seats, waitlist: offers, receipts: receipts}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.search)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.PATCH("/:id/seat", h.modifySeat)
	router.PATCH("/:id/meal", h.modifyMeal)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := booking.CreateBookingInput{
		Passenger: req.Passenger,
		SeatID:    req.SeatID,
		Method:    domain.PaymentMethod(req.PaymentMethod),
	}
	if req.Class != "" {
		class, err := domain.ParseSeatClass(req.Class)
		if err != nil {
			writeError(c, err)
			return
		}
		input.Class = class
	}

	created, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.response(*created))
}

func (h *BookingHandler) search(c *gin.Context) {
	c.JSON(http.StatusOK, report.LimitedAll(h.service.Search(c.Query("q"))))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	found, err := h.service.Find(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.response(found))
}

// cancel releases the seat and offers it to the head of the waitlist. The
// offer is reported back; nobody is booked automatically.
func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	result, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := cancelResponse{
		Booking: report.Limited(result.Booking),
		Refund:  result.Refund,
		Offer:   waitlist.Offer{Outcome: waitlist.OfferNoEntries, SeatID: result.Booking.SeatID},
	}
	if seat, err := h.seats.FindSeat(result.Booking.SeatID); err == nil {
		resp.Offer = h.waitlist.OfferFreedSeat(seat)
	} else {
		logrus.WithError(err).WithField("booking_id", id).Warn("freed seat not found, waitlist not offered")
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) modifySeat(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req modifySeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.service.ModifySeat(c.Request.Context(), id, req.SeatID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.response(*updated))
}

func (h *BookingHandler) modifyMeal(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req modifyMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.service.ModifyMeal(c.Request.Context(), id, domain.MealPreference(*req.Meal))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.response(*updated))
}

func (h *BookingHandler) response(b domain.Booking) bookingResponse {
	resp := bookingResponse{Booking: report.Limited(b)}
	if h.receipts == nil {
		return resp
	}
	if receipt, err := h.receipts.Receipt(b); err == nil {
		resp.Receipt = &receipt
	}
	return resp
}

func bookingID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "invalid booking id")
		return 0, false
	}
	return id, true
}
