package report

import (
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/pricing"
)

// BookingView is what a passenger may see about any booking.
type BookingView struct {
	ID       int                  `json:"id"`
	Name     string               `json:"name"`
	Phone    string               `json:"phone"`
	SeatID   string               `json:"seat_id"`
	Status   domain.BookingStatus `json:"status"`
	BookedAt string               `json:"booked_at"`
}

type PaymentView struct {
	Amount        domain.Money `json:"amount"`
	Method        string       `json:"method"`
	TransactionID string       `json:"transaction_id"`
	Timestamp     string       `json:"timestamp"`
}

// FullView adds passenger details and payment, for admins only.
type FullView struct {
	BookingView
	Email      string      `json:"email"`
	Gender     string      `json:"gender"`
	Meal       string      `json:"meal"`
	Wheelchair bool        `json:"wheelchair"`
	LuggageKg  int         `json:"luggage_kg"`
	Payment    PaymentView `json:"payment"`
}

type Receipt struct {
	Booking   BookingView         `json:"booking"`
	SeatClass domain.SeatClass    `json:"seat_class"`
	Position  domain.SeatPosition `json:"position"`
	Fare      pricing.Breakdown   `json:"fare"`
	Payment   PaymentView         `json:"payment"`
}

func Limited(b domain.Booking) BookingView {
	return BookingView{
		ID:       b.ID,
		Name:     b.Passenger.Name,
		Phone:    b.Passenger.Phone,
		SeatID:   b.SeatID,
		Status:   b.Status(),
		BookedAt: b.BookedAt,
	}
}

func LimitedAll(bookings []domain.Booking) []BookingView {
	out := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, Limited(b))
	}
	return out
}

func Full(b domain.Booking) FullView {
	return FullView{
		BookingView: Limited(b),
		Email:       b.Passenger.Email,
		Gender:      b.Passenger.Gender,
		Meal:        b.Passenger.Meal.String(),
		Wheelchair:  b.Passenger.Wheelchair,
		LuggageKg:   b.Passenger.LuggageKg,
		Payment:     paymentView(b.Payment),
	}
}

func paymentView(p domain.Payment) PaymentView {
	return PaymentView{
		Amount:        p.Amount,
		Method:        p.Method.String(),
		TransactionID: p.TransactionID,
		Timestamp:     p.Timestamp,
	}
}

func FullAll(bookings []domain.Booking) []FullView {
	out := make([]FullView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, Full(b))
	}
	return out
}
