package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

type EventType string

const (
	EventBookingCreated     EventType = "booking_created"
	EventBookingCancelled   EventType = "booking_cancelled"
	EventBookingSeatChanged EventType = "booking_seat_changed"
	EventBookingMealChanged EventType = "booking_meal_changed"
)

type BookingEvent struct {
	Type       EventType        `json:"type"`
	EventID    string           `json:"event_id"`
	BookingID  int              `json:"booking_id"`
	SeatID     string           `json:"seat_id"`
	SeatClass  domain.SeatClass `json:"seat_class"`
	Passenger  string           `json:"passenger"`
	Email      string           `json:"email,omitempty"`
	Amount     domain.Money     `json:"amount"`
	Refund     domain.Money     `json:"refund,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func (e BookingEvent) Key() string {
	return fmt.Sprintf("booking-%d", e.BookingID)
}

func DecodeBookingEvent(data []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	if event.Type == "" {
		return BookingEvent{}, fmt.Errorf("decode booking event: missing type")
	}
	return event, nil
}
