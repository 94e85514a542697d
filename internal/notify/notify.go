// Package notify turns booking events into passenger notifications.
package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender renders a message per event and logs it. Events without an
// e-mail address are dropped.
type Sender struct {
	flight string
	log    logrus.FieldLogger
}

func NewSender(flightNumber string, log logrus.FieldLogger) *Sender {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sender{flight: flightNumber, log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, ok := s.Render(event)
	if !ok {
		s.log.WithFields(logrus.Fields{"booking_id": event.BookingID, "event": event.Type}).Debug("no recipient, notification skipped")
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"to":         msg.To,
		"subject":    msg.Subject,
		"booking_id": event.BookingID,
		"event_id":   event.EventID,
	}).Info(msg.Body)
	return nil
}

func (s *Sender) Render(event kafka.BookingEvent) (Message, bool) {
	if event.Email == "" {
		return Message{}, false
	}

	msg := Message{To: event.Email}
	switch event.Type {
	case kafka.EventBookingCreated:
		msg.Subject = fmt.Sprintf("Booking %d confirmed on %s", event.BookingID, s.flight)
		msg.Body = fmt.Sprintf("Dear %s, seat %s (%s) is booked. Amount paid: %s.", event.Passenger, event.SeatID, event.SeatClass, event.Amount)
	case kafka.EventBookingCancelled:
		msg.Subject = fmt.Sprintf("Booking %d cancelled", event.BookingID)
		msg.Body = fmt.Sprintf("Dear %s, your booking for seat %s was cancelled. Refund: %s.", event.Passenger, event.SeatID, event.Refund)
	case kafka.EventBookingSeatChanged:
		msg.Subject = fmt.Sprintf("Booking %d seat changed", event.BookingID)
		msg.Body = fmt.Sprintf("Dear %s, your new seat is %s.", event.Passenger, event.SeatID)
	case kafka.EventBookingMealChanged:
		msg.Subject = fmt.Sprintf("Booking %d meal updated", event.BookingID)
		msg.Body = fmt.Sprintf("Dear %s, your meal preference was updated.", event.Passenger)
	default:
		return Message{}, false
	}
	return msg, true
}
