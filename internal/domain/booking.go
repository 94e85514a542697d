package domain

// TimestampLayout is the local-time layout used for booking and payment times.
const TimestampLayout = "2006-01-02 15:04:05"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking references its seat by id; the catalog owns the seat itself.
type Booking struct {
	ID        int       `json:"id"`
	Passenger Passenger `json:"passenger"`
	SeatID    string    `json:"seat_id"`
	Payment   Payment   `json:"payment"`
	BookedAt  string    `json:"booked_at"`
	Cancelled bool      `json:"cancelled"`
}

func (b Booking) Status() BookingStatus {
	if b.Cancelled {
		return BookingStatusCancelled
	}
	return BookingStatusConfirmed
}
