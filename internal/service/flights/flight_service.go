package flights

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
)

type FlightUseCase interface {
	Info(ctx context.Context) FlightInfo
	AvailableSeats(ctx context.Context, class domain.SeatClass, position domain.SeatPosition) []SeatView
	Seat(ctx context.Context, id string) (SeatView, error)
}

type SeatView struct {
	domain.Seat
	Price domain.Money `json:"price"`
}

type ClassAvailability struct {
	Class     domain.SeatClass `json:"class"`
	Total     int              `json:"total"`
	Available int              `json:"available"`
	Price     domain.Money     `json:"price"`
}

type Stats struct {
	Total     int                 `json:"total"`
	Booked    int                 `json:"booked"`
	Available int                 `json:"available"`
	ByClass   []ClassAvailability `json:"by_class"`
}

// FlightInfo is the seat map of the flight together with occupancy figures.
type FlightInfo struct {
	Flight domain.Flight `json:"flight"`
	Seats  []SeatView    `json:"seats"`
	Stats  Stats         `json:"stats"`
}

type FlightService struct {
	flight domain.Flight
	seats  *catalog.Catalog
}

func NewFlightService(flight domain.Flight, seats *catalog.Catalog) *FlightService {
	return &FlightService{flight: flight, seats: seats}
}

func (s *FlightService) Info(_ context.Context) FlightInfo {
	all := s.seats.All()

	views := make([]SeatView, 0, len(all))
	byClass := make(map[domain.SeatClass]*ClassAvailability)
	classes := make([]ClassAvailability, 0, len(domain.SeatClasses()))
	for _, c := range domain.SeatClasses() {
		classes = append(classes, ClassAvailability{Class: c})
	}
	for i := range classes {
		byClass[classes[i].Class] = &classes[i]
	}

	stats := Stats{Total: len(all)}
	for _, seat := range all {
		views = append(views, view(seat))
		ca := byClass[seat.Class]
		ca.Total++
		ca.Price = seat.Price()
		if seat.Occupied {
			stats.Booked++
			continue
		}
		ca.Available++
	}
	stats.Available = stats.Total - stats.Booked
	stats.ByClass = classes

	return FlightInfo{Flight: s.flight, Seats: views, Stats: stats}
}

func (s *FlightService) AvailableSeats(_ context.Context, class domain.SeatClass, position domain.SeatPosition) []SeatView {
	free := s.seats.ListAvailable(class, position)
	out := make([]SeatView, 0, len(free))
	for _, seat := range free {
		out = append(out, view(seat))
	}
	return out
}

func (s *FlightService) Seat(_ context.Context, id string) (SeatView, error) {
	seat, err := s.seats.FindSeat(id)
	if err != nil {
		return SeatView{}, err
	}
	return view(seat), nil
}

func view(seat domain.Seat) SeatView {
	return SeatView{Seat: seat, Price: seat.Price()}
}

var _ FlightUseCase = (*FlightService)(nil)
