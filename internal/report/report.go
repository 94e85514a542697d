// Package report aggregates read-only views over the booking ledger.
package report

import (
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/admin"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/pricing"
)

type Source interface {
	Active() []domain.Booking
	Cancelled() []domain.Booking
	TotalAmount(b domain.Booking) domain.Money
}

type Seats interface {
	FindSeat(id string) (domain.Seat, error)
	Len() int
}

type ClassStats struct {
	Class   domain.SeatClass `json:"class"`
	Count   int              `json:"count"`
	Revenue domain.Money     `json:"revenue"`
}

type Occupancy struct {
	Booked int     `json:"booked"`
	Total  int     `json:"total"`
	Ratio  float64 `json:"ratio"`
}

type MealCount struct {
	Meal  string `json:"meal"`
	Count int    `json:"count"`
}

type Report struct {
	Classes        []ClassStats `json:"classes"`
	TotalRevenue   domain.Money `json:"total_revenue"`
	Occupancy      Occupancy    `json:"occupancy"`
	Meals          []MealCount  `json:"meals"`
	CancelledCount int          `json:"cancelled_count"`
}

// Build computes the report from the current state. Revenue uses the
// recomputed total of each active booking, not the charged amount.
func Build(src Source, seats Seats) Report {
	active := src.Active()

	byClass := make(map[domain.SeatClass]*ClassStats)
	classes := make([]ClassStats, 0, len(domain.SeatClasses()))
	for _, c := range domain.SeatClasses() {
		classes = append(classes, ClassStats{Class: c})
	}
	for i := range classes {
		byClass[classes[i].Class] = &classes[i]
	}

	meals := make(map[domain.MealPreference]int)
	var total domain.Money
	for _, b := range active {
		amount := src.TotalAmount(b)
		total += amount
		meals[b.Passenger.Meal]++

		seat, err := seats.FindSeat(b.SeatID)
		if err != nil {
			continue
		}
		if stats, ok := byClass[seat.Class]; ok {
			stats.Count++
			stats.Revenue += amount
		}
	}

	mealCounts := make([]MealCount, 0, len(domain.MealPreferences()))
	for _, m := range domain.MealPreferences() {
		mealCounts = append(mealCounts, MealCount{Meal: m.String(), Count: meals[m]})
	}

	occupancy := Occupancy{Booked: len(active), Total: seats.Len()}
	if occupancy.Total > 0 {
		occupancy.Ratio = float64(occupancy.Booked) / float64(occupancy.Total)
	}

	return Report{
		Classes:        classes,
		TotalRevenue:   total,
		Occupancy:      occupancy,
		Meals:          mealCounts,
		CancelledCount: len(src.Cancelled()),
	}
}

// Facade guards the privileged views behind an admin capability.
type Facade struct {
	src   Source
	seats Seats
}

func NewFacade(src Source, seats Seats) *Facade {
	return &Facade{src: src, seats: seats}
}

func (f *Facade) Summary(c admin.Capability) (Report, error) {
	if err := admin.Require(c); err != nil {
		return Report{}, err
	}
	return Build(f.src, f.seats), nil
}

func (f *Facade) CancelledBookings(c admin.Capability) ([]domain.Booking, error) {
	if err := admin.Require(c); err != nil {
		return nil, err
	}
	return f.src.Cancelled(), nil
}

func (f *Facade) ActiveBookings(c admin.Capability) ([]domain.Booking, error) {
	if err := admin.Require(c); err != nil {
		return nil, err
	}
	return f.src.Active(), nil
}

// Receipt builds the fare breakdown of an active booking.
func (f *Facade) Receipt(b domain.Booking) (Receipt, error) {
	seat, err := f.seats.FindSeat(b.SeatID)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt for booking %d: %w", b.ID, err)
	}
	return Receipt{
		Booking:   Limited(b),
		SeatClass: seat.Class,
		Position:  seat.Position,
		Fare:      pricing.Quote(seat, b.Passenger.LuggageKg),
		Payment:   paymentView(b.Payment),
	}, nil
}
