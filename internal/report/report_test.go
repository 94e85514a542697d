package report

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/admin"
	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/pricing"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededLedger(t *testing.T) (*booking.BookingService, *catalog.Catalog) {
	t.Helper()
	seats := catalog.NewDefault()
	logger, _ := test.NewNullLogger()
	svc := booking.NewBookingService(seats, booking.WithLogger(logger))
	ctx := context.Background()

	for _, in := range []booking.CreateBookingInput{
		{Passenger: domain.Passenger{Name: "A", Meal: domain.MealVegan}, SeatID: "1A"},
		{Passenger: domain.Passenger{Name: "B", Meal: domain.MealVegan, LuggageKg: 25}, SeatID: "2A"},
		{Passenger: domain.Passenger{Name: "C", Meal: domain.MealNone}, SeatID: "6A"},
		{Passenger: domain.Passenger{Name: "D", Meal: domain.MealNonVeg}, SeatID: "9A"},
	} {
		_, err := svc.CreateBooking(ctx, in)
		require.NoError(t, err)
	}
	_, err := svc.CancelBooking(ctx, 4)
	require.NoError(t, err)
	return svc, seats
}

func TestBuild(t *testing.T) {
	svc, seats := seededLedger(t)

	r := Build(svc, seats)

	assert.Equal(t, []ClassStats{
		{Class: domain.SeatClassEconomy, Count: 2, Revenue: domain.Units(250)},
		{Class: domain.SeatClassBusiness, Count: 1, Revenue: domain.Units(300)},
		{Class: domain.SeatClassFirst, Count: 0, Revenue: 0},
	}, r.Classes)
	assert.Equal(t, domain.Units(550), r.TotalRevenue)
	assert.Equal(t, 3, r.Occupancy.Booked)
	assert.Equal(t, 33, r.Occupancy.Total)
	assert.InDelta(t, 3.0/33.0, r.Occupancy.Ratio, 1e-9)
	assert.Equal(t, []MealCount{
		{Meal: "Vegetarian", Count: 0},
		{Meal: "Non-Veg", Count: 0},
		{Meal: "Vegan", Count: 2},
		{Meal: "No Meal", Count: 1},
	}, r.Meals)
	assert.Equal(t, 1, r.CancelledCount)
}

func TestBuild_RevenueFollowsSeatChange(t *testing.T) {
	svc, seats := seededLedger(t)
	_, err := svc.ModifySeat(context.Background(), 3, "7B")
	require.NoError(t, err)

	r := Build(svc, seats)
	assert.Equal(t, 1, r.Classes[1].Count)
	assert.Equal(t, domain.Units(300), r.Classes[1].Revenue)
}

func TestFacade_RequiresCapability(t *testing.T) {
	svc, seats := seededLedger(t)
	facade := NewFacade(svc, seats)

	_, err := facade.Summary(admin.Capability{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = facade.CancelledBookings(admin.Capability{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = facade.ActiveBookings(admin.Capability{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	gate, err := admin.NewGate("admin", "pw")
	require.NoError(t, err)
	capability, err := gate.Authenticate("admin", "pw")
	require.NoError(t, err)

	r, err := facade.Summary(capability)
	require.NoError(t, err)
	assert.Equal(t, 1, r.CancelledCount)

	cancelled, err := facade.CancelledBookings(capability)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "D", cancelled[0].Passenger.Name)

	active, err := facade.ActiveBookings(capability)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestFacade_Receipt(t *testing.T) {
	svc, seats := seededLedger(t)
	b, err := svc.Find(2)
	require.NoError(t, err)

	receipt, err := NewFacade(svc, seats).Receipt(b)
	require.NoError(t, err)
	assert.Equal(t, pricing.Breakdown{
		BaseFare:         domain.Units(100),
		LuggageSurcharge: domain.Units(50),
		Total:            domain.Units(150),
	}, receipt.Fare)
	assert.Equal(t, domain.SeatPositionWindow, receipt.Position)
	assert.Equal(t, "Credit Card", receipt.Payment.Method)

	_, err = NewFacade(svc, seats).Receipt(domain.Booking{ID: 99, SeatID: "nope"})
	assert.ErrorIs(t, err, domain.ErrSeatNotFound)
}

func TestViews(t *testing.T) {
	b := domain.Booking{
		ID:        5,
		Passenger: domain.Passenger{Name: "Ann", Phone: "1", Email: "a@x", Meal: domain.MealVegan, LuggageKg: 3},
		SeatID:    "3C",
		Payment:   domain.Payment{Amount: domain.Units(100), Method: domain.PaymentUPI},
		Cancelled: true,
	}

	limited := Limited(b)
	assert.Equal(t, BookingView{ID: 5, Name: "Ann", Phone: "1", SeatID: "3C", Status: domain.BookingStatusCancelled}, limited)

	full := Full(b)
	assert.Equal(t, limited, full.BookingView)
	assert.Equal(t, "Vegan", full.Meal)
	assert.Equal(t, "UPI", full.Payment.Method)
	assert.Len(t, FullAll([]domain.Booking{b, b}), 2)
	assert.Len(t, LimitedAll(nil), 0)
}
