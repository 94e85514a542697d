package booking

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

func newTestService(opts ...BookingServiceOption) (*BookingService, *catalog.Catalog) {
	seats := catalog.NewDefault()
	logger, _ := test.NewNullLogger()
	base := []BookingServiceOption{
		WithClock(func() time.Time { return fixedNow }),
		WithTxnIDGenerator(func() string { return "TXN000001" }),
		WithLogger(logger),
	}
	return NewBookingService(seats, append(base, opts...)...), seats
}

func passenger(name string) domain.Passenger {
	return domain.Passenger{
		Name:   name,
		Phone:  "555-0100",
		Email:  name + "@example.com",
		Gender: "F",
		Meal:   domain.MealVegan,
	}
}

func occupied(t *testing.T, seats *catalog.Catalog, id string) bool {
	t.Helper()
	seat, err := seats.FindSeat(id)
	require.NoError(t, err)
	return seat.Occupied
}

func TestBookingService_CreateAndCancelScenario(t *testing.T) {
	svc, seats := newTestService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, CreateBookingInput{
		Passenger: passenger("Ann"),
		SeatID:    "1A",
		Method:    domain.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, booking.ID)
	assert.Equal(t, "1A", booking.SeatID)
	assert.True(t, occupied(t, seats, "1A"))
	assert.Equal(t, "100.00", svc.TotalAmount(*booking).String())
	assert.Equal(t, domain.Units(100), booking.Payment.Amount)
	assert.Equal(t, "TXN000001", booking.Payment.TransactionID)
	assert.Equal(t, "2024-03-01 09:30:00", booking.BookedAt)

	result, err := svc.CancelBooking(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "90.00", result.Refund.String())
	assert.True(t, result.Booking.Cancelled)
	assert.False(t, occupied(t, seats, "1A"))

	cancelled := svc.Cancelled()
	require.Len(t, cancelled, 1)
	assert.Equal(t, 1, cancelled[0].ID)
	assert.Empty(t, svc.Search("Ann"))
	assert.Empty(t, svc.Search("1"))

	_, err = svc.Find(1)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	// ids are never reused
	next, err := svc.CreateBooking(ctx, CreateBookingInput{Passenger: passenger("Bob"), SeatID: "1A"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID)
}

func TestBookingService_CreateBooking_Errors(t *testing.T) {
	svc, seats := newTestService()
	ctx := context.Background()
	_, err := svc.CreateBooking(ctx, CreateBookingInput{Passenger: passenger("Ann"), SeatID: "2B"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input CreateBookingInput
		want  error
	}{
		{"unknown seat", CreateBookingInput{Passenger: passenger("A"), SeatID: "42Z"}, domain.ErrSeatNotFound},
		{"occupied seat", CreateBookingInput{Passenger: passenger("A"), SeatID: "2B"}, domain.ErrSeatOccupied},
		{"class mismatch", CreateBookingInput{Passenger: passenger("A"), SeatID: "3A", Class: domain.SeatClassFirst}, domain.ErrClassMismatch},
		{"empty name", CreateBookingInput{Passenger: passenger(" "), SeatID: "3A"}, domain.ErrInvalidInput},
		{"negative luggage", CreateBookingInput{Passenger: domain.Passenger{Name: "A", LuggageKg: -1}, SeatID: "3A"}, domain.ErrInvalidInput},
		{"bad meal", CreateBookingInput{Passenger: domain.Passenger{Name: "A", Meal: 9}, SeatID: "3A"}, domain.ErrInvalidInput},
		{"bad payment", CreateBookingInput{Passenger: passenger("A"), SeatID: "3A", Method: 8}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, err := svc.CreateBooking(ctx, tt.input)
			assert.Nil(t, booking)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.False(t, occupied(t, seats, "3A"))
	assert.Equal(t, 1, seats.OccupiedCount())
	assert.Equal(t, 2, svc.NextID())
}

func TestBookingService_CreateBooking_LuggageSurcharge(t *testing.T) {
	svc, _ := newTestService()
	p := passenger("Cat")
	p.LuggageKg = 25

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{Passenger: p, SeatID: "9A", Class: domain.SeatClassFirst})
	require.NoError(t, err)
	assert.Equal(t, domain.Units(650), booking.Payment.Amount)

	result, err := svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Units(585), result.Refund)
}

func TestBookingService_CancelBooking_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CancelBooking(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_ModifySeat(t *testing.T) {
	svc, seats := newTestService()
	ctx := context.Background()
	booking, err := svc.CreateBooking(ctx, CreateBookingInput{Passenger: passenger("Ann"), SeatID: "6A"})
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, CreateBookingInput{Passenger: passenger("Bob"), SeatID: "6B"})
	require.NoError(t, err)

	t.Run("class mismatch leaves both seats unchanged", func(t *testing.T) {
		_, err := svc.ModifySeat(ctx, booking.ID, "1A")
		assert.ErrorIs(t, err, domain.ErrClassMismatch)
		assert.True(t, occupied(t, seats, "6A"))
		assert.False(t, occupied(t, seats, "1A"))
	})

	t.Run("occupied target", func(t *testing.T) {
		_, err := svc.ModifySeat(ctx, booking.ID, "6B")
		assert.ErrorIs(t, err, domain.ErrSeatOccupied)
		assert.True(t, occupied(t, seats, "6A"))
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := svc.ModifySeat(ctx, booking.ID, "66A")
		assert.ErrorIs(t, err, domain.ErrSeatNotFound)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := svc.ModifySeat(ctx, 99, "7A")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("same class move", func(t *testing.T) {
		updated, err := svc.ModifySeat(ctx, booking.ID, "8C")
		require.NoError(t, err)
		assert.Equal(t, "8C", updated.SeatID)
		assert.Equal(t, booking.ID, updated.ID)
		assert.Equal(t, booking.Payment, updated.Payment)
		assert.False(t, occupied(t, seats, "6A"))
		assert.True(t, occupied(t, seats, "8C"))
	})
}

func TestBookingService_ModifyMeal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	booking, err := svc.CreateBooking(ctx, CreateBookingInput{Passenger: passenger("Ann"), SeatID: "4D"})
	require.NoError(t, err)

	updated, err := svc.ModifyMeal(ctx, booking.ID, domain.MealNone)
	require.NoError(t, err)
	assert.Equal(t, domain.MealNone, updated.Passenger.Meal)

	found, err := svc.Find(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MealNone, found.Passenger.Meal)

	_, err = svc.ModifyMeal(ctx, 77, domain.MealVegan)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	_, err = svc.ModifyMeal(ctx, booking.ID, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBookingService_Search(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, in := range []CreateBookingInput{
		{Passenger: domain.Passenger{Name: "Alice Smith", Phone: "111"}, SeatID: "1A"},
		{Passenger: domain.Passenger{Name: "Bob Stone", Phone: "222"}, SeatID: "1B"},
		{Passenger: domain.Passenger{Name: "Carol", Phone: "3111"}, SeatID: "1C"},
	} {
		_, err := svc.CreateBooking(ctx, in)
		require.NoError(t, err)
	}

	ids := func(bs []domain.Booking) []int {
		out := make([]int, 0, len(bs))
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	assert.Equal(t, []int{1, 2}, ids(svc.Search("s")))
	assert.Equal(t, []int{1, 3}, ids(svc.Search("111")))
	assert.Equal(t, []int{2}, ids(svc.Search("2")))
	assert.Equal(t, []int{1, 2, 3}, ids(svc.Search("")))
	assert.Empty(t, svc.Search("zzz"))
}

func TestBookingService_Restore(t *testing.T) {
	svc, seats := newTestService()

	stats := svc.Restore([]domain.Booking{
		{ID: 3, Passenger: passenger("A"), SeatID: "1A", BookedAt: "2024-01-01 10:00:00"},
		{ID: 7, Passenger: passenger("B"), SeatID: "6A"},
		{ID: 1, Passenger: passenger("C"), SeatID: "9B"},
		{ID: 4, Passenger: passenger("D"), SeatID: "ZZ"},
		{ID: 5, Passenger: passenger("E"), SeatID: "1A"},
		{ID: 7, Passenger: passenger("F"), SeatID: "2A"},
	})
	assert.Equal(t, RestoreStats{Restored: 3, Skipped: 3}, stats)
	assert.Equal(t, 8, svc.NextID())
	assert.Equal(t, 3, seats.OccupiedCount())

	restored, err := svc.Find(3)
	require.NoError(t, err)
	assert.Equal(t, "TXN000001", restored.Payment.TransactionID)
	assert.Equal(t, "2024-01-01 10:00:00", restored.Payment.Timestamp)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{Passenger: passenger("G"), SeatID: "2A"})
	require.NoError(t, err)
	assert.Equal(t, 8, booking.ID)
}

func TestBookingService_OccupancyInvariant(t *testing.T) {
	svc, seats := newTestService()
	ctx := context.Background()
	all := seats.All()
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 2000; step++ {
		seat := all[rng.Intn(len(all))]
		switch rng.Intn(3) {
		case 0:
			_, _ = svc.CreateBooking(ctx, CreateBookingInput{Passenger: passenger("P"), SeatID: seat.ID})
		case 1:
			if active := svc.Active(); len(active) > 0 {
				_, err := svc.CancelBooking(ctx, active[rng.Intn(len(active))].ID)
				require.NoError(t, err)
			}
		case 2:
			if active := svc.Active(); len(active) > 0 {
				_, _ = svc.ModifySeat(ctx, active[rng.Intn(len(active))].ID, seat.ID)
			}
		}

		refs := map[string]int{}
		for _, b := range svc.Active() {
			refs[b.SeatID]++
		}
		for _, s := range seats.All() {
			if s.Occupied {
				require.Equal(t, 1, refs[s.ID], "step %d seat %s", step, s.ID)
			} else {
				require.Zero(t, refs[s.ID], "step %d seat %s", step, s.ID)
			}
		}
	}
}

func TestBookingService_PublishesEvents(t *testing.T) {
	producer := &MockProducer{}
	svc, _ := newTestService(WithProducer(producer, "bookings", "notifications"))
	ctx := context.Background()

	producer.On("Publish", ctx, "bookings", "booking-1", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCreated && e.SeatClass == domain.SeatClassEconomy && e.Amount == domain.Units(100)
	})).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", "booking-1", mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Once()

	_, err := svc.CreateBooking(ctx, CreateBookingInput{Passenger: passenger("Ann"), SeatID: "1A"})
	require.NoError(t, err)

	producer.On("Publish", ctx, "bookings", "booking-1", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCancelled && e.Refund == domain.Units(90)
	})).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", "booking-1", mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Once()

	_, err = svc.CancelBooking(ctx, 1)
	require.NoError(t, err)

	producer.AssertExpectations(t)
}

func TestBookingService_PublishFailureDoesNotFailBooking(t *testing.T) {
	producer := &MockProducer{}
	logger, hook := test.NewNullLogger()
	svc, seats := newTestService(WithProducer(producer, "bookings", ""), WithLogger(logger))

	producer.On("Publish", mock.Anything, "bookings", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{Passenger: passenger("Ann"), SeatID: "5C"})
	require.NoError(t, err)
	assert.Equal(t, 1, booking.ID)
	assert.True(t, occupied(t, seats, "5C"))
	producer.AssertNumberOfCalls(t, "Publish", 1)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
