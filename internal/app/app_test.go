package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/persistence"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/waitlist"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "bookings.txt")
	cfg.Admin = config.AdminConfig{Username: "admin", Password: "pw"}
	return cfg
}

func TestNew_FileBackend(t *testing.T) {
	cfg := testConfig(t)
	state, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer state.Close()

	assert.Equal(t, "AI101", state.Flight.Number)
	assert.Equal(t, 33, state.Seats.Len())
	assert.IsType(t, &persistence.FileStore{}, state.Store)
	assert.True(t, state.Admin.Enabled())

	_, err = state.Bookings.CreateBooking(context.Background(), booking.CreateBookingInput{
		Passenger: domain.Passenger{Name: "Ann"},
		SeatID:    "1A",
	})
	require.NoError(t, err)
	n, err := state.Snapshots.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reloaded, err := New(context.Background(), cfg)
	require.NoError(t, err)
	result, err := reloaded.Snapshots.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Restored)
	assert.Equal(t, 2, reloaded.Bookings.NextID())
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "s3"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_CustomSeats(t *testing.T) {
	cfg := testConfig(t)
	state, err := New(context.Background(), cfg, WithSeats([]domain.Seat{
		{ID: "1A", Class: domain.SeatClassEconomy, BasePrice: domain.Units(80)},
	}), WithStore(persistence.NewFileStore(cfg.Store.Path)))
	require.NoError(t, err)
	assert.Equal(t, 1, state.Seats.Len())

	_, err = New(context.Background(), cfg, WithSeats([]domain.Seat{{ID: "1A", Class: "x"}}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestState_CancelAndOffer(t *testing.T) {
	state, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	ctx := context.Background()

	b, err := state.Bookings.CreateBooking(ctx, booking.CreateBookingInput{Passenger: domain.Passenger{Name: "Ann"}, SeatID: "6A"})
	require.NoError(t, err)
	_, err = state.Waitlist.Enqueue(domain.Passenger{Name: "Eco"}, domain.SeatClassEconomy)
	require.NoError(t, err)
	_, err = state.Waitlist.Enqueue(domain.Passenger{Name: "Biz"}, domain.SeatClassBusiness)
	require.NoError(t, err)

	result, offer, err := state.CancelAndOffer(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Units(270), result.Refund)
	assert.Equal(t, waitlist.OfferDiscarded, offer.Outcome)
	assert.Equal(t, "Eco", offer.Entry.Passenger.Name)
	assert.Equal(t, 1, state.Waitlist.Len())

	_, _, err = state.CancelAndOffer(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestNew_RequeuePolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Waitlist.RequeueMismatched = true
	state, err := New(context.Background(), cfg)
	require.NoError(t, err)

	_, _ = state.Waitlist.Enqueue(domain.Passenger{Name: "Eco"}, domain.SeatClassEconomy)
	seat, _ := state.Seats.FindSeat("9A")
	offer := state.Waitlist.OfferFreedSeat(seat)
	assert.Equal(t, waitlist.OfferRequeued, offer.Outcome)
	assert.Equal(t, 1, state.Waitlist.Len())
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	var buf bytes.Buffer
	require.NoError(t, ConfigureLogging(config.LogConfig{Level: "warn", Format: "json"}, &buf))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	logrus.WithField("k", "v").Warn("hello")
	assert.Contains(t, buf.String(), `"k":"v"`)

	assert.Error(t, ConfigureLogging(config.LogConfig{Level: "loud"}, nil))
	assert.Error(t, ConfigureLogging(config.LogConfig{Level: "info", Format: "xml"}, nil))
	require.NoError(t, ConfigureLogging(config.LogConfig{}, nil))
}
