// Package app builds the process-wide state once at startup and hands it to
// the HTTP server, the CLI and the worker.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/admin"
	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/persistence"
	"github.com/Domenick1991/flightdesk/internal/report"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/Domenick1991/flightdesk/internal/service/waitlist"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type State struct {
	Flight    domain.Flight
	Seats     *catalog.Catalog
	Flights   *flights.FlightService
	Bookings  *booking.BookingService
	Waitlist  *waitlist.Waitlist
	Store     persistence.Store
	Snapshots *persistence.Snapshotter
	Reports   *report.Facade
	Admin     *admin.Gate

	closers []func() error
}

type options struct {
	store    persistence.Store
	producer booking.Producer
	seats    []domain.Seat
}

type Option func(*options)

// WithStore skips backend construction from config.
func WithStore(store persistence.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithProducer replaces the Kafka producer built from config.
func WithProducer(producer booking.Producer) Option {
	return func(o *options) {
		o.producer = producer
	}
}

func WithSeats(seats []domain.Seat) Option {
	return func(o *options) {
		o.seats = seats
	}
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*State, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &State{
		Flight: domain.Flight{
			Number:      cfg.Flight.Number,
			Origin:      cfg.Flight.Origin,
			Destination: cfg.Flight.Destination,
			Departure:   cfg.Flight.Departure,
			Arrival:     cfg.Flight.Arrival,
		},
	}

	seats := catalog.NewDefault()
	if o.seats != nil {
		custom, err := catalog.New(o.seats)
		if err != nil {
			return nil, fmt.Errorf("seat layout: %w", err)
		}
		seats = custom
	}
	s.Seats = seats

	bookingOpts := []booking.BookingServiceOption{}
	producer := o.producer
	if producer == nil && cfg.Kafka.Enabled() {
		p := kafka.NewProducer(cfg.Kafka.Brokers)
		if err := p.CheckConnection(ctx); err != nil {
			logrus.WithError(err).Warn("kafka unreachable, booking events may be lost")
		}
		s.closers = append(s.closers, p.Close)
		producer = p
	}
	if producer != nil {
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic))
	}
	s.Bookings = booking.NewBookingService(seats, bookingOpts...)
	s.Flights = flights.NewFlightService(s.Flight, seats)

	policy := waitlist.DiscardMismatched
	if cfg.Waitlist.RequeueMismatched {
		policy = waitlist.RequeueMismatched
	}
	s.Waitlist = waitlist.New(policy)

	store := o.store
	if store == nil {
		built, closeStore, err := NewStore(ctx, cfg)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		if closeStore != nil {
			s.closers = append(s.closers, closeStore)
		}
		store = built
	}
	s.Store = store
	s.Snapshots = persistence.NewSnapshotter(store, s.Bookings)
	s.Reports = report.NewFacade(s.Bookings, seats)

	gate, err := newGate(cfg.Admin)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Admin = gate

	return s, nil
}

// NewStore opens the snapshot backend selected by cfg.Store.Backend. The
// returned close function may be nil.
func NewStore(ctx context.Context, cfg *config.Config) (persistence.Store, func() error, error) {
	switch cfg.Store.Backend {
	case config.StoreFile, "":
		return persistence.NewFileStore(cfg.Store.Path), nil, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return persistence.NewRedisStore(client, cfg.Store.RedisKey), client.Close, nil

	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := persistence.NewPostgresStore(pool, cfg.Store.SnapshotName)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, func() error { pool.Close(); return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func newGate(cfg config.AdminConfig) (*admin.Gate, error) {
	if cfg.PasswordHash != "" {
		return admin.NewGateFromHash(cfg.Username, cfg.PasswordHash)
	}
	if cfg.Username != "" && cfg.Password == "" {
		logrus.Warn("admin user configured without a password, admin access disabled")
		return admin.NewGate("", "")
	}
	return admin.NewGate(cfg.Username, cfg.Password)
}

// CancelAndOffer cancels a booking and offers the freed seat to the head of
// the waitlist. The offer is informational; nobody is booked automatically.
func (s *State) CancelAndOffer(ctx context.Context, id int) (*booking.CancelResult, waitlist.Offer, error) {
	result, err := s.Bookings.CancelBooking(ctx, id)
	if err != nil {
		return nil, waitlist.Offer{}, err
	}
	seat, err := s.Seats.FindSeat(result.Booking.SeatID)
	if err != nil {
		return result, waitlist.Offer{}, nil
	}
	return result, s.Waitlist.OfferFreedSeat(seat), nil
}

// Close releases backend connections in reverse order of creation.
func (s *State) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
