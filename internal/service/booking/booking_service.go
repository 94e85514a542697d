package booking

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/pricing"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int) (*CancelResult, error)
	ModifySeat(ctx context.Context, id int, newSeatID string) (*domain.Booking, error)
	ModifyMeal(ctx context.Context, id int, meal domain.MealPreference) (*domain.Booking, error)
	Find(id int) (domain.Booking, error)
	Search(query string) []domain.Booking
	Active() []domain.Booking
	Cancelled() []domain.Booking
	TotalAmount(b domain.Booking) domain.Money
	NextID() int
	Restore(bookings []domain.Booking) RestoreStats
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService is the booking ledger of one flight. Every mutation runs
// under mu, so the seat toggle and the active-set update are applied together.
type BookingService struct {
	mu        sync.Mutex
	seats     *catalog.Catalog
	active    map[int]*domain.Booking
	cancelled []domain.Booking
	nextID    int

	producer           Producer
	bookingTopic       string
	notificationsTopic string
	now                func() time.Time
	newTxnID           func() string
	log                logrus.FieldLogger
}

type CreateBookingInput struct {
	Passenger domain.Passenger     `json:"passenger"`
	SeatID    string               `json:"seat_id"`
	Class     domain.SeatClass     `json:"class,omitempty"`
	Method    domain.PaymentMethod `json:"payment_method"`
}

type CancelResult struct {
	Booking domain.Booking `json:"booking"`
	Refund  domain.Money   `json:"refund"`
}

type RestoreStats struct {
	Restored int
	Skipped  int
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, bookingTopic, notificationsTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithTxnIDGenerator(gen func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.newTxnID = gen
	}
}

func WithLogger(log logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func NewBookingService(seats *catalog.Catalog, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		seats:    seats,
		active:   make(map[int]*domain.Booking),
		nextID:   1,
		now:      time.Now,
		newTxnID: NewTransactionID,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// NewTransactionID returns a "TXN" prefixed identifier.
func NewTransactionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN" + strings.ToUpper(id[:10])
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := validatePassenger(input.Passenger); err != nil {
		return nil, err
	}
	if !input.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %d", domain.ErrInvalidInput, input.Method)
	}

	s.mu.Lock()
	seat, err := s.seats.FindSeat(input.SeatID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if input.Class != "" && input.Class != seat.Class {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: seat %s is %s, requested %s", domain.ErrClassMismatch, seat.ID, seat.Class, input.Class)
	}
	if err := s.seats.Occupy(seat.ID); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	stamp := s.now().Format(domain.TimestampLayout)
	booking := &domain.Booking{
		ID:        s.nextID,
		Passenger: input.Passenger,
		SeatID:    seat.ID,
		Payment: domain.Payment{
			Amount:        pricing.Total(seat, input.Passenger.LuggageKg),
			Method:        input.Method,
			TransactionID: s.newTxnID(),
			Timestamp:     stamp,
		},
		BookedAt: stamp,
	}
	s.nextID++
	s.active[booking.ID] = booking
	created := *booking
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"booking_id": created.ID,
		"seat":       created.SeatID,
		"amount":     created.Payment.Amount.String(),
	}).Info("booking created")

	s.publish(ctx, kafka.EventBookingCreated, created, seat.Class, 0)
	return &created, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id int) (*CancelResult, error) {
	s.mu.Lock()
	booking, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", domain.ErrBookingNotFound, id)
	}
	if err := s.seats.Release(booking.SeatID); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("cancel booking %d: %w", id, err)
	}

	refund := pricing.Refund(s.totalAmount(*booking))
	booking.Cancelled = true
	delete(s.active, id)
	s.cancelled = append(s.cancelled, *booking)
	result := CancelResult{Booking: *booking, Refund: refund}
	class := s.seatClass(booking.SeatID)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"seat":       result.Booking.SeatID,
		"refund":     refund.String(),
	}).Info("booking cancelled")

	s.publish(ctx, kafka.EventBookingCancelled, result.Booking, class, refund)
	return &result, nil
}

// ModifySeat moves a booking to another free seat of the same class. The
// payment record is left as charged.
func (s *BookingService) ModifySeat(ctx context.Context, id int, newSeatID string) (*domain.Booking, error) {
	s.mu.Lock()
	booking, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", domain.ErrBookingNotFound, id)
	}
	next, err := s.seats.FindSeat(newSeatID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if next.ID == booking.SeatID || next.Occupied {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrSeatOccupied, next.ID)
	}
	current, err := s.seats.FindSeat(booking.SeatID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if current.Class != next.Class {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s is %s, %s is %s", domain.ErrClassMismatch, current.ID, current.Class, next.ID, next.Class)
	}

	if err := s.seats.Occupy(next.ID); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.seats.Release(current.ID); err != nil {
		_ = s.seats.Release(next.ID)
		s.mu.Unlock()
		return nil, fmt.Errorf("modify seat of booking %d: %w", id, err)
	}
	booking.SeatID = next.ID
	updated := *booking
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"from":       current.ID,
		"to":         next.ID,
	}).Info("booking seat changed")

	s.publish(ctx, kafka.EventBookingSeatChanged, updated, next.Class, 0)
	return &updated, nil
}

func (s *BookingService) ModifyMeal(ctx context.Context, id int, meal domain.MealPreference) (*domain.Booking, error) {
	if !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal preference %d", domain.ErrInvalidInput, meal)
	}

	s.mu.Lock()
	booking, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", domain.ErrBookingNotFound, id)
	}
	booking.Passenger.Meal = meal
	updated := *booking
	class := s.seatClass(booking.SeatID)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"booking_id": id, "meal": meal.String()}).Info("booking meal changed")

	s.publish(ctx, kafka.EventBookingMealChanged, updated, class, 0)
	return &updated, nil
}

func (s *BookingService) Find(id int) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.active[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: %d", domain.ErrBookingNotFound, id)
	}
	return *booking, nil
}

// Search matches active bookings by exact id or by a case-insensitive
// substring of the passenger name or phone. An empty query matches all.
func (s *BookingService) Search(query string) []domain.Booking {
	query = strings.TrimSpace(query)
	needle := strings.ToLower(query)
	id, idErr := strconv.Atoi(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Booking, 0)
	for _, b := range s.sortedActive() {
		switch {
		case query == "":
		case idErr == nil && b.ID == id:
		case strings.Contains(strings.ToLower(b.Passenger.Name), needle):
		case strings.Contains(b.Passenger.Phone, query):
		default:
			continue
		}
		out = append(out, b)
	}
	return out
}

// Active returns the active bookings in ascending id order.
func (s *BookingService) Active() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedActive()
}

// Cancelled returns the cancellation history, oldest first.
func (s *BookingService) Cancelled() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Booking, len(s.cancelled))
	copy(out, s.cancelled)
	return out
}

// TotalAmount recomputes the fare from the booking's current seat and
// luggage. After a seat change it can differ from Payment.Amount.
func (s *BookingService) TotalAmount(b domain.Booking) domain.Money {
	return s.totalAmount(b)
}

func (s *BookingService) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// Restore inserts previously saved bookings and occupies their seats.
// Records whose seat is unknown or already taken, or whose id is already
// present, are skipped. The id counter moves past the highest restored id.
func (s *BookingService) Restore(bookings []domain.Booking) RestoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats RestoreStats
	maxID := 0
	for _, b := range bookings {
		entry := s.log.WithFields(logrus.Fields{"booking_id": b.ID, "seat": b.SeatID})
		if _, dup := s.active[b.ID]; dup || b.ID <= 0 || b.Cancelled {
			entry.Warn("skipping restored booking: invalid or duplicate id")
			stats.Skipped++
			continue
		}
		if err := s.seats.Occupy(b.SeatID); err != nil {
			entry.WithError(err).Warn("skipping restored booking")
			stats.Skipped++
			continue
		}
		if b.Payment.TransactionID == "" {
			b.Payment.TransactionID = s.newTxnID()
		}
		if b.Payment.Timestamp == "" {
			b.Payment.Timestamp = b.BookedAt
		}
		restored := b
		s.active[b.ID] = &restored
		stats.Restored++
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	if maxID+1 > s.nextID {
		s.nextID = maxID + 1
	}
	return stats
}

func (s *BookingService) sortedActive() []domain.Booking {
	out := make([]domain.Booking, 0, len(s.active))
	for _, b := range s.active {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *BookingService) totalAmount(b domain.Booking) domain.Money {
	seat, err := s.seats.FindSeat(b.SeatID)
	if err != nil {
		return b.Payment.Amount
	}
	return pricing.Total(seat, b.Passenger.LuggageKg)
}

func (s *BookingService) seatClass(seatID string) domain.SeatClass {
	seat, err := s.seats.FindSeat(seatID)
	if err != nil {
		return ""
	}
	return seat.Class
}

func validatePassenger(p domain.Passenger) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: passenger name is required", domain.ErrInvalidInput)
	}
	if p.LuggageKg < 0 {
		return fmt.Errorf("%w: luggage weight must not be negative", domain.ErrInvalidInput)
	}
	if !p.Meal.Valid() {
		return fmt.Errorf("%w: unknown meal preference %d", domain.ErrInvalidInput, p.Meal)
	}
	return nil
}

// publish reports failures in the log only; a booking is never rolled back
// because the broker is unavailable.
func (s *BookingService) publish(ctx context.Context, eventType kafka.EventType, b domain.Booking, class domain.SeatClass, refund domain.Money) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		EventID:    uuid.NewString(),
		BookingID:  b.ID,
		SeatID:     b.SeatID,
		SeatClass:  class,
		Passenger:  b.Passenger.Name,
		Email:      b.Passenger.Email,
		Amount:     b.Payment.Amount,
		Refund:     refund,
		OccurredAt: s.now().UTC(),
	}
	entry := s.log.WithFields(logrus.Fields{"booking_id": b.ID, "event": eventType})
	if err := s.producer.Publish(ctx, s.bookingTopic, event.Key(), event); err != nil {
		entry.WithError(err).Warn("failed to publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event); err != nil {
			entry.WithError(err).Warn("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
