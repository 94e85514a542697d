package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/sirupsen/logrus"
)

type Ledger interface {
	Active() []domain.Booking
	Restore(bookings []domain.Booking) booking.RestoreStats
}

type LoadResult struct {
	Restored  int `json:"restored"`
	Malformed int `json:"malformed"`
	// Skipped counts well-formed records the ledger refused, such as
	// references to unknown seats.
	Skipped int `json:"skipped"`
}

type Snapshotter struct {
	store  Store
	ledger Ledger
}

func NewSnapshotter(store Store, ledger Ledger) *Snapshotter {
	return &Snapshotter{store: store, ledger: ledger}
}

// Save overwrites the store with the current active set and returns the
// number of bookings written.
func (s *Snapshotter) Save(ctx context.Context) (int, error) {
	active := s.ledger.Active()

	var buf bytes.Buffer
	if err := Encode(&buf, active); err != nil {
		return 0, fmt.Errorf("%w: encode snapshot: %w", domain.ErrIOFailure, err)
	}
	if err := s.store.Write(ctx, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}

	logrus.WithField("bookings", len(active)).Info("snapshot saved")
	return len(active), nil
}

// Load restores the stored snapshot into the ledger. A missing snapshot is
// not an error.
func (s *Snapshotter) Load(ctx context.Context) (LoadResult, error) {
	rc, err := s.store.Read(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		logrus.Info("no snapshot found, starting empty")
		return LoadResult{}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	defer rc.Close()

	bookings, stats, err := Decode(rc)
	if err != nil {
		return LoadResult{}, fmt.Errorf("%w: read snapshot: %w", domain.ErrIOFailure, err)
	}

	restored := s.ledger.Restore(bookings)
	result := LoadResult{
		Restored:  restored.Restored,
		Malformed: stats.Malformed,
		Skipped:   restored.Skipped,
	}

	logrus.WithFields(logrus.Fields{
		"restored":  result.Restored,
		"malformed": result.Malformed,
		"skipped":   result.Skipped,
		"clamped":   stats.Clamped,
	}).Info("snapshot loaded")
	return result, nil
}
