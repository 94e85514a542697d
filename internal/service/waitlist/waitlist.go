// Package waitlist keeps a single FIFO queue of passengers waiting for a seat
// in a given class.
package waitlist

import (
	"fmt"
	"sync"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/sirupsen/logrus"
)

// Policy decides what happens to the head entry when a freed seat does not
// match its desired class.
type Policy int

const (
	DiscardMismatched Policy = iota
	RequeueMismatched
)

type OfferOutcome string

const (
	OfferMatched   OfferOutcome = "matched"
	OfferDiscarded OfferOutcome = "discarded"
	OfferRequeued  OfferOutcome = "requeued"
	OfferNoEntries OfferOutcome = "empty"
)

// Offer describes the result of offering a freed seat to the queue head.
// Matching never books the seat; the caller decides what to do with it.
type Offer struct {
	Outcome OfferOutcome         `json:"outcome"`
	Entry   domain.WaitlistEntry `json:"entry"`
	SeatID  string               `json:"seat_id"`
}

func (o Offer) Matched() bool {
	return o.Outcome == OfferMatched
}

type Waitlist struct {
	mu      sync.Mutex
	entries []domain.WaitlistEntry
	policy  Policy
}

func New(policy Policy) *Waitlist {
	return &Waitlist{policy: policy}
}

// Enqueue appends a passenger and returns the 1-based queue position.
func (w *Waitlist) Enqueue(p domain.Passenger, class domain.SeatClass) (int, error) {
	if p.Name == "" {
		return 0, fmt.Errorf("%w: passenger name is required", domain.ErrInvalidInput)
	}
	if !class.Valid() {
		return 0, fmt.Errorf("%w: unknown seat class %q", domain.ErrInvalidInput, class)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = append(w.entries, domain.WaitlistEntry{Passenger: p, DesiredClass: class})
	return len(w.entries), nil
}

func (w *Waitlist) Dequeue() (domain.WaitlistEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.popLocked()
}

// PeekAll returns the queue in order without mutating it.
func (w *Waitlist) PeekAll() []domain.WaitlistEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.WaitlistEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Waitlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// OfferFreedSeat pops the head entry and compares its desired class with the
// seat's class. Only the head is considered, even when a later entry would
// match.
func (w *Waitlist) OfferFreedSeat(seat domain.Seat) Offer {
	w.mu.Lock()
	defer w.mu.Unlock()

	entry, err := w.popLocked()
	if err != nil {
		return Offer{Outcome: OfferNoEntries, SeatID: seat.ID}
	}

	offer := Offer{Entry: entry, SeatID: seat.ID}
	switch {
	case entry.DesiredClass == seat.Class:
		offer.Outcome = OfferMatched
	case w.policy == RequeueMismatched:
		w.entries = append(w.entries, entry)
		offer.Outcome = OfferRequeued
	default:
		offer.Outcome = OfferDiscarded
	}

	logrus.WithFields(logrus.Fields{
		"seat":      seat.ID,
		"passenger": entry.Passenger.Name,
		"outcome":   offer.Outcome,
	}).Info("waitlist offer")
	return offer
}

func (w *Waitlist) popLocked() (domain.WaitlistEntry, error) {
	if len(w.entries) == 0 {
		return domain.WaitlistEntry{}, domain.ErrWaitlistEmpty
	}
	head := w.entries[0]
	w.entries[0] = domain.WaitlistEntry{}
	w.entries = w.entries[1:]
	return head, nil
}
