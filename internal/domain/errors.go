package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors below wrap exactly one of these, so callers can
// match either the kind or the concrete condition with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidInput    = errors.New("invalid input")
	ErrIOFailure       = errors.New("io failure")
	ErrMalformedRecord = errors.New("malformed record")
	ErrUnauthorized    = errors.New("unauthorized")
)

var (
	ErrSeatNotFound    = fmt.Errorf("seat %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)

	ErrSeatOccupied  = fmt.Errorf("%w: seat already occupied", ErrInvalidState)
	ErrSeatFree      = fmt.Errorf("%w: seat already free", ErrInvalidState)
	ErrClassMismatch = fmt.Errorf("%w: seat class mismatch", ErrInvalidState)
	ErrWaitlistEmpty = fmt.Errorf("%w: waitlist is empty", ErrInvalidState)
)
