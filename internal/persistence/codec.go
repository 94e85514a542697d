// Package persistence saves and restores the active booking set as a
// pipe-delimited snapshot.
//
// Format: the first line holds the number of records, every following line is
//
//	id|name|phone|email|gender|meal|wheelchair|luggageKg|seatId|timestamp|method|amount
//
// Cancelled bookings are never written.
package persistence

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

const (
	fieldSeparator = "|"
	recordFields   = 12
)

// DecodeStats summarises a Decode run.
type DecodeStats struct {
	Declared  int
	Decoded   int
	Malformed int
	// Clamped counts records whose negative payment method was reset to
	// credit card.
	Clamped int
}

func Encode(w io.Writer, bookings []domain.Booking) error {
	bw := bufio.NewWriter(w)

	active := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.Cancelled {
			active = append(active, b)
		}
	}

	if _, err := fmt.Fprintf(bw, "%d\n", len(active)); err != nil {
		return err
	}
	for _, b := range active {
		if _, err := bw.WriteString(encodeRecord(b)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeRecord(b domain.Booking) string {
	wheelchair := "0"
	if b.Passenger.Wheelchair {
		wheelchair = "1"
	}
	return strings.Join([]string{
		strconv.Itoa(b.ID),
		sanitize(b.Passenger.Name),
		sanitize(b.Passenger.Phone),
		sanitize(b.Passenger.Email),
		sanitize(b.Passenger.Gender),
		strconv.Itoa(int(b.Passenger.Meal)),
		wheelchair,
		strconv.Itoa(b.Passenger.LuggageKg),
		sanitize(b.SeatID),
		sanitize(b.BookedAt),
		strconv.Itoa(int(b.Payment.Method)),
		b.Payment.Amount.String(),
	}, fieldSeparator)
}

// sanitize keeps free text from breaking the line and field structure.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '|', '\n', '\r':
			return ' '
		}
		return r
	}, s)
}

// Decode reads a snapshot. Malformed records are skipped and counted; they
// never fail the whole decode. A missing or unparsable count line yields no
// records. Only read errors from r are returned.
func Decode(r io.Reader) ([]domain.Booking, DecodeStats, error) {
	var stats DecodeStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, stats, scanner.Err()
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || count < 0 {
		return nil, stats, nil
	}
	stats.Declared = count

	bookings := make([]domain.Booking, 0, count)
	for seen := 0; seen < count && scanner.Scan(); {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		seen++

		b, clamped, err := decodeRecord(line)
		if err != nil {
			stats.Malformed++
			continue
		}
		if clamped {
			stats.Clamped++
		}
		bookings = append(bookings, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, err
	}

	stats.Decoded = len(bookings)
	return bookings, stats, nil
}

func decodeRecord(line string) (domain.Booking, bool, error) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) < recordFields {
		return domain.Booking{}, false, fmt.Errorf("%w: %d fields", domain.ErrMalformedRecord, len(parts))
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || id <= 0 {
		return domain.Booking{}, false, fmt.Errorf("%w: id %q", domain.ErrMalformedRecord, parts[0])
	}
	meal, err := strconv.Atoi(strings.TrimSpace(parts[5]))
	if err != nil || !domain.MealPreference(meal).Valid() {
		return domain.Booking{}, false, fmt.Errorf("%w: meal %q", domain.ErrMalformedRecord, parts[5])
	}
	wheelchair, err := strconv.Atoi(strings.TrimSpace(parts[6]))
	if err != nil {
		return domain.Booking{}, false, fmt.Errorf("%w: wheelchair %q", domain.ErrMalformedRecord, parts[6])
	}
	luggage, err := strconv.Atoi(strings.TrimSpace(parts[7]))
	if err != nil || luggage < 0 {
		return domain.Booking{}, false, fmt.Errorf("%w: luggage %q", domain.ErrMalformedRecord, parts[7])
	}
	method, err := strconv.Atoi(strings.TrimSpace(parts[10]))
	if err != nil {
		return domain.Booking{}, false, fmt.Errorf("%w: payment method %q", domain.ErrMalformedRecord, parts[10])
	}
	clamped := false
	if method < 0 {
		method = int(domain.PaymentCreditCard)
		clamped = true
	}
	if !domain.PaymentMethod(method).Valid() {
		return domain.Booking{}, false, fmt.Errorf("%w: payment method %q", domain.ErrMalformedRecord, parts[10])
	}
	amount, err := domain.ParseMoney(parts[11])
	if err != nil {
		return domain.Booking{}, false, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	stamp := parts[9]
	return domain.Booking{
		ID: id,
		Passenger: domain.Passenger{
			Name:       parts[1],
			Phone:      parts[2],
			Email:      parts[3],
			Gender:     parts[4],
			Meal:       domain.MealPreference(meal),
			Wheelchair: wheelchair != 0,
			LuggageKg:  luggage,
		},
		SeatID: strings.TrimSpace(parts[8]),
		Payment: domain.Payment{
			Amount:    amount,
			Method:    domain.PaymentMethod(method),
			Timestamp: stamp,
		},
		BookedAt: stamp,
	}, clamped, nil
}
