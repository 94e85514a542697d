package persistence

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBookings() []domain.Booking {
	return []domain.Booking{
		{
			ID: 3,
			Passenger: domain.Passenger{
				Name: "Ann Lee", Phone: "555-1", Email: "ann@example.com", Gender: "F",
				Meal: domain.MealVegan, Wheelchair: true, LuggageKg: 25,
			},
			SeatID:   "1A",
			Payment:  domain.Payment{Amount: domain.Units(150), Method: domain.PaymentUPI, Timestamp: "2024-05-01 08:00:00"},
			BookedAt: "2024-05-01 08:00:00",
		},
		{
			ID:        7,
			Passenger: domain.Passenger{Name: "Bo", Phone: "555-2", Meal: domain.MealNone},
			SeatID:    "9B",
			Payment:   domain.Payment{Amount: domain.Units(600), Method: domain.PaymentCash, Timestamp: "2024-05-02 09:15:30"},
			BookedAt:  "2024-05-02 09:15:30",
		},
	}
}

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	bookings := append(sampleBookings(), domain.Booking{ID: 9, SeatID: "2A", Cancelled: true})
	require.NoError(t, Encode(&buf, bookings))

	assert.Equal(t,
		"2\n"+
			"3|Ann Lee|555-1|ann@example.com|F|2|1|25|1A|2024-05-01 08:00:00|2|150.00\n"+
			"7|Bo|555-2|||3|0|0|9B|2024-05-02 09:15:30|3|600.00\n",
		buf.String())
}

func TestEncode_SanitizesSeparators(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []domain.Booking{{ID: 1, Passenger: domain.Passenger{Name: "a|b\nc"}, SeatID: "1A"}}))

	decoded, stats, err := Decode(&buf)
	require.NoError(t, err)
	assert.Zero(t, stats.Malformed)
	require.Len(t, decoded, 1)
	assert.Equal(t, "a b c", decoded[0].Passenger.Name)
}

func TestCodec_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleBookings()))

	decoded, stats, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, DecodeStats{Declared: 2, Decoded: 2}, stats)
	assert.Equal(t, sampleBookings(), decoded)
}

func TestDecode_SkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"7",
		"1|A|1|a@x|M|0|0|0|1A|2024-01-01 00:00:00|0|100.00",
		"too|short",
		"",
		"x|B|2|b@x|F|0|0|0|1B|2024-01-01 00:00:00|0|100.00",
		"3|C|3|c@x|F|9|0|0|1C|2024-01-01 00:00:00|0|100.00",
		"4|D|4|d@x|F|1|0|0|1D|2024-01-01 00:00:00|-1|100",
		"5|E|5|e@x|F|1|0|0|2A|2024-01-01 00:00:00|7|100",
		"6|F|6|f@x|F|1|0|0|2B|2024-01-01 00:00:00|1|abc",
		"8|G|7|g@x|F|1|0|0|2C|2024-01-01 00:00:00|1|100",
	}, "\n")

	decoded, stats, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, DecodeStats{Declared: 7, Decoded: 2, Malformed: 5, Clamped: 1}, stats)
	require.Len(t, decoded, 2)
	assert.Equal(t, 1, decoded[0].ID)
	assert.Equal(t, 4, decoded[1].ID)
	assert.Equal(t, domain.PaymentCreditCard, decoded[1].Payment.Method)
}

func TestDecode_BadCountLine(t *testing.T) {
	for _, input := range []string{"", "abc\n1|A|1|a|M|0|0|0|1A|t|0|1", "-3\n"} {
		decoded, stats, err := Decode(strings.NewReader(input))
		require.NoError(t, err)
		assert.Empty(t, decoded)
		assert.Zero(t, stats.Decoded)
	}
}

func TestDecode_FewerLinesThanDeclared(t *testing.T) {
	decoded, stats, err := Decode(strings.NewReader("3\n1|A|1|a|M|0|0|0|1A|t|0|1\n"))
	require.NoError(t, err)
	assert.Len(t, decoded, 1)
	assert.Equal(t, 3, stats.Declared)
}
