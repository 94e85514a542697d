// Package pricing computes fares, luggage surcharges and refunds. All
// functions are pure.
package pricing

import "github.com/Domenick1991/flightdesk/internal/domain"

const (
	FreeLuggageKg    = 20
	LuggageRatePerKg = 10

	// Refunds keep RefundNumerator/RefundDenominator of the total (90%).
	RefundNumerator   = 9
	RefundDenominator = 10
)

func BaseFare(seat domain.Seat) domain.Money {
	return seat.Price()
}

func LuggageSurcharge(kg int) domain.Money {
	if kg <= FreeLuggageKg {
		return 0
	}
	return domain.Units(int64(kg-FreeLuggageKg) * LuggageRatePerKg)
}

func Total(seat domain.Seat, luggageKg int) domain.Money {
	return BaseFare(seat) + LuggageSurcharge(luggageKg)
}

// Refund applies the flat 10% cancellation fee. Totals are whole currency
// units, so the result is exact in cents.
func Refund(total domain.Money) domain.Money {
	return total * RefundNumerator / RefundDenominator
}

// Breakdown is the fare split shown on receipts.
type Breakdown struct {
	BaseFare         domain.Money `json:"base_fare"`
	LuggageSurcharge domain.Money `json:"luggage_surcharge"`
	Total            domain.Money `json:"total"`
}

func Quote(seat domain.Seat, luggageKg int) Breakdown {
	return Breakdown{
		BaseFare:         BaseFare(seat),
		LuggageSurcharge: LuggageSurcharge(luggageKg),
		Total:            Total(seat, luggageKg),
	}
}
