package domain

import "fmt"

type PaymentMethod int

const (
	PaymentCreditCard PaymentMethod = iota
	PaymentDebitCard
	PaymentUPI
	PaymentCash
)

func (m PaymentMethod) Valid() bool {
	return m >= PaymentCreditCard && m <= PaymentCash
}

func (m PaymentMethod) String() string {
	switch m {
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentDebitCard:
		return "Debit Card"
	case PaymentUPI:
		return "UPI"
	case PaymentCash:
		return "Cash"
	default:
		return fmt.Sprintf("PaymentMethod(%d)", int(m))
	}
}

type Payment struct {
	Amount        Money         `json:"amount"`
	Method        PaymentMethod `json:"method"`
	TransactionID string        `json:"transaction_id"`
	Timestamp     string        `json:"timestamp"`
}
