package domain

import (
	"fmt"
	"strings"
)

type SeatClass string

const (
	SeatClassEconomy  SeatClass = "Economy"
	SeatClassBusiness SeatClass = "Business"
	SeatClassFirst    SeatClass = "First Class"
)

var classMultipliers = map[SeatClass]int64{
	SeatClassEconomy:  1,
	SeatClassBusiness: 2,
	SeatClassFirst:    3,
}

// Multiplier returns the fare multiplier of the class, or 0 for an unknown class.
func (c SeatClass) Multiplier() int64 {
	return classMultipliers[c]
}

func (c SeatClass) Valid() bool {
	_, ok := classMultipliers[c]
	return ok
}

func SeatClasses() []SeatClass {
	return []SeatClass{SeatClassEconomy, SeatClassBusiness, SeatClassFirst}
}

// ParseSeatClass is lenient about case and accepts "first" for First Class.
func ParseSeatClass(s string) (SeatClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy", "eco":
		return SeatClassEconomy, nil
	case "business", "bus":
		return SeatClassBusiness, nil
	case "first", "first class", "first_class", "firstclass":
		return SeatClassFirst, nil
	}
	return "", fmt.Errorf("%w: unknown seat class %q", ErrInvalidInput, s)
}

type SeatPosition string

const (
	SeatPositionWindow SeatPosition = "Window"
	SeatPositionAisle  SeatPosition = "Aisle"
	SeatPositionMiddle SeatPosition = "Middle"
)

func ParseSeatPosition(s string) (SeatPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "window":
		return SeatPositionWindow, nil
	case "aisle":
		return SeatPositionAisle, nil
	case "middle":
		return SeatPositionMiddle, nil
	}
	return "", fmt.Errorf("%w: unknown seat position %q", ErrInvalidInput, s)
}

type Seat struct {
	ID        string       `json:"id"`
	Row       int          `json:"row"`
	Letter    string       `json:"letter"`
	Class     SeatClass    `json:"class"`
	Position  SeatPosition `json:"position"`
	BasePrice Money        `json:"base_price"`
	Occupied  bool         `json:"occupied"`
}

func (s Seat) Price() Money {
	return s.BasePrice * Money(s.Class.Multiplier())
}
