package domain

import "fmt"

type MealPreference int

const (
	MealVegetarian MealPreference = iota
	MealNonVeg
	MealVegan
	MealNone
)

func (m MealPreference) Valid() bool {
	return m >= MealVegetarian && m <= MealNone
}

func (m MealPreference) String() string {
	switch m {
	case MealVegetarian:
		return "Vegetarian"
	case MealNonVeg:
		return "Non-Veg"
	case MealVegan:
		return "Vegan"
	case MealNone:
		return "No Meal"
	default:
		return fmt.Sprintf("MealPreference(%d)", int(m))
	}
}

func MealPreferences() []MealPreference {
	return []MealPreference{MealVegetarian, MealNonVeg, MealVegan, MealNone}
}

type Passenger struct {
	Name       string         `json:"name"`
	Phone      string         `json:"phone"`
	Email      string         `json:"email"`
	Gender     string         `json:"gender"`
	Meal       MealPreference `json:"meal"`
	Wheelchair bool           `json:"wheelchair"`
	LuggageKg  int            `json:"luggage_kg"`
}
