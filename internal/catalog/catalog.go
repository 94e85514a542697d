// Package catalog holds the fixed seat inventory of one flight.
package catalog

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

// Catalog owns the seats of a flight. Seats are never added or removed after
// construction; only their occupancy flag changes.
type Catalog struct {
	mu    sync.RWMutex
	seats []domain.Seat
	index map[string]int
}

type rowBlock struct {
	from, to  int
	class     domain.SeatClass
	basePrice domain.Money
	letters   []string
	positions []domain.SeatPosition
}

var defaultLayout = []rowBlock{
	{
		from: 1, to: 5, class: domain.SeatClassEconomy, basePrice: domain.Units(100),
		letters:   []string{"A", "B", "C", "D"},
		positions: []domain.SeatPosition{domain.SeatPositionWindow, domain.SeatPositionMiddle, domain.SeatPositionAisle, domain.SeatPositionWindow},
	},
	{
		from: 6, to: 8, class: domain.SeatClassBusiness, basePrice: domain.Units(150),
		letters:   []string{"A", "B", "C"},
		positions: []domain.SeatPosition{domain.SeatPositionWindow, domain.SeatPositionAisle, domain.SeatPositionWindow},
	},
	{
		from: 9, to: 10, class: domain.SeatClassFirst, basePrice: domain.Units(200),
		letters:   []string{"A", "B"},
		positions: []domain.SeatPosition{domain.SeatPositionWindow, domain.SeatPositionAisle},
	},
}

// DefaultSeats generates the standard layout: 5 Economy rows of 4, 3 Business
// rows of 3 and 2 First rows of 2, all free.
func DefaultSeats() []domain.Seat {
	seats := make([]domain.Seat, 0, 33)
	for _, block := range defaultLayout {
		for row := block.from; row <= block.to; row++ {
			for i, letter := range block.letters {
				seats = append(seats, domain.Seat{
					ID:        strconv.Itoa(row) + letter,
					Row:       row,
					Letter:    letter,
					Class:     block.class,
					Position:  block.positions[i],
					BasePrice: block.basePrice,
				})
			}
		}
	}
	return seats
}

func NewDefault() *Catalog {
	c, _ := New(DefaultSeats())
	return c
}

func New(seats []domain.Seat) (*Catalog, error) {
	c := &Catalog{
		seats: make([]domain.Seat, 0, len(seats)),
		index: make(map[string]int, len(seats)),
	}
	for _, s := range seats {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: seat without id", domain.ErrInvalidInput)
		}
		if !s.Class.Valid() {
			return nil, fmt.Errorf("%w: seat %s has unknown class %q", domain.ErrInvalidInput, s.ID, s.Class)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate seat %s", domain.ErrInvalidInput, s.ID)
		}
		c.index[s.ID] = len(c.seats)
		c.seats = append(c.seats, s)
	}
	return c, nil
}

func (c *Catalog) FindSeat(id string) (domain.Seat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return domain.Seat{}, fmt.Errorf("%w: %s", domain.ErrSeatNotFound, id)
	}
	return c.seats[i], nil
}

// ListAvailable returns free seats in catalog order. Empty class or position
// means no filtering on that attribute.
func (c *Catalog) ListAvailable(class domain.SeatClass, position domain.SeatPosition) []domain.Seat {
	c.mu.RLock()
	defer c.mu.RUnlock()

	available := make([]domain.Seat, 0)
	for _, s := range c.seats {
		if s.Occupied {
			continue
		}
		if class != "" && s.Class != class {
			continue
		}
		if position != "" && s.Position != position {
			continue
		}
		available = append(available, s)
	}
	return available
}

func (c *Catalog) All() []domain.Seat {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Seat, len(c.seats))
	copy(out, c.seats)
	return out
}

func (c *Catalog) Len() int {
	return len(c.seats)
}

func (c *Catalog) OccupiedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, s := range c.seats {
		if s.Occupied {
			n++
		}
	}
	return n
}

// Occupy marks a free seat occupied. Occupying an occupied seat is an
// invariant violation reported as ErrSeatOccupied.
func (c *Catalog) Occupy(id string) error {
	return c.toggle(id, true)
}

// Release marks an occupied seat free; releasing a free seat reports ErrSeatFree.
func (c *Catalog) Release(id string) error {
	return c.toggle(id, false)
}

func (c *Catalog) toggle(id string, occupied bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSeatNotFound, id)
	}
	if c.seats[i].Occupied == occupied {
		if occupied {
			return fmt.Errorf("%w: %s", domain.ErrSeatOccupied, id)
		}
		return fmt.Errorf("%w: %s", domain.ErrSeatFree, id)
	}
	c.seats[i].Occupied = occupied
	return nil
}
