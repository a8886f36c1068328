package seating

import (
	"encoding/json"
	"slices"
)

// MaxSelectedSeats caps one booking attempt.
const MaxSelectedSeats = 5

// Outcome is the result of a toggle request.
type Outcome int

const (
	Ignored Outcome = iota
	Added
	Removed
	LimitReached
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case LimitReached:
		return "limit_reached"
	default:
		return "ignored"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Selection is the insertion-ordered set of chosen seat numbers.
// The zero value is an empty selection.
type Selection struct {
	seats []string
}

// Toggle removes seatNumber when selected, otherwise adds it while below the cap.
// Unavailable seats never change the selection.
func (s *Selection) Toggle(seatNumber string, isAvailable bool) Outcome {
	if !isAvailable {
		return Ignored
	}
	if i := slices.Index(s.seats, seatNumber); i >= 0 {
		s.seats = slices.Delete(s.seats, i, i+1)
		return Removed
	}
	if len(s.seats) >= MaxSelectedSeats {
		return LimitReached
	}
	s.seats = append(s.seats, seatNumber)
	return Added
}

func (s *Selection) Reset() {
	s.seats = nil
}

func (s Selection) Len() int { return len(s.seats) }

func (s Selection) Contains(seatNumber string) bool {
	return slices.Contains(s.seats, seatNumber)
}

// Seats returns a copy in selection order.
func (s Selection) Seats() []string {
	out := make([]string, len(s.seats))
	copy(out, s.seats)
	return out
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Seats())
}

func (s *Selection) UnmarshalJSON(b []byte) error {
	var seats []string
	if err := json.Unmarshal(b, &seats); err != nil {
		return err
	}
	s.seats = nil
	for _, n := range seats {
		if n == "" || slices.Contains(s.seats, n) || len(s.seats) >= MaxSelectedSeats {
			continue
		}
		s.seats = append(s.seats, n)
	}
	return nil
}
