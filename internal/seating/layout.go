package seating

import (
	"errors"
	"strconv"
)

// DriverSeatNumber is the sentinel label of the driver position. It is never numeric.
const DriverSeatNumber = "DRIVER"

// MinTotalSeats is the smallest capacity the layout template can hold (the two row-1 seats).
const MinTotalSeats = 2

const (
	leftPerRow  = 3
	rightPerRow = 2
	seatsPerRow = leftPerRow + rightPerRow
)

var ErrCapacityTooSmall = errors.New("seat capacity must be at least 2")

// Position is the side of the aisle a seat sits on.
type Position string

const (
	Left   Position = "left"
	Right  Position = "right"
	Center Position = "center"
)

type Seat struct {
	SeatNumber   string   `json:"seatNumber"`
	Row          int      `json:"row"`
	Position     Position `json:"position"`
	IsDriverSeat bool     `json:"isDriverSeat"`
	IsAvailable  bool     `json:"isAvailable"`
}

// Row groups the seats of one bus row in placement order.
type Row struct {
	Number int    `json:"row"`
	Seats  []Seat `json:"seats"`
}

// SeatMap is the full ordered seat list for one capacity.
type SeatMap struct {
	TotalSeats int    `json:"totalSeats"`
	Seats      []Seat `json:"seats"`
}

// Generate builds the seat map of a bus holding totalSeats passengers:
// driver plus seats 1-2 on row 1, then rows of 3 left / 2 right, with a
// trailing partial row filling left positions first.
func Generate(totalSeats int) (SeatMap, error) {
	if totalSeats < MinTotalSeats {
		return SeatMap{}, ErrCapacityTooSmall
	}

	seats := make([]Seat, 0, totalSeats+1)
	seats = append(seats, Seat{
		SeatNumber:   DriverSeatNumber,
		Row:          1,
		Position:     Left,
		IsDriverSeat: true,
		IsAvailable:  false,
	})

	next := 1
	emit := func(row int, pos Position) {
		seats = append(seats, Seat{
			SeatNumber:  strconv.Itoa(next),
			Row:         row,
			Position:    pos,
			IsAvailable: true,
		})
		next++
	}

	emit(1, Right)
	emit(1, Right)

	remaining := totalSeats - 2
	fullRows := remaining / seatsPerRow
	lastRow := remaining % seatsPerRow

	row := 2
	for r := 0; r < fullRows; r++ {
		for i := 0; i < leftPerRow; i++ {
			emit(row, Left)
		}
		for i := 0; i < rightPerRow; i++ {
			emit(row, Right)
		}
		row++
	}

	for i := 0; i < lastRow; i++ {
		if i < leftPerRow {
			emit(row, Left)
		} else {
			emit(row, Right)
		}
	}

	return SeatMap{TotalSeats: totalSeats, Seats: seats}, nil
}

// MustGenerate is Generate for capacities known to be valid, such as catalog entries.
func MustGenerate(totalSeats int) SeatMap {
	m, err := Generate(totalSeats)
	if err != nil {
		panic(err)
	}
	return m
}

// Rows groups seats by row number, rows ascending, seats in placement order.
func (m SeatMap) Rows() []Row {
	out := []Row{}
	for _, s := range m.Seats {
		if len(out) == 0 || out[len(out)-1].Number != s.Row {
			out = append(out, Row{Number: s.Row})
		}
		last := &out[len(out)-1]
		last.Seats = append(last.Seats, s)
	}
	return out
}

// RowCount returns the number of the last row.
func (m SeatMap) RowCount() int {
	if len(m.Seats) == 0 {
		return 0
	}
	return m.Seats[len(m.Seats)-1].Row
}

func (m SeatMap) Seat(number string) (Seat, bool) {
	for _, s := range m.Seats {
		if s.SeatNumber == number {
			return s, true
		}
	}
	return Seat{}, false
}

// WithSold returns a copy of the map where the listed seats are unavailable.
// Unknown numbers and the driver label are ignored.
func (m SeatMap) WithSold(sold []string) SeatMap {
	out := SeatMap{TotalSeats: m.TotalSeats, Seats: make([]Seat, len(m.Seats))}
	copy(out.Seats, m.Seats)
	if len(sold) == 0 {
		return out
	}
	taken := make(map[string]struct{}, len(sold))
	for _, n := range sold {
		taken[n] = struct{}{}
	}
	for i := range out.Seats {
		if out.Seats[i].IsDriverSeat {
			continue
		}
		if _, ok := taken[out.Seats[i].SeatNumber]; ok {
			out.Seats[i].IsAvailable = false
		}
	}
	return out
}

// PassengerSeats counts non-driver seats.
func (m SeatMap) PassengerSeats() int {
	n := 0
	for _, s := range m.Seats {
		if !s.IsDriverSeat {
			n++
		}
	}
	return n
}

func (m SeatMap) AvailableCount() int {
	n := 0
	for _, s := range m.Seats {
		if s.IsAvailable {
			n++
		}
	}
	return n
}

// SoldSeats lists passenger seats that are not available.
func (m SeatMap) SoldSeats() []string {
	out := []string{}
	for _, s := range m.Seats {
		if !s.IsDriverSeat && !s.IsAvailable {
			out = append(out, s.SeatNumber)
		}
	}
	return out
}

// GapBefore reports whether a cosmetic aisle gap is drawn before the seat at
// index within its row. Only the third left seat of interior rows gets one.
// The gap is spacing, not a seat.
func GapBefore(rowNumber, lastRow, index int, s Seat) bool {
	if rowNumber == 1 || rowNumber == lastRow {
		return false
	}
	return s.Position == Left && index == 2
}
