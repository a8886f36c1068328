package booking

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"busticket/internal/catalog"
	"busticket/internal/pricing"
	"busticket/internal/seating"
)

// State of one booking attempt.
type State string

const (
	StateEmpty     State = "empty"
	StateSelecting State = "selecting"
	StateConfirmed State = "confirmed"
)

var (
	ErrNoSeatsSelected = errors.New("select at least one seat")
	ErrSessionClosed   = errors.New("booking session already confirmed")
)

// MissingPassengerError lists seats whose passenger details are incomplete.
type MissingPassengerError struct {
	Seats []string
}

func (e MissingPassengerError) Error() string {
	return "fill in passenger name and id number for seat " + strings.Join(e.Seats, ", ")
}

// SeatUnavailableError is returned when a selected seat was sold meanwhile.
type SeatUnavailableError struct {
	Seats []string
}

func (e SeatUnavailableError) Error() string {
	return "seat no longer available: " + strings.Join(e.Seats, ", ")
}

type PassengerInfo struct {
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
	IDPhoto  string `json:"idPhoto,omitempty"`
}

func (p PassengerInfo) complete() bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.IDNumber) != ""
}

// Session is one booking attempt: a bus type, its seat map and the rider's selection.
// It is not safe for concurrent use.
type Session struct {
	ID         string                   `json:"id"`
	UserID     int64                    `json:"userId"`
	AgencyID   string                   `json:"agencyId"`
	From       string                   `json:"from"`
	To         string                   `json:"to"`
	TravelDate string                   `json:"travelDate"`
	BusType    catalog.BusType          `json:"busType"`
	SeatMap    seating.SeatMap          `json:"seatMap"`
	Selection  seating.Selection        `json:"selection"`
	Passengers map[string]PassengerInfo `json:"passengers"`
	ServiceFee int64                    `json:"serviceFee"`
	State      State                    `json:"state"`
	BookingID  int64                    `json:"bookingId,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// NewSession starts an empty attempt for bt with sold seats marked unavailable.
func NewSession(id string, bt catalog.BusType, sold []string, serviceFee int64) (*Session, error) {
	m, err := seating.Generate(bt.TotalSeats)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		BusType:    bt,
		SeatMap:    m.WithSold(sold),
		Passengers: map[string]PassengerInfo{},
		ServiceFee: serviceFee,
		State:      StateEmpty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ToggleSeat selects or deselects seatNumber. Unknown and unavailable seats are
// ignored, as is any toggle after confirmation.
func (s *Session) ToggleSeat(seatNumber string) seating.Outcome {
	if s.State == StateConfirmed {
		return seating.Ignored
	}
	seat, ok := s.SeatMap.Seat(strings.TrimSpace(seatNumber))
	if !ok {
		return seating.Ignored
	}
	out := s.Selection.Toggle(seat.SeatNumber, seat.IsAvailable)
	if out == seating.Removed {
		delete(s.Passengers, seat.SeatNumber)
	}
	s.syncState()
	return out
}

// ChangeBusType regenerates the seat map and clears the selection; seat numbers
// are not comparable across bus types.
func (s *Session) ChangeBusType(bt catalog.BusType, sold []string) error {
	if s.State == StateConfirmed {
		return ErrSessionClosed
	}
	m, err := seating.Generate(bt.TotalSeats)
	if err != nil {
		return err
	}
	s.BusType = bt
	s.SeatMap = m.WithSold(sold)
	s.Selection.Reset()
	s.Passengers = map[string]PassengerInfo{}
	s.syncState()
	return nil
}

// ApplySold marks freshly sold seats unavailable and drops them from the selection.
// It returns the selected seats that were lost.
func (s *Session) ApplySold(sold []string) []string {
	s.SeatMap = s.SeatMap.WithSold(sold)
	lost := []string{}
	for _, n := range s.Selection.Seats() {
		if seat, ok := s.SeatMap.Seat(n); ok && !seat.IsAvailable {
			s.Selection.Toggle(n, true)
			delete(s.Passengers, n)
			lost = append(lost, n)
		}
	}
	s.syncState()
	return lost
}

// SetPassenger stores details for a selected seat.
func (s *Session) SetPassenger(seatNumber string, info PassengerInfo) error {
	if s.State == StateConfirmed {
		return ErrSessionClosed
	}
	if !s.Selection.Contains(seatNumber) {
		return fmt.Errorf("seat %s is not selected", seatNumber)
	}
	if s.Passengers == nil {
		s.Passengers = map[string]PassengerInfo{}
	}
	s.Passengers[seatNumber] = PassengerInfo{
		Name:     strings.TrimSpace(info.Name),
		IDNumber: strings.TrimSpace(info.IDNumber),
		IDPhoto:  strings.TrimSpace(info.IDPhoto),
	}
	s.touch()
	return nil
}

func (s *Session) Total() int64 {
	return pricing.CalculateTotal(s.BusType.BasePrice, s.Selection.Len(), s.ServiceFee)
}

func (s *Session) Quote() pricing.Quote {
	return pricing.NewQuote(s.BusType.BasePrice, s.Selection.Len(), s.ServiceFee)
}

// Snapshot is the validated, immutable handoff to booking submission.
type Snapshot struct {
	SessionID  string
	UserID     int64
	AgencyID   string
	BusTypeID  string
	From       string
	To         string
	TravelDate string
	Seats      []string
	Passengers []SeatPassenger
	Quote      pricing.Quote
}

type SeatPassenger struct {
	SeatNumber string
	PassengerInfo
}

// Snapshot validates the selection for submission: non-empty, every seat still
// available, at most five seats and complete passenger details per seat.
func (s *Session) Snapshot() (Snapshot, error) {
	if s.State == StateConfirmed {
		return Snapshot{}, ErrSessionClosed
	}
	seats := s.Selection.Seats()
	if len(seats) == 0 {
		return Snapshot{}, ErrNoSeatsSelected
	}
	if len(seats) > seating.MaxSelectedSeats {
		return Snapshot{}, fmt.Errorf("at most %d seats per booking", seating.MaxSelectedSeats)
	}

	unavailable := []string{}
	missing := []string{}
	passengers := make([]SeatPassenger, 0, len(seats))
	for _, n := range seats {
		seat, ok := s.SeatMap.Seat(n)
		if !ok || !seat.IsAvailable {
			unavailable = append(unavailable, n)
			continue
		}
		info := s.Passengers[n]
		if !info.complete() {
			missing = append(missing, n)
			continue
		}
		passengers = append(passengers, SeatPassenger{SeatNumber: n, PassengerInfo: info})
	}
	if len(unavailable) > 0 {
		return Snapshot{}, SeatUnavailableError{Seats: unavailable}
	}
	if len(missing) > 0 {
		return Snapshot{}, MissingPassengerError{Seats: missing}
	}

	return Snapshot{
		SessionID:  s.ID,
		UserID:     s.UserID,
		AgencyID:   s.AgencyID,
		BusTypeID:  s.BusType.ID,
		From:       s.From,
		To:         s.To,
		TravelDate: s.TravelDate,
		Seats:      seats,
		Passengers: passengers,
		Quote:      s.Quote(),
	}, nil
}

// MarkConfirmed closes the session after the booking was stored.
func (s *Session) MarkConfirmed(bookingID int64) {
	s.State = StateConfirmed
	s.BookingID = bookingID
	s.touch()
}

// SortedSeats returns the selection ordered numerically, for tickets and receipts.
func SortedSeats(seats []string) []string {
	out := make([]string, len(seats))
	copy(out, seats)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		if errA != nil || errB != nil {
			return out[i] < out[j]
		}
		return a < b
	})
	return out
}

func (s *Session) syncState() {
	if s.State != StateConfirmed {
		if s.Selection.Len() == 0 {
			s.State = StateEmpty
		} else {
			s.State = StateSelecting
		}
	}
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
