package tui

import (
	"fmt"
	"strings"

	"busticket/internal/booking"
	"busticket/internal/pricing"
	"busticket/internal/seating"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LayoutTable prints a seat map row by row, left seats then right seats.
func LayoutTable(m seating.SeatMap) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Row", "Left", "Right"})
	for _, r := range m.Rows() {
		var left, right []string
		for _, s := range r.Seats {
			label := s.SeatNumber
			if !s.IsDriverSeat && !s.IsAvailable {
				label = "XX"
			}
			if s.Position == seating.Right {
				right = append(right, label)
			} else {
				left = append(left, label)
			}
		}
		t.AppendRow(table.Row{r.Number, strings.Join(left, " "), strings.Join(right, " ")})
	}
	t.AppendFooter(table.Row{"", "Seats", m.PassengerSeats()})
	return t.Render()
}

// SummaryTable prints the chosen seats and the price breakdown.
func SummaryTable(s *booking.Session) string {
	q := s.Quote()
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Item", "Amount"})
	t.AppendRow(table.Row{"Bus", s.BusType.Name})
	t.AppendRow(table.Row{"Seats", strings.Join(booking.SortedSeats(s.Selection.Seats()), ", ")})
	t.AppendRow(table.Row{"Fare", fmt.Sprintf("%s x %d", pricing.FormatFCFA(q.BasePrice), q.Seats)})
	t.AppendRow(table.Row{"Service fee", pricing.FormatFCFA(q.ServiceFee)})
	t.AppendFooter(table.Row{"Total", pricing.FormatFCFA(q.Total)})
	return t.Render()
}
