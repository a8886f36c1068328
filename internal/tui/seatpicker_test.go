package tui

import (
	"strings"
	"testing"

	"busticket/internal/catalog"
	"busticket/internal/seating"

	tea "github.com/charmbracelet/bubbletea"
)

func newPicker(t *testing.T, sold ...string) Model {
	t.Helper()
	a, ok := catalog.FindAgency("agency1")
	if !ok {
		t.Fatal("agency1 missing from catalog")
	}
	m, err := New(Options{Agency: a, From: "Douala", To: "Yaounde", Sold: sold, ServiceFee: 500})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyB     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")}
	keyQ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func TestCursorSkipsDriverAndWrapsRows(t *testing.T) {
	m := newPicker(t)
	if m.Cursor() != "1" {
		t.Fatalf("expected cursor on seat 1, got %q", m.Cursor())
	}
	m = press(m, keyRight, keyRight)
	if m.Cursor() != "3" {
		t.Fatalf("expected wrap onto row 2 seat 3, got %q", m.Cursor())
	}
	m = press(m, keyLeft)
	if m.Cursor() != "2" {
		t.Fatalf("expected back to seat 2, got %q", m.Cursor())
	}
	m = press(m, keyLeft, keyLeft, keyLeft)
	if m.Cursor() != "1" {
		t.Fatalf("cursor must stop at first seat, got %q", m.Cursor())
	}
	m = press(m, keyDown)
	if m.Cursor() != "3" {
		t.Fatalf("expected seat 3 below seat 1, got %q", m.Cursor())
	}
}

func TestToggleAddsAndRemoves(t *testing.T) {
	m := newPicker(t)
	m = press(m, keySpace)
	if got := m.Selected(); len(got) != 1 || got[0] != "1" {
		t.Fatalf("expected [1], got %v", got)
	}
	m = press(m, keyEnter)
	if len(m.Selected()) != 0 {
		t.Fatalf("expected seat 1 deselected, got %v", m.Selected())
	}
}

func TestSoldSeatIsIgnored(t *testing.T) {
	m := newPicker(t, "3")
	m = press(m, keyDown, keySpace)
	if len(m.Selected()) != 0 {
		t.Fatalf("sold seat must not be selected, got %v", m.Selected())
	}
	if !strings.Contains(m.Warning(), "not available") {
		t.Fatalf("expected availability warning, got %q", m.Warning())
	}
}

func TestLimitWarning(t *testing.T) {
	m := newPicker(t)
	for i := 0; i < seating.MaxSelectedSeats; i++ {
		m = press(m, keySpace, keyRight)
	}
	if len(m.Selected()) != seating.MaxSelectedSeats {
		t.Fatalf("expected %d seats, got %v", seating.MaxSelectedSeats, m.Selected())
	}
	m = press(m, keySpace)
	if m.Warning() != warningMaxSeats {
		t.Fatalf("expected limit warning, got %q", m.Warning())
	}
	if !strings.Contains(m.View(), warningMaxSeats) {
		t.Fatalf("warning must be shown inline")
	}
	if !strings.Contains(m.View(), "FCFA 33,000") {
		t.Fatalf("expected total FCFA 33,000 in view:\n%s", m.View())
	}
}

func TestBusTypeCycleClearsSelection(t *testing.T) {
	m := newPicker(t)
	first := m.Session().BusType.ID
	m = press(m, keySpace, keyRight, keySpace)
	m = press(m, keyB)
	if m.Session().BusType.ID == first {
		t.Fatalf("expected bus type to change from %s", first)
	}
	if len(m.Selected()) != 0 {
		t.Fatalf("selection must be cleared, got %v", m.Selected())
	}
	if m.Cursor() != "1" {
		t.Fatalf("cursor must reset, got %q", m.Cursor())
	}
	if m.Session().SeatMap.PassengerSeats() != m.Session().BusType.TotalSeats {
		t.Fatalf("seat map not regenerated for %s", m.Session().BusType.ID)
	}
}

func TestQuitMarksDone(t *testing.T) {
	m := newPicker(t)
	next, cmd := m.Update(keyQ)
	if !next.(Model).Done() || cmd == nil {
		t.Fatalf("expected quit")
	}
}

func TestUnknownBusTypeRejected(t *testing.T) {
	a, _ := catalog.FindAgency("agency1")
	if _, err := New(Options{Agency: a, BusTypeID: "99"}); err == nil {
		t.Fatalf("expected error for bus type the agency does not run")
	}
}

func TestTables(t *testing.T) {
	layout := LayoutTable(seating.MustGenerate(30).WithSold([]string{"4"}))
	if !strings.Contains(layout, seating.DriverSeatNumber) || !strings.Contains(layout, "XX") {
		t.Fatalf("layout table missing driver or sold marker:\n%s", layout)
	}

	m := press(newPicker(t), keyDown, keySpace, keyRight, keySpace)
	summary := SummaryTable(m.Session())
	if !strings.Contains(summary, "3, 4") || !strings.Contains(summary, "FCFA 13,500") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
}
