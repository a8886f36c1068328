// Package tui is a terminal seat picker over a booking session.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"busticket/internal/booking"
	"busticket/internal/catalog"
	"busticket/internal/pricing"
	"busticket/internal/seating"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const warningMaxSeats = "maximum seats reached"

type Options struct {
	Agency    catalog.Agency
	From      string
	To        string
	BusTypeID string
	// Sold seats are marked unavailable on every bus type.
	Sold       []string
	ServiceFee int64
}

type Model struct {
	opts     Options
	busTypes []catalog.BusType
	typeIdx  int
	sess     *booking.Session

	// grid holds passenger seat numbers per row; the driver is not selectable.
	grid     [][]string
	row, col int

	warning string
	keys    keyMap
	help    help.Model
	done    bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	freeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	soldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	driverStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	totalStyle    = lipgloss.NewStyle().Bold(true)
)

// New opens a session on the agency's requested bus type, or its first one.
func New(opts Options) (Model, error) {
	types := agencyBusTypes(opts.Agency)
	if len(types) == 0 {
		return Model{}, errors.New("agency runs no bus type")
	}
	idx := 0
	if opts.BusTypeID != "" {
		idx = -1
		for i, bt := range types {
			if bt.ID == opts.BusTypeID {
				idx = i
			}
		}
		if idx < 0 {
			return Model{}, fmt.Errorf("%s does not run bus type %s", opts.Agency.Name, opts.BusTypeID)
		}
	}

	sess, err := booking.NewSession("terminal", types[idx], opts.Sold, opts.ServiceFee)
	if err != nil {
		return Model{}, err
	}
	sess.AgencyID = opts.Agency.ID
	sess.From = opts.From
	sess.To = opts.To

	m := Model{
		opts:     opts,
		busTypes: types,
		typeIdx:  idx,
		sess:     sess,
		keys:     defaultKeys,
		help:     help.New(),
	}
	m.rebuildGrid()
	return m, nil
}

func agencyBusTypes(a catalog.Agency) []catalog.BusType {
	out := []catalog.BusType{}
	seen := map[string]bool{}
	for _, b := range a.Buses {
		if seen[b.BusTypeID] {
			continue
		}
		if bt, ok := a.BusTypeFor(b.BusTypeID); ok {
			seen[bt.ID] = true
			out = append(out, bt)
		}
	}
	if len(out) == 0 {
		out = append(out, a.DefaultBusType())
	}
	return out
}

func (m *Model) rebuildGrid() {
	m.grid = m.grid[:0]
	for _, r := range m.sess.SeatMap.Rows() {
		var seats []string
		for _, s := range r.Seats {
			if !s.IsDriverSeat {
				seats = append(seats, s.SeatNumber)
			}
		}
		if len(seats) > 0 {
			m.grid = append(m.grid, seats)
		}
	}
	m.row, m.col = 0, 0
}

// Session exposes the underlying booking session.
func (m Model) Session() *booking.Session { return m.sess }

// Selected lists chosen seats in selection order.
func (m Model) Selected() []string { return m.sess.Selection.Seats() }

// Done reports whether the user left the picker.
func (m Model) Done() bool { return m.done }

// Cursor returns the seat number under the cursor.
func (m Model) Cursor() string {
	if len(m.grid) == 0 {
		return ""
	}
	return m.grid[m.row][m.col]
}

func (m Model) Warning() string { return m.warning }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveRow(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveRow(1)
		case key.Matches(msg, m.keys.Left):
			m.moveCol(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveCol(1)
		case key.Matches(msg, m.keys.Toggle):
			m.toggle()
		case key.Matches(msg, m.keys.BusType):
			m.nextBusType()
		}
	}
	return m, nil
}

func (m *Model) moveRow(delta int) {
	if len(m.grid) == 0 {
		return
	}
	m.row = clamp(m.row+delta, 0, len(m.grid)-1)
	m.col = clamp(m.col, 0, len(m.grid[m.row])-1)
}

// moveCol walks seats in order, wrapping onto the neighbouring row.
func (m *Model) moveCol(delta int) {
	if len(m.grid) == 0 {
		return
	}
	c := m.col + delta
	switch {
	case c < 0 && m.row > 0:
		m.row--
		m.col = len(m.grid[m.row]) - 1
	case c >= len(m.grid[m.row]) && m.row < len(m.grid)-1:
		m.row++
		m.col = 0
	default:
		m.col = clamp(c, 0, len(m.grid[m.row])-1)
	}
}

func (m *Model) toggle() {
	seat := m.Cursor()
	switch m.sess.ToggleSeat(seat) {
	case seating.LimitReached:
		m.warning = warningMaxSeats
	case seating.Ignored:
		m.warning = "seat " + seat + " is not available"
	default:
		m.warning = ""
	}
}

func (m *Model) nextBusType() {
	if len(m.busTypes) < 2 {
		return
	}
	m.typeIdx = (m.typeIdx + 1) % len(m.busTypes)
	if err := m.sess.ChangeBusType(m.busTypes[m.typeIdx], m.opts.Sold); err != nil {
		m.warning = err.Error()
		return
	}
	m.warning = ""
	m.rebuildGrid()
}

func (m Model) View() string {
	var b strings.Builder

	title := m.opts.Agency.Name + " - " + m.sess.BusType.Name
	if m.opts.From != "" && m.opts.To != "" {
		title += " - " + m.opts.From + " -> " + m.opts.To
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderSeats())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderSeats() string {
	var b strings.Builder
	cursor := m.Cursor()
	lastRow := m.sess.SeatMap.RowCount()

	for _, r := range m.sess.SeatMap.Rows() {
		b.WriteString(fmt.Sprintf("%2d  ", r.Number))
		prev := seating.Position("")
		for i, s := range r.Seats {
			if prev == seating.Left && s.Position == seating.Right {
				b.WriteString("    ")
			} else if i > 0 {
				b.WriteString(" ")
			}
			if seating.GapBefore(r.Number, lastRow, i, s) {
				b.WriteString(" ")
			}
			b.WriteString(m.cell(s, cursor))
			prev = s.Position
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) cell(s seating.Seat, cursor string) string {
	if s.IsDriverSeat {
		return driverStyle.Render(" DR")
	}
	text := fmt.Sprintf("%3s", s.SeatNumber)
	switch {
	case s.SeatNumber == cursor:
		return cursorStyle.Render(text)
	case m.sess.Selection.Contains(s.SeatNumber):
		return selectedStyle.Render(text)
	case !s.IsAvailable:
		return soldStyle.Render(" XX")
	default:
		return freeStyle.Render(text)
	}
}

func (m Model) footer() string {
	seats := m.Selected()
	selected := "none"
	if len(seats) > 0 {
		selected = strings.Join(seats, ", ")
	}
	q := m.sess.Quote()
	return fmt.Sprintf("Selected (%d/%d): %s\n%d x %s + fee %s = %s",
		len(seats), seating.MaxSelectedSeats, selected,
		q.Seats, pricing.FormatFCFA(q.BasePrice), pricing.FormatFCFA(q.ServiceFee),
		totalStyle.Render(pricing.FormatFCFA(q.Total)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
