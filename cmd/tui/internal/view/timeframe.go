package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Timeframe is a document date range offered by the pickers.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisQuarter
	TimeframeLastQuarter
	TimeframeThisYear
	TimeframeLastYear
	TimeframeAll
	TimeframeCustom
)

// period is the calendar unit a relative timeframe is measured in.
type period int

const (
	periodNone period = iota
	periodWeek
	periodMonth
	periodQuarter
	periodYear
)

var timeframes = [...]struct {
	label    string
	unit     period
	previous bool
}{
	TimeframeThisWeek:    {"This Week", periodWeek, false},
	TimeframeLastWeek:    {"Last Week", periodWeek, true},
	TimeframeThisMonth:   {"This Month", periodMonth, false},
	TimeframeLastMonth:   {"Last Month", periodMonth, true},
	TimeframeThisQuarter: {"This Quarter", periodQuarter, false},
	TimeframeLastQuarter: {"Last Quarter", periodQuarter, true},
	TimeframeThisYear:    {"This Year", periodYear, false},
	TimeframeLastYear:    {"Last Year", periodYear, true},
	TimeframeAll:         {label: "All Time"},
	TimeframeCustom:      {label: "Custom Range"},
}

func (t Timeframe) String() string {
	if t < 0 || int(t) >= len(timeframes) {
		return "Unknown"
	}

	return timeframes[t].label
}

// startOf returns midnight on the first day of the unit containing t.
// Weeks start on Monday and quarters are calendar quarters.
func startOf(unit period, t time.Time) time.Time {
	y, m, d := t.Date()

	switch unit {
	case periodWeek:
		return time.Date(y, m, d-(int(t.Weekday())+6)%7, 0, 0, 0, 0, t.Location())
	case periodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case periodQuarter:
		return time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, t.Location())
	case periodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	}

	return t
}

// timeframeToDateRange resolves tf relative to now. A current period ends
// today; a previous one ends the day before the current one starts.
func timeframeToDateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	if tf < 0 || int(tf) >= len(timeframes) || timeframes[tf].unit == periodNone {
		return time.Time{}, time.Time{}
	}

	unit := timeframes[tf].unit
	current := startOf(unit, now)

	if !timeframes[tf].previous {
		return current, now
	}

	end := current.AddDate(0, 0, -1)

	return startOf(unit, end), end
}

// wholeDays widens a range to cover its first and last days entirely.
func wholeDays(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}

// TimeframeSelectedMsg carries the chosen range. Start and End are zero when All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

var (
	errStartDate = errors.New("start date must be YYYY-MM-DD")
	errEndDate   = errors.New("end date must be YYYY-MM-DD")
	errReversed  = errors.New("end date is before start date")
)

// parseCustomRange validates the two typed dates of a custom range.
func parseCustomRange(from, to string) (TimeframeSelectedMsg, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return TimeframeSelectedMsg{}, errStartDate
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return TimeframeSelectedMsg{}, errEndDate
	}

	if end.Before(start) {
		return TimeframeSelectedMsg{}, errReversed
	}

	start, end = wholeDays(start, end)

	return TimeframeSelectedMsg{Start: start, End: end}, nil
}

func emit(msg TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// TimeframePicker lists the timeframes from a minimum entry down to a custom
// range typed as two dates.
type TimeframePicker struct {
	selected Timeframe
	minFrame Timeframe

	custom bool
	inputs [2]textinput.Model
	focus  int

	err error
}

func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	m := TimeframePicker{selected: minFrame, minFrame: minFrame}

	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Prompt = prompt
		in.Placeholder = time.DateOnly
		in.CharLimit = len(time.DateOnly)
		in.Width = len(time.DateOnly) + 2
		m.inputs[i] = in
	}

	return m
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	switch {
	case isKey && m.custom:
		return m.updateCustom(key)
	case isKey:
		return m.updateList(key)
	case m.custom:
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m TimeframePicker) updateList(key tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.selected = max(m.minFrame, m.selected-1)
	case "down", "j":
		m.selected = min(TimeframeCustom, m.selected+1)
	case "enter":
		switch m.selected {
		case TimeframeCustom:
			m.custom = true
			m.focus = 0

			return m, m.inputs[0].Focus()
		case TimeframeAll:
			return m, emit(TimeframeSelectedMsg{All: true})
		}

		start, end := wholeDays(timeframeToDateRange(m.selected, time.Now()))

		return m, emit(TimeframeSelectedMsg{Start: start, End: end})
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(key tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.custom = false
		m.err = nil

		return m, nil
	case "tab", "shift+tab":
		m.inputs[m.focus].Blur()
		m.focus = 1 - m.focus

		return m, m.inputs[m.focus].Focus()
	case "enter":
		sel, err := parseCustomRange(m.inputs[0].Value(), m.inputs[1].Value())
		m.err = err

		if err != nil {
			return m, nil
		}

		return m, emit(sel)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)

	return m, cmd
}

var selectedTimeframe = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.custom {
		fmt.Fprintf(&b, "Custom range:\n\n%s\n%s\n\n(Tab: switch field | Enter: confirm | Esc: back)",
			m.inputs[0].View(), m.inputs[1].View())
	} else {
		b.WriteString("Documents dated:\n\n")

		for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
			if tf == m.selected {
				b.WriteString(selectedTimeframe.Render("> "+tf.String()) + "\n")
			} else {
				b.WriteString("  " + tf.String() + "\n")
			}
		}

		b.WriteString("\n(Enter: select | Esc: back)")
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render("Error: "+m.err.Error()))
	}

	return b.String()
}

// IsSelecting reports whether the list, not the custom inputs, has focus.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

// Reset returns the picker to its list with empty custom inputs.
func (m *TimeframePicker) Reset() {
	m.custom = false
	m.selected = m.minFrame
	m.err = nil

	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
}
