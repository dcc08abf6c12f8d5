package preview

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cheerioskun/teesheet/internal/messages"
	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/schedule"
)

// Model is the live preview panel: tee times per rule, per day and for the date range
type Model struct {
	// Data
	rules      []models.TimeSlotRule
	summary    schedule.PreviewSummary
	dates      models.DateRange
	datesValid bool
	loc        *time.Location
	lastUpdate time.Time

	// UI state
	focused bool
	width   int
	height  int

	// Display options
	showInstants bool // List the first instants of the selected rule
	maxBarWidth  int  // Maximum width for count bars
	cursor       int

	// Status
	status string
}

// NewModel creates a new preview model
func NewModel() *Model {
	return &Model{
		summary:     schedule.Preview(nil),
		loc:         time.Local,
		width:       40,
		height:      20,
		maxBarWidth: 30,
		status:      "Ready",
	}
}

// Update handles messages for the preview panel
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}

		switch msg.String() {
		case "i":
			m.showInstants = !m.showInstants
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rules)-1 {
				m.cursor++
			}
		}
		return m, nil

	case messages.RulesChangedMsg:
		return m, m.SetRules(msg.Rules)

	case messages.DatesChangedMsg:
		m.SetDates(msg.Start, msg.End)
		return m, m.emitPreviewCmd()
	}

	return m, nil
}

// View renders the preview panel
func (m *Model) View() string {
	if len(m.rules) == 0 {
		return m.renderEmpty()
	}
	return m.renderPreview()
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Leave space for labels and borders
	m.maxBarWidth = width - 34
	if m.maxBarWidth < 10 {
		m.maxBarWidth = 10
	}
}

// Data management methods

// SetRules recomputes the preview and returns a command announcing it
func (m *Model) SetRules(rules []models.TimeSlotRule) tea.Cmd {
	m.rules = append(make([]models.TimeSlotRule, 0, len(rules)), rules...)
	m.summary = schedule.Preview(m.rules)
	m.lastUpdate = time.Now()
	if m.cursor >= len(m.rules) {
		m.cursor = max(len(m.rules)-1, 0)
	}
	m.status = fmt.Sprintf("Updated at %s", m.lastUpdate.Format("15:04:05"))
	return m.emitPreviewCmd()
}

// SetDates sets the date range used for the range total
func (m *Model) SetDates(start, end civil.Date) {
	dates, err := models.NewDateRange(start, end)
	m.dates = dates
	m.datesValid = err == nil
	if err != nil {
		m.status = err.Error()
	}
}

// SetLocation sets the zone used to list instants
func (m *Model) SetLocation(loc *time.Location) {
	if loc != nil {
		m.loc = loc
	}
}

// Summary returns the current preview
func (m *Model) Summary() schedule.PreviewSummary {
	return m.summary
}

// Days returns the number of days in the range, or 0 when the range is invalid
func (m *Model) Days() int {
	if !m.datesValid {
		return 0
	}
	return m.dates.Days()
}

func (m *Model) emitPreviewCmd() tea.Cmd {
	summary := m.summary
	days := m.Days()
	return func() tea.Msg {
		return messages.PreviewUpdatedMsg{Summary: summary, Days: days}
	}
}
