package generate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/teesheet/internal/messages"
	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/schedule"
)

// Styling
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Align(lipgloss.Center)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(16)

	focusedLabelStyle = labelStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Margin(1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Align(lipgloss.Center).
			Margin(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Margin(1, 0)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Margin(1, 0)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true).
			Margin(1, 0)
)

// failuresShown caps the failure listing in the result view
const failuresShown = 6

// State represents the modal's current state
type State int

const (
	StateInput State = iota
	StateGenerating
	StateDone
)

// Field indices of the input form
const (
	fieldFrom = iota
	fieldTo
	fieldSection
	fieldCapacity
	fieldCount
)

// Generator submits a bulk generation
type Generator interface {
	Generate(ctx context.Context, req models.BulkGenerationRequest) (schedule.Outcome, error)
}

// ClosedMsg is sent when the modal closes
type ClosedMsg struct{}

// Model represents the generate modal
type Model struct {
	// UI components
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model

	// State
	state   State
	visible bool
	width   int
	height  int

	// Data
	generator    Generator
	rules        []models.TimeSlotRule
	perDay       int
	cancel       context.CancelFunc
	outcome      schedule.Outcome
	errorMessage string
}

// NewModel creates a new generate modal
func NewModel(generator Generator) *Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 30
		inputs[i] = ti
	}
	inputs[fieldFrom].Placeholder = "YYYY-MM-DD"
	inputs[fieldTo].Placeholder = "YYYY-MM-DD"
	inputs[fieldSection].Placeholder = models.DefaultCourseSection
	inputs[fieldCapacity].Placeholder = strconv.Itoa(models.MaxPlayersPerTeeTime)
	inputs[fieldCapacity].CharLimit = 1

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		inputs:    inputs,
		spinner:   sp,
		state:     StateInput,
		generator: generator,
	}
}

// Show displays the modal pre-filled from the draft
func (m *Model) Show(draft *models.Draft) tea.Cmd {
	m.visible = true
	m.state = StateInput
	m.errorMessage = ""
	m.outcome = schedule.Outcome{}
	m.rules = append(make([]models.TimeSlotRule, 0, len(draft.Rules)), draft.Rules...)
	m.perDay = schedule.Preview(m.rules).TotalCount

	m.inputs[fieldFrom].SetValue(draft.StartDate.String())
	m.inputs[fieldTo].SetValue(draft.EndDate.String())
	m.inputs[fieldSection].SetValue(draft.CourseSection)
	m.inputs[fieldCapacity].SetValue(strconv.Itoa(draft.Capacity))
	m.setFocus(fieldFrom)
	return textinput.Blink
}

// Hide hides the modal
func (m *Model) Hide() {
	m.visible = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.state = StateInput
}

// IsVisible returns true if the modal is visible
func (m *Model) IsVisible() bool {
	return m.visible
}

// State returns the current modal state
func (m *Model) State() State {
	return m.state
}

// Outcome returns the result of the last finished generation
func (m *Model) Outcome() schedule.Outcome {
	return m.outcome
}

// SetSize sets the modal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the generate modal
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateInput:
			switch msg.String() {
			case "enter":
				return m.confirm()
			case "esc":
				m.Hide()
				return m, func() tea.Msg { return ClosedMsg{} }
			case "tab", "down":
				m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			case "shift+tab", "up":
				m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
				return m, nil
			default:
				m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
				m.errorMessage = ""
				return m, cmd
			}
		case StateGenerating:
			// Esc stops issuing calls; the rest are reported as failures
			if msg.String() == "esc" && m.cancel != nil {
				m.cancel()
			}
			return m, nil
		case StateDone:
			m.Hide()
			return m, func() tea.Msg { return ClosedMsg{} }
		}

	case messages.GenerationFinishedMsg:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.state = StateDone
		m.outcome = msg.Outcome
		m.errorMessage = ""
		if msg.Err != nil {
			m.state = StateInput
			m.errorMessage = msg.Err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == StateGenerating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	default:
		if m.state == StateInput {
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the generate modal
func (m *Model) View() string {
	if !m.visible {
		return ""
	}

	var content string
	switch m.state {
	case StateInput:
		content = m.renderInputState()
	case StateGenerating:
		content = m.renderGeneratingState()
	case StateDone:
		content = m.renderDoneState()
	}

	styledContent := modalStyle.
		Width(60).
		Render(content)

	// Center the modal on screen
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styledContent)
}

func (m *Model) renderInputState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Generate Tee Times"))

	labels := []string{"From", "To", "Course section", "Players / time"}
	for i, input := range m.inputs {
		style := labelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, style.Render(labels[i]), input.View()))
	}

	parts = append(parts, previewStyle.Render(m.renderEstimate()))

	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}

	parts = append(parts, helpStyle.Render("Tab: Next field • Enter: Generate • Esc: Cancel"))
	return strings.Join(parts, "\n")
}

// renderEstimate shows how many creation calls the current form would issue
func (m *Model) renderEstimate() string {
	line := fmt.Sprintf("%d rules, %d tee times per day", len(m.rules), m.perDay)
	start, errStart := models.ParseDate(m.inputs[fieldFrom].Value())
	end, errEnd := models.ParseDate(m.inputs[fieldTo].Value())
	if errStart != nil || errEnd != nil {
		return line
	}
	if total, err := schedule.CountRange(start, end, m.rules); err == nil {
		line += fmt.Sprintf("\n%d tee times will be created", total)
	}
	return line
}

func (m *Model) renderGeneratingState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Generating..."))
	parts = append(parts, previewStyle.Render(fmt.Sprintf("%s Creating tee times, please wait", m.spinner.View())))
	parts = append(parts, helpStyle.Render("Esc: Stop"))

	return strings.Join(parts, "\n")
}

func (m *Model) renderDoneState() string {
	var parts []string
	o := m.outcome

	switch {
	case o.AllFailed():
		parts = append(parts, titleStyle.Render("Generation Failed"))
		parts = append(parts, errorStyle.Render(fmt.Sprintf("None of %d tee times were created", o.Total)))
	case len(o.Failures) > 0:
		parts = append(parts, titleStyle.Render("Generation Finished"))
		parts = append(parts, warningStyle.Render(fmt.Sprintf("Created %d of %d tee times, %d failed", o.SuccessCount, o.Total, len(o.Failures))))
	default:
		parts = append(parts, titleStyle.Render("Generation Complete"))
		parts = append(parts, successStyle.Render(fmt.Sprintf("Created %d tee times", o.SuccessCount)))
	}

	for i, f := range o.Failures {
		if i == failuresShown {
			parts = append(parts, fmt.Sprintf("... and %d more", len(o.Failures)-failuresShown))
			break
		}
		parts = append(parts, fmt.Sprintf("%s  %s", f.Instant.Format("2006-01-02 15:04"), f.ErrorMessage))
	}

	parts = append(parts, helpStyle.Render("Press any key to close"))
	return strings.Join(parts, "\n")
}

func (m *Model) setFocus(index int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = index
	m.inputs[index].Focus()
}

// Request builds the generation request from the form
func (m *Model) Request() (models.BulkGenerationRequest, error) {
	start, err := models.ParseDate(m.inputs[fieldFrom].Value())
	if err != nil {
		return models.BulkGenerationRequest{}, err
	}
	end, err := models.ParseDate(m.inputs[fieldTo].Value())
	if err != nil {
		return models.BulkGenerationRequest{}, err
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldCapacity].Value()))
	if err != nil {
		return models.BulkGenerationRequest{}, models.NewValidationError("available_slots_per_time", "capacity must be a number")
	}

	req := models.BulkGenerationRequest{
		StartDate:             start,
		EndDate:               end,
		Slots:                 append(make([]models.TimeSlotRule, 0, len(m.rules)), m.rules...),
		CourseSection:         strings.TrimSpace(m.inputs[fieldSection].Value()),
		AvailableSlotsPerTime: capacity,
	}
	return req, req.Validate()
}

// confirm validates the form and starts the generation
func (m *Model) confirm() (*Model, tea.Cmd) {
	req, err := m.Request()
	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}

	m.errorMessage = ""
	m.state = StateGenerating

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	generator := m.generator

	run := func() tea.Msg {
		outcome, err := generator.Generate(ctx, req)
		return messages.GenerationFinishedMsg{Request: req, Outcome: outcome, Err: err}
	}
	dates := func() tea.Msg {
		return messages.DatesChangedMsg{Start: req.StartDate, End: req.EndDate}
	}
	return m, tea.Batch(m.spinner.Tick, dates, run)
}
