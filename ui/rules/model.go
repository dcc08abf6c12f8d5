package rules

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cheerioskun/teesheet/internal/messages"
	"github.com/cheerioskun/teesheet/internal/models"
)

// Model is the rule editor panel: an ordered list of time-slot rules
type Model struct {
	// Data
	rules       []models.TimeSlotRule
	overlapping map[int]bool // Rule indices taking part in an overlap

	// UI State
	cursor    int
	editMode  bool
	editInput textinput.Model
	editIndex int    // Index of rule being edited (-1 for new rule)
	editError string // Parse error of the last confirm attempt

	// Component state
	focused bool
	width   int
	height  int
}

// NewModel creates a new rule editor
func NewModel() *Model {
	input := textinput.New()
	input.Placeholder = "HH:MM-HH:MM/N, e.g. 07:00-09:00/10"
	input.CharLimit = 32

	return &Model{
		rules:       make([]models.TimeSlotRule, 0),
		overlapping: make(map[int]bool),
		cursor:      0,
		editMode:    false,
		editInput:   input,
		editIndex:   -1,
		focused:     false,
		width:       40,
		height:      20,
	}
}

// Update handles messages for the rule editor
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle edit mode input
	if m.editMode {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "enter":
				return m.confirmEdit()
			case "esc":
				return m.cancelEdit(), nil
			default:
				m.editInput, cmd = m.editInput.Update(msg)
				return m, cmd
			}
		default:
			m.editInput, cmd = m.editInput.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case messages.PreviewUpdatedMsg:
		m.overlapping = make(map[int]bool)
		for _, pair := range msg.Summary.OverlappingPairs {
			m.overlapping[pair.I] = true
			m.overlapping[pair.J] = true
		}
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			m.moveCursorUp()
		case "down", "j":
			m.moveCursorDown()
		case "a":
			m.startAddRule()
		case "e":
			if m.hasRuleAtCursor() {
				m.startEditRule()
			}
		case "d", "delete":
			return m, m.deleteRule()
		case "enter":
			if m.hasRuleAtCursor() {
				m.startEditRule()
			} else {
				m.startAddRule()
			}
		}
	}

	return m, cmd
}

// View renders the rule editor
func (m *Model) View() string {
	if m.editMode {
		return m.renderEditMode()
	}
	return m.renderNormalMode()
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
	if m.editMode {
		m.cancelEdit()
	}
}

func (m *Model) IsFocused() bool {
	return m.focused
}

// Editing reports whether the text input currently owns the keyboard
func (m *Model) Editing() bool {
	return m.editMode
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Data management methods

// SetRules replaces the list, e.g. after a preset is loaded. No message is emitted.
func (m *Model) SetRules(rules []models.TimeSlotRule) {
	m.rules = append(make([]models.TimeSlotRule, 0, len(rules)), rules...)
	if m.cursor >= len(m.rules) {
		m.cursor = max(len(m.rules)-1, 0)
	}
}

// Rules returns a copy of the current list
func (m *Model) Rules() []models.TimeSlotRule {
	return append(make([]models.TimeSlotRule, 0, len(m.rules)), m.rules...)
}

// Internal methods

func (m *Model) hasRuleAtCursor() bool {
	return m.cursor >= 0 && m.cursor < len(m.rules)
}

func (m *Model) moveCursorUp() {
	if m.cursor > 0 {
		m.cursor--
	} else if len(m.rules) > 0 {
		m.cursor = len(m.rules) - 1
	}
}

func (m *Model) moveCursorDown() {
	if len(m.rules) == 0 {
		m.cursor = 0
		return
	}

	if m.cursor < len(m.rules)-1 {
		m.cursor++
	} else {
		m.cursor = 0
	}
}

func (m *Model) startAddRule() {
	m.editMode = true
	m.editIndex = -1
	m.editError = ""
	m.editInput.SetValue("")
	m.editInput.Focus()
}

func (m *Model) startEditRule() {
	if !m.hasRuleAtCursor() {
		return
	}

	m.editMode = true
	m.editIndex = m.cursor
	m.editError = ""
	m.editInput.SetValue(m.rules[m.cursor].String())
	m.editInput.CursorEnd()
	m.editInput.Focus()
}

func (m *Model) confirmEdit() (*Model, tea.Cmd) {
	value := strings.TrimSpace(m.editInput.Value())
	if value == "" {
		return m.cancelEdit(), nil
	}

	rule, err := models.ParseTimeSlotRule(value)
	if err != nil {
		// Stay in edit mode so the value can be fixed
		m.editError = err.Error()
		return m, nil
	}

	if m.editIndex == -1 {
		m.rules = append(m.rules, rule)
		m.cursor = len(m.rules) - 1
	} else {
		m.rules[m.editIndex] = rule
	}

	model := m.cancelEdit()
	return model, m.emitRulesChangedCmd()
}

func (m *Model) cancelEdit() *Model {
	m.editMode = false
	m.editIndex = -1
	m.editError = ""
	m.editInput.Blur()
	m.editInput.SetValue("")
	return m
}

func (m *Model) deleteRule() tea.Cmd {
	if !m.hasRuleAtCursor() {
		return nil
	}

	m.rules = append(m.rules[:m.cursor], m.rules[m.cursor+1:]...)

	// Adjust cursor if needed
	if m.cursor >= len(m.rules) && len(m.rules) > 0 {
		m.cursor = len(m.rules) - 1
	} else if len(m.rules) == 0 {
		m.cursor = 0
	}

	return m.emitRulesChangedCmd()
}

// emitRulesChangedCmd creates a command that emits the ordered rule list
func (m *Model) emitRulesChangedCmd() tea.Cmd {
	rules := m.Rules()
	return func() tea.Msg {
		return messages.RulesChangedMsg{
			Rules:           rules,
			SourceComponent: "rule_editor",
		}
	}
}
