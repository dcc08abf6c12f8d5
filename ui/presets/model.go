package presets

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/teesheet/internal/messages"
	"github.com/cheerioskun/teesheet/internal/models"
)

// Store is the part of the preset store the picker needs
type Store interface {
	List(ctx context.Context) ([]models.SchedulePreset, error)
	Save(ctx context.Context, displayName string, slots []models.TimeSlotRule) (models.SchedulePreset, error)
	Delete(ctx context.Context, key string) error
}

// Model is the preset picker: built-in and saved presets, load, save and delete
type Model struct {
	// Data
	store   Store
	presets []models.SchedulePreset
	current []models.TimeSlotRule // Rules that "save" would store
	err     string

	// UI state
	cursor    int
	saving    bool
	nameInput textinput.Model
	focused   bool
	width     int
	height    int

	// Styles
	titleStyle    lipgloss.Style
	presetStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	builtinStyle  lipgloss.Style
	emptyStyle    lipgloss.Style
	errorStyle    lipgloss.Style
	helpStyle     lipgloss.Style
}

// NewModel creates a new preset picker
func NewModel(store Store) *Model {
	input := textinput.New()
	input.Placeholder = "Preset name..."
	input.CharLimit = 64

	return &Model{
		store:     store,
		presets:   make([]models.SchedulePreset, 0),
		nameInput: input,
		width:     40,
		height:    10,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Margin(0, 0, 1, 0),

		presetStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")),

		selectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")),

		builtinStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// Init loads the preset list
func (m *Model) Init() tea.Cmd {
	return m.Refresh()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.saving {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "enter":
				return m, m.confirmSave()
			case "esc":
				m.cancelSave()
				return m, nil
			}
		}
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case messages.PresetsLoadedMsg:
		m.presets = msg.Presets
		m.err = ""
		if msg.Err != nil {
			m.err = fmt.Sprintf("saved presets unavailable: %v", msg.Err)
		}
		if m.cursor >= len(m.presets) {
			m.cursor = max(len(m.presets)-1, 0)
		}
		return m, nil

	case messages.PresetSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		return m, m.Refresh()

	case messages.PresetDeletedMsg:
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		return m, m.Refresh()

	case messages.RulesChangedMsg:
		m.current = msg.Rules
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", "l":
			return m, m.selectPreset()
		case "s":
			m.startSave()
		case "d", "delete":
			return m, m.deletePreset()
		case "r":
			return m, m.Refresh()
		}
	}

	return m, nil
}

// View renders the component
func (m *Model) View() string {
	title := "Presets"
	if m.focused {
		title += " *"
	}
	header := m.titleStyle.Render(title)

	if m.saving {
		parts := []string{
			header,
			fmt.Sprintf("Save %d rules as:", len(m.current)),
			m.nameInput.View(),
		}
		if m.err != "" {
			parts = append(parts, m.errorStyle.Render(m.err))
		}
		parts = append(parts, m.helpStyle.Render("Enter: Save • Esc: Cancel"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	var content string
	if len(m.presets) == 0 {
		content = m.emptyStyle.Render("No presets loaded")
	} else {
		content = m.renderPresets()
	}

	parts := []string{header, content}
	if m.err != "" {
		parts = append(parts, m.errorStyle.Render(m.err))
	}
	if m.focused {
		parts = append(parts, m.helpStyle.Render("Enter: Load • s: Save current • d: Delete • r: Reload"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderPresets() string {
	var lines []string
	for i, p := range m.presets {
		kind := ""
		if p.Builtin {
			kind = m.builtinStyle.Render(" (built-in)")
		}
		line := fmt.Sprintf("%-16s %2d rules %4d/day", truncate(p.DisplayName, 16), len(p.Slots), p.TotalPerDay())
		if m.focused && i == m.cursor {
			line = m.selectedStyle.Render(line)
		} else {
			line = m.presetStyle.Render(line)
		}
		lines = append(lines, line+kind)
	}
	return strings.Join(lines, "\n")
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
	m.cancelSave()
}

func (m *Model) IsFocused() bool {
	return m.focused
}

// Editing reports whether the name input currently owns the keyboard
func (m *Model) Editing() bool {
	return m.saving
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Presets returns the loaded preset list
func (m *Model) Presets() []models.SchedulePreset {
	return m.presets
}

// Refresh reloads the preset list from the store
func (m *Model) Refresh() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		list, err := store.List(context.Background())
		return messages.PresetsLoadedMsg{Presets: list, Err: err}
	}
}

func (m *Model) selectPreset() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.presets) {
		return nil
	}
	preset := m.presets[m.cursor]
	return func() tea.Msg {
		return messages.PresetSelectedMsg{Preset: preset}
	}
}

func (m *Model) startSave() {
	m.saving = true
	m.err = ""
	m.nameInput.SetValue("")
	m.nameInput.Focus()
}

func (m *Model) cancelSave() {
	m.saving = false
	m.nameInput.Blur()
	m.nameInput.SetValue("")
}

func (m *Model) confirmSave() tea.Cmd {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.err = "preset name is required"
		return nil
	}
	if len(m.current) == 0 {
		m.err = "add at least one rule before saving"
		return nil
	}
	m.cancelSave()

	store := m.store
	rules := append(make([]models.TimeSlotRule, 0, len(m.current)), m.current...)
	return func() tea.Msg {
		preset, err := store.Save(context.Background(), name, rules)
		return messages.PresetSavedMsg{Preset: preset, Err: err}
	}
}

func (m *Model) deletePreset() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.presets) {
		return nil
	}
	preset := m.presets[m.cursor]
	if preset.Builtin {
		m.err = fmt.Sprintf("%s is built-in and cannot be deleted", preset.DisplayName)
		return nil
	}
	store := m.store
	return func() tea.Msg {
		return messages.PresetDeletedMsg{Key: preset.Key, Err: store.Delete(context.Background(), preset.Key)}
	}
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
