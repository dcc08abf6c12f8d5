package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/teesheet/internal/messages"
	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/utils"
	"github.com/cheerioskun/teesheet/ui/generate"
	"github.com/cheerioskun/teesheet/ui/presets"
	"github.com/cheerioskun/teesheet/ui/preview"
	"github.com/cheerioskun/teesheet/ui/rules"
)

// FocusedPanel represents which panel is currently focused
type FocusedPanel int

const (
	RulesPanel FocusedPanel = iota
	PresetsPanel
	PreviewPanel
)

// AppModel is the tee sheet console: rule editor, preset picker, live preview and the generate dialog
type AppModel struct {
	// Core state
	draft *models.Draft

	// Components
	rules    *rules.Model
	presets  *presets.Model
	preview  *preview.Model
	generate *generate.Model

	// UI state
	focused FocusedPanel
	width   int
	height  int
	panels  []FocusedPanel

	// Status
	status        string
	statusError   bool
	statusWarning bool
	ready         bool
	quitting    bool
}

// NewAppModel creates the console around a draft
func NewAppModel(draft *models.Draft, store presets.Store, generator generate.Generator, loc *time.Location) *AppModel {
	if loc == nil {
		loc = time.Local
	}

	m := &AppModel{
		draft:    draft,
		rules:    rules.NewModel(),
		presets:  presets.NewModel(store),
		preview:  preview.NewModel(),
		generate: generate.NewModel(generator),
		focused:  RulesPanel,
		width:    100,
		height:   30,
		panels:   []FocusedPanel{RulesPanel, PresetsPanel, PreviewPanel},
		status:   "Ready",
		ready:    true,
	}

	m.preview.SetLocation(loc)
	m.preview.SetDates(draft.StartDate, draft.EndDate)
	m.preview.SetRules(draft.Rules)
	m.rules.SetRules(draft.Rules)
	m.presets.Update(messages.RulesChangedMsg{Rules: draft.Rules})
	m.updateFocus()
	m.resize()
	return m
}

// Init implements tea.Model
func (m *AppModel) Init() tea.Cmd {
	return m.presets.Init()
}

// Update implements tea.Model
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case messages.RulesChangedMsg:
		m.draft.SetRules(msg.Rules)
		m.presets.Update(msg)
		return m, m.preview.SetRules(msg.Rules)

	case messages.PresetSelectedMsg:
		m.draft.LoadPreset(msg.Preset)
		m.rules.SetRules(m.draft.Rules)
		m.presets.Update(messages.RulesChangedMsg{Rules: m.draft.Rules, SourceComponent: "presets"})
		m.setStatus(fmt.Sprintf("Loaded preset %s (%d rules)", msg.Preset.DisplayName, len(msg.Preset.Slots)), false)
		return m, m.preview.SetRules(m.draft.Rules)

	case messages.PreviewUpdatedMsg:
		_, cmd := m.rules.Update(msg)
		return m, cmd

	case messages.DatesChangedMsg:
		m.draft.SetDates(msg.Start, msg.End)
		_, cmd := m.preview.Update(msg)
		return m, cmd

	case messages.PresetsLoadedMsg:
		_, cmd := m.presets.Update(msg)
		return m, cmd

	case messages.PresetSavedMsg:
		if msg.Err != nil {
			m.setStatus("Save failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("Saved preset "+msg.Preset.DisplayName, false)
		}
		_, cmd := m.presets.Update(msg)
		return m, cmd

	case messages.PresetDeletedMsg:
		if msg.Err != nil {
			m.setStatus("Delete failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("Deleted preset "+msg.Key, false)
		}
		_, cmd := m.presets.Update(msg)
		return m, cmd

	case messages.GenerationFinishedMsg:
		m.reportGeneration(msg)
		_, cmd := m.generate.Update(msg)
		return m, cmd

	case messages.StatusMsg:
		m.setStatus(msg.Text, msg.Error)
		return m, nil

	case generate.ClosedMsg:
		m.updateFocus()
		return m, nil

	case spinner.TickMsg:
		_, cmd := m.generate.Update(msg)
		return m, cmd
	}

	// Cursor blink and other component-internal messages
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.generate.IsVisible() {
		_, cmd = m.generate.Update(msg)
		return m, cmd
	}
	_, cmd = m.rules.Update(msg)
	cmds = append(cmds, cmd)
	_, cmd = m.presets.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// The modal owns the keyboard while open
	if m.generate.IsVisible() {
		_, cmd := m.generate.Update(msg)
		return m, cmd
	}

	// Text inputs take every key, including q and tab
	if m.rules.Editing() || m.presets.Editing() {
		return m, m.updateFocused(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.nextPanel()
		return m, nil

	case "shift+tab":
		m.prevPanel()
		return m, nil

	case "g":
		if len(m.draft.Rules) == 0 {
			m.setStatus("Add at least one rule before generating", true)
			return m, nil
		}
		m.generate.SetSize(m.width, m.height)
		return m, m.generate.Show(m.draft)

	case "?":
		m.setStatus("Tab: switch panel | a/e/d: add, edit, delete rule | g: generate | q: quit", false)
		return m, nil
	}

	return m, m.updateFocused(msg)
}

func (m *AppModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focused {
	case RulesPanel:
		_, cmd = m.rules.Update(msg)
	case PresetsPanel:
		_, cmd = m.presets.Update(msg)
	case PreviewPanel:
		_, cmd = m.preview.Update(msg)
	}
	return cmd
}

func (m *AppModel) reportGeneration(msg messages.GenerationFinishedMsg) {
	logger := utils.GetLogger()
	if msg.Err != nil {
		logger.Warning("Generation rejected: %v", msg.Err)
		m.setStatus("Generation rejected: "+msg.Err.Error(), true)
		return
	}

	o := msg.Outcome
	logger.Info("Generation finished: %d of %d created", o.SuccessCount, o.Total)
	switch {
	case o.AllFailed():
		m.setStatus(fmt.Sprintf("Generation failed: none of %d tee times created", o.Total), true)
	case o.Partial():
		m.setWarning(fmt.Sprintf("Created %d of %d tee times (%d failed)", o.SuccessCount, o.Total, len(o.Failures)))
	default:
		m.setStatus(fmt.Sprintf("Created %d tee times", o.SuccessCount), false)
	}
}

// View implements tea.Model
func (m *AppModel) View() string {
	if m.quitting {
		return "Thanks for using teesheet!\n"
	}

	if !m.ready {
		return "Loading...\n"
	}

	if m.generate.IsVisible() {
		return m.generate.View()
	}

	return m.renderLayout()
}

// renderLayout creates the main application layout
func (m *AppModel) renderLayout() string {
	leftWidth, rightWidth, rulesHeight, presetsHeight, contentHeight := m.layout()

	header := m.renderHeader()

	rulesPanel := m.panelStyle(RulesPanel, leftWidth, rulesHeight).Render(m.rules.View())
	presetsPanel := m.panelStyle(PresetsPanel, leftWidth, presetsHeight).Render(m.presets.View())
	previewPanel := m.panelStyle(PreviewPanel, rightWidth, contentHeight).Render(m.preview.View())

	left := lipgloss.JoinVertical(lipgloss.Left, rulesPanel, presetsPanel)
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderStatus())
}

// renderHeader creates the application header
func (m *AppModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Render("teesheet - Tee Time Schedule Console")

	draft := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(fmt.Sprintf("%s to %s | %s | %d players per tee time",
			m.draft.StartDate, m.draft.EndDate, m.draft.CourseSection, m.draft.Capacity))

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render("Tab: Navigate | g: Generate | ?: Help | q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, draft, help)
}

// renderStatus renders the status bar
func (m *AppModel) renderStatus() string {
	color := lipgloss.Color("240")
	switch {
	case m.statusError:
		color = lipgloss.Color("196")
	case m.statusWarning:
		color = lipgloss.Color("214")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(max(m.width-2, 10)).
		Padding(0, 1).
		Render("Status: " + m.status)
}

// Helper methods

const (
	headerHeight = 3
	statusHeight = 3
)

func (m *AppModel) layout() (leftWidth, rightWidth, rulesHeight, presetsHeight, contentHeight int) {
	contentHeight = max(m.height-headerHeight-statusHeight, 8)
	leftWidth = m.width / 2
	rightWidth = m.width - leftWidth
	rulesHeight = contentHeight * 3 / 5
	presetsHeight = contentHeight - rulesHeight
	return
}

func (m *AppModel) resize() {
	leftWidth, rightWidth, rulesHeight, presetsHeight, contentHeight := m.layout()
	// Account for border and padding
	m.rules.SetSize(leftWidth-4, rulesHeight-2)
	m.presets.SetSize(leftWidth-4, presetsHeight-2)
	m.preview.SetSize(rightWidth-4, contentHeight-2)
	m.generate.SetSize(m.width, m.height)
}

func (m *AppModel) panelStyle(panel FocusedPanel, width, height int) lipgloss.Style {
	borderColor := lipgloss.Color("240")
	if panel == m.focused {
		borderColor = lipgloss.Color("205")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Padding(0, 1)
}

func (m *AppModel) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
	m.statusWarning = false
}

// setWarning shows text in the warning colour; used for partial success
func (m *AppModel) setWarning(text string) {
	m.setStatus(text, false)
	m.statusWarning = true
}

func (m *AppModel) nextPanel() {
	m.focused = m.panels[(int(m.focused)+1)%len(m.panels)]
	m.updateFocus()
}

func (m *AppModel) prevPanel() {
	m.focused = m.panels[(int(m.focused)-1+len(m.panels))%len(m.panels)]
	m.updateFocus()
}

func (m *AppModel) updateFocus() {
	m.rules.Blur()
	m.presets.Blur()
	m.preview.Blur()
	switch m.focused {
	case RulesPanel:
		m.rules.Focus()
	case PresetsPanel:
		m.presets.Focus()
	case PreviewPanel:
		m.preview.Focus()
	}
}

// Draft returns the working draft
func (m *AppModel) Draft() *models.Draft {
	return m.draft
}

// Focused returns the focused panel
func (m *AppModel) Focused() FocusedPanel {
	return m.focused
}

// Status returns the status bar text
func (m *AppModel) Status() string {
	return m.status
}
