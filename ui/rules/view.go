package rules

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/teesheet/internal/models"
)

// Styling constants
var (
	// Colors
	primaryColor   = lipgloss.Color("205")
	secondaryColor = lipgloss.Color("240")
	successColor   = lipgloss.Color("46")
	errorColor     = lipgloss.Color("196")
	warningColor   = lipgloss.Color("214")

	// Base styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Padding(0, 1)

	editInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	selectedRuleStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	ruleStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

func (m *Model) renderNormalMode() string {
	title := "Time Slot Rules"
	header := headerStyle.
		Foreground(primaryColor).
		Render(title)

	if m.focused {
		header = headerStyle.
			Foreground(primaryColor).
			Background(lipgloss.Color("235")).
			Render(title + " *")
	}

	help := ""
	if m.focused {
		helpItems := []string{
			"↑/↓: Navigate",
			"a: Add",
			"e/Enter: Edit",
			"d: Delete",
		}
		help = helpStyle.Render(strings.Join(helpItems, " • "))
	}

	// Calculate available space for content
	headerHeight := lipgloss.Height(header)
	helpHeight := lipgloss.Height(help)
	contentHeight := m.height - headerHeight - helpHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content := lipgloss.NewStyle().
		Height(contentHeight).
		Render(m.renderRules(contentHeight))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, help)
}

func (m *Model) renderEditMode() string {
	title := "Edit Rule"
	if m.editIndex == -1 {
		title = "Add Rule"
	}

	header := headerStyle.
		Foreground(primaryColor).
		Render(title)

	parts := []string{header, editInputStyle.Render(m.editInput.View())}
	if m.editError != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(errorColor).Padding(0, 1).Render(m.editError))
	}
	parts = append(parts, helpStyle.Render("Enter: Confirm • Esc: Cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderRules(maxHeight int) string {
	if len(m.rules) == 0 {
		emptyMsg := "No rules"
		if m.focused {
			emptyMsg += " (press 'a' to add, or load a preset)"
		}
		return lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Render(emptyMsg)
	}

	var lines []string

	// Keep the cursor in view
	visibleStart := 0
	visibleEnd := len(m.rules)
	if maxHeight > 0 && len(m.rules) > maxHeight {
		if m.cursor >= maxHeight {
			visibleStart = m.cursor - maxHeight + 1
		}
		visibleEnd = min(visibleStart+maxHeight, len(m.rules))
	}

	if visibleStart > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(secondaryColor).Render("↑ ..."))
	}
	for i := visibleStart; i < visibleEnd; i++ {
		lines = append(lines, m.renderRule(m.rules[i], i, m.focused && i == m.cursor))
	}
	if visibleEnd < len(m.rules) {
		lines = append(lines, lipgloss.NewStyle().Foreground(secondaryColor).Render("↓ ..."))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderRule(rule models.TimeSlotRule, index int, isSelected bool) string {
	statusIcon := "✓"
	color := successColor
	if m.overlapping[index] {
		statusIcon = "⚠"
		color = warningColor
	}
	if rule.Validate() != nil {
		statusIcon = "✗"
		color = errorColor
	}

	content := fmt.Sprintf("%d. %s %s every %d min (%d)",
		index+1, statusIcon, rule.TimeRange(), rule.IntervalMinutes, rule.Count())

	if isSelected {
		return selectedRuleStyle.Render(content)
	}
	return ruleStyle.
		Foreground(color).
		Render(content)
}
