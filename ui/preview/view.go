package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cheerioskun/teesheet/internal/schedule"
)

// Styles for preview rendering
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	overlapBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	emptyBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))
)

// instantsShown caps the instant listing of the selected rule
const instantsShown = 8

// renderPreview renders the main preview view
func (m *Model) renderPreview() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Preview (tee times per day)"))
	parts = append(parts, m.renderBars())

	if m.summary.HasOverlaps {
		parts = append(parts, m.renderOverlaps())
	}
	if m.showInstants {
		parts = append(parts, m.renderInstants())
	}

	parts = append(parts, m.renderStatus(), m.renderHelp())
	return strings.Join(parts, "\n")
}

// renderBars draws one bar per rule scaled to the largest count
func (m *Model) renderBars() string {
	maxCount := 0
	for _, rule := range m.summary.PerRule {
		maxCount = max(maxCount, rule.Count)
	}

	var lines []string
	availableHeight := m.height - 6 // Reserve space for title, status, help
	barsToShow := len(m.summary.PerRule)
	if availableHeight > 0 && barsToShow > availableHeight {
		barsToShow = availableHeight
	}

	for i := 0; i < barsToShow; i++ {
		rule := m.summary.PerRule[i]

		barLength := 0
		if maxCount > 0 {
			barLength = int(float64(rule.Count) / float64(maxCount) * float64(m.maxBarWidth))
		}

		marker := " "
		if m.focused && i == m.cursor {
			marker = ">"
		}
		label := labelStyle.Render(fmt.Sprintf("%s%-11s /%-3d", marker, rule.TimeRange, rule.IntervalMinutes))
		line := fmt.Sprintf("%s %s %s", label, m.createBar(barLength, m.summary.Overlapping(i)), labelStyle.Render(fmt.Sprint(rule.Count)))
		lines = append(lines, line)
	}
	if barsToShow < len(m.summary.PerRule) {
		lines = append(lines, emptyBarStyle.Render(fmt.Sprintf("  ... %d more", len(m.summary.PerRule)-barsToShow)))
	}

	return strings.Join(lines, "\n")
}

// createBar creates a single count bar
func (m *Model) createBar(length int, overlapping bool) string {
	if length <= 0 {
		return emptyBarStyle.Render("▏")
	}

	bar := strings.Repeat("█", length)
	if overlapping {
		return overlapBarStyle.Render(bar)
	}
	return barStyle.Render(bar)
}

func (m *Model) renderOverlaps() string {
	pairs := make([]string, 0, len(m.summary.OverlappingPairs))
	for _, pair := range m.summary.OverlappingPairs {
		pairs = append(pairs, fmt.Sprintf("%d↔%d", pair.I+1, pair.J+1))
	}
	return warningStyle.Render("⚠ Overlapping rules: " + strings.Join(pairs, ", ") + " (duplicates will be created)")
}

// renderInstants lists the first instants of the selected rule on the first date
func (m *Model) renderInstants() string {
	if m.cursor >= len(m.rules) || !m.datesValid {
		return helpStyle.Render("No instants to show")
	}

	var labels []string
	for instant := range schedule.ExpandDay(m.dates.Start, m.rules[m.cursor], m.loc) {
		if len(labels) == instantsShown {
			labels = append(labels, "...")
			break
		}
		labels = append(labels, instant.Format("15:04"))
	}
	if len(labels) == 0 {
		return helpStyle.Render("Rule produces no tee times")
	}
	return labelStyle.Render(fmt.Sprintf("Rule %d on %s: %s", m.cursor+1, m.dates.Start, strings.Join(labels, " ")))
}

// renderStatus renders the totals and status line
func (m *Model) renderStatus() string {
	total := fmt.Sprintf("Per day: %d", m.summary.TotalCount)
	if days := m.Days(); days > 0 {
		total += fmt.Sprintf(" | %s (%d days): %d", m.dates, days, m.summary.ForDays(days))
	}

	if m.status == "" {
		return statusStyle.Render(total)
	}
	return fmt.Sprintf("%s\n%s", statusStyle.Render(total), statusStyle.Render(m.status))
}

// renderHelp renders the help text
func (m *Model) renderHelp() string {
	if !m.focused {
		return ""
	}

	var helpParts []string
	helpParts = append(helpParts, "↑/↓:select")
	if m.showInstants {
		helpParts = append(helpParts, "i:hide instants")
	} else {
		helpParts = append(helpParts, "i:show instants")
	}
	return helpStyle.Render(strings.Join(helpParts, " | "))
}

// renderEmpty renders the empty state
func (m *Model) renderEmpty() string {
	title := titleStyle.Render("Preview")
	empty := "No rules yet"
	help := helpStyle.Render("Add a rule or load a preset to see tee time counts")

	return fmt.Sprintf("%s\n\n%s\n%s", title, empty, help)
}
