package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/cheerioskun/teesheet/internal/messages"
	"github.com/cheerioskun/teesheet/internal/models"
	store "github.com/cheerioskun/teesheet/internal/presets"
	"github.com/cheerioskun/teesheet/internal/schedule"
	"github.com/cheerioskun/teesheet/internal/utils"
)

type nopGenerator struct{}

func (nopGenerator) Generate(ctx context.Context, req models.BulkGenerationRequest) (schedule.Outcome, error) {
	return schedule.Outcome{}, nil
}

func newApp(t *testing.T) *AppModel {
	t.Helper()
	utils.SetLogger(utils.NewNopLogger())
	s := store.NewStore(store.NewFileBackend(afero.NewMemMapFs(), "/presets"), utils.NewNopLogger())
	draft := models.NewDraft(civil.Date{Year: 2026, Month: time.May, Day: 1}, "", 0)
	return NewAppModel(draft, s, nopGenerator{}, time.UTC)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPresetSelectionLoadsDraft(t *testing.T) {
	m := newApp(t)
	weekend, err := store.NewStore(store.NewFileBackend(afero.NewMemMapFs(), "/p"), utils.NewNopLogger()).Get(context.Background(), "weekend")
	if err != nil {
		t.Fatalf("get weekend: %v", err)
	}

	_, cmd := m.Update(messages.PresetSelectedMsg{Preset: weekend})
	if m.Draft().PresetKey != "weekend" || len(m.Draft().Rules) != len(weekend.Slots) {
		t.Fatalf("draft not loaded: %+v", m.Draft())
	}
	if len(m.rules.Rules()) != len(weekend.Slots) {
		t.Fatalf("rule editor not updated")
	}
	msg, ok := cmd().(messages.PreviewUpdatedMsg)
	if !ok || msg.Summary.TotalCount != weekend.TotalPerDay() {
		t.Fatalf("unexpected preview %+v", msg)
	}
	if !strings.Contains(m.Status(), "Loaded preset") {
		t.Fatalf("status = %q", m.Status())
	}
}

func TestRulesChangedUpdatesDraft(t *testing.T) {
	m := newApp(t)
	rules := []models.TimeSlotRule{models.MustParseTimeSlotRule("07:00-08:00/10")}

	_, cmd := m.Update(messages.RulesChangedMsg{Rules: rules, SourceComponent: "rule_editor"})
	if len(m.Draft().Rules) != 1 {
		t.Fatalf("draft rules = %d, want 1", len(m.Draft().Rules))
	}
	if msg, ok := cmd().(messages.PreviewUpdatedMsg); !ok || msg.Summary.TotalCount != 6 || msg.Days != 1 {
		t.Fatalf("unexpected preview %+v", msg)
	}
}

func TestQuitIgnoredWhileEditing(t *testing.T) {
	m := newApp(t)
	m.Update(runes("a"))
	if !m.rules.Editing() {
		t.Fatalf("expected rule editor in edit mode")
	}

	m.Update(runes("q"))
	if m.quitting {
		t.Fatalf("q must be typed into the input while editing")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(runes("q"))
	if !m.quitting {
		t.Fatalf("expected q to quit outside edit mode")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := newApp(t)
	want := []FocusedPanel{PresetsPanel, PreviewPanel, RulesPanel}
	for _, panel := range want {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.Focused() != panel {
			t.Fatalf("focused = %v, want %v", m.Focused(), panel)
		}
	}
	if !m.rules.IsFocused() || m.presets.IsFocused() {
		t.Fatalf("component focus out of sync")
	}
}

func TestGenerateRequiresRules(t *testing.T) {
	m := newApp(t)
	m.Update(runes("g"))
	if m.generate.IsVisible() || !m.statusError {
		t.Fatalf("expected an error status and no dialog")
	}

	m.Update(messages.RulesChangedMsg{Rules: []models.TimeSlotRule{models.MustParseTimeSlotRule("07:00-08:00/10")}})
	m.Update(runes("g"))
	if !m.generate.IsVisible() {
		t.Fatalf("expected generate dialog")
	}
	if !strings.Contains(m.View(), "Generate Tee Times") {
		t.Fatalf("expected dialog view")
	}
}

func TestGenerationStatus(t *testing.T) {
	tests := []struct {
		name      string
		outcome   schedule.Outcome
		want      string
		isError   bool
		isWarning bool
	}{
		{"success", schedule.Outcome{Total: 6, SuccessCount: 6}, "Created 6 tee times", false, false},
		{"partial", schedule.Outcome{Total: 6, SuccessCount: 5, Failures: make([]schedule.Failure, 1)}, "Created 5 of 6 tee times (1 failed)", false, true},
		{"all failed", schedule.Outcome{Total: 2, Failures: make([]schedule.Failure, 2)}, "none of 2 tee times created", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newApp(t)
			m.Update(messages.GenerationFinishedMsg{Outcome: tt.outcome})
			if !strings.Contains(m.Status(), tt.want) || m.statusError != tt.isError || m.statusWarning != tt.isWarning {
				t.Fatalf("status = %q (error %v, warning %v)", m.Status(), m.statusError, m.statusWarning)
			}
		})
	}
}
