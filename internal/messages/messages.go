package messages

import (
	"cloud.google.com/go/civil"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/schedule"
)

// RulesChangedMsg is sent when the ordered rule list is modified
type RulesChangedMsg struct {
	Rules           []models.TimeSlotRule // Complete ordered list of rules
	SourceComponent string                // Which component sent this
}

// PreviewUpdatedMsg is sent when the preview has been recomputed
type PreviewUpdatedMsg struct {
	Summary schedule.PreviewSummary
	Days    int // Days in the current date range
}

// DatesChangedMsg is sent when the generation date range changes
type DatesChangedMsg struct {
	Start civil.Date
	End   civil.Date
}

// PresetsLoadedMsg carries the merged preset list. Presets is non-empty even when Err is set.
type PresetsLoadedMsg struct {
	Presets []models.SchedulePreset
	Err     error
}

// PresetSelectedMsg is sent when the user loads a preset into the draft
type PresetSelectedMsg struct {
	Preset models.SchedulePreset
}

// PresetSavedMsg reports the result of saving the current rules as a preset
type PresetSavedMsg struct {
	Preset models.SchedulePreset
	Err    error
}

// PresetDeletedMsg reports the result of deleting a preset
type PresetDeletedMsg struct {
	Key string
	Err error
}

// GenerationFinishedMsg carries the outcome of a bulk generation
type GenerationFinishedMsg struct {
	Request models.BulkGenerationRequest
	Outcome schedule.Outcome
	Err     error // Validation error; no tee times were sent
}

// StatusMsg replaces the status bar text
type StatusMsg struct {
	Text  string
	Error bool
}
