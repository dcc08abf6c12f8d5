package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// Draft represents the session's working state for a bulk generation:
// the rule list being edited plus the generation parameters
type Draft struct {
	Rules         []TimeSlotRule `json:"rules"`          // Ordered rule list
	PresetKey     string         `json:"preset_key"`     // Preset the rules were loaded from, if any
	StartDate     civil.Date     `json:"start_date"`     // First generation date
	EndDate       civil.Date     `json:"end_date"`       // Last generation date (inclusive)
	CourseSection string         `json:"course_section"` // Section stamped on every tee time
	Capacity      int            `json:"capacity"`       // Players per tee time
	LastUpdated   time.Time      `json:"last_updated"`   // When last modified
}

// NewDraft creates a draft covering a single day with default parameters
func NewDraft(day civil.Date, courseSection string, capacity int) *Draft {
	if courseSection == "" {
		courseSection = DefaultCourseSection
	}
	if capacity <= 0 {
		capacity = MaxPlayersPerTeeTime
	}
	return &Draft{
		Rules:         make([]TimeSlotRule, 0),
		StartDate:     day,
		EndDate:       day,
		CourseSection: courseSection,
		Capacity:      capacity,
		LastUpdated:   time.Now(),
	}
}

// LoadPreset replaces the rule list with a copy of the preset's slots
func (d *Draft) LoadPreset(preset SchedulePreset) {
	d.Rules = preset.CloneSlots()
	d.PresetKey = preset.Key
	d.LastUpdated = time.Now()
}

// AddRule appends a rule
func (d *Draft) AddRule(rule TimeSlotRule) {
	d.Rules = append(d.Rules, rule)
	d.PresetKey = ""
	d.LastUpdated = time.Now()
}

// UpdateRule replaces the rule at index
func (d *Draft) UpdateRule(index int, rule TimeSlotRule) {
	if index >= 0 && index < len(d.Rules) {
		d.Rules[index] = rule
		d.PresetKey = ""
		d.LastUpdated = time.Now()
	}
}

// RemoveRule removes a rule by index
func (d *Draft) RemoveRule(index int) {
	if index >= 0 && index < len(d.Rules) {
		d.Rules = append(d.Rules[:index], d.Rules[index+1:]...)
		d.PresetKey = ""
		d.LastUpdated = time.Now()
	}
}

// SetRules replaces the whole rule list
func (d *Draft) SetRules(rules []TimeSlotRule) {
	d.Rules = append(make([]TimeSlotRule, 0, len(rules)), rules...)
	d.PresetKey = ""
	d.LastUpdated = time.Now()
}

// SetDates sets the generation date span
func (d *Draft) SetDates(start, end civil.Date) {
	d.StartDate = start
	d.EndDate = end
	d.LastUpdated = time.Now()
}

// Request builds the bulk generation request described by the draft
func (d *Draft) Request() BulkGenerationRequest {
	rules := make([]TimeSlotRule, len(d.Rules))
	copy(rules, d.Rules)
	return BulkGenerationRequest{
		StartDate:             d.StartDate,
		EndDate:               d.EndDate,
		Slots:                 rules,
		CourseSection:         d.CourseSection,
		AvailableSlotsPerTime: d.Capacity,
	}
}
