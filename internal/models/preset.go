package models

// SchedulePreset is a named, reusable list of time-slot rules
type SchedulePreset struct {
	Key         string         `json:"key"`
	DisplayName string         `json:"name"`
	Slots       []TimeSlotRule `json:"slots"`
	Builtin     bool           `json:"builtin"`
}

// TotalPerDay returns the tee times one day of this preset produces
func (p SchedulePreset) TotalPerDay() int {
	total := 0
	for _, slot := range p.Slots {
		total += slot.Count()
	}
	return total
}

// CloneSlots returns a copy of the slot list safe to edit
func (p SchedulePreset) CloneSlots() []TimeSlotRule {
	slots := make([]TimeSlotRule, len(p.Slots))
	copy(slots, p.Slots)
	return slots
}
