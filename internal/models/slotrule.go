package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinIntervalMinutes is the smallest accepted tee-time cadence
	MinIntervalMinutes = 1
	// MaxIntervalMinutes bounds the cadence so one rule cannot explode into thousands of requests
	MaxIntervalMinutes = 120
)

// IntervalMinutes is the gap between consecutive tee times produced by a rule
type IntervalMinutes int

// Valid reports whether the interval is inside the accepted range
func (i IntervalMinutes) Valid() bool {
	return i >= MinIntervalMinutes && i <= MaxIntervalMinutes
}

// Duration returns the interval as a time.Duration
func (i IntervalMinutes) Duration() time.Duration {
	return time.Duration(i) * time.Minute
}

// TimeSlotRule describes a repeating cadence of tee times within one day
type TimeSlotRule struct {
	StartTime       TimeOfDay       `json:"start_time"`
	EndTime         TimeOfDay       `json:"end_time"`
	IntervalMinutes IntervalMinutes `json:"interval_minutes"`
}

// NewTimeSlotRule creates a validated rule
func NewTimeSlotRule(start, end TimeOfDay, interval int) (TimeSlotRule, error) {
	rule := TimeSlotRule{StartTime: start, EndTime: end, IntervalMinutes: IntervalMinutes(interval)}
	if err := rule.Validate(); err != nil {
		return TimeSlotRule{}, err
	}
	return rule, nil
}

// ParseTimeSlotRule parses the "HH:MM-HH:MM/N" form used by the CLI and console,
// e.g. "07:00-09:00/10"
func ParseTimeSlotRule(value string) (TimeSlotRule, error) {
	value = strings.TrimSpace(value)
	window, every, ok := strings.Cut(value, "/")
	if !ok {
		return TimeSlotRule{}, NewValidationError("slot", fmt.Sprintf("invalid rule %q, expected HH:MM-HH:MM/N", value))
	}
	from, to, ok := strings.Cut(window, "-")
	if !ok {
		return TimeSlotRule{}, NewValidationError("slot", fmt.Sprintf("invalid rule %q, expected HH:MM-HH:MM/N", value))
	}

	start, err := ParseTimeOfDay(from)
	if err != nil {
		return TimeSlotRule{}, err
	}
	end, err := ParseTimeOfDay(to)
	if err != nil {
		return TimeSlotRule{}, err
	}
	interval, err := strconv.Atoi(strings.TrimSpace(every))
	if err != nil {
		return TimeSlotRule{}, NewValidationError("interval_minutes", fmt.Sprintf("invalid interval in %q", value))
	}

	return NewTimeSlotRule(start, end, interval)
}

// MustParseTimeSlotRule is like ParseTimeSlotRule but panics on error
func MustParseTimeSlotRule(value string) TimeSlotRule {
	rule, err := ParseTimeSlotRule(value)
	if err != nil {
		panic(err)
	}
	return rule
}

// ParseTimeSlotRules parses every value and fails on the first bad one
func ParseTimeSlotRules(values []string) ([]TimeSlotRule, error) {
	rules := make([]TimeSlotRule, 0, len(values))
	for i, value := range values {
		rule, err := ParseTimeSlotRule(value)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Validate checks the same-day ordering and interval bounds
func (r TimeSlotRule) Validate() error {
	if !r.StartTime.Before(r.EndTime) {
		return NewValidationError("start_time", fmt.Sprintf("start %s must be before end %s", r.StartTime, r.EndTime))
	}
	if !r.IntervalMinutes.Valid() {
		return NewValidationError("interval_minutes", fmt.Sprintf("interval %d must be between %d and %d minutes",
			r.IntervalMinutes, MinIntervalMinutes, MaxIntervalMinutes))
	}
	return nil
}

// SpanMinutes returns end minus start in minutes, or 0 for an empty window
func (r TimeSlotRule) SpanMinutes() int {
	span := r.EndTime.Minutes() - r.StartTime.Minutes()
	if span < 0 {
		return 0
	}
	return span
}

// Count returns how many tee times the rule produces per day.
// A partial trailing interval is dropped.
func (r TimeSlotRule) Count() int {
	if r.IntervalMinutes <= 0 {
		return 0
	}
	return r.SpanMinutes() / int(r.IntervalMinutes)
}

// Overlaps reports whether the [start, end) windows of both rules intersect
func (r TimeSlotRule) Overlaps(other TimeSlotRule) bool {
	if r.SpanMinutes() == 0 || other.SpanMinutes() == 0 {
		return false
	}
	return r.StartTime.Before(other.EndTime) && other.StartTime.Before(r.EndTime)
}

// TimeRange returns the "HH:MM-HH:MM" label of the window
func (r TimeSlotRule) TimeRange() string {
	return fmt.Sprintf("%s-%s", r.StartTime, r.EndTime)
}

// String returns the "HH:MM-HH:MM/N" form accepted by ParseTimeSlotRule
func (r TimeSlotRule) String() string {
	return fmt.Sprintf("%s/%d", r.TimeRange(), r.IntervalMinutes)
}
