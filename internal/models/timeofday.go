package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of wall-clock minutes in a nominal day
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute precision
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay creates a TimeOfDay with validation
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, NewValidationError("time", fmt.Sprintf("hour %d out of range 0-23", hour))
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, NewValidationError("time", fmt.Sprintf("minute %d out of range 0-59", minute))
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses an "HH:MM" string
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)
	hh, mm, ok := strings.Cut(value, ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return TimeOfDay{}, NewValidationError("time", fmt.Sprintf("invalid time %q, expected HH:MM", value))
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, NewValidationError("time", fmt.Sprintf("invalid hour in %q", value))
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, NewValidationError("time", fmt.Sprintf("invalid minute in %q", value))
	}

	return NewTimeOfDay(hour, minute)
}

// MustParseTimeOfDay is like ParseTimeOfDay but panics on error.
// Intended for package-level tables.
func MustParseTimeOfDay(value string) TimeOfDay {
	t, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes returns minutes since midnight
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// On combines the wall-clock time with a calendar day in loc
func (t TimeOfDay) On(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, t.Hour, t.Minute, 0, 0, loc)
}

// String returns the "HH:MM" form
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
