package models

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DateRange represents an inclusive span of calendar dates
type DateRange struct {
	Start civil.Date `json:"start_date"`
	End   civil.Date `json:"end_date"`
}

// NewDateRange creates a new DateRange with validation
func NewDateRange(start, end civil.Date) (DateRange, error) {
	if !start.IsValid() {
		return DateRange{}, NewValidationError("start_date", fmt.Sprintf("invalid date %v", start))
	}
	if !end.IsValid() {
		return DateRange{}, NewValidationError("end_date", fmt.Sprintf("invalid date %v", end))
	}
	if end.Before(start) {
		return DateRange{}, NewValidationError("end_date", fmt.Sprintf("end date %s cannot be before start date %s", end, start))
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date
func ParseDate(value string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return civil.Date{}, NewValidationError("date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value))
	}
	return d, nil
}

// Today returns the current calendar date in loc
func Today(loc *time.Location) civil.Date {
	return civil.DateOf(time.Now().In(loc))
}

// Days returns the number of dates in the range, both ends included
func (dr DateRange) Days() int {
	return dr.End.DaysSince(dr.Start) + 1
}

// Dates iterates every date from Start to End inclusive
func (dr DateRange) Dates() iter.Seq[civil.Date] {
	return func(yield func(civil.Date) bool) {
		for d := dr.Start; !d.After(dr.End); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Contains checks if the given date is within the range
func (dr DateRange) Contains(d civil.Date) bool {
	return !d.Before(dr.Start) && !d.After(dr.End)
}

// String returns a human-readable representation of the date range
func (dr DateRange) String() string {
	if dr.Start == dr.End {
		return dr.Start.String()
	}
	return fmt.Sprintf("%s - %s", dr.Start, dr.End)
}
