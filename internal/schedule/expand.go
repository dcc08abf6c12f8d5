// Package schedule turns time-slot rules and date ranges into concrete
// tee-time instants, previews the result and submits it to the booking API.
package schedule

import (
	"iter"
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"github.com/cheerioskun/teesheet/internal/models"
)

// ExpandDay yields the tee-time instants a rule produces on date, in loc.
//
// Instants start at the rule's start time and advance by whole intervals; a
// trailing partial interval before the end time is dropped, so the sequence
// has Count() instants. Stepping is done on the wall clock. Wall times that
// do not exist in loc (the hour skipped at spring-forward) are left out.
func ExpandDay(date civil.Date, rule models.TimeSlotRule, loc *time.Location) iter.Seq[time.Time] {
	if loc == nil {
		loc = time.Local
	}
	start := rule.StartTime.Minutes()
	end := rule.EndTime.Minutes()
	step := int(rule.IntervalMinutes)

	return func(yield func(time.Time) bool) {
		if step <= 0 || start >= end {
			return
		}
		for minute := start; minute+step <= end; minute += step {
			instant := time.Date(date.Year, date.Month, date.Day, 0, minute, 0, 0, loc)
			if instant.Hour()*60+instant.Minute() != minute {
				continue
			}
			if !yield(instant) {
				return
			}
		}
	}
}

// ExpandRange yields every instant for every date in [start, end] and every
// rule, dates first and rules in the given order. Overlapping rules are not
// de-duplicated.
func ExpandRange(start, end civil.Date, rules []models.TimeSlotRule, loc *time.Location) (iter.Seq[time.Time], error) {
	dates, err := models.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	rules = slices.Clone(rules)

	return func(yield func(time.Time) bool) {
		for date := range dates.Dates() {
			for _, rule := range rules {
				for instant := range ExpandDay(date, rule, loc) {
					if !yield(instant) {
						return
					}
				}
			}
		}
	}, nil
}

// CountRange returns the number of instants ExpandRange would yield
func CountRange(start, end civil.Date, rules []models.TimeSlotRule) (int, error) {
	dates, err := models.NewDateRange(start, end)
	if err != nil {
		return 0, err
	}
	perDay := 0
	for _, rule := range rules {
		perDay += rule.Count()
	}
	return perDay * dates.Days(), nil
}

// Plan materialises the creation requests for a bulk generation without sending them
func Plan(req models.BulkGenerationRequest, loc *time.Location) ([]models.GeneratedTeeTime, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	instants, err := ExpandRange(req.StartDate, req.EndDate, req.Slots, loc)
	if err != nil {
		return nil, err
	}

	var planned []models.GeneratedTeeTime
	for instant := range instants {
		planned = append(planned, models.GeneratedTeeTime{
			StartTime:      instant,
			CourseSection:  req.CourseSection,
			AvailableSlots: req.AvailableSlotsPerTime,
		})
	}
	return planned, nil
}
