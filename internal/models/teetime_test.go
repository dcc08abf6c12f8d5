package models

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestBulkGenerationRequestValidate(t *testing.T) {
	valid := BulkGenerationRequest{
		StartDate:             civil.Date{Year: 2026, Month: time.May, Day: 1},
		EndDate:               civil.Date{Year: 2026, Month: time.May, Day: 2},
		Slots:                 []TimeSlotRule{MustParseTimeSlotRule("07:00-09:00/10")},
		CourseSection:         DefaultCourseSection,
		AvailableSlotsPerTime: 4,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		edit  func(r *BulkGenerationRequest)
		field string
	}{
		{name: "end before start", edit: func(r *BulkGenerationRequest) { r.EndDate = civil.Date{Year: 2026, Month: time.April, Day: 30} }, field: "end_date"},
		{name: "no slots", edit: func(r *BulkGenerationRequest) { r.Slots = nil }, field: "slots"},
		{name: "bad slot", edit: func(r *BulkGenerationRequest) {
			r.Slots = append(r.Slots, TimeSlotRule{StartTime: MustParseTimeOfDay("08:00"), EndTime: MustParseTimeOfDay("09:00")})
		}, field: "slots[1]"},
		{name: "blank section", edit: func(r *BulkGenerationRequest) { r.CourseSection = "  " }, field: "course_section"},
		{name: "zero capacity", edit: func(r *BulkGenerationRequest) { r.AvailableSlotsPerTime = 0 }, field: "available_slots_per_time"},
		{name: "capacity too large", edit: func(r *BulkGenerationRequest) { r.AvailableSlotsPerTime = 5 }, field: "available_slots_per_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Slots = slices.Clone(valid.Slots)
			tt.edit(&req)
			err := req.Validate()
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if vErr.Field != tt.field {
				t.Fatalf("field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestDateRangeDates(t *testing.T) {
	start := civil.Date{Year: 2026, Month: time.February, Day: 27}
	end := civil.Date{Year: 2026, Month: time.March, Day: 2}
	dr, err := NewDateRange(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dr.Days() != 4 {
		t.Fatalf("days = %d, want 4", dr.Days())
	}

	var got []string
	for d := range dr.Dates() {
		got = append(got, d.String())
	}
	want := []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := NewDateRange(end, start); !IsValidationError(err) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}

func TestGeneratedTeeTimeMarshalsUTC(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	g := GeneratedTeeTime{
		StartTime:      time.Date(2026, time.May, 1, 7, 10, 0, 0, loc),
		CourseSection:  "Back Nine",
		AvailableSlots: 4,
	}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"start_time":"2026-05-01T12:10:00Z","course_section":"Back Nine","available_slots":4}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestBookingUnmarshal(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		var b Booking
		body := `{"id":3,"tee_time":{"id":7,"start_time":"2026-05-01T12:10:00Z","course_section":"Main Course","available_slots":2},
			"golfer":{"id":9,"name":"Sam","email":"sam@example.com"},"number_of_players":2,"booking_time":"2026-04-01T10:00:00Z"}`
		if err := json.Unmarshal([]byte(body), &b); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if b.TeeTime.ID != 7 || b.TeeTime.AvailableSlots != 2 || b.Golfer.Name != "Sam" || b.NumberOfPlayers != 2 {
			t.Fatalf("unexpected booking %+v", b)
		}
	})

	t.Run("ids", func(t *testing.T) {
		var b Booking
		if err := json.Unmarshal([]byte(`{"id":3,"tee_time":7,"golfer":9,"number_of_players":1}`), &b); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if b.TeeTime.ID != 7 || b.Golfer.ID != 9 {
			t.Fatalf("unexpected booking %+v", b)
		}
	})
}

func TestGolferValidate(t *testing.T) {
	tests := []struct {
		name   string
		golfer Golfer
		field  string
	}{
		{name: "valid", golfer: Golfer{Name: "Sam Snead", Email: "sam@example.com", Phone: "555-0100"}},
		{name: "blank name", golfer: Golfer{Name: " ", Email: "sam@example.com"}, field: "name"},
		{name: "missing email", golfer: Golfer{Name: "Sam"}, field: "email"},
		{name: "malformed email", golfer: Golfer{Name: "Sam", Email: "sam.example.com"}, field: "email"},
		{name: "long phone", golfer: Golfer{Name: "Sam", Email: "sam@example.com", Phone: "+1 555 0100 0100 0100 0100"}, field: "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.golfer.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Fatalf("err = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestBookingInputChecks(t *testing.T) {
	booking := BookingInput{TeeTimeID: 7, GolferID: 9, NumberOfPlayers: 3}
	if err := booking.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := booking.FitsIn(TeeTime{ID: 7, AvailableSlots: 3}); err != nil {
		t.Fatalf("exact fit rejected: %v", err)
	}
	if err := booking.FitsIn(TeeTime{ID: 7, AvailableSlots: 2}); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	for _, bad := range []BookingInput{
		{GolferID: 9, NumberOfPlayers: 1},
		{TeeTimeID: 7, NumberOfPlayers: 1},
		{TeeTimeID: 7, GolferID: 9},
		{TeeTimeID: 7, GolferID: 9, NumberOfPlayers: 5},
	} {
		if err := bad.Validate(); !IsValidationError(err) {
			t.Errorf("expected validation error for %+v, got %v", bad, err)
		}
	}
}

func TestDraftRuleEditing(t *testing.T) {
	d := NewDraft(civil.Date{Year: 2026, Month: time.May, Day: 1}, "", 0)
	if d.CourseSection != DefaultCourseSection || d.Capacity != MaxPlayersPerTeeTime {
		t.Fatalf("unexpected defaults %+v", d)
	}

	d.LoadPreset(SchedulePreset{Key: "weekday", Slots: []TimeSlotRule{MustParseTimeSlotRule("07:00-09:00/10")}})
	if d.PresetKey != "weekday" {
		t.Fatalf("preset key = %q", d.PresetKey)
	}

	d.AddRule(MustParseTimeSlotRule("12:00-13:00/15"))
	if d.PresetKey != "" {
		t.Fatalf("editing should detach the draft from its preset")
	}
	d.UpdateRule(0, MustParseTimeSlotRule("06:00-08:00/10"))
	d.RemoveRule(5)
	if len(d.Rules) != 2 || d.Rules[0].String() != "06:00-08:00/10" {
		t.Fatalf("unexpected rules %v", d.Rules)
	}
	d.RemoveRule(0)

	req := d.Request()
	if len(req.Slots) != 1 || req.Slots[0].String() != "12:00-13:00/15" {
		t.Fatalf("unexpected request slots %v", req.Slots)
	}
	req.Slots[0] = MustParseTimeSlotRule("01:00-02:00/5")
	if d.Rules[0].String() != "12:00-13:00/15" {
		t.Fatalf("request must not alias draft rules")
	}
}
