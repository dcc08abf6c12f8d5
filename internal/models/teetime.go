package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// DefaultCourseSection matches the booking API's default section
	DefaultCourseSection = "Main Course"
	// MaxPlayersPerTeeTime is the largest group a tee time can hold
	MaxPlayersPerTeeTime = 4
)

// BulkGenerationRequest describes a date-range by rule-list tee-time generation
type BulkGenerationRequest struct {
	StartDate             civil.Date     `json:"start_date"`
	EndDate               civil.Date     `json:"end_date"`
	Slots                 []TimeSlotRule `json:"slots"`
	CourseSection         string         `json:"course_section"`
	AvailableSlotsPerTime int            `json:"available_slots_per_time"`
}

// Validate rejects requests that must not reach expansion or the network
func (r BulkGenerationRequest) Validate() error {
	if _, err := r.DateRange(); err != nil {
		return err
	}
	if len(r.Slots) == 0 {
		return NewValidationError("slots", "at least one slot rule is required")
	}
	for i, slot := range r.Slots {
		if err := slot.Validate(); err != nil {
			return NewValidationError(fmt.Sprintf("slots[%d]", i), err.Error())
		}
	}
	if strings.TrimSpace(r.CourseSection) == "" {
		return NewValidationError("course_section", "course section is required")
	}
	if r.AvailableSlotsPerTime < 1 || r.AvailableSlotsPerTime > MaxPlayersPerTeeTime {
		return NewValidationError("available_slots_per_time",
			fmt.Sprintf("capacity %d must be between 1 and %d", r.AvailableSlotsPerTime, MaxPlayersPerTeeTime))
	}
	return nil
}

// DateRange returns the validated inclusive date span of the request
func (r BulkGenerationRequest) DateRange() (DateRange, error) {
	return NewDateRange(r.StartDate, r.EndDate)
}

// GeneratedTeeTime is one outgoing creation request produced by expansion
type GeneratedTeeTime struct {
	StartTime      time.Time `json:"start_time"`
	CourseSection  string    `json:"course_section"`
	AvailableSlots int       `json:"available_slots"`
}

// MarshalJSON sends start_time as an RFC 3339 instant in UTC
func (g GeneratedTeeTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StartTime      string `json:"start_time"`
		CourseSection  string `json:"course_section"`
		AvailableSlots int    `json:"available_slots"`
	}{
		StartTime:      g.StartTime.UTC().Format(time.RFC3339),
		CourseSection:  g.CourseSection,
		AvailableSlots: g.AvailableSlots,
	})
}

// TeeTime is a tee-time record as stored by the booking API
type TeeTime struct {
	ID             int        `json:"id"`
	StartTime      time.Time  `json:"start_time"`
	CourseSection  string     `json:"course_section"`
	AvailableSlots int        `json:"available_slots"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// Golfer is a golfer record as stored by the booking API
type Golfer struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// BookingInput is the write shape of a booking; related records are sent by id
type BookingInput struct {
	TeeTimeID       int `json:"tee_time"`
	GolferID        int `json:"golfer"`
	NumberOfPlayers int `json:"number_of_players"`
}

// Validate checks the fields the booking API requires of a golfer
func (g Golfer) Validate() error {
	name := strings.TrimSpace(g.Name)
	switch {
	case name == "":
		return NewValidationError("name", "name is required")
	case len(name) > 100:
		return NewValidationError("name", "name must be at most 100 characters")
	}
	if strings.TrimSpace(g.Email) == "" {
		return NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(g.Email); err != nil {
		return NewValidationError("email", fmt.Sprintf("%q is not a valid email address", g.Email))
	}
	if len(g.Phone) > 20 {
		return NewValidationError("phone", "phone must be at most 20 characters")
	}
	return nil
}

// Validate checks a booking on its own, before the tee time is known
func (b BookingInput) Validate() error {
	if b.TeeTimeID <= 0 {
		return NewValidationError("tee_time", "a tee time id is required")
	}
	if b.GolferID <= 0 {
		return NewValidationError("golfer", "a golfer id is required")
	}
	if b.NumberOfPlayers < 1 || b.NumberOfPlayers > MaxPlayersPerTeeTime {
		return NewValidationError("number_of_players",
			fmt.Sprintf("players %d must be between 1 and %d", b.NumberOfPlayers, MaxPlayersPerTeeTime))
	}
	return nil
}

// FitsIn reports an error when the booking needs more players than teeTime has free
func (b BookingInput) FitsIn(teeTime TeeTime) error {
	if b.NumberOfPlayers > teeTime.AvailableSlots {
		return NewValidationError("number_of_players",
			fmt.Sprintf("only %d slots left on tee time %d, %d requested", teeTime.AvailableSlots, teeTime.ID, b.NumberOfPlayers))
	}
	return nil
}

// Validate checks a single tee time before it is created or updated
func (g GeneratedTeeTime) Validate() error {
	if g.StartTime.IsZero() {
		return NewValidationError("start_time", "start time is required")
	}
	if strings.TrimSpace(g.CourseSection) == "" {
		return NewValidationError("course_section", "course section is required")
	}
	if g.AvailableSlots < 1 || g.AvailableSlots > MaxPlayersPerTeeTime {
		return NewValidationError("available_slots",
			fmt.Sprintf("capacity %d must be between 1 and %d", g.AvailableSlots, MaxPlayersPerTeeTime))
	}
	return nil
}

// Booking is a booking record as returned by the API.
// The API nests tee_time and golfer on reads but may also return bare ids.
type Booking struct {
	ID              int       `json:"id"`
	TeeTime         TeeTime   `json:"tee_time"`
	Golfer          Golfer    `json:"golfer"`
	NumberOfPlayers int       `json:"number_of_players"`
	BookingTime     time.Time `json:"booking_time"`
}

// UnmarshalJSON accepts related records either nested or as ids
func (b *Booking) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID              int             `json:"id"`
		TeeTime         json.RawMessage `json:"tee_time"`
		Golfer          json.RawMessage `json:"golfer"`
		NumberOfPlayers int             `json:"number_of_players"`
		BookingTime     time.Time       `json:"booking_time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.ID = raw.ID
	b.NumberOfPlayers = raw.NumberOfPlayers
	b.BookingTime = raw.BookingTime
	b.TeeTime = TeeTime{}
	b.Golfer = Golfer{}

	if err := decodeRelated(raw.TeeTime, &b.TeeTime, &b.TeeTime.ID); err != nil {
		return fmt.Errorf("tee_time: %w", err)
	}
	if err := decodeRelated(raw.Golfer, &b.Golfer, &b.Golfer.ID); err != nil {
		return fmt.Errorf("golfer: %w", err)
	}
	return nil
}

func decodeRelated(raw json.RawMessage, target any, id *int) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '{' {
		return json.Unmarshal(raw, target)
	}
	return json.Unmarshal(raw, id)
}
