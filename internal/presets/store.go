// Package presets stores reusable schedule presets: a fixed set of built-ins
// plus user presets kept as one JSON document in a key-value backend.
package presets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/utils"
)

// StorageKey is the backend key holding every user preset
const StorageKey = "dd_golf_tee_time_presets"

// ErrPresetNotFound is returned by Get for unknown keys
var ErrPresetNotFound = errors.New("preset not found")

// Backend is a minimal key-value store for the preset document
type Backend interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// storedPreset is the persisted shape of one user preset
type storedPreset struct {
	Name  string                `json:"name"`
	Slots []models.TimeSlotRule `json:"slots"`
}

var builtins = []models.SchedulePreset{
	{
		Key:         "weekday",
		DisplayName: "Weekday",
		Builtin:     true,
		Slots: []models.TimeSlotRule{
			models.MustParseTimeSlotRule("06:30-11:00/10"),
			models.MustParseTimeSlotRule("12:00-16:30/10"),
		},
	},
	{
		Key:         "weekend",
		DisplayName: "Weekend",
		Builtin:     true,
		Slots: []models.TimeSlotRule{
			models.MustParseTimeSlotRule("06:00-12:00/8"),
			models.MustParseTimeSlotRule("12:00-17:00/10"),
		},
	},
	{
		Key:         "tournament",
		DisplayName: "Tournament",
		Builtin:     true,
		Slots: []models.TimeSlotRule{
			models.MustParseTimeSlotRule("07:00-08:30/10"),
			models.MustParseTimeSlotRule("12:30-14:00/10"),
		},
	},
}

// Builtins returns copies of the built-in presets in display order
func Builtins() []models.SchedulePreset {
	out := make([]models.SchedulePreset, len(builtins))
	for i, p := range builtins {
		p.Slots = p.CloneSlots()
		out[i] = p
	}
	return out
}

// IsBuiltin reports whether key names a built-in preset
func IsBuiltin(key string) bool {
	return slices.ContainsFunc(builtins, func(p models.SchedulePreset) bool { return p.Key == key })
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// KeyFor derives the storage key of a display name:
// trimmed, lower-cased, whitespace runs replaced by "_"
func KeyFor(displayName string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(displayName)), "_")
}

// Store merges built-in presets with user presets held in a Backend
type Store struct {
	backend Backend
	logger  *utils.Logger
}

// NewStore creates a new preset store on top of backend
func NewStore(backend Backend, logger *utils.Logger) *Store {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Store{backend: backend, logger: logger}
}

// List returns the built-ins followed by user presets sorted by key.
// On a backend read failure the built-ins are still returned with the error.
func (s *Store) List(ctx context.Context) ([]models.SchedulePreset, error) {
	list := Builtins()

	user, err := s.load(ctx)
	if err != nil {
		return list, err
	}

	keys := make([]string, 0, len(user))
	for key := range user {
		if IsBuiltin(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		stored := user[key]
		list = append(list, models.SchedulePreset{
			Key:         key,
			DisplayName: stored.Name,
			Slots:       slices.Clone(stored.Slots),
		})
	}
	return list, nil
}

// Get returns one preset from the merged view
func (s *Store) Get(ctx context.Context, key string) (models.SchedulePreset, error) {
	for _, p := range Builtins() {
		if p.Key == key {
			return p, nil
		}
	}
	user, err := s.load(ctx)
	if err != nil {
		return models.SchedulePreset{}, err
	}
	stored, ok := user[key]
	if !ok {
		return models.SchedulePreset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, key)
	}
	return models.SchedulePreset{Key: key, DisplayName: stored.Name, Slots: slices.Clone(stored.Slots)}, nil
}

// Save stores slots under the key derived from displayName, overwriting any
// user preset with the same key. Built-in keys cannot be overwritten.
func (s *Store) Save(ctx context.Context, displayName string, slots []models.TimeSlotRule) (models.SchedulePreset, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return models.SchedulePreset{}, models.NewValidationError("name", "preset name is required")
	}
	key := KeyFor(name)
	if IsBuiltin(key) {
		return models.SchedulePreset{}, models.NewValidationError("name", fmt.Sprintf("%q is a built-in preset", key))
	}
	for i, slot := range slots {
		if err := slot.Validate(); err != nil {
			return models.SchedulePreset{}, models.NewValidationError(fmt.Sprintf("slots[%d]", i), err.Error())
		}
	}

	user, err := s.load(ctx)
	if err != nil {
		return models.SchedulePreset{}, err
	}
	user[key] = storedPreset{Name: name, Slots: slices.Clone(slots)}
	if err := s.store(ctx, user); err != nil {
		return models.SchedulePreset{}, err
	}

	s.logger.With("preset", key).Info("saved preset %q with %d slots", name, len(slots))
	return models.SchedulePreset{Key: key, DisplayName: name, Slots: slices.Clone(slots)}, nil
}

// Delete removes a user preset. Unknown and built-in keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if IsBuiltin(key) {
		return nil
	}
	user, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := user[key]; !ok {
		return nil
	}
	delete(user, key)
	if err := s.store(ctx, user); err != nil {
		return err
	}
	s.logger.With("preset", key).Info("deleted preset")
	return nil
}

// load reads the user preset mapping. A missing or unparseable value is an empty mapping.
func (s *Store) load(ctx context.Context) (map[string]storedPreset, error) {
	data, ok, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	user := make(map[string]storedPreset)
	if !ok || len(data) == 0 {
		return user, nil
	}
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warning("ignoring unreadable presets under %s: %v", StorageKey, err)
		return make(map[string]storedPreset), nil
	}
	if user == nil {
		// a stored JSON null decodes to a nil map
		user = make(map[string]storedPreset)
	}
	return user, nil
}

func (s *Store) store(ctx context.Context, user map[string]storedPreset) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	if err := s.backend.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to write presets: %w", err)
	}
	return nil
}
