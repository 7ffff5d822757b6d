package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"reserva-backend/models"

	"gorm.io/gorm"
)

// SettingsSnapshot is the parsed, immutable view of the operating calendar
// the engine reads. OpenDays is keyed Monday=0 .. Sunday=6.
type SettingsSnapshot struct {
	Version      int64
	OpenDays     map[int]bool
	Lunch        Window
	Dinner       Window
	AvgTableTime int
}

// SettingsService owns the single Settings row and serves consistent
// snapshots to concurrent readers. All writes go through Update, which
// persists first and then swaps the snapshot under the lock.
type SettingsService struct {
	DB *gorm.DB

	mu   sync.RWMutex
	snap SettingsSnapshot
}

func NewSettingsService(db *gorm.DB) (*SettingsService, error) {
	s := &SettingsService{DB: db}
	current, err := s.load()
	if err != nil {
		return nil, err
	}
	snap, err := buildSnapshot(current, 1)
	if err != nil {
		return nil, fmt.Errorf("stored settings are invalid: %w", err)
	}
	s.snap = snap
	return s, nil
}

func (s *SettingsService) load() (models.Settings, error) {
	var settings models.Settings
	err := s.DB.Where("settings_id = ?", "global").First(&settings).Error
	return settings, err
}

// Get returns the persisted settings row.
func (s *SettingsService) Get() (models.Settings, error) {
	return s.load()
}

// Snapshot returns the current parsed calendar. Safe for concurrent use;
// a settings update never mutates a snapshot already handed out.
func (s *SettingsService) Snapshot() SettingsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Update validates and persists a new calendar, then publishes it as the
// next snapshot version.
func (s *SettingsService) Update(input models.Settings) (models.Settings, error) {
	if err := ValidateSettings(input); err != nil {
		return models.Settings{}, err
	}

	current, err := s.load()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	current.OpenDays = input.OpenDays
	current.LunchStart = input.LunchStart
	current.LunchEnd = input.LunchEnd
	current.DinnerStart = input.DinnerStart
	current.DinnerEnd = input.DinnerEnd
	current.AvgTableTime = input.AvgTableTime
	current.MaxCapacityLunch = input.MaxCapacityLunch
	current.MaxCapacityDinner = input.MaxCapacityDinner

	if err := s.DB.Save(&current).Error; err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := buildSnapshot(current, s.snap.Version+1)
	if err != nil {
		return models.Settings{}, err
	}
	s.snap = snap
	return current, nil
}

func decodeOpenDays(raw []byte) ([]int, error) {
	var days []int
	if len(raw) == 0 {
		return nil, fmt.Errorf("open_days missing")
	}
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// ValidateSettings enforces the calendar invariants: well-formed windows,
// lunch strictly before dinner with no overlap, non-negative capacities
// and a positive table time.
func ValidateSettings(in models.Settings) error {
	days, err := decodeOpenDays(in.OpenDays)
	if err != nil {
		return invalidf("open_days", "must be a JSON array of weekday ints")
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return invalidf("open_days", "weekday %d out of range 0-6", d)
		}
	}

	ls, err := ParseClock(in.LunchStart)
	if err != nil {
		return invalidf("lunch_start", "must be HH:MM")
	}
	le, err := ParseClock(in.LunchEnd)
	if err != nil {
		return invalidf("lunch_end", "must be HH:MM")
	}
	ds, err := ParseClock(in.DinnerStart)
	if err != nil {
		return invalidf("dinner_start", "must be HH:MM")
	}
	de, err := ParseClock(in.DinnerEnd)
	if err != nil {
		return invalidf("dinner_end", "must be HH:MM")
	}

	if ls >= le {
		return invalidf("lunch_end", "must be after lunch_start")
	}
	if ds >= de {
		return invalidf("dinner_end", "must be after dinner_start")
	}
	if le > ds {
		return invalidf("dinner_start", "dinner window must not overlap lunch")
	}

	if in.AvgTableTime <= 0 {
		return invalidf("avg_table_time", "must be positive")
	}
	if in.MaxCapacityLunch < 0 || in.MaxCapacityDinner < 0 {
		return invalidf("max_capacity", "must not be negative")
	}
	return nil
}

func buildSnapshot(in models.Settings, version int64) (SettingsSnapshot, error) {
	if err := ValidateSettings(in); err != nil {
		return SettingsSnapshot{}, err
	}

	days, _ := decodeOpenDays(in.OpenDays)
	open := make(map[int]bool, len(days))
	for _, d := range days {
		open[d] = true
	}

	ls, _ := ParseClock(in.LunchStart)
	le, _ := ParseClock(in.LunchEnd)
	ds, _ := ParseClock(in.DinnerStart)
	de, _ := ParseClock(in.DinnerEnd)

	return SettingsSnapshot{
		Version:      version,
		OpenDays:     open,
		Lunch:        Window{Name: models.PeriodLunch, Start: ls, End: le, Capacity: in.MaxCapacityLunch},
		Dinner:       Window{Name: models.PeriodDinner, Start: ds, End: de, Capacity: in.MaxCapacityDinner},
		AvgTableTime: in.AvgTableTime,
	}, nil
}
