package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const preferencesKey = "account:display_preferences"

// Preferences is the display configuration threaded explicitly into
// formatting and filtering rather than held as ambient global state. It's
// loaded once at session start and written back on every change.
type Preferences struct {
	// Which transport modes are shown on the live map and departure
	// boards
	ModeFilters map[string]bool `json:"modeFilters"`

	Use24Hour bool `json:"use24Hour"`
	ShowDate  bool `json:"showDate"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		ModeFilters: map[string]bool{
			"train":     true,
			"metro":     true,
			"bus":       true,
			"lightrail": true,
			"ferry":     true,
		},
		Use24Hour: false,
		ShowDate:  true,
	}
}

// EnabledModes returns the mode names whose filter is switched on
func (p Preferences) EnabledModes() []string {
	var modes []string
	for _, mode := range []string{"train", "metro", "bus", "lightrail", "ferry"} {
		if p.ModeFilters[mode] {
			modes = append(modes, mode)
		}
	}

	return modes
}

// FormatTime renders a timestamp according to the display preferences
func (p Preferences) FormatTime(t time.Time) string {
	var timePart string
	if p.Use24Hour {
		timePart = t.Format("15:04")
	} else {
		timePart = t.Format("3:04 PM")
	}

	if p.ShowDate {
		return fmt.Sprintf("%s, %s", t.Format("Mon Jan 2"), timePart)
	}

	return timePart
}

type PreferencesStore struct {
	Redis *redis.Client
}

// Get loads the stored preferences, falling back to the defaults when
// nothing has been saved yet
func (s PreferencesStore) Get(ctx context.Context) (Preferences, error) {
	raw, err := s.Redis.Get(ctx, preferencesKey).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return DefaultPreferences(), err
	}

	var preferences Preferences
	if err := json.Unmarshal([]byte(raw), &preferences); err != nil {
		return DefaultPreferences(), err
	}

	if preferences.ModeFilters == nil {
		preferences.ModeFilters = DefaultPreferences().ModeFilters
	}

	return preferences, nil
}

func (s PreferencesStore) Set(ctx context.Context, preferences Preferences) error {
	encoded, err := json.Marshal(preferences)
	if err != nil {
		return err
	}

	return s.Redis.Set(ctx, preferencesKey, encoded, 0).Err()
}
