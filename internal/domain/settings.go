package domain

import (
	"fmt"
	"time"
)

// Geofencing restricts clock-in to within Radius meters of any Location.
type Geofencing struct {
	Enabled   bool           `json:"enabled"`
	Radius    float64        `json:"radius"` // meters
	Locations []WorkLocation `json:"locations"`
}

// CopyLocations returns a copy of the location list, never nil.
func (g Geofencing) CopyLocations() []WorkLocation {
	out := make([]WorkLocation, len(g.Locations))
	copy(out, g.Locations)
	return out
}

// WorkHours holds the working day as "HH:MM" local clock strings.
type WorkHours struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	BreakDuration int    `json:"breakDuration"` // minutes
}

// StartHour returns the hour component of Start.
func (w WorkHours) StartHour() (int, error) { return clockHour(w.Start) }

// EndHour returns the hour component of End.
func (w WorkHours) EndHour() (int, error) { return clockHour(w.End) }

// EndOn returns End as an instant on the calendar day of day, in day's location.
func (w WorkHours) EndOn(day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", w.End)
	if err != nil {
		return time.Time{}, fmt.Errorf("work hours end %q: %w", w.End, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func clockHour(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour(), nil
}

// Notifications configures the clock-out reminder.
type Notifications struct {
	ReminderEnabled bool `json:"reminderEnabled"`
	ReminderTime    int  `json:"reminderTime"` // minutes before the end of the working day
}

// Settings is the singleton configuration owned by the session store.
type Settings struct {
	Geofencing    Geofencing    `json:"geofencing"`
	WorkHours     WorkHours     `json:"workHours"`
	Notifications Notifications `json:"notifications"`
}

// SettingsPatch carries a partial settings update. Each non-nil group
// replaces the current group wholesale; nested fields are not merged.
type SettingsPatch struct {
	Geofencing    *Geofencing    `json:"geofencing,omitempty"`
	WorkHours     *WorkHours     `json:"workHours,omitempty"`
	Notifications *Notifications `json:"notifications,omitempty"`
}

// Empty reports whether the patch carries no groups.
func (p SettingsPatch) Empty() bool {
	return p.Geofencing == nil && p.WorkHours == nil && p.Notifications == nil
}

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Geofencing: Geofencing{
			Enabled: true,
			Radius:  100,
			Locations: []WorkLocation{
				{ID: "1", Name: "Auckland CBD", Latitude: -36.8485, Longitude: 174.7633},
			},
		},
		WorkHours: WorkHours{
			Start:         "09:00",
			End:           "17:00",
			BreakDuration: 30,
		},
		Notifications: Notifications{
			ReminderEnabled: true,
			ReminderTime:    15,
		},
	}
}

// Clone returns a copy whose location list is not shared with s.
func (s Settings) Clone() Settings {
	c := s
	c.Geofencing.Locations = s.Geofencing.CopyLocations()
	return c
}
