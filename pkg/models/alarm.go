package models

import (
	"fmt"
	"time"
)

// DefaultSoundName is the bundled tone used when an alarm does not name one.
const DefaultSoundName = "beep"

// SnoozeInterval is how far a snooze pushes an alarm. The store never
// contains a SnoozedUntil further than this past its creation; anything
// longer is treated as a data-integrity anomaly and ignored.
const SnoozeInterval = 5 * time.Minute

// Alarm is one user-configured repeating alarm. Hour/Minute are a
// wall-clock time-of-day, not an absolute instant: the alarm fires at
// that time on every weekday in Days.
type Alarm struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Hour      int            `json:"hour"`
	Minute    int            `json:"minute"`
	Enabled   bool           `json:"enabled"`
	SoundName string         `json:"sound_name"`
	Days      []time.Weekday `json:"days"`

	// SnoozedUntil, when set and still in the future, overrides the
	// Days/Hour/Minute schedule as the next occurrence.
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
}

// HasDay reports whether the alarm repeats on the given weekday.
func (a *Alarm) HasDay(d time.Weekday) bool {
	for _, day := range a.Days {
		if day == d {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand alarms across goroutines
// without sharing the store's backing slices.
func (a *Alarm) Clone() *Alarm {
	c := *a
	c.Days = append([]time.Weekday(nil), a.Days...)
	if a.SnoozedUntil != nil {
		t := *a.SnoozedUntil
		c.SnoozedUntil = &t
	}
	return &c
}

// TimeLabel formats the alarm's time-of-day for display.
func (a *Alarm) TimeLabel(twentyFourHour bool) string {
	t := time.Date(0, 1, 1, a.Hour, a.Minute, 0, 0, time.UTC)
	if twentyFourHour {
		return t.Format("15:04")
	}
	return t.Format("3:04 PM")
}

// DayLabel renders the repeat-day set in Sun..Sat order.
func (a *Alarm) DayLabel() string {
	if len(a.Days) == 0 {
		return "Never"
	}
	if len(a.Days) == 7 {
		return "Every day"
	}
	label := ""
	for d := time.Sunday; d <= time.Saturday; d++ {
		if a.HasDay(d) {
			if label != "" {
				label += " "
			}
			label += d.String()[:3]
		}
	}
	return label
}

// FiringPayload is the typed payload carried on a wake request so the
// firing path can look the alarm back up when the callback arrives.
type FiringPayload struct {
	AlarmID   string `json:"alarm_id"`
	SoundName string `json:"sound_name"`
}

// Validate rejects malformed payloads at the collaborator boundary.
func (p FiringPayload) Validate() error {
	if p.AlarmID == "" {
		return fmt.Errorf("firing payload missing alarm id")
	}
	return nil
}
