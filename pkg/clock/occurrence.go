// Package clock computes alarm occurrences. Everything in here is a pure
// function of (alarm, now) so scheduling decisions stay deterministic and
// testable without timers.
package clock

import (
	"time"

	"github.com/borgmon/daybreak/pkg/models"
)

// Never is the sentinel returned for alarms that produce no schedule
// (empty day set, or disabled via DisplayOrder). Callers must not submit
// wake requests for it.
var Never = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// NextOccurrence returns the next wall-clock instant the alarm should
// fire, given the current time.
//
// A snooze override takes precedence over the repeat schedule, but only
// while it is in the future and within one SnoozeInterval of now; a
// longer value did not come from this app and is ignored.
func NextOccurrence(a *models.Alarm, now time.Time) time.Time {
	if a.SnoozedUntil != nil && a.SnoozedUntil.After(now) &&
		a.SnoozedUntil.Sub(now) <= models.SnoozeInterval {
		return *a.SnoozedUntil
	}
	return NextScheduled(a, now)
}

// NextScheduled returns the next occurrence of the repeat schedule,
// ignoring any snooze override.
func NextScheduled(a *models.Alarm, now time.Time) time.Time {
	if len(a.Days) == 0 {
		return Never
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(), a.Hour, a.Minute, 0, 0, now.Location())
	if candidate.After(now) && a.HasDay(candidate.Weekday()) {
		return candidate
	}

	// Scan forward day-by-day for the first matching weekday. AddDate
	// walks local calendar days, so across a DST transition the instant
	// lands on the wall-clock time, shifted by the DST delta.
	for i := 1; i <= 7; i++ {
		next := candidate.AddDate(0, 0, i)
		if a.HasDay(next.Weekday()) {
			return next
		}
	}

	return Never
}

// PrevOccurrence returns the most recent scheduled instant at or before
// now, or the zero time when the day set is empty. Used by foreground
// reconciliation to detect occurrences that passed while no wake
// callback could be delivered.
func PrevOccurrence(a *models.Alarm, now time.Time) time.Time {
	if len(a.Days) == 0 {
		return time.Time{}
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(), a.Hour, a.Minute, 0, 0, now.Location())
	for i := 0; i <= 7; i++ {
		prev := candidate.AddDate(0, 0, -i)
		if !prev.After(now) && a.HasDay(prev.Weekday()) {
			return prev
		}
	}

	return time.Time{}
}

// DisplayOrder is the instant used to sort the alarm list for display.
// Disabled alarms sort last via the Never sentinel.
func DisplayOrder(a *models.Alarm, now time.Time) time.Time {
	if !a.Enabled {
		return Never
	}
	return NextOccurrence(a, now)
}
