package clock

import (
	"testing"
	"time"

	"github.com/borgmon/daybreak/pkg/models"
)

// 2025-01-06 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2025, time.January, 6, hour, min, 0, 0, time.UTC)
}

func weekdayAlarm(hour, min int, days ...time.Weekday) *models.Alarm {
	return &models.Alarm{
		ID:      "a1",
		Name:    "Wake up",
		Hour:    hour,
		Minute:  min,
		Enabled: true,
		Days:    days,
	}
}

func TestNextOccurrenceLaterToday(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Monday, time.Wednesday, time.Friday)
	now := monday(6, 30)

	got := NextOccurrence(a, now)
	want := monday(7, 0)
	if !got.Equal(want) {
		t.Errorf("NextOccurrence = %v, want %v", got, want)
	}
}

func TestNextOccurrenceSkipsToNextMatchingDay(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Monday, time.Wednesday, time.Friday)
	// Tuesday 08:00
	now := monday(8, 0).AddDate(0, 0, 1)

	got := NextOccurrence(a, now)
	// Wednesday 07:00
	want := monday(7, 0).AddDate(0, 0, 2)
	if !got.Equal(want) {
		t.Errorf("NextOccurrence = %v, want %v", got, want)
	}
}

func TestNextOccurrenceTimeAlreadyPassedToday(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Monday)
	now := monday(7, 0) // exactly at the alarm instant: not strictly after

	got := NextOccurrence(a, now)
	want := monday(7, 0).AddDate(0, 0, 7)
	if !got.Equal(want) {
		t.Errorf("NextOccurrence = %v, want next Monday %v", got, want)
	}
}

func TestNextOccurrenceSnoozePrecedence(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Monday, time.Wednesday, time.Friday)
	now := monday(7, 0).Add(10 * time.Second)
	until := now.Add(models.SnoozeInterval)
	a.SnoozedUntil = &until

	got := NextOccurrence(a, now)
	if !got.Equal(until) {
		t.Errorf("NextOccurrence = %v, want snooze instant %v", got, until)
	}
}

func TestNextOccurrenceExpiredSnoozeIgnored(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Wednesday)
	until := monday(7, 5)
	a.SnoozedUntil = &until
	now := monday(9, 0) // snooze already passed

	got := NextOccurrence(a, now)
	want := monday(7, 0).AddDate(0, 0, 2)
	if !got.Equal(want) {
		t.Errorf("NextOccurrence = %v, want schedule %v", got, want)
	}
}

func TestNextOccurrenceOverlongSnoozeIgnored(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Wednesday)
	now := monday(9, 0)
	// A snooze further out than the app ever produces: data anomaly.
	until := now.Add(48 * time.Hour)
	a.SnoozedUntil = &until

	got := NextOccurrence(a, now)
	want := monday(7, 0).AddDate(0, 0, 2)
	if !got.Equal(want) {
		t.Errorf("NextOccurrence = %v, want schedule %v", got, want)
	}
}

func TestNextOccurrenceEmptyDaysReturnsNever(t *testing.T) {
	a := weekdayAlarm(7, 0)

	if got := NextOccurrence(a, monday(6, 0)); !got.Equal(Never) {
		t.Errorf("NextOccurrence = %v, want Never", got)
	}
}

func TestNextOccurrenceAlwaysFutureAndOnConfiguredDay(t *testing.T) {
	daySets := [][]time.Weekday{
		{time.Sunday},
		{time.Saturday},
		{time.Monday, time.Wednesday, time.Friday},
		{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	}

	for _, days := range daySets {
		a := weekdayAlarm(23, 59, days...)
		for offset := 0; offset < 7*24; offset += 5 {
			now := monday(0, 0).Add(time.Duration(offset) * time.Hour)
			got := NextOccurrence(a, now)

			if !got.After(now) {
				t.Fatalf("days=%v now=%v: occurrence %v not after now", days, now, got)
			}
			if !a.HasDay(got.Weekday()) {
				t.Fatalf("days=%v now=%v: occurrence weekday %v not in set", days, now, got.Weekday())
			}
		}
	}
}

func TestPrevOccurrence(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Monday, time.Friday)

	// Tuesday 12:00: most recent was Monday 07:00
	got := PrevOccurrence(a, monday(12, 0).AddDate(0, 0, 1))
	if want := monday(7, 0); !got.Equal(want) {
		t.Errorf("PrevOccurrence = %v, want %v", got, want)
	}

	// Monday 07:00 exactly counts as passed
	got = PrevOccurrence(a, monday(7, 0))
	if want := monday(7, 0); !got.Equal(want) {
		t.Errorf("PrevOccurrence at instant = %v, want %v", got, want)
	}

	// Empty day set has no previous occurrence
	if got := PrevOccurrence(weekdayAlarm(7, 0), monday(12, 0)); !got.IsZero() {
		t.Errorf("PrevOccurrence with no days = %v, want zero", got)
	}
}

func TestDisplayOrderDisabledSortsLast(t *testing.T) {
	a := weekdayAlarm(7, 0, time.Monday)
	a.Enabled = false

	if got := DisplayOrder(a, monday(6, 0)); !got.Equal(Never) {
		t.Errorf("DisplayOrder for disabled alarm = %v, want Never", got)
	}
}
