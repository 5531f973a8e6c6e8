package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/borgmon/daybreak/pkg/models"
)

// 2025-01-06 is a Monday.
var exportNow = time.Date(2025, time.January, 6, 6, 0, 0, 0, time.UTC)

func TestExportCalendarProducesWeeklyEvents(t *testing.T) {
	alarms := []*models.Alarm{
		{
			ID: "a1", Name: "Workdays", Hour: 7, Minute: 0, Enabled: true,
			Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},
		{
			ID: "a2", Name: "Weekend", Hour: 9, Minute: 30, Enabled: true,
			Days: []time.Weekday{time.Saturday, time.Sunday},
		},
	}

	var buf strings.Builder
	if err := ExportCalendar(&buf, alarms, exportNow); err != nil {
		t.Fatalf("ExportCalendar: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("exported %d events, want 2:\n%s", got, out)
	}
	for _, want := range []string{
		"UID:a1",
		"UID:a2",
		"SUMMARY:Workdays",
		"SUMMARY:Weekend",
		"RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
		"RRULE:FREQ=WEEKLY;BYDAY=SU,SA",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Next Monday 07:00 from Monday 06:00 is later the same day.
	if !strings.Contains(out, "DTSTART:20250106T070000Z") {
		t.Errorf("output missing expected DTSTART:\n%s", out)
	}
}

func TestExportCalendarSkipsDisabledAndDayless(t *testing.T) {
	alarms := []*models.Alarm{
		{ID: "off", Name: "Off", Hour: 7, Enabled: false, Days: []time.Weekday{time.Monday}},
		{ID: "dayless", Name: "Dayless", Hour: 7, Enabled: true},
		{ID: "kept", Name: "Kept", Hour: 7, Enabled: true, Days: []time.Weekday{time.Tuesday}},
	}

	var buf strings.Builder
	if err := ExportCalendar(&buf, alarms, exportNow); err != nil {
		t.Fatalf("ExportCalendar: %v", err)
	}
	out := buf.String()

	if strings.Count(out, "BEGIN:VEVENT") != 1 || !strings.Contains(out, "UID:kept") {
		t.Errorf("export should keep only the enabled alarm with days:\n%s", out)
	}
}

func TestExportCalendarUnnamedAlarmGetsTimeSummary(t *testing.T) {
	alarms := []*models.Alarm{
		{ID: "a1", Hour: 6, Minute: 5, Enabled: true, Days: []time.Weekday{time.Monday}},
	}

	var buf strings.Builder
	if err := ExportCalendar(&buf, alarms, exportNow); err != nil {
		t.Fatalf("ExportCalendar: %v", err)
	}
	if !strings.Contains(buf.String(), "SUMMARY:Alarm 06:05") {
		t.Errorf("unnamed alarm summary missing:\n%s", buf.String())
	}
}
