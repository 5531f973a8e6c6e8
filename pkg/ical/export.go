// Package ical renders the alarm list as an iCalendar document so users
// can overlay their alarms on a regular calendar app.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/borgmon/daybreak/pkg/clock"
	"github.com/borgmon/daybreak/pkg/models"
)

// byDayCodes maps time.Weekday to RRULE BYDAY codes, Sunday first.
var byDayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ExportCalendar writes enabled alarms with a non-empty day set as
// weekly-recurring VEVENTs. Snooze overrides are transient state and
// are not exported.
func ExportCalendar(w io.Writer, alarms []*models.Alarm, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//borgmon//daybreak//EN")

	for _, a := range alarms {
		if !a.Enabled || len(a.Days) == 0 {
			continue
		}

		start := clock.NextScheduled(a, now)
		if start.Equal(clock.Never) {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, a.ID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(5*time.Minute))
		event.Props.SetText(ical.PropSummary, eventSummary(a))
		event.Props.Set(&ical.Prop{
			Name:  ical.PropRecurrenceRule,
			Value: recurrenceRule(a.Days),
		})

		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}

func eventSummary(a *models.Alarm) string {
	if a.Name != "" {
		return a.Name
	}
	return fmt.Sprintf("Alarm %02d:%02d", a.Hour, a.Minute)
}

func recurrenceRule(days []time.Weekday) string {
	codes := make([]string, 0, len(days))
	for d := time.Sunday; d <= time.Saturday; d++ {
		for _, day := range days {
			if day == d {
				codes = append(codes, byDayCodes[d])
				break
			}
		}
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",")
}
