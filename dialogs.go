package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/daybreak/pkg/alarms"
	"github.com/borgmon/daybreak/pkg/models"
)

// showEditAlarmDialog opens the add/edit form. A nil alarm means add,
// pre-filled with the default draft (one minute from now, every day).
func (aw *AlarmsWindow) showEditAlarmDialog(alarm *models.Alarm) {
	draft := alarms.DefaultDraft(time.Now(), aw.db.config.DefaultSound)
	editing := alarm != nil
	if editing {
		draft = alarms.Draft{
			Name:      alarm.Name,
			Hour:      alarm.Hour,
			Minute:    alarm.Minute,
			Days:      alarm.Days,
			SoundName: alarm.SoundName,
			Enabled:   alarm.Enabled,
		}
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(draft.Name)

	hourEntry := widget.NewEntry()
	hourEntry.SetText(fmt.Sprintf("%d", draft.Hour))
	minEntry := widget.NewEntry()
	minEntry.SetText(fmt.Sprintf("%02d", draft.Minute))

	dayChecks := make([]*widget.Check, 7)
	dayRow := container.NewHBox()
	for d := time.Sunday; d <= time.Saturday; d++ {
		check := widget.NewCheck(d.String()[:3], nil)
		for _, day := range draft.Days {
			if day == d {
				check.SetChecked(true)
			}
		}
		dayChecks[d] = check
		dayRow.Add(check)
	}

	soundSelect := widget.NewSelect(aw.db.tones.Names(), nil)
	soundSelect.SetSelected(draft.SoundName)

	enabledCheck := widget.NewCheck("Enabled", nil)
	enabledCheck.SetChecked(draft.Enabled)

	items := []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("Hour", hourEntry),
		widget.NewFormItem("Minute", minEntry),
		widget.NewFormItem("Days", dayRow),
		widget.NewFormItem("Sound", soundSelect),
		widget.NewFormItem("", enabledCheck),
	}

	title := "Add Alarm"
	if editing {
		title = "Edit Alarm"
	}

	dialog.ShowForm(title, "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		hour, minute := draft.Hour, draft.Minute
		fmt.Sscanf(hourEntry.Text, "%d", &hour)
		fmt.Sscanf(minEntry.Text, "%d", &minute)

		days := []time.Weekday{}
		for d := time.Sunday; d <= time.Saturday; d++ {
			if dayChecks[d].Checked {
				days = append(days, d)
			}
		}

		next := alarms.Draft{
			Name:      nameEntry.Text,
			Hour:      hour,
			Minute:    minute,
			Days:      days,
			SoundName: soundSelect.Selected,
			Enabled:   enabledCheck.Checked,
		}

		var err error
		if editing {
			err = aw.db.alarms.UpdateAlarm(alarm.ID, next)
		} else {
			_, err = aw.db.alarms.CreateAlarm(next)
		}
		if err != nil {
			dialog.ShowError(err, aw.window)
			return
		}

		aw.Refresh()
	}, aw.window)
}

func (aw *AlarmsWindow) showSettingsDialog() {
	db := aw.db

	autoStartCheck := widget.NewCheck("Launch at login", nil)
	autoStartCheck.SetChecked(db.config.AutoStart)

	clockCheck := widget.NewCheck("24-hour clock", nil)
	clockCheck.SetChecked(db.config.TwentyFourHour)

	holdEntry := widget.NewEntry()
	holdEntry.SetText(fmt.Sprintf("%d", db.config.HoldTimeSeconds))

	soundSelect := widget.NewSelect(db.tones.Names(), nil)
	soundSelect.SetSelected(db.config.DefaultSound)

	items := []*widget.FormItem{
		widget.NewFormItem("", autoStartCheck),
		widget.NewFormItem("", clockCheck),
		widget.NewFormItem("Hold seconds", holdEntry),
		widget.NewFormItem("Default sound", soundSelect),
	}

	dialog.ShowForm("Settings", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		db.config.AutoStart = autoStartCheck.Checked
		db.config.TwentyFourHour = clockCheck.Checked
		db.config.DefaultSound = soundSelect.Selected

		hold := db.config.HoldTimeSeconds
		fmt.Sscanf(holdEntry.Text, "%d", &hold)
		if hold < 1 {
			hold = 1
		}
		db.config.HoldTimeSeconds = hold

		saveConfig(db.app, db.config)
		if err := setupAutostart(db.config.AutoStart); err != nil {
			dialog.ShowError(err, aw.window)
		}

		aw.Refresh()
	}, aw.window)
}
