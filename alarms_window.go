package main

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/daybreak/pkg/clock"
	"github.com/borgmon/daybreak/pkg/ical"
	"github.com/borgmon/daybreak/pkg/models"
)

// AlarmsWindow is the main list screen: one row per alarm, sorted by
// next occurrence, with add/edit/delete/export controls.
type AlarmsWindow struct {
	window fyne.Window
	db     *DayBreak

	table       *widget.Table
	data        []*models.Alarm
	selectedRow int
}

func (db *DayBreak) showAlarmsWindow() {
	// If the window already exists, just bring it to front
	if db.alarmsWindow != nil && db.alarmsWindow.window != nil {
		db.alarmsWindow.Refresh()
		db.alarmsWindow.window.RequestFocus()
		db.alarmsWindow.window.Show()
		return
	}

	aw := &AlarmsWindow{db: db, selectedRow: -1}
	db.alarmsWindow = aw

	aw.window = db.app.NewWindow("DayBreak")
	aw.window.Resize(fyne.NewSize(640, 420))
	aw.window.SetOnClosed(func() {
		db.alarmsWindow = nil
	})
	aw.window.SetContent(aw.buildUI())
	aw.Refresh()
	aw.window.Show()
}

func (aw *AlarmsWindow) buildUI() fyne.CanvasObject {
	aw.data = aw.db.alarms.ListAlarms()

	table := widget.NewTable(
		func() (rows int, cols int) {
			return len(aw.data), 5
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)

			if id.Row >= len(aw.data) {
				label.SetText("")
				return
			}

			alarm := aw.data[id.Row]

			switch id.Col {
			case 0:
				label.SetText(alarm.Name)
			case 1:
				label.SetText(alarm.TimeLabel(aw.db.config.TwentyFourHour))
			case 2:
				label.SetText(alarm.DayLabel())
			case 3:
				label.SetText(aw.nextLabel(alarm))
			case 4:
				if alarm.Enabled {
					label.SetText("On")
				} else {
					label.SetText("Off")
				}
			}

			// Gray out disabled alarms
			if alarm.Enabled {
				label.Importance = widget.MediumImportance
			} else {
				label.Importance = widget.LowImportance
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("Header")
		label.TextStyle.Bold = true
		return label
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		switch id.Col {
		case 0:
			label.SetText("Name")
		case 1:
			label.SetText("Time")
		case 2:
			label.SetText("Days")
		case 3:
			label.SetText("Next")
		case 4:
			label.SetText("Enabled")
		}
	}
	table.OnSelected = func(id widget.TableCellID) {
		aw.selectedRow = id.Row
	}

	table.SetColumnWidth(0, 140)
	table.SetColumnWidth(1, 90)
	table.SetColumnWidth(2, 150)
	table.SetColumnWidth(3, 160)
	table.SetColumnWidth(4, 70)

	aw.table = table

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() {
			aw.showEditAlarmDialog(nil)
		}),
		widget.NewButtonWithIcon("Edit", theme.DocumentCreateIcon(), func() {
			if a := aw.selectedAlarm(); a != nil {
				aw.showEditAlarmDialog(a)
			}
		}),
		widget.NewButtonWithIcon("Toggle", theme.MediaPauseIcon(), func() {
			aw.toggleSelected()
		}),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
			aw.deleteSelected()
		}),
		widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
			aw.exportCalendar()
		}),
		widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), func() {
			aw.showSettingsDialog()
		}),
	)

	return container.NewBorder(toolbar, nil, nil, nil, table)
}

func (aw *AlarmsWindow) nextLabel(alarm *models.Alarm) string {
	next := clock.DisplayOrder(alarm, time.Now())
	if next.Equal(clock.Never) {
		return "—"
	}
	if alarm.SnoozedUntil != nil && next.Equal(*alarm.SnoozedUntil) {
		return "Snoozed until " + next.Format("3:04 PM")
	}
	return next.Format("Mon 3:04 PM")
}

func (aw *AlarmsWindow) selectedAlarm() *models.Alarm {
	if aw.selectedRow < 0 || aw.selectedRow >= len(aw.data) {
		dialog.ShowInformation("No Selection", "Please select an alarm from the table.", aw.window)
		return nil
	}
	return aw.data[aw.selectedRow]
}

func (aw *AlarmsWindow) toggleSelected() {
	alarm := aw.selectedAlarm()
	if alarm == nil {
		return
	}
	if err := aw.db.alarms.SetEnabled(alarm.ID, !alarm.Enabled); err != nil {
		dialog.ShowError(err, aw.window)
		return
	}
	aw.Refresh()
}

func (aw *AlarmsWindow) deleteSelected() {
	alarm := aw.selectedAlarm()
	if alarm == nil {
		return
	}

	dialog.ShowConfirm("Delete Alarm", "Delete \""+alarm.Name+"\"?", func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := aw.db.alarms.DeleteAlarm(alarm.ID); err != nil {
			dialog.ShowError(err, aw.window)
			return
		}
		aw.selectedRow = -1
		aw.Refresh()
	}, aw.window)
}

func (aw *AlarmsWindow) exportCalendar() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := ical.ExportCalendar(writer, aw.db.alarms.ListAlarms(), time.Now()); err != nil {
			log.Printf("Failed to export calendar: %v", err)
			dialog.ShowError(err, aw.window)
			return
		}
		log.Printf("Exported alarms to %s", writer.URI())
	}, aw.window)
}

// Refresh re-reads the alarm list and redraws the table; safe to call
// from any goroutine.
func (aw *AlarmsWindow) Refresh() {
	fyne.Do(func() {
		aw.data = aw.db.alarms.ListAlarms()
		if aw.table != nil {
			aw.table.Refresh()
		}
		aw.db.updateSystemTrayMenu()
	})
}
