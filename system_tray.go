package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/borgmon/daybreak/pkg/clock"
	"github.com/borgmon/daybreak/pkg/models"
)

func (db *DayBreak) setupSystemTray() {
	db.updateSystemTrayMenu()
}

func (db *DayBreak) updateSystemTrayMenu() {
	if desk, ok := db.app.(desktop.App); ok {
		menuItems := []*fyne.MenuItem{}

		upcoming := db.upcomingAlarms(3)
		if len(upcoming) > 0 {
			headerItem := fyne.NewMenuItem("Upcoming:", nil)
			headerItem.Disabled = true
			menuItems = append(menuItems, headerItem)

			now := time.Now()
			for _, alarm := range upcoming {
				next := clock.NextOccurrence(alarm, now)
				itemText := fmt.Sprintf("  %s - %s",
					next.Format("Mon 3:04 PM"),
					truncateString(alarm.Name, 30))

				item := fyne.NewMenuItem(itemText, nil)
				item.Disabled = true
				menuItems = append(menuItems, item)
			}

			menuItems = append(menuItems, fyne.NewMenuItemSeparator())
		}

		menuItems = append(menuItems,
			fyne.NewMenuItem("Alarms", func() {
				db.showAlarmsWindow()
			}),
		)

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
		menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
			db.quit()
		}))

		menu := fyne.NewMenu("DayBreak", menuItems...)
		desk.SetSystemTrayMenu(menu)
	}
}

// upcomingAlarms returns the next N enabled alarms by occurrence.
func (db *DayBreak) upcomingAlarms(limit int) []*models.Alarm {
	now := time.Now()
	upcoming := []*models.Alarm{}

	for _, alarm := range db.alarms.ListAlarms() {
		if !alarm.Enabled {
			continue
		}
		if clock.NextOccurrence(alarm, now).Equal(clock.Never) {
			continue
		}
		upcoming = append(upcoming, alarm)
		if len(upcoming) >= limit {
			break
		}
	}

	return upcoming
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
