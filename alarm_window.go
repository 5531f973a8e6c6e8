package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"golang.design/x/hotkey"

	"github.com/borgmon/daybreak/pkg/firing"
	"github.com/borgmon/daybreak/pkg/models"
	"github.com/borgmon/daybreak/pkg/platform"
)

// AlarmWindow is the full-screen firing prompt. The tone is owned by
// the firing controller; this window only reports the user's action.
type AlarmWindow struct {
	window          fyne.Window
	app             fyne.App
	alarm           *models.Alarm
	holdTimeSeconds int
	twentyFourHour  bool
	onAction        func(firing.Action)

	stopProgress   float64
	snoozeProgress float64
	stopTicker     *time.Ticker
	snoozeTicker   *time.Ticker
	stopHeld       bool
	snoozeHeld     bool
	resolved       bool
	cmdQHotkey     *hotkey.Hotkey
	stopMonitoring chan struct{}
}

func NewAlarmWindow(app fyne.App, alarm *models.Alarm, config *Config, onAction func(firing.Action)) *AlarmWindow {
	aw := &AlarmWindow{
		app:             app,
		alarm:           alarm,
		holdTimeSeconds: config.HoldTimeSeconds,
		twentyFourHour:  config.TwentyFourHour,
		onAction:        onAction,
		stopMonitoring:  make(chan struct{}),
	}

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		aw.window = app.NewWindow("Alarm")
		aw.window.SetFullScreen(true)
		aw.buildUI()

		// Register Cmd+Q hotkey so quitting can't double as dismissal
		aw.registerCmdQPrevention()

		// Monitor window focus and refocus when needed
		aw.setupFocusMonitoring()

		aw.window.SetOnClosed(func() {
			close(aw.stopMonitoring)

			if aw.cmdQHotkey != nil {
				aw.cmdQHotkey.Unregister()
			}
		})
	})

	return aw
}

func (aw *AlarmWindow) buildUI() {
	name := aw.alarm.Name
	if name == "" {
		name = "Alarm"
	}
	title := canvas.NewText(name, nil)
	title.TextSize = 48
	title.Alignment = fyne.TextAlignCenter

	timeLabel := widget.NewLabel(aw.alarm.TimeLabel(aw.twentyFourHour))
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle.Bold = true

	daysLabel := widget.NewLabel(aw.alarm.DayLabel())
	daysLabel.Alignment = fyne.TextAlignCenter

	var stopButton *HoldButton
	stopButton = NewHoldButton(fmt.Sprintf("Stop (Hold %ds)", aw.holdTimeSeconds), func() {
		aw.startHoldProgress(stopButton, &aw.stopHeld, &aw.stopProgress, &aw.stopTicker, firing.ActionStop)
	}, func() {
		aw.cancelHoldProgress(stopButton, &aw.stopHeld, &aw.stopProgress, aw.stopTicker)
	})

	snoozeMinutes := int(models.SnoozeInterval.Minutes())
	var snoozeButton *HoldButton
	snoozeButton = NewHoldButton(fmt.Sprintf("Snooze %dm (Hold %ds)", snoozeMinutes, aw.holdTimeSeconds), func() {
		aw.startHoldProgress(snoozeButton, &aw.snoozeHeld, &aw.snoozeProgress, &aw.snoozeTicker, firing.ActionSnooze)
	}, func() {
		aw.cancelHoldProgress(snoozeButton, &aw.snoozeHeld, &aw.snoozeProgress, aw.snoozeTicker)
	})

	content := container.NewVBox(
		container.NewPadded(title),
		timeLabel,
		daysLabel,
		widget.NewSeparator(),
		container.NewHBox(snoozeButton, stopButton),
	)

	aw.window.SetContent(container.NewPadded(container.NewCenter(content)))
}

func (aw *AlarmWindow) startHoldProgress(button *HoldButton, held *bool, progress *float64, ticker **time.Ticker, action firing.Action) {
	if *held {
		return
	}

	*held = true
	*progress = 0
	fyne.Do(func() {
		button.SetProgress(0)
	})

	tickInterval := 50 * time.Millisecond
	totalTicks := float64(aw.holdTimeSeconds*1000) / float64(tickInterval.Milliseconds())
	progressIncrement := 1.0 / totalTicks

	*ticker = time.NewTicker(tickInterval)
	t := *ticker

	go func() {
		for range t.C {
			if !*held {
				return
			}

			*progress += progressIncrement
			currentProgress := *progress

			fyne.Do(func() {
				button.SetProgress(currentProgress)
			})

			if currentProgress >= 1.0 {
				t.Stop()
				aw.resolve(action)
				return
			}
		}
	}()
}

func (aw *AlarmWindow) cancelHoldProgress(button *HoldButton, held *bool, progress *float64, ticker *time.Ticker) {
	*held = false
	if ticker != nil {
		ticker.Stop()
	}
	*progress = 0
	fyne.Do(func() {
		button.SetProgress(0)
	})
}

// resolve reports the action once and closes the window. The firing
// controller's own guard drops a duplicate action raced in from another
// surface.
func (aw *AlarmWindow) resolve(action firing.Action) {
	if aw.resolved {
		return
	}
	aw.resolved = true

	if aw.onAction != nil {
		aw.onAction(action)
	}
	fyne.Do(func() {
		if aw.window != nil {
			aw.window.Close()
		}
	})
}

func (aw *AlarmWindow) Show() {
	fyne.Do(func() {
		if aw.window != nil {
			aw.window.Show()
			aw.window.RequestFocus()
		}
	})
}

func (aw *AlarmWindow) registerCmdQPrevention() {
	go func() {
		// Register Cmd+Q (Cmd is ModCmd on macOS)
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCmd}, hotkey.KeyQ)
		if err := hk.Register(); err != nil {
			log.Printf("Failed to register Cmd+Q hotkey prevention: %v", err)
			return
		}
		aw.cmdQHotkey = hk

		// Consume Cmd+Q events so the default quit can't dismiss a
		// firing alarm
		for range hk.Keydown() {
			log.Println("Cmd+Q blocked - hold Stop or Snooze to resolve the alarm")
		}
	}()
}

func (aw *AlarmWindow) setupFocusMonitoring() {
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		wasFocused := true
		for {
			select {
			case <-aw.stopMonitoring:
				log.Println("Stopping focus monitoring")
				return
			case <-ticker.C:
				if aw.window == nil {
					return
				}

				isFocused := platform.IsAppActive()

				if wasFocused && !isFocused {
					// Window lost focus - unregister hotkey
					if aw.cmdQHotkey != nil {
						aw.cmdQHotkey.Unregister()
						aw.cmdQHotkey = nil
					}
				} else if !wasFocused && isFocused {
					// Window gained focus - register hotkey
					if aw.cmdQHotkey == nil {
						aw.registerCmdQPrevention()
					}
				}

				// A firing alarm always belongs in front
				if !isFocused {
					platform.ActivateApp()
					fyne.Do(func() {
						if aw.window != nil {
							aw.window.Show()
						}
					})
				}

				wasFocused = isFocused
			}
		}
	}()
}
