package main

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/borgmon/daybreak/pkg/alarms"
	"github.com/borgmon/daybreak/pkg/audio"
	"github.com/borgmon/daybreak/pkg/firing"
	"github.com/borgmon/daybreak/pkg/models"
	"github.com/borgmon/daybreak/pkg/platform"
	"github.com/borgmon/daybreak/pkg/sched"
	"github.com/borgmon/daybreak/pkg/store"
	"github.com/borgmon/daybreak/pkg/wake"
)

type DayBreak struct {
	app    fyne.App
	config *Config

	tones  *audio.Library
	player *audio.Player

	store     *store.AlarmStore
	wakeTimer *wake.TimerService
	scheduler *sched.WakeScheduler
	alarms    *alarms.Service
	firing    *firing.Controller

	alarmsWindow *AlarmsWindow

	// firingWindow is touched from the wake-timer goroutine (presentAlarm
	// via onWake), the hold-button ticker goroutine (the action callback),
	// and the main goroutine, so all access goes through windowMu.
	windowMu        sync.Mutex
	firingWindow    *AlarmWindow
	newFiringWindow func(alarm *models.Alarm, onAction func(firing.Action)) *AlarmWindow
}

func main() {
	db := &DayBreak{
		app: app.NewWithID("com.borgmon.daybreak"),
	}

	if err := db.initialize(); err != nil {
		log.Fatal(err)
	}

	db.run()
}

func (db *DayBreak) initialize() error {
	db.config = loadConfig(db.app)

	// Sync autostart state with config on startup
	if err := setupAutostart(db.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	saveConfig(db.app, db.config)

	db.tones = audio.NewLibrary()
	db.tones.LoadUserTones(soundsDir())
	db.player = audio.NewPlayer(db.tones)

	db.store = store.NewAlarmStore(db.app.Preferences())
	db.wakeTimer = wake.NewTimerService(db.onWake)
	db.scheduler = sched.NewWakeScheduler(db.wakeTimer)
	db.alarms = alarms.NewService(db.store, db.scheduler)
	db.firing = firing.NewController(db.player, db.alarms, db.presentAlarm)
	db.newFiringWindow = func(alarm *models.Alarm, onAction func(firing.Action)) *AlarmWindow {
		return NewAlarmWindow(db.app, alarm, db.config, onAction)
	}

	db.setupSystemTray()
	db.reconcile()
	db.showAlarmsWindow()

	return nil
}

func (db *DayBreak) run() {
	db.app.Lifecycle().SetOnStarted(func() {
		platform.SetActivationPolicy()
	})

	// Reconciliation on every foreground transition is the primary
	// self-healing mechanism: it corrects requests the host dropped,
	// requests for since-deleted or since-disabled alarms, and
	// requests whose trigger went stale after an edit.
	db.app.Lifecycle().SetOnEnteredForeground(func() {
		db.reconcile()
	})

	db.app.Run()
}

// reconcile aligns pending wake requests with the persisted alarm list,
// then fires any occurrence that passed while no callback could run.
func (db *DayBreak) reconcile() {
	db.alarms.Reconcile()
	db.firing.DetectDue(db.store.List())
	db.updateSystemTrayMenu()
}

// onWake is the wake service sink; it runs on a timer goroutine.
func (db *DayBreak) onWake(payload models.FiringPayload) {
	db.firing.HandleWake(payload)
	db.updateSystemTrayMenu()
}

// presentAlarm shows the full-screen stop/snooze prompt. Re-presenting
// the alarm that is already showing just brings its window forward.
func (db *DayBreak) presentAlarm(alarm *models.Alarm) {
	db.windowMu.Lock()
	if db.firingWindow != nil && db.firingWindow.alarm.ID == alarm.ID {
		w := db.firingWindow
		db.windowMu.Unlock()
		w.Show()
		return
	}

	var w *AlarmWindow
	w = db.newFiringWindow(alarm, func(action firing.Action) {
		db.firing.HandleAction(action, alarm.ID)

		// Only clear the slot if it still holds this window; a newer
		// session may have replaced it already.
		db.windowMu.Lock()
		if db.firingWindow == w {
			db.firingWindow = nil
		}
		db.windowMu.Unlock()

		db.refreshAlarmsWindow()
		db.updateSystemTrayMenu()
	})
	db.firingWindow = w
	db.windowMu.Unlock()
	w.Show()
}

func (db *DayBreak) refreshAlarmsWindow() {
	if db.alarmsWindow != nil {
		db.alarmsWindow.Refresh()
	}
}

// soundsDir is where user-provided .wav tones live.
func soundsDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("Failed to resolve config dir: %v", err)
		return ""
	}
	return filepath.Join(dir, "daybreak", "sounds")
}

func (db *DayBreak) quit() {
	db.wakeTimer.Stop()
	db.app.Quit()
}
