// Package firing drives the stop/snooze state machine when an alarm
// goes off: start the tone, show the prompt, and resolve exactly one
// user action per session.
package firing

import (
	"log"
	"sync"
	"time"

	"github.com/borgmon/daybreak/pkg/alarms"
	"github.com/borgmon/daybreak/pkg/clock"
	"github.com/borgmon/daybreak/pkg/models"
)

// TonePlayer is the audio collaborator. Implementations own device
// policy; the controller only asks for play and stop.
type TonePlayer interface {
	PlayLoopingTone(name string) error
	StopTone()
}

// Presenter shows the full-screen stop/snooze prompt for an alarm.
type Presenter func(alarm *models.Alarm)

// Action is a user response reported against a firing alarm, from the
// in-app prompt or a notification surface.
type Action int

const (
	ActionOpen Action = iota // bring the prompt forward, alarm keeps firing
	ActionStop
	ActionSnooze
)

func (a Action) String() string {
	switch a {
	case ActionStop:
		return "stop"
	case ActionSnooze:
		return "snooze"
	default:
		return "open"
	}
}

// dueGrace is how far past an occurrence foreground reconciliation will
// still fire it. Beyond this the occurrence is considered missed.
const dueGrace = 2 * time.Minute

// Controller is the firing state machine. At most one session is
// active at a time; a second wake while firing is logged and ignored
// rather than stacking prompts.
type Controller struct {
	mu       sync.Mutex
	firing   bool
	activeID string
	busy     bool // an action is mid-flight

	// lastHandled maps alarm id to the occurrence instant most recently
	// fired, so foreground due-detection never re-fires the same one.
	lastHandled map[string]time.Time

	tone    TonePlayer
	svc     *alarms.Service
	present Presenter
	now     func() time.Time
}

func NewController(tone TonePlayer, svc *alarms.Service, present Presenter) *Controller {
	return &Controller{
		lastHandled: make(map[string]time.Time),
		tone:        tone,
		svc:         svc,
		present:     present,
		now:         time.Now,
	}
}

// Active reports whether a firing session is in progress, and for
// which alarm.
func (c *Controller) Active() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.firing, c.activeID
}

// HandleWake is the entry point for a delivered wake callback. Safe to
// call from any goroutine.
func (c *Controller) HandleWake(payload models.FiringPayload) {
	if err := payload.Validate(); err != nil {
		log.Printf("Rejecting malformed wake payload: %v", err)
		return
	}

	c.mu.Lock()
	if c.firing {
		log.Printf("Alarm %s fired while a session is active, ignoring", payload.AlarmID)
		c.mu.Unlock()
		return
	}

	alarm := c.svc.Get(payload.AlarmID)
	if alarm != nil && !alarm.Enabled {
		// The request outlived a disable; reconciliation will clear it.
		log.Printf("Alarm %s fired but is disabled, suppressing", payload.AlarmID)
		c.mu.Unlock()
		return
	}
	if alarm == nil {
		// The alarm vanished between scheduling and delivery. Degrade
		// to a synthetic record so the user still gets a prompt;
		// silently dropping the alert is the one failure mode this
		// app must never produce.
		log.Printf("Alarm %s not found for wake callback, using fallback record", payload.AlarmID)
		alarm = &models.Alarm{
			ID:        payload.AlarmID,
			Name:      "Alarm",
			SoundName: payload.SoundName,
			Enabled:   true,
		}
	}
	if alarm.SoundName == "" {
		alarm.SoundName = models.DefaultSoundName
	}

	c.firing = true
	c.activeID = alarm.ID
	c.lastHandled[alarm.ID] = c.now()

	if err := c.tone.PlayLoopingTone(alarm.SoundName); err != nil {
		// Still present the prompt: a silent alarm beats no alarm.
		log.Printf("Failed to start tone %q: %v", alarm.SoundName, err)
	}
	c.mu.Unlock()

	if c.present != nil {
		c.present(alarm)
	}
}

// HandleAction resolves a user action against the active session. The
// user can act from two surfaces in quick succession; the busy guard
// drops the second action while the first is completing, which is
// idempotent from the user's perspective.
func (c *Controller) HandleAction(action Action, alarmID string) {
	c.mu.Lock()
	if !c.firing || alarmID != c.activeID {
		log.Printf("Ignoring %s action for %s: no matching firing session", action, alarmID)
		c.mu.Unlock()
		return
	}
	if action == ActionOpen {
		alarm := c.svc.Get(alarmID)
		c.mu.Unlock()
		if c.present != nil && alarm != nil {
			c.present(alarm)
		}
		return
	}
	if c.busy {
		log.Printf("Dropping %s action for %s: another action is in flight", action, alarmID)
		c.mu.Unlock()
		return
	}
	c.busy = true

	// Tone stops before any persistence or rescheduling work, so the
	// perceived latency is bounded by the audio API alone.
	c.tone.StopTone()
	c.mu.Unlock()

	var err error
	switch action {
	case ActionStop:
		err = c.svc.StopNow(alarmID)
	case ActionSnooze:
		err = c.svc.SnoozeNow(alarmID)
	}
	if err != nil {
		log.Printf("Failed to resolve %s for %s: %v", action, alarmID, err)
	}

	c.mu.Lock()
	c.firing = false
	c.activeID = ""
	c.busy = false
	c.mu.Unlock()
}

// DetectDue fires an alarm whose occurrence passed recently without a
// delivered callback, which happens when the host dropped the wake
// request or the app was not running. Called alongside Reconcile on
// every foreground transition. Re-firing the same occurrence twice is
// suppressed; duplicates beyond that are an accepted failure mode.
func (c *Controller) DetectDue(list []*models.Alarm) {
	now := c.now()

	for _, a := range list {
		if !a.Enabled {
			continue
		}

		due := time.Time{}
		if a.SnoozedUntil != nil && !a.SnoozedUntil.After(now) && now.Sub(*a.SnoozedUntil) <= dueGrace {
			due = *a.SnoozedUntil
		} else if prev := clock.PrevOccurrence(a, now); !prev.IsZero() && now.Sub(prev) <= dueGrace {
			due = prev
		}
		if due.IsZero() {
			continue
		}

		c.mu.Lock()
		handled := !c.lastHandled[a.ID].Before(due)
		c.mu.Unlock()
		if handled {
			continue
		}

		log.Printf("Alarm %s was due at %s, firing on foreground", a.ID, due.Format(time.RFC3339))
		c.HandleWake(models.FiringPayload{AlarmID: a.ID, SoundName: a.SoundName})
		return // one session at a time anyway
	}
}
