// Package sched keeps the platform's pending wake requests aligned with
// the alarm list. Sync is idempotent and is re-run after every mutation
// and on every app foreground transition, so the individual call sites
// can be best effort: any drift is corrected by the next pass.
package sched

import (
	"log"
	"sync"
	"time"

	"github.com/borgmon/daybreak/pkg/clock"
	"github.com/borgmon/daybreak/pkg/models"
	"github.com/borgmon/daybreak/pkg/wake"
)

const requestPrefix = "alarm-"

// RequestID derives the wake request identity for an alarm. Stable
// across calls, so re-deriving never creates duplicate requests.
func RequestID(alarmID string) string {
	return requestPrefix + alarmID
}

// WakeScheduler reconciles desired wake requests against the platform's
// pending set.
type WakeScheduler struct {
	mu         sync.Mutex
	service    wake.Service
	now        func() time.Time
	retryDelay time.Duration
}

func NewWakeScheduler(service wake.Service) *WakeScheduler {
	return &WakeScheduler{
		service:    service,
		now:        time.Now,
		retryDelay: 2 * time.Second,
	}
}

// Sync diffs the desired request set (every enabled alarm with a real
// next occurrence) against the platform's pending set: orphans are
// cancelled, absent or stale requests are (re)submitted, exact matches
// are left untouched so an idempotent re-run causes zero churn.
func (ws *WakeScheduler) Sync(alarms []*models.Alarm) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	now := ws.now()

	desired := make(map[string]wake.Request, len(alarms))
	for _, a := range alarms {
		if !a.Enabled {
			continue
		}
		next := clock.NextOccurrence(a, now)
		if next.Equal(clock.Never) {
			continue
		}
		id := RequestID(a.ID)
		desired[id] = wake.Request{
			ID:        id,
			TriggerAt: next,
			Payload:   models.FiringPayload{AlarmID: a.ID, SoundName: a.SoundName},
		}
	}

	observed := make(map[string]wake.Request)
	for _, req := range ws.service.Pending() {
		observed[req.ID] = req
	}

	// Orphans: deleted, disabled, or day-less alarms.
	for id := range observed {
		if _, ok := desired[id]; !ok {
			log.Printf("Cancelling orphaned wake request %s", id)
			ws.service.Cancel(id)
		}
	}

	for id, want := range desired {
		got, ok := observed[id]
		if ok && got.TriggerAt.Equal(want.TriggerAt) && got.Payload == want.Payload {
			continue
		}
		if ok {
			log.Printf("Replacing stale wake request %s (had %s, want %s)",
				id, got.TriggerAt.Format(time.RFC3339), want.TriggerAt.Format(time.RFC3339))
		}
		ws.submit(want)
	}
}

// submit sends one request, retrying once after a short delay on
// failure. A second failure is only logged: the next natural Sync
// trigger (mutation or foreground transition) retries again. The
// delayed retry runs unlocked, so it can lose to a later Sync; that
// Sync will replace whatever it submitted.
func (ws *WakeScheduler) submit(req wake.Request) {
	if err := ws.service.Submit(req); err != nil {
		log.Printf("Wake submit failed for %s: %v, retrying shortly", req.ID, err)
		time.AfterFunc(ws.retryDelay, func() {
			if err := ws.service.Submit(req); err != nil {
				log.Printf("Wake submit retry failed for %s: %v, deferring to next sync", req.ID, err)
			}
		})
	}
}

// Cancel removes an alarm's wake request directly. Delete and disable
// use this so the "no request for this id" intent is recorded before
// the call returns; Sync enforces it again afterwards regardless.
func (ws *WakeScheduler) Cancel(alarmID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.service.Cancel(RequestID(alarmID))
}
