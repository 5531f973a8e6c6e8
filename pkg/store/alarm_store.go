package store

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/borgmon/daybreak/pkg/models"
)

const alarmsKey = "alarms"

// Preferences is the key-value persistence collaborator. The app passes
// fyne.App.Preferences(); tests pass an in-memory fake.
type Preferences interface {
	String(key string) string
	SetString(key, value string)
}

// AlarmStore owns the canonical alarm list. Every mutation writes
// through to Preferences before returning, so a reconciliation pass
// triggered afterwards always observes the persisted state.
type AlarmStore struct {
	mu     sync.RWMutex
	prefs  Preferences
	alarms map[string]*models.Alarm
}

// NewAlarmStore loads the persisted alarm list. A missing or corrupt
// record decodes to the empty list; that is never fatal.
func NewAlarmStore(prefs Preferences) *AlarmStore {
	as := &AlarmStore{
		prefs:  prefs,
		alarms: make(map[string]*models.Alarm),
	}

	raw := prefs.String(alarmsKey)
	if raw == "" {
		return as
	}

	var list []*models.Alarm
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("Failed to decode stored alarms, starting empty: %v", err)
		return as
	}

	for _, a := range list {
		if a.ID == "" {
			log.Println("Dropping stored alarm with empty id")
			continue
		}
		if _, exists := as.alarms[a.ID]; exists {
			log.Printf("Dropping stored alarm with duplicate id %s", a.ID)
			continue
		}
		as.alarms[a.ID] = a
	}

	return as
}

// save persists the current list. Callers must hold the write lock.
func (as *AlarmStore) save() {
	list := make([]*models.Alarm, 0, len(as.alarms))
	for _, a := range as.alarms {
		list = append(list, a)
	}
	// Stable encoding order keeps the stored blob diffable.
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].ID < list[j-1].ID; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}

	data, err := json.Marshal(list)
	if err != nil {
		log.Printf("Failed to encode alarms: %v", err)
		return
	}
	as.prefs.SetString(alarmsKey, string(data))
}

// List returns clones of all alarms, in unspecified order.
func (as *AlarmStore) List() []*models.Alarm {
	as.mu.RLock()
	defer as.mu.RUnlock()

	list := make([]*models.Alarm, 0, len(as.alarms))
	for _, a := range as.alarms {
		list = append(list, a.Clone())
	}
	return list
}

// Get returns a clone of the alarm, or nil if it does not exist.
func (as *AlarmStore) Get(id string) *models.Alarm {
	as.mu.RLock()
	defer as.mu.RUnlock()

	if a, ok := as.alarms[id]; ok {
		return a.Clone()
	}
	return nil
}

// Add inserts a new alarm. IDs are immutable and never reused, so a
// duplicate is an invariant violation reported to the caller.
func (as *AlarmStore) Add(a *models.Alarm) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if a.ID == "" {
		return fmt.Errorf("alarm has no id")
	}
	if _, exists := as.alarms[a.ID]; exists {
		return fmt.Errorf("alarm %s already exists", a.ID)
	}

	as.alarms[a.ID] = a.Clone()
	as.save()
	return nil
}

// Put replaces an existing alarm's record.
func (as *AlarmStore) Put(a *models.Alarm) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if _, exists := as.alarms[a.ID]; !exists {
		return fmt.Errorf("alarm %s not found", a.ID)
	}

	as.alarms[a.ID] = a.Clone()
	as.save()
	return nil
}

// Remove deletes an alarm. Removing an unknown id is a no-op.
func (as *AlarmStore) Remove(id string) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if _, exists := as.alarms[id]; !exists {
		return
	}
	delete(as.alarms, id)
	as.save()
}

// SetEnabled toggles an alarm.
func (as *AlarmStore) SetEnabled(id string, enabled bool) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	a, exists := as.alarms[id]
	if !exists {
		return fmt.Errorf("alarm %s not found", id)
	}

	a.Enabled = enabled
	as.save()
	return nil
}

// SetSnoozedUntil records or clears (nil) an alarm's snooze override.
func (as *AlarmStore) SetSnoozedUntil(id string, until *time.Time) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	a, exists := as.alarms[id]
	if !exists {
		return fmt.Errorf("alarm %s not found", id)
	}

	if until == nil {
		a.SnoozedUntil = nil
	} else {
		t := *until
		a.SnoozedUntil = &t
	}
	as.save()
	return nil
}
