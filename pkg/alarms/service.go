// Package alarms is the lifecycle API the UI calls. Every mutation
// writes through the alarm store and then re-runs wake reconciliation,
// serialized on a single mutex so a sync always observes the most
// recently persisted list.
package alarms

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/borgmon/daybreak/pkg/clock"
	"github.com/borgmon/daybreak/pkg/models"
	"github.com/borgmon/daybreak/pkg/sched"
	"github.com/borgmon/daybreak/pkg/store"
)

// Draft holds the user-editable fields of an alarm.
type Draft struct {
	Name      string
	Hour      int
	Minute    int
	Days      []time.Weekday
	SoundName string
	Enabled   bool
}

// DefaultDraft is the draft a bare "add alarm" starts from: one minute
// from now, every day, the given (or bundled) sound.
func DefaultDraft(now time.Time, soundName string) Draft {
	if soundName == "" {
		soundName = models.DefaultSoundName
	}
	t := now.Add(time.Minute)
	return Draft{
		Name:      "Alarm",
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Days:      AllDays(),
		SoundName: soundName,
		Enabled:   true,
	}
}

// AllDays returns the full weekday set.
func AllDays() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days = append(days, d)
	}
	return days
}

func (d Draft) validate() error {
	if d.Hour < 0 || d.Hour > 23 {
		return fmt.Errorf("hour %d out of range", d.Hour)
	}
	if d.Minute < 0 || d.Minute > 59 {
		return fmt.Errorf("minute %d out of range", d.Minute)
	}
	for _, day := range d.Days {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("invalid weekday %d", day)
		}
	}
	return nil
}

// Service exposes create/update/delete/enable/snooze/stop to the
// presentation layer.
type Service struct {
	mu    sync.Mutex
	store *store.AlarmStore
	sched *sched.WakeScheduler
	now   func() time.Time
}

func NewService(st *store.AlarmStore, sc *sched.WakeScheduler) *Service {
	return &Service{
		store: st,
		sched: sc,
		now:   time.Now,
	}
}

// CreateAlarm creates and schedules a new alarm from the draft.
func (s *Service) CreateAlarm(draft Draft) (*models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := draft.validate(); err != nil {
		return nil, err
	}

	a := &models.Alarm{
		ID:        uuid.New().String(),
		Name:      draft.Name,
		Hour:      draft.Hour,
		Minute:    draft.Minute,
		Enabled:   draft.Enabled,
		SoundName: draft.SoundName,
		Days:      append([]time.Weekday(nil), draft.Days...),
	}
	if a.SoundName == "" {
		a.SoundName = models.DefaultSoundName
	}

	if err := s.store.Add(a); err != nil {
		return nil, err
	}
	s.sched.Sync(s.store.List())
	return a.Clone(), nil
}

// UpdateAlarm applies the draft to an existing alarm. An active snooze
// is left in place: it keeps overriding the schedule until it passes.
func (s *Service) UpdateAlarm(id string, draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := draft.validate(); err != nil {
		return err
	}

	a := s.store.Get(id)
	if a == nil {
		return fmt.Errorf("alarm %s not found", id)
	}

	a.Name = draft.Name
	a.Hour = draft.Hour
	a.Minute = draft.Minute
	a.Days = append([]time.Weekday(nil), draft.Days...)
	a.SoundName = draft.SoundName
	a.Enabled = draft.Enabled
	if a.SoundName == "" {
		a.SoundName = models.DefaultSoundName
	}

	if err := s.store.Put(a); err != nil {
		return err
	}
	s.sched.Sync(s.store.List())
	return nil
}

// DeleteAlarm removes an alarm. Its wake request is cancelled before
// the store write completes, so no callback can reference the dead id.
func (s *Service) DeleteAlarm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.Get(id) == nil {
		return fmt.Errorf("alarm %s not found", id)
	}

	s.sched.Cancel(id)
	s.store.Remove(id)
	s.sched.Sync(s.store.List())
	return nil
}

// SetEnabled toggles an alarm. Disabling cancels its wake request
// directly; the trailing sync enforces the same intent.
func (s *Service) SetEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !enabled {
		s.sched.Cancel(id)
	}
	if err := s.store.SetEnabled(id, enabled); err != nil {
		return err
	}
	s.sched.Sync(s.store.List())
	return nil
}

// SnoozeNow records a snooze override of now + SnoozeInterval and
// reschedules; sync produces exactly one request for the snooze
// instant, superseding the regular schedule until it fires.
func (s *Service) SnoozeNow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	until := s.now().Add(models.SnoozeInterval)
	if err := s.store.SetSnoozedUntil(id, &until); err != nil {
		return err
	}
	s.sched.Sync(s.store.List())
	return nil
}

// StopNow clears any snooze override and reschedules, so a repeating
// alarm's next regular occurrence gets submitted.
func (s *Service) StopNow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetSnoozedUntil(id, nil); err != nil {
		return err
	}
	s.sched.Sync(s.store.List())
	return nil
}

// Get returns a clone of one alarm, or nil.
func (s *Service) Get(id string) *models.Alarm {
	return s.store.Get(id)
}

// ListAlarms returns all alarms sorted by next occurrence; disabled and
// never-scheduled alarms sort last.
func (s *Service) ListAlarms() []*models.Alarm {
	now := s.now()
	list := s.store.List()
	sort.Slice(list, func(i, j int) bool {
		oi, oj := clock.DisplayOrder(list[i], now), clock.DisplayOrder(list[j], now)
		if oi.Equal(oj) {
			return list[i].Name < list[j].Name
		}
		return oi.Before(oj)
	})
	return list
}

// Reconcile re-runs wake reconciliation against the persisted list.
// Run on startup and on every foreground transition; this is the
// primary self-healing mechanism against dropped or stale requests.
func (s *Service) Reconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.Sync(s.store.List())
}
