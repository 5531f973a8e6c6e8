package store

import (
	"testing"
	"time"

	"github.com/borgmon/daybreak/pkg/models"
)

// fakePrefs is an in-memory stand-in for fyne preferences.
type fakePrefs struct {
	values map[string]string
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: make(map[string]string)}
}

func (p *fakePrefs) String(key string) string    { return p.values[key] }
func (p *fakePrefs) SetString(key, value string) { p.values[key] = value }

func testAlarm(id string) *models.Alarm {
	return &models.Alarm{
		ID:        id,
		Name:      "Test",
		Hour:      7,
		Minute:    30,
		Enabled:   true,
		SoundName: models.DefaultSoundName,
		Days:      []time.Weekday{time.Monday},
	}
}

func TestAddAndReload(t *testing.T) {
	prefs := newFakePrefs()
	as := NewAlarmStore(prefs)

	if err := as.Add(testAlarm("a1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := as.Add(testAlarm("a2")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A fresh store over the same prefs sees the persisted list.
	reloaded := NewAlarmStore(prefs)
	if got := len(reloaded.List()); got != 2 {
		t.Fatalf("reloaded list has %d alarms, want 2", got)
	}
	a := reloaded.Get("a1")
	if a == nil || a.Hour != 7 || a.Minute != 30 {
		t.Errorf("reloaded alarm = %+v", a)
	}
}

func TestCorruptStoreDecodesToEmpty(t *testing.T) {
	prefs := newFakePrefs()
	prefs.SetString("alarms", "{not json")

	as := NewAlarmStore(prefs)
	if got := len(as.List()); got != 0 {
		t.Errorf("corrupt store produced %d alarms, want 0", got)
	}
}

func TestLoadDropsDuplicateAndEmptyIDs(t *testing.T) {
	prefs := newFakePrefs()
	prefs.SetString("alarms", `[{"id":"a1","name":"one"},{"id":"a1","name":"two"},{"id":"","name":"three"}]`)

	as := NewAlarmStore(prefs)
	list := as.List()
	if len(list) != 1 {
		t.Fatalf("loaded %d alarms, want 1", len(list))
	}
	if list[0].Name != "one" {
		t.Errorf("kept alarm %q, want first occurrence", list[0].Name)
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	prefs := newFakePrefs()
	prefs.SetString("alarms", `[{"id":"a1","name":"one","future_field":42}]`)

	as := NewAlarmStore(prefs)
	if as.Get("a1") == nil {
		t.Error("alarm with unknown field was dropped")
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	as := NewAlarmStore(newFakePrefs())

	if err := as.Add(testAlarm("a1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := as.Add(testAlarm("a1")); err == nil {
		t.Error("expected error adding duplicate id")
	}
}

func TestRemovePersists(t *testing.T) {
	prefs := newFakePrefs()
	as := NewAlarmStore(prefs)
	as.Add(testAlarm("a1"))

	as.Remove("a1")

	if as.Get("a1") != nil {
		t.Error("alarm still present after Remove")
	}
	if got := len(NewAlarmStore(prefs).List()); got != 0 {
		t.Errorf("reloaded store has %d alarms after Remove, want 0", got)
	}
}

func TestSetSnoozedUntilRoundTrip(t *testing.T) {
	prefs := newFakePrefs()
	as := NewAlarmStore(prefs)
	as.Add(testAlarm("a1"))

	until := time.Date(2025, time.January, 6, 7, 5, 10, 0, time.UTC)
	if err := as.SetSnoozedUntil("a1", &until); err != nil {
		t.Fatalf("SetSnoozedUntil: %v", err)
	}

	a := NewAlarmStore(prefs).Get("a1")
	if a.SnoozedUntil == nil || !a.SnoozedUntil.Equal(until) {
		t.Errorf("reloaded SnoozedUntil = %v, want %v", a.SnoozedUntil, until)
	}

	if err := as.SetSnoozedUntil("a1", nil); err != nil {
		t.Fatalf("clear SetSnoozedUntil: %v", err)
	}
	if a := as.Get("a1"); a.SnoozedUntil != nil {
		t.Errorf("SnoozedUntil not cleared: %v", a.SnoozedUntil)
	}
}

func TestListReturnsClones(t *testing.T) {
	as := NewAlarmStore(newFakePrefs())
	as.Add(testAlarm("a1"))

	list := as.List()
	list[0].Name = "mutated"
	list[0].Days[0] = time.Saturday

	a := as.Get("a1")
	if a.Name != "Test" || a.Days[0] != time.Monday {
		t.Errorf("store state leaked through List clone: %+v", a)
	}
}

func TestMutatingMissingAlarmErrors(t *testing.T) {
	as := NewAlarmStore(newFakePrefs())

	if err := as.SetEnabled("ghost", true); err == nil {
		t.Error("SetEnabled on missing alarm should error")
	}
	if err := as.SetSnoozedUntil("ghost", nil); err == nil {
		t.Error("SetSnoozedUntil on missing alarm should error")
	}
	if err := as.Put(testAlarm("ghost")); err == nil {
		t.Error("Put on missing alarm should error")
	}
}
