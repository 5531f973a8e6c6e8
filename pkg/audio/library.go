package audio

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "embed"
)

//go:embed beep.wav
var defaultTone []byte

// defaultToneName must match models.DefaultSoundName; kept as a literal
// here so the audio package stays free of domain imports.
const defaultToneName = "beep"

// Library resolves tone names to WAV data: the bundled default plus any
// user-provided .wav files loaded from the sounds directory.
type Library struct {
	mu    sync.RWMutex
	tones map[string][]byte
}

func NewLibrary() *Library {
	return &Library{
		tones: map[string][]byte{defaultToneName: defaultTone},
	}
}

// LoadUserTones registers every .wav file in dir under its base name
// (without extension). A missing directory is fine; unreadable files
// are skipped with a log line.
func (l *Library) LoadUserTones(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to read sounds directory %s: %v", dir, err)
		}
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("Failed to read sound file %s: %v", entry.Name(), err)
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		l.tones[name] = data
		log.Printf("Loaded user tone %q", name)
	}
}

// Names returns all registered tone names, sorted, default first.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.tones))
	for name := range l.tones {
		if name != defaultToneName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{defaultToneName}, names...)
}

// Resolve returns the WAV data for a tone name, falling back to the
// bundled default for unknown names so a renamed or deleted sound file
// never silences an alarm.
func (l *Library) Resolve(name string) []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if data, ok := l.tones[name]; ok {
		return data
	}
	if name != "" {
		log.Printf("Unknown tone %q, falling back to default", name)
	}
	return l.tones[defaultToneName]
}
