package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// initAudioContext initializes the global audio context once
func initAudioContext(format *wavFormat) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// Player is the audio collaborator for alarm tones. At most one
// looping session is active; starting a new tone stops the previous
// session first.
type Player struct {
	mu      sync.Mutex
	lib     *Library
	current *session
}

func NewPlayer(lib *Library) *Player {
	return &Player{lib: lib}
}

// PlayLoopingTone starts looping the named tone until StopTone. Unknown
// names resolve to the bundled default.
func (p *Player) PlayLoopingTone(name string) error {
	wavData := p.lib.Resolve(name)

	format, audioData, err := parseWAV(wavData)
	if err != nil {
		return fmt.Errorf("failed to parse tone %q: %w", name, err)
	}

	initAudioContext(format)
	if !audioCtxReady || globalAudioCtx == nil {
		return fmt.Errorf("audio context not ready")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.stop()
	}

	s := &session{stopChan: make(chan struct{})}
	p.current = s
	go s.playLoop(audioData)
	return nil
}

// StopTone stops the active session, if any.
func (p *Player) StopTone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.stop()
		p.current = nil
	}
}

// session is one looping playback, cancelled via its stop channel.
type session struct {
	stopChan chan struct{}
	player   *oto.Player
	stopped  bool
	mu       sync.Mutex
}

func (s *session) playLoop(audioData []byte) {
	// Loop the tone until stopped
	for {
		// Create a new player for each loop iteration
		s.player = globalAudioCtx.NewPlayer(bytes.NewReader(audioData))

		// Play starts playing the sound and returns without waiting
		s.player.Play()

		// Wait for the sound to finish playing or stop signal
		for s.player.IsPlaying() {
			select {
			case <-s.stopChan:
				s.player.Pause()
				s.player.Close()
				log.Println("Audio player closed")
				return
			case <-time.After(10 * time.Millisecond):
				// Continue checking
			}
		}

		// Close the player before creating a new one
		if err := s.player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}

		// Check if stop was requested between loops
		select {
		case <-s.stopChan:
			return
		default:
			// Continue looping
		}
	}
}

func (s *session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		s.stopped = true
		close(s.stopChan)

		if s.player != nil {
			s.player.Pause()
		}

		log.Println("Audio playback stopped")
	}
}

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// parseWAV parses a WAV file and returns the format and audio data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	// Read RIFF header
	riff := make([]byte, 4)
	if _, err := reader.Read(riff); err != nil {
		return nil, nil, err
	}

	// Skip file size
	reader.Seek(4, io.SeekCurrent)

	// Read WAVE header
	wave := make([]byte, 4)
	if _, err := reader.Read(wave); err != nil {
		return nil, nil, err
	}

	format := &wavFormat{}
	var dataStart int64
	var dataSize uint32

	// Read chunks
	for {
		chunkID := make([]byte, 4)
		if _, err := reader.Read(chunkID); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		chunkIDStr := string(chunkID)

		if chunkIDStr == "fmt " {
			// Read format chunk
			var audioFormat uint16
			binary.Read(reader, binary.LittleEndian, &audioFormat)

			var numChannels uint16
			binary.Read(reader, binary.LittleEndian, &numChannels)
			format.Channels = int(numChannels)

			var sampleRate uint32
			binary.Read(reader, binary.LittleEndian, &sampleRate)
			format.SampleRate = int(sampleRate)

			// Skip byte rate and block align
			reader.Seek(6, io.SeekCurrent)

			var bitsPerSample uint16
			binary.Read(reader, binary.LittleEndian, &bitsPerSample)
			format.BitDepth = int(bitsPerSample)

			// Skip any extra format bytes. A declared size under 16 is
			// malformed; skipping nothing beats an unsigned underflow
			// seeking past the data chunk.
			if chunkSize > 16 {
				reader.Seek(int64(chunkSize-16), io.SeekCurrent)
			}
		} else if chunkIDStr == "data" {
			// Found data chunk
			dataStart, _ = reader.Seek(0, io.SeekCurrent)
			dataSize = chunkSize
			break
		} else {
			// Skip unknown chunk
			reader.Seek(int64(chunkSize), io.SeekCurrent)
		}
	}

	// Read audio data
	audioData := make([]byte, dataSize)
	reader.Seek(dataStart, io.SeekStart)
	reader.Read(audioData)

	return format, audioData, nil
}
