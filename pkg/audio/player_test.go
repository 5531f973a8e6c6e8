package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildWAV assembles a minimal WAV blob with the given fmt chunk size
// declaration; the fmt fields themselves are always 16 bytes.
func buildWAV(declaredFmtSize uint32, samples []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // size, unchecked
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, declaredFmtSize)
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // channels
	binary.Write(&buf, binary.LittleEndian, uint32(44100)) // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(88200)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))     // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))    // bit depth

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)
	return buf.Bytes()
}

func TestParseWAVBundledTone(t *testing.T) {
	format, data, err := parseWAV(defaultTone)
	if err != nil {
		t.Fatalf("parseWAV: %v", err)
	}
	if format.SampleRate != 44100 || format.Channels != 1 || format.BitDepth != 16 {
		t.Errorf("format = %+v", format)
	}
	if len(data) == 0 {
		t.Error("bundled tone decoded to no samples")
	}
}

func TestParseWAVUndersizedFmtChunk(t *testing.T) {
	// A user-supplied file declaring a fmt chunk shorter than its actual
	// 16 bytes of fields must not seek past the data chunk.
	samples := []byte{1, 2, 3, 4}
	format, data, err := parseWAV(buildWAV(12, samples))
	if err != nil {
		t.Fatalf("parseWAV: %v", err)
	}
	if format.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", format.SampleRate)
	}
	if !bytes.Equal(data, samples) {
		t.Errorf("data = %v, want %v", data, samples)
	}
}

func TestLibraryNamesDefaultFirst(t *testing.T) {
	lib := NewLibrary()

	names := lib.Names()
	if len(names) == 0 || names[0] != defaultToneName {
		t.Errorf("names = %v, want default first", names)
	}
}

func TestLibraryResolveUnknownFallsBack(t *testing.T) {
	lib := NewLibrary()

	if got := lib.Resolve("no-such-tone"); !bytes.Equal(got, defaultTone) {
		t.Error("unknown tone did not resolve to the bundled default")
	}
}
