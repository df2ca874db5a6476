package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"
)

// pcmWAV builds a minimal mono 16-bit PCM WAV with the given sample rate and
// frame count.
func pcmWAV(sampleRate, frames int) []byte {
	dataLen := frames * 2
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(&b, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	b.Write(make([]byte, dataLen))
	return b.Bytes()
}

func TestClipDuration_WAVInProcess(t *testing.T) {
	clip := pcmWAV(8000, 12000) // 1.5s of silence

	got, err := ClipDuration(context.Background(), clip)
	if err != nil {
		t.Fatalf("ClipDuration: %v", err)
	}
	if math.Abs(got-1.5) > 0.01 {
		t.Errorf("duration = %v, want 1.5", got)
	}
}
