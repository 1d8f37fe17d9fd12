package wav

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeHeaderLayout(t *testing.T) {
	samples := make([]byte, 48000) // one second of mono 16-bit at 24kHz
	out, err := Encode(samples, DefaultFormat())
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if len(out) != 44+len(samples) {
		t.Fatalf("unexpected output size %d", len(out))
	}

	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatalf("bad container magic: %q %q", out[0:4], out[8:12])
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(36+len(samples)) {
		t.Fatalf("riff size = %d", got)
	}
	if string(out[12:16]) != "fmt " {
		t.Fatalf("missing fmt chunk: %q", out[12:16])
	}
	if got := binary.LittleEndian.Uint32(out[16:20]); got != 16 {
		t.Fatalf("fmt chunk size = %d", got)
	}
	if got := binary.LittleEndian.Uint16(out[20:22]); got != 1 {
		t.Fatalf("audio format = %d, want PCM", got)
	}
	if got := binary.LittleEndian.Uint16(out[22:24]); got != 1 {
		t.Fatalf("channels = %d", got)
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != 24000 {
		t.Fatalf("frame rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 48000 {
		t.Fatalf("byte rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(out[32:34]); got != 2 {
		t.Fatalf("block align = %d", got)
	}
	if got := binary.LittleEndian.Uint16(out[34:36]); got != 16 {
		t.Fatalf("bits per sample = %d", got)
	}
	if string(out[36:40]) != "data" {
		t.Fatalf("missing data chunk: %q", out[36:40])
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(len(samples)) {
		t.Fatalf("data size = %d", got)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	samples := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	first, err := Encode(samples, DefaultFormat())
	if err != nil {
		t.Fatalf("first Encode: %v", err)
	}
	second, err := Encode(samples, DefaultFormat())
	if err != nil {
		t.Fatalf("second Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("identical input produced different bytes")
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	out, err := Encode(nil, DefaultFormat())
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if len(out) != 44 {
		t.Fatalf("expected bare header, got %d bytes", len(out))
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 0 {
		t.Fatalf("data size = %d, want 0", got)
	}
}

func TestEncodeRejectsRaggedPayload(t *testing.T) {
	if _, err := Encode([]byte{0x01}, DefaultFormat()); err == nil {
		t.Fatal("expected error for partial frame")
	}
	stereo := Format{Channels: 2, SampleWidth: 2, FrameRate: 44100}
	if _, err := Encode(make([]byte, 6), stereo); err == nil {
		t.Fatal("expected error for ragged stereo payload")
	}
}

func TestEncodeRejectsInvalidFormat(t *testing.T) {
	cases := []Format{
		{Channels: 0, SampleWidth: 2, FrameRate: 24000},
		{Channels: 1, SampleWidth: 0, FrameRate: 24000},
		{Channels: 1, SampleWidth: 5, FrameRate: 24000},
		{Channels: 1, SampleWidth: 2, FrameRate: 0},
	}
	for _, f := range cases {
		if _, err := Encode(nil, f); err == nil {
			t.Fatalf("expected error for format %+v", f)
		}
	}
}

func TestDuration(t *testing.T) {
	f := DefaultFormat()
	if got := Duration(48000, f); got != time.Second {
		t.Fatalf("Duration = %v, want 1s", got)
	}
	if got := Duration(24000, f); got != 500*time.Millisecond {
		t.Fatalf("Duration = %v, want 500ms", got)
	}
	if got := Duration(0, f); got != 0 {
		t.Fatalf("Duration(0) = %v", got)
	}
	if got := Duration(3, f); got != 0 {
		t.Fatalf("Duration(ragged) = %v", got)
	}

	stereo := Format{Channels: 2, SampleWidth: 2, FrameRate: 48000}
	if got := Duration(192000*2, stereo); got != 2*time.Second {
		t.Fatalf("stereo Duration = %v, want 2s", got)
	}
}

func TestDurationSecondsRounds(t *testing.T) {
	f := DefaultFormat()
	// 1.6 seconds of audio rounds to 2.
	if got := DurationSeconds(48000*8/5, f); got != 2 {
		t.Fatalf("DurationSeconds = %d, want 2", got)
	}
	if got := DurationSeconds(48000/10, f); got != 0 {
		t.Fatalf("DurationSeconds(0.1s) = %d, want 0", got)
	}
}
