// Package wav packages raw PCM samples into WAV containers.
//
// Encoding is pure: no I/O, no clock, no randomness. Identical samples and
// format always produce byte-identical output, which keeps published audio
// reproducible and makes blob upserts true no-ops.
package wav

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Format describes the PCM layout of raw samples.
type Format struct {
	// Channels is the interleaved channel count.
	Channels int
	// SampleWidth is bytes per sample per channel (2 = 16-bit).
	SampleWidth int
	// FrameRate is frames per second.
	FrameRate int
}

// DefaultFormat matches the speech synthesis provider output: mono 16-bit
// PCM at 24 kHz.
func DefaultFormat() Format {
	return Format{Channels: 1, SampleWidth: 2, FrameRate: 24000}
}

// BlockAlign returns the byte size of one frame across all channels.
func (f Format) BlockAlign() int {
	return f.Channels * f.SampleWidth
}

// ByteRate returns bytes consumed per second of playback.
func (f Format) ByteRate() int {
	return f.FrameRate * f.BlockAlign()
}

// Validate checks the format against the ranges the canonical PCM header can
// express.
func (f Format) Validate() error {
	if f.Channels < 1 {
		return fmt.Errorf("wav: channels must be at least 1, got %d", f.Channels)
	}
	if f.SampleWidth < 1 || f.SampleWidth > 4 {
		return fmt.Errorf("wav: sample width must be 1-4 bytes, got %d", f.SampleWidth)
	}
	if f.FrameRate < 1 {
		return fmt.Errorf("wav: frame rate must be positive, got %d", f.FrameRate)
	}
	return nil
}

const headerSize = 44

// Encode wraps raw PCM samples in a canonical 44-byte WAV header. The sample
// slice must contain whole frames; ragged payloads are rejected rather than
// silently truncated.
func Encode(samples []byte, f Format) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	block := f.BlockAlign()
	if len(samples)%block != 0 {
		return nil, fmt.Errorf("wav: %d sample bytes is not a whole number of %d-byte frames", len(samples), block)
	}

	out := make([]byte, headerSize+len(samples))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(samples)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.FrameRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(f.ByteRate()))
	binary.LittleEndian.PutUint16(out[32:34], uint16(block))
	binary.LittleEndian.PutUint16(out[34:36], uint16(f.SampleWidth*8))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(samples)))
	copy(out[44:], samples)

	return out, nil
}

// Duration reports the playback length of n sample bytes in the given format.
// Returns zero for invalid formats or ragged payloads.
func Duration(n int, f Format) time.Duration {
	if f.Validate() != nil || n <= 0 {
		return 0
	}
	block := f.BlockAlign()
	if n%block != 0 {
		return 0
	}
	frames := n / block
	return time.Duration(frames) * time.Second / time.Duration(f.FrameRate)
}

// DurationSeconds reports playback length rounded to whole seconds, the
// precision persisted alongside published records.
func DurationSeconds(n int, f Format) int {
	return int(Duration(n, f).Round(time.Second) / time.Second)
}
