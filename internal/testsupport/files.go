package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// PDFBytes returns a minimal payload that passes the PDF magic check. Extra
// bytes pad the body so size-sensitive paths can be exercised.
func PDFBytes(extra int) []byte {
	header := []byte("%PDF-1.4\n")
	if extra <= 0 {
		return header
	}
	body := make([]byte, extra)
	for i := range body {
		body[i] = 0x20
	}
	return append(header, body...)
}

// PCMBytes returns little-endian 16-bit mono samples of a constant value,
// sized to the requested number of frames.
func PCMBytes(frames int, sample int16) []byte {
	if frames <= 0 {
		return nil
	}
	buf := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(sample))
	}
	return buf
}
