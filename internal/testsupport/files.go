package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// repeating pattern derived from the byte offset, so truncation and
// misordered chunks are detectable. A size < 0 writes nothing.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 64 * 1024
	buf := make([]byte, chunkSize)
	var offset int64
	for offset < size {
		n := int64(chunkSize)
		if size-offset < n {
			n = size - offset
		}
		fillPattern(buf[:n], offset)
		if _, err := f.Write(buf[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		offset += n
	}
}

// Pattern returns size bytes of the WriteFile pattern.
func Pattern(size int64) []byte {
	buf := make([]byte, size)
	fillPattern(buf, 0)
	return buf
}

func fillPattern(buf []byte, offset int64) {
	for i := range buf {
		buf[i] = byte((offset + int64(i)) % 251)
	}
}

// AssertPrefix fails the test unless the file at path has exactly size bytes
// and those bytes match the WriteFile pattern.
func AssertPrefix(t testing.TB, path string, size int64) {
	t.Helper()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if int64(len(got)) != size {
		t.Fatalf("%s: got %d bytes, want %d", path, len(got), size)
	}
	if !bytes.Equal(got, Pattern(size)) {
		t.Fatalf("%s: content does not match source pattern", path)
	}
}
