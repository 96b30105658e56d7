package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/kdomanski/iso9660"
)

// DiscFile describes one file of a fake disc tree, relative to the disc root
// (for example "BDMV/STREAM/00001.m2ts").
type DiscFile struct {
	Path string
	Size int64
	// Data overrides the generated pattern when set.
	Data []byte
}

// Playlist and clip-info headers recognised by the catalog scan.
var (
	PlaylistHeader = []byte("MPLS0200")
	ClipInfoHeader = []byte("HDMV0200")
)

// WriteDisc materializes files under root and returns root.
func WriteDisc(t testing.TB, root string, files []DiscFile) string {
	t.Helper()

	for _, file := range files {
		target := filepath.Join(root, filepath.FromSlash(file.Path))
		if file.Data != nil {
			writeBytes(t, target, file.Data)
			continue
		}
		WriteFile(t, target, file.Size)
	}
	return root
}

// MinimalDisc returns a small but complete BDMV layout with one playlist, one
// clip-info file, and one stream of streamSize bytes.
func MinimalDisc(streamSize int64) []DiscFile {
	return []DiscFile{
		{Path: "BDMV/index.bdmv", Data: []byte("INDX0200")},
		{Path: "BDMV/MovieObject.bdmv", Data: []byte("MOBJ0200")},
		{Path: "BDMV/PLAYLIST/00000.mpls", Data: append(append([]byte{}, PlaylistHeader...), make([]byte, 56)...)},
		{Path: "BDMV/CLIPINF/00001.clpi", Data: append(append([]byte{}, ClipInfoHeader...), make([]byte, 56)...)},
		{Path: "BDMV/STREAM/00001.m2ts", Size: streamSize},
	}
}

// BuildISO renders files into an in-memory ISO 9660 image labelled label.
// ISO 9660 names are upper-case 8.3 identifiers, so callers should pass
// paths that already conform.
func BuildISO(t testing.TB, label string, files []DiscFile) []byte {
	t.Helper()

	writer, err := iso9660.NewWriter()
	if err != nil {
		t.Fatalf("create iso writer: %v", err)
	}
	defer func() {
		_ = writer.Cleanup()
	}()

	sorted := append([]DiscFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	for _, file := range sorted {
		data := file.Data
		if data == nil {
			data = Pattern(file.Size)
		}
		if err := writer.AddFile(bytes.NewReader(data), file.Path); err != nil {
			t.Fatalf("add %s to iso: %v", file.Path, err)
		}
	}

	var out bytes.Buffer
	if err := writer.WriteTo(&out, label); err != nil {
		t.Fatalf("write iso: %v", err)
	}
	return out.Bytes()
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
