package discfs_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"bdsample/internal/discfs"
	"bdsample/internal/testsupport"
)

func imageFiles() []testsupport.DiscFile {
	return []testsupport.DiscFile{
		{Path: "BDMV/INDEX.BDMV", Data: []byte("INDX0200")},
		{Path: "BDMV/PLAYLIST/00000.MPLS", Data: []byte("MPLS0200")},
		{Path: "BDMV/STREAM/00001.M2TS", Size: 5000},
		{Path: "BDMV/META/DL/README.TXT", Data: []byte("hello\n")},
	}
}

func newImageDisc(t *testing.T) *discfs.Image {
	t.Helper()
	data := testsupport.BuildISO(t, "TESTDISC", imageFiles())
	img, err := discfs.NewImage(bytes.NewReader(data), "test.iso")
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}

func TestImageLabelAndListing(t *testing.T) {
	img := newImageDisc(t)

	if !img.IsImage() {
		t.Fatal("image backend should report IsImage")
	}
	if got := img.VolumeLabel(); got != "TESTDISC" {
		t.Fatalf("VolumeLabel = %q", got)
	}

	stream, err := img.GetDirectoryInfo("/BDMV/STREAM")
	if err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
	if !stream.IsImage() {
		t.Fatal("image directory should report IsImage")
	}
	files, err := stream.GetFiles()
	if err != nil {
		t.Fatalf("GetFiles: %v", err)
	}
	if len(files) != 1 || files[0].Name() != "00001.M2TS" {
		t.Fatalf("unexpected stream listing: %v", fileNames(files))
	}
	if files[0].FullName() != "/BDMV/STREAM/00001.M2TS" {
		t.Fatalf("FullName = %q", files[0].FullName())
	}
	if files[0].Length() != 5000 {
		t.Fatalf("Length = %d", files[0].Length())
	}
}

func TestImageLookupIgnoresCase(t *testing.T) {
	img := newImageDisc(t)

	file, err := img.GetFileInfo("bdmv/playlist/00000.mpls")
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	if file.FullName() != "/BDMV/PLAYLIST/00000.MPLS" {
		t.Fatalf("expected canonical path, got %q", file.FullName())
	}
	if _, err := img.GetFileInfo("/BDMV/PLAYLIST/99999.MPLS"); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestImageRecursionAndParent(t *testing.T) {
	img := newImageDisc(t)

	bdmv, err := img.GetDirectoryInfo("BDMV")
	if err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
	all, err := bdmv.GetFilesRecursive("")
	if err != nil {
		t.Fatalf("GetFilesRecursive: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 files, got %v", fileNames(all))
	}

	dirs, err := bdmv.GetDirectoriesRecursive()
	if err != nil {
		t.Fatalf("GetDirectoriesRecursive: %v", err)
	}
	var names []string
	for _, d := range dirs {
		names = append(names, d.Name())
	}
	sort.Strings(names)
	if want := []string{"DL", "META", "PLAYLIST", "STREAM"}; !equalStrings(names, want) {
		t.Fatalf("GetDirectoriesRecursive = %v, want %v", names, want)
	}

	dl, err := img.GetDirectoryInfo("/BDMV/META/DL")
	if err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
	meta := dl.Parent()
	if meta == nil || meta.FullName() != "/BDMV/META" {
		t.Fatalf("unexpected parent %v", meta)
	}
	back, err := meta.GetDirectory("DL")
	if err != nil {
		t.Fatalf("GetDirectory: %v", err)
	}
	if back.FullName() != dl.FullName() {
		t.Fatalf("parent round trip mismatch: %q vs %q", back.FullName(), dl.FullName())
	}
	if img.Root().Parent() != nil {
		t.Fatal("root parent should be nil")
	}
}

func TestImageReadContent(t *testing.T) {
	img := newImageDisc(t)

	file, err := img.GetFileInfo("/BDMV/STREAM/00001.M2TS")
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	rc, err := file.OpenRead()
	if err != nil {
		t.Fatalf("OpenRead: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(data, testsupport.Pattern(5000)) {
		t.Fatal("image content mismatch")
	}

	readme, err := img.GetFileInfo("/BDMV/META/DL/README.TXT")
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	text, err := readme.OpenText()
	if err != nil {
		t.Fatalf("OpenText: %v", err)
	}
	defer text.Close()
	line, _ := text.ReadString('\n')
	if line != "hello\n" {
		t.Fatalf("unexpected text %q", line)
	}
}

func TestOpenImageFromDisk(t *testing.T) {
	data := testsupport.BuildISO(t, "TESTDISC", imageFiles())
	path := filepath.Join(t.TempDir(), "disc.iso")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write iso: %v", err)
	}
	fsys, err := discfs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer fsys.Close()
	if !fsys.IsImage() {
		t.Fatal("expected image backend")
	}
	if _, err := fsys.GetDirectoryInfo("/BDMV"); err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
}
