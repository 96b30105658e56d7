package discfs_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"bdsample/internal/discfs"
	"bdsample/internal/testsupport"
)

func newPhysicalDisc(t *testing.T) (string, *discfs.Physical) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "MOVIE_DISC")
	testsupport.WriteDisc(t, root, []testsupport.DiscFile{
		{Path: "BDMV/index.bdmv", Size: 10},
		{Path: "BDMV/PLAYLIST/00000.mpls", Size: 20},
		{Path: "BDMV/PLAYLIST/00001.mpls", Size: 30},
		{Path: "BDMV/PLAYLIST/readme.txt", Size: 5},
		{Path: "BDMV/STREAM/00001.m2ts", Size: 1000},
		{Path: "BDMV/STREAM/SSIF/00001.ssif", Size: 2000},
	})
	fsys, err := discfs.NewPhysical(root)
	if err != nil {
		t.Fatalf("NewPhysical: %v", err)
	}
	return root, fsys
}

func fileNames(files []discfs.FileInfo) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPhysicalListing(t *testing.T) {
	root, fsys := newPhysicalDisc(t)

	if fsys.IsImage() {
		t.Fatal("physical backend reported IsImage")
	}
	if got := fsys.VolumeLabel(); got != "MOVIE_DISC" {
		t.Fatalf("VolumeLabel = %q", got)
	}

	playlist, err := fsys.GetDirectoryInfo("BDMV/PLAYLIST")
	if err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
	files, err := playlist.GetFiles()
	if err != nil {
		t.Fatalf("GetFiles: %v", err)
	}
	if got, want := fileNames(files), []string{"00000.mpls", "00001.mpls", "readme.txt"}; !equalStrings(got, want) {
		t.Fatalf("GetFiles = %v, want %v", got, want)
	}

	mpls, err := playlist.GetFilesPattern("*.MPLS")
	if err != nil {
		t.Fatalf("GetFilesPattern: %v", err)
	}
	if got, want := fileNames(mpls), []string{"00000.mpls", "00001.mpls"}; !equalStrings(got, want) {
		t.Fatalf("GetFilesPattern = %v, want %v", got, want)
	}

	stream, err := fsys.GetFileInfo(filepath.Join(root, "BDMV", "STREAM", "00001.m2ts"))
	if err != nil {
		t.Fatalf("GetFileInfo absolute: %v", err)
	}
	if stream.Length() != 1000 || stream.Extension() != ".m2ts" || stream.IsDirectory() {
		t.Fatalf("unexpected stream info: len=%d ext=%q dir=%v", stream.Length(), stream.Extension(), stream.IsDirectory())
	}
}

func TestPhysicalRecursion(t *testing.T) {
	_, fsys := newPhysicalDisc(t)

	bdmv, err := fsys.GetDirectoryInfo("BDMV")
	if err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
	all, err := bdmv.GetFilesRecursive("")
	if err != nil {
		t.Fatalf("GetFilesRecursive: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 files, got %v", fileNames(all))
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
	if want := []string{"PLAYLIST", "SSIF", "STREAM"}; !equalStrings(names, want) {
		t.Fatalf("GetDirectoriesRecursive = %v, want %v", names, want)
	}
}

func TestPhysicalParentChain(t *testing.T) {
	_, fsys := newPhysicalDisc(t)

	ssif, err := fsys.GetDirectoryInfo("BDMV/STREAM/SSIF")
	if err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
	stream := ssif.Parent()
	if stream == nil || stream.Name() != "STREAM" {
		t.Fatalf("expected STREAM parent, got %v", stream)
	}
	child, err := stream.GetDirectory("SSIF")
	if err != nil {
		t.Fatalf("GetDirectory: %v", err)
	}
	if child.FullName() != ssif.FullName() {
		t.Fatalf("parent round trip mismatch: %q vs %q", child.FullName(), ssif.FullName())
	}
	if fsys.Root().Parent() != nil {
		t.Fatal("root parent should be nil")
	}
}

func TestPhysicalMissingEntries(t *testing.T) {
	_, fsys := newPhysicalDisc(t)

	if _, err := fsys.GetFileInfo("BDMV/STREAM/99999.m2ts"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, err := fsys.GetDirectoryInfo("../outside"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected escape to be rejected, got %v", err)
	}
	if _, err := fsys.GetDirectoryInfo("BDMV/index.bdmv"); err == nil {
		t.Fatal("expected error opening a file as a directory")
	}
	if _, err := fsys.GetFileInfo("BDMV/STREAM"); err == nil {
		t.Fatal("expected error opening a directory as a file")
	}
}

func TestPhysicalOpenText(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFhello\nworld\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fsys, err := discfs.NewPhysical(root)
	if err != nil {
		t.Fatalf("NewPhysical: %v", err)
	}
	file, err := fsys.GetFileInfo("notes.txt")
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	text, err := file.OpenText()
	if err != nil {
		t.Fatalf("OpenText: %v", err)
	}
	defer text.Close()
	line, err := text.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if line != "hello\n" {
		t.Fatalf("expected BOM to be stripped, got %q", line)
	}

	raw, err := file.OpenRead()
	if err != nil {
		t.Fatalf("OpenRead: %v", err)
	}
	defer raw.Close()
	data, err := io.ReadAll(raw)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != 15 {
		t.Fatalf("expected raw bytes including BOM, got %d", len(data))
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	root, _ := newPhysicalDisc(t)
	fsys, err := discfs.Open(root)
	if err != nil {
		t.Fatalf("Open dir: %v", err)
	}
	if fsys.IsImage() {
		t.Fatal("directory opened as image")
	}
	if _, err := discfs.Open(filepath.Join(root, "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestPhysicalListingSkipsSymlinks(t *testing.T) {
	root, fsys := newPhysicalDisc(t)
	playlist := filepath.Join(root, "BDMV", "PLAYLIST")
	if err := os.Symlink(filepath.Join(root, "missing.mpls"), filepath.Join(playlist, "99999.mpls")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(t.TempDir(), filepath.Join(playlist, "linkdir")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	dir, err := fsys.GetDirectoryInfo("BDMV/PLAYLIST")
	if err != nil {
		t.Fatalf("GetDirectoryInfo: %v", err)
	}
	files, err := dir.GetFilesPattern("*.mpls")
	if err != nil {
		t.Fatalf("GetFilesPattern: %v", err)
	}
	if got := fileNames(files); !equalStrings(got, []string{"00000.mpls", "00001.mpls"}) {
		t.Fatalf("unexpected listing %v", got)
	}

	all, err := fsys.Root().GetFilesRecursive("")
	if err != nil {
		t.Fatalf("GetFilesRecursive: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 files, got %v", fileNames(all))
	}
	dirs, err := fsys.Root().GetDirectoriesRecursive()
	if err != nil {
		t.Fatalf("GetDirectoriesRecursive: %v", err)
	}
	if len(dirs) != 4 {
		t.Fatalf("expected 4 directories, got %d", len(dirs))
	}

	entries, errs := fsys.Tree()
	if len(errs) != 0 {
		t.Fatalf("Tree errors: %v", errs)
	}
	links := 0
	for _, entry := range entries {
		if filepath.Base(entry.Path) == "99999.mpls" || filepath.Base(entry.Path) == "linkdir" {
			if entry.Dir {
				t.Fatalf("%s should not be reported as a directory", entry.Path)
			}
			links++
		}
	}
	if links != 2 {
		t.Fatalf("expected both links in the tree, found %d", links)
	}
	if len(entries) != 12 {
		t.Fatalf("expected 12 tree entries, got %d", len(entries))
	}
}
