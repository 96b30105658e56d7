package discfs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/kdomanski/iso9660"
)

// Image serves a disc structure stored inside an ISO image.
type Image struct {
	closer io.Closer
	img    *iso9660.Image
	root   *iso9660.File
	label  string
	source string
}

// OpenImage opens the ISO image at path. The file stays open until Close.
func OpenImage(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	image, err := NewImage(file, path)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	image.closer = file
	return image, nil
}

// ErrUDFOnly is returned for images that carry a UDF file system without an
// ISO 9660 bridge.
var ErrUDFOnly = errors.New("UDF image without an ISO 9660 file system; mount it and pass the mount point")

// NewImage reads an ISO image from ra. source names the image in errors.
func NewImage(ra io.ReaderAt, source string) (*Image, error) {
	if udfOnly(ra) {
		return nil, fmt.Errorf("read image %s: %w", source, ErrUDFOnly)
	}
	img, err := iso9660.OpenImage(ra)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", source, err)
	}
	root, err := img.RootDir()
	if err != nil {
		return nil, fmt.Errorf("read image root %s: %w", source, err)
	}
	label, err := img.Label()
	if err != nil {
		label = ""
	}
	return &Image{
		img:    img,
		root:   root,
		label:  strings.TrimSpace(label),
		source: source,
	}, nil
}

// Root returns the image root directory.
func (i *Image) Root() DirectoryInfo {
	return &imageDir{fsys: i, file: i.root, path: "/"}
}

// GetDirectoryInfo resolves a slash-separated path inside the image.
func (i *Image) GetDirectoryInfo(p string) (DirectoryInfo, error) {
	entry, canonical, err := i.lookup(cleanImagePath(p))
	if err != nil {
		return nil, err
	}
	if !entry.isDir {
		return nil, &fs.PathError{Op: "open", Path: canonical, Err: errNotDirectory}
	}
	return &imageDir{fsys: i, file: entry.dir, path: canonical}, nil
}

// GetFileInfo resolves a slash-separated path inside the image.
func (i *Image) GetFileInfo(p string) (FileInfo, error) {
	entry, canonical, err := i.lookup(cleanImagePath(p))
	if err != nil {
		return nil, err
	}
	if entry.isDir {
		return nil, &fs.PathError{Op: "open", Path: canonical, Err: errIsDirectory}
	}
	return &imageFile{parts: entry.parts, path: canonical}, nil
}

func (i *Image) IsImage() bool { return true }

func (i *Image) VolumeLabel() string { return i.label }

// Close releases the image file when it was opened by OpenImage.
func (i *Image) Close() error {
	if i.closer == nil {
		return nil
	}
	err := i.closer.Close()
	i.closer = nil
	return err
}

func (i *Image) lookup(clean string) (imageEntry, string, error) {
	current := imageEntry{isDir: true, dir: i.root}
	if clean == "/" {
		return current, clean, nil
	}
	canonical := ""
	for _, part := range strings.Split(strings.TrimPrefix(clean, "/"), "/") {
		if !current.isDir {
			return imageEntry{}, "", &fs.PathError{Op: "open", Path: clean, Err: fs.ErrNotExist}
		}
		child, err := findChild(current.dir, part)
		if err != nil {
			return imageEntry{}, "", &fs.PathError{Op: "open", Path: clean, Err: err}
		}
		current = child
		canonical += "/" + child.name
	}
	return current, canonical, nil
}

// ISO 9660 identifiers are upper-case d-characters, so name lookups ignore case.
func findChild(dir *iso9660.File, name string) (imageEntry, error) {
	entries, err := listChildren(dir)
	if err != nil {
		return imageEntry{}, err
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.name, name) {
			return entry, nil
		}
	}
	return imageEntry{}, fs.ErrNotExist
}

func cleanImagePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Clean("/" + p)
}

// isoRecord is the part of an ISO 9660 directory record the backend reads.
type isoRecord interface {
	Name() string
	IsDir() bool
	Size() int64
	ModTime() time.Time
	Reader() io.Reader
}

// imageEntry is one directory child. Files larger than 4 GiB are stored as
// several consecutive records with the same identifier; parts holds them in
// order.
type imageEntry struct {
	name  string
	isDir bool
	dir   *iso9660.File
	parts []isoRecord
}

func listChildren(dir *iso9660.File) ([]imageEntry, error) {
	children, err := dir.GetChildren()
	if err != nil {
		return nil, err
	}
	records := make([]isoRecord, len(children))
	for i, child := range children {
		records[i] = child
	}
	entries := groupExtents(records)
	for i := range entries {
		if entries[i].isDir {
			entries[i].dir, _ = entries[i].parts[0].(*iso9660.File)
		}
	}
	return entries, nil
}

func groupExtents(records []isoRecord) []imageEntry {
	entries := make([]imageEntry, 0, len(records))
	for _, record := range records {
		if n := len(entries); n > 0 && !record.IsDir() {
			last := &entries[n-1]
			if !last.isDir && last.name == record.Name() {
				last.parts = append(last.parts, record)
				continue
			}
		}
		entries = append(entries, imageEntry{
			name:  record.Name(),
			isDir: record.IsDir(),
			parts: []isoRecord{record},
		})
	}
	return entries
}

// Volume structure descriptor identifiers found from sector 16 onward.
var (
	isoIdentifier = []byte("CD001")
	udfNSR02      = []byte("NSR02")
	udfNSR03      = []byte("NSR03")
	udfTerminator = []byte("TEA01")
)

const (
	imageSectorSize      = 2048
	maxVolumeDescriptors = 64
)

func udfOnly(ra io.ReaderAt) bool {
	header := make([]byte, 6)
	sawNSR := false
	for sector := int64(16); sector < 16+maxVolumeDescriptors; sector++ {
		if _, err := ra.ReadAt(header, sector*imageSectorSize); err != nil {
			break
		}
		id := header[1:6]
		switch {
		case bytes.Equal(id, isoIdentifier):
			return false
		case bytes.Equal(id, udfNSR02), bytes.Equal(id, udfNSR03):
			sawNSR = true
		case bytes.Equal(id, udfTerminator):
			return sawNSR
		}
	}
	return sawNSR
}

type imageDir struct {
	fsys *Image
	file *iso9660.File
	path string
}

func (d *imageDir) Name() string {
	if d.path == "/" {
		return d.fsys.label
	}
	return path.Base(d.path)
}

func (d *imageDir) FullName() string { return d.path }
func (d *imageDir) IsImage() bool    { return true }

func (d *imageDir) Parent() DirectoryInfo {
	if d.path == "/" {
		return nil
	}
	parent, err := d.fsys.GetDirectoryInfo(path.Dir(d.path))
	if err != nil {
		return nil
	}
	return parent
}

func (d *imageDir) children() ([]imageEntry, error) {
	entries, err := listChildren(d.file)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: d.path, Err: err}
	}
	return entries, nil
}

func (d *imageDir) GetFiles() ([]FileInfo, error) {
	entries, err := d.children()
	if err != nil {
		return nil, err
	}
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.isDir {
			continue
		}
		files = append(files, &imageFile{parts: entry.parts, path: path.Join(d.path, entry.name)})
	}
	return files, nil
}

func (d *imageDir) GetFilesPattern(pattern string) ([]FileInfo, error) {
	files, err := d.GetFiles()
	if err != nil {
		return nil, err
	}
	return filterFiles(files, pattern)
}

func (d *imageDir) GetFilesRecursive(pattern string) ([]FileInfo, error) {
	return collectFiles(d, pattern)
}

func (d *imageDir) GetDirectories() ([]DirectoryInfo, error) {
	entries, err := d.children()
	if err != nil {
		return nil, err
	}
	dirs := make([]DirectoryInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.isDir || entry.dir == nil {
			continue
		}
		dirs = append(dirs, &imageDir{fsys: d.fsys, file: entry.dir, path: path.Join(d.path, entry.name)})
	}
	return dirs, nil
}

func (d *imageDir) GetDirectoriesRecursive() ([]DirectoryInfo, error) {
	return collectDirectories(d)
}

func (d *imageDir) GetDirectory(name string) (DirectoryInfo, error) {
	return d.fsys.GetDirectoryInfo(path.Join(d.path, name))
}

func (d *imageDir) GetFile(name string) (FileInfo, error) {
	return d.fsys.GetFileInfo(path.Join(d.path, name))
}

type imageFile struct {
	parts []isoRecord
	path  string
}

func (f *imageFile) Name() string      { return path.Base(f.path) }
func (f *imageFile) FullName() string  { return f.path }
func (f *imageFile) Extension() string { return path.Ext(f.path) }
func (f *imageFile) IsDirectory() bool { return false }
func (f *imageFile) IsImage() bool     { return true }

func (f *imageFile) Length() int64 {
	var total int64
	for _, part := range f.parts {
		total += part.Size()
	}
	return total
}

func (f *imageFile) ModTime() time.Time {
	if len(f.parts) == 0 {
		return time.Time{}
	}
	return f.parts[0].ModTime()
}

func (f *imageFile) OpenRead() (io.ReadCloser, error) {
	readers := make([]io.Reader, 0, len(f.parts))
	for _, part := range f.parts {
		readers = append(readers, part.Reader())
	}
	return io.NopCloser(io.MultiReader(readers...)), nil
}

func (f *imageFile) OpenText() (*TextReader, error) {
	return openText(f)
}
