package discfs

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
)

// FileInfo represents information about a file on either backend.
type FileInfo interface {
	// Name returns the base name of the file.
	Name() string

	// FullName returns the full path of the file. Physical entries carry an
	// absolute OS path; image entries carry a slash-separated path rooted at
	// the image ("/BDMV/STREAM/00001.M2TS").
	FullName() string

	// Length returns the size of the file in bytes.
	Length() int64

	// Extension returns the file extension (including the dot).
	Extension() string

	// IsDirectory returns true if this is a directory.
	IsDirectory() bool

	// IsImage reports whether the entry was produced by the image backend.
	IsImage() bool

	// ModTime returns the modification time.
	ModTime() time.Time

	// OpenRead opens the file for sequential reading.
	OpenRead() (io.ReadCloser, error)

	// OpenText opens the file as text, skipping a UTF-8 byte order mark.
	OpenText() (*TextReader, error)
}

// DirectoryInfo represents information about a directory on either backend.
type DirectoryInfo interface {
	// Name returns the base name of the directory.
	Name() string

	// FullName returns the full path of the directory.
	FullName() string

	// Parent returns the enclosing directory, or nil at the filesystem root.
	Parent() DirectoryInfo

	// IsImage reports whether the entry was produced by the image backend.
	IsImage() bool

	// GetFiles returns the immediate files of the directory.
	GetFiles() ([]FileInfo, error)

	// GetFilesPattern returns immediate files whose name matches a glob
	// pattern such as "*.mpls". Matching ignores case.
	GetFilesPattern(pattern string) ([]FileInfo, error)

	// GetFilesRecursive returns matching files of the directory and all of
	// its subdirectories. An empty pattern matches everything.
	GetFilesRecursive(pattern string) ([]FileInfo, error)

	// GetDirectories returns the immediate subdirectories.
	GetDirectories() ([]DirectoryInfo, error)

	// GetDirectoriesRecursive returns every subdirectory, each parent
	// listed before its children.
	GetDirectoriesRecursive() ([]DirectoryInfo, error)

	// GetDirectory returns a subdirectory by name.
	GetDirectory(name string) (DirectoryInfo, error)

	// GetFile returns an immediate file by name.
	GetFile(name string) (FileInfo, error)
}

// FileSystem provides an abstraction over the backing store.
type FileSystem interface {
	// Root returns the directory the filesystem was opened at.
	Root() DirectoryInfo

	// GetDirectoryInfo returns information about a directory.
	GetDirectoryInfo(path string) (DirectoryInfo, error)

	// GetFileInfo returns information about a file.
	GetFileInfo(path string) (FileInfo, error)

	// IsImage returns true if this is an image filesystem.
	IsImage() bool

	// VolumeLabel returns the label recorded by the backing store: the ISO
	// volume identifier or the root directory name.
	VolumeLabel() string

	// Close releases the backing store.
	Close() error
}

// Open picks the backend for path: a directory is served by the physical
// backend, a regular file is opened as an ISO image.
func Open(path string) (FileSystem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		physical, err := NewPhysical(path)
		if err != nil {
			return nil, err
		}
		return physical, nil
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("open %s: not a directory or image file", path)
	}
	image, err := OpenImage(path)
	if err != nil {
		return nil, err
	}
	return image, nil
}

// TextReader reads a text file line by line and closes the underlying stream.
type TextReader struct {
	*bufio.Reader
	closer io.Closer
}

// Close releases the underlying stream.
func (t *TextReader) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func openText(f FileInfo) (*TextReader, error) {
	rc, err := f.OpenRead()
	if err != nil {
		return nil, err
	}
	reader := bufio.NewReader(rc)
	if head, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = reader.Discard(len(utf8BOM))
	}
	return &TextReader{Reader: reader, closer: rc}, nil
}
