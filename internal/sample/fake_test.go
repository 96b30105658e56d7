package sample

import (
	"errors"
	"io"
	"path"
	"time"

	"bdsample/internal/discfs"
)

// fakeFile is an in-memory FileInfo whose reader can be told to fail.
type fakeFile struct {
	fullName string
	length   int64
	data     []byte
	image    bool
	openErr  error
	// failAfter makes reads fail with readErr once this many bytes were served.
	failAfter int64
	readErr   error
}

func (f *fakeFile) Name() string       { return path.Base(f.fullName) }
func (f *fakeFile) FullName() string   { return f.fullName }
func (f *fakeFile) Length() int64      { return f.length }
func (f *fakeFile) Extension() string  { return path.Ext(f.fullName) }
func (f *fakeFile) IsDirectory() bool  { return false }
func (f *fakeFile) IsImage() bool      { return f.image }
func (f *fakeFile) ModTime() time.Time { return time.Time{} }

func (f *fakeFile) OpenRead() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeReader{file: f}, nil
}

func (f *fakeFile) OpenText() (*discfs.TextReader, error) {
	return nil, errors.New("not supported")
}

type fakeReader struct {
	file   *fakeFile
	offset int64
	closed bool
}

func (r *fakeReader) Read(p []byte) (int, error) {
	if r.file.readErr != nil && r.offset >= r.file.failAfter {
		return 0, r.file.readErr
	}
	if r.offset >= int64(len(r.file.data)) {
		return 0, io.EOF
	}
	end := int64(len(r.file.data))
	if r.file.readErr != nil && r.file.failAfter < end {
		end = r.file.failAfter
	}
	n := copy(p, r.file.data[r.offset:end])
	r.offset += int64(n)
	return n, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}
