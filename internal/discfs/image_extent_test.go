package discfs

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

type fakeRecord struct {
	name string
	dir  bool
	data []byte
}

func (r fakeRecord) Name() string       { return r.name }
func (r fakeRecord) IsDir() bool        { return r.dir }
func (r fakeRecord) Size() int64        { return int64(len(r.data)) }
func (r fakeRecord) ModTime() time.Time { return time.Time{} }
func (r fakeRecord) Reader() io.Reader  { return bytes.NewReader(r.data) }

func TestGroupExtentsMergesMultiExtentFiles(t *testing.T) {
	head := bytes.Repeat([]byte{'a'}, 4096)
	middle := bytes.Repeat([]byte{'b'}, 4096)
	tail := []byte("tail")
	records := []isoRecord{
		fakeRecord{name: "00001.M2TS", data: head},
		fakeRecord{name: "00001.M2TS", data: middle},
		fakeRecord{name: "00001.M2TS", data: tail},
		fakeRecord{name: "00002.M2TS", data: []byte("second")},
		fakeRecord{name: "SSIF", dir: true},
	}

	entries := groupExtents(records)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[2].isDir || entries[2].name != "SSIF" {
		t.Fatalf("directory entry lost: %+v", entries[2])
	}

	file := &imageFile{parts: entries[0].parts, path: "/BDMV/STREAM/00001.M2TS"}
	want := int64(len(head) + len(middle) + len(tail))
	if file.Length() != want {
		t.Fatalf("Length = %d, want %d", file.Length(), want)
	}
	rc, err := file.OpenRead()
	if err != nil {
		t.Fatalf("OpenRead: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if int64(len(got)) != want {
		t.Fatalf("read %d bytes, want %d", len(got), want)
	}
	if got[0] != 'a' || got[4096] != 'b' || !bytes.HasSuffix(got, tail) {
		t.Fatal("extents were not read in order")
	}

	second := &imageFile{parts: entries[1].parts, path: "/BDMV/STREAM/00002.M2TS"}
	if second.Length() != 6 {
		t.Fatalf("second Length = %d", second.Length())
	}
}

func TestGroupExtentsKeepsSeparateNames(t *testing.T) {
	records := []isoRecord{
		fakeRecord{name: "A.BIN", data: []byte("a")},
		fakeRecord{name: "B.BIN", data: []byte("b")},
		fakeRecord{name: "A.BIN", data: []byte("again")},
	}
	if got := len(groupExtents(records)); got != 3 {
		t.Fatalf("only consecutive records merge, got %d entries", got)
	}
}

func volumeDescriptors(ids ...string) []byte {
	buf := make([]byte, (16+len(ids))*imageSectorSize)
	for i, id := range ids {
		offset := (16 + i) * imageSectorSize
		buf[offset] = 0
		copy(buf[offset+1:], id)
		buf[offset+6] = 1
	}
	return buf
}

func TestNewImageRejectsUDFOnlyImage(t *testing.T) {
	data := volumeDescriptors("BEA01", "NSR03", "TEA01")
	_, err := NewImage(bytes.NewReader(data), "bluray.iso")
	if !errors.Is(err, ErrUDFOnly) {
		t.Fatalf("expected ErrUDFOnly, got %v", err)
	}
}

func TestUDFOnlyDetection(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want bool
	}{
		{name: "udf 2.50", ids: []string{"BEA01", "NSR03", "TEA01"}, want: true},
		{name: "udf 1.02", ids: []string{"BEA01", "NSR02", "TEA01"}, want: true},
		{name: "bridge", ids: []string{"CD001", "BEA01", "NSR03", "TEA01"}, want: false},
		{name: "plain iso", ids: []string{"CD001"}, want: false},
		{name: "blank", ids: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := udfOnly(bytes.NewReader(volumeDescriptors(tt.ids...))); got != tt.want {
				t.Fatalf("udfOnly = %v, want %v", got, tt.want)
			}
		})
	}
}
