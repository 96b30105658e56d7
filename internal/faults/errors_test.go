package faults_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"bdsample/internal/faults"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := faults.Wrap(faults.ErrCopy, "copy", "write", "/out/BDMV/STREAM/00001.m2ts", fs.ErrPermission)
	if !errors.Is(err, faults.ErrCopy) {
		t.Fatalf("expected copy marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	want := "copy fault: copy: write: /out/BDMV/STREAM/00001.m2ts: permission denied"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := faults.Wrap(faults.ErrScan, "", "", "", nil)
	if err.Error() != "scan fault: failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{faults.Wrap(faults.ErrCopy, "copy", "read", "x", nil), "copy"},
		{faults.Wrap(faults.ErrScan, "scan", "playlist", "x", nil), "scan"},
		{faults.Wrap(faults.ErrCancelled, "copy", "", "", context.Canceled), "cancelled"},
		{context.Canceled, "cancelled"},
		{faults.ErrNotFound, "not_found"},
		{faults.ErrConfiguration, "configuration"},
		{errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		if got := faults.Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestIsCancelled(t *testing.T) {
	if !faults.IsCancelled(faults.Wrap(faults.ErrCancelled, "copy", "", "", nil)) {
		t.Fatal("expected cancelled marker to be detected")
	}
	if faults.IsCancelled(faults.ErrCopy) {
		t.Fatal("copy fault is not a cancellation")
	}
}
