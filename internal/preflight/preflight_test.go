package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"bdsample/internal/faults"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckTarget_MissingTargetUsesAncestor(t *testing.T) {
	base := t.TempDir()
	results := CheckTarget(filepath.Join(base, "samples", "DISC"), 1)
	if err := Err(results); err != nil {
		t.Fatalf("expected checks to pass, got %v", err)
	}
	if !strings.Contains(results[0].Detail, base) {
		t.Fatalf("expected ancestor %s in detail, got %q", base, results[0].Detail)
	}
}

func TestCheckTarget_TargetUnderFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := Err(CheckTarget(filepath.Join(f, "samples"), 1))
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckFreeSpace_Insufficient(t *testing.T) {
	orig := statfs
	t.Cleanup(func() { statfs = orig })
	statfs = func(path string, stat *unix.Statfs_t) error {
		stat.Bavail = 10
		stat.Bsize = 1024
		return nil
	}

	result := CheckFreeSpace("Free space", t.TempDir(), 20*1024)
	if result.Passed {
		t.Fatalf("expected failure, got %q", result.Detail)
	}
	if !strings.Contains(result.Detail, "10 KiB free") || !strings.Contains(result.Detail, "20 KiB needed") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}

	if ok := CheckFreeSpace("Free space", t.TempDir(), 10*1024); !ok.Passed {
		t.Fatalf("exact fit should pass, got %q", ok.Detail)
	}
}

func TestCheckFreeSpace_StatfsError(t *testing.T) {
	orig := statfs
	t.Cleanup(func() { statfs = orig })
	statfs = func(string, *unix.Statfs_t) error { return unix.ENOENT }

	if result := CheckFreeSpace("Free space", "/nowhere", 1); result.Passed {
		t.Fatal("expected failure when statfs fails")
	}
}

func TestErr_AllPassed(t *testing.T) {
	if err := Err([]Result{{Name: "a", Passed: true}}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
