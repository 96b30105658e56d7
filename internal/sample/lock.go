package sample

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"bdsample/internal/faults"
)

// TargetLock is an exclusive, non-blocking lock on <target>.lock.
type TargetLock struct {
	lock *flock.Flock
	path string
}

// LockTarget acquires the lock for target or fails immediately when another
// extraction holds it.
func LockTarget(target string) (*TargetLock, error) {
	target = filepath.Clean(target)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrCopy, "lock", "create lock directory", filepath.Dir(target), err)
	}
	lockPath := target + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrCopy, "lock", "acquire lock", lockPath, err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrValidation, "lock", "acquire lock",
			fmt.Sprintf("another extraction is writing to %s", target), nil)
	}
	return &TargetLock{lock: lock, path: lockPath}, nil
}

// Path returns the lock file path.
func (l *TargetLock) Path() string { return l.path }

// Unlock releases the lock. The lock file stays in place.
func (l *TargetLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
