package sample

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"bdsample/internal/discfs"
	"bdsample/internal/logging"
)

// ResetResult reports what Reset removed and what it had to leave behind.
type ResetResult struct {
	FilesRemoved int
	DirsRemoved  int
	Failures     []ResetFailure
}

// ResetFailure pairs a path with the error that kept it from being removed.
type ResetFailure struct {
	Path  string
	Error error
}

// HasPriorExtraction reports whether dir exists and contains anything.
func HasPriorExtraction(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

// Reset deletes every file and symbolic link below root, then every
// directory deepest first. root itself is kept. Individual failures are
// logged and collected but never stop the reset.
func Reset(ctx context.Context, root string, logger *slog.Logger) ResetResult {
	return reset(ctx, root, logger, os.Remove)
}

func reset(ctx context.Context, root string, logger *slog.Logger, remove func(string) error) ResetResult {
	result := ResetResult{}
	logger = logging.NewComponentLogger(logger, "reset")

	root = strings.TrimSpace(root)
	if root == "" {
		return result
	}
	fsys, err := discfs.NewPhysical(root)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Failures = append(result.Failures, ResetFailure{Path: root, Error: err})
			warnResetFailure(logger, root, err)
		}
		return result
	}

	entries, errs := fsys.Tree()
	for _, err := range errs {
		result.Failures = append(result.Failures, ResetFailure{Path: failurePath(err, root), Error: err})
		warnResetFailure(logger, failurePath(err, root), err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.Dir {
			dirs = append(dirs, entry.Path)
			continue
		}
		if ctx.Err() != nil {
			return result
		}
		if err := remove(entry.Path); err != nil {
			result.Failures = append(result.Failures, ResetFailure{Path: entry.Path, Error: err})
			warnResetFailure(logger, entry.Path, err)
			continue
		}
		result.FilesRemoved++
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return result
		}
		dir := dirs[i]
		if err := remove(dir); err != nil {
			result.Failures = append(result.Failures, ResetFailure{Path: dir, Error: err})
			warnResetFailure(logger, dir, err)
			continue
		}
		result.DirsRemoved++
	}

	logger.Info("target reset",
		logging.String("path", root),
		logging.Int("files_removed", result.FilesRemoved),
		logging.Int("dirs_removed", result.DirsRemoved),
		logging.Int("failures", len(result.Failures)),
	)
	return result
}

func failurePath(err error, fallback string) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return fallback
}

func warnResetFailure(logger *slog.Logger, path string, err error) {
	logging.WarnWithContext(logger, "failed to remove previous sample entry", "reset_remove_failed",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "close programs holding files in the target"),
		logging.String(logging.FieldImpact, "stale file left in the target"),
	)
}
