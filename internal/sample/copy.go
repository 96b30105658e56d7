package sample

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bdsample/internal/config"
	"bdsample/internal/faults"
	"bdsample/internal/logging"
)

// DefaultBufferSize is the copy chunk size used when none is configured.
const DefaultBufferSize = 80 * 1024

const minBufferSize = 4 * 1024

// Progress describes the copy state after a chunk was written.
type Progress struct {
	Index          int
	Entries        int
	File           string
	FileBytes      int64
	FileTotal      int64
	BytesCompleted int64
	TotalBytes     int64
}

// Percent returns overall completion in the range 0-100.
func (p Progress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return 100
	}
	return float64(p.BytesCompleted) * 100 / float64(p.TotalBytes)
}

// Copier executes jobs sequentially, one chunk at a time.
type Copier struct {
	BufferSize int
	// KeepPartial leaves a partially written file behind after a copy fault.
	// Cancelled copies always leave their partial file.
	KeepPartial bool
	Logger      *slog.Logger
	// Progress, when set, is called after every chunk from the copying
	// goroutine.
	Progress func(Progress)
}

// NewCopier builds a copier from the sample configuration.
func NewCopier(cfg *config.Config, logger *slog.Logger) *Copier {
	copier := &Copier{
		BufferSize:  DefaultBufferSize,
		KeepPartial: true,
		Logger:      logger,
	}
	if cfg != nil {
		copier.BufferSize = cfg.BufferBytes()
		copier.KeepPartial = cfg.Sample.KeepPartial
	}
	return copier
}

// Run copies every entry of job in order. The first fault stops the job,
// is recorded on it, and is returned. Files copied before the fault remain.
func (c *Copier) Run(ctx context.Context, job *Job) error {
	if job == nil {
		return faults.Wrap(faults.ErrValidation, "copy", "run", "no job", nil)
	}
	ctx = logging.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(c.Logger, "copy"))

	size := c.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	size = max(size, minBufferSize)
	buf := make([]byte, size)

	started := time.Now()
	logger.Info("extraction started",
		logging.String("output", job.OutputDir),
		logging.Int("files", len(job.Entries)),
		logging.Int64("total_bytes", job.TotalBytes),
	)

	for i := range job.Entries {
		entry := job.Entries[i]
		if err := c.copyEntry(ctx, job, i, entry, buf); err != nil {
			job.err = err
			logging.ErrorWithContext(logger, "extraction failed", "copy_failed",
				logging.String("source", entry.Source.FullName()),
				logging.String("destination", entry.Destination),
				logging.String(logging.FieldErrorKind, faults.Kind(err)),
				logging.Int64("bytes_completed", job.BytesCompleted()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, hintFor(err)),
			)
			return err
		}
		logger.Debug("file copied",
			logging.String("category", entry.Category.String()),
			logging.String("destination", entry.Destination),
			logging.Int64("bytes", entry.Limit),
			logging.Bool("truncated", entry.Truncated),
		)
	}

	logger.Info("extraction completed",
		logging.String("output", job.OutputDir),
		logging.Int64("bytes", job.BytesCompleted()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (c *Copier) copyEntry(ctx context.Context, job *Job, index int, entry Entry, buf []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return faults.Wrap(faults.ErrCancelled, "copy", "cancelled", entry.Destination, err)
	}

	dir := filepath.Dir(entry.Destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return faults.Wrap(faults.ErrCopy, "copy", "create directory", dir, err)
	}

	src, err := entry.Source.OpenRead()
	if err != nil {
		return faults.Wrap(faults.ErrCopy, "copy", "open source", entry.Source.FullName(), err)
	}
	defer src.Close()

	dst, err := os.OpenFile(entry.Destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return faults.Wrap(faults.ErrCopy, "copy", "create destination", entry.Destination, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = dst.Close()
		}
		if err != nil && errors.Is(err, faults.ErrCopy) && !c.KeepPartial {
			_ = os.Remove(entry.Destination)
		}
	}()

	var written int64
	for written < entry.Limit {
		if err := ctx.Err(); err != nil {
			return faults.Wrap(faults.ErrCancelled, "copy", "cancelled", fmt.Sprintf("%s after %d of %d bytes", entry.Destination, written, entry.Limit), err)
		}
		chunk := min(int64(len(buf)), entry.Limit-written)
		n, readErr := io.ReadFull(src, buf[:chunk])
		if n > 0 {
			w, writeErr := dst.Write(buf[:n])
			written += int64(w)
			job.completed.Add(int64(w))
			if writeErr != nil {
				return faults.Wrap(faults.ErrCopy, "copy", "write destination", entry.Destination, writeErr)
			}
			c.report(job, index, entry, written)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
				return faults.Wrap(faults.ErrCopy, "copy", "read source",
					fmt.Sprintf("%s ended after %d of %d bytes", entry.Source.FullName(), written, entry.Limit),
					io.ErrUnexpectedEOF)
			}
			return faults.Wrap(faults.ErrCopy, "copy", "read source", entry.Source.FullName(), readErr)
		}
	}

	closed = true
	if err := dst.Close(); err != nil {
		return faults.Wrap(faults.ErrCopy, "copy", "close destination", entry.Destination, err)
	}
	if entry.Limit == 0 {
		c.report(job, index, entry, 0)
	}
	return nil
}

func (c *Copier) report(job *Job, index int, entry Entry, written int64) {
	if c.Progress == nil {
		return
	}
	c.Progress(Progress{
		Index:          index,
		Entries:        len(job.Entries),
		File:           entry.Destination,
		FileBytes:      written,
		FileTotal:      entry.Limit,
		BytesCompleted: job.BytesCompleted(),
		TotalBytes:     job.TotalBytes,
	})
}

func hintFor(err error) string {
	switch {
	case faults.IsCancelled(err):
		return "extraction was cancelled; rerun to start over"
	case errors.Is(err, os.ErrPermission):
		return "check permissions on the source and target directories"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "the disc or image may be damaged or truncated"
	default:
		return "check free space on the target and the source media"
	}
}
