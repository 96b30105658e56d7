package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"bdsample/internal/logging"
	"bdsample/internal/sample"
)

// progressRenderer consumes copy progress until the channel closes.
type progressRenderer interface {
	run(updates <-chan sample.Progress)
	finish(job *sample.Job)
}

func newProgressRenderer(w io.Writer, job *sample.Job, logger *slog.Logger) progressRenderer {
	if isTerminal(w) {
		return &barRenderer{bar: progressbar.NewOptions64(job.TotalBytes,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(job.Label),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
		)}
	}
	return &logRenderer{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(5),
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barRenderer struct {
	bar *progressbar.ProgressBar
}

func (r *barRenderer) run(updates <-chan sample.Progress) {
	for update := range updates {
		_ = r.bar.Set64(update.BytesCompleted)
	}
}

func (r *barRenderer) finish(job *sample.Job) {
	_ = r.bar.Set64(job.BytesCompleted())
	if job.Err() == nil {
		_ = r.bar.Finish()
	}
}

// logRenderer emits sampled progress lines when stderr is not a terminal.
type logRenderer struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func (r *logRenderer) run(updates <-chan sample.Progress) {
	for update := range updates {
		if !r.sampler.ShouldLog(update.Percent(), "") {
			continue
		}
		r.logger.Info("copy progress",
			logging.Float64("percent", update.Percent()),
			logging.String("file", filepath.Base(update.File)),
			logging.Int64("bytes", update.BytesCompleted),
			logging.Int64("total_bytes", update.TotalBytes),
		)
	}
}

func (r *logRenderer) finish(*sample.Job) {}
