package sample

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"bdsample/internal/bdrom"
	"bdsample/internal/discfs"
	"bdsample/internal/faults"
)

// Descriptor is the read-only view of a scanned disc the planner needs.
// *bdrom.Disc satisfies it.
type Descriptor interface {
	VolumeLabel() string
	SourceRoot() string
	Directory(category bdrom.Category) discfs.DirectoryInfo
	StreamFile(id string) (bdrom.StreamFile, bool)
}

// Request names the stream to sample and where to put it.
type Request struct {
	Disc Descriptor
	// Stream is the catalog identifier of the selected stream ("00001.m2ts").
	Stream string
	// SampleSize caps every stream container, in bytes.
	SampleSize int64
	TargetRoot string
}

// Entry is one planned file copy.
type Entry struct {
	Category    bdrom.Category
	Source      discfs.FileInfo
	Destination string
	// Length is the source length reported at planning time.
	Length int64
	// Limit is the exact number of bytes to copy.
	Limit int64
	// Capped marks stream containers, which are subject to the sample cap.
	Capped bool
	// Truncated is set when the cap is below the source length.
	Truncated bool
}

// Job is a planned extraction. TotalBytes is fixed when the job is planned.
type Job struct {
	ID         string
	Label      string
	Stream     string
	TargetRoot string
	// OutputDir is <TargetRoot>/<Label>, the parent of every destination.
	OutputDir  string
	Entries    []Entry
	TotalBytes int64

	completed atomic.Int64
	err       error
}

// BytesCompleted returns the number of bytes written so far. It is safe to
// call while the job runs.
func (j *Job) BytesCompleted() int64 { return j.completed.Load() }

// Err returns the terminal fault recorded by the copier, if any.
func (j *Job) Err() error { return j.err }

// Plan builds the copy job for req. It lists directories but moves no bytes.
// A stream or companion that cannot be found plans fewer bytes rather than
// failing.
func Plan(req Request) (*Job, error) {
	if req.Disc == nil {
		return nil, faults.Wrap(faults.ErrValidation, "plan", "validate request", "no disc", nil)
	}
	if req.SampleSize <= 0 {
		return nil, faults.Wrap(faults.ErrValidation, "plan", "validate request", fmt.Sprintf("sample size must be positive, got %d", req.SampleSize), nil)
	}
	targetRoot := strings.TrimSpace(req.TargetRoot)
	if targetRoot == "" {
		return nil, faults.Wrap(faults.ErrValidation, "plan", "validate request", "target directory is empty", nil)
	}
	targetRoot, err := filepath.Abs(targetRoot)
	if err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "plan", "resolve target", req.TargetRoot, err)
	}

	label := req.Disc.VolumeLabel()
	if label == "" {
		label = bdrom.DefaultLabel
	}
	p := &planner{
		disc:       req.Disc,
		cap:        req.SampleSize,
		sourceRoot: req.Disc.SourceRoot(),
		seen:       make(map[string]struct{}),
		job: &Job{
			ID:         uuid.NewString(),
			Label:      label,
			Stream:     req.Stream,
			TargetRoot: targetRoot,
			OutputDir:  OutputDir(targetRoot, label),
		},
	}

	if err := p.planStream(req.Stream); err != nil {
		return nil, err
	}
	for _, category := range bdrom.Categories {
		if category.Capped() {
			continue
		}
		if err := p.planDirectory(category); err != nil {
			return nil, err
		}
	}
	return p.job, nil
}

type planner struct {
	disc       Descriptor
	cap        int64
	sourceRoot string
	seen       map[string]struct{}
	job        *Job
}

// planStream prefers the interleaved companion of the selected stream and
// falls back to the plain stream file.
func (p *planner) planStream(id string) error {
	if id == "" {
		return nil
	}
	if ssif := p.disc.Directory(bdrom.CategorySSIF); ssif != nil {
		if companion, err := ssif.GetFile(CompanionName(id)); err == nil {
			return p.add(bdrom.CategorySSIF, companion)
		}
	}
	if p.disc.Directory(bdrom.CategoryStream) == nil {
		return nil
	}
	stream, ok := p.disc.StreamFile(id)
	if !ok || stream.File == nil {
		return nil
	}
	return p.add(bdrom.CategoryStream, stream.File)
}

func (p *planner) planDirectory(category bdrom.Category) error {
	dir := p.disc.Directory(category)
	if dir == nil {
		return nil
	}
	files, err := dir.GetFiles()
	if err != nil {
		return faults.Wrap(faults.ErrScan, "plan", "list "+category.String(), dir.FullName(), err)
	}
	for _, file := range files {
		if err := p.add(category, file); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) add(category bdrom.Category, file discfs.FileInfo) error {
	if _, ok := p.seen[file.FullName()]; ok {
		return nil
	}
	dest, err := DestinationPath(p.job.OutputDir, p.sourceRoot, file)
	if err != nil {
		return err
	}
	length := file.Length()
	entry := Entry{
		Category:    category,
		Source:      file,
		Destination: dest,
		Length:      length,
		Limit:       length,
	}
	if category.Capped() {
		entry.Capped = true
		entry.Limit = min(length, p.cap)
		entry.Truncated = entry.Limit < length
	}
	p.seen[file.FullName()] = struct{}{}
	p.job.Entries = append(p.job.Entries, entry)
	p.job.TotalBytes += entry.Limit
	return nil
}

// OutputDir returns the directory a disc labelled label is extracted into.
func OutputDir(targetRoot, label string) string {
	if label == "" {
		label = bdrom.DefaultLabel
	}
	return filepath.Join(targetRoot, label)
}

// CompanionName returns the interleaved file name for a stream identifier,
// keeping the case of the original extension ("00001.M2TS" -> "00001.SSIF").
func CompanionName(id string) string {
	ext := path.Ext(id)
	base := strings.TrimSuffix(id, ext)
	if ext != "" && ext == strings.ToUpper(ext) && ext != strings.ToLower(ext) {
		return base + strings.ToUpper(bdrom.SSIFExtension)
	}
	return base + bdrom.SSIFExtension
}

// DestinationPath maps a source file below outputDir. Image entries keep
// their image path; physical entries keep their path relative to sourceRoot.
// Paths that would leave outputDir are rejected.
func DestinationPath(outputDir, sourceRoot string, file discfs.FileInfo) (string, error) {
	var rel string
	if file.IsImage() {
		rel = filepath.FromSlash(strings.TrimPrefix(path.Clean("/"+file.FullName()), "/"))
	} else {
		r, err := filepath.Rel(sourceRoot, file.FullName())
		if err != nil {
			return "", faults.Wrap(faults.ErrValidation, "plan", "map destination", file.FullName(), err)
		}
		rel = r
	}
	dest := filepath.Join(outputDir, rel)
	if rel == "" || rel == "." || !strings.HasPrefix(dest, filepath.Clean(outputDir)+string(filepath.Separator)) {
		return "", faults.Wrap(faults.ErrValidation, "plan", "map destination", file.FullName()+" is outside the source root", nil)
	}
	return dest, nil
}
