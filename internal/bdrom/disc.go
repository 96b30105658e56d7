package bdrom

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bdsample/internal/discfs"
	"bdsample/internal/faults"
	"bdsample/internal/logging"
)

// StreamFile is one entry of the stream catalog.
type StreamFile struct {
	Name string
	File discfs.FileInfo
	Size int64
}

// SkippedFile records a damaged file the scan policy chose to skip.
type SkippedFile struct {
	Category Category
	Name     string
	Err      error
}

// Options configures Open.
type Options struct {
	// Policy decides how damaged files are handled. Nil aborts on the first one.
	Policy ScanPolicy
	Logger *slog.Logger
}

// Disc is the scanned descriptor of one BDMV structure.
type Disc struct {
	fsys       discfs.FileSystem
	sourceRoot discfs.DirectoryInfo
	label      string
	dirs       [categoryCount]discfs.DirectoryInfo

	playlists []discfs.FileInfo
	clips     []discfs.FileInfo
	streams   map[string]StreamFile
	skipped   []SkippedFile
}

// Open locates the BDMV structure under path, binds its category directories
// and scans the catalogs. The caller must Close the returned disc.
func Open(ctx context.Context, path string, opts Options) (*Disc, error) {
	logger := logging.NewComponentLogger(opts.Logger, "bdrom")

	fsys, err := openBackend(path)
	if err != nil {
		marker := faults.ErrScan
		if errors.Is(err, fs.ErrNotExist) {
			marker = faults.ErrNotFound
		}
		return nil, faults.Wrap(marker, "open", "open source", path, err)
	}

	disc, err := bind(fsys, path)
	if err != nil {
		_ = fsys.Close()
		return nil, err
	}

	logger.Info("disc opened",
		logging.String("source", path),
		logging.String("label", disc.label),
		logging.Bool("image", fsys.IsImage()),
		logging.String("categories", strings.Join(disc.presentCategories(), ",")),
	)

	policy := opts.Policy
	if policy == nil {
		policy = AbortAll
	}
	if err := disc.scan(ctx, policy, logger); err != nil {
		_ = fsys.Close()
		return nil, err
	}
	return disc, nil
}

// A directory named BDMV is opened at its parent so the disc root stays
// navigable.
func openBackend(path string) (discfs.FileSystem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() && strings.EqualFold(filepath.Base(filepath.Clean(path)), "BDMV") {
		return discfs.Open(filepath.Dir(filepath.Clean(path)))
	}
	return discfs.Open(path)
}

func bind(fsys discfs.FileSystem, source string) (*Disc, error) {
	bdmv, err := locateBDMV(fsys.Root())
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "open", "locate BDMV", source, err)
	}
	if bdmv == nil {
		return nil, faults.Wrap(faults.ErrNotFound, "open", "locate BDMV", source+": no BDMV directory", nil)
	}

	sourceRoot := bdmv.Parent()
	if sourceRoot == nil {
		sourceRoot = fsys.Root()
	}

	disc := &Disc{
		fsys:       fsys,
		sourceRoot: sourceRoot,
		streams:    make(map[string]StreamFile),
	}

	if fsys.IsImage() {
		base := filepath.Base(source)
		disc.label = chooseLabel(fsys.VolumeLabel(), strings.TrimSuffix(base, filepath.Ext(base)))
	} else {
		disc.label = chooseLabel(sourceRoot.Name())
	}

	disc.dirs[CategoryBDMV] = bdmv
	disc.dirs[CategoryClipInfo] = childDirectory(bdmv, "CLIPINF")
	disc.dirs[CategoryPlaylist] = childDirectory(bdmv, "PLAYLIST")
	disc.dirs[CategoryStream] = childDirectory(bdmv, "STREAM")
	if stream := disc.dirs[CategoryStream]; stream != nil {
		disc.dirs[CategorySSIF] = childDirectory(stream, "SSIF")
	}
	disc.dirs[CategoryBDJO] = childDirectory(bdmv, "BDJO")
	disc.dirs[CategoryMeta] = childDirectory(bdmv, "META")
	return disc, nil
}

func locateBDMV(root discfs.DirectoryInfo) (discfs.DirectoryInfo, error) {
	if dir := childDirectory(root, "BDMV"); dir != nil {
		return dir, nil
	}
	dirs, err := root.GetDirectoriesRecursive()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if strings.EqualFold(dir.Name(), "BDMV") {
			return dir, nil
		}
	}
	return nil, nil
}

// childDirectory finds an immediate subdirectory ignoring case and returns
// nil when it is absent.
func childDirectory(dir discfs.DirectoryInfo, name string) discfs.DirectoryInfo {
	subdirs, err := dir.GetDirectories()
	if err != nil {
		return nil
	}
	for _, sub := range subdirs {
		if strings.EqualFold(sub.Name(), name) {
			return sub
		}
	}
	return nil
}

func (d *Disc) presentCategories() []string {
	var names []string
	for _, category := range Categories {
		if d.dirs[category] != nil {
			names = append(names, category.String())
		}
	}
	return names
}

// Close releases the backing filesystem.
func (d *Disc) Close() error {
	if d == nil || d.fsys == nil {
		return nil
	}
	return d.fsys.Close()
}

// VolumeLabel returns the sanitized label used as the destination folder name.
func (d *Disc) VolumeLabel() string { return d.label }

// IsImage reports whether the disc is served from an ISO image.
func (d *Disc) IsImage() bool { return d.fsys.IsImage() }

// SourceRoot returns the full name of the directory that contains BDMV.
func (d *Disc) SourceRoot() string { return d.sourceRoot.FullName() }

// Directory returns the category directory, or nil when the disc lacks it.
func (d *Disc) Directory(category Category) discfs.DirectoryInfo {
	if category < 0 || category >= categoryCount {
		return nil
	}
	return d.dirs[category]
}

// StreamFile returns the catalog entry for a stream identifier.
func (d *Disc) StreamFile(id string) (StreamFile, bool) {
	stream, ok := d.streams[id]
	return stream, ok
}

// Streams returns the stream catalog sorted by name.
func (d *Disc) Streams() []StreamFile {
	out := make([]StreamFile, 0, len(d.streams))
	for _, stream := range d.streams {
		out = append(out, stream)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Playlists returns the playlist files that passed the scan.
func (d *Disc) Playlists() []discfs.FileInfo { return d.playlists }

// ClipInfos returns the clip-info files that passed the scan.
func (d *Disc) ClipInfos() []discfs.FileInfo { return d.clips }

// Skipped returns the damaged files the scan policy skipped.
func (d *Disc) Skipped() []SkippedFile { return d.skipped }

// ResolveStream finds a stream by exact identifier, then by name ignoring
// case, then by base name without extension ("00001").
func (d *Disc) ResolveStream(query string) (StreamFile, bool) {
	query = strings.TrimSpace(query)
	if stream, ok := d.streams[query]; ok {
		return stream, true
	}
	for _, stream := range d.Streams() {
		if strings.EqualFold(stream.Name, query) {
			return stream, true
		}
	}
	for _, stream := range d.Streams() {
		base := strings.TrimSuffix(stream.Name, filepath.Ext(stream.Name))
		if strings.EqualFold(base, query) {
			return stream, true
		}
	}
	return StreamFile{}, false
}

// LargestStream returns the biggest catalogued stream. Ties resolve to the
// lowest name.
func (d *Disc) LargestStream() (StreamFile, bool) {
	var best StreamFile
	found := false
	for _, stream := range d.Streams() {
		if !found || stream.Size > best.Size {
			best = stream
			found = true
		}
	}
	return best, found
}
