package bdrom

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"bdsample/internal/discfs"
	"bdsample/internal/faults"
	"bdsample/internal/logging"
)

var (
	playlistMagic = []byte("MPLS")
	clipInfoMagic = []byte("HDMV")

	errEmptyStream = errors.New("stream file is empty")
)

type scanTarget struct {
	category Category
	pattern  string
	probe    func(discfs.FileInfo) error
	decide   func(ScanPolicy, discfs.FileInfo, error) bool
	accept   func(*Disc, discfs.FileInfo)
}

var scanTargets = []scanTarget{
	{
		category: CategoryPlaylist,
		pattern:  "*.mpls",
		probe:    func(f discfs.FileInfo) error { return probeMagic(f, playlistMagic) },
		decide:   ScanPolicy.PlaylistError,
		accept:   func(d *Disc, f discfs.FileInfo) { d.playlists = append(d.playlists, f) },
	},
	{
		category: CategoryStream,
		pattern:  "*" + StreamExtension,
		probe:    probeStream,
		decide:   ScanPolicy.StreamFileError,
		accept: func(d *Disc, f discfs.FileInfo) {
			d.streams[f.Name()] = StreamFile{Name: f.Name(), File: f, Size: f.Length()}
		},
	},
	{
		category: CategoryClipInfo,
		pattern:  "*.clpi",
		probe:    func(f discfs.FileInfo) error { return probeMagic(f, clipInfoMagic) },
		decide:   ScanPolicy.StreamClipError,
		accept:   func(d *Disc, f discfs.FileInfo) { d.clips = append(d.clips, f) },
	},
}

// scan fills the catalogs. Categories whose files were all skipped stay
// present but empty.
func (d *Disc) scan(ctx context.Context, policy ScanPolicy, logger *slog.Logger) error {
	for _, target := range scanTargets {
		dir := d.dirs[target.category]
		if dir == nil {
			continue
		}
		files, err := dir.GetFilesPattern(target.pattern)
		if err != nil {
			return faults.Wrap(faults.ErrScan, "scan", "list "+target.category.String(), dir.FullName(), err)
		}
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return faults.Wrap(faults.ErrCancelled, "scan", "scan "+target.category.String(), file.FullName(), err)
			}
			probeErr := target.probe(file)
			if probeErr == nil {
				target.accept(d, file)
				continue
			}
			if !target.decide(policy, file, probeErr) {
				return faults.Wrap(faults.ErrScan, "scan", "read "+target.category.String(), file.FullName(), probeErr)
			}
			d.skipped = append(d.skipped, SkippedFile{Category: target.category, Name: file.Name(), Err: probeErr})
			logging.WarnWithContext(logger, "damaged file skipped", "scan_file_skipped",
				logging.String("category", target.category.String()),
				logging.String("file", file.FullName()),
				logging.Error(probeErr),
				logging.String(logging.FieldErrorHint, "the disc or image may be damaged"),
				logging.String(logging.FieldImpact, "file excluded from the catalog"),
			)
		}
	}

	logger.Debug("catalog scanned",
		logging.Int("playlists", len(d.playlists)),
		logging.Int("clip_infos", len(d.clips)),
		logging.Int("streams", len(d.streams)),
		logging.Int("skipped", len(d.skipped)),
	)
	return nil
}

func probeMagic(file discfs.FileInfo, magic []byte) error {
	header, err := readHeader(file, len(magic))
	if err != nil {
		return err
	}
	if !bytes.Equal(header, magic) {
		return fmt.Errorf("unexpected header %q, want %q", header, magic)
	}
	return nil
}

func probeStream(file discfs.FileInfo) error {
	if file.Length() <= 0 {
		return errEmptyStream
	}
	_, err := readHeader(file, 1)
	return err
}

func readHeader(file discfs.FileInfo, n int) ([]byte, error) {
	rc, err := file.OpenRead()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf := make([]byte, n)
	if _, err := io.ReadFull(rc, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	return buf, nil
}
