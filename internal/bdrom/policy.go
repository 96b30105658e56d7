package bdrom

import (
	"strings"

	"bdsample/internal/config"
	"bdsample/internal/discfs"
)

// ScanPolicy decides what happens when the catalog scan hits a damaged file.
// Each method returns true to skip the file and keep scanning, or false to
// abort the scan.
type ScanPolicy interface {
	PlaylistError(file discfs.FileInfo, err error) bool
	StreamFileError(file discfs.FileInfo, err error) bool
	StreamClipError(file discfs.FileInfo, err error) bool
}

type constantPolicy bool

func (p constantPolicy) PlaylistError(discfs.FileInfo, error) bool   { return bool(p) }
func (p constantPolicy) StreamFileError(discfs.FileInfo, error) bool { return bool(p) }
func (p constantPolicy) StreamClipError(discfs.FileInfo, error) bool { return bool(p) }

var (
	// SkipAll skips every damaged file.
	SkipAll ScanPolicy = constantPolicy(true)
	// AbortAll aborts on the first damaged file.
	AbortAll ScanPolicy = constantPolicy(false)
)

// PolicyFuncs adapts plain functions to ScanPolicy. A nil function aborts.
type PolicyFuncs struct {
	Playlist   func(file discfs.FileInfo, err error) bool
	StreamFile func(file discfs.FileInfo, err error) bool
	StreamClip func(file discfs.FileInfo, err error) bool
}

func (p PolicyFuncs) PlaylistError(file discfs.FileInfo, err error) bool {
	return p.Playlist != nil && p.Playlist(file, err)
}

func (p PolicyFuncs) StreamFileError(file discfs.FileInfo, err error) bool {
	return p.StreamFile != nil && p.StreamFile(file, err)
}

func (p PolicyFuncs) StreamClipError(file discfs.FileInfo, err error) bool {
	return p.StreamClip != nil && p.StreamClip(file, err)
}

// PolicyByName maps the non-interactive config values to a policy. Unknown
// names, including "prompt", return false.
func PolicyByName(name string) (ScanPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.ScanOnErrorSkip:
		return SkipAll, true
	case config.ScanOnErrorAbort:
		return AbortAll, true
	default:
		return nil, false
	}
}
