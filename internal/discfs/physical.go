package discfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	errNotDirectory = errors.New("not a directory")
	errIsDirectory  = errors.New("is a directory")
)

// Physical serves a disc structure stored in an ordinary directory tree.
type Physical struct {
	root string
}

// NewPhysical opens the directory at root.
func NewPhysical(root string) (*Physical, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: errNotDirectory}
	}
	return &Physical{root: filepath.Clean(abs)}, nil
}

// Root returns the directory the filesystem was opened at.
func (p *Physical) Root() DirectoryInfo {
	return &physicalDir{fsys: p, path: p.root}
}

// GetDirectoryInfo resolves path (absolute, or relative to the root).
func (p *Physical) GetDirectoryInfo(path string) (DirectoryInfo, error) {
	full, err := p.resolve(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: full, Err: errNotDirectory}
	}
	return &physicalDir{fsys: p, path: full}, nil
}

// GetFileInfo resolves path (absolute, or relative to the root).
func (p *Physical) GetFileInfo(path string) (FileInfo, error) {
	full, err := p.resolve(path)
	if err != nil {
		return nil, err
	}
	return statFile(full)
}

// TreeEntry is one entry found by Tree.
type TreeEntry struct {
	Path string
	Dir  bool
}

// Tree lists every entry below the root in walk order without following
// symbolic links; a link is reported as a non-directory entry. Subtrees that
// cannot be read are skipped and their errors returned alongside the entries
// that were found.
func (p *Physical) Tree() ([]TreeEntry, []error) {
	var entries []TreeEntry
	var errs []error
	_ = filepath.WalkDir(p.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			if path == p.root {
				return err
			}
			return nil
		}
		if path == p.root {
			return nil
		}
		entries = append(entries, TreeEntry{Path: path, Dir: entry.IsDir()})
		return nil
	})
	return entries, errs
}

func (p *Physical) IsImage() bool { return false }

func (p *Physical) VolumeLabel() string { return filepath.Base(p.root) }

func (p *Physical) Close() error { return nil }

func (p *Physical) resolve(path string) (string, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(p.root, path)
	}
	full = filepath.Clean(full)
	if full != p.root && !strings.HasPrefix(full, p.root+string(filepath.Separator)) {
		return "", &fs.PathError{Op: "open", Path: full, Err: fs.ErrNotExist}
	}
	return full, nil
}

type physicalDir struct {
	fsys *Physical
	path string
}

func (d *physicalDir) Name() string     { return filepath.Base(d.path) }
func (d *physicalDir) FullName() string { return d.path }
func (d *physicalDir) IsImage() bool    { return false }

func (d *physicalDir) Parent() DirectoryInfo {
	if d.path == d.fsys.root {
		return nil
	}
	return &physicalDir{fsys: d.fsys, path: filepath.Dir(d.path)}
}

func (d *physicalDir) GetFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		f, err := statFile(filepath.Join(d.path, entry.Name()))
		if err != nil {
			// Dangling links and links to directories are not files.
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

func (d *physicalDir) GetFilesPattern(pattern string) ([]FileInfo, error) {
	files, err := d.GetFiles()
	if err != nil {
		return nil, err
	}
	return filterFiles(files, pattern)
}

func (d *physicalDir) GetFilesRecursive(pattern string) ([]FileInfo, error) {
	if _, err := matchName(pattern, ""); err != nil {
		return nil, err
	}
	var files []FileInfo
	err := filepath.WalkDir(d.path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return skipUnreadable(d.path, path, err)
		}
		if entry.IsDir() {
			return nil
		}
		if ok, _ := matchName(pattern, entry.Name()); !ok {
			return nil
		}
		if f, err := statFile(path); err == nil {
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (d *physicalDir) GetDirectories() ([]DirectoryInfo, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	dirs := make([]DirectoryInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirs = append(dirs, &physicalDir{fsys: d.fsys, path: filepath.Join(d.path, entry.Name())})
	}
	return dirs, nil
}

func (d *physicalDir) GetDirectoriesRecursive() ([]DirectoryInfo, error) {
	var dirs []DirectoryInfo
	err := filepath.WalkDir(d.path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return skipUnreadable(d.path, path, err)
		}
		if entry.IsDir() && path != d.path {
			dirs = append(dirs, &physicalDir{fsys: d.fsys, path: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// skipUnreadable lets a walk continue past a subtree it cannot read. Only a
// failure on the walk root itself is returned.
func skipUnreadable(root, path string, err error) error {
	if path == root {
		return err
	}
	return nil
}

func (d *physicalDir) GetDirectory(name string) (DirectoryInfo, error) {
	full := filepath.Join(d.path, name)
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: full, Err: errNotDirectory}
	}
	return &physicalDir{fsys: d.fsys, path: full}, nil
}

func (d *physicalDir) GetFile(name string) (FileInfo, error) {
	return statFile(filepath.Join(d.path, name))
}

type physicalFile struct {
	path string
	info os.FileInfo
}

func statFile(path string) (*physicalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: path, Err: errIsDirectory}
	}
	return &physicalFile{path: path, info: info}, nil
}

func (f *physicalFile) Name() string       { return filepath.Base(f.path) }
func (f *physicalFile) FullName() string   { return f.path }
func (f *physicalFile) Length() int64      { return f.info.Size() }
func (f *physicalFile) Extension() string  { return filepath.Ext(f.path) }
func (f *physicalFile) IsDirectory() bool  { return false }
func (f *physicalFile) IsImage() bool      { return false }
func (f *physicalFile) ModTime() time.Time { return f.info.ModTime() }

func (f *physicalFile) OpenRead() (io.ReadCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (f *physicalFile) OpenText() (*TextReader, error) {
	return openText(f)
}
