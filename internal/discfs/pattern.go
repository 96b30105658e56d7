package discfs

import (
	"path"
	"strings"
)

// matchName reports whether name matches pattern ignoring case. An empty
// pattern and "*" match every name.
func matchName(pattern, name string) (bool, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || pattern == "*" || pattern == "*.*" {
		return true, nil
	}
	return path.Match(strings.ToUpper(pattern), strings.ToUpper(name))
}

func filterFiles(files []FileInfo, pattern string) ([]FileInfo, error) {
	if _, err := matchName(pattern, ""); err != nil {
		return nil, err
	}
	out := make([]FileInfo, 0, len(files))
	for _, f := range files {
		ok, _ := matchName(pattern, f.Name())
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}
