package discfs

// collectFiles emulates recursive listing through explicit subdirectory
// traversal for backends without a native walk.
func collectFiles(dir DirectoryInfo, pattern string) ([]FileInfo, error) {
	files, err := dir.GetFilesPattern(pattern)
	if err != nil {
		return nil, err
	}
	subdirs, err := dir.GetDirectories()
	if err != nil {
		return nil, err
	}
	for _, sub := range subdirs {
		nested, err := collectFiles(sub, pattern)
		if err != nil {
			return nil, err
		}
		files = append(files, nested...)
	}
	return files, nil
}

func collectDirectories(dir DirectoryInfo) ([]DirectoryInfo, error) {
	subdirs, err := dir.GetDirectories()
	if err != nil {
		return nil, err
	}
	var out []DirectoryInfo
	for _, sub := range subdirs {
		out = append(out, sub)
		nested, err := collectDirectories(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}
