package torrent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileEntry describes one content file in traversal order. Order is
// significant: it determines piece boundaries and the file list in the
// output. The md5sum slot is filled in by the hasher when requested.
type fileEntry struct {
	path   string
	length int64
	md5sum string
}

// isHiddenFile reports whether the file name starts with a dot.
func isHiddenFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// matchesAny reports whether the root-relative path or its base name
// matches one of the exclude glob patterns.
func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, filepath.ToSlash(relPath)); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, filepath.Base(relPath)); err == nil && ok {
			return true
		}
	}
	return false
}

// collectFiles enumerates the content files under path in walk order.
// Hidden files, zero-length files and files matching an exclude pattern
// are skipped. A path that denotes a single regular file yields a
// one-entry list and the single-file flag.
func collectFiles(path string, exclude []string) (files []*fileEntry, totalSize int64, single bool, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, false, ErrInvalidInput
		}
		return nil, 0, false, fmt.Errorf("error checking path %q: %w", path, err)
	}

	if !fi.IsDir() {
		return []*fileEntry{{path: path, length: fi.Size()}}, fi.Size(), true, nil
	}

	err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		relPath, err := filepath.Rel(path, filePath)
		if err != nil {
			return err
		}
		if isHiddenFile(filePath) || info.Size() == 0 || matchesAny(exclude, relPath) {
			return nil
		}
		files = append(files, &fileEntry{path: filePath, length: info.Size()})
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, false, fmt.Errorf("error walking path: %w", err)
	}
	return files, totalSize, false, nil
}
