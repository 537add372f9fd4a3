package importer

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never searched or watched.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".livepad",
	"dist",
	"build",
	".next",
	".idea",
	".vscode",
}

// DefaultMaxFileSize is the largest file applied as a fragment (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// shouldExcludeDir checks whether a directory name matches any default
// exclusion. Used during traversal to skip entire subtrees.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// matchesPattern reports whether relPath matches pattern. A pattern
// without a slash also matches against the base name.
func matchesPattern(relPath, pattern string) bool {
	normalized := filepath.ToSlash(relPath)
	pattern = filepath.ToSlash(pattern)

	if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if matched, err := doublestar.Match(pattern, filepath.Base(normalized)); err == nil && matched {
			return true
		}
	}
	return false
}

// isBinary reads the first 512 bytes of a file and checks for NUL bytes.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}
