// Package importer loads fragments from files on disk, once or
// continuously while the files change.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/livepad/internal/fragment"
)

// Editor receives fragment edits. *session.Session satisfies it.
type Editor interface {
	OnEdit(ctx context.Context, f fragment.Fragment, text string) error
}

// Patterns selects the file each fragment is read from.
type Patterns struct {
	Markup string
	Style  string
	Script string
}

// DefaultPatterns matches any .html, .css and .js file.
func DefaultPatterns() Patterns {
	return Patterns{Markup: "**/*.html", Style: "**/*.css", Script: "**/*.js"}
}

// For returns the pattern of fragment f.
func (p Patterns) For(f fragment.Fragment) string {
	switch f {
	case fragment.Markup:
		return p.Markup
	case fragment.Style:
		return p.Style
	case fragment.Script:
		return p.Script
	}
	return ""
}

// Validate checks every pattern is well formed.
func (p Patterns) Validate() error {
	for _, f := range fragment.All {
		pattern := p.For(f)
		if pattern == "" {
			return fmt.Errorf("%s pattern is empty", f)
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("%s pattern %q is invalid", f, pattern)
		}
	}
	return nil
}

// Match returns the fragment whose pattern matches relPath, checking
// markup, style and script in that order.
func (p Patterns) Match(relPath string) (fragment.Fragment, bool) {
	for _, f := range fragment.All {
		if matchesPattern(relPath, p.For(f)) {
			return f, true
		}
	}
	return 0, false
}

// File is a file selected for a fragment.
type File struct {
	Fragment fragment.Fragment
	Path     string // Absolute path on disk.
	RelPath  string // Slash-separated path relative to the root.
}

// Find walks root in lexical order and returns the first file matching
// each fragment's pattern. Fragments with no match are absent.
func Find(root string, p Patterns) ([]File, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("importer: resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("importer: %s is not a directory", root)
	}

	found := make(map[fragment.Fragment]File)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		f, ok := p.Match(relPath)
		if !ok {
			return nil
		}
		if _, taken := found[f]; taken {
			return nil
		}
		if !eligible(path, d) {
			return nil
		}
		found[f] = File{Fragment: f, Path: path, RelPath: filepath.ToSlash(relPath)}
		if len(found) == len(fragment.All) {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importer: traversal: %w", err)
	}

	files := make([]File, 0, len(found))
	for _, f := range fragment.All {
		if file, ok := found[f]; ok {
			files = append(files, file)
		}
	}
	return files, nil
}

// Load finds the files for root and applies each as an edit.
func Load(ctx context.Context, root string, p Patterns, editor Editor) ([]File, error) {
	files, err := Find(root, p)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if err := apply(ctx, editor, file); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func apply(ctx context.Context, editor Editor, file File) error {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file.RelPath, err)
	}
	if err := editor.OnEdit(ctx, file.Fragment, string(data)); err != nil {
		return fmt.Errorf("applying %s: %w", file.RelPath, err)
	}
	return nil
}

// eligible skips oversized and binary files.
func eligible(path string, d fs.DirEntry) bool {
	info, err := d.Info()
	if err != nil || info.Size() > DefaultMaxFileSize {
		return false
	}
	return !isBinary(path)
}
