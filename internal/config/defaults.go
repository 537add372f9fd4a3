package config

import (
	"path/filepath"
	"time"
)

// DefaultDataDir is where the SQLite database lives unless configured.
const DefaultDataDir = ".livepad"

// DefaultImport matches the first file of each kind anywhere under a directory.
var DefaultImport = Import{
	Markup: "**/*.html",
	Style:  "**/*.css",
	Script: "**/*.js",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:             8080,
		DataDir:          DefaultDataDir,
		DebounceMS:       300,
		NoticeMS:         2000,
		DetachedNoticeMS: 3000,
		ExportName:       "code.zip",
		AllowAllOrigins:  false,
		OpenBrowser:      true,
		LogLevel:         LogInfo,
		Import:           DefaultImport,
	}
}

// DatabasePath returns the SQLite file location inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "livepad.db")
}

// Debounce returns the recomposition debounce interval. Zero disables it.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// NoticeTTL returns how long a regular notice stays visible.
func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeMS) * time.Millisecond
}

// DetachedNoticeTTL returns how long the detached-preview error stays visible.
func (c *Config) DetachedNoticeTTL() time.Duration {
	return time.Duration(c.DetachedNoticeMS) * time.Millisecond
}
