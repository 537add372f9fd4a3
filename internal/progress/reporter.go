// Package progress reports export progress while fragment files are added
// to an archive.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Reporter is told which files an archive will hold and is then called once
// per file as it is written.
type Reporter interface {
	Start(files []string)
	Added(name string, size int)
	Finish()
}

// NewReporter returns an ArchiveLog when the CI environment variable is set
// and an ArchiveBar otherwise. archive names the zip being written.
func NewReporter(archive string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &ArchiveLog{Out: os.Stderr, Archive: archive}
	}
	return &ArchiveBar{Archive: archive}
}

// ArchiveBar draws a per-file progress bar on stderr.
type ArchiveBar struct {
	Archive string
	bar     *progressbar.ProgressBar
}

func (r *ArchiveBar) Start(files []string) {
	r.bar = progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Packaging "+r.Archive),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *ArchiveBar) Added(name string, _ int) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(fmt.Sprintf("%s <- %s", r.Archive, name))
	_ = r.bar.Add(1)
}

func (r *ArchiveBar) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// ArchiveLog writes one line per archived file, for logs without a terminal.
type ArchiveLog struct {
	Out     io.Writer
	Archive string

	files []string
	added int
	bytes int
}

func (r *ArchiveLog) Start(files []string) {
	r.files = files
	fmt.Fprintf(r.Out, "packaging %s: %s\n", r.Archive, strings.Join(files, ", "))
}

func (r *ArchiveLog) Added(name string, size int) {
	r.added++
	r.bytes += size
	fmt.Fprintf(r.Out, "  [%d/%d] %s (%d bytes)\n", r.added, len(r.files), name, size)
}

func (r *ArchiveLog) Finish() {
	fmt.Fprintf(r.Out, "packaged %s: %d files, %d bytes of source\n", r.Archive, r.added, r.bytes)
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start([]string)    {}
func (Nop) Added(string, int) {}
func (Nop) Finish()           {}
