// Package export packages the fragments as a downloadable zip archive.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"github.com/ziadkadry99/livepad/internal/fragment"
	"github.com/ziadkadry99/livepad/internal/progress"
)

// DefaultName is the archive name offered for download.
const DefaultName = "code.zip"

// Files returns the fragments that will be written, skipping empty ones,
// in index.html, styles.css, script.js order.
func Files(src fragment.Sources) []fragment.Fragment {
	var files []fragment.Fragment
	for _, f := range fragment.All {
		if src.Get(f) != "" {
			files = append(files, f)
		}
	}
	return files
}

// Write writes a zip archive of the non-empty fragments to w and returns
// the file names it contains. It refuses to write an archive when every
// fragment is blank. reporter may be nil.
func Write(w io.Writer, src fragment.Sources, reporter progress.Reporter) ([]string, error) {
	if src.Blank() {
		return nil, fragment.ErrEmptyInput
	}
	if reporter == nil {
		reporter = progress.Nop{}
	}

	files := Files(src)
	planned := make([]string, len(files))
	for i, f := range files {
		planned[i] = f.FileName()
	}
	reporter.Start(planned)
	defer reporter.Finish()

	zw := zip.NewWriter(w)
	modified := time.Now()
	names := make([]string, 0, len(files))
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.FileName(),
			Method:   zip.Deflate,
			Modified: modified,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", f.FileName(), err)
		}
		n, err := io.WriteString(fw, src.Get(f))
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.FileName(), err)
		}
		names = append(names, f.FileName())
		reporter.Added(f.FileName(), n)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finishing archive: %w", err)
	}
	return names, nil
}
