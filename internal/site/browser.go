package site

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

// WriteDetached writes doc to a new temporary HTML file and returns its
// path. The file is the detached context: it is written once and never
// updated.
func WriteDetached(doc string) (string, error) {
	f, err := os.CreateTemp("", "livepad-preview-*.html")
	if err != nil {
		return "", fmt.Errorf("creating preview file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(doc); err != nil {
		return "", fmt.Errorf("writing preview file: %w", err)
	}
	return f.Name(), nil
}
