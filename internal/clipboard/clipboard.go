// Package clipboard writes fragment text to the system clipboard of the
// machine running livepad.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
// (for example xclip/xsel missing on a headless Linux host).
var ErrUnsupported = errors.New("clipboard unsupported on this system")

// Clipboard accepts text to copy.
type Clipboard interface {
	WriteAll(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteAll implements Clipboard.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// ReadAll returns the current clipboard contents.
func (System) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

// Memory is an in-process clipboard, used when the system one is not
// wanted (tests, the MCP server).
type Memory struct {
	mu   sync.Mutex
	text string
	Err  error
}

// WriteAll implements Clipboard.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	return nil
}

// ReadAll returns the last text written.
func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}
