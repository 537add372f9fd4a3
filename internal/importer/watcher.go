package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	// DefaultSettle is how long a file must stay quiet before it is applied.
	// Editors often write a file in several steps.
	DefaultSettle = 100 * time.Millisecond

	tickInterval = 25 * time.Millisecond
)

type pendingChange struct {
	file File
	last time.Time
}

// Watcher applies changed files under a directory as edits.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	root     string
	patterns Patterns
	editor   Editor
	log      *zap.Logger
	settle   time.Duration

	pending map[string]pendingChange
	applied int
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for root. Call Start to begin watching.
func NewWatcher(root string, p Patterns, editor Editor, logger *zap.Logger) (*Watcher, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("importer: resolve root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		fsw:      fsw,
		root:     abs,
		patterns: p,
		editor:   editor,
		log:      logger,
		settle:   DefaultSettle,
		pending:  make(map[string]pendingChange),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetSettle changes the quiet period. Must be called before Start.
func (w *Watcher) SetSettle(d time.Duration) { w.settle = d }

// Start watches root and every non-excluded subdirectory. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching directory", zap.String("root", w.root))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.fsw.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.log.Warn("closing file watcher", zap.Error(err))
	}
}

// Done is closed when the watch loop exits.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

// Applied returns how many file changes have been applied.
func (w *Watcher) Applied() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return fmt.Errorf("watching %s: %w", path, walkErr)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && shouldExcludeDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		case now := <-ticker.C:
			w.processSettled(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) && !shouldExcludeDir(info.Name()) {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
			}
		}
		return
	}

	relPath, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	f, ok := w.patterns.Match(relPath)
	if !ok {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = pendingChange{
		file: File{Fragment: f, Path: event.Name, RelPath: filepath.ToSlash(relPath)},
		last: time.Now(),
	}
	w.mu.Unlock()
}

// processSettled applies every pending file that has been quiet for the
// settle period. Runs on the watch loop, so edits are applied in order.
func (w *Watcher) processSettled(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var ready []File
	for path, change := range w.pending {
		if now.Sub(change.last) >= w.settle {
			ready = append(ready, change.file)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, file := range ready {
		info, err := os.Stat(file.Path)
		if err != nil || info.Size() > DefaultMaxFileSize || isBinary(file.Path) {
			continue
		}
		if err := apply(ctx, w.editor, file); err != nil {
			w.log.Warn("applying file change", zap.String("file", file.RelPath), zap.Error(err))
			continue
		}
		w.mu.Lock()
		w.applied++
		w.mu.Unlock()
		w.log.Info("applied file change",
			zap.String("file", file.RelPath),
			zap.String("fragment", file.Fragment.String()))
	}
}
