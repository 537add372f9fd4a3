// Package session coordinates the editors of one playground: it keeps the
// fragments and preferences in sync with the store, recomposes the preview
// after every edit and reports action outcomes as notices.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/livepad/internal/clipboard"
	"github.com/ziadkadry99/livepad/internal/compose"
	"github.com/ziadkadry99/livepad/internal/debounce"
	"github.com/ziadkadry99/livepad/internal/export"
	"github.com/ziadkadry99/livepad/internal/fragment"
	"github.com/ziadkadry99/livepad/internal/notice"
	"github.com/ziadkadry99/livepad/internal/progress"
	"github.com/ziadkadry99/livepad/internal/store"
)

// ErrNotLoaded is returned by operations invoked before Load.
var ErrNotLoaded = errors.New("session not loaded")

// RenderTarget displays a composed document in isolation from the host view.
type RenderTarget interface {
	Render(doc string)
}

// ViewEffects applies preference changes to the presentation layer.
type ViewEffects interface {
	ApplyTheme(t fragment.Theme)
	ApplyLayout(m fragment.LayoutMode)
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Debounce          time.Duration
	NoticeTTL         time.Duration
	DetachedNoticeTTL time.Duration
	Target            RenderTarget
	View              ViewEffects
	Notifier          notice.Notifier
	Clipboard         clipboard.Clipboard
	Logger            *zap.Logger
}

// Session owns the three fragments and the preferences of one playground.
// All operations are serialised; callbacks never interleave.
type Session struct {
	mu    sync.Mutex
	store *store.Store

	target    RenderTarget
	view      ViewEffects
	notifier  notice.Notifier
	clipboard clipboard.Clipboard
	debouncer *debounce.Debouncer
	log       *zap.Logger

	noticeTTL         time.Duration
	detachedNoticeTTL time.Duration

	sources fragment.Sources
	prefs   fragment.Preferences
	loaded  bool
	renders int
	lastDoc string

	copies sync.WaitGroup
}

// New creates a session backed by st. Call Load before anything else.
func New(st *store.Store, opts Options) *Session {
	s := &Session{
		store:             st,
		target:            opts.Target,
		view:              opts.View,
		notifier:          opts.Notifier,
		clipboard:         opts.Clipboard,
		debouncer:         debounce.New(opts.Debounce),
		log:               opts.Logger,
		noticeTTL:         opts.NoticeTTL,
		detachedNoticeTTL: opts.DetachedNoticeTTL,
		prefs:             fragment.DefaultPreferences(),
	}
	if s.target == nil {
		s.target = discardTarget{}
	}
	if s.view == nil {
		s.view = discardView{}
	}
	if s.notifier == nil {
		s.notifier = notice.Discard{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.noticeTTL <= 0 {
		s.noticeTTL = notice.DefaultTTL
	}
	if s.detachedNoticeTTL <= 0 {
		s.detachedNoticeTTL = s.noticeTTL
	}
	return s
}

// Load restores fragments and preferences from the store, applies the
// preferences to the view and renders the preview once.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.store.LoadSources(ctx)
	if err != nil {
		return fmt.Errorf("loading fragments: %w", err)
	}
	prefs, err := s.store.LoadPreferences(ctx)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	s.sources = src
	s.prefs = prefs
	s.loaded = true

	s.view.ApplyTheme(prefs.Theme)
	s.view.ApplyLayout(prefs.Layout)
	s.renderNowLocked()

	s.log.Debug("session loaded",
		zap.Int("html_bytes", len(src.Markup)),
		zap.Int("css_bytes", len(src.Style)),
		zap.Int("js_bytes", len(src.Script)),
		zap.String("theme", string(prefs.Theme)),
		zap.String("layout", string(prefs.Layout)))
	return nil
}

// OnEdit replaces the text of one fragment, persists it and recomposes the
// preview from the post-edit values of all three fragments.
func (s *Session) OnEdit(ctx context.Context, f fragment.Fragment, text string) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", fragment.ErrUnknownFragment, int(f))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.store.SaveFragment(ctx, f, text); err != nil {
		return fmt.Errorf("saving %s: %w", f, err)
	}
	s.sources.Set(f, text)
	s.scheduleRenderLocked()
	return nil
}

// OnPreferenceChange validates, persists and applies a view preference.
// The preview is not recomposed.
func (s *Session) OnPreferenceChange(ctx context.Context, name, value string) error {
	pref, err := fragment.ParsePreference(name)
	if err != nil {
		return err
	}
	switch pref {
	case fragment.PrefTheme:
		t, err := fragment.ParseTheme(value)
		if err != nil {
			return err
		}
		return s.SetTheme(ctx, t)
	default:
		m, err := fragment.ParseLayout(value)
		if err != nil {
			return err
		}
		return s.SetLayout(ctx, m)
	}
}

// SetTheme persists and applies a theme.
func (s *Session) SetTheme(ctx context.Context, t fragment.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	return s.setThemeLocked(ctx, t)
}

func (s *Session) setThemeLocked(ctx context.Context, t fragment.Theme) error {
	if err := s.store.SaveTheme(ctx, t); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	s.prefs.Theme = t
	s.view.ApplyTheme(t)
	return nil
}

// SetLayout persists and applies a layout mode.
func (s *Session) SetLayout(ctx context.Context, m fragment.LayoutMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.store.SaveLayout(ctx, m); err != nil {
		return fmt.Errorf("saving layout: %w", err)
	}
	s.prefs.Layout = m
	s.view.ApplyLayout(m)
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Session) ToggleTheme(ctx context.Context) (fragment.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return "", ErrNotLoaded
	}
	next := s.prefs.Theme.Toggle()
	if err := s.setThemeLocked(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// ClearAll empties every fragment, erases every stored key, restores the
// default preferences and renders the empty document.
func (s *Session) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	s.sources = fragment.Sources{}
	s.prefs = fragment.DefaultPreferences()
	s.view.ApplyTheme(s.prefs.Theme)
	s.view.ApplyLayout(s.prefs.Layout)
	s.renderNowLocked()

	s.log.Info("session cleared")
	return nil
}

// DeleteFragment empties one fragment. A fragment that is already blank is
// refused with ErrEmptyInput.
func (s *Session) DeleteFragment(ctx context.Context, f fragment.Fragment) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", fragment.ErrUnknownFragment, int(f))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if fragment.IsBlank(s.sources.Get(f)) {
		s.notify(notice.MsgDeleteEmpty, true, s.noticeTTL)
		return fragment.ErrEmptyInput
	}
	if err := s.store.SaveFragment(ctx, f, ""); err != nil {
		return fmt.Errorf("saving %s: %w", f, err)
	}
	s.sources.Set(f, "")
	s.scheduleRenderLocked()
	s.notify(notice.Deleted(f.Label()), false, s.noticeTTL)
	return nil
}

// Copy writes one fragment to the clipboard. The write happens in the
// background; its outcome is reported as a notice. A blank fragment is
// refused with ErrEmptyInput and nothing is written.
func (s *Session) Copy(ctx context.Context, f fragment.Fragment) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", fragment.ErrUnknownFragment, int(f))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	text := s.sources.Get(f)
	if fragment.IsBlank(text) {
		s.notify(notice.MsgCopyEmpty, true, s.noticeTTL)
		return fragment.ErrEmptyInput
	}
	if s.clipboard == nil {
		s.notify(notice.CopyFailed(f.Label()), true, s.noticeTTL)
		return clipboard.ErrUnsupported
	}

	cb := s.clipboard
	s.copies.Add(1)
	go func() {
		defer s.copies.Done()
		if err := cb.WriteAll(text); err != nil {
			s.log.Warn("clipboard write failed", zap.String("fragment", f.String()), zap.Error(err))
			s.notify(notice.CopyFailed(f.Label()), true, s.noticeTTL)
			return
		}
		s.notify(notice.Copied(f.Label()), false, s.noticeTTL)
	}()
	return nil
}

// Export writes the zip archive of the non-empty fragments to w. When
// every fragment is blank nothing is written and ErrEmptyInput is returned.
func (s *Session) Export(ctx context.Context, w io.Writer, reporter progress.Reporter) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	if s.sources.Blank() {
		s.notify(notice.MsgExportEmpty, true, s.noticeTTL)
		return nil, fragment.ErrEmptyInput
	}
	names, err := export.Write(w, s.sources, reporter)
	if err != nil {
		return nil, err
	}
	s.notify(notice.MsgExportDone, false, s.noticeTTL)
	return names, nil
}

// Detach composes the document for a new top-level context. When every
// fragment is blank it reports an error notice and returns ErrEmptyInput.
func (s *Session) Detach(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return "", ErrNotLoaded
	}
	doc, err := compose.Detached(s.sources)
	if err != nil {
		s.notify(notice.MsgDetachedEmpty, true, s.detachedNoticeTTL)
		return "", err
	}
	return doc, nil
}

// Snapshot returns the current fragments and preferences.
func (s *Session) Snapshot() (fragment.Sources, fragment.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sources, s.prefs
}

// Preview returns the document composed from the current fragments,
// regardless of whether a debounced render is still pending.
func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return compose.Sources(s.sources)
}

// LastRendered returns the last document handed to the render target and
// how many renders have happened.
func (s *Session) LastRendered() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDoc, s.renders
}

// Flush runs a pending debounced render immediately.
func (s *Session) Flush() {
	s.debouncer.Flush()
}

// Close flushes any pending render and waits for background clipboard
// writes to finish.
func (s *Session) Close() {
	s.Flush()
	s.copies.Wait()
}

// scheduleRenderLocked renders now when debouncing is off, otherwise
// (re)starts the debounce timer. The timer reads the fragments when it
// fires, so the last edit always wins.
func (s *Session) scheduleRenderLocked() {
	if s.debouncer.Duration() <= 0 {
		s.renderNowLocked()
		return
	}
	s.debouncer.Debounce(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.renderLocked()
	})
}

func (s *Session) renderNowLocked() {
	s.debouncer.Cancel()
	s.renderLocked()
}

func (s *Session) renderLocked() {
	doc := compose.Sources(s.sources)
	s.lastDoc = doc
	s.renders++
	s.target.Render(doc)
}

// notify is called both with and without the lock held; Notifier
// implementations must not call back into the session.
func (s *Session) notify(message string, isError bool, ttl time.Duration) {
	s.notifier.Notify(notice.New(message, isError, ttl))
}

type discardTarget struct{}

func (discardTarget) Render(string) {}

type discardView struct{}

func (discardView) ApplyTheme(fragment.Theme) {}
func (discardView) ApplyLayout(fragment.LayoutMode) {}
