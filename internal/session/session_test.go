package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ziadkadry99/livepad/internal/clipboard"
	"github.com/ziadkadry99/livepad/internal/compose"
	"github.com/ziadkadry99/livepad/internal/db"
	"github.com/ziadkadry99/livepad/internal/fragment"
	"github.com/ziadkadry99/livepad/internal/notice"
	"github.com/ziadkadry99/livepad/internal/store"
)

type recorder struct {
	mu      sync.Mutex
	docs    []string
	themes  []fragment.Theme
	layouts []fragment.LayoutMode
	notices []notice.Notice
}

func (r *recorder) Render(doc string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
}

func (r *recorder) ApplyTheme(t fragment.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes = append(r.themes, t)
}

func (r *recorder) ApplyLayout(m fragment.LayoutMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts = append(r.layouts, m)
}

func (r *recorder) Notify(n notice.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) renderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func (r *recorder) lastDoc() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.docs) == 0 {
		return ""
	}
	return r.docs[len(r.docs)-1]
}

func (r *recorder) lastNotice() (notice.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notice.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

type fixture struct {
	store *store.Store
	rec   *recorder
	clip  *clipboard.Memory
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return &fixture{
		store: store.NewStore(database),
		rec:   &recorder{},
		clip:  &clipboard.Memory{},
	}
}

func (f *fixture) newSession(t *testing.T, debounce time.Duration) *Session {
	t.Helper()
	s := New(f.store, Options{
		Debounce:          debounce,
		NoticeTTL:         2 * time.Second,
		DetachedNoticeTTL: 3 * time.Second,
		Target:            f.rec,
		View:              f.rec,
		Notifier:          f.rec,
		Clipboard:         f.clip,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestLoadDefaults(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)

	src, prefs := s.Snapshot()
	if src != (fragment.Sources{}) {
		t.Errorf("expected empty fragments, got %+v", src)
	}
	if prefs != fragment.DefaultPreferences() {
		t.Errorf("expected default preferences, got %+v", prefs)
	}
	if fx.rec.renderCount() != 1 {
		t.Errorf("Load should render once, got %d", fx.rec.renderCount())
	}
	if fx.rec.lastDoc() != compose.Compose("", "", "") {
		t.Error("initial render should be the empty document")
	}
	if len(fx.rec.themes) != 1 || fx.rec.themes[0] != fragment.ThemeLight {
		t.Errorf("Load should apply the theme, got %v", fx.rec.themes)
	}
	if len(fx.rec.layouts) != 1 || fx.rec.layouts[0] != fragment.LayoutStacked {
		t.Errorf("Load should apply the layout, got %v", fx.rec.layouts)
	}
}

func TestOperationsBeforeLoad(t *testing.T) {
	fx := setupFixture(t)
	s := New(fx.store, Options{})
	ctx := context.Background()

	if err := s.OnEdit(ctx, fragment.Markup, "x"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("OnEdit before Load: %v", err)
	}
	if err := s.ClearAll(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("ClearAll before Load: %v", err)
	}
	if _, err := s.Detach(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Detach before Load: %v", err)
	}
	if _, err := s.ToggleTheme(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("ToggleTheme before Load: %v", err)
	}
}

func TestOnEditPersistsAndRenders(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	if err := s.OnEdit(ctx, fragment.Markup, "<h1>Hi</h1>"); err != nil {
		t.Fatalf("OnEdit: %v", err)
	}

	v, ok, _ := fx.store.Get(ctx, "html")
	if !ok || v != "<h1>Hi</h1>" {
		t.Errorf("stored html = %q ok=%v", v, ok)
	}
	if _, ok, _ := fx.store.Get(ctx, "css"); ok {
		t.Error("only the edited key should be persisted")
	}

	doc := fx.rec.lastDoc()
	_, body, _ := strings.Cut(doc, "<body>")
	if !strings.Contains(body, "<h1>Hi</h1>") {
		t.Error("body should contain the markup")
	}
	if !strings.Contains(doc, compose.FallbackRule) {
		t.Error("style block should contain the background fallback")
	}
	if fx.rec.renderCount() != 2 {
		t.Errorf("expected 2 renders, got %d", fx.rec.renderCount())
	}
}

func TestOnEditUnknownFragment(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	if err := s.OnEdit(context.Background(), fragment.Fragment(9), "x"); !errors.Is(err, fragment.ErrUnknownFragment) {
		t.Errorf("expected ErrUnknownFragment, got %v", err)
	}
}

func TestOnEditIdempotent(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	s.OnEdit(ctx, fragment.Style, "p { color: red }")
	once := fx.rec.lastDoc()
	storedOnce, _, _ := fx.store.Get(ctx, "css")

	s.OnEdit(ctx, fragment.Style, "p { color: red }")
	twice := fx.rec.lastDoc()
	storedTwice, _, _ := fx.store.Get(ctx, "css")

	if once != twice {
		t.Error("repeated edit should compose the same document")
	}
	if storedOnce != storedTwice {
		t.Error("repeated edit should persist the same value")
	}
}

func TestDebouncedEditsRenderFinalValue(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 20*time.Millisecond)
	ctx := context.Background()

	values := []string{"<p>a</p>", "<p>ab</p>", "<p>abc</p>", "<p>abcd</p>"}
	for _, v := range values {
		if err := s.OnEdit(ctx, fragment.Markup, v); err != nil {
			t.Fatalf("OnEdit: %v", err)
		}
		// Persistence is never delayed.
		stored, _, _ := fx.store.Get(ctx, "html")
		if stored != v {
			t.Fatalf("stored = %q, want %q", stored, v)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for fx.rec.renderCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if got := fx.rec.renderCount(); got != 2 {
		t.Fatalf("expected load render plus one debounced render, got %d", got)
	}
	want := compose.Compose("<p>abcd</p>", "", "")
	if fx.rec.lastDoc() != want {
		t.Errorf("final render does not match the final value:\n%s", fx.rec.lastDoc())
	}
	if s.Preview() != want {
		t.Error("Preview should match the final value")
	}
}

func TestFlushRendersPending(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, time.Hour)

	s.OnEdit(context.Background(), fragment.Script, "run()")
	if fx.rec.renderCount() != 1 {
		t.Fatalf("render should be pending, got %d renders", fx.rec.renderCount())
	}
	s.Flush()
	if fx.rec.lastDoc() != compose.Compose("", "", "run()") {
		t.Error("Flush should render the pending document")
	}
	doc, n := s.LastRendered()
	if n != 2 || doc != fx.rec.lastDoc() {
		t.Errorf("LastRendered = %d renders", n)
	}
}

func TestPreferenceChange(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()
	before := fx.rec.renderCount()

	if err := s.OnPreferenceChange(ctx, "layout", "preview-left"); err != nil {
		t.Fatalf("OnPreferenceChange: %v", err)
	}
	if err := s.OnPreferenceChange(ctx, "theme", "dark"); err != nil {
		t.Fatalf("OnPreferenceChange: %v", err)
	}

	if fx.rec.renderCount() != before {
		t.Error("preference changes must not recompose")
	}
	if fx.rec.layouts[len(fx.rec.layouts)-1] != fragment.LayoutPreviewLeft {
		t.Error("layout effect not applied")
	}
	if fx.rec.themes[len(fx.rec.themes)-1] != fragment.ThemeDark {
		t.Error("theme effect not applied")
	}

	// Restored verbatim by a fresh session.
	reloaded := fx.newSession(t, 0)
	_, prefs := reloaded.Snapshot()
	if prefs.Layout != fragment.LayoutPreviewLeft {
		t.Errorf("layout after reload = %q", prefs.Layout)
	}
	if prefs.Theme != fragment.ThemeDark {
		t.Errorf("theme after reload = %q", prefs.Theme)
	}

	if err := s.OnPreferenceChange(ctx, "layout", "diagonal"); !errors.Is(err, fragment.ErrInvalidPreference) {
		t.Errorf("expected ErrInvalidPreference, got %v", err)
	}
	if err := s.OnPreferenceChange(ctx, "font", "mono"); !errors.Is(err, fragment.ErrInvalidPreference) {
		t.Errorf("expected ErrInvalidPreference, got %v", err)
	}
}

func TestToggleTheme(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	got, err := s.ToggleTheme(ctx)
	if err != nil || got != fragment.ThemeDark {
		t.Fatalf("ToggleTheme = %q, %v", got, err)
	}
	got, _ = s.ToggleTheme(ctx)
	if got != fragment.ThemeLight {
		t.Errorf("second toggle = %q", got)
	}
	v, _, _ := fx.store.Get(ctx, "theme")
	if v != "light" {
		t.Errorf("stored theme = %q", v)
	}
}

func TestConcurrentToggleTheme(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	const toggles = 51
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ToggleTheme(ctx); err != nil {
				t.Errorf("ToggleTheme: %v", err)
			}
		}()
	}
	wg.Wait()

	_, prefs := s.Snapshot()
	if prefs.Theme != fragment.ThemeDark {
		t.Errorf("theme after %d toggles = %q, want dark", toggles, prefs.Theme)
	}
	v, _, _ := fx.store.Get(ctx, "theme")
	if v != "dark" {
		t.Errorf("stored theme = %q, want dark", v)
	}
}

func TestClearAllThenLoad(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	s.OnEdit(ctx, fragment.Markup, "<p>x</p>")
	s.OnEdit(ctx, fragment.Style, "p{}")
	s.OnEdit(ctx, fragment.Script, "x()")
	s.SetTheme(ctx, fragment.ThemeDark)
	s.SetLayout(ctx, fragment.LayoutPreviewRight)

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if fx.rec.lastDoc() != compose.Compose("", "", "") {
		t.Error("ClearAll should render the empty document")
	}
	keys, _ := fx.store.Keys(ctx)
	if len(keys) != 0 {
		t.Errorf("ClearAll should erase all keys, got %v", keys)
	}

	reloaded := fx.newSession(t, 0)
	src, prefs := reloaded.Snapshot()
	if src != (fragment.Sources{}) {
		t.Errorf("fragments after reload = %+v", src)
	}
	if prefs != fragment.DefaultPreferences() {
		t.Errorf("preferences after reload = %+v", prefs)
	}
}

func TestEmptyActionsAreRefused(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	var buf bytes.Buffer
	if _, err := s.Export(ctx, &buf, nil); !errors.Is(err, fragment.ErrEmptyInput) {
		t.Errorf("Export: expected ErrEmptyInput, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("no archive should be written")
	}
	n, _ := fx.rec.lastNotice()
	if !n.Error || n.Message != notice.MsgExportEmpty {
		t.Errorf("unexpected notice %+v", n)
	}

	if err := s.Copy(ctx, fragment.Markup); !errors.Is(err, fragment.ErrEmptyInput) {
		t.Errorf("Copy: expected ErrEmptyInput, got %v", err)
	}
	s.Close()
	if text, _ := fx.clip.ReadAll(); text != "" {
		t.Errorf("clipboard should be untouched, got %q", text)
	}
	n, _ = fx.rec.lastNotice()
	if n.Message != notice.MsgCopyEmpty {
		t.Errorf("unexpected notice %+v", n)
	}

	if _, err := s.Detach(ctx); !errors.Is(err, fragment.ErrEmptyInput) {
		t.Errorf("Detach: expected ErrEmptyInput, got %v", err)
	}
	n, _ = fx.rec.lastNotice()
	if n.Message != notice.MsgDetachedEmpty || n.TTL != 3*time.Second {
		t.Errorf("unexpected detached notice %+v", n)
	}

	if err := s.DeleteFragment(ctx, fragment.Style); !errors.Is(err, fragment.ErrEmptyInput) {
		t.Errorf("DeleteFragment: expected ErrEmptyInput, got %v", err)
	}
	n, _ = fx.rec.lastNotice()
	if n.Message != notice.MsgDeleteEmpty {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestCopy(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	s.OnEdit(ctx, fragment.Style, "h1 { color: red }")
	if err := s.Copy(ctx, fragment.Style); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	s.Close()

	text, _ := fx.clip.ReadAll()
	if text != "h1 { color: red }" {
		t.Errorf("clipboard = %q", text)
	}
	n, _ := fx.rec.lastNotice()
	if n.Error || n.Message != "CSS code copied!" {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestCopyFailure(t *testing.T) {
	fx := setupFixture(t)
	fx.clip.Err = errors.New("no display")
	s := fx.newSession(t, 0)
	ctx := context.Background()

	s.OnEdit(ctx, fragment.Script, "x()")
	if err := s.Copy(ctx, fragment.Script); err != nil {
		t.Fatalf("Copy should not fail synchronously: %v", err)
	}
	s.Close()

	n, _ := fx.rec.lastNotice()
	if !n.Error || n.Message != "Error: failed to copy JS code." {
		t.Errorf("unexpected notice %+v", n)
	}
	src, _ := s.Snapshot()
	if src.Script != "x()" {
		t.Error("clipboard failure must not touch editor state")
	}
}

func TestExport(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	s.OnEdit(ctx, fragment.Markup, "<h1>Hi</h1>")
	var buf bytes.Buffer
	names, err := s.Export(ctx, &buf, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(names) != 1 || names[0] != "index.html" {
		t.Errorf("names = %v", names)
	}
	if buf.Len() == 0 {
		t.Error("expected archive bytes")
	}
	n, _ := fx.rec.lastNotice()
	if n.Message != notice.MsgExportDone {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestDeleteFragment(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, 0)
	ctx := context.Background()

	s.OnEdit(ctx, fragment.Markup, "<p>bye</p>")
	if err := s.DeleteFragment(ctx, fragment.Markup); err != nil {
		t.Fatalf("DeleteFragment: %v", err)
	}
	v, ok, _ := fx.store.Get(ctx, "html")
	if !ok || v != "" {
		t.Errorf("stored html = %q ok=%v", v, ok)
	}
	if fx.rec.lastDoc() != compose.Compose("", "", "") {
		t.Error("delete should recompose")
	}
	n, _ := fx.rec.lastNotice()
	if n.Error || n.Message != "HTML code deleted!" {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestDetach(t *testing.T) {
	fx := setupFixture(t)
	s := fx.newSession(t, time.Hour)
	ctx := context.Background()

	s.OnEdit(ctx, fragment.Markup, "<h1>Detached</h1>")
	doc, err := s.Detach(ctx)
	if err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if doc != compose.Compose("<h1>Detached</h1>", "", "") {
		t.Error("detached document should reflect the latest edit even while a render is pending")
	}
}
