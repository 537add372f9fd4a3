package fragment

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Fragment
	}{
		{"html", Markup},
		{"HTML", Markup},
		{"markup", Markup},
		{"css", Style},
		{" style ", Style},
		{"js", Script},
		{"javascript", Script},
		{"script", Script},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := Parse("scss"); !errors.Is(err, ErrUnknownFragment) {
		t.Errorf("expected ErrUnknownFragment, got %v", err)
	}
}

func TestLookupTable(t *testing.T) {
	tests := []struct {
		f                     Fragment
		key, file, label, str string
	}{
		{Markup, "html", "index.html", "HTML", "html"},
		{Style, "css", "styles.css", "CSS", "css"},
		{Script, "js", "script.js", "JS", "js"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if tt.f.Key() != tt.key {
				t.Errorf("Key() = %q, want %q", tt.f.Key(), tt.key)
			}
			if tt.f.FileName() != tt.file {
				t.Errorf("FileName() = %q, want %q", tt.f.FileName(), tt.file)
			}
			if tt.f.Label() != tt.label {
				t.Errorf("Label() = %q, want %q", tt.f.Label(), tt.label)
			}
			if tt.f.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.f.String(), tt.str)
			}
		})
	}
	if Fragment(7).Valid() {
		t.Error("Fragment(7) should not be valid")
	}
}

func TestTextMarshaling(t *testing.T) {
	var f Fragment
	if err := f.UnmarshalText([]byte("css")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if f != Style {
		t.Errorf("got %v, want css", f)
	}
	text, err := Script.MarshalText()
	if err != nil || string(text) != "js" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
	if _, err := Fragment(9).MarshalText(); err == nil {
		t.Error("expected error for invalid fragment")
	}
}

func TestSources(t *testing.T) {
	var s Sources
	if !s.Blank() {
		t.Error("zero Sources should be blank")
	}
	s.Set(Style, "  \n\t")
	if !s.Blank() {
		t.Error("whitespace-only Sources should be blank")
	}
	s.Set(Markup, "<h1>Hi</h1>")
	if s.Blank() {
		t.Error("Sources with markup should not be blank")
	}
	if s.Get(Markup) != "<h1>Hi</h1>" {
		t.Errorf("Get(Markup) = %q", s.Get(Markup))
	}
	if s.Get(Fragment(5)) != "" {
		t.Error("Get on invalid fragment should be empty")
	}
}

func TestPreferences(t *testing.T) {
	d := DefaultPreferences()
	if d.Theme != ThemeLight || d.Layout != LayoutStacked {
		t.Errorf("unexpected defaults: %+v", d)
	}
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Error("Toggle should flip light and dark")
	}
	if _, err := ParseTheme("sepia"); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("expected ErrInvalidPreference, got %v", err)
	}
	m, err := ParseLayout("preview-left")
	if err != nil || m != LayoutPreviewLeft {
		t.Fatalf("ParseLayout = %q, %v", m, err)
	}
	if m.Class() != "view-left-preview" {
		t.Errorf("Class() = %q", m.Class())
	}
	if _, err := ParseLayout("bottom"); err == nil {
		t.Error("expected error for unknown layout")
	}

	p, err := ParsePreference("viewMode")
	if err != nil || p != PrefLayout {
		t.Errorf("ParsePreference(viewMode) = %q, %v", p, err)
	}
	if PrefLayout.Key() != "preferredViewMode" || PrefTheme.Key() != "theme" {
		t.Error("unexpected preference keys")
	}
	if _, err := ParsePreference("font"); err == nil {
		t.Error("expected error for unknown preference")
	}
}
