// Package fragment defines the three editable sources of a playground and
// the view preferences stored next to them.
package fragment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFragment is returned when a name does not identify a fragment.
var ErrUnknownFragment = errors.New("unknown fragment")

// ErrEmptyInput is returned when an action has no content to work with.
var ErrEmptyInput = errors.New("empty input")

// ErrInvalidPreference is returned for an unknown preference name or value.
var ErrInvalidPreference = errors.New("invalid preference")

// Fragment identifies one of the three user-authored sources.
type Fragment int

const (
	Markup Fragment = iota
	Style
	Script
)

// All lists the fragments in composition order.
var All = []Fragment{Markup, Style, Script}

type descriptor struct {
	name     string
	key      string
	fileName string
	label    string
	aliases  []string
}

var descriptors = map[Fragment]descriptor{
	Markup: {name: "html", key: "html", fileName: "index.html", label: "HTML", aliases: []string{"markup"}},
	Style:  {name: "css", key: "css", fileName: "styles.css", label: "CSS", aliases: []string{"style"}},
	Script: {name: "js", key: "js", fileName: "script.js", label: "JS", aliases: []string{"script", "javascript"}},
}

// Parse resolves a fragment by its short name ("html", "css", "js") or a
// long alias ("markup", "style", "script").
func Parse(name string) (Fragment, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range All {
		d := descriptors[f]
		if n == d.name {
			return f, nil
		}
		for _, a := range d.aliases {
			if n == a {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFragment, name)
}

// String returns the short name used in URLs and CLI arguments.
func (f Fragment) String() string {
	if d, ok := descriptors[f]; ok {
		return d.name
	}
	return fmt.Sprintf("fragment(%d)", int(f))
}

// Key returns the storage key the fragment is persisted under.
func (f Fragment) Key() string { return descriptors[f].key }

// FileName returns the name the fragment is exported as.
func (f Fragment) FileName() string { return descriptors[f].fileName }

// Label returns the upper-case name shown in notices.
func (f Fragment) Label() string { return descriptors[f].label }

// Valid reports whether f is one of Markup, Style, Script.
func (f Fragment) Valid() bool {
	_, ok := descriptors[f]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (f Fragment) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFragment, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fragment) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Sources holds the text of all three fragments.
type Sources struct {
	Markup string `json:"html"`
	Style  string `json:"css"`
	Script string `json:"js"`
}

// Get returns the text of fragment f.
func (s Sources) Get(f Fragment) string {
	switch f {
	case Markup:
		return s.Markup
	case Style:
		return s.Style
	case Script:
		return s.Script
	}
	return ""
}

// Set replaces the text of fragment f.
func (s *Sources) Set(f Fragment, text string) {
	switch f {
	case Markup:
		s.Markup = text
	case Style:
		s.Style = text
	case Script:
		s.Script = text
	}
}

// Blank reports whether every fragment is empty or whitespace-only.
func (s Sources) Blank() bool {
	return IsBlank(s.Markup) && IsBlank(s.Style) && IsBlank(s.Script)
}

// IsBlank reports whether text is empty or whitespace-only.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
