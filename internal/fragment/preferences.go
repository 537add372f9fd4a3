package fragment

import "fmt"

// Theme is the color scheme of the editor page.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no theme has been stored.
const DefaultTheme = ThemeLight

// ParseTheme validates a stored or user-supplied theme.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("%w: theme %q", ErrInvalidPreference, s)
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// LayoutMode positions the preview relative to the editors.
type LayoutMode string

const (
	LayoutStacked      LayoutMode = "stacked"
	LayoutPreviewLeft  LayoutMode = "preview-left"
	LayoutPreviewRight LayoutMode = "preview-right"
)

// DefaultLayout is used when no layout has been stored.
const DefaultLayout = LayoutStacked

var layoutClasses = map[LayoutMode]string{
	LayoutStacked:      "view-bottom-preview",
	LayoutPreviewLeft:  "view-left-preview",
	LayoutPreviewRight: "view-right-preview",
}

// ParseLayout validates a stored or user-supplied layout mode.
func ParseLayout(s string) (LayoutMode, error) {
	m := LayoutMode(s)
	if _, ok := layoutClasses[m]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: layout %q", ErrInvalidPreference, s)
}

// Class returns the CSS class the editor page applies for the layout.
func (m LayoutMode) Class() string { return layoutClasses[m] }

// Preference names a stored view setting.
type Preference string

const (
	PrefTheme  Preference = "theme"
	PrefLayout Preference = "layout"
)

// ParsePreference resolves a preference name. "view" and "viewMode" are
// accepted for the layout.
func ParsePreference(s string) (Preference, error) {
	switch s {
	case "theme":
		return PrefTheme, nil
	case "layout", "view", "viewMode", "preferredViewMode":
		return PrefLayout, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPreference, s)
}

// Key returns the storage key the preference is persisted under.
func (p Preference) Key() string {
	if p == PrefLayout {
		return "preferredViewMode"
	}
	return "theme"
}

// Preferences holds the view settings of a session.
type Preferences struct {
	Theme  Theme      `json:"theme"`
	Layout LayoutMode `json:"layout"`
}

// DefaultPreferences returns the settings used before anything is stored.
func DefaultPreferences() Preferences {
	return Preferences{Theme: DefaultTheme, Layout: DefaultLayout}
}
