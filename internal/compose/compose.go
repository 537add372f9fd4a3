// Package compose assembles the three fragments into one standalone
// document for the preview.
package compose

import (
	"strings"

	"github.com/ziadkadry99/livepad/internal/fragment"
)

// BackgroundProperty is the substring whose presence in the style fragment
// suppresses the fallback rule. The check is textual: a match inside a CSS
// comment or an unrelated selector counts too.
const BackgroundProperty = "background-color"

// FallbackRule gives the preview body an opaque background so a dark
// editor theme does not bleed through.
const FallbackRule = "body { background-color: #fff; }"

// Compose builds the preview document. It is a pure function of its inputs.
func Compose(markup, style, script string) string {
	var b strings.Builder
	b.Grow(len(markup) + len(style) + len(script) + 192)

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<style>\n")
	if HasFallback(style) {
		b.WriteString(FallbackRule)
		b.WriteString("\n")
	}
	b.WriteString(style)
	b.WriteString("\n</style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString(markup)
	b.WriteString("\n<script>")
	b.WriteString(script)
	b.WriteString("</script>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return b.String()
}

// Sources composes a fragment.Sources value.
func Sources(src fragment.Sources) string {
	return Compose(src.Markup, src.Style, src.Script)
}

// HasFallback reports whether Compose will emit FallbackRule for style.
func HasFallback(style string) bool {
	return !strings.Contains(style, BackgroundProperty)
}

// Detached composes a document for a new top-level context. Unlike the
// inline preview it refuses to produce a document when every fragment is
// blank.
func Detached(src fragment.Sources) (string, error) {
	if src.Blank() {
		return "", fragment.ErrEmptyInput
	}
	return Sources(src), nil
}
