package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/livepad/internal/fragment"
)

// languages maps each fragment to the lexer used for its code block.
var languages = map[fragment.Fragment]string{
	fragment.Markup: "html",
	fragment.Style:  "css",
	fragment.Script: "javascript",
}

// chromaStyles maps the editor theme to a highlighting style.
var chromaStyles = map[fragment.Theme]string{
	fragment.ThemeLight: "github",
	fragment.ThemeDark:  "monokai",
}

// SourceRenderer renders the fragments as a syntax-highlighted page.
type SourceRenderer struct {
	md   map[fragment.Theme]goldmark.Markdown
	tmpl *template.Template
}

// NewSourceRenderer builds one markdown pipeline per theme.
func NewSourceRenderer() (*SourceRenderer, error) {
	tmpl, err := template.New("source").Parse(sourceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing source template: %w", err)
	}

	r := &SourceRenderer{md: make(map[fragment.Theme]goldmark.Markdown), tmpl: tmpl}
	for theme, style := range chromaStyles {
		r.md[theme] = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(style),
				),
			),
		)
	}
	return r, nil
}

// Markdown returns the markdown document listing every fragment in a
// fenced code block.
func Markdown(src fragment.Sources) string {
	var b strings.Builder
	for _, f := range fragment.All {
		text := src.Get(f)
		fmt.Fprintf(&b, "## %s\n\n", f.FileName())
		if fragment.IsBlank(text) {
			b.WriteString("_empty_\n\n")
			continue
		}
		fence := fenceFor(text)
		fmt.Fprintf(&b, "%s%s\n%s\n%s\n\n", fence, languages[f], strings.TrimRight(text, "\n"), fence)
	}
	return b.String()
}

// fenceFor returns a backtick fence longer than any backtick run in text,
// so code containing ``` cannot close the block early.
func fenceFor(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// HTML converts the fragments to highlighted HTML without the page chrome.
func (r *SourceRenderer) HTML(src fragment.Sources, theme fragment.Theme) (string, error) {
	md, ok := r.md[theme]
	if !ok {
		md = r.md[fragment.DefaultTheme]
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(src)), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// Render writes the complete source page.
func (r *SourceRenderer) Render(w io.Writer, src fragment.Sources, theme fragment.Theme) error {
	body, err := r.HTML(src, theme)
	if err != nil {
		return err
	}
	return r.tmpl.Execute(w, struct {
		Theme   string
		Content template.HTML
	}{
		Theme:   string(theme),
		Content: template.HTML(body),
	})
}
