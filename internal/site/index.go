package site

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ziadkadry99/livepad/internal/fragment"
)

// IndexPage renders the editor page.
type IndexPage struct {
	tmpl       *template.Template
	exportName string
	noticeMS   int64
}

type editorView struct {
	Name  string
	Label string
	Text  string
}

// NewIndexPage parses the editor page template.
func NewIndexPage(exportName string, noticeMS int64) (*IndexPage, error) {
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	return &IndexPage{tmpl: tmpl, exportName: exportName, noticeMS: noticeMS}, nil
}

// Render writes the editor page pre-filled with src and prefs.
func (p *IndexPage) Render(w io.Writer, src fragment.Sources, prefs fragment.Preferences) error {
	editors := make([]editorView, 0, len(fragment.All))
	for _, f := range fragment.All {
		editors = append(editors, editorView{Name: f.String(), Label: f.Label(), Text: src.Get(f)})
	}
	return p.tmpl.Execute(w, struct {
		Theme       string
		Layout      fragment.LayoutMode
		LayoutClass string
		Layouts     []fragment.LayoutMode
		Editors     []editorView
		ExportName  string
		NoticeMS    int64
	}{
		Theme:       string(prefs.Theme),
		Layout:      prefs.Layout,
		LayoutClass: prefs.Layout.Class(),
		Layouts:     []fragment.LayoutMode{fragment.LayoutStacked, fragment.LayoutPreviewLeft, fragment.LayoutPreviewRight},
		Editors:     editors,
		ExportName:  p.exportName,
		NoticeMS:    p.noticeMS,
	})
}
