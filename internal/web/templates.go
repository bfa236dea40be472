package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	webembed "github.com/erazemk/ewaste/web"
)

const layoutTemplate = "layout.html"

// Templates holds one parsed template set per page, each including the layout.
type Templates struct {
	pages map[string]*template.Template
}

// LoadTemplates parses every page in the embedded templates directory
// together with the layout.
func LoadTemplates() (*Templates, error) {
	return loadTemplates(webembed.TemplatesFS())
}

func loadTemplates(tfs fs.FS) (*Templates, error) {
	layout, err := template.ParseFS(tfs, layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	names, err := fs.Glob(tfs, "*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	ts := &Templates{pages: make(map[string]*template.Template)}
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		page, err := base.ParseFS(tfs, name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		ts.pages[name] = page
	}
	if len(ts.pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return ts, nil
}

// RenderStatus executes page into a buffer first so that a template error
// becomes a 500 instead of a truncated page.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := ts.pages[page]
	if !ok {
		slog.Error("unknown template", "template", page)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title string
	Error string
}
