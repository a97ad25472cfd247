package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

// Renderer turns a page name and its data into an HTML response. Handlers
// depend on this interface, not on html/template, so handler tests can swap
// in a recorder and assert on the page name and data instead of scraping
// markup.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer is the production Renderer, backed by the embedded
// html/template files. Each page is parsed together with the shared layout
// at construction time, so template errors surface at startup rather than
// on first request.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses all embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("web.NewTemplateRenderer: read templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		name := entry.Name()
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("web.NewTemplateRenderer: parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return &TemplateRenderer{pages: pages}, nil
}

// Render executes the page into a buffer first, so a template failure never
// leaves a half-written response behind.
func (tr *TemplateRenderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := tr.pages[page]
	if !ok {
		return fmt.Errorf("web.TemplateRenderer.Render: unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("web.TemplateRenderer.Render: execute %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("web.TemplateRenderer.Render: write %s: %w", page, err)
	}
	return nil
}
