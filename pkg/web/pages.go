// Package web renders server-side pages from html/template sets. Templates are
// parsed once at startup; each page is a clone of the shared layouts.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// PageDef binds a template file to a page title.
type PageDef struct {
	Template string
	Title    string
}

// PageData is passed to every page template.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type PageData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds pre-parsed page templates.
type TemplateSet struct {
	pages    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layouts matching layoutGlob, then clones them once
// per page and parses the page from pageDir. Parsing failures surface here
// rather than at request time.
func NewTemplateSet(fsys fs.FS, layoutGlob, pageDir, basePath string, funcs template.FuncMap, pages []PageDef) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	pageFS, err := fs.Sub(fsys, pageDir)
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", p.Template, err)
		}
		if _, err := t.ParseFS(pageFS, p.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", p.Template, err)
		}
		set[p.Template] = t
	}

	return &TemplateSet{
		pages:    set,
		basePath: basePath,
	}, nil
}

// BasePath returns the prefix pages are served under.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// ErrorHandler renders page with the given status.
func (ts *TemplateSet) ErrorHandler(layout string, page PageDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{Title: page.Title, BasePath: ts.basePath}
		if err := ts.Render(w, status, layout, page.Template, data); err != nil {
			http.Error(w, http.StatusText(status), status)
		}
	}
}

// Render executes layout for the page at pagePath. Output is buffered so a
// failing template never produces a partial page.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layout, pagePath string, data PageData) error {
	t, ok := ts.pages[pagePath]
	if !ok {
		return fmt.Errorf("template not found: %s", pagePath)
	}

	if data.BasePath == "" {
		data.BasePath = ts.basePath
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
