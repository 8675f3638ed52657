package transport

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

//go:embed views/*.html
var viewFS embed.FS

const layoutFile = "layout.html"

// PageData is the value every page template executes against.
type PageData struct {
	Flash       *Flash
	Username    string
	Departments []string
	Stats       interface{}
}

// Views holds one parsed template set per page, each sharing the layout.
type Views struct {
	pages map[string]*template.Template
}

func NewViews() (*Views, error) {
	return NewViewsFS(viewFS, "views")
}

func NewViewsFS(fsys fs.FS, dir string) (*Views, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read views: %w", err)
	}

	v := &Views{pages: make(map[string]*template.Template)}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == layoutFile || path.Ext(name) != ".html" {
			continue
		}
		tpl, err := template.New(layoutFile).Funcs(funcs).ParseFS(fsys, path.Join(dir, layoutFile), path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		v.pages[name[:len(name)-len(".html")]] = tpl
	}
	return v, nil
}

// Render buffers the output so a template error never leaves a half-written page.
func (v *Views) Render(w http.ResponseWriter, status int, page string, data interface{}) error {
	tpl, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown view %q", page)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"percent": func(part, total int) float64 {
		if total == 0 {
			return 0
		}
		return float64(part) * 100 / float64(total)
	},
}
