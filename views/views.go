// Package views holds the embedded HTML templates and their helper funcs.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"path"
	"sync"
	"time"

	"github.com/yatube-go/yatube/utils"
)

//go:embed templates
var files embed.FS

var (
	once sync.Once
	tmpl *template.Template
)

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"linebreaks": utils.Linebreaks,
		"truncate":   utils.Truncate,
		"date": func(t time.Time) string {
			return t.Format("2 January 2006 15:04")
		},
		"media": func(rel string) string {
			return path.Join("/media", rel)
		},
	}
}

// Templates parses the embedded templates once. Every page is addressed by its
// file name, e.g. "index.html" or "404.html".
func Templates() *template.Template {
	once.Do(func() {
		tmpl = template.Must(template.New("").Funcs(FuncMap()).ParseFS(files,
			"templates/*.html",
			"templates/partials/*.html",
			"templates/about/*.html",
			"templates/misc/*.html",
			"templates/auth/*.html",
		))
	})
	return tmpl
}

// RenderFragment executes a single named template into memory.
func RenderFragment(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Templates().ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
