package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

const (
	PageIndex = "index.html"
	PageNew   = "new.html"
	PageEdit  = "edit.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcMap = template.FuncMap{
	"day": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	},
	// value of a datetime-local input, read back as UTC by the form parser
	"datetimeLocal": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02T15:04:05.000")
	},
	"weekday": func(t time.Time) string {
		return t.Format("Mon 2 Jan")
	},
	"percentOf": func(value, maxValue int) int {
		if maxValue <= 0 || value <= 0 {
			return 0
		}
		return value * 100 / maxValue
	},
}

// Renderer renders the pages, each one parsed together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{PageIndex, PageNew, PageEdit} {
		tpl, err := template.New("layout.html").
			Funcs(funcMap).
			ParseFS(templatesFS, "templates/layout.html", "templates/form.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		pages[page] = tpl
	}

	return &Renderer{
		pages: pages,
	}, nil
}

// Render executes the page into w. The page is rendered into a buffer first, so nothing
// is written to w if rendering fails half way.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page: %s", page)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("execute template %s: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}
