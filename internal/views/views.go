// Package views renders Inkwell's HTML pages. Templates are embedded in the
// binary and exposed through Echo's Renderer interface; every page shares a
// layout that shows the pending flash message and the signed-in state.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-cms/inkwell/internal/session"
)

//go:embed templates/*.html
var files embed.FS

// pageNames are the views the workflow renders. Each is parsed together
// with the shared layout.
var pageNames = []string{"index", "signin", "create", "edit", "document", "error"}

// Page is the data contract between handlers and templates. Handlers fill
// only the fields their view needs.
type Page struct {
	// Title is the browser/page title.
	Title string

	// Flash is the message shown once at the top of this page.
	Flash string

	// Username is the signed-in identity, empty when anonymous.
	Username string

	// Files lists document filenames (index view).
	Files []string

	// Filename is the document being viewed or edited.
	Filename string

	// Content is raw editable document content (edit view).
	Content string

	// HTML is pre-rendered, sanitized document HTML (document view).
	HTML template.HTML
}

// Renderer implements echo.Renderer over the embedded template set.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses all page templates. Panics on parse errors: a broken
// template is a build defect, not a runtime condition.
func NewRenderer() *Renderer {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		templates[name] = template.Must(template.ParseFS(files,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return &Renderer{templates: templates}
}

// Render writes the named page to w. Part of echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}

// RenderPage renders a page with the session's identity and pending flash
// filled in. A flash already set on the page (e.g. a validation message
// rendered with 422) takes precedence and leaves the session untouched.
func RenderPage(c echo.Context, code int, name string, page Page) error {
	sess := session.Get(c)
	if sess != nil {
		page.Username = sess.Username()
		if page.Flash == "" {
			flash, err := sess.PopFlash(c.Request().Context())
			if err != nil {
				// A lost flash message is not worth failing the page over.
				slog.Warn("popping flash", slog.Any("error", err))
			}
			page.Flash = flash
		}
	}
	return c.Render(code, name, page)
}
