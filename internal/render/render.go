// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site
// and the admin dashboard. Templates are embedded in the binary.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/session"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for the <title> tag
	Section   string         // Active nav section (e.g. "dashboard", "posts")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	admin  map[string]*template.Template
	public map[string]*template.Template
}

// standalone lists admin templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standalone = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
}

var funcMap = template.FuncMap{
	"activeClass": func(current, target string) string {
		if current == target {
			return "active"
		}
		return ""
	},
	// deref safely dereferences a string pointer for use in templates.
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	// uuidEq compares a *uuid.UUID pointer with a uuid.UUID value.
	"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
		return ptr != nil && *ptr == val
	},
	// raw marks store-sanitized HTML as safe to render.
	"raw": func(s string) template.HTML {
		return template.HTML(s)
	},
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with its set's base layout,
// except standalone admin pages.
func New() (*Renderer, error) {
	r := &Renderer{
		admin:  make(map[string]*template.Template),
		public: make(map[string]*template.Template),
	}

	if err := r.parseSet("admin", r.admin); err != nil {
		return nil, err
	}
	if err := r.parseSet("public", r.public); err != nil {
		return nil, err
	}
	return r, nil
}

func (rn *Renderer) parseSet(set string, dest map[string]*template.Template) error {
	dir := "templates/" + set
	entries, err := templateFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read embedded templates %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmplName := name[:len(name)-len(".html")]

		var tmpl *template.Template
		var parseErr error
		if set == "admin" && standalone[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
				templateFS, dir+"/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
				templateFS, dir+"/base.html", dir+"/"+name,
			)
		}
		if parseErr != nil {
			return fmt.Errorf("parse template %s/%s: %w", set, name, parseErr)
		}
		dest[tmplName] = tmpl
	}
	return nil
}

// Admin renders an admin page. The CSRF token and session are injected
// from the request context.
func (rn *Renderer) Admin(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.GetCSRFToken(r)
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	execName := "base.html"
	if standalone[name] {
		execName = name + ".html"
	}
	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Public renders a public site page.
func (rn *Renderer) Public(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.public[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := executeTemplate(w, tmpl, "base.html", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// NotFound renders the public 404 page.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	rn.Public(w, r, "notfound", &PageData{Title: "Not Found"})
}

func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}
