package adminui

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"practicalprague/internal/domain"
)

type templates struct {
	login  *template.Template
	drafts *template.Template
	draft  *template.Template
	errorT *template.Template
}

type viewData struct {
	Title string
	Error string
}

type loginViewData struct {
	Title string
	Error string
}

type draftsViewData struct {
	Title  string
	Drafts []draftRow
	Error  string
}

type draftRow struct {
	domain.PostSummary
	Date      string
	StudioURL string
}

type draftViewData struct {
	Title     string
	Post      domain.Post
	IsDraft   bool
	Date      string
	Body      template.HTML
	StudioURL string
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

var funcs = template.FuncMap{
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

func parseTemplates() (*templates, error) {
	parse := func(files ...string) (*template.Template, error) {
		t, err := template.New("base").Funcs(funcs).ParseFS(assets, files...)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	login, err := parse("templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login: %w", err)
	}
	drafts, err := parse("templates/layout.html", "templates/drafts.html")
	if err != nil {
		return nil, fmt.Errorf("parse drafts: %w", err)
	}
	draft, err := parse("templates/layout.html", "templates/draft.html")
	if err != nil {
		return nil, fmt.Errorf("parse draft: %w", err)
	}
	errorT, err := parse("templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &templates{login: login, drafts: drafts, draft: draft, errorT: errorT}, nil
}

func (t *templates) renderLogin(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.login.ExecuteTemplate(w, "login.html", data)
}

func (t *templates) renderDrafts(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = t.drafts.ExecuteTemplate(w, "drafts.html", data)
}

func (t *templates) renderDraft(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Robots-Tag", "noindex")
	w.WriteHeader(status)
	_ = t.draft.ExecuteTemplate(w, "draft.html", data)
}

func (t *templates) renderErrorPage(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.errorT.ExecuteTemplate(w, "error.html", data)
}

func (t *templates) renderError(w http.ResponseWriter, status int, title, msg string) {
	t.renderErrorPage(w, status, viewData{Title: title, Error: msg})
}
