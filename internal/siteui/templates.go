package siteui

import (
	"fmt"
	"html/template"
	"net/http"

	"practicalprague/internal/domain"
	"practicalprague/internal/seo"
)

type templates struct {
	home    *template.Template
	list    *template.Template
	article *template.Template
	about   *template.Template
	errorT  *template.Template
}

type viewData struct {
	Meta     seo.PageMeta
	Site     seo.SiteConfig
	Sections []Section
	Path     string

	Heading      string
	Intro        string
	Featured     []postCard
	Posts        []postCard
	Related      []postCard
	EmptyMessage string

	Article *articleView
	JSONLD  []template.HTML

	Error string
	Year  int
}

type postCard struct {
	Title      string
	Slug       string
	Excerpt    string
	Date       string
	Categories []string
}

type articleView struct {
	Post domain.Post
	Date string
	Body template.HTML
}

func cards(posts []domain.PostSummary) []postCard {
	out := make([]postCard, 0, len(posts))
	for _, p := range posts {
		out = append(out, postCard{
			Title:      p.Title,
			Slug:       p.Slug,
			Excerpt:    p.Excerpt,
			Date:       formatDate(domain.Post{PostSummary: p}),
			Categories: p.Categories,
		})
	}
	return out
}

func formatDate(p domain.Post) string {
	if p.PublishedAt.IsZero() {
		return ""
	}
	return p.PublishedAt.Format("January 2, 2006")
}

func parseTemplates() (*templates, error) {
	parse := func(files ...string) (*template.Template, error) {
		t, err := template.New("base").ParseFS(assets, files...)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	home, err := parse("templates/layout.html", "templates/cards.html", "templates/home.html")
	if err != nil {
		return nil, fmt.Errorf("parse home: %w", err)
	}
	list, err := parse("templates/layout.html", "templates/cards.html", "templates/list.html")
	if err != nil {
		return nil, fmt.Errorf("parse list: %w", err)
	}
	article, err := parse("templates/layout.html", "templates/cards.html", "templates/article.html")
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}
	about, err := parse("templates/layout.html", "templates/about.html")
	if err != nil {
		return nil, fmt.Errorf("parse about: %w", err)
	}
	errorT, err := parse("templates/layout.html", "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &templates{home: home, list: list, article: article, about: about, errorT: errorT}, nil
}

func renderPage(w http.ResponseWriter, t *template.Template, name string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, name, data)
}

func (t *templates) renderHome(w http.ResponseWriter, status int, data any) {
	renderPage(w, t.home, "home.html", status, data)
}

func (t *templates) renderList(w http.ResponseWriter, status int, data any) {
	renderPage(w, t.list, "list.html", status, data)
}

func (t *templates) renderArticle(w http.ResponseWriter, status int, data any) {
	renderPage(w, t.article, "article.html", status, data)
}

func (t *templates) renderAbout(w http.ResponseWriter, status int, data any) {
	renderPage(w, t.about, "about.html", status, data)
}

func (t *templates) renderError(w http.ResponseWriter, status int, data any) {
	renderPage(w, t.errorT, "error.html", status, data)
}
