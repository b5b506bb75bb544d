// Package siteui serves the public travel guide pages.
package siteui

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"practicalprague/internal/seo"
	"practicalprague/internal/service"
)

type Opts struct {
	Logger *slog.Logger

	Posts *service.PostsService
	Site  seo.SiteConfig

	// Now defaults to time.Now.
	Now func() time.Time
}

// Section is a top-level category page. Slug is both the path and the CMS
// category slug.
type Section struct {
	Slug        string
	Title       string
	Description string
}

var Sections = []Section{
	{Slug: "eat-drink", Title: "Eat & Drink", Description: "Honest recommendations for cafés, restaurants, and places worth eating in Prague."},
	{Slug: "neighborhoods", Title: "Neighborhoods", Description: "Where to stay, what each area feels like, and what to expect from Prague's different districts."},
	{Slug: "things-to-do", Title: "Things to Do", Description: "What to see, skip, and experience in Prague, from an expat perspective."},
	{Slug: "practical-tips", Title: "Practical Tips", Description: "The logistics, systems, and unspoken rules that help you navigate Prague like a local."},
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Posts == nil {
		logger.Warn("siteui: no content source configured")
	}

	app := &app{
		logger:   logger,
		postsSvc: opts.Posts,
		site:     opts.Site.Normalize(),
		nowFunc:  opts.Now,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("siteui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", app.handleHome)
	mux.HandleFunc("GET /articles", app.handleArticles)
	mux.HandleFunc("GET /articles/{slug}", app.handleArticle)
	mux.HandleFunc("GET /about", app.handleAbout)
	for _, s := range Sections {
		mux.HandleFunc("GET /"+s.Slug, app.handleSection(s))
	}
	mux.HandleFunc("/", app.handleNotFound)

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		logger.Error("siteui: static fs setup failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	mux.Handle("GET /static/", static)
	mux.Handle("HEAD /static/", static)

	return mux
}

type app struct {
	logger *slog.Logger

	postsSvc *service.PostsService
	site     seo.SiteConfig

	templates *templates
	nowFunc   func() time.Time
}

func (a *app) now() time.Time {
	if a.nowFunc != nil {
		return a.nowFunc()
	}
	return time.Now()
}
