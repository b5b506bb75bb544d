package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"practicalprague/internal/seo"
	"practicalprague/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	// Health reports backing-store health for /healthz; nil means always ok.
	Health func(context.Context) error

	Gate         *service.GateService
	Posts        *service.PostsService
	Site         seo.SiteConfig
	CookieSecure bool

	// Pages serves the public site, Admin the /admin HTML area. Either may be nil.
	Pages http.Handler
	Admin http.Handler

	Now func() time.Time
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:       logger,
		health:       opts.Health,
		gate:         opts.Gate,
		posts:        opts.Posts,
		site:         opts.Site.Normalize(),
		cookieSecure: opts.CookieSecure,
		nowFunc:      opts.Now,
	}

	mux := http.NewServeMux()

	if api.gate == nil {
		mux.HandleFunc("POST /api/admin/auth", handleNotImplemented)
	} else {
		mux.HandleFunc("POST /api/admin/auth", api.handleAdminAuthLogin)
	}
	mux.HandleFunc("GET /api/admin/auth", api.handleAdminAuthStatus)
	mux.HandleFunc("DELETE /api/admin/auth", api.handleAdminAuthLogout)
	mux.HandleFunc("GET /api/admin/drafts", api.handleAdminDrafts)
	mux.HandleFunc("/api/", handleAPINotFound)

	mux.HandleFunc("GET /sitemap.xml", api.handleSitemap)
	mux.HandleFunc("GET /robots.txt", api.handleRobots)
	mux.HandleFunc("GET /healthz", api.handleHealthz)

	if opts.Admin != nil {
		mux.Handle("/admin", opts.Admin)
		mux.Handle("/admin/", opts.Admin)
	}
	if opts.Pages != nil {
		mux.Handle("/", opts.Pages)
	}

	var h http.Handler = mux
	h = RequireAdminSession(h)
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "Not implemented")
}

func handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}

type api struct {
	logger *slog.Logger

	health func(context.Context) error

	gate         *service.GateService
	posts        *service.PostsService
	site         seo.SiteConfig
	cookieSecure bool

	nowFunc func() time.Time
}

func (a *api) now() time.Time {
	if a.nowFunc != nil {
		return a.nowFunc()
	}
	return time.Now()
}
