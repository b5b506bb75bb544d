package adminui

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"practicalprague/internal/auth"
	"practicalprague/internal/service"
)

type Opts struct {
	Logger *slog.Logger

	Gate         *service.GateService
	Posts        *service.PostsService
	CookieSecure bool

	// StudioURL enables "Edit in Studio" links when set.
	StudioURL string
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Gate == nil || opts.Posts == nil {
		logger.Warn("adminui: missing services", "gate", opts.Gate != nil, "posts", opts.Posts != nil)
		return http.NotFoundHandler()
	}

	app := &app{
		logger:       logger,
		gate:         opts.Gate,
		posts:        opts.Posts,
		cookieSecure: opts.CookieSecure,
		studioURL:    strings.TrimRight(opts.StudioURL, "/"),
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("adminui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin", app.handleLoginGet)
	mux.HandleFunc("POST /admin", app.handleLoginPost)
	mux.HandleFunc("GET /admin/{$}", app.redirectAdmin)
	mux.HandleFunc("POST /admin/logout", app.handleLogoutPost)
	mux.HandleFunc("GET /admin/drafts", app.requireSession(app.handleDrafts))
	mux.HandleFunc("GET /admin/draft/{slug}", app.requireSession(app.handleDraftPreview))

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		logger.Error("adminui: static fs setup failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	static := http.StripPrefix("/admin/static/", http.FileServer(http.FS(staticFS)))
	mux.Handle("GET /admin/static/", static)
	mux.Handle("HEAD /admin/static/", static)

	return mux
}

type app struct {
	logger *slog.Logger

	gate  *service.GateService
	posts *service.PostsService

	cookieSecure bool
	studioURL    string

	templates *templates
}

func (a *app) redirectAdmin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// requireSession repeats the router-level guard so the handler is safe to
// mount on its own.
func (a *app) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.HasSession(r) {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (a *app) studioLink(postID string) string {
	if a.studioURL == "" || postID == "" {
		return ""
	}
	return a.studioURL + "/structure/post;" + postID
}
