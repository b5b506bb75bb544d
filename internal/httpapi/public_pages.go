package httpapi

import (
	"context"
	"net/http"
	"time"

	"practicalprague/internal/domain"
	"practicalprague/internal/seo"
)

// handleSitemap degrades to the static pages when the content source fails,
// so crawlers never see an error for the sitemap itself.
func (a *api) handleSitemap(w http.ResponseWriter, r *http.Request) {
	posts := a.sitemapPosts(r.Context())

	body, err := seo.Sitemap(a.site, posts, a.now())
	if err != nil {
		a.logger.Error("render sitemap failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (a *api) sitemapPosts(ctx context.Context) []domain.PostSummary {
	if a.posts == nil {
		return nil
	}
	posts, err := a.posts.All(ctx)
	if err != nil {
		a.logger.Warn("sitemap: list posts failed", "err", err)
		return nil
	}
	return posts
}

func (a *api) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(a.site)))
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.health(ctx); err != nil {
			a.logger.Warn("health check failed", "err", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
