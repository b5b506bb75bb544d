package siteui

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"practicalprague/internal/domain"
	"practicalprague/internal/render"
	"practicalprague/internal/seo"
)

const (
	homeLatestLimit  = 3
	relatedLimit     = 3
	maxDescriptionLn = 160
)

func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	if a.postsSvc == nil {
		a.renderUnavailable(w, r)
		return
	}

	featured, err := a.postsSvc.Featured(r.Context())
	if err != nil {
		a.fail(w, r, "load featured posts", err)
		return
	}
	latest, err := a.postsSvc.Latest(r.Context(), homeLatestLimit)
	if err != nil {
		a.fail(w, r, "load latest posts", err)
		return
	}

	data := a.page("", "", "/")
	data.Featured = cards(featured)
	data.Posts = cards(latest)
	a.templates.renderHome(w, http.StatusOK, data)
}

func (a *app) handleArticles(w http.ResponseWriter, r *http.Request) {
	if a.postsSvc == nil {
		a.renderUnavailable(w, r)
		return
	}
	posts, err := a.postsSvc.All(r.Context())
	a.renderList(w, r, listPage{
		Title: "All Articles",
		Intro: "Every guide, recommendation, and practical tip, in chronological order.",
		Path:  "/articles",
		Empty: "No articles yet.",
	}, posts, err)
}

func (a *app) handleSection(s Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.postsSvc == nil {
			a.renderUnavailable(w, r)
			return
		}
		posts, err := a.postsSvc.ByCategory(r.Context(), s.Slug)
		a.renderList(w, r, listPage{
			Title: s.Title,
			Intro: s.Description,
			Path:  "/" + s.Slug,
			Empty: "No articles in this category yet.",
		}, posts, err)
	}
}

type listPage struct {
	Title string
	Intro string
	Path  string
	Empty string
}

func (a *app) renderList(w http.ResponseWriter, r *http.Request, p listPage, posts []domain.PostSummary, err error) {
	if err != nil {
		a.fail(w, r, "load "+p.Path, err)
		return
	}

	data := a.page(p.Title, p.Intro, p.Path)
	data.Heading = p.Title
	data.Intro = p.Intro
	data.Posts = cards(posts)
	data.EmptyMessage = p.Empty
	a.templates.renderList(w, http.StatusOK, data)
}

func (a *app) handleArticle(w http.ResponseWriter, r *http.Request) {
	if a.postsSvc == nil {
		a.renderUnavailable(w, r)
		return
	}

	slug := r.PathValue("slug")
	post, err := a.postsSvc.Article(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.handleNotFound(w, r)
			return
		}
		a.fail(w, r, "load article", err)
		return
	}

	related, err := a.postsSvc.Related(r.Context(), post, relatedLimit)
	if err != nil {
		a.logger.Warn("siteui: load related posts failed", "slug", slug, "err", err)
		related = nil
	}

	description := articleDescription(post)
	title := post.MetaTitle
	if title == "" {
		title = post.Title
	}

	data := a.page(title, description, "/articles/"+post.Slug)
	data.Meta.OGType = "article"
	if post.FeaturedImage != nil {
		data.Meta.Image = post.FeaturedImage.URL
	}
	data.Article = &articleView{
		Post: post,
		Date: formatDate(post),
		Body: render.PortableText(post.Body),
	}
	data.Related = cards(related)

	for _, schema := range []any{
		seo.NewArticleSchema(a.site, post, post.Excerpt),
		seo.NewBreadcrumbSchema(a.site, post),
	} {
		ld, err := seo.JSONLD(schema)
		if err != nil {
			a.logger.Error("siteui: encode json-ld failed", "slug", slug, "err", err)
			continue
		}
		data.JSONLD = append(data.JSONLD, ld)
	}

	a.templates.renderArticle(w, http.StatusOK, data)
}

func (a *app) handleAbout(w http.ResponseWriter, r *http.Request) {
	data := a.page("About", "Who writes Practical Prague and how to use the site.", "/about")
	a.templates.renderAbout(w, http.StatusOK, data)
}

func (a *app) handleNotFound(w http.ResponseWriter, r *http.Request) {
	data := a.page("Page not found", "", r.URL.Path)
	data.Meta.NoIndex = true
	data.Error = "We couldn't find that page."
	a.templates.renderError(w, http.StatusNotFound, data)
}

func (a *app) renderUnavailable(w http.ResponseWriter, r *http.Request) {
	data := a.page("Unavailable", "", r.URL.Path)
	data.Meta.NoIndex = true
	data.Error = "Content is temporarily unavailable."
	a.templates.renderError(w, http.StatusServiceUnavailable, data)
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	a.logger.Error("siteui: "+what+" failed", "path", r.URL.Path, "err", err)
	data := a.page("Something went wrong", "", r.URL.Path)
	data.Meta.NoIndex = true
	data.Error = "Something went wrong loading this page. Please try again."
	a.templates.renderError(w, http.StatusInternalServerError, data)
}

func (a *app) page(title, description, path string) viewData {
	return viewData{
		Meta:     a.site.Meta(title, description, path),
		Site:     a.site,
		Sections: Sections,
		Path:     path,
		Year:     a.now().Year(),
	}
}

// articleDescription prefers the SEO description, then the excerpt, then the
// start of the body text.
func articleDescription(p domain.Post) string {
	switch {
	case p.MetaDescription != "":
		return p.MetaDescription
	case p.Excerpt != "":
		return p.Excerpt
	}
	return truncate(render.PlainText(p.Body), maxDescriptionLn)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)[:n]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
