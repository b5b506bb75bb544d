package adminui

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"practicalprague/internal/auth"
	"practicalprague/internal/domain"
	"practicalprague/internal/ratelimit"
	"practicalprague/internal/service"
)

type stubPostsStore struct {
	service.PostsStore

	drafts  []domain.PostSummary
	post    domain.Post
	postErr error
	slugs   []string
}

func (s *stubPostsStore) DraftPosts(context.Context) ([]domain.PostSummary, error) {
	return s.drafts, nil
}

func (s *stubPostsStore) PostBySlugAdmin(_ context.Context, slug string) (domain.Post, error) {
	s.slugs = append(s.slugs, slug)
	return s.post, s.postErr
}

func newTestApp(t *testing.T, store *stubPostsStore) (http.Handler, *ratelimit.Limiter) {
	t.Helper()

	lim := ratelimit.NewDefault()
	v, err := auth.ParseSecret("s3cret", false)
	if err != nil {
		t.Fatalf("ParseSecret: %v", err)
	}

	h := New(Opts{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Gate:      &service.GateService{Limiter: lim, Secret: v},
		Posts:     &service.PostsService{Store: store},
		StudioURL: "https://studio.example.com/",
	})
	return h, lim
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: auth.SessionValue})
	return req
}

func loginForm(password string) *http.Request {
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	return req
}

func TestLoginPageRendersForm(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="password"`) {
		t.Fatalf("expected password field")
	}
}

func TestLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{})

	rec := serve(h, authed(httptest.NewRequest(http.MethodGet, "/admin", nil)))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/drafts" {
		t.Fatalf("expected redirect to drafts, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLoginFormSuccessSetsCookie(t *testing.T) {
	h, lim := newTestApp(t, &stubPostsStore{})

	rec := serve(h, loginForm("s3cret"))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/drafts" {
		t.Fatalf("expected redirect to drafts, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.Value == auth.SessionValue {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected session cookie")
	}
	if lim.Attempts("1.2.3.4") != 0 {
		t.Fatalf("expected attempts cleared")
	}
}

func TestLoginFormSharesLimiter(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{})

	for i := 0; i < 5; i++ {
		rec := serve(h, loginForm("wrong"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid password") {
			t.Fatalf("expected invalid password message")
		}
	}

	rec := serve(h, loginForm("s3cret"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Too many attempts. Try again in 15 minutes.") {
		t.Fatalf("expected rate limit message, got %s", rec.Body.String())
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{})

	rec := serve(h, authed(httptest.NewRequest(http.MethodPost, "/admin/logout", nil)))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %#v", cookies)
	}
}

func TestDraftsRequireSession(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{})

	for _, path := range []string{"/admin/drafts", "/admin/draft/wip"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin" {
			t.Fatalf("%s: expected redirect to /admin, got %d", path, rec.Code)
		}
	}
}

func TestDraftsList(t *testing.T) {
	store := &stubPostsStore{drafts: []domain.PostSummary{
		{ID: "d1", Title: "Beer gardens", Slug: "beer-gardens", Excerpt: "Summer spots", PublishedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Categories: []string{"Eat & Drink", "Tips"}},
	}}
	h, _ := newTestApp(t, store)

	rec := serve(h, authed(httptest.NewRequest(http.MethodGet, "/admin/drafts", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"1 draft<",
		"Beer gardens",
		"June 1, 2025",
		"Eat &amp; Drink, Tips",
		`href="/admin/draft/beer-gardens"`,
		`href="https://studio.example.com/structure/post;d1"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("drafts page missing %q:\n%s", want, body)
		}
	}
}

func TestDraftsEmpty(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{})

	rec := serve(h, authed(httptest.NewRequest(http.MethodGet, "/admin/drafts", nil)))
	if !strings.Contains(rec.Body.String(), "No drafts found") || !strings.Contains(rec.Body.String(), "0 drafts") {
		t.Fatalf("expected empty state:\n%s", rec.Body.String())
	}
}

func TestDraftPreview(t *testing.T) {
	store := &stubPostsStore{post: domain.Post{
		PostSummary: domain.PostSummary{ID: "d1", Title: "Beer gardens", Slug: "beer-gardens", Status: domain.PostStatusDraft},
		Author:      "Jan",
		Body: []domain.Block{{
			Type:     "block",
			Style:    "normal",
			Children: []domain.Span{{Type: "span", Text: "Hello <world>"}},
		}},
	}}
	h, _ := newTestApp(t, store)

	rec := serve(h, authed(httptest.NewRequest(http.MethodGet, "/admin/draft/beer-gardens", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "DRAFT PREVIEW") || !strings.Contains(body, "<p>Hello &lt;world&gt;</p>") {
		t.Fatalf("unexpected preview:\n%s", body)
	}
	if rec.Header().Get("X-Robots-Tag") != "noindex" {
		t.Fatalf("expected noindex header")
	}
	if len(store.slugs) != 1 || store.slugs[0] != "beer-gardens" {
		t.Fatalf("unexpected slugs %v", store.slugs)
	}

	store.post.Status = domain.PostStatusPublished
	rec = serve(h, authed(httptest.NewRequest(http.MethodGet, "/admin/draft/beer-gardens", nil)))
	if !strings.Contains(rec.Body.String(), "PUBLISHED") {
		t.Fatalf("expected published banner")
	}
}

func TestDraftPreviewNotFound(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{postErr: domain.ErrNotFound})

	rec := serve(h, authed(httptest.NewRequest(http.MethodGet, "/admin/draft/missing", nil)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	h, _ := newTestApp(t, &stubPostsStore{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin/static/admin.css", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ".banner") {
		t.Fatalf("expected stylesheet, got %d", rec.Code)
	}
}
