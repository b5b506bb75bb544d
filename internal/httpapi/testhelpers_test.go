package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"practicalprague/internal/auth"
	"practicalprague/internal/domain"
	"practicalprague/internal/ratelimit"
	"practicalprague/internal/seo"
	"practicalprague/internal/service"
)

type stubPostsStore struct {
	t *testing.T

	allFunc    func(context.Context) ([]domain.PostSummary, error)
	draftsFunc func(context.Context) ([]domain.PostSummary, error)
}

func (s *stubPostsStore) FeaturedPosts(context.Context) ([]domain.PostSummary, error) {
	s.t.Fatalf("FeaturedPosts called unexpectedly")
	return nil, context.Canceled
}

func (s *stubPostsStore) LatestPosts(context.Context, int) ([]domain.PostSummary, error) {
	s.t.Fatalf("LatestPosts called unexpectedly")
	return nil, context.Canceled
}

func (s *stubPostsStore) PostsByCategory(context.Context, string) ([]domain.PostSummary, error) {
	s.t.Fatalf("PostsByCategory called unexpectedly")
	return nil, context.Canceled
}

func (s *stubPostsStore) AllPosts(ctx context.Context) ([]domain.PostSummary, error) {
	if s.allFunc != nil {
		return s.allFunc(ctx)
	}
	s.t.Fatalf("AllPosts called unexpectedly")
	return nil, context.Canceled
}

func (s *stubPostsStore) PostBySlug(context.Context, string) (domain.Post, error) {
	s.t.Fatalf("PostBySlug called unexpectedly")
	return domain.Post{}, context.Canceled
}

func (s *stubPostsStore) RelatedPosts(context.Context, string, []string, int) ([]domain.PostSummary, error) {
	s.t.Fatalf("RelatedPosts called unexpectedly")
	return nil, context.Canceled
}

func (s *stubPostsStore) PostBySlugAdmin(context.Context, string) (domain.Post, error) {
	s.t.Fatalf("PostBySlugAdmin called unexpectedly")
	return domain.Post{}, context.Canceled
}

func (s *stubPostsStore) DraftPosts(ctx context.Context) ([]domain.PostSummary, error) {
	if s.draftsFunc != nil {
		return s.draftsFunc(ctx)
	}
	s.t.Fatalf("DraftPosts called unexpectedly")
	return nil, context.Canceled
}

type testServer struct {
	handler http.Handler
	now     *time.Time
	limiter *ratelimit.Limiter
}

func newTestServer(t *testing.T, secret string, store service.PostsStore, pages, admin http.Handler) *testServer {
	t.Helper()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	lim := ratelimit.NewDefault()
	lim.Now = clock

	v, err := auth.ParseSecret(secret, false)
	if err != nil {
		t.Fatalf("ParseSecret: %v", err)
	}

	var posts *service.PostsService
	if store != nil {
		posts = &service.PostsService{Store: store}
	}

	h := NewRouter(RouterOpts{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Gate:   &service.GateService{Limiter: lim, Secret: v, Now: clock},
		Posts:  posts,
		Site:   seo.SiteConfig{URL: "https://example.com"},
		Pages:  pages,
		Admin:  admin,
		Now:    clock,
	})
	return &testServer{handler: h, now: &now, limiter: lim}
}

func (s *testServer) do(method, path, body string, setup func(*http.Request)) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func fromIP(ip string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("X-Forwarded-For", ip) }
}

func withSession(value string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: value})
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}
