package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"
)

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return m
}

func TestAdminAuthLockoutAndRecovery(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)
	ip := fromIP("1.2.3.4")

	for i := 1; i <= 5; i++ {
		rec := s.do(http.MethodPost, "/api/admin/auth", `{"password":"wrong"}`, ip)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
		if got := decodeBody(t, rec.Body.String())["error"]; got != "Invalid password" {
			t.Fatalf("attempt %d: unexpected error %v", i, got)
		}
	}

	rec := s.do(http.MethodPost, "/api/admin/auth", `{"password":"s3cret"}`, ip)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := decodeBody(t, rec.Body.String())["error"]; got != "Too many attempts. Try again in 15 minutes." {
		t.Fatalf("unexpected 429 message %v", got)
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("blocked attempt must not set a cookie")
	}

	*s.now = s.now.Add(15*time.Minute + time.Second)

	rec = s.do(http.MethodPost, "/api/admin/auth", `{"password":"s3cret"}`, ip)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after window, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec.Body.String())["success"]; got != true {
		t.Fatalf("expected success true, got %v", got)
	}

	c := sessionCookie(rec)
	if c == nil || c.Value != "authenticated" {
		t.Fatalf("expected session cookie, got %#v", c)
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteStrictMode || c.MaxAge != 7*24*60*60 || c.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %#v", c)
	}
	if s.limiter.Attempts("1.2.3.4") != 0 {
		t.Fatalf("expected limiter entry cleared")
	}
}

func TestAdminAuthKeysOnWholeForwardedValue(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)

	for i := 0; i < 5; i++ {
		s.do(http.MethodPost, "/api/admin/auth", `{"password":"x"}`, fromIP("5.5.5.5, 10.0.0.1"))
	}

	rec := s.do(http.MethodPost, "/api/admin/auth", `{"password":"x"}`, fromIP("5.5.5.5, 10.0.0.1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected same bucket for same chain, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/admin/auth", `{"password":"x"}`, fromIP("5.5.5.5"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected a different chain to get its own bucket, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/admin/auth", `{"password":"x"}`, fromIP("6.6.6.6"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected independent bucket, got %d", rec.Code)
	}
}

func TestAdminAuthHeaderlessClientsShareBucket(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)

	for i := 0; i < 5; i++ {
		s.do(http.MethodPost, "/api/admin/auth", `{"password":"x"}`, nil)
	}
	if got := s.limiter.Attempts("unknown"); got != 5 {
		t.Fatalf("expected 5 attempts on unknown bucket, got %d", got)
	}

	rec := s.do(http.MethodPost, "/api/admin/auth", `{"password":"x"}`, func(r *http.Request) {
		r.Header.Set("X-Real-IP", "7.7.7.7")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected X-Real-IP to use its own bucket, got %d", rec.Code)
	}
}

func TestAdminAuthMalformedBodyCountsAsAttempt(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)

	rec := s.do(http.MethodPost, "/api/admin/auth", `{"password":`, fromIP("1.1.1.1"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeBody(t, rec.Body.String())["error"]; got != "Authentication failed" {
		t.Fatalf("unexpected error %v", got)
	}
	if got := s.limiter.Attempts("1.1.1.1"); got != 1 {
		t.Fatalf("expected 1 attempt recorded, got %d", got)
	}
}

func TestAdminAuthNullBodyIsServerError(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)

	rec := s.do(http.MethodPost, "/api/admin/auth", `null`, fromIP("1.1.1.1"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeBody(t, rec.Body.String())["error"]; got != "Authentication failed" {
		t.Fatalf("unexpected error %v", got)
	}
	if got := s.limiter.Attempts("1.1.1.1"); got != 1 {
		t.Fatalf("expected 1 attempt recorded, got %d", got)
	}
}

func TestAdminAuthNonStringPasswordIsInvalid(t *testing.T) {
	s := newTestServer(t, "123", nil, nil, nil)

	for _, body := range []string{`{"password":123}`, `{"password":["123"]}`, `{"password":true}`} {
		rec := s.do(http.MethodPost, "/api/admin/auth", body, fromIP("1.1.1.1"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", body, rec.Code)
		}
		if got := decodeBody(t, rec.Body.String())["error"]; got != "Invalid password" {
			t.Fatalf("%s: unexpected error %v", body, got)
		}
	}
	if got := s.limiter.Attempts("1.1.1.1"); got != 3 {
		t.Fatalf("expected 3 attempts recorded, got %d", got)
	}

	rec := s.do(http.MethodPost, "/api/admin/auth", `{}`, fromIP("2.2.2.2"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing password: expected 401, got %d", rec.Code)
	}
}

func TestAdminAuthMisconfigured(t *testing.T) {
	s := newTestServer(t, "", nil, nil, nil)

	rec := s.do(http.MethodPost, "/api/admin/auth", `{"password":"anything"}`, fromIP("1.1.1.1"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeBody(t, rec.Body.String())["error"]; got != "Admin password not configured" {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestAdminAuthStatus(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)

	rec := s.do(http.MethodGet, "/api/admin/auth", "", nil)
	if rec.Code != http.StatusUnauthorized || strings.TrimSpace(rec.Body.String()) != `{"authenticated":false}` {
		t.Fatalf("unexpected anonymous status: %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/api/admin/auth", "", withSession("yes"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("non-sentinel cookie must not authenticate, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/api/admin/auth", "", withSession("authenticated"))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"authenticated":true}` {
		t.Fatalf("unexpected authenticated status: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminAuthLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)

	rec := s.do(http.MethodDelete, "/api/admin/auth", "", withSession("authenticated"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	c := sessionCookie(rec)
	if c == nil || c.MaxAge >= 0 || c.Value != "" {
		t.Fatalf("expected cleared cookie, got %#v", c)
	}
}

func TestAPIUnknownRouteIsJSON404(t *testing.T) {
	s := newTestServer(t, "s3cret", nil, nil, nil)

	rec := s.do(http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("expected json content type, got %q", rec.Header().Get("Content-Type"))
	}
}
