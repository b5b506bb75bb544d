package httpapi

import (
	"net/http"
	"strings"

	"practicalprague/internal/auth"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin"

// ProtectedPrefixes are the admin paths that need a session. "/admin/draft"
// also covers "/admin/drafts"; both are listed to keep the rule explicit.
var ProtectedPrefixes = []string{"/admin/drafts", "/admin/draft"}

func isProtectedPath(path string) bool {
	for _, p := range ProtectedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequireAdminSession redirects requests for protected admin paths to the
// login page unless they carry the session cookie. Other paths and
// authenticated requests pass through untouched.
func RequireAdminSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProtectedPath(r.URL.Path) && !auth.HasSession(r) {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
