package auth

import (
	"net"
	"net/http"
	"time"
)

const (
	SessionCookieName = "admin_auth"

	// SessionValue is the whole credential: there is no server-side session.
	SessionValue = "authenticated"

	SessionTTL = 7 * 24 * time.Hour
)

// UnknownClient buckets every request that carries no forwarding header.
const UnknownClient = "unknown"

// IsSessionValue reports whether a cookie value grants admin access. Only an
// exact match of the sentinel counts.
func IsSessionValue(v string) bool {
	return v == SessionValue
}

// HasSession reports whether r carries a valid admin session cookie.
func HasSession(r *http.Request) bool {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	return IsSessionValue(c.Value)
}

func SetSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    SessionValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(SessionTTL.Seconds()),
		Expires:  time.Now().Add(SessionTTL),
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// ClientIdentifier returns the best-effort client key used for rate limiting:
// the X-Forwarded-For value as sent, then X-Real-IP, then UnknownClient. A
// proxy chain is one key; clients behind different chains get separate buckets.
func ClientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	return UnknownClient
}

// RemoteHost is the peer address without its port, for logging only.
func RemoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
