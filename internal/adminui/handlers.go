package adminui

import (
	"errors"
	"fmt"
	"net/http"

	"practicalprague/internal/auth"
	"practicalprague/internal/domain"
	"practicalprague/internal/render"
)

func (a *app) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	if a.gate.CheckSession(sessionValue(r)) {
		http.Redirect(w, r, "/admin/drafts", http.StatusFound)
		return
	}
	a.templates.renderLogin(w, http.StatusOK, loginViewData{Title: "Admin Access"})
}

func (a *app) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.templates.renderLogin(w, http.StatusBadRequest, loginViewData{Title: "Admin Access", Error: "Invalid form"})
		return
	}

	clientID := auth.ClientIdentifier(r)
	err := a.gate.Authenticate(r.PostForm.Get("password"), clientID)
	if err != nil {
		status, msg := loginFailure(err)
		if status == http.StatusInternalServerError {
			a.logger.Error("adminui: login error", "client", clientID, "err", err)
		} else {
			a.logger.Warn("adminui: login rejected", "client", clientID, "reason", msg)
		}
		a.templates.renderLogin(w, status, loginViewData{Title: "Admin Access", Error: msg})
		return
	}

	a.logger.Info("adminui: login succeeded", "client", clientID)
	auth.SetSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/admin/drafts", http.StatusSeeOther)
}

// loginFailure maps gate errors to the same status codes and messages the
// JSON endpoint uses.
func loginFailure(err error) (int, string) {
	var rl *domain.RateLimitedError
	switch {
	case errors.As(err, &rl):
		return http.StatusTooManyRequests, fmt.Sprintf("Too many attempts. Try again in %d minutes.", rl.MinutesLeft)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid password"
	case errors.Is(err, domain.ErrMisconfigured):
		return http.StatusInternalServerError, "Admin password not configured"
	default:
		return http.StatusInternalServerError, "Authentication failed"
	}
}

func (a *app) handleLogoutPost(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (a *app) handleDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := a.posts.Drafts(r.Context())
	if err != nil {
		a.logger.Error("adminui: list drafts failed", "err", err)
		a.templates.renderDrafts(w, http.StatusInternalServerError, draftsViewData{Title: "Draft Posts", Error: "Failed to fetch drafts"})
		return
	}

	rows := make([]draftRow, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, draftRow{
			PostSummary: d,
			Date:        formatDate(d.PublishedAt),
			StudioURL:   a.studioLink(d.ID),
		})
	}
	a.templates.renderDrafts(w, http.StatusOK, draftsViewData{Title: "Draft Posts", Drafts: rows})
}

func (a *app) handleDraftPreview(w http.ResponseWriter, r *http.Request) {
	post, err := a.posts.Preview(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.templates.renderError(w, http.StatusNotFound, "Not found", "No post with that slug.")
			return
		}
		a.logger.Error("adminui: load preview failed", "slug", r.PathValue("slug"), "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to load post")
		return
	}

	a.templates.renderDraft(w, http.StatusOK, draftViewData{
		Title:     post.Title,
		Post:      post,
		IsDraft:   post.IsDraft(),
		Date:      formatDate(post.PublishedAt),
		Body:      render.PortableText(post.Body),
		StudioURL: a.studioLink(post.ID),
	})
}

func sessionValue(r *http.Request) string {
	c, err := r.Cookie(auth.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
