package httpapi

import (
	"net/http"

	"practicalprague/internal/auth"
	"practicalprague/internal/domain"
)

type draftsResponse struct {
	Drafts []domain.PostSummary `json:"drafts"`
}

func (a *api) handleAdminDrafts(w http.ResponseWriter, r *http.Request) {
	if !auth.HasSession(r) {
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	if a.posts == nil {
		WriteError(w, http.StatusInternalServerError, msgDraftsFailed)
		return
	}

	drafts, err := a.posts.Drafts(r.Context())
	if err != nil {
		a.logger.Error("list drafts failed", "err", err)
		WriteError(w, http.StatusInternalServerError, msgDraftsFailed)
		return
	}
	if drafts == nil {
		drafts = []domain.PostSummary{}
	}
	WriteJSON(w, http.StatusOK, draftsResponse{Drafts: drafts})
}
