package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"practicalprague/internal/domain"
)

const (
	msgInvalidPassword = "Invalid password"
	msgNotConfigured   = "Admin password not configured"
	msgAuthFailed      = "Authentication failed"
	msgUnauthorized    = "Unauthorized"
	msgDraftsFailed    = "Failed to fetch drafts"
	msgInternal        = "Internal server error"
)

type errorBody struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorBody{Error: message})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RateLimitMessage is the user-facing text for a locked-out client.
func RateLimitMessage(minutesLeft int) string {
	return fmt.Sprintf("Too many attempts. Try again in %d minutes.", minutesLeft)
}

func WriteDomainError(w http.ResponseWriter, err error) {
	var rl *domain.RateLimitedError
	switch {
	case errors.As(err, &rl):
		WriteError(w, http.StatusTooManyRequests, RateLimitMessage(rl.MinutesLeft))
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, msgInvalidPassword)
	case errors.Is(err, domain.ErrMisconfigured):
		WriteError(w, http.StatusInternalServerError, msgNotConfigured)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	default:
		WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}
