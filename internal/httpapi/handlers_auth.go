package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"practicalprague/internal/auth"
	"practicalprague/internal/domain"
)

type adminAuthRequest struct {
	Password json.RawMessage `json:"password"`
}

// password reports the submitted password. A missing or null field reads as
// ""; any other non-string value is reported as not usable.
func (req *adminAuthRequest) password() (string, bool) {
	if len(req.Password) == 0 || string(req.Password) == "null" {
		return "", true
	}
	var pw string
	if err := json.Unmarshal(req.Password, &pw); err != nil {
		return "", false
	}
	return pw, true
}

type successResponse struct {
	Success bool `json:"success"`
}

type sessionStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// handleAdminAuthLogin checks the limiter before reading the body, so a
// malformed request still costs the client an attempt.
func (a *api) handleAdminAuthLogin(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientIdentifier(r)

	if err := a.gate.Admit(clientID); err != nil {
		a.logger.Warn("admin login rate limited", "client", clientID, "remote", auth.RemoteHost(r))
		WriteDomainError(w, err)
		return
	}

	var req *adminAuthRequest
	if err := decodeJSON(w, r, &req); err != nil || req == nil {
		a.logger.Warn("admin login bad request", "client", clientID, "err", err)
		WriteError(w, http.StatusInternalServerError, msgAuthFailed)
		return
	}

	var err error
	if password, ok := req.password(); ok {
		err = a.gate.Verify(password, clientID)
	} else {
		err = a.gate.Reject()
	}
	switch {
	case err == nil:
		auth.SetSessionCookie(w, a.cookieSecure)
		a.logger.Info("admin login succeeded", "client", clientID)
		WriteJSON(w, http.StatusOK, successResponse{Success: true})
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.logger.Warn("admin login failed", "client", clientID)
		WriteDomainError(w, err)
	case errors.Is(err, domain.ErrMisconfigured):
		a.logger.Error("admin login unavailable: admin password not configured")
		WriteDomainError(w, err)
	default:
		a.logger.Error("admin login error", "client", clientID, "err", err)
		WriteError(w, http.StatusInternalServerError, msgAuthFailed)
	}
}

func (a *api) handleAdminAuthStatus(w http.ResponseWriter, r *http.Request) {
	if auth.HasSession(r) {
		WriteJSON(w, http.StatusOK, sessionStatusResponse{Authenticated: true})
		return
	}
	WriteJSON(w, http.StatusUnauthorized, sessionStatusResponse{Authenticated: false})
}

func (a *api) handleAdminAuthLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, a.cookieSecure)
	WriteJSON(w, http.StatusOK, successResponse{Success: true})
}
